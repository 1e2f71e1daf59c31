package domain

// ScrapeRequest is the body of a title-scrape request.
type ScrapeRequest struct {
	URL      string `json:"url" binding:"required"`
	MaxPages int    `json:"max_pages"`
}

// ListingPage is one scraped result page: the listing titles found on it and
// the resolved link to the following page, empty on the last page.
type ListingPage struct {
	Titles      []string
	NextPageURL string
}

// WordCount is one ranked entry of a title word-frequency report.
type WordCount struct {
	Word      string  `json:"word"`
	Count     int     `json:"count"`
	Frequency float64 `json:"frequency"`
}

// WordAnalysis aggregates word frequencies across all scraped titles.
// Frequency is the percentage of all counted words, rounded to two decimals.
type WordAnalysis struct {
	TotalWords  int         `json:"total_words"`
	UniqueWords int         `json:"unique_words"`
	TopWords    []WordCount `json:"top_words"`
}

// ScrapingInfo reports which URL was scraped and how many pages were visited.
type ScrapingInfo struct {
	PagesScraped int    `json:"pages_scraped"`
	URL          string `json:"url"`
}

// TitleReport is the response of one title-scrape request. Titles holds at
// most the first hundred titles; AllTitlesCount is the untruncated total.
type TitleReport struct {
	Success        bool         `json:"success"`
	TotalTitles    int          `json:"total_titles"`
	Titles         []string     `json:"titles"`
	AllTitlesCount int          `json:"all_titles_count"`
	WordAnalysis   WordAnalysis `json:"word_analysis"`
	ScrapingInfo   ScrapingInfo `json:"scraping_info"`
}
