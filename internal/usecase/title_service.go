package usecase

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/listinglens/backend/internal/domain"
)

// Scraping caps. Result pages past the fourth rarely contain organic
// listings, and 200 titles saturate the word statistics.
const (
	maxScrapePages = 4
	maxTitles      = 200
	reportTitles   = 100
	topWordCount   = 50
	minWordLength  = 3
)

// germanStopWords lists terms too common in German listing titles to carry
// signal, plus marketplace filler like condition and bundle words.
var germanStopWords = map[string]bool{
	"der": true, "die": true, "das": true, "den": true, "dem": true, "des": true,
	"ein": true, "eine": true, "einer": true, "eines": true, "einem": true, "einen": true,
	"und": true, "oder": true, "aber": true, "doch": true, "sondern": true, "denn": true,
	"wenn": true, "als": true, "wie": true, "wo": true, "was": true, "wer": true,
	"mit": true, "für": true, "von": true, "zu": true, "bei": true, "nach": true,
	"vor": true, "über": true, "unter": true, "durch": true, "gegen": true, "ohne": true,
	"um": true, "an": true, "auf": true, "aus": true, "in": true,
	"ist": true, "sind": true, "war": true, "waren": true, "hat": true, "haben": true,
	"wird": true, "werden": true,
	"ich": true, "du": true, "er": true, "sie": true, "es": true, "wir": true,
	"ihr": true, "sich": true, "mich": true, "dich": true, "uns": true, "euch": true,
	"ihm": true,
	"nicht": true, "nur": true, "auch": true, "noch": true, "schon": true, "mehr": true,
	"sehr": true, "so": true, "dann": true, "hier": true, "da": true, "dort": true,
	"neu": true, "gebraucht": true, "original": true, "genuine": true, "brand": true,
	"marke": true, "set": true, "kit": true, "pack": true, "piece": true, "stück": true,
}

// TitleService scrapes listing titles from marketplace result pages and
// reports their word frequencies.
type TitleService struct {
	fetcher  domain.ListingPageFetcher
	maxPages int
}

// NewTitleService creates a title scraper. maxPages caps how many result
// pages one request may walk; values outside [1, 4] fall back to 4.
func NewTitleService(fetcher domain.ListingPageFetcher, maxPages int) *TitleService {
	if maxPages < 1 || maxPages > maxScrapePages {
		maxPages = maxScrapePages
	}
	return &TitleService{fetcher: fetcher, maxPages: maxPages}
}

// ScrapeTitles walks result pages starting at pageURL, following pagination
// up to the page budget, and builds a word-frequency report over every title
// found. Only eBay URLs are accepted. maxPages below 1 or above the service
// cap uses the cap.
func (s *TitleService) ScrapeTitles(ctx context.Context, pageURL string, maxPages int) (*domain.TitleReport, error) {
	if pageURL == "" || !strings.Contains(strings.ToLower(pageURL), "ebay") {
		return nil, domain.ErrInvalidURL
	}

	pages := maxPages
	if pages < 1 || pages > s.maxPages {
		pages = s.maxPages
	}

	titles, pagesScraped, fetchErr := s.collectTitles(ctx, pageURL, pages)
	if len(titles) == 0 {
		if fetchErr != nil {
			return nil, fetchErr
		}
		return nil, domain.ErrNoTitles
	}

	analysis := buildWordAnalysis(titles)
	log.Printf("[Scraper] %d titles across %d pages, %d words counted",
		len(titles), pagesScraped, analysis.TotalWords)

	display := titles
	if len(display) > reportTitles {
		display = display[:reportTitles]
	}

	return &domain.TitleReport{
		Success:        true,
		TotalTitles:    len(titles),
		Titles:         display,
		AllTitlesCount: len(titles),
		WordAnalysis:   analysis,
		ScrapingInfo: domain.ScrapingInfo{
			PagesScraped: pagesScraped,
			URL:          pageURL,
		},
	}, nil
}

// collectTitles follows pagination until the page budget, the title cap, or
// the last page is reached. Pagination is a chain of next links, so a failed
// page ends the walk; titles gathered so far are kept and the error is
// returned for the zero-title case.
func (s *TitleService) collectTitles(ctx context.Context, pageURL string, maxPages int) ([]string, int, error) {
	var titles []string
	seen := make(map[string]bool)
	pagesScraped := 0
	currentURL := pageURL

	for page := 1; page <= maxPages && currentURL != ""; page++ {
		log.Printf("[Scraper] fetching page %d: %s", page, currentURL)

		listing, err := s.fetcher.FetchPage(ctx, currentURL)
		if err != nil {
			log.Printf("[Scraper] page %d failed: %v", page, err)
			return titles, pagesScraped, err
		}
		pagesScraped++

		for _, title := range listing.Titles {
			if seen[title] {
				continue
			}
			seen[title] = true
			titles = append(titles, title)

			if len(titles) >= maxTitles {
				log.Printf("[Scraper] title cap reached on page %d", page)
				return titles, pagesScraped, nil
			}
		}

		log.Printf("[Scraper] page %d: %d titles so far", page, len(titles))
		currentURL = listing.NextPageURL
	}

	return titles, pagesScraped, nil
}

// buildWordAnalysis tokenizes all titles and ranks the most frequent terms.
// Frequency is the percentage of all counted words, rounded to two decimals.
func buildWordAnalysis(titles []string) domain.WordAnalysis {
	counts := countWords(strings.Join(titles, " "))

	totalWords := 0
	for _, count := range counts {
		totalWords += count
	}

	words := make([]domain.WordCount, 0, len(counts))
	for word, count := range counts {
		words = append(words, domain.WordCount{Word: word, Count: count})
	}

	// Ties break alphabetically so repeated runs produce identical reports
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})

	if len(words) > topWordCount {
		words = words[:topWordCount]
	}
	for i := range words {
		words[i].Frequency = math.Round(float64(words[i].Count)/float64(totalWords)*100*100) / 100
	}

	return domain.WordAnalysis{
		TotalWords:  totalWords,
		UniqueWords: len(words),
		TopWords:    words,
	}
}

// countWords splits text into runs of Latin letters and German umlauts,
// lowercases them, and counts the words that are neither stop words nor
// shorter than three letters.
func countWords(text string) map[string]int {
	counts := make(map[string]int)

	var current []rune
	flush := func() {
		if len(current) >= minWordLength {
			word := strings.ToLower(string(current))
			if !germanStopWords[word] {
				counts[word]++
			}
		}
		current = current[:0]
	}

	for _, r := range text {
		if isTitleLetter(r) {
			current = append(current, r)
		} else {
			flush()
		}
	}
	flush()

	return counts
}

// isTitleLetter matches ASCII letters and the German umlauts and eszett.
func isTitleLetter(r rune) bool {
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return true
	}
	switch r {
	case 'ä', 'ö', 'ü', 'ß', 'Ä', 'Ö', 'Ü':
		return true
	}
	return false
}
