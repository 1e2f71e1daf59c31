package domain

import "errors"

var (
	// ErrNoFiles is returned when an analysis request carries no uploaded files
	ErrNoFiles = errors.New("no files uploaded")

	// ErrNoProducts is returned when no product rows parse from any uploaded file
	ErrNoProducts = errors.New("no valid product data")

	// ErrCacheMiss is returned when a hash is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrImageFetch is returned when an image download fails
	ErrImageFetch = errors.New("image fetch failed")

	// ErrImageDecode is returned when a downloaded body is not a decodable image
	ErrImageDecode = errors.New("image decode failed")

	// ErrComparisonFailed is returned when a pairwise similarity computation
	// fails, as opposed to legitimately scoring zero
	ErrComparisonFailed = errors.New("similarity comparison failed")

	// ErrInvalidURL is returned when a scrape request URL is missing or not a listing URL
	ErrInvalidURL = errors.New("invalid listing URL")

	// ErrNoTitles is returned when scraping finds no listing titles
	ErrNoTitles = errors.New("no titles scraped")

	// ErrPageFetch is returned when a listing page request fails
	ErrPageFetch = errors.New("listing page request failed")
)
