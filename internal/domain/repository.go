package domain

import "context"

// HashCache stores perceptual hashes keyed by image URL.
type HashCache interface {
	Get(url string) (ImageHash, error)
	Set(url string, hash ImageHash)
	Size() int
	Clear()
}

// ImageHasher resolves image URLs to perceptual hashes. URLs whose download,
// decode, or hashing fails are absent from the returned map; callers treat
// absence as a missing image signal, never as an error.
type ImageHasher interface {
	HashImages(ctx context.Context, urls []string) map[string]ImageHash
}

// ListingPageFetcher retrieves one marketplace result page and extracts its
// listing titles and pagination link.
type ListingPageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (*ListingPage, error)
}
