package imaging

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"
	"net/http"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/corona10/goimagehash"
	_ "golang.org/x/image/webp"
	"golang.org/x/time/rate"

	"github.com/listinglens/backend/config"
	"github.com/listinglens/backend/internal/domain"
)

// browserUserAgent is sent with every image request; the listing image CDNs
// reject requests without a desktop browser signature.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Fallbacks applied when the fetcher is constructed with zero config values.
const (
	defaultTimeout = 10 * time.Second
	defaultWorkers = 20
	defaultRPS     = 50.0
)

// Fetcher downloads listing images and memoizes their perceptual hashes by
// URL. Downloads run on a bounded worker pool so one large batch cannot open
// an unbounded number of connections.
type Fetcher struct {
	httpClient  *http.Client
	cache       domain.HashCache
	workers     int
	rateLimiter *rate.Limiter
}

// NewFetcher creates an image fetcher backed by the given hash cache.
func NewFetcher(hashCache domain.HashCache, cfg config.FetcherConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = workers
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:       hashCache,
		workers:     workers,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// HashImages resolves every distinct non-empty URL to a perceptual hash.
// URLs whose download, decode, or hashing fails are logged and left out of
// the result, so one broken image never fails a batch.
func (f *Fetcher) HashImages(ctx context.Context, urls []string) map[string]domain.ImageHash {
	distinct := distinctURLs(urls)

	hashes := make(map[string]domain.ImageHash, len(distinct))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, f.workers)

	for _, imageURL := range distinct {
		wg.Add(1)
		sem <- struct{}{}
		go func(imageURL string) {
			defer wg.Done()
			defer func() { <-sem }()

			hash, err := f.hashURL(ctx, imageURL)
			if err != nil {
				log.Printf("[Fetcher] skipping %s: %v", imageURL, err)
				return
			}

			mu.Lock()
			hashes[imageURL] = hash
			mu.Unlock()
		}(imageURL)
	}

	wg.Wait()
	return hashes
}

// hashURL returns the cached hash for a URL, or downloads and hashes the
// image and fills the cache.
func (f *Fetcher) hashURL(ctx context.Context, imageURL string) (domain.ImageHash, error) {
	if hash, err := f.cache.Get(imageURL); err == nil {
		return hash, nil
	}

	img, err := f.FetchImage(ctx, imageURL)
	if err != nil {
		return 0, err
	}

	hash, err := HashImage(img)
	if err != nil {
		return 0, err
	}

	f.cache.Set(imageURL, hash)
	return hash, nil
}

// FetchImage downloads and decodes a single listing image, normalized to RGBA
// so that palette and grayscale sources hash consistently.
func (f *Fetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrImageFetch, resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageDecode, err)
	}

	return normalizeRGBA(img), nil
}

// HashImage computes the 64-bit average hash of a decoded image.
func HashImage(img image.Image) (domain.ImageHash, error) {
	hash, err := goimagehash.AverageHash(img)
	if err != nil {
		return 0, fmt.Errorf("average hash: %w", err)
	}
	return domain.ImageHash(hash.GetHash()), nil
}

// normalizeRGBA redraws the image into an RGBA buffer.
func normalizeRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	bounds := src.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, src, bounds.Min, draw.Src)
	return rgba
}

// distinctURLs drops empty and duplicate URLs, preserving first-seen order.
func distinctURLs(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	var result []string
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		result = append(result, u)
	}
	return result
}
