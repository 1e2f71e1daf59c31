package ebay

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/time/rate"

	"github.com/listinglens/backend/config"
	"github.com/listinglens/backend/internal/domain"
)

// browserHeaders make the request indistinguishable from a desktop browser;
// result pages served to bare clients contain no listings. Accept-Encoding is
// left to the transport so gzip bodies are decompressed transparently.
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7",
	"Accept-Language":           "en-US,en;q=0.9,zh-CN;q=0.8,zh;q=0.7",
	"DNT":                       "1",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
	"Cache-Control":             "max-age=0",
}

// Fallbacks applied when the client is constructed with zero config values.
// The crawl rate defaults to one request every two seconds; result pages are
// quick to serve bot challenges to impatient clients.
const (
	defaultTimeout = 30 * time.Second
	defaultRPS     = 0.5
	defaultBurst   = 1
)

const maxRetries = 3

// Client fetches marketplace result pages with a browser-like request
// signature and extracts their listing titles.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a listing page client.
func NewClient(cfg config.ScraperConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	// Cookie jar keeps the session across paginated requests
	jar, _ := cookiejar.New(nil)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// FetchPage retrieves one result page and extracts its titles and next-page
// link. Transport errors, 429s, and 5xx responses are retried with a linear
// backoff; other failure statuses fail immediately.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*domain.ListingPage, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		page, retryable, err := c.fetchOnce(ctx, pageURL)
		if err == nil {
			return page, nil
		}
		if !retryable {
			return nil, err
		}

		log.Printf("[Scraper] attempt %d/%d failed for %s: %v", attempt, maxRetries, pageURL, err)
		lastErr = err
		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
		}
	}

	return nil, lastErr
}

// fetchOnce performs a single page request and parse. The second return
// value reports whether the failure is worth retrying.
func (c *Client) fetchOnce(ctx context.Context, pageURL string) (*domain.ListingPage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrPageFetch, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: status %d", domain.ErrPageFetch, resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("%w: status %d", domain.ErrPageFetch, resp.StatusCode)
	}

	page, err := ExtractListingPage(pageURL, resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrPageFetch, err)
	}

	return page, false, nil
}
