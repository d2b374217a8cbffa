package scraper

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"
)

// FetchResult is the classified outcome of one page request. Callers treat
// anything other than a 200 as "no listings on this attempt", never as a
// fatal condition.
type FetchResult struct {
	Status int
	Body   string
}

// Fetcher issues single GETs against the target site with freshly generated
// headers, retrying a 403 once after a fixed delay.
type Fetcher struct {
	client     *http.Client
	headers    func() map[string]string
	maxRetries int
	retryDelay time.Duration
}

func NewFetcher(client *http.Client, headers func() map[string]string, maxRetries int, retryDelay time.Duration) *Fetcher {
	return &Fetcher{
		client:     client,
		headers:    headers,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Fetch gets url, regenerating headers before every attempt. A 403 response
// or a network error is retried up to maxRetries times; any other status is
// returned as-is on the first attempt. A persistent network failure is the
// only error return.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*FetchResult, error) {
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("Retrying %s in %s (attempt %d/%d)", url, f.retryDelay, attempt, f.maxRetries)
			select {
			case <-time.After(f.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		res, err := f.get(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}

		if res.Status == http.StatusForbidden && attempt < f.maxRetries {
			continue
		}
		return res, nil
	}

	return nil, lastErr
}

func (f *Fetcher) get(ctx context.Context, url string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range f.headers() {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &FetchResult{Status: resp.StatusCode, Body: string(body)}, nil
}
