package httputil

import (
	"net/http"
	"time"
)

// NewScrapingClient builds the shared HTTP client for target-site requests.
// The timeout is the only bound on a hung request; there is no per-request
// cancellation beyond the caller's context.
func NewScrapingClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 4,
			ForceAttemptHTTP2:   true,
		},
	}
}
