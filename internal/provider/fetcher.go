package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kayGweb/gridiron/internal/config"
	"github.com/kayGweb/gridiron/internal/ratelimit"
)

// Fetcher wraps the HTTP plumbing shared by the API-backed providers:
// rate limiting before each request, auth headers, timeout, and mapping of
// failures onto FetchError.
type Fetcher struct {
	ProviderName string
	HTTPClient   *http.Client
	UserAgent    string
	Cfg          config.Provider
	Limiter      *ratelimit.Limiter
}

// Get performs a rate-limited GET and returns the response body.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	if err := f.Limiter.Wait(ctx, f.ProviderName); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Provider: f.ProviderName, URL: url, Err: err}
	}

	req.Header.Set("User-Agent", f.UserAgent)
	for key, value := range f.Cfg.Headers {
		req.Header.Set(key, value)
	}

	switch f.Cfg.AuthType {
	case config.AuthBearer:
		req.Header.Set("Authorization", "Bearer "+f.Cfg.APIKey)
	case config.AuthAPIKeyHeader:
		req.Header.Set(f.Cfg.AuthHeaderName, f.Cfg.APIKey)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		// Timeouts, connection resets, DNS hiccups: all worth retrying.
		return nil, &FetchError{Provider: f.ProviderName, URL: url, Transient: true, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Provider: f.ProviderName, URL: url, Transient: true, Err: err}
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, &FetchError{
			Provider:   f.ProviderName,
			URL:        url,
			StatusCode: resp.StatusCode,
			Transient:  true,
			Err:        fmt.Errorf("upstream returned %s", resp.Status),
		}
	}
	if resp.StatusCode >= 400 {
		return nil, &FetchError{
			Provider:   f.ProviderName,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("upstream returned %s", resp.Status),
		}
	}

	return body, nil
}

// GetJSON performs Get and decodes the body into out. A malformed payload is
// a structural failure, not a transient one.
func (f *Fetcher) GetJSON(ctx context.Context, url string, out interface{}) error {
	body, err := f.Get(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &FetchError{Provider: f.ProviderName, URL: url, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
