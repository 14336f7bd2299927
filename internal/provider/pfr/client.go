// Package pfr implements the provider.Client capability set by scraping
// pro-football-reference-style HTML pages. Pages are fetched over plain HTTP
// by default; a headless browser (chromedp) can be enabled per provider for
// mirrors that render tables client-side.
package pfr

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/kayGweb/gridiron/internal/config"
	"github.com/kayGweb/gridiron/internal/provider"
	"github.com/kayGweb/gridiron/internal/ratelimit"
)

// Client scrapes NFL schedules and box scores from reference-style pages.
type Client struct {
	baseURL  string
	renderJS bool
	fetcher  *provider.Fetcher

	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// New creates a scraping provider client. Close must be called when the
// headless fetch mode is enabled.
func New(cfg config.Provider, limiter *ratelimit.Limiter, userAgent string, timeout time.Duration) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		renderJS: cfg.RenderJS,
		fetcher: &provider.Fetcher{
			ProviderName: cfg.Name,
			HTTPClient:   &http.Client{Timeout: timeout},
			UserAgent:    userAgent,
			Cfg:          cfg,
			Limiter:      limiter,
		},
	}

	if c.renderJS {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(userAgent),
		)
		c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}

	return c
}

// Close releases the headless browser allocator.
func (c *Client) Close() {
	if c.allocCancel != nil {
		c.allocCancel()
	}
}

// Name implements provider.Client.
func (c *Client) Name() string { return c.fetcher.ProviderName }

// FetchTeams returns the team list derived from the reference table plus the
// scraped franchise index, which carries the site's own team slugs.
func (c *Client) FetchTeams(ctx context.Context) ([]provider.TeamRecord, error) {
	doc, err := c.fetchDocument(ctx, c.baseURL+"/teams/")
	if err != nil {
		return nil, err
	}
	return parseTeamsIndex(doc)
}

// FetchSchedule scrapes the season games page. A positive week filters rows.
func (c *Client) FetchSchedule(ctx context.Context, season, week int) ([]provider.GameRecord, error) {
	url := fmt.Sprintf("%s/years/%d/games.htm", c.baseURL, season)
	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}
	return parseSchedule(doc, season, week)
}

// FetchBoxScore scrapes the player offense table of one box score page.
// gameExternalID is the site's box score slug (e.g. "202409080kan").
func (c *Client) FetchBoxScore(ctx context.Context, gameExternalID string) ([]provider.PlayerStatRecord, error) {
	url := fmt.Sprintf("%s/boxscores/%s.htm", c.baseURL, gameExternalID)
	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}
	return parseBoxScore(doc, gameExternalID)
}

func (c *Client) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	var html string
	var err error

	if c.renderJS {
		html, err = c.fetchRendered(ctx, url)
	} else {
		var body []byte
		body, err = c.fetcher.Get(ctx, url)
		html = string(body)
	}
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &provider.FetchError{
			Provider: c.fetcher.ProviderName,
			URL:      url,
			Err:      fmt.Errorf("parse HTML: %w", err),
		}
	}
	return doc, nil
}

// fetchRendered loads the page in a headless browser and returns the
// rendered DOM.
func (c *Client) fetchRendered(ctx context.Context, url string) (string, error) {
	if err := c.fetcher.Limiter.Wait(ctx, c.fetcher.ProviderName); err != nil {
		return "", err
	}

	browserCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, c.fetcher.HTTPClient.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		// Navigation and render failures behave like network errors.
		return "", &provider.FetchError{
			Provider:  c.fetcher.ProviderName,
			URL:       url,
			Transient: true,
			Err:       fmt.Errorf("headless fetch: %w", err),
		}
	}

	if html == "" {
		return "", &provider.FetchError{
			Provider: c.fetcher.ProviderName,
			URL:      url,
			Err:      fmt.Errorf("empty HTML content returned"),
		}
	}

	return html, nil
}
