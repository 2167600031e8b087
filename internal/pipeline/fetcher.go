package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"claimlens/internal/cache"
	"claimlens/internal/model"
	"claimlens/internal/util"
	"golang.org/x/net/html"
)

// Fetcher retrieves a page and reduces it to plain visible text, so
// the CLI can point the extraction pipeline at a URL. It respects
// robots.txt and keeps a short-lived in-memory cache of fetched pages.
type Fetcher struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	pages      cache.Cache
	userAgent  string
	maxBytes   int64
	cacheTTL   time.Duration
}

// NewFetcher creates a new Fetcher. A nil pages cache disables
// caching.
func NewFetcher(cfg model.HTTPConfig, pages cache.Cache, cacheTTL time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:    util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		pages:     pages,
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		cacheTTL:  cacheTTL,
	}
}

// FetchText retrieves the URL and returns its visible text. HTML is
// stripped to text content; other content types are returned as-is.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	if f.pages != nil {
		if body, found := f.pages.Get(cache.PageKey(rawURL)); found {
			return string(body), nil
		}
	}

	allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", fmt.Errorf("robots.txt disallows fetching %s", rawURL)
	}
	if crawlDelay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(crawlDelay):
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	text := string(body)
	if strings.Contains(resp.Header.Get("Content-Type"), "html") {
		text, err = visibleText(text)
		if err != nil {
			return "", fmt.Errorf("extract text: %w", err)
		}
	}

	if f.pages != nil {
		f.pages.Set(cache.PageKey(rawURL), []byte(text), f.cacheTTL)
	}
	return text, nil
}

// visibleText extracts text nodes from HTML, skipping script, style
// and similar non-content elements.
func visibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.TrimSpace(buf.String()), nil
}
