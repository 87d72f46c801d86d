package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/ppiankov/campusfaq/internal/cache"
	"github.com/ppiankov/campusfaq/internal/model"
	"github.com/ppiankov/campusfaq/internal/util"
	"github.com/ppiankov/campusfaq/internal/worker"
)

const maxFetchAttempts = 3

// fetchSleepFunc is replaced in tests to skip backoff delays
var fetchSleepFunc = time.Sleep

// Fetcher downloads documents (PDF, DOCX, XLSX, HTML notices) from URLs
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker // nil when robots.txt is ignored
	limiter    *worker.Limiter     // nil disables rate limiting
	docs       cache.Cache         // nil disables the document cache
}

// NewFetcher creates a fetcher from the http config. limiter and docs may be nil.
func NewFetcher(cfg model.HTTPConfig, limiter *worker.Limiter, docs cache.Cache) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		limiter:    limiter,
		docs:       docs,
	}
	if f.maxBytes <= 0 {
		f.maxBytes = 20 << 20
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, client)
	}
	return f
}

// FetchResult is a downloaded document
type FetchResult struct {
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
	FinalURL    string `json:"final_url"`
	StatusCode  int    `json:"status_code"`
	FromCache   bool   `json:"-"`
}

// Fetch performs a single GET without retries, robots checks or caching
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,application/vnd.openxmlformats-officedocument.*,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-IN,en;q=0.9,hi;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &connError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{Code: resp.StatusCode, Status: resp.Status}
	}

	// Read one byte past the limit to detect oversized documents
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("read body: document exceeds %d bytes", f.maxBytes)
	}

	return &FetchResult{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
	}, nil
}

// FetchWithRetry serves from the document cache when possible, otherwise
// checks robots.txt, waits for the host rate limit and fetches with up to
// three attempts. Only connection errors, 429 and 5xx responses are retried.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	key := cache.Key("doc", rawURL)
	var cached FetchResult
	if cache.GetJSON(f.docs, key, &cached) {
		cached.FromCache = true
		return &cached, nil
	}

	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", model.ErrRobotsDisallowed, rawURL)
		}
		if delay > 0 && f.limiter != nil {
			if u, err := url.Parse(rawURL); err == nil {
				f.limiter.SetCrawlDelay(u.Host, delay)
			}
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx, rawURL); err != nil {
				return nil, fmt.Errorf("rate limit: %w", err)
			}
		}

		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			// 0 keeps each cache layer's default TTL
			_ = cache.SetJSON(f.docs, key, result, 0)
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt < maxFetchAttempts {
			fetchSleepFunc(time.Duration(attempt) * time.Second)
		}
	}

	return nil, fmt.Errorf("giving up after %d attempts: %w", maxFetchAttempts, lastErr)
}

// statusError is a non-2xx response
type statusError struct {
	Code   int
	Status string // "404 Not Found"
}

func (e *statusError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("unexpected status: %d %s", e.Code, http.StatusText(e.Code))
	}
	return "unexpected status: " + e.Status
}

// connError is a request that never got a response
type connError struct {
	err error
}

func (e *connError) Error() string { return "fetch: " + e.err.Error() }
func (e *connError) Unwrap() error { return e.err }

// isRetryableFetchError reports whether a Fetch error is worth another attempt:
// connection failures, 429 and 5xx
func isRetryableFetchError(err error) bool {
	var ce *connError
	if errors.As(err, &ce) {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return false
}

// sourceName derives the source_file name stamped on facts from a URL:
// the last path segment ("fees-2024.pdf") or the host for bare sites
func sourceName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	p := strings.Trim(parsed.Path, "/")
	if p == "" {
		return parsed.Host
	}

	return path.Base(p)
}
