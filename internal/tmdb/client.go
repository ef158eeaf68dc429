package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultLanguage = "en-US"
	userAgent       = "Reel/0.1 (https://github.com/llehouerou/reel)"

	// TMDB allows roughly 40 requests per 10 seconds per client.
	defaultRate  = 4
	defaultBurst = 8

	// Retry configuration
	maxRetries   = 2
	initialDelay = 500 * time.Millisecond
	maxDelay     = 4 * time.Second
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tmdb: API status %d", e.Code)
	}
	return fmt.Sprintf("tmdb: API status %d: %s", e.Code, e.Body)
}

// Config holds the client settings. Zero values fall back to defaults.
type Config struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Language     string
	IncludeAdult bool
	Timeout      time.Duration
	HTTPClient   *http.Client
	// RateLimit is requests per second; <= 0 uses the default.
	RateLimit float64
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	includeAdult bool
	httpClient   *http.Client
	limiter      *rate.Limiter
	retryDelay   time.Duration
}

// NewClient creates a new TMDB API client.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	imageBase := strings.TrimSpace(cfg.ImageBaseURL)
	if imageBase == "" {
		imageBase = DefaultImageBaseURL
	}
	lang := cfg.Language
	if lang == "" {
		lang = defaultLanguage
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = defaultRate
	}

	return &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		baseURL:      strings.TrimRight(baseURL, "/"),
		imageBaseURL: imageBase,
		language:     lang,
		includeAdult: cfg.IncludeAdult,
		httpClient:   httpClient,
		limiter:      rate.NewLimiter(limit, defaultBurst),
		retryDelay:   initialDelay,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Language returns the language sent with every request.
func (c *Client) Language() string {
	return c.language
}

// Search returns one page of movies or TV shows matching term.
func (c *Client) Search(ctx context.Context, kind Kind, term string, page int) (ResultPage, error) {
	if page < 1 {
		page = 1
	}
	params := c.params()
	params.Set("query", term)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", strconv.FormatBool(c.includeAdult))

	var result ResultPage
	if err := c.get(ctx, "/search/"+kind.String(), params, &result); err != nil {
		return ResultPage{}, errors.Wrapf(err, "search %s %q page %d", kind, term, page)
	}
	if result.Page == 0 {
		result.Page = page
	}
	return result, nil
}

// FetchDetail fetches the full record of a movie or TV show.
func (c *Client) FetchDetail(ctx context.Context, kind Kind, id int64) (*Detail, error) {
	var detail Detail
	path := fmt.Sprintf("/%s/%d", kind, id)
	if err := c.get(ctx, path, c.params(), &detail); err != nil {
		return nil, errors.Wrapf(err, "fetch %s %d", kind, id)
	}
	detail.Kind = kind
	return &detail, nil
}

func (c *Client) params() url.Values {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	return params
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	resp, err := c.doRequestWithRetry(ctx, reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.WithStack(&StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))})
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, 2<<20)).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// doRequestWithRetry executes a GET with exponential backoff.
// Retries on 5xx, 429 and network errors; never after ctx is done.
func (c *Client) doRequestWithRetry(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error
	delay := c.retryDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, delay); err != nil {
				return nil, errors.WithStack(err)
			}
			delay = min(delay*2, maxDelay)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limit")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, errors.Wrap(err, "create request")
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.WithStack(ctx.Err())
			}
			lastErr = err
			continue
		}

		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = &StatusError{Code: resp.StatusCode}
	}

	return nil, errors.Wrapf(lastErr, "request failed after %d attempts", maxRetries+1)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
