// Package nytimes fetches raw documents from the NYT Article Search API.
package nytimes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"nytarchive/internal/normalize"
)

// DefaultBaseURL is the Article Search endpoint.
const DefaultBaseURL = "https://api.nytimes.com/svc/search/v2/articlesearch.json"

const (
	// The API returns at most 10 documents per page and rejects page
	// offsets beyond 100.
	pageSize = 10
	maxPages = 100
)

// SearchParams narrow an Article Search run.
type SearchParams struct {
	Query     string
	BeginDate string // YYYYMMDD, optional
	EndDate   string // YYYYMMDD, optional
	Results   int
}

// Client pages through Article Search results, pacing requests to stay
// under the API rate limit.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	maxRetries int
	log        *slog.Logger
}

// New builds a client. interval is the minimum spacing between requests;
// the public API allows roughly one request every 12 seconds sustained.
func New(apiKey, baseURL string, interval time.Duration, maxRetries int, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if interval <= 0 {
		interval = 12 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		maxRetries: maxRetries,
		log:        logger,
	}
}

// Search retrieves up to params.Results raw documents, in API order. It
// stops early when a page comes back empty or the page cap is reached.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]normalize.RawRecord, error) {
	if params.Results <= 0 {
		params.Results = pageSize
	}

	pages := (params.Results + pageSize - 1) / pageSize
	if pages > maxPages {
		pages = maxPages
	}

	c.log.Info("fetching articles",
		slog.String("query", params.Query),
		slog.Int("results", params.Results),
		slog.Int("pages", pages),
	)

	var all []normalize.RawRecord
	for page := 0; page < pages; page++ {
		docs, err := c.fetchPage(ctx, params, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		if len(docs) == 0 {
			c.log.Info("no more articles", slog.Int("page", page))
			break
		}

		all = append(all, docs...)
		c.log.Debug("retrieved page",
			slog.Int("page", page),
			slog.Int("articles", len(docs)),
		)

		if len(all) >= params.Results {
			all = all[:params.Results]
			break
		}
	}

	c.log.Info("fetch complete",
		slog.String("query", params.Query),
		slog.Int("total", len(all)),
	)
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, params SearchParams, page int) ([]normalize.RawRecord, error) {
	query := url.Values{}
	query.Set("api-key", c.apiKey)
	query.Set("q", params.Query)
	query.Set("page", strconv.Itoa(page))
	if params.BeginDate != "" {
		query.Set("begin_date", params.BeginDate)
	}
	if params.EndDate != "" {
		query.Set("end_date", params.EndDate)
	}

	endpoint := c.baseURL + "?" + query.Encode()

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		docs, retryable, err := c.doRequest(ctx, endpoint)
		if err == nil {
			return docs, nil
		}
		if !retryable || attempt >= c.maxRetries {
			return nil, err
		}

		backoff := time.Duration(1<<uint(attempt)) * time.Second
		c.log.Warn("request failed, retrying",
			slog.Any("err", err),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff),
		)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (c *Client) doRequest(ctx context.Context, endpoint string) ([]normalize.RawRecord, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= http.StatusInternalServerError {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, true, fmt.Errorf("api status %s: %s", res.Status, strings.TrimSpace(string(body)))
	}
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, false, fmt.Errorf("api status %s: %s", res.Status, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		Response struct {
			Docs []normalize.RawRecord `json:"docs"`
		} `json:"response"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}

	return parsed.Response.Docs, false, nil
}
