package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/atinylittleshell/gsuggest/pkg/navigation"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "https://api.duckduckgo.com/"
	DefaultTimeout  = 5 * time.Second

	maxBodySize = 4 << 20
)

// Fetcher turns a query into candidates.
type Fetcher interface {
	Fetch(ctx context.Context, query string) ([]navigation.Candidate, error)
}

type Options struct {
	Endpoint string
	Timeout  time.Duration
	// CacheTTL keeps results per query for this long. Zero disables caching.
	CacheTTL   time.Duration
	HTTPClient *http.Client
}

// Client queries the instant answer endpoint.
type Client struct {
	endpoint   string
	timeout    time.Duration
	cacheTTL   time.Duration
	httpClient *http.Client
	cache      *cache.Cache
	logger     *zap.Logger
}

func NewClient(options Options, logger *zap.Logger) *Client {
	endpoint := options.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultClient()
	}

	client := &Client{
		endpoint:   endpoint,
		timeout:    timeout,
		cacheTTL:   options.CacheTTL,
		httpClient: httpClient,
		logger:     logger,
	}
	if options.CacheTTL > 0 {
		client.cache = cache.New(options.CacheTTL, 2*options.CacheTTL)
	}
	return client
}

// RequestURL builds the lookup URL for a query. Parameters already on the
// endpoint are kept; spaces in the query are encoded as '+'.
func (c *Client) RequestURL(query string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", c.endpoint, err)
	}
	params := u.Query()
	params.Set("q", query)
	params.Set("format", "json")
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// Fetch issues one GET for query and returns its candidates. Failures are
// returned as *FetchError.
func (c *Client) Fetch(ctx context.Context, query string) ([]navigation.Candidate, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(query); ok {
			c.logger.Debug("lookup cache hit", zap.String("query", query))
			return append([]navigation.Candidate(nil), cached.([]navigation.Candidate)...), nil
		}
	}

	requestURL, err := c.RequestURL(query)
	if err != nil {
		return nil, &FetchError{Kind: ErrNetwork, Query: query, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: ErrNetwork, Query: query, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", c.timeout, err)
		}
		return nil, &FetchError{Kind: ErrNetwork, Query: query, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Kind: ErrStatus, Query: query, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{Kind: ErrNetwork, Query: query, Err: err}
	}

	candidates, err := ParseResponse(body)
	if err != nil {
		return nil, &FetchError{Kind: ErrParse, Query: query, Err: err}
	}

	c.logger.Debug(
		"lookup completed",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if c.cache != nil {
		c.cache.Set(query, append([]navigation.Candidate(nil), candidates...), c.cacheTTL)
	}
	return candidates, nil
}
