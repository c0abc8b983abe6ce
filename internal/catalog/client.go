package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/pageza/alchemorsel-v2/discovery/internal/metrics"
	"github.com/pageza/alchemorsel-v2/discovery/internal/types"
)

const maxBodyBytes = 4 << 20

// Options configures a catalog Client
type Options struct {
	BaseURL          string
	Timeout          time.Duration
	RequestsPerSec   float64
	Burst            int
	BreakerName      string
	FailureThreshold uint32
	BreakerCooldown  time.Duration
	HTTPClient       *http.Client
}

// Client talks to the remote catalog/recipe API
type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// SearchParams are the query parameters of search/
type SearchParams struct {
	Query   string
	Limit   int
	Exclude string
}

// NewClient creates a catalog client rooted at opts.BaseURL
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("catalog base url must be absolute: %q", opts.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSec > 0 {
		limit = rate.Limit(opts.RequestsPerSec)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 10
	}

	name := opts.BreakerName
	if name == "" {
		name = "catalog-api"
	}
	threshold := opts.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	cooldown := opts.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
		breaker: newBreaker(name, threshold, cooldown),
	}, nil
}

// Search calls search/ and returns its results in service order
func (c *Client) Search(ctx context.Context, p SearchParams) ([]types.RecipeRef, error) {
	params := url.Values{}
	params.Set("q", p.Query)
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Exclude != "" {
		params.Set("exclude", p.Exclude)
	}

	var out types.ListEnvelope[types.RecipeRef]
	if err := c.getJSON(ctx, "search", "search/", params, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// List fetches one page of a recipe listing. target is relative to the API root
// and may already carry a query string (a normalized next cursor).
func (c *Client) List(ctx context.Context, target string, params url.Values) (*types.ListEnvelope[types.RecipeRef], error) {
	var out types.ListEnvelope[types.RecipeRef]
	if err := c.getJSON(ctx, "list", target, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Favorites returns the caller's favorited recipes
func (c *Client) Favorites(ctx context.Context) ([]types.RecipeRef, error) {
	var out types.ListEnvelope[types.RecipeRef]
	if err := c.getJSON(ctx, "favorites", "favorites/", nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Recent returns the caller's recently viewed recipes
func (c *Client) Recent(ctx context.Context) ([]types.RecipeRef, error) {
	var out types.ListEnvelope[types.RecipeRef]
	if err := c.getJSON(ctx, "recent", "recent/", nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Catalogs returns the caller's catalogs
func (c *Client) Catalogs(ctx context.Context) ([]types.Catalog, error) {
	var out types.ListEnvelope[types.Catalog]
	if err := c.getJSON(ctx, "catalogs", "catalogs/", nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Recipe fetches a single recipe
func (c *Client) Recipe(ctx context.Context, id string) (*types.RecipeDetail, error) {
	var out types.RecipeDetail
	if err := c.getJSON(ctx, "recipe", "recipes/"+url.PathEscape(id)+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PredefinedCatalog fetches a curated listing definition
func (c *Client) PredefinedCatalog(ctx context.Context, id string) (*types.PredefinedCatalog, error) {
	var out types.PredefinedCatalog
	if err := c.getJSON(ctx, "predefined_catalog", "predefined-catalogs/"+url.PathEscape(id)+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// resolve joins a relative target onto the base URL, adding params the target does not already set
func (c *Client) resolve(target string, params url.Values) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimPrefix(target, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse target %q: %w", target, err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return nil, fmt.Errorf("target must be relative: %q", target)
	}

	u := c.baseURL.ResolveReference(ref)
	if len(params) > 0 {
		q := u.Query()
		for key, values := range params {
			if q.Has(key) {
				continue
			}
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}

func (c *Client) getJSON(ctx context.Context, op, target string, params url.Values, out any) (err error) {
	start := time.Now()
	defer func() { metrics.RecordCatalogRequest(op, time.Since(start), err) }()

	u, err := c.resolve(target, params)
	if err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("catalog %s: %w", op, err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		b, err := c.do(ctx, op, u)
		if err != nil && ctx.Err() != nil &&
			(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return nil, &callerGoneError{err: err}
		}
		return b, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("catalog %s: %w", op, ErrCircuitOpen)
		}
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode catalog %s response: %w", op, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, op string, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog %s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt := strings.TrimSpace(string(body))
		if len(excerpt) > 200 {
			excerpt = excerpt[:200]
		}
		return nil, &StatusError{Operation: op, StatusCode: resp.StatusCode, Body: excerpt}
	}
	return body, nil
}
