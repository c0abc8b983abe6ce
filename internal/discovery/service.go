package discovery

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pageza/alchemorsel-v2/discovery/config"
	"github.com/pageza/alchemorsel-v2/discovery/internal/metrics"
	"github.com/pageza/alchemorsel-v2/discovery/internal/types"
)

// Catalog is the subset of the catalog API the discovery service reads
type Catalog interface {
	Searcher
	Favorites(ctx context.Context) ([]types.RecipeRef, error)
	Recent(ctx context.Context) ([]types.RecipeRef, error)
	Catalogs(ctx context.Context) ([]types.Catalog, error)
	Recipe(ctx context.Context, id string) (*types.RecipeDetail, error)
}

// Result is the outcome of one aggregation call
type Result struct {
	Items []types.RecipeRef
	// Query is the composed recommendation query, empty on the similarity path
	Query string
	// Tokens are the search inputs: query words or similarity tokens
	Tokens   []string
	Searches int
}

// Dashboard groups the caller's recent recipes, favorites and catalogs
type Dashboard struct {
	Recent    []types.RecipeRef `json:"recent"`
	Favorites []types.RecipeRef `json:"favorites"`
	Catalogs  []types.Catalog   `json:"catalogs"`
}

// Service turns behavioral signals into recipe recommendations
type Service struct {
	catalog Catalog
	cfg     config.DiscoveryConfig
	sampler *Sampler
	fanout  *FanOut
}

// Option customizes a Service
type Option func(*serviceOptions)

type serviceOptions struct {
	src rand.Source
}

// WithRandSource makes signal sampling deterministic, for tests
func WithRandSource(src rand.Source) Option {
	return func(o *serviceOptions) { o.src = src }
}

// NewService creates a discovery service over the catalog API
func NewService(c Catalog, cfg config.DiscoveryConfig, opts ...Option) *Service {
	var o serviceOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Service{
		catalog: c,
		cfg:     cfg,
		sampler: NewSampler(cfg.SampleSize, o.src),
		fanout:  NewFanOut(c, cfg.ResultCap, cfg.PerTokenLimit),
	}
}

// ComputeRecommendations builds one query from a sample of the caller's
// favorite and recent recipe names and returns its search results.
// No signals, or no usable words, yields an empty result without a search.
func (s *Service) ComputeRecommendations(ctx context.Context) (*Result, error) {
	var favorites, recents []types.RecipeRef

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		favorites, err = s.catalog.Favorites(gctx)
		if err != nil {
			return fmt.Errorf("fetch favorites: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		recents, err = s.catalog.Recent(gctx)
		if err != nil {
			return fmt.Errorf("fetch recent: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sample := s.sampler.Sample(UniqueNames(favorites, recents))
	if len(sample) == 0 {
		metrics.RecordDiscovery("recommendations", 0)
		return &Result{}, nil
	}

	query, ok := ComposeQuery(sample, s.cfg.QueryTokens)
	if !ok {
		metrics.RecordDiscovery("recommendations", 0)
		return &Result{}, nil
	}

	items, err := s.fanout.SearchOne(ctx, query, s.cfg.RecommendLimit)
	if err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}

	metrics.RecordDiscovery("recommendations", len(items))
	return &Result{
		Items:    items,
		Query:    query,
		Tokens:   strings.Fields(query),
		Searches: 1,
	}, nil
}

// ComputeSimilar searches each token of the focal recipe's name and merges
// the results, never including the focal recipe itself. A focal recipe
// without usable tokens has no similar recipes; that is not an error.
func (s *Service) ComputeSimilar(ctx context.Context, focal types.RecipeRef) *Result {
	tokens := SimilarityTokens(focal.Name)
	if len(tokens) == 0 {
		metrics.RecordDiscovery("similar", 0)
		return &Result{}
	}

	items, searches := s.fanout.SearchEach(ctx, tokens, focal)
	metrics.RecordDiscovery("similar", len(items))
	return &Result{Items: items, Tokens: tokens, Searches: searches}
}

// ComputeSimilarByID fetches the focal recipe and runs ComputeSimilar on it
func (s *Service) ComputeSimilarByID(ctx context.Context, id string) (*types.RecipeDetail, *Result, error) {
	focal, err := s.catalog.Recipe(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch recipe %s: %w", id, err)
	}
	if focal.Key() == "" {
		focal.RecipeID = types.ID(id)
	}
	return focal, s.ComputeSimilar(ctx, focal.RecipeRef), nil
}

// Dashboard fetches recent recipes, favorites and catalogs concurrently
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Recent, err = s.catalog.Recent(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Favorites, err = s.catalog.Favorites(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Catalogs, err = s.catalog.Catalogs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	if d.Recent == nil {
		d.Recent = []types.RecipeRef{}
	}
	if d.Favorites == nil {
		d.Favorites = []types.RecipeRef{}
	}
	if d.Catalogs == nil {
		d.Catalogs = []types.Catalog{}
	}
	return &d, nil
}
