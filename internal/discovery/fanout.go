package discovery

import (
	"context"
	"fmt"

	"github.com/pageza/alchemorsel-v2/discovery/internal/catalog"
	"github.com/pageza/alchemorsel-v2/discovery/internal/logging"
	"github.com/pageza/alchemorsel-v2/discovery/internal/metrics"
	"github.com/pageza/alchemorsel-v2/discovery/internal/types"
)

// DefaultPerTokenLimit is the result-count hint sent with each per-token search
const DefaultPerTokenLimit = 3

// Searcher is the search/ endpoint of the catalog API
type Searcher interface {
	Search(ctx context.Context, p catalog.SearchParams) ([]types.RecipeRef, error)
}

// FanOut issues search requests against the catalog and merges their results
type FanOut struct {
	searcher Searcher
	limit    int
	perToken int
}

// NewFanOut creates a FanOut capping merged results at limit and asking each per-token search for perToken results
func NewFanOut(searcher Searcher, limit, perToken int) *FanOut {
	if limit <= 0 {
		limit = DefaultResultCap
	}
	if perToken <= 0 {
		perToken = DefaultPerTokenLimit
	}
	return &FanOut{searcher: searcher, limit: limit, perToken: perToken}
}

// SearchOne issues exactly one search and returns at most limit results.
// Errors surface to the caller; there is no fallback query.
func (f *FanOut) SearchOne(ctx context.Context, query string, limit int) ([]types.RecipeRef, error) {
	results, err := f.searcher.Search(ctx, catalog.SearchParams{Query: query, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// SearchEach searches each token in order, excluding the focal recipe, and
// merges unseen results until the cap is reached. The cap is checked between
// tokens so no request is issued once it is full. A failed token search is
// logged and counts as zero results. It returns the merged recipes and the
// number of searches issued.
func (f *FanOut) SearchEach(ctx context.Context, tokens []string, focal types.RecipeRef) ([]types.RecipeRef, int) {
	acc := NewResultAccumulator(f.limit)
	focalKey := focal.Key()
	acc.Seed(focalKey)

	searches := 0
	for _, tok := range tokens {
		if acc.Full() || ctx.Err() != nil {
			break
		}

		searches++
		results, err := f.searcher.Search(ctx, catalog.SearchParams{
			Query:   tok,
			Limit:   f.perToken,
			Exclude: focalKey,
		})
		if err != nil {
			logging.Warn().Err(err).Str("token", tok).Str("focal", focalKey).Msg("similar search failed, skipping token")
			continue
		}
		acc.AddAll(results)
	}

	metrics.FanOutSearches.Observe(float64(searches))
	return acc.Items(), searches
}
