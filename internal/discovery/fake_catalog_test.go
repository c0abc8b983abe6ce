package discovery

import (
	"context"
	"sync"

	"github.com/pageza/alchemorsel-v2/discovery/internal/catalog"
	"github.com/pageza/alchemorsel-v2/discovery/internal/types"
)

// fakeCatalog is an in-memory catalog API recording every search it receives
type fakeCatalog struct {
	mu       sync.Mutex
	searches []catalog.SearchParams

	results   map[string][]types.RecipeRef
	failing   map[string]error
	favorites []types.RecipeRef
	recents   []types.RecipeRef
	catalogs  []types.Catalog
	recipes   map[string]*types.RecipeDetail

	favErr    error
	recentErr error
}

func (f *fakeCatalog) Search(_ context.Context, p catalog.SearchParams) ([]types.RecipeRef, error) {
	f.mu.Lock()
	f.searches = append(f.searches, p)
	f.mu.Unlock()
	if err := f.failing[p.Query]; err != nil {
		return nil, err
	}
	return f.results[p.Query], nil
}

func (f *fakeCatalog) Favorites(context.Context) ([]types.RecipeRef, error) {
	return f.favorites, f.favErr
}

func (f *fakeCatalog) Recent(context.Context) ([]types.RecipeRef, error) {
	return f.recents, f.recentErr
}

func (f *fakeCatalog) Catalogs(context.Context) ([]types.Catalog, error) {
	return f.catalogs, nil
}

func (f *fakeCatalog) Recipe(_ context.Context, id string) (*types.RecipeDetail, error) {
	if r, ok := f.recipes[id]; ok {
		return r, nil
	}
	return nil, &catalog.StatusError{Operation: "recipe", StatusCode: 404, Body: "not found"}
}

func (f *fakeCatalog) queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.searches))
	for i, s := range f.searches {
		out[i] = s.Query
	}
	return out
}

func ref(id, name string) types.RecipeRef {
	return types.RecipeRef{RecipeID: types.ID(id), Name: name}
}

func keys(rs []types.RecipeRef) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Key()
	}
	return out
}
