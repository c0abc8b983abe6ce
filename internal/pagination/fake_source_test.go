package pagination

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/pageza/alchemorsel-v2/discovery/internal/types"
)

type listCall struct {
	target string
	params url.Values
}

// fakeSource serves canned pages keyed by request target
type fakeSource struct {
	mu     sync.Mutex
	calls  []listCall
	pages  map[string]*types.ListEnvelope[types.RecipeRef]
	errs   map[string]error
	block  chan struct{}
	inList chan struct{}

	predefined map[string]*types.PredefinedCatalog
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages:      map[string]*types.ListEnvelope[types.RecipeRef]{},
		errs:       map[string]error{},
		predefined: map[string]*types.PredefinedCatalog{},
	}
}

func (f *fakeSource) List(ctx context.Context, target string, params url.Values) (*types.ListEnvelope[types.RecipeRef], error) {
	f.mu.Lock()
	f.calls = append(f.calls, listCall{target: target, params: params})
	block, inList := f.block, f.inList
	f.mu.Unlock()

	if inList != nil {
		inList <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[target]; err != nil {
		return nil, err
	}
	if page, ok := f.pages[target]; ok {
		return page, nil
	}
	return nil, errors.New("unexpected target " + target)
}

func (f *fakeSource) PredefinedCatalog(_ context.Context, id string) (*types.PredefinedCatalog, error) {
	if pc, ok := f.predefined[id]; ok {
		return pc, nil
	}
	return nil, fmt.Errorf("predefined catalog %s: not found", id)
}

func (f *fakeSource) targets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.target
	}
	return out
}

func recipes(prefix string, n int) []types.RecipeRef {
	out := make([]types.RecipeRef, n)
	for i := range out {
		out[i] = types.RecipeRef{RecipeID: types.ID(fmt.Sprintf("%s%d", prefix, i)), Name: fmt.Sprintf("Recipe %s%d", prefix, i)}
	}
	return out
}

func page(results []types.RecipeRef, next string) *types.ListEnvelope[types.RecipeRef] {
	return &types.ListEnvelope[types.RecipeRef]{Results: results, Next: next}
}
