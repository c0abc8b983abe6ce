package api

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-v2/discovery/internal/catalog"
	"github.com/pageza/alchemorsel-v2/discovery/internal/pagination"
	"github.com/pageza/alchemorsel-v2/discovery/internal/service"
	"github.com/pageza/alchemorsel-v2/discovery/internal/testhelpers"
	"github.com/pageza/alchemorsel-v2/discovery/internal/types"
)

// fakeCatalog serves canned catalog responses and records the forwarded token
type fakeCatalog struct {
	mu       sync.Mutex
	tokens   []string
	searches []catalog.SearchParams

	favorites  []types.RecipeRef
	recents    []types.RecipeRef
	catalogs   []types.Catalog
	results    map[string][]types.RecipeRef
	recipes    map[string]*types.RecipeDetail
	pages      map[string]*types.ListEnvelope[types.RecipeRef]
	predefined map[string]*types.PredefinedCatalog

	recentErr error
	searchErr error
}

func (f *fakeCatalog) seen(ctx context.Context) {
	f.mu.Lock()
	f.tokens = append(f.tokens, catalog.TokenFromContext(ctx))
	f.mu.Unlock()
}

func (f *fakeCatalog) Search(ctx context.Context, p catalog.SearchParams) ([]types.RecipeRef, error) {
	f.seen(ctx)
	f.mu.Lock()
	f.searches = append(f.searches, p)
	f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results[p.Query], nil
}

func (f *fakeCatalog) Favorites(ctx context.Context) ([]types.RecipeRef, error) {
	f.seen(ctx)
	return f.favorites, nil
}

func (f *fakeCatalog) Recent(ctx context.Context) ([]types.RecipeRef, error) {
	f.seen(ctx)
	return f.recents, f.recentErr
}

func (f *fakeCatalog) Catalogs(ctx context.Context) ([]types.Catalog, error) {
	f.seen(ctx)
	return f.catalogs, nil
}

func (f *fakeCatalog) Recipe(ctx context.Context, id string) (*types.RecipeDetail, error) {
	f.seen(ctx)
	if r, ok := f.recipes[id]; ok {
		return r, nil
	}
	return nil, &catalog.StatusError{Operation: "recipe", StatusCode: 404, Body: "not found"}
}

func (f *fakeCatalog) List(ctx context.Context, target string, _ url.Values) (*types.ListEnvelope[types.RecipeRef], error) {
	f.seen(ctx)
	if p, ok := f.pages[target]; ok {
		return p, nil
	}
	return nil, &catalog.StatusError{Operation: "list", StatusCode: 500, Body: "boom"}
}

func (f *fakeCatalog) PredefinedCatalog(ctx context.Context, id string) (*types.PredefinedCatalog, error) {
	f.seen(ctx)
	if pc, ok := f.predefined[id]; ok {
		return pc, nil
	}
	return nil, &catalog.StatusError{Operation: "predefined catalog", StatusCode: 404, Body: "not found"}
}

// memoryStore keeps listing sessions in process
type memoryStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]pagination.Session
	failSave bool
}

func (m *memoryStore) Save(_ context.Context, sess *pagination.Session) error {
	if m.failSave {
		return errors.New("redis down")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = *sess
	return nil
}

func (m *memoryStore) Load(_ context.Context, id uuid.UUID) (*pagination.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, pagination.ErrSessionNotFound
	}
	return &sess, nil
}

func (m *memoryStore) TryLock(context.Context, uuid.UUID) (func(), bool, error) {
	return func() {}, true, nil
}

type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	switch token {
	case "user-1-token":
		return &types.TokenClaims{UserID: "user-1"}, nil
	case "user-2-token":
		return &types.TokenClaims{UserID: "user-2"}, nil
	}
	return nil, errors.New("invalid token")
}

func setupEvents(t *testing.T) *service.EventService {
	return service.NewEventService(testhelpers.SetupTestDatabase(t))
}

func ref(id, name string) types.RecipeRef {
	return types.RecipeRef{RecipeID: types.ID(id), Name: name}
}
