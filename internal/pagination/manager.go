package pagination

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-v2/discovery/internal/logging"
)

// ErrInvalidEndpoint rejects listing endpoints that are not plain relative paths
var ErrInvalidEndpoint = errors.New("invalid listing endpoint")

// SessionStore persists listing sessions between requests
type SessionStore interface {
	Save(ctx context.Context, sess *Session) error
	Load(ctx context.Context, id uuid.UUID) (*Session, error)
	TryLock(ctx context.Context, id uuid.UUID) (func(), bool, error)
}

// StartRequest describes a new listing: either an endpoint with filters or a predefined catalog
type StartRequest struct {
	Endpoint     string
	Filters      url.Values
	PredefinedID string
}

// Manager runs paginators whose state lives in a SessionStore, one session per listing view
type Manager struct {
	source Source
	store  SessionStore
	opts   Options
}

// NewManager creates a session-backed paginator manager
func NewManager(source Source, store SessionStore, opts Options) *Manager {
	return &Manager{source: source, store: store, opts: opts}
}

// Start opens a new listing session and loads its first page. A listing
// failure is not returned as an error: the session is saved empty and
// exhausted with LastError set. Only storage failures are returned.
func (m *Manager) Start(ctx context.Context, userID string, req StartRequest) (*Session, error) {
	opts := m.opts
	if req.Endpoint != "" {
		endpoint, err := cleanEndpoint(req.Endpoint)
		if err != nil {
			return nil, err
		}
		opts.Endpoint = endpoint
	}

	p := New(m.source, opts)
	var listErr error
	if req.PredefinedID != "" {
		listErr = p.StartPredefined(ctx, req.PredefinedID)
	} else {
		listErr = p.Start(ctx, req.Filters)
	}

	sess := &Session{ID: uuid.New(), UserID: userID, Snapshot: p.Snapshot()}
	if listErr != nil {
		logging.Warn().Err(listErr).Str("session", sess.ID.String()).Msg("listing start failed")
		sess.LastError = listErr.Error()
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// LoadMore advances a session by one page. While another request for the same
// session is in flight this is a no-op returning the stored session.
func (m *Manager) LoadMore(ctx context.Context, userID string, id uuid.UUID) (*Session, error) {
	release, acquired, err := m.store.TryLock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	sess, err := m.Get(ctx, userID, id)
	if err != nil || !acquired {
		return sess, err
	}

	p := Restore(m.source, m.opts, sess.Snapshot)
	issued, loadErr := p.LoadMore(ctx)
	if !issued && loadErr == nil && p.State().String() == sess.Snapshot.State {
		return sess, nil
	}

	sess.Snapshot = p.Snapshot()
	sess.LastError = ""
	if loadErr != nil {
		logging.Warn().Err(loadErr).Str("session", id.String()).Msg("listing load more failed")
		sess.LastError = loadErr.Error()
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns a session owned by userID
func (m *Manager) Get(ctx context.Context, userID string, id uuid.UUID) (*Session, error) {
	sess, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// cleanEndpoint accepts relative listing paths such as "recipes/" or "catalogs/3/recipes/"
func cleanEndpoint(endpoint string) (string, error) {
	u, err := url.Parse(strings.TrimPrefix(endpoint, "/"))
	if err != nil || u.IsAbs() || u.Host != "" || u.RawQuery != "" || u.Path == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg == ".." || seg == "." {
			return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
		}
	}
	if !strings.HasSuffix(u.Path, "/") {
		return u.Path + "/", nil
	}
	return u.Path, nil
}
