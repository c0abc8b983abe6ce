package pagination

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/pageza/alchemorsel-v2/discovery/internal/logging"
	"github.com/pageza/alchemorsel-v2/discovery/internal/metrics"
	"github.com/pageza/alchemorsel-v2/discovery/internal/types"
)

// DefaultEndpoint is the listing endpoint used when none is given
const DefaultEndpoint = "recipes/"

// ErrLoading is returned by Start while a request is already in flight
var ErrLoading = errors.New("listing request already in flight")

// State is the lifecycle position of a Paginator
type State int

const (
	Idle State = iota
	Loading
	Ready
	Exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// ParseState is the inverse of State.String
func ParseState(s string) State {
	switch s {
	case "loading":
		return Loading
	case "ready":
		return Ready
	case "exhausted":
		return Exhausted
	default:
		return Idle
	}
}

// Source is the part of the catalog API a Paginator reads
type Source interface {
	List(ctx context.Context, target string, params url.Values) (*types.ListEnvelope[types.RecipeRef], error)
	PredefinedCatalog(ctx context.Context, id string) (*types.PredefinedCatalog, error)
}

// Options configures a Paginator
type Options struct {
	Endpoint  string
	APIPrefix string
}

// Paginator walks a filtered recipe listing by following the service's next cursor.
// State changes are serialized; the lock is never held during a request.
type Paginator struct {
	source Source
	prefix string

	mu       sync.Mutex
	endpoint string
	title    string
	filters  url.Values
	state    State
	items    []types.RecipeRef
	next     string
	requests int
}

// New creates an idle paginator
func New(source Source, opts Options) *Paginator {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	prefix := opts.APIPrefix
	if prefix == "" {
		prefix = DefaultAPIPrefix
	}
	return &Paginator{source: source, prefix: prefix, endpoint: endpoint, state: Idle}
}

// Start fetches the first page of the listing with filters, replacing any
// previous results. On failure the listing is left empty and exhausted.
func (p *Paginator) Start(ctx context.Context, filters url.Values) error {
	p.mu.Lock()
	if p.state == Loading {
		p.mu.Unlock()
		return ErrLoading
	}
	p.state = Loading
	p.filters = filters
	p.requests++
	endpoint := p.endpoint
	p.mu.Unlock()

	page, err := p.source.List(ctx, endpoint, filters)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		metrics.PagesLoaded.WithLabelValues("error").Inc()
		p.items = []types.RecipeRef{}
		p.next = ""
		p.state = Exhausted
		return fmt.Errorf("start listing %s: %w", endpoint, err)
	}

	metrics.PagesLoaded.WithLabelValues("success").Inc()
	p.items = append([]types.RecipeRef{}, page.Results...)
	p.advance(page.Next)
	return nil
}

// StartPredefined resolves a predefined catalog's name and filter criteria and
// starts the listing against the default endpoint with them.
func (p *Paginator) StartPredefined(ctx context.Context, id string) error {
	p.mu.Lock()
	if p.state == Loading {
		p.mu.Unlock()
		return ErrLoading
	}
	p.requests++
	p.mu.Unlock()

	pc, err := p.source.PredefinedCatalog(ctx, id)
	if err != nil {
		p.mu.Lock()
		if p.state != Loading {
			p.items = []types.RecipeRef{}
			p.next = ""
			p.state = Exhausted
		}
		p.mu.Unlock()
		return fmt.Errorf("fetch predefined catalog %s: %w", id, err)
	}

	p.mu.Lock()
	p.title = pc.Name
	p.endpoint = DefaultEndpoint
	p.mu.Unlock()

	return p.Start(ctx, FiltersFromCriteria(pc.FilterCriteria))
}

// LoadMore fetches the page behind the stored cursor and appends its results.
// It is a no-op unless the paginator is Ready; it reports whether a request was
// issued. A malformed cursor ends the listing without an error. A failed
// request keeps the results and cursor so the caller may try again.
func (p *Paginator) LoadMore(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.state != Ready || p.next == "" {
		p.mu.Unlock()
		return false, nil
	}

	target, err := NormalizeCursor(p.next, p.prefix)
	if err != nil {
		logging.Warn().Err(err).Str("next", p.next).Msg("invalid next cursor, ending listing")
		p.next = ""
		p.state = Exhausted
		p.mu.Unlock()
		return false, nil
	}
	p.state = Loading
	p.requests++
	p.mu.Unlock()

	page, err := p.source.List(ctx, target, nil)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		metrics.PagesLoaded.WithLabelValues("error").Inc()
		p.state = Ready
		return true, fmt.Errorf("load more %s: %w", target, err)
	}

	metrics.PagesLoaded.WithLabelValues("success").Inc()
	p.items = append(p.items, page.Results...)
	p.advance(page.Next)
	return true, nil
}

// advance stores the new cursor; callers hold mu
func (p *Paginator) advance(next string) {
	p.next = next
	if next == "" {
		p.state = Exhausted
		return
	}
	p.state = Ready
}

// State returns the current lifecycle state
func (p *Paginator) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Items returns a copy of the results gathered so far
func (p *Paginator) Items() []types.RecipeRef {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]types.RecipeRef{}, p.items...)
}

// Next returns the stored cursor, empty once exhausted
func (p *Paginator) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next
}

// Snapshot is the serializable state of a Paginator
type Snapshot struct {
	Endpoint string              `json:"endpoint"`
	Title    string              `json:"title,omitempty"`
	Filters  map[string][]string `json:"filters,omitempty"`
	State    string              `json:"state"`
	Items    []types.RecipeRef   `json:"results"`
	Next     string              `json:"next,omitempty"`
	// Requests counts the catalog calls made for this listing
	Requests int                 `json:"requests"`
}

// Snapshot captures the paginator state
func (p *Paginator) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := p.items
	if items == nil {
		items = []types.RecipeRef{}
	}
	return Snapshot{
		Endpoint: p.endpoint,
		Title:    p.title,
		Filters:  p.filters,
		State:    p.state.String(),
		Items:    append([]types.RecipeRef{}, items...),
		Next:     p.next,
		Requests: p.requests,
	}
}

// Restore rebuilds a paginator from a snapshot. A snapshot taken mid-request
// is settled from its cursor, since the request it was waiting on is gone.
func Restore(source Source, opts Options, snap Snapshot) *Paginator {
	p := New(source, opts)
	if snap.Endpoint != "" {
		p.endpoint = snap.Endpoint
	}
	p.title = snap.Title
	p.filters = snap.Filters
	p.items = append([]types.RecipeRef{}, snap.Items...)
	p.next = snap.Next
	p.requests = snap.Requests
	p.state = ParseState(snap.State)
	if p.state == Loading {
		p.advance(p.next)
	}
	return p
}
