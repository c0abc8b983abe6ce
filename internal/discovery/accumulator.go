package discovery

import "github.com/pageza/alchemorsel-v2/discovery/internal/types"

// DefaultResultCap bounds every accumulated result list
const DefaultResultCap = 10

// ResultAccumulator is an ordered, capacity-bounded list of recipes with an
// identity set keyed by RecipeRef.Key. It lives for one aggregation call.
type ResultAccumulator struct {
	limit int
	items []types.RecipeRef
	seen  map[string]struct{}
}

// NewResultAccumulator creates an empty accumulator holding at most limit recipes
func NewResultAccumulator(limit int) *ResultAccumulator {
	if limit <= 0 {
		limit = DefaultResultCap
	}
	return &ResultAccumulator{
		limit: limit,
		items: make([]types.RecipeRef, 0, limit),
		seen:  make(map[string]struct{}, limit),
	}
}

// Seed marks key as already seen without adding a recipe
func (a *ResultAccumulator) Seed(key string) {
	if key != "" {
		a.seen[key] = struct{}{}
	}
}

// Add appends r unless the accumulator is full, r has no identity, or r was seen before
func (a *ResultAccumulator) Add(r types.RecipeRef) bool {
	if a.Full() {
		return false
	}
	key := r.Key()
	if key == "" {
		return false
	}
	if _, ok := a.seen[key]; ok {
		return false
	}
	a.seen[key] = struct{}{}
	a.items = append(a.items, r)
	return true
}

// AddAll adds recipes in order until the accumulator fills; it returns how many were added
func (a *ResultAccumulator) AddAll(rs []types.RecipeRef) int {
	added := 0
	for _, r := range rs {
		if a.Full() {
			break
		}
		if a.Add(r) {
			added++
		}
	}
	return added
}

// Full reports whether the cap has been reached
func (a *ResultAccumulator) Full() bool {
	return len(a.items) >= a.limit
}

// Len returns the number of accumulated recipes
func (a *ResultAccumulator) Len() int {
	return len(a.items)
}

// Items returns a copy of the accumulated recipes in insertion order
func (a *ResultAccumulator) Items() []types.RecipeRef {
	out := make([]types.RecipeRef, len(a.items))
	copy(out, a.items)
	return out
}
