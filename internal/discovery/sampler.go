package discovery

import (
	"math/rand"
	"sync"

	"github.com/pageza/alchemorsel-v2/discovery/internal/types"
)

// DefaultSampleSize is the number of signal names kept per recommendation call
const DefaultSampleSize = 8

// UniqueNames collapses favorites and recents into a name list, favorites first.
// Identity here is the exact recipe name, not its id: the same recipe reached
// through both sources counts once, while differently spelled names stay apart.
func UniqueNames(favorites, recents []types.RecipeRef) []string {
	seen := make(map[string]struct{}, len(favorites)+len(recents))
	names := make([]string, 0, len(favorites)+len(recents))
	for _, list := range [][]types.RecipeRef{favorites, recents} {
		for _, r := range list {
			if r.Name == "" {
				continue
			}
			if _, ok := seen[r.Name]; ok {
				continue
			}
			seen[r.Name] = struct{}{}
			names = append(names, r.Name)
		}
	}
	return names
}

// Sampler draws a bounded random subset of signal names
type Sampler struct {
	size int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler creates a sampler keeping at most size names.
// A nil src uses the runtime-seeded global source, so samples vary between calls.
func NewSampler(size int, src rand.Source) *Sampler {
	if size <= 0 {
		size = DefaultSampleSize
	}
	s := &Sampler{size: size}
	if src != nil {
		s.rng = rand.New(src)
	}
	return s
}

// Sample shuffles a copy of names and keeps the first size entries.
// The input slice is not modified.
func (s *Sampler) Sample(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	picked := make([]string, len(names))
	copy(picked, names)

	swap := func(i, j int) { picked[i], picked[j] = picked[j], picked[i] }
	if s.rng != nil {
		s.mu.Lock()
		s.rng.Shuffle(len(picked), swap)
		s.mu.Unlock()
	} else {
		rand.Shuffle(len(picked), swap)
	}

	if len(picked) > s.size {
		picked = picked[:s.size]
	}
	return picked
}
