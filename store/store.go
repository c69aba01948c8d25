package store

import (
	"sync"

	"macro_dashboard_backend/models"
)

// Store is the process-wide cache of the latest observations per category.
// The scheduler's jobs are the only writers; HTTP handlers are read-only
// borrowers. Each category has its own lock, so a merge into one category
// never blocks reads of another, and readers never observe a partial merge.
type Store struct {
	categories map[models.Category]*categoryState

	historyMu sync.RWMutex
	history   map[string]models.HistorySeries
}

type categoryState struct {
	mu    sync.RWMutex
	items map[string]models.Observation
}

// New creates an empty store. It is populated by the first startup job run;
// nothing survives a restart by design.
func New() *Store {
	s := &Store{
		categories: make(map[models.Category]*categoryState, len(models.ObservationCategories)),
		history:    make(map[string]models.HistorySeries),
	}
	for _, c := range models.ObservationCategories {
		s.categories[c] = &categoryState{items: make(map[string]models.Observation)}
	}
	return s
}

// Merge unions result into the category: keys present in result overwrite,
// keys absent are left untouched from prior cycles. Merging the same result
// twice is a no-op the second time.
func (s *Store) Merge(category models.Category, result map[string]models.Observation) {
	cs, ok := s.categories[category]
	if !ok {
		return
	}
	cs.mu.Lock()
	for key, obs := range result {
		cs.items[key] = obs
	}
	cs.mu.Unlock()
}

// Read returns a copy of the category's current contents. The copy is never
// nil, so an unpopulated category serializes as an empty JSON object.
func (s *Store) Read(category models.Category) map[string]models.Observation {
	cs, ok := s.categories[category]
	if !ok {
		return map[string]models.Observation{}
	}
	cs.mu.RLock()
	out := make(map[string]models.Observation, len(cs.items))
	for key, obs := range cs.items {
		out[key] = obs
	}
	cs.mu.RUnlock()
	return out
}

// Get returns one indicator's observation, if it has ever been fetched.
func (s *Store) Get(category models.Category, key string) (models.Observation, bool) {
	cs, ok := s.categories[category]
	if !ok {
		return models.Observation{}, false
	}
	cs.mu.RLock()
	obs, found := cs.items[key]
	cs.mu.RUnlock()
	return obs, found
}

// Len returns the number of keys currently held for a category.
func (s *Store) Len(category models.Category) int {
	cs, ok := s.categories[category]
	if !ok {
		return 0
	}
	cs.mu.RLock()
	n := len(cs.items)
	cs.mu.RUnlock()
	return n
}

// ReplaceHistory atomically swaps the whole history mapping. An empty result
// is rejected: a stale full history beats an empty one. Returns whether the
// swap happened.
func (s *Store) ReplaceHistory(result map[string]models.HistorySeries) bool {
	if len(result) == 0 {
		return false
	}
	s.historyMu.Lock()
	s.history = result
	s.historyMu.Unlock()
	return true
}

// ReadHistory returns a copy of the history mapping, never nil.
func (s *Store) ReadHistory() map[string]models.HistorySeries {
	s.historyMu.RLock()
	out := make(map[string]models.HistorySeries, len(s.history))
	for key, series := range s.history {
		out[key] = series
	}
	s.historyMu.RUnlock()
	return out
}
