package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps encoded projects in memory. Loads decode a fresh copy,
// so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string][]byte
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: make(map[string][]byte), now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Project, error) {
	s.mu.RLock()
	data, ok := s.projects[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return Decode(data)
}

func (s *MemoryStore) Save(_ context.Context, p *Project) error {
	stamp(p, s.now())
	data, err := Encode(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.projects[p.ID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.projects, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.projects))
	for _, data := range s.projects {
		p, err := Decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, p.Summarize())
	}
	sortSummaries(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func sortSummaries(out []Summary) {
	slices.SortFunc(out, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

var _ Store = (*MemoryStore)(nil)
