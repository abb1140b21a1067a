package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ziadkadry99/slidedeck/internal/slides"
)

// MemoryStore keeps presentations in process memory. Contents are lost on
// restart.
type MemoryStore struct {
	mu            sync.RWMutex
	presentations map[string]slides.Presentation
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{presentations: make(map[string]slides.Presentation)}
}

func (m *MemoryStore) List(ctx context.Context) ([]slides.Presentation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]slides.Presentation, 0, len(m.presentations))
	for _, p := range m.presentations {
		out = append(out, p.Clone())
	}
	sortPresentations(out)
	return out, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*slides.Presentation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.presentations[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := p.Clone()
	return &c, nil
}

func (m *MemoryStore) Create(ctx context.Context, in CreateInput) (*slides.Presentation, error) {
	if err := checkCreate(in); err != nil {
		return nil, err
	}
	p := newPresentation(in, now())

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.presentations[p.ID]; exists {
		return nil, ErrExists
	}
	m.presentations[p.ID] = p
	c := p.Clone()
	return &c, nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, patch Patch) (*slides.Presentation, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.presentations[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.apply(&p, now())
	m.presentations[id] = p
	c := p.Clone()
	return &c, nil
}

func (m *MemoryStore) UpdateSlides(ctx context.Context, id string, list []slides.Slide) (*slides.Presentation, error) {
	if list == nil {
		list = []slides.Slide{}
	}
	return m.Update(ctx, id, Patch{Slides: list})
}

func (m *MemoryStore) Close() error { return nil }

// sortPresentations orders by creation time, oldest first.
func sortPresentations(list []slides.Presentation) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}
