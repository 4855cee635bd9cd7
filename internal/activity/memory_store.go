package activity

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/osse101/ashfall/internal/domain"
)

// MemoryStore is a Store for single-process use when no redis is configured
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[uuid.UUID]Record)}
}

func (m *MemoryStore) Save(_ context.Context, rec Record) error {
	if rec.Activity.ID == uuid.Nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNilActivityID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.Activity.ID] = rec
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id uuid.UUID) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", domain.ErrActivityNotFound, id)
	}
	return rec, nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *MemoryStore) ListByOwner(_ context.Context, owner string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Record
	for _, rec := range m.records {
		if rec.Activity.Owner == owner {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Activity.ID.String() < out[j].Activity.ID.String()
	})
	return out, nil
}
