package issuer

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore implements Store with a mutex-guarded map. Suitable for the
// demo driver and tests; production deployments use PostgresStore.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[int64]*IssuerRecord
	order   []int64
}

// NewInMemoryStore creates an empty in-memory issuer store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[int64]*IssuerRecord),
	}
}

// List returns copies of all issuers in insertion order.
func (s *InMemoryStore) List(ctx context.Context) ([]*IssuerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*IssuerRecord, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, copyRecord(s.records[id]))
	}
	return result, nil
}

// Get returns a copy of the issuer with the given ID.
func (s *InMemoryStore) Get(ctx context.Context, id int64) (*IssuerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRecord(record), nil
}

// Save upserts an issuer record, preserving insertion order on update.
func (s *InMemoryStore) Save(ctx context.Context, record *IssuerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.ID]; !exists {
		s.order = append(s.order, record.ID)
	}
	s.records[record.ID] = copyRecord(record)
	return nil
}

// SaveEnrichment overwrites the enrichment fields of an existing issuer.
func (s *InMemoryStore) SaveEnrichment(ctx context.Context, id int64, isins []string, typ IssuerType, enrichedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	record.ISINs = append([]string(nil), isins...)
	record.Type = typ
	record.EnrichedAt = &enrichedAt
	return nil
}

func copyRecord(r *IssuerRecord) *IssuerRecord {
	cp := *r
	if r.ISINs != nil {
		cp.ISINs = append([]string(nil), r.ISINs...)
	}
	if r.EnrichedAt != nil {
		at := *r.EnrichedAt
		cp.EnrichedAt = &at
	}
	return &cp
}
