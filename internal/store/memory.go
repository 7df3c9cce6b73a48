package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/i474232898/jogging-weather/internal/jogging"
	"github.com/i474232898/jogging-weather/internal/store/filter"
)

var (
	// ErrDuplicateID is returned when a record ID is saved twice.
	ErrDuplicateID = errors.New("record id already exists")
)

// MemoryStore is a concurrency-safe in-memory implementation of jogging.Store.
// Records are listed per owner in insertion order.
type MemoryStore struct {
	mu sync.RWMutex

	// key: owner id, value: records in insertion order
	data map[string][]jogging.Record
	ids  map[string]struct{}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]jogging.Record),
		ids:  make(map[string]struct{}),
	}
}

// Save appends rec to its owner's history.
func (s *MemoryStore) Save(ctx context.Context, rec jogging.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[rec.ID]; ok {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
	}

	// Weather is a byte slice; keep our own copy so the stored snapshot cannot change.
	rec.Weather = append([]byte(nil), rec.Weather...)

	s.ids[rec.ID] = struct{}{}
	s.data[rec.OwnerID] = append(s.data[rec.OwnerID], rec)
	return rec.ID, nil
}

// List returns the page of q.OwnerID's records selected by q.
func (s *MemoryStore) List(ctx context.Context, q jogging.Query) ([]jogging.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	match, err := compileFilter(q.Filter)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	offset := q.Offset()
	result := make([]jogging.Record, 0, q.Limit)
	skipped := 0
	for _, rec := range s.data[q.OwnerID] {
		if match != nil && !match.Match(rec) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		result = append(result, rec)
		if len(result) == q.Limit {
			break
		}
	}

	return result, nil
}

// Count returns the number of records held for all owners.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids), nil
}

// compileFilter parses an optional filter; blank filters select everything.
func compileFilter(raw *string) (filter.Expr, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	expr, err := filter.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", jogging.ErrInvalidFilter, err)
	}
	return expr, nil
}
