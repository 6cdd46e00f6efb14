// Package store tracks per-dataset import records for the end-of-run summary.
package store

import (
	"context"
	"sync"

	"github.com/FHIR-Aggregator/bulkimport/internal/importer/entity"
	"github.com/FHIR-Aggregator/bulkimport/internal/pkg/pkgerror"
)

// InMemoryStore keeps run records for the lifetime of the process. Nothing
// is persisted across runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*entity.ImportRecord
	order   []string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]*entity.ImportRecord),
	}
}

// Create registers a fresh record for the dataset.
func (s *InMemoryStore) Create(ctx context.Context, dataset string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[dataset]; exists {
		return pkgerror.NewBusiness("import record already exists", pkgerror.CodeConflict)
	}

	s.records[dataset] = &entity.ImportRecord{
		Dataset: dataset,
		State:   entity.JobStatePending,
	}
	s.order = append(s.order, dataset)

	return nil
}

// Update applies fn to the dataset's record.
func (s *InMemoryStore) Update(ctx context.Context, dataset string, fn func(rec *entity.ImportRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[dataset]
	if !ok {
		return pkgerror.ErrNotFound
	}

	fn(rec)

	return nil
}

// Get returns a copy of the dataset's record.
func (s *InMemoryStore) Get(ctx context.Context, dataset string) (entity.ImportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[dataset]
	if !ok {
		return entity.ImportRecord{}, pkgerror.ErrNotFound
	}

	return *rec, nil
}

// Summary returns copies of all records in creation order.
func (s *InMemoryStore) Summary(ctx context.Context) []entity.ImportRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]entity.ImportRecord, 0, len(s.order))
	for _, dataset := range s.order {
		records = append(records, *s.records[dataset])
	}

	return records
}
