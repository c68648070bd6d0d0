package docstore

import (
	"context"
	"time"

	"github.com/dkozel/shopfloor/internal/common"
	"github.com/google/uuid"
)

// Create appends a new record to the collection, creating the collection if
// it does not exist yet. The store assigns id, createdAt and updatedAt;
// caller-supplied values for those fields are discarded. Duplicate business
// keys (e.g. an email already in use) are the caller's concern — Create
// never checks them.
//
// If the disk write fails the record stays in memory and the error wraps
// ErrPersist.
func (s *Store) Create(ctx context.Context, collection string, fields Record) (Record, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(TimeLayout)

	rec := fields.clone()
	if rec == nil {
		rec = Record{}
	}
	rec[FieldID] = uuid.NewString()
	rec[FieldCreatedAt] = now
	rec[FieldUpdatedAt] = now

	s.collections[collection] = append(s.collections[collection], rec)

	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return rec.clone(), nil
}

// Update shallow-merges fields into the record with the given id: supplied
// keys overwrite (nested structures wholesale, no deep merge), omitted keys
// persist. The id and createdAt fields are never overwritten; updatedAt is
// always refreshed. Returns common.ErrorNotFound if no record matches.
func (s *Store) Update(ctx context.Context, collection, id string, fields Record) (Record, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(collection, id)
	if idx < 0 {
		return nil, common.ErrorNotFound
	}

	rec := s.collections[collection][idx]
	for k, v := range fields {
		if k == FieldID || k == FieldCreatedAt {
			continue
		}
		rec[k] = v
	}
	rec[FieldUpdatedAt] = time.Now().UTC().Format(TimeLayout)

	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return rec.clone(), nil
}

// Delete removes the record with the given id. Reports whether a record was
// actually removed; deleting an unknown id is a no-op, not an error. The
// document is only rewritten when a removal happened.
func (s *Store) Delete(ctx context.Context, collection, id string) (bool, error) {
	if err := s.ensureInitialized(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(collection, id)
	if idx < 0 {
		return false, nil
	}

	recs := s.collections[collection]
	s.collections[collection] = append(recs[:idx], recs[idx+1:]...)

	if err := s.persistLocked(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) indexOfLocked(collection, id string) int {
	for i, r := range s.collections[collection] {
		if r.ID() == id {
			return i
		}
	}
	return -1
}
