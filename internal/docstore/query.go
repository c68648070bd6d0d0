package docstore

import (
	"context"

	"github.com/dkozel/shopfloor/internal/common"
)

// Pagination defaults applied when the caller passes non-positive values.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Pagination describes the slice of results returned by Paginate.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// PageResult is one page of records plus its pagination envelope.
type PageResult struct {
	Data       []Record   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// FindByID returns the record with the given id, or common.ErrorNotFound.
// Absence is a normal outcome; callers translate it to a 404 at the edge.
func (s *Store) FindByID(ctx context.Context, collection, id string) (Record, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.collections[collection] {
		if r.ID() == id {
			return r.clone(), nil
		}
	}
	return nil, common.ErrorNotFound
}

// FindByField returns the first record whose field equals value, in
// collection order, or common.ErrorNotFound.
func (s *Store) FindByField(ctx context.Context, collection, field string, value any) (Record, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p := Equals{Field: field, Value: value}
	for _, r := range s.collections[collection] {
		if p.Matches(r) {
			return r.clone(), nil
		}
	}
	return nil, common.ErrorNotFound
}

// FindAll returns every record matching the filter, in insertion order. A
// missing or empty collection yields an empty slice, never an error.
func (s *Store) FindAll(ctx context.Context, collection string, filter Filter) ([]Record, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findAllLocked(collection, filter), nil
}

func (s *Store) findAllLocked(collection string, filter Filter) []Record {
	matched := []Record{}
	for _, r := range s.collections[collection] {
		if filter.Matches(r) {
			matched = append(matched, r.clone())
		}
	}
	return matched
}

// Paginate filters the collection and slices out one page. Out-of-range
// pages yield an empty data slice; non-positive page/limit fall back to the
// defaults rather than failing.
func (s *Store) Paginate(ctx context.Context, collection string, page, limit int, filter Filter) (*PageResult, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	s.mu.RLock()
	matched := s.findAllLocked(collection, filter)
	s.mu.RUnlock()

	total := len(matched)
	pages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &PageResult{
		Data: matched[start:end],
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}
