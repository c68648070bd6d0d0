// Package docstore implements the application's persistence layer: a set of
// named collections of free-form records mirrored in memory and serialized
// as a single JSON document on disk.
//
// The whole document is loaded once at Open and written back after every
// mutation. Writes go to a temp file in the same directory followed by a
// rename, so a crash mid-write leaves the previous document intact (fsync is
// not forced; a power loss can still drop the most recent write).
//
// All operations take a single lock; mutations hold it across the whole
// read-modify-persist sequence, so concurrent callers never interleave
// partial updates. This is deliberate: collections are small (tens to low
// thousands of records) and every lookup is a linear scan, so correctness
// wins over throughput here.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Collection names present in every store. Callers may create additional
// collections implicitly by writing to them.
const (
	CollectionUsers    = "users"
	CollectionTasks    = "tasks"
	CollectionMachines = "machines"
	CollectionSessions = "sessions"
)

var defaultCollections = []string{
	CollectionUsers, CollectionTasks, CollectionMachines, CollectionSessions,
}

// Store holds every collection in memory and owns the backing file. One
// Store instance exists per process; the file is write-only after Open.
type Store struct {
	mu          sync.RWMutex
	path        string
	collections map[string][]Record
}

// SeedFunc populates first-run data. It runs inside Open, after the
// document is loaded and before the handle is returned, and must be
// idempotent on non-empty collections.
type SeedFunc func(ctx context.Context, s *Store) error

type options struct {
	seed SeedFunc
}

type Option func(*options)

// WithSeed registers a bootstrap function executed during Open.
func WithSeed(fn SeedFunc) Option {
	return func(o *options) { o.seed = fn }
}

// Open materializes the store from the JSON document at path. A missing
// file is not an error: the containing directory is created and an empty
// store with the default collections is returned. An existing file that
// does not parse into the expected shape fails with ErrCorruptStore.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{path: path}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		collections := make(map[string][]Record)
		if err := json.Unmarshal(data, &collections); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptStore, path, err)
		}
		// A bare "null" document unmarshals into a nil map without error.
		if collections == nil {
			return nil, fmt.Errorf("%w: %s: document is null", ErrCorruptStore, path)
		}
		s.collections = collections
	case os.IsNotExist(err):
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o770); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		s.collections = make(map[string][]Record)
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	for _, name := range defaultCollections {
		if s.collections[name] == nil {
			s.collections[name] = []Record{}
		}
	}

	if o.seed != nil {
		if err := o.seed(ctx, s); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	// Materialize the file immediately so a freshly bootstrapped store
	// survives a restart even if no mutation ever happens.
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persistLocked(); err != nil {
		return nil, err
	}

	return s, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// persistLocked serializes the whole document to disk. Callers must hold
// the write lock (or have exclusive access during Open).
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.collections, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrPersist, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	return nil
}

func (s *Store) ensureInitialized() error {
	if s == nil || s.collections == nil {
		return ErrNotInitialized
	}
	return nil
}
