// Package todos holds the in-memory ordered todo collection, the single source
// of truth for rendering. Every mutation is followed by a full cache write.
package todos

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/thehappyredwolf/todo-app/internal/model"
	"github.com/thehappyredwolf/todo-app/internal/store"
)

// DefaultLimit is how many records the first remote fetch keeps.
const DefaultLimit = 10

var (
	ErrNotFound    = errors.New("todo not found")
	ErrDuplicateID = errors.New("todo id already exists")
)

// PersistError is returned when a mutation was applied in memory but the
// cache write failed. The in-memory state stays mutated.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist after %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Lister fetches the remote collection.
type Lister interface {
	List(ctx context.Context) ([]model.Todo, error)
}

// Source tells where hydration found its data.
type Source int

const (
	SourceNone Source = iota
	SourceCache
	SourceRemote
)

func (s Source) String() string {
	switch s {
	case SourceCache:
		return "cache"
	case SourceRemote:
		return "remote"
	default:
		return "none"
	}
}

// Store is the ordered todo collection. Newest created records come first.
// It is safe for concurrent use; each mutation targets its own id so
// out-of-order completions leave the collection consistent.
type Store struct {
	mu    sync.Mutex
	todos []model.Todo
	cache store.Cache
	limit int
	log   zerolog.Logger
}

func New(cache store.Cache, limit int, logger zerolog.Logger) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		cache: cache,
		limit: limit,
		log:   logger,
	}
}

// Hydrate adopts the cached collection when it is non-empty, otherwise
// fetches from l, keeps the first Limit records and persists them. A fetch
// failure leaves the store empty.
func (s *Store) Hydrate(ctx context.Context, l Lister) (Source, error) {
	cached, err := s.cache.Load(ctx)
	if err != nil {
		// Unreadable cache counts as empty; the remote is the fallback.
		s.log.Warn().Err(err).Bool("corrupt", errors.Is(err, store.ErrCorrupt)).Msg("cache load failed, treating as empty")
		cached = nil
	}

	if len(cached) > 0 {
		s.mu.Lock()
		s.todos = dedupe(cached)
		n := len(s.todos)
		s.mu.Unlock()
		s.log.Debug().Int("count", n).Msg("hydrated from cache")
		return SourceCache, nil
	}

	fetched, err := l.List(ctx)
	if err != nil {
		s.mu.Lock()
		s.todos = nil
		s.mu.Unlock()
		return SourceNone, fmt.Errorf("fetch todos: %w", err)
	}

	if len(fetched) > s.limit {
		fetched = fetched[:s.limit]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = dedupe(fetched)
	s.log.Debug().Int("count", len(s.todos)).Msg("hydrated from remote")
	if err := s.persist(ctx, "hydrate"); err != nil {
		return SourceRemote, err
	}
	return SourceRemote, nil
}

// Insert prepends t. A record with the same id is rejected untouched.
func (s *Store) Insert(ctx context.Context, t model.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(t.ID) >= 0 {
		return fmt.Errorf("insert %d: %w", t.ID, ErrDuplicateID)
	}

	next := make([]model.Todo, 0, len(s.todos)+1)
	next = append(next, t)
	next = append(next, s.todos...)
	s.todos = next

	return s.persist(ctx, "insert")
}

// Remove drops the record with id. It reports false, and writes nothing,
// when no such record exists.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := make([]model.Todo, 0, len(s.todos)-1)
	next = append(next, s.todos[:i]...)
	next = append(next, s.todos[i+1:]...)
	s.todos = next

	return true, s.persist(ctx, "remove")
}

// SetCompleted flips the completion flag of id in place.
func (s *Store) SetCompleted(ctx context.Context, id int64, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("set completed %d: %w", id, ErrNotFound)
	}
	s.todos[i].Completed = completed

	return s.persist(ctx, "set-completed")
}

// Reset empties memory and the cache so the next Hydrate hits the remote.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.todos = nil
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Get returns the record with id.
func (s *Store) Get(id int64) (model.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Todo{}, false
	}
	return s.todos[i], true
}

func (s *Store) Contains(id int64) bool {
	_, ok := s.Get(id)
	return ok
}

// All returns a copy of the collection in store order.
func (s *Store) All() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.todos)
}

// Filtered is the derived view for f.
func (s *Store) Filtered(f model.Filter) []model.Todo {
	return Filter(s.All(), f)
}

// Completed returns the completed records in store order.
func (s *Store) Completed() []model.Todo {
	return s.Filtered(model.FilterCompleted)
}

// RemainingCount is the number of records not yet completed.
func (s *Store) RemainingCount() int {
	return Remaining(s.All())
}

// UniqueID returns candidate, bumped until no record uses it.
func (s *Store) UniqueID(candidate int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.indexOf(candidate) >= 0 {
		candidate++
	}
	return candidate
}

func (s *Store) indexOf(id int64) int {
	for i, t := range s.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context, op string) error {
	snapshot := make([]model.Todo, len(s.todos))
	copy(snapshot, s.todos)
	if err := s.cache.Save(ctx, snapshot); err != nil {
		s.log.Error().Err(err).Str("op", op).Msg("cache save failed")
		return &PersistError{Op: op, Err: err}
	}
	return nil
}

// Filter keeps the records matched by f, preserving order.
func Filter(todos []model.Todo, f model.Filter) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Remaining counts records where Completed is false.
func Remaining(todos []model.Todo) int {
	n := 0
	for _, t := range todos {
		if !t.Completed {
			n++
		}
	}
	return n
}

func dedupe(todos []model.Todo) []model.Todo {
	seen := make(map[int64]struct{}, len(todos))
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
