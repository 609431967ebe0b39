package todos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thehappyredwolf/todo-app/internal/model"
	"github.com/thehappyredwolf/todo-app/internal/store"
)

// memCache is an in-memory store.Cache.
type memCache struct {
	mu      sync.Mutex
	data    []model.Todo
	loadErr error
	saveErr error
	saves   int
}

func (c *memCache) Load(context.Context) ([]model.Todo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loadErr != nil {
		return []model.Todo{}, c.loadErr
	}
	out := make([]model.Todo, len(c.data))
	copy(out, c.data)
	return out, nil
}

func (c *memCache) Save(_ context.Context, todos []model.Todo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	c.saves++
	c.data = make([]model.Todo, len(todos))
	copy(c.data, todos)
	return nil
}

func (c *memCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
	return nil
}

func (c *memCache) Close() error { return nil }

type listerFunc func(ctx context.Context) ([]model.Todo, error)

func (f listerFunc) List(ctx context.Context) ([]model.Todo, error) { return f(ctx) }

func staticLister(todos ...model.Todo) (Lister, *int) {
	calls := 0
	return listerFunc(func(context.Context) ([]model.Todo, error) {
		calls++
		return todos, nil
	}), &calls
}

func remoteTodos(n int) []model.Todo {
	out := make([]model.Todo, n)
	for i := range n {
		out[i] = model.Todo{ID: int64(i + 1), Title: fmt.Sprintf("todo %d", i+1), Completed: i%3 == 0, UserID: 1}
	}
	return out
}

func newStore(t *testing.T, cache *memCache, todos ...model.Todo) *Store {
	t.Helper()
	s := New(cache, DefaultLimit, zerolog.Nop())
	if len(todos) > 0 {
		cache.data = todos
		_, err := s.Hydrate(context.Background(), listerFunc(func(context.Context) ([]model.Todo, error) {
			t.Fatal("unexpected remote fetch")
			return nil, nil
		}))
		require.NoError(t, err)
	}
	return s
}

func scenarioTodos() []model.Todo {
	return []model.Todo{
		{ID: 1, Title: "A", Completed: false},
		{ID: 2, Title: "B", Completed: true},
	}
}

func TestStore_Hydrate_FromCache(t *testing.T) {
	cache := &memCache{data: scenarioTodos()}
	s := New(cache, DefaultLimit, zerolog.Nop())
	lister, calls := staticLister(remoteTodos(3)...)

	src, err := s.Hydrate(context.Background(), lister)
	require.NoError(t, err)

	assert.Equal(t, SourceCache, src)
	assert.Equal(t, 0, *calls)
	assert.Equal(t, scenarioTodos(), s.All())
	assert.Equal(t, 0, cache.saves, "adopting the cache must not rewrite it")
}

func TestStore_Hydrate_FromRemoteTruncatesAndPersists(t *testing.T) {
	cache := &memCache{}
	s := New(cache, DefaultLimit, zerolog.Nop())
	lister, calls := staticLister(remoteTodos(200)...)

	src, err := s.Hydrate(context.Background(), lister)
	require.NoError(t, err)

	assert.Equal(t, SourceRemote, src)
	assert.Equal(t, 1, *calls)
	require.Equal(t, 10, s.Len())
	assert.Equal(t, remoteTodos(10), s.All())
	assert.Equal(t, remoteTodos(10), cache.data)
}

func TestStore_Hydrate_CorruptCacheFallsBackToRemote(t *testing.T) {
	cache := &memCache{loadErr: store.Corrupt(errors.New("bad json"))}
	s := New(cache, 2, zerolog.Nop())
	lister, calls := staticLister(remoteTodos(5)...)

	src, err := s.Hydrate(context.Background(), lister)
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, src)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, 2, s.Len())
}

func TestStore_Hydrate_FetchFailureLeavesEmpty(t *testing.T) {
	cache := &memCache{}
	s := New(cache, DefaultLimit, zerolog.Nop())
	boom := errors.New("offline")

	src, err := s.Hydrate(context.Background(), listerFunc(func(context.Context) ([]model.Todo, error) {
		return nil, boom
	}))

	require.ErrorIs(t, err, boom)
	assert.Equal(t, SourceNone, src)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, cache.saves)
}

func TestStore_Hydrate_DropsDuplicateIDs(t *testing.T) {
	var logs bytes.Buffer
	cache := &memCache{data: []model.Todo{{ID: 1, Title: "first"}, {ID: 1, Title: "again"}, {ID: 2, Title: "two"}}}
	s := New(cache, DefaultLimit, zerolog.New(&logs).Level(zerolog.DebugLevel))
	lister, _ := staticLister()

	_, err := s.Hydrate(context.Background(), lister)
	require.NoError(t, err)

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].Title)
	assert.Contains(t, logs.String(), `"count":2`, "logs the adopted count")
}

func TestStore_Scenario_FilterAndCount(t *testing.T) {
	s := newStore(t, &memCache{}, scenarioTodos()...)

	active := s.Filtered(model.FilterActive)
	require.Len(t, active, 1)
	assert.Equal(t, int64(1), active[0].ID)
	assert.Equal(t, 1, s.RemainingCount())
	assert.Equal(t, scenarioTodos(), s.Filtered(model.FilterAll))
}

func TestStore_Scenario_RemoveTwice(t *testing.T) {
	ctx := context.Background()
	cache := &memCache{}
	s := newStore(t, cache, scenarioTodos()...)

	removed, err := s.Remove(ctx, 2)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []model.Todo{{ID: 1, Title: "A"}}, s.All())
	saves := cache.saves

	removed, err = s.Remove(ctx, 2)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, []model.Todo{{ID: 1, Title: "A"}}, s.All())
	assert.Equal(t, saves, cache.saves, "no-op remove must not write")
}

func TestStore_Insert_Prepends(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &memCache{})

	require.NoError(t, s.Insert(ctx, model.Todo{ID: 10, Title: "Buy milk"}))
	require.NoError(t, s.Insert(ctx, model.Todo{ID: 11, Title: "Buy eggs"}))

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Buy eggs", all[0].Title)
	assert.Equal(t, "Buy milk", all[1].Title)
}

func TestStore_Insert_RejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &memCache{}, scenarioTodos()...)

	err := s.Insert(ctx, model.Todo{ID: 1, Title: "dup"})
	require.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, scenarioTodos(), s.All())
}

func TestStore_SetCompleted(t *testing.T) {
	ctx := context.Background()
	cache := &memCache{}
	s := newStore(t, cache, scenarioTodos()...)

	require.NoError(t, s.SetCompleted(ctx, 1, true))
	got, ok := s.Get(1)
	require.True(t, ok)
	assert.True(t, got.Completed)
	assert.Equal(t, 0, s.RemainingCount())
	assert.True(t, cache.data[0].Completed)

	err := s.SetCompleted(ctx, 99, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_PersistErrorKeepsMutation(t *testing.T) {
	ctx := context.Background()
	cache := &memCache{}
	s := newStore(t, cache, scenarioTodos()...)
	cache.saveErr = errors.New("disk full")

	err := s.SetCompleted(ctx, 1, true)

	var perr *PersistError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "set-completed", perr.Op)
	got, _ := s.Get(1)
	assert.True(t, got.Completed)
}

func TestStore_PersistedSnapshotRoundTrips(t *testing.T) {
	ctx := context.Background()
	cache := &memCache{}
	s := newStore(t, cache, scenarioTodos()...)

	require.NoError(t, s.Insert(ctx, model.Todo{ID: 3, Title: "C"}))
	require.NoError(t, s.SetCompleted(ctx, 1, true))
	_, err := s.Remove(ctx, 2)
	require.NoError(t, err)

	reloaded := New(cache, DefaultLimit, zerolog.Nop())
	lister, calls := staticLister()
	_, err = reloaded.Hydrate(ctx, lister)
	require.NoError(t, err)

	assert.Equal(t, 0, *calls)
	assert.Equal(t, s.All(), reloaded.All())
}

func TestStore_UniqueID(t *testing.T) {
	s := newStore(t, &memCache{}, model.Todo{ID: 5}, model.Todo{ID: 6})

	assert.Equal(t, int64(7), s.UniqueID(5))
	assert.Equal(t, int64(1), s.UniqueID(1))
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	cache := &memCache{}
	s := newStore(t, cache, scenarioTodos()...)

	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, cache.data)
}

func TestStore_ConcurrentRemovesKeepOthers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &memCache{}, remoteTodos(10)...)

	var wg sync.WaitGroup
	for id := int64(1); id <= 10; id += 2 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := s.Remove(ctx, id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	all := s.All()
	require.Len(t, all, 5)
	for _, td := range all {
		assert.Zero(t, td.ID%2, "odd id %d should be gone", td.ID)
	}
}
