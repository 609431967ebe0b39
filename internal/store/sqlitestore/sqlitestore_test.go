package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thehappyredwolf/todo-app/internal/model"
	"github.com/thehappyredwolf/todo-app/internal/store"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "todos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_LoadEmpty(t *testing.T) {
	s := openTest(t)

	todos, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestStore_RoundTripAndOverwrite(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	first := []model.Todo{{ID: 1, Title: "one", UserID: 1}}
	require.NoError(t, s.Save(ctx, first))

	second := []model.Todo{
		{ID: 2, Title: "two", Completed: true, UserID: 1},
		{ID: 1, Title: "one", UserID: 1},
	}
	require.NoError(t, s.Save(ctx, second))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(second, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todos.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, []model.Todo{{ID: 5, Title: "persisted"}}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "persisted", got[0].Title)
}

func TestStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	_, err := s.conn.ExecContext(ctx, "INSERT INTO kv (key, value) VALUES (?, ?)", store.Key, []byte("nope"))
	require.NoError(t, err)

	todos, err := s.Load(ctx)
	require.ErrorIs(t, err, store.ErrCorrupt)
	assert.Empty(t, todos)
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	require.NoError(t, s.Save(ctx, []model.Todo{{ID: 1, Title: "one"}}))

	require.NoError(t, s.Clear(ctx))

	todos, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}
