package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thehappyredwolf/todo-app/internal/model"
	"github.com/thehappyredwolf/todo-app/internal/store"
)

func TestStore_LoadMissingIsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "todos.json"))

	todos, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "nested", "todos.json"))

	want := []model.Todo{
		{ID: 1700000000000, Title: "Buy eggs", UserID: 1},
		{ID: 1, Title: "delectus aut autem", Completed: true, UserID: 1},
	}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "todos.json"))

	require.NoError(t, s.Save(ctx, []model.Todo{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}}))
	require.NoError(t, s.Save(ctx, []model.Todo{{ID: 3, Title: "three"}}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestStore_CorruptContent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0o644))

	todos, err := New(p).Load(context.Background())
	require.ErrorIs(t, err, store.ErrCorrupt)
	assert.Empty(t, todos)
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "todos.json"))
	require.NoError(t, s.Save(ctx, []model.Todo{{ID: 1, Title: "one"}}))

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	todos, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}
