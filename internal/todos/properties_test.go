package todos

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"pgregory.net/rapid"

	"github.com/thehappyredwolf/todo-app/internal/model"
)

func genTodos(t *rapid.T) []model.Todo {
	n := rapid.IntRange(0, 20).Draw(t, "n")
	out := make([]model.Todo, n)
	for i := range n {
		out[i] = model.Todo{
			ID:        int64(i + 1),
			Title:     rapid.StringMatching(`[a-z]{3,8}`).Draw(t, "title"),
			Completed: rapid.Bool().Draw(t, "completed"),
		}
	}
	return out
}

// isSubsequence reports whether sub appears in all in the same relative order.
func isSubsequence(sub, all []model.Todo) bool {
	j := 0
	for _, t := range all {
		if j < len(sub) && sub[j] == t {
			j++
		}
	}
	return j == len(sub)
}

func TestFilter_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		todos := genTodos(t)

		all := Filter(todos, model.FilterAll)
		active := Filter(todos, model.FilterActive)
		completed := Filter(todos, model.FilterCompleted)

		if len(all) != len(todos) {
			t.Fatalf("all dropped records: %d != %d", len(all), len(todos))
		}
		if len(active)+len(completed) != len(all) {
			t.Fatalf("active+completed = %d, want %d", len(active)+len(completed), len(all))
		}
		if !isSubsequence(active, all) || !isSubsequence(completed, all) {
			t.Fatalf("filtered views are not order-preserving subsequences")
		}

		ids := make(map[int64]bool)
		for _, td := range active {
			ids[td.ID] = true
		}
		for _, td := range completed {
			if ids[td.ID] {
				t.Fatalf("id %d is both active and completed", td.ID)
			}
		}
	})
}

func TestStore_RemainingCountUnderToggles(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		initial := genTodos(t)
		cache := &memCache{data: initial}
		s := New(cache, DefaultLimit, zerolog.Nop())
		if _, err := s.Hydrate(ctx, listerFunc(func(context.Context) ([]model.Todo, error) { return nil, nil })); err != nil {
			t.Fatalf("hydrate: %v", err)
		}

		steps := rapid.IntRange(0, 30).Draw(t, "steps")
		for range steps {
			if len(initial) == 0 {
				break
			}
			id := int64(rapid.IntRange(1, len(initial)).Draw(t, "id"))
			cur, _ := s.Get(id)
			if err := s.SetCompleted(ctx, id, !cur.Completed); err != nil {
				t.Fatalf("toggle %d: %v", id, err)
			}

			all := s.All()
			done, pending := model.Stats(all)
			if s.RemainingCount() != pending {
				t.Fatalf("remaining %d != pending %d", s.RemainingCount(), pending)
			}
			if s.RemainingCount() != len(all)-done {
				t.Fatalf("remaining %d != total-completed %d", s.RemainingCount(), len(all)-done)
			}
		}
	})
}

func TestStore_RemoveProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		initial := genTodos(t)
		s := New(&memCache{data: initial}, DefaultLimit, zerolog.Nop())
		if _, err := s.Hydrate(ctx, listerFunc(func(context.Context) ([]model.Todo, error) { return nil, nil })); err != nil {
			t.Fatalf("hydrate: %v", err)
		}

		id := int64(rapid.IntRange(0, 25).Draw(t, "id"))
		existed := s.Contains(id)
		before := s.Len()

		removed, err := s.Remove(ctx, id)
		if err != nil {
			t.Fatalf("remove: %v", err)
		}
		if removed != existed {
			t.Fatalf("removed=%v existed=%v", removed, existed)
		}

		want := before
		if existed {
			want--
		}
		if s.Len() != want {
			t.Fatalf("len %d, want %d", s.Len(), want)
		}
		if s.Contains(id) {
			t.Fatalf("id %d still present", id)
		}
	})
}
