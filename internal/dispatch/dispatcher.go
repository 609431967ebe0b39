// Package dispatch runs user commands against the remote resource and the
// todo store. Local state changes only after the remote confirms; every
// failure is logged and turned into exactly one notification.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/thehappyredwolf/todo-app/internal/config"
	"github.com/thehappyredwolf/todo-app/internal/model"
	"github.com/thehappyredwolf/todo-app/internal/notify"
	"github.com/thehappyredwolf/todo-app/internal/remote"
	"github.com/thehappyredwolf/todo-app/internal/todos"
)

// ErrLocalOnly is returned by Execute for commands that never leave the UI.
var ErrLocalOnly = errors.New("command has no remote effect")

// Remote is the subset of the REST client the dispatcher needs.
type Remote interface {
	Create(ctx context.Context, d remote.Draft) (model.Todo, error)
	Update(ctx context.Context, id int64, p remote.Patch) (model.Todo, error)
	Delete(ctx context.Context, id int64) error
}

type Dispatcher struct {
	store  *todos.Store
	remote Remote
	bus    *notify.Bus
	ids    config.IDPolicy
	now    func() time.Time
	log    zerolog.Logger
}

func New(store *todos.Store, r Remote, bus *notify.Bus, ids config.IDPolicy, logger zerolog.Logger) *Dispatcher {
	if ids == "" {
		ids = config.IDPolicyClient
	}
	return &Dispatcher{
		store:  store,
		remote: r,
		bus:    bus,
		ids:    ids,
		now:    time.Now,
		log:    logger,
	}
}

// Store exposes the store the dispatcher mutates.
func (d *Dispatcher) Store() *todos.Store { return d.store }

// Execute runs cmd and returns the affected record when there is one.
func (d *Dispatcher) Execute(ctx context.Context, cmd model.Command) (model.Todo, error) {
	switch cmd.Action {
	case model.ActionToggle:
		return d.Toggle(ctx, cmd.ID)
	case model.ActionDelete:
		t, _ := d.store.Get(cmd.ID)
		return t, d.Delete(ctx, cmd.ID)
	case model.ActionCreate:
		return d.Create(ctx, cmd.Text)
	case model.ActionClearCompleted:
		_, err := d.ClearCompleted(ctx)
		return model.Todo{}, err
	case model.ActionSetFilter:
		return model.Todo{}, ErrLocalOnly
	}
	return model.Todo{}, fmt.Errorf("unknown action %q", cmd.Action)
}

// Toggle flips the completion flag of id once the remote accepted it.
func (d *Dispatcher) Toggle(ctx context.Context, id int64) (model.Todo, error) {
	t, ok := d.store.Get(id)
	if !ok {
		d.bus.Alertf("Todo %d no longer exists.", id)
		return model.Todo{}, fmt.Errorf("toggle %d: %w", id, todos.ErrNotFound)
	}

	want := !t.Completed
	if _, err := d.remote.Update(ctx, id, remote.CompletedPatch(want)); err != nil {
		d.log.Error().Err(err).Int("status", remote.StatusOf(err)).Int64("id", id).Msg("update todo")
		d.bus.Alertf("Failed to update todo. Please try again.")
		return t, err
	}

	if err := d.store.SetCompleted(ctx, id, want); err != nil {
		if !d.persistFailed(err) {
			// Deleted while the update was in flight.
			d.log.Warn().Err(err).Int64("id", id).Msg("toggle target vanished")
			return t, err
		}
	}

	t.Completed = want
	d.log.Info().Int64("id", id).Bool("completed", want).Msg("todo toggled")
	return t, nil
}

// Delete removes id remotely, then locally.
func (d *Dispatcher) Delete(ctx context.Context, id int64) error {
	if err := d.remote.Delete(ctx, id); err != nil {
		d.log.Error().Err(err).Int("status", remote.StatusOf(err)).Int64("id", id).Msg("delete todo")
		d.bus.Alertf("Failed to delete todo. Please try again.")
		return err
	}

	removed, err := d.store.Remove(ctx, id)
	if err != nil {
		d.persistFailed(err)
	}
	d.log.Info().Int64("id", id).Bool("removed", removed).Msg("todo deleted")
	return nil
}

// Create validates text, posts it and prepends the confirmed record.
func (d *Dispatcher) Create(ctx context.Context, text string) (model.Todo, error) {
	title, err := model.ValidateTitle(text)
	if err != nil {
		d.bus.Alertf("Please enter at least %d characters.", model.MinTitleLength)
		return model.Todo{}, err
	}

	created, err := d.remote.Create(ctx, remote.Draft{
		Title:     title,
		Completed: false,
		UserID:    model.DefaultUserID,
	})
	if err != nil {
		d.log.Error().Err(err).Int("status", remote.StatusOf(err)).Str("title", title).Msg("create todo")
		d.bus.Alertf("Failed to create todo. Please try again.")
		return model.Todo{}, err
	}

	t := model.Todo{
		ID:        d.assignID(created),
		Title:     title,
		Completed: false,
		UserID:    model.DefaultUserID,
	}

	if err := d.store.Insert(ctx, t); err != nil {
		if errors.Is(err, todos.ErrDuplicateID) {
			d.log.Error().Err(err).Int64("server_id", created.ID).Msg("created todo clashes with local id")
			d.bus.Alertf("Todo was created remotely but id %d is already used locally.", t.ID)
			return model.Todo{}, err
		}
		d.persistFailed(err)
	}

	d.log.Info().Int64("id", t.ID).Int64("server_id", created.ID).Str("policy", string(d.ids)).Msg("todo created")
	return t, nil
}

// ClearCompleted runs the delete flow for every completed record at once.
// Completions arrive in any order; each failure is alerted on its own. The
// returned ids are the records actually removed.
func (d *Dispatcher) ClearCompleted(ctx context.Context) ([]int64, error) {
	var (
		g       errgroup.Group
		mu      sync.Mutex
		removed []int64
	)

	for _, t := range d.store.Completed() {
		id := t.ID
		g.Go(func() error {
			if err := d.Delete(ctx, id); err != nil {
				return fmt.Errorf("delete %d: %w", id, err)
			}
			mu.Lock()
			removed = append(removed, id)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	return removed, err
}

// assignID applies the configured id policy to a record the remote created.
func (d *Dispatcher) assignID(created model.Todo) int64 {
	if d.ids == config.IDPolicyServer && created.ID != 0 {
		return created.ID
	}
	return d.store.UniqueID(d.now().UnixMilli())
}

// persistFailed reports a cache write failure as a banner. It returns false
// when err is not a persistence error.
func (d *Dispatcher) persistFailed(err error) bool {
	var perr *todos.PersistError
	if !errors.As(err, &perr) {
		return false
	}
	d.bus.Bannerf("Could not save todos locally: %v", perr.Err)
	return true
}
