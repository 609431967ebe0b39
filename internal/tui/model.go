// Package tui is the interactive front-end: a Bubble Tea program that decodes
// keys and mouse clicks into model.Commands and hands them to the dispatcher.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/thehappyredwolf/todo-app/internal/dispatch"
	"github.com/thehappyredwolf/todo-app/internal/model"
	"github.com/thehappyredwolf/todo-app/internal/notify"
	"github.com/thehappyredwolf/todo-app/internal/todos"
	"github.com/thehappyredwolf/todo-app/internal/view"
)

const (
	defaultBannerTTL = 3 * time.Second
	notesBuffer      = 64
)

// Options wires the model to the rest of the application.
type Options struct {
	Dispatcher *dispatch.Dispatcher
	Lister     todos.Lister
	Bus        *notify.Bus
	BannerTTL  time.Duration
	FadeDelay  time.Duration
	Logger     zerolog.Logger
}

type (
	hydratedMsg struct {
		source todos.Source
		err    error
	}
	toggledMsg struct {
		id   int64
		todo model.Todo
		err  error
	}
	deletedMsg struct {
		id  int64
		err error
	}
	createdMsg struct {
		todo model.Todo
		err  error
	}
	noteMsg          notify.Notification
	fadeTickMsg      struct{}
	bannerExpiredMsg struct{ seq int }
)

// Model owns the state the screen is derived from. The todo collection lives
// in the store; everything else here is transient UI state.
type Model struct {
	ctx   context.Context
	disp  *dispatch.Dispatcher
	store *todos.Store
	lists todos.Lister
	bus   *notify.Bus
	notes chan notify.Notification
	log   zerolog.Logger

	filter  model.Filter
	list    *view.List
	fades   *view.Transitions
	ticking bool

	toggling   map[int64]bool
	deleting   map[int64]bool
	removed    map[int64]model.Todo // deleted but still fading out
	submitting bool

	loading bool
	spin    spinner.Model

	adding bool
	input  textinput.Model

	banner    string
	bannerSeq int
	bannerTTL time.Duration
	alerts    []string

	cursor int
	offset int
	width  int
	height int

	keys keyMap
	help help.Model
}

// New builds the model and subscribes it to the notification bus.
func New(ctx context.Context, opts Options) Model {
	ttl := opts.BannerTTL
	if ttl <= 0 {
		ttl = defaultBannerTTL
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	notes := make(chan notify.Notification, notesBuffer)
	logger := opts.Logger
	opts.Bus.Subscribe(func(n notify.Notification) {
		select {
		case notes <- n:
		default:
			logger.Warn().Str("kind", string(n.Kind)).Str("message", n.Message).Msg("notification dropped, queue full")
		}
	})

	w, h := widthHeight()
	return Model{
		ctx:       ctx,
		disp:      opts.Dispatcher,
		store:     opts.Dispatcher.Store(),
		lists:     opts.Lister,
		bus:       opts.Bus,
		notes:     notes,
		log:       opts.Logger,
		filter:    model.FilterAll,
		list:      view.NewList(),
		fades:     view.NewTransitions(opts.FadeDelay),
		toggling:  make(map[int64]bool),
		deleting:  make(map[int64]bool),
		removed:   make(map[int64]model.Todo),
		loading:   true,
		spin:      sp,
		input:     ti,
		bannerTTL: ttl,
		width:     w,
		height:    h,
		keys:      defaultKeys(),
		help:      help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.hydrate(), m.waitForNote())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.scroll()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case hydratedMsg:
		m.loading = false
		var perr *todos.PersistError
		switch {
		case errors.As(msg.err, &perr):
			m.bus.Bannerf("Could not save todos locally: %v", perr.Err)
		case msg.err != nil:
			m.bus.Bannerf("Failed to load todos. Please try again later.")
		}
		m.log.Debug().Str("source", msg.source.String()).Int("count", m.store.Len()).Msg("hydrated")
		m.remount()
		return m, nil

	case noteMsg:
		cmd := m.notify(notify.Notification(msg))
		return m, tea.Batch(cmd, m.waitForNote())

	case bannerExpiredMsg:
		if msg.seq == m.bannerSeq {
			m.banner = ""
		}
		return m, nil

	case toggledMsg:
		return m.onToggled(msg)

	case deletedMsg:
		return m.onDeleted(msg)

	case createdMsg:
		return m.onCreated(msg)

	case fadeTickMsg:
		return m.onFadeTick()

	case tea.MouseMsg:
		return m.onMouse(msg)

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	if m.adding {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// The alert is modal: only dismissal gets through.
	if len(m.alerts) > 0 {
		switch msg.String() {
		case "enter", "esc", " ":
			m.alerts = m.alerts[1:]
		}
		return m, nil
	}

	if m.adding {
		switch msg.String() {
		case "enter":
			if m.submitting {
				return m, nil
			}
			m.submitting = true
			return m, m.execute(model.Command{Action: model.ActionCreate, Text: m.input.Value()})
		case "esc":
			m.adding = false
			m.input.SetValue("")
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.loading {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.scroll()
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.list.Len()-1 {
			m.cursor++
		}
		m.scroll()
	case key.Matches(msg, m.keys.Toggle):
		if id, ok := m.current(); ok {
			return m.run(model.Command{Action: model.ActionToggle, ID: id})
		}
	case key.Matches(msg, m.keys.Delete):
		if id, ok := m.current(); ok {
			return m.run(model.Command{Action: model.ActionDelete, ID: id})
		}
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Filter):
		return m.run(model.Command{Action: model.ActionSetFilter, Filter: m.filter.Next()})
	case key.Matches(msg, m.keys.All):
		return m.run(model.Command{Action: model.ActionSetFilter, Filter: model.FilterAll})
	case key.Matches(msg, m.keys.Active):
		return m.run(model.Command{Action: model.ActionSetFilter, Filter: model.FilterActive})
	case key.Matches(msg, m.keys.Completed):
		return m.run(model.Command{Action: model.ActionSetFilter, Filter: model.FilterCompleted})
	case key.Matches(msg, m.keys.Clear):
		return m.run(model.Command{Action: model.ActionClearCompleted})
	}
	return m, nil
}

func (m Model) onMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if len(m.alerts) > 0 || m.loading {
		return m, nil
	}
	cmd, ok := m.hitTest(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	if cmd.ID != 0 {
		if i := m.list.IndexOf(cmd.ID); i >= 0 {
			m.cursor = i
		}
	}
	return m.run(cmd)
}

// run starts cmd. Remote work is returned as a tea.Cmd; the matching
// control is disabled until its result message arrives.
func (m Model) run(cmd model.Command) (tea.Model, tea.Cmd) {
	switch cmd.Action {
	case model.ActionToggle:
		if m.toggling[cmd.ID] || m.deleting[cmd.ID] {
			return m, nil
		}
		m.toggling[cmd.ID] = true
		m.refresh(cmd.ID)
		return m, m.execute(cmd)

	case model.ActionDelete:
		return m, m.beginDelete(cmd.ID)

	case model.ActionSetFilter:
		if cmd.Filter == m.filter {
			return m, nil
		}
		m.filter = cmd.Filter
		m.cursor, m.offset = 0, 0
		m.remount()
		return m, nil

	case model.ActionClearCompleted:
		var cmds []tea.Cmd
		for _, t := range m.store.Completed() {
			cmds = append(cmds, m.beginDelete(t.ID))
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// beginDelete marks id pending and returns the remote call, or nil when a
// delete or toggle of id is already in flight.
func (m *Model) beginDelete(id int64) tea.Cmd {
	if m.deleting[id] || m.toggling[id] {
		return nil
	}
	t, ok := m.store.Get(id)
	if !ok {
		return nil
	}
	m.deleting[id] = true
	m.removed[id] = t
	m.refresh(id)
	return m.execute(model.Command{Action: model.ActionDelete, ID: id})
}

func (m Model) onToggled(msg toggledMsg) (tea.Model, tea.Cmd) {
	delete(m.toggling, msg.id)

	t, ok := m.store.Get(msg.id)
	switch {
	case !ok:
		m.list.Unmount(msg.id)
	case m.filter.Match(t):
		m.list.Replace(t, m.itemState(t.ID))
	default:
		// no longer part of the filtered view
		m.list.Unmount(msg.id)
	}
	m.scroll()
	return m, nil
}

func (m Model) onDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		delete(m.deleting, msg.id)
		delete(m.removed, msg.id)
		m.refresh(msg.id)
		return m, nil
	}
	m.fades.Start(msg.id, view.FadeOut)
	m.refresh(msg.id)
	return m, m.startTicking()
}

func (m Model) onCreated(msg createdMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	if msg.err != nil {
		return m, nil
	}
	m.adding = false
	m.input.SetValue("")
	m.input.Blur()

	if !m.filter.Match(msg.todo) {
		return m, nil
	}
	m.fades.Start(msg.todo.ID, view.FadeIn)
	m.list.Insert(0, msg.todo, m.itemState(msg.todo.ID))
	m.cursor = 0
	m.scroll()
	return m, m.startTicking()
}

func (m Model) onFadeTick() (tea.Model, tea.Cmd) {
	for _, f := range m.fades.Tick() {
		switch f.Kind {
		case view.FadeOut:
			delete(m.deleting, f.ID)
			delete(m.removed, f.ID)
			m.list.Unmount(f.ID)
		case view.FadeIn:
			m.refresh(f.ID)
		}
	}
	m.scroll()
	if !m.fades.Active() {
		m.ticking = false
		return m, nil
	}
	return m, fadeTick()
}

// notify presents n: banners replace each other and expire, alerts queue.
func (m *Model) notify(n notify.Notification) tea.Cmd {
	if n.Kind == notify.KindAlert {
		m.alerts = append(m.alerts, n.Message)
		return nil
	}
	m.banner = n.Message
	m.bannerSeq++
	seq := m.bannerSeq
	return tea.Tick(m.bannerTTL, func(time.Time) tea.Msg { return bannerExpiredMsg{seq: seq} })
}

func (m *Model) startTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return fadeTick()
}

func fadeTick() tea.Cmd {
	return tea.Tick(view.TickInterval, func(time.Time) tea.Msg { return fadeTickMsg{} })
}

// remount rebuilds the list from the filtered store.
func (m *Model) remount() {
	m.list.Mount(m.store.Filtered(m.filter), m.itemState)
	m.scroll()
}

// refresh re-renders the mounted element for id. A record that already left
// the store is drawn from its snapshot until the fade-out unmounts it.
func (m *Model) refresh(id int64) {
	t, ok := m.store.Get(id)
	if !ok {
		if t, ok = m.removed[id]; !ok {
			return
		}
	}
	m.list.Replace(t, m.itemState(id))
}

func (m *Model) itemState(id int64) view.ItemState {
	return view.ItemState{
		Toggling: m.toggling[id],
		Deleting: m.deleting[id],
		Fade:     m.fades.Get(id),
	}
}

func (m Model) current() (int64, bool) {
	e, ok := m.list.At(m.cursor)
	return e.ID, ok
}

func (m Model) hydrate() tea.Cmd {
	ctx, store, lists := m.ctx, m.store, m.lists
	return func() tea.Msg {
		src, err := store.Hydrate(ctx, lists)
		return hydratedMsg{source: src, err: err}
	}
}

// execute hands a remote command to the dispatcher and reports the outcome
// as the result message of its action.
func (m Model) execute(cmd model.Command) tea.Cmd {
	ctx, disp := m.ctx, m.disp
	return func() tea.Msg {
		t, err := disp.Execute(ctx, cmd)
		switch cmd.Action {
		case model.ActionToggle:
			return toggledMsg{id: cmd.ID, todo: t, err: err}
		case model.ActionDelete:
			return deletedMsg{id: cmd.ID, err: err}
		case model.ActionCreate:
			return createdMsg{todo: t, err: err}
		}
		return nil
	}
}

func (m Model) waitForNote() tea.Cmd {
	notes := m.notes
	return func() tea.Msg {
		return noteMsg(<-notes)
	}
}
