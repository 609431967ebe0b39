package view

import "time"

// TickInterval is the animation frame length.
const TickInterval = 50 * time.Millisecond

// FadeKind is the direction of a transient fade.
type FadeKind int

const (
	FadeNone FadeKind = iota
	FadeIn            // record just created
	FadeOut           // record deleted, unmounted when the fade ends
)

type fade struct {
	Kind      FadeKind
	TicksLeft int
}

// Finished is a fade whose tick budget ran out.
type Finished struct {
	ID   int64
	Kind FadeKind
}

// Transitions tracks per-record fades. Visual only: nothing durable depends
// on them.
type Transitions struct {
	fades    map[int64]fade
	ticksMax int
}

// NewTransitions sizes every fade to last about delay.
func NewTransitions(delay time.Duration) *Transitions {
	ticks := int(delay / TickInterval)
	if ticks < 1 {
		ticks = 1
	}
	return &Transitions{
		fades:    make(map[int64]fade),
		ticksMax: ticks,
	}
}

// Start begins (or restarts) a fade for id.
func (t *Transitions) Start(id int64, kind FadeKind) {
	t.fades[id] = fade{Kind: kind, TicksLeft: t.ticksMax}
}

// Get returns the active fade for id.
func (t *Transitions) Get(id int64) FadeKind {
	return t.fades[id].Kind
}

// Cancel drops any fade for id.
func (t *Transitions) Cancel(id int64) {
	delete(t.fades, id)
}

// Active reports whether any fade is running.
func (t *Transitions) Active() bool {
	return len(t.fades) > 0
}

// Tick advances every fade by one frame and returns those that ended.
func (t *Transitions) Tick() []Finished {
	var done []Finished
	for id, f := range t.fades {
		f.TicksLeft--
		if f.TicksLeft <= 0 {
			delete(t.fades, id)
			done = append(done, Finished{ID: id, Kind: f.Kind})
			continue
		}
		t.fades[id] = f
	}
	return done
}
