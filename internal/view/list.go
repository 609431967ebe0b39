package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thehappyredwolf/todo-app/internal/model"
	"github.com/thehappyredwolf/todo-app/internal/ui"
)

// StateFunc returns the transient state for a record id.
type StateFunc func(id int64) ItemState

// List holds the mounted elements of the current derived view, keyed by id.
// Replace re-renders one element and leaves every sibling's cached line
// untouched.
type List struct {
	order   []int64
	elems   map[int64]Element
	renders int
}

func NewList() *List {
	return &List{elems: make(map[int64]Element)}
}

// Mount discards everything and renders todos in order.
func (l *List) Mount(todos []model.Todo, state StateFunc) {
	l.order = make([]int64, 0, len(todos))
	l.elems = make(map[int64]Element, len(todos))
	for _, t := range todos {
		l.order = append(l.order, t.ID)
		l.elems[t.ID] = l.render(t, state)
	}
}

// Replace re-renders the element for t in place. It reports false when t is
// not mounted.
func (l *List) Replace(t model.Todo, st ItemState) bool {
	if _, ok := l.elems[t.ID]; !ok {
		return false
	}
	l.renders++
	l.elems[t.ID] = RenderItem(t, st)
	return true
}

// Insert mounts t at index (clamped). An already mounted id is replaced.
func (l *List) Insert(index int, t model.Todo, st ItemState) {
	if l.Replace(t, st) {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(l.order) {
		index = len(l.order)
	}
	l.order = append(l.order, 0)
	copy(l.order[index+1:], l.order[index:])
	l.order[index] = t.ID
	l.renders++
	l.elems[t.ID] = RenderItem(t, st)
}

// Unmount removes the element for id. It reports false when id was not mounted.
func (l *List) Unmount(id int64) bool {
	if _, ok := l.elems[id]; !ok {
		return false
	}
	delete(l.elems, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

func (l *List) Len() int { return len(l.order) }

// Empty reports whether the placeholder is showing.
func (l *List) Empty() bool { return len(l.order) == 0 }

// IDs returns the mounted ids in display order.
func (l *List) IDs() []int64 {
	out := make([]int64, len(l.order))
	copy(out, l.order)
	return out
}

// At returns the element at display index i.
func (l *List) At(i int) (Element, bool) {
	if i < 0 || i >= len(l.order) {
		return Element{}, false
	}
	return l.elems[l.order[i]], true
}

// IndexOf returns the display index of id, or -1.
func (l *List) IndexOf(id int64) int {
	for i, v := range l.order {
		if v == id {
			return i
		}
	}
	return -1
}

// Renders counts element renders since creation. Tests use it to check that
// targeted updates stay targeted.
func (l *List) Renders() int { return l.renders }

// Lines returns the visible lines from offset, at most height of them
// (height <= 0 means all). The cursor row gets the selection marker.
func (l *List) Lines(cursor, offset, height int) []string {
	th := ui.Current()
	if l.Empty() {
		return []string{th.Muted.Render(Placeholder)}
	}

	if offset < 0 || offset >= len(l.order) {
		offset = 0
	}
	end := len(l.order)
	if height > 0 && offset+height < end {
		end = offset + height
	}

	blank := strings.Repeat(" ", lipgloss.Width(th.Cursor))
	out := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		prefix := blank
		if i == cursor {
			prefix = th.Selected.Render(th.Cursor)
		}
		out = append(out, prefix+l.elems[l.order[i]].Line)
	}
	return out
}

// HitTest resolves a click at (row, col) relative to the first visible list
// line, with offset rows scrolled away.
func (l *List) HitTest(row, col, offset int) (model.Command, bool) {
	e, ok := l.At(row + offset)
	if !ok {
		return model.Command{}, false
	}
	c, ok := e.HitTest(col - lipgloss.Width(ui.Current().Cursor))
	if !ok {
		return model.Command{}, false
	}
	return c.Command, true
}

func (l *List) render(t model.Todo, state StateFunc) Element {
	l.renders++
	var st ItemState
	if state != nil {
		st = state(t.ID)
	}
	return RenderItem(t, st)
}
