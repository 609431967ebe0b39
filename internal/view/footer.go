package view

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/thehappyredwolf/todo-app/internal/model"
	"github.com/thehappyredwolf/todo-app/internal/ui"
)

// Bar is a single rendered line carrying controls.
type Bar struct {
	Line     string
	Controls []Control
}

// HitTest returns the command under col, if any.
func (b Bar) HitTest(col int) (model.Command, bool) {
	for _, c := range b.Controls {
		if c.contains(col) {
			return c.Command, true
		}
	}
	return model.Command{}, false
}

// Footer renders "N items left", one control per filter with the active one
// highlighted, and the clear-completed control.
func Footer(remaining int, active model.Filter) Bar {
	th := ui.Current()

	var (
		b   Bar
		col int
	)
	add := func(s string, cmd *model.Command) {
		w := lipgloss.Width(s)
		if cmd != nil {
			b.Controls = append(b.Controls, Control{Command: *cmd, Start: col, End: col + w})
		}
		b.Line += s
		col += w
	}

	add(th.Muted.Render(CountLabel(remaining)), nil)
	add("   ", nil)
	for i, f := range model.Filters {
		if i > 0 {
			add(" ", nil)
		}
		style := th.Help
		if f == active {
			style = th.Active
		}
		add(style.Render(f.Label()), &model.Command{Action: model.ActionSetFilter, Filter: f})
	}
	add("   ", nil)
	add(th.Accent.Render("Clear completed"), &model.Command{Action: model.ActionClearCompleted})

	return b
}
