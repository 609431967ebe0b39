// Package view maps todo records to terminal lines. Each interactive control
// is tagged with a model.Command and a column span so a single hit test
// resolves which record and action a click targets.
package view

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/thehappyredwolf/todo-app/internal/model"
	"github.com/thehappyredwolf/todo-app/internal/ui"
)

// Placeholder is shown instead of an empty list.
const Placeholder = "No todos found."

// Control is a clickable span of a rendered line, [Start, End) in cells.
type Control struct {
	Command model.Command
	Start   int
	End     int
}

func (c Control) contains(col int) bool {
	return col >= c.Start && col < c.End
}

// ItemState is the transient, UI-only state of one record.
type ItemState struct {
	Toggling bool // update in flight, toggle control disabled
	Deleting bool // delete in flight or fading out
	Fade     FadeKind
}

// Element is the rendered form of a single record.
type Element struct {
	ID       int64
	Line     string
	Controls []Control
}

// HitTest returns the control under col, if any.
func (e Element) HitTest(col int) (Control, bool) {
	for _, c := range e.Controls {
		if c.contains(col) {
			return c, true
		}
	}
	return Control{}, false
}

// RenderItem builds the element for t. Disabled controls are not tagged, so
// clicks on them resolve to nothing.
func RenderItem(t model.Todo, st ItemState) Element {
	th := ui.Current()

	box, boxStyle := th.BoxUnchecked, th.Muted
	if t.Completed {
		box, boxStyle = th.BoxChecked, th.Success
	}
	if st.Toggling {
		box, boxStyle = th.BoxBusy, th.Pending
	}

	titleStyle := lipgloss.NewStyle()
	if t.Completed {
		titleStyle = th.Done
	}
	if st.Deleting || st.Fade != FadeNone {
		titleStyle = th.Faded
	}

	del, delStyle := th.SymDelete, th.Error
	if st.Deleting {
		delStyle = th.Muted
	}

	boxStr := boxStyle.Render(box)
	titleStr := titleStyle.Render(t.Title)
	delStr := delStyle.Render(del)

	boxW := lipgloss.Width(boxStr)
	titleW := lipgloss.Width(titleStr)
	delStart := boxW + 1 + titleW + 1

	var controls []Control
	if !st.Toggling && !st.Deleting {
		controls = append(controls,
			Control{Command: model.Command{Action: model.ActionToggle, ID: t.ID}, Start: 0, End: boxW},
			// clicking the title toggles too, like a label for the checkbox
			Control{Command: model.Command{Action: model.ActionToggle, ID: t.ID}, Start: boxW + 1, End: boxW + 1 + titleW},
		)
	}
	if !st.Deleting {
		controls = append(controls, Control{
			Command: model.Command{Action: model.ActionDelete, ID: t.ID},
			Start:   delStart,
			End:     delStart + lipgloss.Width(delStr),
		})
	}

	return Element{
		ID:       t.ID,
		Line:     boxStr + " " + titleStr + " " + delStr,
		Controls: controls,
	}
}

// CountLabel is the "N items left" text with singular agreement on 1.
func CountLabel(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return strconv.Itoa(n) + " items left"
}
