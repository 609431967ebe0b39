package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/thehappyredwolf/todo-app/internal/model"
	"github.com/thehappyredwolf/todo-app/internal/ui"
	"github.com/thehappyredwolf/todo-app/internal/view"
)

// Screen layout inside the panel. The panel adds one border row on top and
// a border plus one padding cell on the left.
const (
	panelTop  = 1
	panelLeft = 2

	rowList = 2 // below the header and banner rows

	// header, banner, footer, help
	chromeRows = 4
	panelRows  = 2
)

func (m Model) View() string {
	th := ui.Current()

	if len(m.alerts) > 0 {
		return m.alertView()
	}

	lines := []string{m.header()}
	if m.banner != "" {
		lines = append(lines, th.Banner.Render(m.banner))
	} else {
		lines = append(lines, "")
	}

	lines = append(lines, m.listLines()...)
	if !m.loading {
		lines = append(lines, view.Footer(m.store.RemainingCount(), m.filter).Line)
	}

	if m.adding {
		in := m.input.View()
		if m.submitting {
			in += " " + th.Pending.Render("saving…")
		}
		lines = append(lines, in)
	}

	lines = append(lines, m.help.View(m.keys))
	return ui.PanelString(strings.Join(lines, "\n"))
}

func (m Model) header() string {
	th := ui.Current()
	done, pending := model.Stats(m.store.All())
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		th.Title.Render("Todos"),
		th.Success.Render(th.SymDone), done,
		th.Pending.Render(th.SymPending), pending,
		th.Accent.Render("Total"), done+pending,
	)
}

func (m Model) listLines() []string {
	if m.loading {
		return []string{m.spin.View() + " Loading todos…"}
	}
	return m.list.Lines(m.cursor, m.offset, m.listHeight())
}

func (m Model) alertView() string {
	th := ui.Current()
	box := lipgloss.NewStyle().
		Border(th.Border).
		BorderForeground(lipgloss.Color("9")).
		Padding(1, 2)
	body := th.Error.Render(m.alerts[0]) + "\n\n" + th.Help.Render("enter to dismiss")
	if n := len(m.alerts) - 1; n > 0 {
		body += th.Help.Render(fmt.Sprintf(" (%d more)", n))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box.Render(body))
}

// hitTest maps a terminal cell to the command of the control drawn there.
func (m Model) hitTest(x, y int) (model.Command, bool) {
	row, col := y-panelTop, x-panelLeft
	if row < rowList || col < 0 {
		return model.Command{}, false
	}

	n := len(m.listLines())
	switch {
	case row < rowList+n:
		return m.list.HitTest(row-rowList, col, m.offset)
	case row == rowList+n:
		return view.Footer(m.store.RemainingCount(), m.filter).HitTest(col)
	}
	return model.Command{}, false
}

// listHeight is the number of list rows that fit the terminal.
func (m Model) listHeight() int {
	h := m.height - panelRows - chromeRows
	if m.adding {
		h--
	}
	if m.help.ShowAll {
		h -= len(m.keys.FullHelp()[0]) - 1
	}
	if h < 1 {
		h = 1
	}
	return h
}

// scroll keeps the cursor inside the list and the visible window.
func (m *Model) scroll() {
	n := m.list.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset > n-1 {
		m.offset = max(n-1, 0)
	}
}

func widthHeight() (int, int) {
	w, h := 80, 24
	if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 && th > 0 {
		w, h = tw, th
	}
	return w, h
}
