package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Faded, Help, Banner, Active   lipgloss.Style

	Border lipgloss.Border

	BoxUnchecked, BoxChecked, BoxBusy string
	SymDelete, SymDone, SymPending    string
	Cursor                            string
}

var current = classic()

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = neon()
	case "mono":
		current = mono()
	default:
		current = classic()
	}
}

// Current exposes what renderers need.
func Current() Theme { return current }

func classic() Theme {
	s := lipgloss.NewStyle()
	return Theme{
		Name:     "classic",
		Title:    s.Bold(true),
		Muted:    s.Faint(true),
		Accent:   s.Foreground(lipgloss.Color("12")),
		Success:  s.Foreground(lipgloss.Color("42")),
		Error:    s.Foreground(lipgloss.Color("9")).Bold(true),
		Pending:  s.Foreground(lipgloss.Color("214")),
		Selected: s.Bold(true).Reverse(true),
		Done:     s.Faint(true).Strikethrough(true),
		Faded:    s.Faint(true).Italic(true),
		Help:     s.Faint(true),
		Banner:   s.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Padding(0, 1),
		Active:   s.Bold(true).Underline(true).Foreground(lipgloss.Color("12")),
		Border:   lipgloss.RoundedBorder(),

		BoxUnchecked: "☐", BoxChecked: "☑", BoxBusy: "…",
		SymDelete: "✖", SymDone: "✔", SymPending: "•",
		Cursor: "> ",
	}
}

func neon() Theme {
	t := classic()
	s := lipgloss.NewStyle()
	t.Name = "neon"
	t.Title = s.Bold(true).Foreground(lipgloss.Color("13"))
	t.Accent = s.Foreground(lipgloss.Color("14"))
	t.Pending = s.Foreground(lipgloss.Color("11"))
	t.Active = s.Bold(true).Underline(true).Foreground(lipgloss.Color("14"))
	t.BoxUnchecked, t.BoxChecked = "◻", "◼"
	return t
}

func mono() Theme {
	s := lipgloss.NewStyle()
	return Theme{
		Name:     "mono",
		Title:    s,
		Muted:    s,
		Accent:   s,
		Success:  s,
		Error:    s,
		Pending:  s,
		Selected: s.Reverse(true),
		Done:     s,
		Faded:    s,
		Help:     s,
		Banner:   s.Reverse(true).Padding(0, 1),
		Active:   s.Underline(true),
		Border:   lipgloss.NormalBorder(),

		BoxUnchecked: "[ ]", BoxChecked: "[x]", BoxBusy: "[~]",
		SymDelete: "(x)", SymDone: "x", SymPending: "-",
		Cursor: "> ",
	}
}
