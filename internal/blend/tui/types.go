package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/mabhi256/bdiag/internal/blend/analyzer"
)

// Summary is the snapshot-level context shown alongside the report.
type Summary struct {
	Path       string
	Version    string
	BlockCount int
	CodeCounts []CodeCount // sorted by count, descending
}

// CodeCount aggregates the blocks sharing one category code.
type CodeCount struct {
	Code  string
	Count int
	Bytes int64
}

type TabType int

const (
	OverviewTab TabType = iota
	OrphansTab
	HomelessTab
	AddressesTab
)

const tabCount = 4

func (t TabType) String() string {
	switch t {
	case OverviewTab:
		return "Overview"
	case OrphansTab:
		return "Orphans"
	case HomelessTab:
		return "Homeless"
	case AddressesTab:
		return "Addresses"
	default:
		return "?"
	}
}

// The report browser model
type Model struct {
	summary Summary
	report  *analyzer.Report
	refs    *analyzer.InverseMap

	currentTab      TabType
	width           int
	height          int
	scrollPositions map[TabType]int

	keys KeyMap
	help help.Model
}

type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Tab      key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Left, k.Right, k.Tab, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev tab")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next tab")),
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "page down")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
