package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mabhi256/bdiag/internal/blend/analyzer"
	"github.com/mabhi256/bdiag/utils"
)

const pageSize = 10 // Number of lines to scroll per page

func initialModel(summary Summary, report *analyzer.Report, refs *analyzer.InverseMap) *Model {
	return &Model{
		summary:         summary,
		report:          report,
		refs:            refs,
		currentTab:      OverviewTab,
		scrollPositions: make(map[TabType]int),
		keys:            DefaultKeyMap(),
		help:            help.New(),
	}
}

// Run starts the interactive report browser.
func Run(summary Summary, report *analyzer.Report, refs *analyzer.InverseMap) error {
	p := tea.NewProgram(initialModel(summary, report, refs), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
			utils.CycleEnumPtr(&m.currentTab, 1, AddressesTab)
		case key.Matches(msg, m.keys.Left):
			utils.CycleEnumPtr(&m.currentTab, -1, AddressesTab)

		case key.Matches(msg, m.keys.Up):
			m.scroll(-1)
		case key.Matches(msg, m.keys.Down):
			m.scroll(1)
		case key.Matches(msg, m.keys.PageUp):
			m.scroll(-pageSize)
		case key.Matches(msg, m.keys.PageDown):
			m.scroll(pageSize)

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

		switch msg.String() {
		case "1":
			m.currentTab = OverviewTab
		case "2":
			m.currentTab = OrphansTab
		case "3":
			m.currentTab = HomelessTab
		case "4":
			m.currentTab = AddressesTab
		}
	}

	return m, nil
}

func (m *Model) scroll(lines int) {
	pos := m.scrollPositions[m.currentTab] + lines
	if pos < 0 {
		pos = 0
	}
	m.scrollPositions[m.currentTab] = pos
}

func (m *Model) View() string {
	var sb strings.Builder

	title := fmt.Sprintf("bdiag · %s · v%s · %d blocks",
		m.summary.Path, m.summary.Version, m.summary.BlockCount)
	sb.WriteString(utils.TitleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(m.renderTabBar())
	sb.WriteString("\n\n")

	var content string
	switch m.currentTab {
	case OverviewTab:
		content = m.renderOverview()
	case OrphansTab:
		content = m.renderOrphans()
	case HomelessTab:
		content = m.renderHomeless()
	case AddressesTab:
		content = m.renderAddresses()
	}
	sb.WriteString(m.applyScrolling(content))

	sb.WriteString("\n")
	sb.WriteString(utils.HelpBarStyle.Render(m.help.View(m.keys)))
	return sb.String()
}

func (m *Model) renderTabBar() string {
	tabs := make([]string, 0, tabCount)
	for tab := OverviewTab; tab <= AddressesTab; tab++ {
		label := fmt.Sprintf("%d:%s", int(tab)+1, tab)
		if tab == m.currentTab {
			tabs = append(tabs, utils.TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, utils.TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// applyScrolling windows the content to the visible region, clamping the
// scroll position to the last page.
func (m *Model) applyScrolling(content string) string {
	lines := strings.Split(content, "\n")

	visible := m.height - 6 // title, tab bar, spacing, help bar
	if visible < 1 {
		visible = 1
	}

	maxScroll := len(lines) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scrollPositions[m.currentTab] > maxScroll {
		m.scrollPositions[m.currentTab] = maxScroll
	}

	start := m.scrollPositions[m.currentTab]
	end := start + visible
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}
