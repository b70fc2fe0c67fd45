// Package profileui provides the Bubble Tea profile browser.
package profileui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/supertype/internal/catalog"
	"github.com/verte-zerg/supertype/internal/progression"
	"github.com/verte-zerg/supertype/internal/stats"
)

const (
	tabOverview = iota
	tabHistory
	tabAchievements
	tabTiers
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Options holds the static data the browser renders next to the report.
type Options struct {
	Tiers        catalog.Catalog
	Unlocks      []progression.UnlockRule
	Achievements []progression.Achievement
}

// Model implements the Bubble Tea profile UI.
type Model struct {
	report stats.Report
	opts   Options
	errMsg string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	historyTable table.Model

	width  int
	height int
}

// NewModel constructs a profile UI model over a prepared report.
func NewModel(report stats.Report, opts Options) *Model {
	if opts.Tiers.Len() == 0 {
		opts.Tiers = catalog.Default()
	}
	if opts.Unlocks == nil {
		opts.Unlocks = progression.DefaultUnlocks
	}
	if opts.Achievements == nil {
		opts.Achievements = progression.Achievements
	}
	m := &Model{
		report: report,
		opts:   opts,
		tabs:   []string{"Overview", "History", "Achievements", "Tiers"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.historyTable = buildHistoryTable(report, opts.Tiers)
	m.renderTabContents()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "g", "home":
			if m.activeTab == tabHistory {
				m.historyTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.historyTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabHistory {
				m.historyTable, cmd = m.historyTable.Update(msg)
				return m, cmd
			}
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(1, lipgloss.Height(activeNavStyle.Render("X")))
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.historyTable.SetWidth(m.width)
	m.historyTable.SetHeight(bodyHeight)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabHistory {
		m.historyTable.Focus()
	} else {
		m.historyTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody() string {
	if m.activeTab == tabHistory {
		if len(m.report.Recent) == 0 {
			return "No tests found."
		}
		return tableMutedStyle.Render(m.historyTable.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Top/Bottom: g/G  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

// renderTabContents fills the text tabs from the stats renderers.
func (m *Model) renderTabContents() {
	var overview bytes.Buffer
	err := stats.RenderSummary(&overview, m.report.Profile)
	if err == nil {
		err = stats.RenderCurves(&overview, m.report.Timeline, m.report.Window)
	}
	if err == nil {
		err = stats.RenderProblems(&overview, m.report.Analysis)
	}
	m.setContent(tabOverview, overview.String(), err)

	var achievements bytes.Buffer
	err = stats.RenderAchievements(&achievements, m.report.Profile, m.opts.Achievements)
	m.setContent(tabAchievements, achievements.String(), err)

	var tiers bytes.Buffer
	err = stats.RenderTiers(&tiers, m.report.Profile, m.opts.Tiers, m.opts.Unlocks)
	m.setContent(tabTiers, tiers.String(), err)
}

func (m *Model) setContent(tab int, content string, err error) {
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to render %s: %v", strings.ToLower(m.tabs[tab]), err)
		m.viewports[tab].SetContent("Failed to render.")
		return
	}
	m.viewports[tab].SetContent(strings.TrimRight(content, "\n"))
}

func buildHistoryTable(report stats.Report, tiers catalog.Catalog) table.Model {
	columns := []table.Column{
		{Title: "Completed", Width: 16},
		{Title: "Tier", Width: 22},
		{Title: "WPM", Width: 5},
		{Title: "Accuracy", Width: 8},
		{Title: "XP", Width: 6},
		{Title: "Time", Width: 8},
	}
	rows := make([]table.Row, 0, len(report.Recent))
	for _, r := range report.Recent {
		rows = append(rows, table.Row{
			r.CompletedAt.Local().Format("2006-01-02 15:04"),
			tiers.Resolve(r.Level).Subtitle,
			fmt.Sprintf("%d", r.WPM),
			fmt.Sprintf("%d%%", r.Accuracy),
			fmt.Sprintf("+%d", r.XPEarned),
			stats.FormatDuration(r.TimeSpent),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(1),
	)
	t.SetStyles(historyTableStyles())
	return t
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#3A3A3A")).
		Bold(false)
	return styles
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
