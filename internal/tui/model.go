// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/supertype/internal/catalog"
	"github.com/verte-zerg/supertype/internal/model"
	"github.com/verte-zerg/supertype/internal/passage"
	"github.com/verte-zerg/supertype/internal/progression"
	"github.com/verte-zerg/supertype/internal/scoring"
	"github.com/verte-zerg/supertype/internal/stats"
)

type phase int

const (
	phaseReady phase = iota
	phaseTyping
	phaseFinished
)

const xpBarWidth = 24

// ErrorSource provides the retained typing errors for smart passages.
type ErrorSource interface {
	Recent(ctx context.Context) []model.TypingError
}

// Deps are the collaborators the typing screen drives.
type Deps struct {
	Tiers      catalog.Catalog
	Generator  *passage.Generator
	Calculator *scoring.Calculator
	Tracker    *progression.Tracker
	Errors     ErrorSource
	Logger     *slog.Logger
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config model.Config
	deps   Deps
	now    func() time.Time

	width  int
	height int

	tier    catalog.Tier
	profile model.UserProfile

	targetRunes []rune
	inputRunes  []rune

	phase     phase
	startedAt time.Time
	countdown timer.Model
	xpBar     progress.Model

	result     scoring.Result
	transition progression.Transition
	errMsg     string
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	bannerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs a typing TUI model for cfg.Tier.
func NewModel(cfg model.Config, deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	m := &Model{
		config: cfg,
		deps:   deps,
		now:    time.Now,
		tier:   deps.Tiers.Resolve(cfg.Tier),
		xpBar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(xpBarWidth), progress.WithoutPercentage()),
	}
	m.profile = deps.Tracker.Profile(context.Background())
	m.resetSession()
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
		return m, nil
	case timer.TickMsg, timer.StartStopMsg:
		var cmd tea.Cmd
		m.countdown, cmd = m.countdown.Update(msg)
		return m, cmd
	case timer.TimeoutMsg:
		if msg.ID != m.countdown.ID() || m.phase != phaseTyping {
			return m, nil
		}
		return m, m.finish(m.tier.Duration)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.phase {
	case phaseFinished:
		switch {
		case msg.Type == tea.KeyEnter:
			m.resetSession()
			return m, nil
		case msg.Type == tea.KeyEsc || msg.String() == "q":
			return m, tea.Quit
		}
		return m, nil
	case phaseTyping:
		if msg.Type == tea.KeyEsc {
			// Abandoned sessions are never scored.
			m.deps.Logger.Debug("session cancelled", slog.Int("tier", m.tier.ID), slog.Int("typed", len(m.inputRunes)))
			stop := m.countdown.Stop()
			m.resetSession()
			return m, stop
		}
	default:
		if msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
	}

	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		m.handleBackspace()
		return m, nil
	case tea.KeySpace:
		return m, m.handleRunes([]rune{' '})
	case tea.KeyRunes:
		return m, m.handleRunes(msg.Runes)
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	if m.phase == phaseFinished {
		content = m.renderResults()
	} else {
		content = m.renderPassage()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderPassage() string {
	cursorIndex := -1
	if len(m.inputRunes) < len(m.targetRunes) {
		cursorIndex = len(m.inputRunes)
	}
	styled := buildStyledRunes(m.targetRunes, m.inputRunes, cursorIndex)
	header := titleStyle.Render(m.tier.Label())
	if m.width == 0 {
		return header + "\n\n" + renderStyledRunes(styled)
	}
	contentWidth := max(1, int(float64(m.width)*0.70))
	wrapped := wrapStyledRunes(styled, contentWidth)
	lines := wrapped.window(max(1, m.height-6))
	body := lipgloss.NewStyle().Width(contentWidth).Render(strings.Join(lines, "\n"))
	return header + "\n\n" + body
}

func (m *Model) renderResults() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Test complete: "+m.tier.Label()) + "\n\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg) + "\n\n")
	}
	b.WriteString(fmt.Sprintf("WPM %s   Accuracy %s   XP %s   Time %s\n",
		valueStyle.Render(fmt.Sprintf("%d", m.result.WPM)),
		valueStyle.Render(fmt.Sprintf("%d%%", m.result.Accuracy)),
		valueStyle.Render(fmt.Sprintf("+%d", m.result.XPEarned)),
		valueStyle.Render(stats.FormatDuration(m.result.TimeSpent)),
	))
	if m.transition.LeveledUp() {
		b.WriteString("\n" + bannerStyle.Render(fmt.Sprintf("Level up! You reached level %d", m.transition.After.Level)) + "\n")
	}
	for _, id := range m.transition.NewTiers {
		b.WriteString(bannerStyle.Render("Unlocked "+m.deps.Tiers.Resolve(id).Label()) + "\n")
	}
	for _, id := range m.transition.NewAchievements {
		b.WriteString(bannerStyle.Render("Achievement: "+id) + " " + footerStyle.Render(progression.Describe(id)) + "\n")
	}
	b.WriteString("\n" + footerStyle.Render("enter: next test · esc/q: quit"))
	return b.String()
}

func (m *Model) renderFooter() string {
	p := m.profile
	ratio := 0.0
	if p.XPToNextLevel > 0 {
		ratio = float64(p.CurrentLevelXP) / float64(p.XPToNextLevel)
	}
	segments := []string{
		fmt.Sprintf("%s Lv %d", p.Avatar, p.Level),
		m.xpBar.ViewAs(ratio),
		fmt.Sprintf("%d/%d XP", p.CurrentLevelXP, p.XPToNextLevel),
	}
	switch m.phase {
	case phaseTyping:
		segments = append(segments, fmt.Sprintf("%s left", m.countdown.View()))
	case phaseReady:
		segments = append(segments, fmt.Sprintf("%s · start typing", stats.FormatDuration(int(m.tier.Duration.Seconds()))))
	}
	if len(m.targetRunes) > 0 && m.phase != phaseFinished {
		progressPct := int(float64(len(m.inputRunes)) / float64(len(m.targetRunes)) * 100)
		segments = append(segments, fmt.Sprintf("Progress %d%%", progressPct))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) handleBackspace() {
	if len(m.inputRunes) == 0 {
		return
	}
	m.inputRunes = m.inputRunes[:len(m.inputRunes)-1]
}

func (m *Model) handleRunes(runes []rune) tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range runes {
		if len(m.inputRunes) >= len(m.targetRunes) {
			break
		}
		if m.phase == phaseReady {
			m.phase = phaseTyping
			m.startedAt = m.now()
			cmds = append(cmds, m.countdown.Init())
		}
		m.inputRunes = append(m.inputRunes, r)
		if len(m.inputRunes) == len(m.targetRunes) {
			cmds = append(cmds, m.finish(m.now().Sub(m.startedAt)))
			break
		}
	}
	return tea.Batch(cmds...)
}

// finish scores the session and records it on the profile.
func (m *Model) finish(elapsed time.Duration) tea.Cmd {
	ctx := context.Background()
	elapsed = min(elapsed, m.tier.Duration)
	m.phase = phaseFinished
	m.errMsg = ""
	stop := m.countdown.Stop()

	res, err := m.deps.Calculator.Score(ctx, scoring.Input{
		Reference: string(m.targetRunes),
		Typed:     string(m.inputRunes),
		Elapsed:   elapsed,
		Tier:      m.tier.ID,
	})
	if err != nil {
		m.deps.Logger.Error("failed to score test", slog.String("error", err.Error()))
		m.errMsg = fmt.Sprintf("failed to score test: %v", err)
		return stop
	}
	m.result = res

	tr, err := m.deps.Tracker.Record(ctx, res.Outcome(m.tier.ID))
	if err != nil {
		m.deps.Logger.Error("failed to record test", slog.String("error", err.Error()))
		m.errMsg = fmt.Sprintf("failed to record test: %v", err)
		return stop
	}
	m.transition = tr
	m.profile = tr.After
	m.deps.Logger.Info("test recorded",
		slog.Int("tier", m.tier.ID),
		slog.Int("wpm", res.WPM),
		slog.Int("accuracy", res.Accuracy),
		slog.Int("xp", res.XPEarned),
		slog.Int("level", tr.After.Level),
	)
	return stop
}

func (m *Model) resetSession() {
	m.inputRunes = nil
	m.phase = phaseReady
	m.startedAt = time.Time{}
	m.result = scoring.Result{}
	m.transition = progression.Transition{}
	m.errMsg = ""
	m.countdown = timer.NewWithInterval(m.tier.Duration, time.Second)
	m.targetRunes = []rune(m.generateText())
}

func (m *Model) generateText() string {
	if m.config.Smart && m.deps.Errors != nil {
		analysis := stats.AnalyzeErrors(m.deps.Errors.Recent(context.Background()))
		return m.deps.Generator.Smart(m.profile.Level, analysis.Chars, analysis.Pairs)
	}
	return m.deps.Generator.ForTier(m.tier.ID)
}
