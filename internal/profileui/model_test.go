package profileui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/supertype/internal/model"
	"github.com/verte-zerg/supertype/internal/progression"
	"github.com/verte-zerg/supertype/internal/stats"
)

func sampleReport() stats.Report {
	p := model.UserProfile{
		Username: "ana", Avatar: "🐱", Level: 2, XPToNextLevel: 225, CurrentLevelXP: 40,
		TotalXP: 215, TotalTests: 1, AverageWPM: 40, BestWPM: 40, AverageAccuracy: 95,
		TotalTimeTyped: 30, UnlockedLevels: []int{1, 2},
		Achievements: []string{progression.FirstSteps},
		TestHistory: []model.TestResult{{
			ID: "r1", Level: 1, WPM: 40, Accuracy: 95, XPEarned: 60, TimeSpent: 30,
			CompletedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		}},
	}
	return stats.BuildReport(context.Background(), p, nil, model.HistoryFilter{})
}

func sized(t *testing.T, m *Model) *Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(*Model)
}

func TestViewEmptyBeforeSize(t *testing.T) {
	m := NewModel(sampleReport(), Options{})
	assert.Empty(t, m.View())
}

func TestOverviewShowsSummary(t *testing.T) {
	m := sized(t, NewModel(sampleReport(), Options{}))
	view := m.View()
	assert.Contains(t, view, "Overview")
	assert.Contains(t, view, "Level: 2 (40/225 XP, 215 total)")
	assert.Equal(t, 30, len(strings.Split(view, "\n")))
}

func TestTabNavigationWraps(t *testing.T) {
	m := sized(t, NewModel(sampleReport(), Options{}))

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	require.Equal(t, tabTiers, m.activeTab)
	assert.Contains(t, m.View(), "locked (level 4)")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, tabOverview, m.activeTab)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	require.Equal(t, tabHistory, m.activeTab)
	assert.Contains(t, m.View(), "Basic Speed Test")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	require.Equal(t, tabAchievements, m.activeTab)
	assert.Contains(t, m.View(), "[x] First Steps")
}

func TestHistoryWithoutTests(t *testing.T) {
	report := stats.BuildReport(context.Background(), model.UserProfile{Level: 1}, nil, model.HistoryFilter{})
	m := sized(t, NewModel(report, Options{}))
	m.moveTab(1)
	assert.Contains(t, m.View(), "No tests found.")
}

func TestQuitKeys(t *testing.T) {
	m := NewModel(sampleReport(), Options{})
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	} {
		_, cmd := m.Update(key)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}
