package stats

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/supertype/internal/catalog"
	"github.com/verte-zerg/supertype/internal/model"
	"github.com/verte-zerg/supertype/internal/progression"
)

type staticErrors []model.TypingError

func (s staticErrors) Recent(context.Context) []model.TypingError {
	return s
}

func sampleProfile() model.UserProfile {
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	p := model.UserProfile{
		Username: "ana", Avatar: "🐱", Level: 2, XPToNextLevel: 225, CurrentLevelXP: 40,
		TotalXP: 215, TotalTests: 3, AverageWPM: 37, BestWPM: 45, AverageAccuracy: 93,
		TotalTimeTyped: 105, UnlockedLevels: []int{1, 2},
		Achievements: []string{progression.FirstSteps},
	}
	// Newest first.
	for i := 2; i >= 0; i-- {
		p.TestHistory = append(p.TestHistory, model.TestResult{
			ID: "r", Level: 1, WPM: 30 + i*7, Accuracy: 90 + i, XPEarned: 60 + i,
			TimeSpent: 35, TextLength: 80, CompletedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return p
}

func TestBuildReport(t *testing.T) {
	p := sampleProfile()
	errs := staticErrors{{Char: "e", Context: "hello"}}
	report := BuildReport(context.Background(), p, errs, model.HistoryFilter{Last: 2})

	if len(report.Recent) != 2 {
		t.Fatalf("expected 2 recent results, got %d", len(report.Recent))
	}
	if report.Recent[0].WPM != 44 {
		t.Fatalf("expected newest result first, got %+v", report.Recent[0])
	}
	if len(report.Timeline) != 3 || report.Timeline[0].WPM != 30 {
		t.Fatalf("expected oldest-first timeline, got %+v", report.Timeline)
	}
	if report.Window != DefaultCurveWindow {
		t.Fatalf("expected default window, got %d", report.Window)
	}
	if report.Analysis.Empty() {
		t.Fatalf("expected error analysis")
	}
}

func TestRenderReport(t *testing.T) {
	report := BuildReport(context.Background(), sampleProfile(), staticErrors{}, model.HistoryFilter{})
	var buf bytes.Buffer
	if err := RenderReport(&buf, report, catalog.Default(), 0); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"🐱 ana", "Level: 2 (40/225 XP, 215 total)", "Time Typed: 1m 45s", "Recent Tests", "Basic Speed Test", "Learning Curves", "No typing errors recorded."} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderTiersShowsUnlockLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTiers(&buf, sampleProfile(), catalog.Default(), progression.DefaultUnlocks); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "locked (level 4)") {
		t.Fatalf("expected tier 3 unlock level, got:\n%s", out)
	}
	if strings.Count(out, "unlocked") != 2 {
		t.Fatalf("expected two unlocked tiers, got:\n%s", out)
	}
}

func TestRenderAchievements(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderAchievements(&buf, sampleProfile(), progression.Achievements); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "[x] First Steps") || !strings.Contains(buf.String(), "1/8 earned") {
		t.Fatalf("unexpected achievements output:\n%s", buf.String())
	}
}
