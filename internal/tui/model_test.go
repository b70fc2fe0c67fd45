package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/supertype/internal/catalog"
	"github.com/verte-zerg/supertype/internal/model"
	"github.com/verte-zerg/supertype/internal/passage"
	"github.com/verte-zerg/supertype/internal/progression"
	"github.com/verte-zerg/supertype/internal/scoring"
)

type memoryRepo struct {
	engine  *progression.Engine
	profile *model.UserProfile
}

func (r *memoryRepo) Load(context.Context) model.UserProfile {
	if r.profile == nil {
		p := r.engine.NewProfile()
		r.profile = &p
	}
	return r.profile.Clone()
}

func (r *memoryRepo) Save(_ context.Context, p model.UserProfile) model.UserProfile {
	c := p.Clone()
	r.profile = &c
	return p
}

func (r *memoryRepo) Reset(context.Context) model.UserProfile {
	p := r.engine.NewProfile()
	r.profile = &p
	return p
}

type recordedErrors struct {
	errs []model.TypingError
}

func (r *recordedErrors) Record(_ context.Context, errs []model.TypingError) error {
	r.errs = append(r.errs, errs...)
	return nil
}

func (r *recordedErrors) Recent(context.Context) []model.TypingError {
	return r.errs
}

func newTestModel(t *testing.T, cfg model.Config) (*Model, *progression.Tracker, *recordedErrors) {
	t.Helper()
	tiers := catalog.New([]catalog.Tier{{
		ID: 1, Title: "Level 1", Subtitle: "Test", Duration: 30 * time.Second, BaseXP: 50,
		Passages: []string{"ab cd"},
	}})
	engine := progression.New()
	tracker := progression.NewTracker(&memoryRepo{engine: engine}, engine)
	errs := &recordedErrors{}
	m := NewModel(cfg, Deps{
		Tiers:      tiers,
		Generator:  passage.New(1, tiers),
		Calculator: scoring.NewCalculator(tiers, scoring.WithErrorSink(errs)),
		Tracker:    tracker,
		Errors:     errs,
	})
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	calls := 0
	m.now = func() time.Time {
		calls++
		if calls == 1 {
			return start
		}
		return start.Add(6 * time.Second)
	}
	return m, tracker, errs
}

func typeText(m *Model, text string) {
	for _, r := range text {
		if r == ' ' {
			m.Update(tea.KeyMsg{Type: tea.KeySpace})
			continue
		}
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestCompletingPassageRecordsTest(t *testing.T) {
	m, tracker, _ := newTestModel(t, model.Config{Tier: 1})
	typeText(m, "ab cd")

	if m.phase != phaseFinished {
		t.Fatalf("expected finished phase, got %v", m.phase)
	}
	if m.result.WPM != 20 || m.result.Accuracy != 100 || m.result.XPEarned != 70 {
		t.Fatalf("unexpected result: %+v", m.result)
	}
	p := tracker.Profile(context.Background())
	if p.TotalTests != 1 || p.TotalXP != 70 {
		t.Fatalf("expected recorded test, got %+v", p)
	}
	if len(m.transition.NewAchievements) == 0 {
		t.Fatalf("expected new achievements after first test")
	}
	if !strings.Contains(m.View(), "First Steps") {
		t.Fatalf("expected achievement banner in view")
	}
}

func TestMistypesReachErrorLog(t *testing.T) {
	m, _, errs := newTestModel(t, model.Config{Tier: 1})
	typeText(m, "ax cd")
	if len(errs.errs) != 1 || errs.errs[0].Char != "b" {
		t.Fatalf("expected b recorded as error, got %+v", errs.errs)
	}
	if m.result.Accuracy != 80 {
		t.Fatalf("expected 80%% accuracy, got %d", m.result.Accuracy)
	}
}

func TestEscCancelsWithoutScoring(t *testing.T) {
	m, tracker, _ := newTestModel(t, model.Config{Tier: 1})
	typeText(m, "ab")
	if m.phase != phaseTyping {
		t.Fatalf("expected typing phase")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if m.phase != phaseReady || len(m.inputRunes) != 0 {
		t.Fatalf("expected fresh session after cancel")
	}
	if tracker.Profile(context.Background()).TotalTests != 0 {
		t.Fatalf("cancelled session must not be recorded")
	}
}

func TestTimeoutFinishesWithTierDuration(t *testing.T) {
	m, tracker, _ := newTestModel(t, model.Config{Tier: 1})
	typeText(m, "a")
	m.Update(timer.TimeoutMsg{ID: m.countdown.ID()})

	if m.phase != phaseFinished {
		t.Fatalf("expected finished phase after timeout")
	}
	if m.result.TimeSpent != 30 || m.result.WPM != 2 {
		t.Fatalf("unexpected timed-out result: %+v", m.result)
	}
	if tracker.Profile(context.Background()).TotalTimeTyped != 30 {
		t.Fatalf("expected 30s recorded")
	}
}

func TestStaleTimeoutIgnored(t *testing.T) {
	m, _, _ := newTestModel(t, model.Config{Tier: 1})
	typeText(m, "a")
	m.Update(timer.TimeoutMsg{ID: m.countdown.ID() + 1000})
	if m.phase != phaseTyping {
		t.Fatalf("expected stale timeout to be ignored")
	}
}

func TestEnterStartsNextTest(t *testing.T) {
	m, _, _ := newTestModel(t, model.Config{Tier: 1})
	typeText(m, "ab cd")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.phase != phaseReady || len(m.inputRunes) != 0 {
		t.Fatalf("expected a new session")
	}
}

func TestInputCappedAtPassageLength(t *testing.T) {
	m, _, _ := newTestModel(t, model.Config{Tier: 1})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab cdef")})
	if string(m.inputRunes) != "ab cd" {
		t.Fatalf("expected input capped, got %q", string(m.inputRunes))
	}
}

func TestRenderFooterShowsLevelAndXP(t *testing.T) {
	m, _, _ := newTestModel(t, model.Config{Tier: 1})
	out := m.renderFooter()
	for _, want := range []string{"Lv 1", "0/175 XP", "30s · start typing", "Progress 0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}
