package progression

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/supertype/internal/model"
)

// DefaultHistoryLimit is the number of results kept in a profile's history.
const DefaultHistoryLimit = 50

// Upper bounds for a single outcome. Anything larger cannot come from a timed test.
const (
	MaxWPM       = 1000
	MaxXPEarned  = 1_000_000
	MaxTimeSpent = 24 * 60 * 60
)

// maxTests keeps the running-mean products in divRound inside int range.
const maxTests = math.MaxInt / (4 * (MaxWPM + 1))

// Profile defaults for a fresh profile.
const (
	DefaultUsername    = "TypeMaster"
	DefaultAvatar      = "🐱"
	DefaultSoundVolume = 0.3
)

var (
	// ErrInvalidOutcome is returned for outcomes that would corrupt cumulative stats.
	ErrInvalidOutcome = errors.New("invalid test outcome")
	// ErrInvalidProfile is returned when the prior snapshot is malformed.
	ErrInvalidProfile = errors.New("invalid profile")
)

// Engine applies test outcomes to profile snapshots. It performs no I/O.
type Engine struct {
	curve        Curve
	unlocks      []UnlockRule
	achievements []Achievement
	historyLimit int
	now          func() time.Time
	newID        func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithCurve sets the XP curve.
func WithCurve(c Curve) Option {
	return func(e *Engine) { e.curve = c }
}

// WithUnlocks sets the tier unlock table.
func WithUnlocks(rules []UnlockRule) Option {
	return func(e *Engine) { e.unlocks = append([]UnlockRule(nil), rules...) }
}

// WithAchievements sets the achievement catalog.
func WithAchievements(list []Achievement) Option {
	return func(e *Engine) { e.achievements = list }
}

// WithHistoryLimit sets how many results a profile keeps.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) { e.historyLimit = n }
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator sets the generator for profile and result ids.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// New returns an Engine using the canonical tables unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{
		curve:        DefaultCurve,
		unlocks:      DefaultUnlocks,
		achievements: Achievements,
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.curve.Valid() {
		e.curve = DefaultCurve
	}
	if e.historyLimit <= 0 {
		e.historyLimit = DefaultHistoryLimit
	}
	return e
}

// Curve returns the engine's XP curve.
func (e *Engine) Curve() Curve {
	return e.curve
}

// Unlocks returns the engine's unlock table.
func (e *Engine) Unlocks() []UnlockRule {
	return append([]UnlockRule(nil), e.unlocks...)
}

// Achievements returns the engine's achievement catalog.
func (e *Engine) Achievements() []Achievement {
	return append([]Achievement(nil), e.achievements...)
}

// NewProfile returns the initial profile state with a fresh id.
func (e *Engine) NewProfile() model.UserProfile {
	now := e.now()
	return model.UserProfile{
		ID:             e.newID(),
		Username:       DefaultUsername,
		Avatar:         DefaultAvatar,
		Level:          1,
		XPToNextLevel:  e.curve.Cost(1),
		Achievements:   []string{},
		UnlockedLevels: UnlockedTiers(e.unlocks, 1),
		TestHistory:    []model.TestResult{},
		CreatedAt:      now,
		LastActive:     now,
		SoundSettings: model.SoundSettings{
			Enabled: true,
			Volume:  DefaultSoundVolume,
		},
	}
}

// Apply returns a new snapshot with outcome folded into profile.
// profile is not modified; on error it should be kept as is.
func (e *Engine) Apply(profile model.UserProfile, outcome model.Outcome) (model.UserProfile, error) {
	if err := validateOutcome(outcome); err != nil {
		return profile, err
	}
	if err := validateProfile(profile); err != nil {
		return profile, err
	}
	if err := checkHeadroom(profile, outcome); err != nil {
		return profile, err
	}

	next := profile.Clone()
	result := model.TestResult{
		ID:          e.newID(),
		Level:       outcome.Level,
		WPM:         outcome.WPM,
		Accuracy:    outcome.Accuracy,
		XPEarned:    outcome.XPEarned,
		TimeSpent:   outcome.TimeSpent,
		TextLength:  outcome.TextLength,
		CompletedAt: e.now(),
	}

	history := make([]model.TestResult, 0, len(next.TestHistory)+1)
	history = append(history, result)
	history = append(history, next.TestHistory...)
	if len(history) > e.historyLimit {
		history = history[:e.historyLimit]
	}
	next.TestHistory = history

	tests := profile.TotalTests + 1
	next.AverageWPM = divRound(profile.AverageWPM*profile.TotalTests+outcome.WPM, tests)
	next.AverageAccuracy = divRound(profile.AverageAccuracy*profile.TotalTests+outcome.Accuracy, tests)
	if outcome.WPM > next.BestWPM {
		next.BestWPM = outcome.WPM
	}
	next.TotalTests = tests
	next.TotalTimeTyped += outcome.TimeSpent

	next.TotalXP += outcome.XPEarned
	next.CurrentLevelXP += outcome.XPEarned
	e.rollOver(&next)

	next.UnlockedLevels = MergeTiers(profile.UnlockedLevels, UnlockedTiers(e.unlocks, next.Level))
	next.Achievements = Evaluate(e.achievements, profile.Achievements, Stats{
		TotalTests:      next.TotalTests,
		BestWPM:         next.BestWPM,
		AverageAccuracy: next.AverageAccuracy,
		TotalTimeTyped:  next.TotalTimeTyped,
		Level:           next.Level,
		Latest:          result,
	})
	return next, nil
}

// Normalize repairs derived fields of a loaded profile without touching totals.
// Level XP at or past the threshold is rolled over into levels.
func (e *Engine) Normalize(p model.UserProfile) model.UserProfile {
	out := p.Clone()
	if out.Level < 1 {
		out.Level = 1
	}
	if out.CurrentLevelXP < 0 {
		out.CurrentLevelXP = 0
	}
	e.rollOver(&out)
	out.UnlockedLevels = MergeTiers(out.UnlockedLevels, UnlockedTiers(e.unlocks, out.Level))
	out.Achievements = Evaluate(nil, out.Achievements, Stats{})
	if len(out.TestHistory) > e.historyLimit {
		out.TestHistory = out.TestHistory[:e.historyLimit]
	}
	if math.IsNaN(out.SoundSettings.Volume) {
		out.SoundSettings.Volume = DefaultSoundVolume
	}
	if out.SoundSettings.Volume < 0 {
		out.SoundSettings.Volume = 0
	}
	if out.SoundSettings.Volume > 1 {
		out.SoundSettings.Volume = 1
	}
	return out
}

// rollOver converts XP past the threshold into levels and repairs a missing threshold.
func (e *Engine) rollOver(p *model.UserProfile) {
	if p.XPToNextLevel <= 0 {
		p.XPToNextLevel = e.curve.Cost(p.Level)
	}
	for p.CurrentLevelXP >= p.XPToNextLevel {
		p.CurrentLevelXP -= p.XPToNextLevel
		p.Level++
		p.XPToNextLevel = e.curve.Cost(p.Level)
	}
}

func validateOutcome(o model.Outcome) error {
	switch {
	case o.Level < 1:
		return fmt.Errorf("%w: tier %d", ErrInvalidOutcome, o.Level)
	case o.WPM < 0 || o.WPM > MaxWPM:
		return fmt.Errorf("%w: wpm %d out of range", ErrInvalidOutcome, o.WPM)
	case o.Accuracy < 0 || o.Accuracy > 100:
		return fmt.Errorf("%w: accuracy %d out of range", ErrInvalidOutcome, o.Accuracy)
	case o.XPEarned < 0 || o.XPEarned > MaxXPEarned:
		return fmt.Errorf("%w: xp %d out of range", ErrInvalidOutcome, o.XPEarned)
	case o.TimeSpent < 0 || o.TimeSpent > MaxTimeSpent:
		return fmt.Errorf("%w: time %d out of range", ErrInvalidOutcome, o.TimeSpent)
	case o.TextLength < 0:
		return fmt.Errorf("%w: negative text length %d", ErrInvalidOutcome, o.TextLength)
	}
	return nil
}

func validateProfile(p model.UserProfile) error {
	switch {
	case p.Level < 1:
		return fmt.Errorf("%w: level %d", ErrInvalidProfile, p.Level)
	case p.TotalXP < 0 || p.CurrentLevelXP < 0:
		return fmt.Errorf("%w: negative xp", ErrInvalidProfile)
	case p.TotalTests < 0 || p.TotalTimeTyped < 0:
		return fmt.Errorf("%w: negative counters", ErrInvalidProfile)
	case p.AverageWPM < 0 || p.AverageAccuracy < 0 || p.BestWPM < 0:
		return fmt.Errorf("%w: negative averages", ErrInvalidProfile)
	case p.AverageWPM > MaxWPM || p.AverageAccuracy > 100:
		return fmt.Errorf("%w: averages out of range", ErrInvalidProfile)
	}
	return nil
}

// checkHeadroom rejects outcomes whose totals would overflow.
func checkHeadroom(p model.UserProfile, o model.Outcome) error {
	switch {
	case p.TotalTests >= maxTests:
		return fmt.Errorf("%w: test count %d at limit", ErrInvalidOutcome, p.TotalTests)
	case p.TotalXP > math.MaxInt-o.XPEarned || p.CurrentLevelXP > math.MaxInt-o.XPEarned:
		return fmt.Errorf("%w: xp total would overflow", ErrInvalidOutcome)
	case p.TotalTimeTyped > math.MaxInt-o.TimeSpent:
		return fmt.Errorf("%w: time total would overflow", ErrInvalidOutcome)
	}
	return nil
}

// divRound divides non-negative num by positive den, rounding half up.
func divRound(num, den int) int {
	return (2*num + den) / (2 * den)
}

// Transition summarizes what changed between two snapshots.
type Transition struct {
	Before          model.UserProfile
	After           model.UserProfile
	LevelsGained    int
	NewTiers        []int
	NewAchievements []string
}

// Diff compares two snapshots of the same profile.
func Diff(before, after model.UserProfile) Transition {
	t := Transition{
		Before:       before,
		After:        after,
		LevelsGained: after.Level - before.Level,
	}
	for _, tier := range after.UnlockedLevels {
		if !before.HasTier(tier) {
			t.NewTiers = append(t.NewTiers, tier)
		}
	}
	for _, a := range after.Achievements {
		if !before.HasAchievement(a) {
			t.NewAchievements = append(t.NewAchievements, a)
		}
	}
	return t
}

// LeveledUp reports whether the transition crossed at least one level.
func (t Transition) LeveledUp() bool {
	return t.LevelsGained > 0
}

// Latest returns the result added by the transition.
func (t Transition) Latest() (model.TestResult, bool) {
	if len(t.After.TestHistory) == 0 {
		return model.TestResult{}, false
	}
	return t.After.TestHistory[0], true
}
