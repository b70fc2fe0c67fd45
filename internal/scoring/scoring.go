// Package scoring derives speed, accuracy and XP from a finished typing test.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/supertype/internal/catalog"
	"github.com/verte-zerg/supertype/internal/model"
)

// ErrInvalidInput is returned for inputs that cannot be scored.
var ErrInvalidInput = errors.New("invalid scoring input")

// MinElapsed is the shortest measurable test duration (one countdown tick).
const MinElapsed = time.Second

// contextRadius is how many reference characters are kept on each side of an error.
const contextRadius = 2

// Params holds the XP bonus thresholds and multipliers.
type Params struct {
	SpeedThreshold     int
	SpeedMultiplier    float64
	AccuracyThreshold  int
	AccuracyMultiplier float64
}

// DefaultParams are the canonical bonus settings.
var DefaultParams = Params{
	SpeedThreshold:     30,
	SpeedMultiplier:    2,
	AccuracyThreshold:  80,
	AccuracyMultiplier: 1,
}

// ErrorSink receives mistyped characters for later practice targeting.
type ErrorSink interface {
	Record(ctx context.Context, errs []model.TypingError) error
}

// Input is a finished test.
type Input struct {
	Reference string
	Typed     string
	Elapsed   time.Duration
	Tier      int
}

// Result is the scored test.
type Result struct {
	WPM        int
	Accuracy   int
	XPEarned   int
	TimeSpent  int
	TextLength int
	Correct    int
	Errors     []model.TypingError
}

// Outcome converts the result into engine input for tier.
func (r Result) Outcome(tier int) model.Outcome {
	return model.Outcome{
		Level:      tier,
		WPM:        r.WPM,
		Accuracy:   r.Accuracy,
		XPEarned:   r.XPEarned,
		TimeSpent:  r.TimeSpent,
		TextLength: r.TextLength,
	}
}

// Calculator scores tests against a tier catalog.
type Calculator struct {
	params Params
	tiers  catalog.Catalog
	sink   ErrorSink
	logger *slog.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithParams overrides the bonus parameters.
func WithParams(p Params) Option {
	return func(c *Calculator) { c.params = p }
}

// WithErrorSink sets where mistyped characters are reported.
func WithErrorSink(sink ErrorSink) Option {
	return func(c *Calculator) { c.sink = sink }
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCalculator returns a Calculator for tiers.
func NewCalculator(tiers catalog.Catalog, opts ...Option) *Calculator {
	c := &Calculator{
		params: DefaultParams,
		tiers:  tiers,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Score computes the result for in and reports its errors to the sink.
// A sink failure is logged and does not fail scoring.
func (c *Calculator) Score(ctx context.Context, in Input) (Result, error) {
	if in.Elapsed < 0 {
		return Result{}, fmt.Errorf("%w: negative elapsed time %s", ErrInvalidInput, in.Elapsed)
	}
	ref := []rune(in.Reference)
	typed := []rune(in.Typed)

	elapsed := in.Elapsed
	if elapsed < MinElapsed {
		elapsed = MinElapsed
	}

	wpm := WPM(WordCount(in.Typed), elapsed)
	correct, acc := Accuracy(ref, typed)
	res := Result{
		WPM:        wpm,
		Accuracy:   acc,
		XPEarned:   XP(c.tiers.BaseXP(in.Tier), wpm, acc, c.params),
		TimeSpent:  roundHalfUp(in.Elapsed.Seconds()),
		TextLength: len(ref),
		Correct:    correct,
		Errors:     TrackErrors(ref, typed),
	}

	if c.sink != nil && len(res.Errors) > 0 {
		if err := c.sink.Record(ctx, res.Errors); err != nil {
			c.logger.Warn("failed to record typing errors", slog.String("error", err.Error()), slog.Int("count", len(res.Errors)))
		}
	}
	return res, nil
}

// WordCount counts non-empty whitespace-separated tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// WPM returns words per minute for elapsed, clamped to MinElapsed.
func WPM(words int, elapsed time.Duration) int {
	if words <= 0 {
		return 0
	}
	if elapsed < MinElapsed {
		elapsed = MinElapsed
	}
	return roundHalfUp(float64(words) / elapsed.Minutes())
}

// Accuracy returns the number of positions matching ref and the percentage of
// typed characters that were correct. Characters beyond ref count as wrong.
func Accuracy(ref, typed []rune) (correct, pct int) {
	for i, r := range typed {
		if i < len(ref) && r == ref[i] {
			correct++
		}
	}
	den := len(typed)
	if den < 1 {
		den = 1
	}
	return correct, roundHalfUp(100 * float64(correct) / float64(den))
}

// XP returns the reward for a test at a tier with the given base XP.
func XP(base, wpm, accuracy int, p Params) int {
	speedBonus := float64(max(0, wpm-p.SpeedThreshold)) * p.SpeedMultiplier
	accBonus := float64(max(0, accuracy-p.AccuracyThreshold)) * p.AccuracyMultiplier
	return roundHalfUp(float64(base) + speedBonus + accBonus)
}

// TrackErrors lists every mismatched position inside ref with its context window.
func TrackErrors(ref, typed []rune) []model.TypingError {
	var errs []model.TypingError
	n := min(len(ref), len(typed))
	for i := 0; i < n; i++ {
		if typed[i] == ref[i] {
			continue
		}
		start := max(0, i-contextRadius)
		end := min(len(ref), i+contextRadius+1)
		errs = append(errs, model.TypingError{
			Char:    string(ref[i]),
			Context: string(ref[start:end]),
		})
	}
	return errs
}

func roundHalfUp(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Floor(v + 0.5))
}
