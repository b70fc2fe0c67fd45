package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/supertype/internal/catalog"
	"github.com/verte-zerg/supertype/internal/model"
)

type recordingSink struct {
	got [][]model.TypingError
	err error
}

func (s *recordingSink) Record(_ context.Context, errs []model.TypingError) error {
	s.got = append(s.got, errs)
	return s.err
}

func TestScoreExactMatch(t *testing.T) {
	c := NewCalculator(catalog.Default())
	res, err := c.Score(context.Background(), Input{Reference: "cat", Typed: "cat", Elapsed: 6 * time.Second, Tier: 1})
	require.NoError(t, err)

	assert.Equal(t, 100, res.Accuracy)
	assert.Equal(t, 10, res.WPM)
	assert.Equal(t, 6, res.TimeSpent)
	assert.Equal(t, 3, res.TextLength)
	assert.Empty(t, res.Errors)
	// base 50 + no speed bonus + (100-80)*1
	assert.Equal(t, 70, res.XPEarned)
}

func TestScoreOvertypeCountsAsIncorrect(t *testing.T) {
	c := NewCalculator(catalog.Default())
	res, err := c.Score(context.Background(), Input{Reference: "cat", Typed: "cats", Elapsed: 6 * time.Second, Tier: 1})
	require.NoError(t, err)
	assert.Equal(t, 75, res.Accuracy)
	assert.Equal(t, 3, res.Correct)
	assert.Empty(t, res.Errors)
}

func TestScoreZeroElapsedIsClamped(t *testing.T) {
	c := NewCalculator(catalog.Default())
	res, err := c.Score(context.Background(), Input{Reference: "one two", Typed: "one two", Elapsed: 0, Tier: 1})
	require.NoError(t, err)
	assert.Equal(t, 120, res.WPM)
	assert.Equal(t, 0, res.TimeSpent)
}

func TestScoreRejectsNegativeElapsed(t *testing.T) {
	c := NewCalculator(catalog.Default())
	_, err := c.Score(context.Background(), Input{Reference: "a", Typed: "a", Elapsed: -time.Second})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestScoreEmptyInput(t *testing.T) {
	c := NewCalculator(catalog.Default())
	res, err := c.Score(context.Background(), Input{Reference: "", Typed: "", Elapsed: 30 * time.Second, Tier: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, res.WPM)
	assert.Equal(t, 0, res.Accuracy)
	assert.Equal(t, 100, res.XPEarned)
}

func TestScoreReportsErrorsToSink(t *testing.T) {
	sink := &recordingSink{}
	c := NewCalculator(catalog.Default(), WithErrorSink(sink))
	res, err := c.Score(context.Background(), Input{Reference: "hello world", Typed: "hallo world", Elapsed: 10 * time.Second, Tier: 1})
	require.NoError(t, err)

	want := []model.TypingError{{Char: "e", Context: "hell"}}
	assert.Equal(t, want, res.Errors)
	require.Len(t, sink.got, 1)
	assert.Equal(t, want, sink.got[0])
}

func TestScoreSinkFailureIsSwallowed(t *testing.T) {
	sink := &recordingSink{err: errors.New("disk full")}
	c := NewCalculator(catalog.Default(), WithErrorSink(sink))
	_, err := c.Score(context.Background(), Input{Reference: "ab", Typed: "xb", Elapsed: time.Second, Tier: 1})
	require.NoError(t, err)
	assert.Len(t, sink.got, 1)
}

func TestScoreSkipsSinkWithoutErrors(t *testing.T) {
	sink := &recordingSink{}
	c := NewCalculator(catalog.Default(), WithErrorSink(sink))
	_, err := c.Score(context.Background(), Input{Reference: "ab", Typed: "ab", Elapsed: time.Second, Tier: 1})
	require.NoError(t, err)
	assert.Empty(t, sink.got)
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount("   "))
	assert.Equal(t, 3, WordCount("  one\ttwo \n three "))
}

func TestXP(t *testing.T) {
	assert.Equal(t, 50, XP(50, 10, 50, DefaultParams))
	// 100 + (60-30)*2 + (95-80)*1
	assert.Equal(t, 175, XP(100, 60, 95, DefaultParams))
	assert.Equal(t, 53, XP(50, 31, 80, Params{SpeedThreshold: 30, SpeedMultiplier: 2.5, AccuracyThreshold: 80, AccuracyMultiplier: 1}))
}

func TestTrackErrorsContextClipped(t *testing.T) {
	errs := TrackErrors([]rune("abcdef"), []rune("xbcdeZ"))
	require.Len(t, errs, 2)
	assert.Equal(t, model.TypingError{Char: "a", Context: "abc"}, errs[0])
	assert.Equal(t, model.TypingError{Char: "f", Context: "def"}, errs[1])
}

func TestTrackErrorsMultibyte(t *testing.T) {
	errs := TrackErrors([]rune("héllo"), []rune("hello"))
	require.Len(t, errs, 1)
	assert.Equal(t, "é", errs[0].Char)
	assert.Equal(t, "héll", errs[0].Context)
}

func TestResultOutcome(t *testing.T) {
	r := Result{WPM: 40, Accuracy: 90, XPEarned: 70, TimeSpent: 30, TextLength: 100}
	o := r.Outcome(3)
	assert.Equal(t, model.Outcome{Level: 3, WPM: 40, Accuracy: 90, XPEarned: 70, TimeSpent: 30, TextLength: 100}, o)
}
