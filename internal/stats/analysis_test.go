package stats

import (
	"fmt"
	"testing"

	"github.com/verte-zerg/supertype/internal/model"
)

func TestAnalyzeErrorsCountsCharsAndPairs(t *testing.T) {
	errs := []model.TypingError{
		{Char: "e", Context: "hello"},
		{Char: "e", Context: "hello"},
		{Char: "o", Context: "llo w"},
		{Char: "t", Context: "te"},
	}
	a := AnalyzeErrors(errs)
	if len(a.Chars) != 3 {
		t.Fatalf("expected 3 problem chars, got %+v", a.Chars)
	}
	if a.Chars[0].Char != "e" || a.Chars[0].Count != 2 {
		t.Fatalf("expected e first with 2 errors, got %+v", a.Chars[0])
	}
	if a.Chars[1].Char != "o" || a.Chars[2].Char != "t" {
		t.Fatalf("expected first-seen order for ties, got %+v", a.Chars)
	}
	want := []model.PairProblem{{Pair: "he", Count: 2}, {Pair: "el", Count: 2}, {Pair: "lo", Count: 1}, {Pair: "o ", Count: 1}}
	if fmt.Sprint(a.Pairs) != fmt.Sprint(want) {
		t.Fatalf("unexpected pairs: %+v", a.Pairs)
	}
}

func TestAnalyzeErrorsKeepsTopTen(t *testing.T) {
	var errs []model.TypingError
	for i := 0; i < 15; i++ {
		ch := string(rune('a' + i))
		for j := 0; j <= i; j++ {
			errs = append(errs, model.TypingError{Char: ch})
		}
	}
	a := AnalyzeErrors(errs)
	if len(a.Chars) != TopProblems {
		t.Fatalf("expected %d chars, got %d", TopProblems, len(a.Chars))
	}
	if a.Chars[0].Char != "o" {
		t.Fatalf("expected most frequent char first, got %q", a.Chars[0].Char)
	}
}

func TestAnalyzeErrorsLimitsContexts(t *testing.T) {
	var errs []model.TypingError
	for i := 0; i < 8; i++ {
		errs = append(errs, model.TypingError{Char: "x", Context: fmt.Sprintf("a%dx", i)})
	}
	a := AnalyzeErrors(errs)
	if len(a.Chars[0].Contexts) != maxContexts {
		t.Fatalf("expected %d contexts, got %d", maxContexts, len(a.Chars[0].Contexts))
	}
	if a.Chars[0].Contexts[0] != "a0x" {
		t.Fatalf("expected earliest context kept, got %q", a.Chars[0].Contexts[0])
	}
}

func TestSelectWeakChars(t *testing.T) {
	problems := []model.CharProblem{{Char: "Q", Count: 4}, {Char: "z", Count: 3}, {Char: "k", Count: 1}}
	weak := SelectWeakChars(problems, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak chars, got %d", len(weak))
	}
	if _, ok := weak['q']; !ok {
		t.Fatalf("expected lowercase q in weak set")
	}
	if _, ok := weak['k']; ok {
		t.Fatalf("did not expect k in weak set")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{1, 1, 1}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}
