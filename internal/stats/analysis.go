package stats

import (
	"slices"
	"sort"
	"unicode"

	"github.com/verte-zerg/supertype/internal/model"
)

const (
	// TopProblems is how many characters and pairs an analysis keeps.
	TopProblems = 10
	maxContexts = 5
)

// ErrorAnalysis ranks the characters and neighbouring pairs that are mistyped most.
type ErrorAnalysis struct {
	Chars []model.CharProblem
	Pairs []model.PairProblem
}

// Empty reports whether there is nothing to practice.
func (a ErrorAnalysis) Empty() bool {
	return len(a.Chars) == 0
}

// AnalyzeErrors counts errors per expected character and per pair formed with
// the characters around it in the recorded context. Ties keep first-seen order.
func AnalyzeErrors(errs []model.TypingError) ErrorAnalysis {
	var chars []model.CharProblem
	charIdx := map[string]int{}
	var pairs []model.PairProblem
	pairIdx := map[string]int{}

	addPair := func(pair string) {
		i, ok := pairIdx[pair]
		if !ok {
			i = len(pairs)
			pairIdx[pair] = i
			pairs = append(pairs, model.PairProblem{Pair: pair})
		}
		pairs[i].Count++
	}

	for _, e := range errs {
		i, ok := charIdx[e.Char]
		if !ok {
			i = len(chars)
			charIdx[e.Char] = i
			chars = append(chars, model.CharProblem{Char: e.Char})
		}
		chars[i].Count++
		if e.Context == "" {
			continue
		}
		if len(chars[i].Contexts) < maxContexts {
			chars[i].Contexts = append(chars[i].Contexts, e.Context)
		}

		ctx := []rune(e.Context)
		target := []rune(e.Char)
		if len(ctx) < 3 || len(target) != 1 {
			continue
		}
		pos := slices.Index(ctx, target[0])
		if pos > 0 && pos < len(ctx)-1 {
			addPair(string([]rune{ctx[pos-1], target[0]}))
			addPair(string([]rune{target[0], ctx[pos+1]}))
		}
	}

	sort.SliceStable(chars, func(i, j int) bool { return chars[i].Count > chars[j].Count })
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Count > pairs[j].Count })
	if len(chars) > TopProblems {
		chars = chars[:TopProblems]
	}
	if len(pairs) > TopProblems {
		pairs = pairs[:TopProblems]
	}
	return ErrorAnalysis{Chars: chars, Pairs: pairs}
}

// SelectWeakChars returns the lowercase runes of the top problem characters.
func SelectWeakChars(problems []model.CharProblem, top int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	if top <= 0 || top > len(problems) {
		top = len(problems)
	}
	for _, p := range problems[:top] {
		runes := []rune(p.Char)
		if len(runes) > 0 {
			weakSet[unicode.ToLower(runes[0])] = struct{}{}
		}
	}
	return weakSet
}
