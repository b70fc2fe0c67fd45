// Package passage builds the text a typing test asks for.
package passage

import (
	"math/rand"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/supertype/internal/catalog"
	"github.com/verte-zerg/supertype/internal/model"
	"github.com/verte-zerg/supertype/internal/stats"
)

const (
	targetChars  = 5
	targetPairs  = 3
	minSentence  = 30
	weakFactor   = 2.0
	sentencePad  = "is important for improving your typing skills"
	maxTemplates = 3
)

var connectors = []string{"and", "with", "while", "when", "because", "through", "using", "for", "by", "to"}

// Generator picks and composes passages.
type Generator struct {
	rnd   *rand.Rand
	tiers catalog.Catalog
}

// New returns a Generator over tiers. A zero seed uses the current time.
func New(seed int64, tiers catalog.Catalog) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed)), tiers: tiers}
}

// ForTier returns a random passage of the tier.
func (g *Generator) ForTier(tier int) string {
	t := g.tiers.Resolve(tier)
	if len(t.Passages) == 0 {
		return g.LevelBased(1)
	}
	return t.Passages[g.rnd.Intn(len(t.Passages))]
}

// LevelBased joins up to three distinct templates chosen for the profile level.
func (g *Generator) LevelBased(level int) string {
	pool := templatesForLevel(level)
	n := min(max(level/2, 1), maxTemplates, len(pool))
	picked := make([]string, 0, n)
	for _, i := range g.rnd.Perm(len(pool))[:n] {
		picked = append(picked, pool[i])
	}
	return strings.Join(picked, " ")
}

// Smart builds a passage aimed at the given problem characters and pairs.
// Without problems it falls back to LevelBased.
func (g *Generator) Smart(level int, chars []model.CharProblem, pairs []model.PairProblem) string {
	if len(chars) == 0 {
		return g.LevelBased(level)
	}
	words := g.targetedWords(chars, pairs)
	if len(words) == 0 {
		return g.LevelBased(level)
	}
	pool := templatesForLevel(level)
	base := pool[g.rnd.Intn(len(pool))]
	return base + " " + g.sentence(words)
}

// targetedWords picks vocabulary words containing the worst characters and pairs.
func (g *Generator) targetedWords(chars []model.CharProblem, pairs []model.PairProblem) []string {
	weak := stats.SelectWeakChars(chars, targetChars)

	var words []string
	for _, c := range chars[:min(len(chars), targetChars)] {
		candidates := wordsByChar[strings.ToLower(c.Char)]
		if len(candidates) == 0 {
			continue
		}
		word := g.weightedPick(candidates, weak)
		if !slices.Contains(words, word) {
			words = append(words, word)
		}
	}
	for _, p := range pairs[:min(len(pairs), targetPairs)] {
		candidates := wordsWith(strings.ToLower(p.Pair))
		if len(candidates) == 0 {
			continue
		}
		word := g.weightedPick(candidates, weak)
		if !slices.Contains(words, word) {
			words = append(words, word)
		}
	}
	return words
}

func (g *Generator) sentence(words []string) string {
	head := words[:min(len(words), 2)]
	tail := words[min(len(words), 2):]
	parts := []string{strings.Join(head, " "), connectors[g.rnd.Intn(len(connectors))], strings.Join(tail, " ")}
	sentence := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	if len(sentence) < minSentence {
		sentence += " " + sentencePad
	}
	return capitalize(sentence) + "."
}

// weightedPick selects a word, favouring those with more weak characters.
func (g *Generator) weightedPick(words []string, weak map[rune]struct{}) string {
	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		weakCount := 0
		for _, r := range word {
			if _, ok := weak[r]; ok {
				weakCount++
			}
		}
		w := 1.0 + float64(weakCount)*weakFactor
		weights[i] = w
		total += w
	}
	r := g.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return words[i]
		}
	}
	return words[len(words)-1]
}

func wordsWith(pair string) []string {
	var out []string
	for _, key := range vocabularyKeys {
		for _, w := range wordsByChar[key] {
			if strings.Contains(w, pair) && !slices.Contains(out, w) {
				out = append(out, w)
			}
		}
	}
	return out
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
