package passage

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/supertype/internal/catalog"
	"github.com/verte-zerg/supertype/internal/model"
)

func TestForTierReturnsTierPassage(t *testing.T) {
	tiers := catalog.Default()
	g := New(7, tiers)
	tier, _ := tiers.Lookup(3)
	for i := 0; i < 20; i++ {
		assert.True(t, slices.Contains(tier.Passages, g.ForTier(3)))
	}
}

func TestSameSeedSameText(t *testing.T) {
	chars := []model.CharProblem{{Char: "q", Count: 4}, {Char: "z", Count: 2}}
	a := New(99, catalog.Default())
	b := New(99, catalog.Default())
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Smart(3, chars, nil), b.Smart(3, chars, nil))
		assert.Equal(t, a.ForTier(i+1), b.ForTier(i+1))
	}
}

func TestLevelBasedTemplateCount(t *testing.T) {
	g := New(1, catalog.Default())
	one := g.LevelBased(1)
	assert.True(t, slices.Contains(basicTemplates, one))

	many := g.LevelBased(8)
	count := 0
	for _, tpl := range commonTemplates {
		if strings.Contains(many, tpl) {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

func TestSmartTargetsProblemCharacters(t *testing.T) {
	g := New(5, catalog.Default())
	text := g.Smart(1, []model.CharProblem{{Char: "q", Count: 3}}, nil)

	var base string
	for _, tpl := range basicTemplates {
		if strings.HasPrefix(text, tpl) {
			base = tpl
		}
	}
	require.NotEmpty(t, base)
	sentence := strings.TrimPrefix(text, base+" ")
	assert.True(t, strings.HasSuffix(sentence, "."))
	assert.Contains(t, strings.ToLower(sentence), "q")
	assert.Contains(t, sentence, sentencePad)
}

func TestSmartWithoutErrorsFallsBack(t *testing.T) {
	g := New(5, catalog.Default())
	assert.True(t, slices.Contains(basicTemplates, g.Smart(2, nil, nil)))
	// Symbols have no vocabulary words.
	assert.True(t, slices.Contains(basicTemplates, g.Smart(2, []model.CharProblem{{Char: ";", Count: 9}}, nil)))
}

func TestSmartUsesPairs(t *testing.T) {
	g := New(11, catalog.Default())
	text := g.Smart(4, []model.CharProblem{{Char: "k", Count: 5}}, []model.PairProblem{{Pair: "yb", Count: 4}})
	assert.Contains(t, text, "keyboard")
}

func TestLoadPassages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.txt")
	require.NoError(t, os.WriteFile(path, []byte("# custom\nfirst line\n\n  second line  \n"), 0o644))

	got, err := LoadPassages(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"first line", "second line"}, got)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n# nothing\n"), 0o644))
	_, err = LoadPassages(empty)
	require.Error(t, err)
}
