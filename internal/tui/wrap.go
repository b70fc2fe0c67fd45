package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
	cursor  bool
}

func buildStyledRunes(targetRunes, inputRunes []rune, cursorIndex int) []styledRune {
	words := findWords(targetRunes)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		displayed := target
		style := pendingStyle
		if i < len(inputRunes) {
			switch {
			case target == ' ' && inputRunes[i] != ' ':
				displayed = '•'
				style = incorrectStyle
			case inputRunes[i] == target:
				style = correctStyle
			default:
				style = incorrectStyle
			}
		} else if target != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
			style = currentWordStyle
		}
		isCursor := i == cursorIndex && i >= len(inputRunes)
		if isCursor {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
			cursor:  isCursor,
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(targetRunes []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range targetRunes {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(targetRunes)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return &words[len(words)-1]
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrappedText is the passage broken into display lines.
type wrappedText struct {
	lines      []string
	cursorLine int
}

// wrapStyledRunes breaks at the last space that fits, or mid-word when a word
// is wider than the line.
func wrapStyledRunes(runes []styledRune, width int) wrappedText {
	if width <= 0 {
		return wrappedText{lines: []string{renderStyledRunes(runes)}}
	}
	var out wrappedText
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	flush := func(items []styledRune) {
		for _, item := range items {
			if item.cursor {
				out.cursorLine = len(out.lines)
			}
		}
		out.lines = append(out.lines, renderStyledRunes(items))
	}

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				// The breaking space stays on the upper line so the cursor can sit on it.
				flush(line[:lastSpaceIdx+1])
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
			} else {
				flush(line)
				line = line[:0]
			}
			lineWidth = lineWidthOf(line)
			lastSpaceIdx = lastSpaceIndex(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	flush(line)
	return out
}

// window returns at most height lines, scrolled so the cursor line stays visible.
func (w wrappedText) window(height int) []string {
	if height <= 0 || len(w.lines) <= height {
		return w.lines
	}
	start := max(0, w.cursorLine-height/2)
	start = min(start, len(w.lines)-height)
	return w.lines[start : start+height]
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
