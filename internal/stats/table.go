package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// tableLayout controls column alignment and cell truncation.
type tableLayout struct {
	rightAlign map[int]bool
	// maxCell truncates wider cells with an ellipsis; zero disables it.
	maxCell int
}

func formatTable(headers []string, rows [][]string, layout tableLayout) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	clip := func(cell string) string {
		if layout.maxCell > 0 && displayWidth(cell) > layout.maxCell {
			return runewidth.Truncate(cell, layout.maxCell, "…")
		}
		return cell
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(clip(header))
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = clip(row[i])
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, layout, clip))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, layout, clip))
	}
	return lines
}

func formatRow(row []string, widths []int, layout tableLayout, clip func(string) string) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = clip(row[i])
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], layout.rightAlign[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
