// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/supertype/internal/catalog"
	"github.com/verte-zerg/supertype/internal/model"
	"github.com/verte-zerg/supertype/internal/progression"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Chronological returns history oldest first.
func Chronological(history []model.TestResult) []model.TestResult {
	out := make([]model.TestResult, len(history))
	for i, r := range history {
		out[len(history)-1-i] = r
	}
	return out
}

// FormatDuration renders seconds as "1h 02m", "3m 05s" or "42s".
func FormatDuration(seconds int) string {
	d := time.Duration(seconds) * time.Second
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm %02ds", int(d.Minutes()), seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// RenderSummary prints the profile overview.
func RenderSummary(w io.Writer, p model.UserProfile) error {
	lines := []string{
		fmt.Sprintf("%s %s", p.Avatar, p.Username),
		fmt.Sprintf("Level: %d (%d/%d XP, %d total)", p.Level, p.CurrentLevelXP, p.XPToNextLevel, p.TotalXP),
		fmt.Sprintf("Tests: %d", p.TotalTests),
		fmt.Sprintf("Avg WPM: %d", p.AverageWPM),
		fmt.Sprintf("Best WPM: %d", p.BestWPM),
		fmt.Sprintf("Avg Accuracy: %d%%", p.AverageAccuracy),
		fmt.Sprintf("Time Typed: %s", FormatDuration(p.TotalTimeTyped)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints results, newest first, as a table.
func RenderHistory(w io.Writer, results []model.TestResult, tiers catalog.Catalog, maxCell int) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No tests found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Recent Tests"); err != nil {
		return err
	}
	headers := []string{"Completed", "Tier", "WPM", "Accuracy", "XP", "Time"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.CompletedAt.Local().Format("2006-01-02 15:04"),
			tiers.Resolve(r.Level).Subtitle,
			fmt.Sprintf("%d", r.WPM),
			fmt.Sprintf("%d%%", r.Accuracy),
			fmt.Sprintf("+%d", r.XPEarned),
			FormatDuration(r.TimeSpent),
		})
	}
	layout := tableLayout{rightAlign: map[int]bool{2: true, 3: true, 4: true, 5: true}, maxCell: maxCell}
	for _, line := range formatTable(headers, rows, layout) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurves prints WPM and accuracy sparklines over results, oldest first.
func RenderCurves(w io.Writer, results []model.TestResult, window int) error {
	if len(results) == 0 {
		return nil
	}
	wpms := make([]float64, len(results))
	accs := make([]float64, len(results))
	for i, r := range results {
		wpms[i] = float64(r.WPM)
		accs[i] = float64(r.Accuracy)
	}
	wpms = MovingAverage(wpms, window)
	accs = MovingAverage(accs, window)

	if _, err := fmt.Fprintln(w, "Learning Curves"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "WPM      %s  (%.0f -> %.0f)\n", Sparkline(wpms), wpms[0], wpms[len(wpms)-1]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Accuracy %s  (%.0f%% -> %.0f%%)\n", Sparkline(accs), accs[0], accs[len(accs)-1]); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderProblems prints the most mistyped characters and pairs.
func RenderProblems(w io.Writer, a ErrorAnalysis) error {
	if a.Empty() {
		_, err := fmt.Fprintln(w, "No typing errors recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Problem Characters"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(a.Chars))
	for _, c := range a.Chars {
		rows = append(rows, []string{charLabel(c.Char), fmt.Sprintf("%d", c.Count), strings.Join(c.Contexts, " | ")})
	}
	layout := tableLayout{rightAlign: map[int]bool{1: true}}
	for _, line := range formatTable([]string{"Char", "Errors", "Contexts"}, rows, layout) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(a.Pairs) > 0 {
		pairs := make([]string, 0, len(a.Pairs))
		for _, p := range a.Pairs {
			pairs = append(pairs, fmt.Sprintf("%s(%d)", charLabel(p.Pair), p.Count))
		}
		if _, err := fmt.Fprintf(w, "Problem Pairs: %s\n", strings.Join(pairs, " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTiers prints every tier with its lock state.
func RenderTiers(w io.Writer, p model.UserProfile, tiers catalog.Catalog, rules []progression.UnlockRule) error {
	headers := []string{"Tier", "Name", "Difficulty", "Time", "Base XP", "Status"}
	rows := make([][]string, 0, tiers.Len())
	for _, t := range tiers.Tiers() {
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.ID),
			t.Subtitle,
			t.Difficulty,
			FormatDuration(int(t.Duration.Seconds())),
			fmt.Sprintf("%d", t.BaseXP),
			TierStatus(p, t.ID, rules),
		})
	}
	layout := tableLayout{rightAlign: map[int]bool{0: true, 3: true, 4: true}}
	for _, line := range formatTable(headers, rows, layout) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// TierStatus describes whether a tier is open to the profile.
func TierStatus(p model.UserProfile, tier int, rules []progression.UnlockRule) string {
	if p.HasTier(tier) {
		return "unlocked"
	}
	if lvl, ok := progression.UnlockLevel(rules, tier); ok {
		return fmt.Sprintf("locked (level %d)", lvl)
	}
	return "locked"
}

// RenderAchievements prints the catalog with earned markers.
func RenderAchievements(w io.Writer, p model.UserProfile, list []progression.Achievement) error {
	earned := 0
	for _, a := range list {
		mark := "[ ]"
		if p.HasAchievement(a.ID) {
			mark = "[x]"
			earned++
		}
		if _, err := fmt.Fprintf(w, "%s %-17s %s\n", mark, a.ID, a.Description); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%d/%d earned\n", earned, len(list))
	return err
}

func charLabel(s string) string {
	return strings.ReplaceAll(s, " ", "<space>")
}
