package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/supertype/internal/catalog"
	"github.com/verte-zerg/supertype/internal/model"
)

// DefaultCurveWindow is the moving-average window for learning curves.
const DefaultCurveWindow = 5

// ErrorSource provides the retained typing errors.
type ErrorSource interface {
	Recent(ctx context.Context) []model.TypingError
}

// Report contains precomputed data for history rendering.
type Report struct {
	Profile model.UserProfile
	// Recent holds the selected results, newest first.
	Recent []model.TestResult
	// Timeline holds every retained result, oldest first.
	Timeline []model.TestResult
	Window   int
	Analysis ErrorAnalysis
}

// BuildReport prepares history and error data for rendering.
func BuildReport(ctx context.Context, p model.UserProfile, errs ErrorSource, filter model.HistoryFilter) Report {
	recent := append([]model.TestResult(nil), p.TestHistory...)
	if filter.Last > 0 && len(recent) > filter.Last {
		recent = recent[:filter.Last]
	}
	window := filter.CurveWindow
	if window <= 0 {
		window = DefaultCurveWindow
	}
	report := Report{
		Profile:  p,
		Recent:   recent,
		Timeline: Chronological(p.TestHistory),
		Window:   window,
	}
	if errs != nil {
		report.Analysis = AnalyzeErrors(errs.Recent(ctx))
	}
	return report
}

// RenderReport prints the summary, recent tests, curves and problem characters.
func RenderReport(w io.Writer, r Report, tiers catalog.Catalog, maxCell int) error {
	if err := RenderSummary(w, r.Profile); err != nil {
		return err
	}
	if err := RenderHistory(w, r.Recent, tiers, maxCell); err != nil {
		return err
	}
	if err := RenderCurves(w, r.Timeline, r.Window); err != nil {
		return err
	}
	return RenderProblems(w, r.Analysis)
}
