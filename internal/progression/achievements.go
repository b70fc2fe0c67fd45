package progression

import "github.com/verte-zerg/supertype/internal/model"

// Achievement IDs.
const (
	FirstSteps      = "First Steps"
	SpeedDemon      = "Speed Demon"
	AccuracyExpert  = "Accuracy Expert"
	ConsistentTyper = "Consistent Typer"
	MarathonTyper   = "Marathon Typer"
	Perfectionist   = "Perfectionist"
	LevelMaster     = "Level Master"
	SpeedRacer      = "Speed Racer"
)

// Stats is the snapshot achievements are evaluated against.
type Stats struct {
	TotalTests      int
	BestWPM         int
	AverageAccuracy int
	TotalTimeTyped  int
	Level           int
	Latest          model.TestResult
}

// Achievement is a one-way badge granted when Earned holds.
type Achievement struct {
	ID          string
	Description string
	Earned      func(Stats) bool
}

// Achievements lists every achievement in display order.
var Achievements = []Achievement{
	{ID: FirstSteps, Description: "Complete your first typing test", Earned: func(s Stats) bool { return s.TotalTests >= 1 }},
	{ID: SpeedDemon, Description: "Reach 50 WPM", Earned: func(s Stats) bool { return s.BestWPM >= 50 }},
	{ID: AccuracyExpert, Description: "Achieve 95% average accuracy", Earned: func(s Stats) bool { return s.AverageAccuracy >= 95 }},
	{ID: ConsistentTyper, Description: "Complete 10 typing tests", Earned: func(s Stats) bool { return s.TotalTests >= 10 }},
	{ID: MarathonTyper, Description: "Type for a total of 1 hour", Earned: func(s Stats) bool { return s.TotalTimeTyped >= 3600 }},
	{ID: Perfectionist, Description: "Complete a test with 100% accuracy", Earned: func(s Stats) bool { return s.Latest.Accuracy == 100 }},
	{ID: LevelMaster, Description: "Reach profile level 5", Earned: func(s Stats) bool { return s.Level >= 5 }},
	{ID: SpeedRacer, Description: "Reach 80 WPM", Earned: func(s Stats) bool { return s.BestWPM >= 80 }},
}

// Evaluate returns prior plus every achievement in catalog whose predicate holds.
// Nothing in prior is ever removed.
func Evaluate(catalog []Achievement, prior []string, stats Stats) []string {
	out := make([]string, 0, len(prior)+len(catalog))
	seen := make(map[string]struct{}, len(prior)+len(catalog))
	for _, id := range prior {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, a := range catalog {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		if a.Earned(stats) {
			seen[a.ID] = struct{}{}
			out = append(out, a.ID)
		}
	}
	return out
}

// Describe returns the description of an achievement id.
func Describe(id string) string {
	for _, a := range Achievements {
		if a.ID == id {
			return a.Description
		}
	}
	return ""
}
