// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Tier         int
	Smart        bool
	Seed         int64
	PassagesPath string
}

// HistoryFilter limits which results a history report shows.
type HistoryFilter struct {
	Last        int
	CurveWindow int
}

// SoundSettings holds the user's audio preference.
type SoundSettings struct {
	Enabled bool    `json:"enabled"`
	Volume  float64 `json:"volume"`
}

// TestResult captures one completed typing test.
type TestResult struct {
	ID          string    `json:"id"`
	Level       int       `json:"level"`
	WPM         int       `json:"wpm"`
	Accuracy    int       `json:"accuracy"`
	XPEarned    int       `json:"xpEarned"`
	TimeSpent   int       `json:"timeSpent"`
	TextLength  int       `json:"textLength"`
	CompletedAt time.Time `json:"completedAt"`
}

// Outcome is a scored test before it becomes part of a profile.
type Outcome struct {
	Level      int
	WPM        int
	Accuracy   int
	XPEarned   int
	TimeSpent  int
	TextLength int
}

// UserProfile is the persisted progression state of the local user.
type UserProfile struct {
	ID              string        `json:"id"`
	Username        string        `json:"username"`
	Avatar          string        `json:"avatar"`
	Level           int           `json:"level"`
	TotalXP         int           `json:"totalXP"`
	XPToNextLevel   int           `json:"xpToNextLevel"`
	CurrentLevelXP  int           `json:"currentLevelXP"`
	AverageWPM      int           `json:"averageWPM"`
	BestWPM         int           `json:"bestWPM"`
	AverageAccuracy int           `json:"averageAccuracy"`
	TotalTests      int           `json:"totalTests"`
	TotalTimeTyped  int           `json:"totalTimeTyped"`
	Achievements    []string      `json:"achievements"`
	UnlockedLevels  []int         `json:"unlockedLevels"`
	TestHistory     []TestResult  `json:"testHistory"`
	CreatedAt       time.Time     `json:"createdAt"`
	LastActive      time.Time     `json:"lastActive"`
	SoundSettings   SoundSettings `json:"soundSettings"`
}

// Clone returns a copy that shares no slices with p.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.Achievements = append([]string{}, p.Achievements...)
	out.UnlockedLevels = append([]int{}, p.UnlockedLevels...)
	out.TestHistory = append([]TestResult{}, p.TestHistory...)
	return out
}

// HasAchievement reports whether id was granted.
func (p UserProfile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// HasTier reports whether tier is unlocked.
func (p UserProfile) HasTier(tier int) bool {
	for _, t := range p.UnlockedLevels {
		if t == tier {
			return true
		}
	}
	return false
}

// TypingError records an expected character that was mistyped.
type TypingError struct {
	Char    string `json:"char"`
	Context string `json:"context,omitempty"`
}

// CharProblem aggregates errors for a single character.
type CharProblem struct {
	Char     string
	Count    int
	Contexts []string
}

// PairProblem aggregates errors around a two-character sequence.
type PairProblem struct {
	Pair  string
	Count int
}
