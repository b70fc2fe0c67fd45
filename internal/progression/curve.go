// Package progression turns scored typing tests into profile progression.
package progression

// Curve defines the cumulative XP needed to reach a level:
// Base*level + Growth*(level-1)^2.
type Curve struct {
	Base   int
	Growth int
}

// DefaultCurve is the canonical XP curve.
var DefaultCurve = Curve{Base: 150, Growth: 25}

// Cumulative returns the total XP needed to have reached level.
func (c Curve) Cumulative(level int) int {
	if level < 1 {
		level = 1
	}
	return c.Base*level + c.Growth*(level-1)*(level-1)
}

// Cost returns the XP needed to go from level to level+1.
func (c Curve) Cost(level int) int {
	if level < 1 {
		level = 1
	}
	return c.Cumulative(level+1) - c.Cumulative(level)
}

// Valid reports whether the curve yields positive, strictly increasing costs.
func (c Curve) Valid() bool {
	return c.Base > 0 && c.Growth > 0
}
