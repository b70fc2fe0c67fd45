// Package catalog defines the static challenge tier table.
package catalog

import (
	"fmt"
	"time"
)

// Tier is a challenge preset with a fixed duration and base XP reward.
type Tier struct {
	ID          int
	Title       string
	Subtitle    string
	Difficulty  string
	Description string
	Duration    time.Duration
	BaseXP      int
	Passages    []string
}

// Label returns the user-facing name of the tier.
func (t Tier) Label() string {
	return fmt.Sprintf("Level %d: %s", t.ID, t.Subtitle)
}

// Catalog is an ordered list of tiers.
type Catalog struct {
	tiers []Tier
}

// New builds a catalog from tiers in display order.
func New(tiers []Tier) Catalog {
	return Catalog{tiers: append([]Tier(nil), tiers...)}
}

// Default returns the built-in six-tier catalog.
func Default() Catalog {
	return New(defaultTiers)
}

// Tiers returns all tiers in order.
func (c Catalog) Tiers() []Tier {
	return append([]Tier(nil), c.tiers...)
}

// Len returns the number of tiers.
func (c Catalog) Len() int {
	return len(c.tiers)
}

// Lookup finds a tier by id.
func (c Catalog) Lookup(id int) (Tier, bool) {
	for _, t := range c.tiers {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}

// Resolve returns the tier for id, falling back to the first tier.
func (c Catalog) Resolve(id int) Tier {
	if t, ok := c.Lookup(id); ok {
		return t
	}
	if len(c.tiers) > 0 {
		return c.tiers[0]
	}
	return Tier{ID: 1, Title: "Level 1", Duration: 30 * time.Second, BaseXP: 50}
}

// BaseXP returns the base reward of tier id.
func (c Catalog) BaseXP(id int) int {
	return c.Resolve(id).BaseXP
}

// Duration returns the time limit of tier id.
func (c Catalog) Duration(id int) time.Duration {
	return c.Resolve(id).Duration
}

// WithPassages returns a copy of c with extra passages appended to every tier.
func (c Catalog) WithPassages(extra []string) Catalog {
	if len(extra) == 0 {
		return c
	}
	out := make([]Tier, len(c.tiers))
	for i, t := range c.tiers {
		t.Passages = append(append([]string(nil), t.Passages...), extra...)
		out[i] = t
	}
	return Catalog{tiers: out}
}

var defaultTiers = []Tier{
	{
		ID:          1,
		Title:       "Level 1",
		Subtitle:    "Basic Speed Test",
		Difficulty:  "Beginner",
		Description: "Simple words",
		Duration:    30 * time.Second,
		BaseXP:      50,
		Passages: []string{
			"The quick brown fox jumps over the lazy dog. This pangram contains all the letters of the English alphabet.",
			"Practice makes perfect when it comes to typing speed and accuracy.",
			"Consistent daily practice will help you become a faster and more accurate typist.",
		},
	},
	{
		ID:          2,
		Title:       "Level 2",
		Subtitle:    "Common Phrases",
		Difficulty:  "Beginner",
		Description: "Common phrases",
		Duration:    45 * time.Second,
		BaseXP:      100,
		Passages: []string{
			"The early bird catches the worm, but the second mouse gets the cheese.",
			"A journey of a thousand miles begins with a single step forward.",
			"Success is not final, failure is not fatal: it is the courage to continue that counts.",
		},
	},
	{
		ID:          3,
		Title:       "Level 3",
		Subtitle:    "Punctuation Challenge",
		Difficulty:  "Intermediate",
		Description: "Includes punctuation",
		Duration:    60 * time.Second,
		BaseXP:      150,
		Passages: []string{
			"Hello, world! This is a test of punctuation, numbers (123), and symbols (@#$%).",
			"Can you type this correctly? It includes: commas, periods, and question marks!",
			"Programming requires precision: semicolons; brackets []; and parentheses ().",
		},
	},
	{
		ID:          4,
		Title:       "Level 4",
		Subtitle:    "Numbers & Symbols",
		Difficulty:  "Intermediate",
		Description: "Numbers and symbols",
		Duration:    60 * time.Second,
		BaseXP:      200,
		Passages: []string{
			"Variables: let x = 42; const PI = 3.14159; var name = 'TypeScript';",
			"Functions: function add(a: number, b: number): number { return a + b; }",
			"Arrays: const numbers = [1, 2, 3, 4, 5]; const sum = numbers.reduce((a, b) => a + b);",
		},
	},
	{
		ID:          5,
		Title:       "Level 5",
		Subtitle:    "Code Snippets",
		Difficulty:  "Advanced",
		Description: "Programming code",
		Duration:    90 * time.Second,
		BaseXP:      300,
		Passages: []string{
			"import React from 'react'; const Component = () => { return <div>Hello</div>; };",
			"SELECT * FROM users WHERE age > 18 AND status = 'active' ORDER BY created_at DESC;",
			"git commit -m 'feat: add new typing challenge levels with code snippets'",
		},
	},
	{
		ID:          6,
		Title:       "Level 6",
		Subtitle:    "Speed Demon",
		Difficulty:  "Expert",
		Description: "Ultimate challenge",
		Duration:    120 * time.Second,
		BaseXP:      500,
		Passages: []string{
			"The ultimate typing challenge: combining speed, accuracy, and complex text patterns!",
			"Advanced programmers must master: async/await, destructuring, and type annotations.",
			"Performance optimization requires understanding: algorithms, data structures, and complexity analysis.",
		},
	},
}
