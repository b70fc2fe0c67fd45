package progression

import "sort"

// UnlockRule gates a challenge tier behind a minimum profile level.
type UnlockRule struct {
	Tier     int
	MinLevel int
}

// DefaultUnlocks is the canonical tier unlock table.
var DefaultUnlocks = []UnlockRule{
	{Tier: 1, MinLevel: 1},
	{Tier: 2, MinLevel: 2},
	{Tier: 3, MinLevel: 4},
	{Tier: 4, MinLevel: 7},
	{Tier: 5, MinLevel: 10},
	{Tier: 6, MinLevel: 15},
}

// UnlocksFromLevels builds a rule table where minLevels[i] gates tier i+1.
func UnlocksFromLevels(minLevels []int) []UnlockRule {
	rules := make([]UnlockRule, 0, len(minLevels))
	for i, lvl := range minLevels {
		rules = append(rules, UnlockRule{Tier: i + 1, MinLevel: lvl})
	}
	return rules
}

// UnlockedTiers returns the sorted tiers available at level. Tier 1 is always included.
func UnlockedTiers(rules []UnlockRule, level int) []int {
	set := map[int]struct{}{1: {}}
	for _, r := range rules {
		if level >= r.MinLevel {
			set[r.Tier] = struct{}{}
		}
	}
	return sortedTiers(set)
}

// UnlockLevel returns the profile level that unlocks tier, or false if no rule covers it.
func UnlockLevel(rules []UnlockRule, tier int) (int, bool) {
	if tier == 1 {
		return 1, true
	}
	found := false
	best := 0
	for _, r := range rules {
		if r.Tier != tier {
			continue
		}
		if !found || r.MinLevel < best {
			best = r.MinLevel
			found = true
		}
	}
	return best, found
}

// MergeTiers returns the sorted union of prior and next.
func MergeTiers(prior, next []int) []int {
	set := make(map[int]struct{}, len(prior)+len(next))
	for _, t := range prior {
		set[t] = struct{}{}
	}
	for _, t := range next {
		set[t] = struct{}{}
	}
	return sortedTiers(set)
}

func sortedTiers(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}
