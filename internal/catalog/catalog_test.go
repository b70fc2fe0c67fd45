package catalog

import (
	"testing"
	"time"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() != 6 {
		t.Fatalf("expected 6 tiers, got %d", c.Len())
	}
	wantXP := []int{50, 100, 150, 200, 300, 500}
	wantDur := []int{30, 45, 60, 60, 90, 120}
	for i, tier := range c.Tiers() {
		if tier.ID != i+1 {
			t.Fatalf("expected tier id %d, got %d", i+1, tier.ID)
		}
		if tier.BaseXP != wantXP[i] {
			t.Fatalf("tier %d: expected base xp %d, got %d", tier.ID, wantXP[i], tier.BaseXP)
		}
		if tier.Duration != time.Duration(wantDur[i])*time.Second {
			t.Fatalf("tier %d: unexpected duration %s", tier.ID, tier.Duration)
		}
		if len(tier.Passages) == 0 {
			t.Fatalf("tier %d has no passages", tier.ID)
		}
	}
}

func TestUnknownTierFallsBack(t *testing.T) {
	c := Default()
	if got := c.BaseXP(42); got != 50 {
		t.Fatalf("expected fallback base xp 50, got %d", got)
	}
	if got := c.Duration(0); got != 30*time.Second {
		t.Fatalf("expected fallback duration 30s, got %s", got)
	}
	if got := New(nil).BaseXP(3); got != 50 {
		t.Fatalf("expected empty catalog fallback 50, got %d", got)
	}
}

func TestWithPassages(t *testing.T) {
	base := Default()
	c := base.WithPassages([]string{"custom passage"})
	tier, _ := c.Lookup(2)
	if tier.Passages[len(tier.Passages)-1] != "custom passage" {
		t.Fatalf("expected custom passage appended, got %v", tier.Passages)
	}
	orig, _ := base.Lookup(2)
	if len(orig.Passages) != 3 {
		t.Fatalf("expected base catalog untouched, got %d passages", len(orig.Passages))
	}
}

func TestLabel(t *testing.T) {
	tier, _ := Default().Lookup(4)
	if tier.Label() != "Level 4: Numbers & Symbols" {
		t.Fatalf("unexpected label %q", tier.Label())
	}
}
