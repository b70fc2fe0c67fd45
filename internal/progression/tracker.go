package progression

import (
	"context"
	"sync"

	"github.com/verte-zerg/supertype/internal/model"
)

// Repository persists the profile snapshot.
type Repository interface {
	Load(ctx context.Context) model.UserProfile
	Save(ctx context.Context, p model.UserProfile) model.UserProfile
	Reset(ctx context.Context) model.UserProfile
}

// Tracker serializes load, apply and save for the single local profile.
type Tracker struct {
	mu     sync.Mutex
	repo   Repository
	engine *Engine
}

// NewTracker wires an engine to a repository.
func NewTracker(repo Repository, engine *Engine) *Tracker {
	return &Tracker{repo: repo, engine: engine}
}

// Engine returns the engine used by the tracker.
func (t *Tracker) Engine() *Engine {
	return t.engine
}

// Profile returns the current snapshot.
func (t *Tracker) Profile(ctx context.Context) model.UserProfile {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.repo.Load(ctx)
}

// Record applies outcome to the stored profile and persists the result.
// Nothing is saved when the outcome is rejected.
func (t *Tracker) Record(ctx context.Context, outcome model.Outcome) (Transition, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	before := t.repo.Load(ctx)
	after, err := t.engine.Apply(before, outcome)
	if err != nil {
		return Transition{Before: before, After: before}, err
	}
	after = t.repo.Save(ctx, after)
	return Diff(before, after), nil
}

// Update applies fn to a copy of the stored profile and persists it.
// fn may only touch user preferences; progression fields are restored.
func (t *Tracker) Update(ctx context.Context, fn func(p *model.UserProfile) error) (model.UserProfile, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	current := t.repo.Load(ctx)
	edited := current.Clone()
	if err := fn(&edited); err != nil {
		return current, err
	}
	next := current.Clone()
	next.Username = edited.Username
	next.Avatar = edited.Avatar
	next.SoundSettings = edited.SoundSettings
	return t.repo.Save(ctx, next), nil
}

// Reset discards all progression and stores a fresh profile.
func (t *Tracker) Reset(ctx context.Context) model.UserProfile {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.repo.Reset(ctx)
}
