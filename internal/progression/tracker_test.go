package progression

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/supertype/internal/model"
)

type memoryRepo struct {
	engine  *Engine
	profile model.UserProfile
	saves   int
}

func (r *memoryRepo) Load(context.Context) model.UserProfile {
	return r.profile.Clone()
}

func (r *memoryRepo) Save(_ context.Context, p model.UserProfile) model.UserProfile {
	r.saves++
	r.profile = p.Clone()
	return p
}

func (r *memoryRepo) Reset(context.Context) model.UserProfile {
	r.profile = r.engine.NewProfile()
	return r.profile.Clone()
}

func newTestTracker() (*Tracker, *memoryRepo) {
	e := newTestEngine()
	repo := &memoryRepo{engine: e, profile: e.NewProfile()}
	return NewTracker(repo, e), repo
}

func TestTrackerRecordPersists(t *testing.T) {
	tr, repo := newTestTracker()
	ctx := context.Background()

	transition, err := tr.Record(ctx, outcome(60, 97, 500))
	require.NoError(t, err)
	assert.True(t, transition.LeveledUp())
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, transition.After.Level, tr.Profile(ctx).Level)
	assert.Equal(t, 500, tr.Profile(ctx).TotalXP)
}

func TestTrackerRecordRejectedLeavesProfile(t *testing.T) {
	tr, repo := newTestTracker()
	ctx := context.Background()
	before := tr.Profile(ctx)

	_, err := tr.Record(ctx, model.Outcome{Level: 1, Accuracy: 200})
	require.ErrorIs(t, err, ErrInvalidOutcome)
	assert.Equal(t, 0, repo.saves)
	assert.Equal(t, before, tr.Profile(ctx))
}

func TestTrackerSerializesRecords(t *testing.T) {
	tr, _ := newTestTracker()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tr.Record(ctx, outcome(30, 90, 10))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p := tr.Profile(ctx)
	assert.Equal(t, 20, p.TotalTests)
	assert.Equal(t, 200, p.TotalXP)
	assert.Len(t, p.TestHistory, 20)
}

func TestTrackerUpdateOnlyTouchesPreferences(t *testing.T) {
	tr, _ := newTestTracker()
	ctx := context.Background()

	p, err := tr.Update(ctx, func(p *model.UserProfile) error {
		p.Username = "Whiskers"
		p.SoundSettings.Enabled = false
		p.TotalXP = 99999
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Whiskers", p.Username)
	assert.False(t, p.SoundSettings.Enabled)
	assert.Equal(t, 0, p.TotalXP)

	_, err = tr.Update(ctx, func(*model.UserProfile) error { return errors.New("boom") })
	require.Error(t, err)
	assert.Equal(t, "Whiskers", tr.Profile(ctx).Username)
}

func TestTrackerReset(t *testing.T) {
	tr, _ := newTestTracker()
	ctx := context.Background()
	_, err := tr.Record(ctx, outcome(90, 100, 5000))
	require.NoError(t, err)
	oldID := tr.Profile(ctx).ID

	p := tr.Reset(ctx)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 0, p.TotalXP)
	assert.Equal(t, []int{1}, p.UnlockedLevels)
	assert.Empty(t, p.Achievements)
	assert.NotEqual(t, oldID, p.ID)
}
