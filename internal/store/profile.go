package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/verte-zerg/supertype/internal/model"
)

// ProfileKey is the key the profile document is stored under.
const ProfileKey = "supertype_user_profile"

// profileVersion is the current envelope version. Bare documents are version 0.
const profileVersion = 1

type profileEnvelope struct {
	Version int             `json:"version"`
	Profile json.RawMessage `json:"profile"`
}

// ProfileDefaults supplies the fresh profile and the load-time repair step.
type ProfileDefaults interface {
	NewProfile() model.UserProfile
	Normalize(p model.UserProfile) model.UserProfile
}

// ProfileRepository persists the single local profile. Failures are logged
// and never surfaced to callers.
type ProfileRepository struct {
	store    *Store
	defaults ProfileDefaults
	logger   *slog.Logger
	now      func() time.Time
}

// NewProfileRepository builds a repository on s.
func NewProfileRepository(s *Store, defaults ProfileDefaults, logger *slog.Logger) *ProfileRepository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProfileRepository{store: s, defaults: defaults, logger: logger, now: time.Now}
}

// Load returns the stored profile, or a fresh one when it is missing or unreadable.
func (r *ProfileRepository) Load(ctx context.Context) model.UserProfile {
	raw, err := r.store.Get(ctx, ProfileKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Error("failed to read profile", slog.String("error", err.Error()))
			return r.defaults.NewProfile()
		}
		r.logger.Info("no stored profile, creating default")
		return r.Save(ctx, r.defaults.NewProfile())
	}
	p, err := r.decode(raw)
	if err != nil {
		r.logger.Warn("stored profile is unreadable, using default", slog.String("error", err.Error()))
		return r.defaults.NewProfile()
	}
	return p
}

// Save stamps lastActive and writes p. The stamped profile is returned even if the write fails.
func (r *ProfileRepository) Save(ctx context.Context, p model.UserProfile) model.UserProfile {
	out := p.Clone()
	out.LastActive = r.now()
	doc, err := encodeProfile(out)
	if err != nil {
		r.logger.Error("failed to encode profile", slog.String("error", err.Error()))
		return out
	}
	if err := r.store.Put(ctx, ProfileKey, doc); err != nil {
		r.logger.Error("failed to save profile", slog.String("error", err.Error()))
	}
	return out
}

// Reset replaces the stored profile with a fresh one.
func (r *ProfileRepository) Reset(ctx context.Context) model.UserProfile {
	if err := r.store.Delete(ctx, ProfileKey); err != nil {
		r.logger.Error("failed to delete profile", slog.String("error", err.Error()))
	}
	return r.Save(ctx, r.defaults.NewProfile())
}

// Raw returns the stored document as written.
func (r *ProfileRepository) Raw(ctx context.Context) (string, error) {
	return r.store.Get(ctx, ProfileKey)
}

// decode merges the stored document over a default profile and repairs derived fields.
func (r *ProfileRepository) decode(raw string) (model.UserProfile, error) {
	var env profileEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return model.UserProfile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	body := env.Profile
	if env.Version == 0 || len(body) == 0 {
		body = json.RawMessage(raw)
	}
	if env.Version > profileVersion {
		r.logger.Warn("profile written by a newer version", slog.Int("version", env.Version))
	}

	p := r.defaults.NewProfile()
	if err := json.Unmarshal(body, &p); err != nil {
		return model.UserProfile{}, fmt.Errorf("failed to decode profile body: %w", err)
	}
	if p.ID == "" {
		p.ID = r.defaults.NewProfile().ID
	}
	return r.defaults.Normalize(p), nil
}

func encodeProfile(p model.UserProfile) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	doc, err := json.Marshal(profileEnvelope{Version: profileVersion, Profile: body})
	if err != nil {
		return "", err
	}
	return string(doc), nil
}
