package memory

import (
	"context"
	"sync"
	"time"

	settings "nhatro-cloud/internal/settings/domain"
)

// SettingsRepository holds the settings singleton in memory.
type SettingsRepository struct {
	mu      sync.RWMutex
	current settings.Settings
	set     bool
}

// NewSettingsRepository constructs a repository seeded with s.
func NewSettingsRepository(s settings.Settings) *SettingsRepository {
	return &SettingsRepository{current: s, set: true}
}

// NewEmptySettingsRepository constructs a repository with no settings yet.
func NewEmptySettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

// Current returns the active settings snapshot.
func (r *SettingsRepository) Current(ctx context.Context) (settings.Settings, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.set {
		return settings.Settings{}, settings.ErrSettingsNotFound
	}
	return r.current, nil
}

// Update replaces the prices and stamps UpdatedAt.
func (r *SettingsRepository) Update(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	_ = ctx
	if err := s.Validate(); err != nil {
		return settings.Settings{}, err
	}
	s.UpdatedAt = time.Now().UTC()
	r.mu.Lock()
	r.current = s
	r.set = true
	r.mu.Unlock()
	return s, nil
}
