package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	settings "nhatro-cloud/internal/settings/domain"
)

// SettingsRepository persists the settings singleton as a single row.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository constructs a repository.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Current returns the active settings snapshot.
func (r *SettingsRepository) Current(ctx context.Context) (settings.Settings, error) {
	if r == nil || r.db == nil {
		return settings.Settings{}, errors.New("settings repo: nil db")
	}
	var s settings.Settings
	err := r.db.QueryRowContext(ctx, `
SELECT electricity_unit_price, water_unit_price, garbage_charge, is_deleted, updated_at
FROM settings
WHERE id = 1`).Scan(&s.ElectricityUnitPrice, &s.WaterUnitPrice, &s.GarbageCharge, &s.IsDeleted, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Settings{}, settings.ErrSettingsNotFound
	}
	if err != nil {
		return settings.Settings{}, err
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

// Update replaces the prices, creating the row on first use.
func (r *SettingsRepository) Update(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	if r == nil || r.db == nil {
		return settings.Settings{}, errors.New("settings repo: nil db")
	}
	if err := s.Validate(); err != nil {
		return settings.Settings{}, err
	}
	s.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO settings (id, electricity_unit_price, water_unit_price, garbage_charge, is_deleted, updated_at)
VALUES (1, $1, $2, $3, FALSE, $4)
ON CONFLICT (id) DO UPDATE
SET electricity_unit_price = $1, water_unit_price = $2, garbage_charge = $3, updated_at = $4`,
		s.ElectricityUnitPrice, s.WaterUnitPrice, s.GarbageCharge, s.UpdatedAt)
	if err != nil {
		return settings.Settings{}, err
	}
	return s, nil
}
