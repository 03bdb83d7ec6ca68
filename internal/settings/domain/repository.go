package settings

import "context"

// Repository persists the settings singleton.
type Repository interface {
	// Current returns the active settings snapshot.
	Current(ctx context.Context) (Settings, error)
	// Update replaces the prices and stamps UpdatedAt.
	Update(ctx context.Context, s Settings) (Settings, error)
}
