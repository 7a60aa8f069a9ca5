package ports

import (
	"context"

	"github.com/vncsmyrnk/elections/internal/core/domain"
)

type AllowlistRepository interface {
	// FindByCode matches the normalized voter code exactly. Returns nil, nil
	// when there is no such entry.
	FindByCode(ctx context.Context, normalizedCode string) (*domain.AllowlistEntry, error)
	// Sample returns at most limit entries, legacy fields included.
	Sample(ctx context.Context, limit int) ([]domain.AllowlistEntry, error)
	// Provision inserts entries whose voter code is not present yet and
	// reports how many were inserted.
	Provision(ctx context.Context, entries []domain.AllowlistEntry) (int, error)
}
