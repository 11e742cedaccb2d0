package ports

import (
	"context"
	"errors"

	"temporal-analytics-service/internal/replay/core/domain"
)

var ErrViewNotFound = errors.New("replay view not found")

type ReplayViewRepositoryPort interface {
	// SaveView inserts or replaces the view with the same ID.
	SaveView(ctx context.Context, v domain.ReplayView) error
	// GetView returns ErrViewNotFound when no view has the given ID.
	GetView(ctx context.Context, id string) (domain.ReplayView, error)
	ListViewsBySession(ctx context.Context, sessionID string) ([]domain.ReplayView, error)
}
