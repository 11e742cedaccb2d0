package ports

import (
	"context"
	"time"

	"temporal-analytics-service/internal/forecast/core/domain"
)

type ActivityFilter struct {
	EventName string
	Channel   *string    // optional
	From      *time.Time // optional, inclusive
	To        *time.Time // optional, inclusive
}

type ActivityReaderPort interface {
	// ListActivities returns matching activities ordered by timestamp.
	ListActivities(ctx context.Context, f ActivityFilter) ([]domain.ActivityRecord, error)
}
