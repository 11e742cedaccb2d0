package postgres

import (
	"context"
	"fmt"
	"time"

	"temporal-analytics-service/internal/forecast/core/domain"
	"temporal-analytics-service/internal/forecast/core/ports"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

type ActivityRepository struct {
	db DB
}

func NewActivityRepository(db DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

var _ ports.ActivityReaderPort = (*ActivityRepository)(nil)

func (r *ActivityRepository) ListActivities(ctx context.Context, f ports.ActivityFilter) ([]domain.ActivityRecord, error) {
	where := "event_name = $1"
	args := []any{f.EventName}
	argIndex := 2

	if f.Channel != nil {
		where += fmt.Sprintf(" AND channel = $%d", argIndex)
		args = append(args, *f.Channel)
		argIndex++
	}
	if f.From != nil {
		where += fmt.Sprintf(" AND event_time >= $%d", argIndex)
		args = append(args, f.From.UTC())
		argIndex++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND event_time <= $%d", argIndex)
		args = append(args, f.To.UTC())
	}

	query := `
SELECT event_time
FROM events
WHERE ` + where + `
ORDER BY event_time`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []domain.ActivityRecord{}
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		activities = append(activities, domain.ActivityRecord{Timestamp: ts.UTC()})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}
