package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"temporal-analytics-service/internal/replay/core/domain"
	"temporal-analytics-service/internal/replay/core/ports"

	"github.com/goccy/go-json"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

// ReplayViewRepository keeps each view as a jsonb payload keyed by its ID.
// The indexed columns mirror payload fields for lookups.
type ReplayViewRepository struct {
	db DB
}

func NewReplayViewRepository(db DB) *ReplayViewRepository {
	return &ReplayViewRepository{db: db}
}

var _ ports.ReplayViewRepositoryPort = (*ReplayViewRepository)(nil)

const upsertViewSQL = `
INSERT INTO replay_views (
	id,
	session_id,
	viewer_id,
	started_at,
	ended_at,
	payload
) VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
	ended_at = EXCLUDED.ended_at,
	payload = EXCLUDED.payload,
	updated_at = now()`

func (r *ReplayViewRepository) SaveView(ctx context.Context, v domain.ReplayView) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode view: %w", err)
	}

	var endedAt any
	if v.EndedAt != nil {
		endedAt = v.EndedAt.UTC()
	}

	_, err = r.db.ExecContext(ctx, upsertViewSQL,
		v.ID,
		v.SessionID,
		v.ViewerID,
		v.StartedAt.UTC(),
		endedAt,
		payload,
	)
	return err
}

func (r *ReplayViewRepository) GetView(ctx context.Context, id string) (domain.ReplayView, error) {
	views, err := r.query(ctx, `SELECT payload FROM replay_views WHERE id = $1`, id)
	if err != nil {
		return domain.ReplayView{}, err
	}
	if len(views) == 0 {
		return domain.ReplayView{}, ports.ErrViewNotFound
	}
	return views[0], nil
}

func (r *ReplayViewRepository) ListViewsBySession(ctx context.Context, sessionID string) ([]domain.ReplayView, error) {
	return r.query(ctx, `
SELECT payload
FROM replay_views
WHERE session_id = $1
ORDER BY started_at, id`, sessionID)
}

func (r *ReplayViewRepository) query(ctx context.Context, query string, args ...any) ([]domain.ReplayView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []domain.ReplayView{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}

		var v domain.ReplayView
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, fmt.Errorf("decode view: %w", err)
		}
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return views, nil
}
