package postgres

import (
	"context"

	"temporal-analytics-service/internal/activities/core/domain"
	"temporal-analytics-service/internal/activities/core/ports"

	"github.com/goccy/go-json"
	"github.com/lib/pq"
)

type ActivityRepository struct {
	db DB
}

func NewActivityRepository(db DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

var _ ports.ActivityWriterPort = (*ActivityRepository)(nil)

// Activities share the events table with the forecast reader.
const insertActivitySQL = `
INSERT INTO events (
    event_name,
    channel,
    campaign_id,
    user_id,
    event_time,
    tags,
    metadata,
    dedupe_key
) VALUES (
    $1, $2, $3, $4,
    $5, $6, $7, $8
)
ON CONFLICT (dedupe_key) DO NOTHING;
`

func (r *ActivityRepository) InsertActivity(ctx context.Context, a *domain.Activity) (bool, error) {
	var campaignID any
	if a.CampaignID != "" {
		campaignID = a.CampaignID
	}

	metadataJSON, err := json.Marshal(a.Metadata)
	if err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, insertActivitySQL,
		a.Name,
		a.Channel,
		campaignID,
		a.UserID,
		a.OccurredAt,
		pq.Array(a.Tags),
		metadataJSON,
		a.DedupeKey,
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// 0 rows -> ON CONFLICT DO NOTHING, i.e. a duplicate
	return rows > 0, nil
}
