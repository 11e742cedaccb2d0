package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"temporal-analytics-service/internal/activities/core/domain"
	"temporal-analytics-service/internal/activities/core/ports"
	"temporal-analytics-service/internal/logging"
	"temporal-analytics-service/internal/observability"
)

var (
	ErrInvalidActivity = errors.New("invalid activity")
	ErrFutureTime      = errors.New("timestamp cannot be in the future")
)

type RecordActivityUseCase struct {
	repo ports.ActivityWriterPort
	now  func() time.Time
}

func NewRecordActivityUseCase(repo ports.ActivityWriterPort) *RecordActivityUseCase {
	return &RecordActivityUseCase{repo: repo, now: time.Now}
}

type RecordActivityInput struct {
	Name       string
	Channel    string
	CampaignID string
	UserID     string
	Timestamp  int64 // unix second
	Tags       []string
	Metadata   map[string]any
}

func (uc *RecordActivityUseCase) Execute(ctx context.Context, in RecordActivityInput) (bool, error) {
	if err := uc.validateInput(in); err != nil {
		return false, err
	}

	occurredAt := time.Unix(in.Timestamp, 0).UTC()

	if in.Tags == nil {
		in.Tags = []string{}
	}
	if in.Metadata == nil {
		in.Metadata = map[string]any{}
	}

	a := &domain.Activity{
		Name:       in.Name,
		Channel:    in.Channel,
		CampaignID: in.CampaignID,
		UserID:     in.UserID,
		OccurredAt: occurredAt,
		Tags:       in.Tags,
		Metadata:   in.Metadata,
		DedupeKey:  dedupeKey(in, occurredAt),
	}

	created, err := uc.repo.InsertActivity(ctx, a)
	if err != nil {
		return false, fmt.Errorf("insert activity: %w", err)
	}

	if created {
		observability.ActivitiesIngested.WithLabelValues("created").Inc()
	} else {
		observability.ActivitiesIngested.WithLabelValues("duplicate").Inc()
		logging.Debug().Str("dedupe_key", a.DedupeKey).Msg("duplicate activity ignored")
	}

	return created, nil
}

// dedupeKey: name + user + channel + campaign + unix second
func dedupeKey(in RecordActivityInput, t time.Time) string {
	return fmt.Sprintf("%s|%s|%s|%s|%d",
		in.Name,
		in.UserID,
		in.Channel,
		in.CampaignID,
		t.Unix(),
	)
}

type RecordActivitiesInput struct {
	Activities []RecordActivityInput
}

type RecordActivitiesResult struct {
	Created    int
	Duplicates int
}

// ExecuteBulk validates every activity before writing any of them.
func (uc *RecordActivityUseCase) ExecuteBulk(ctx context.Context, in RecordActivitiesInput) (RecordActivitiesResult, error) {
	var res RecordActivitiesResult

	for i, a := range in.Activities {
		if err := uc.validateInput(a); err != nil {
			return res, fmt.Errorf("activity %d: %w", i, err)
		}
	}

	for _, a := range in.Activities {
		created, err := uc.Execute(ctx, a)
		if err != nil {
			return res, err
		}

		if created {
			res.Created++
		} else {
			res.Duplicates++
		}
	}

	return res, nil
}

func (uc *RecordActivityUseCase) validateInput(in RecordActivityInput) error {
	if in.Name == "" || in.Channel == "" || in.UserID == "" {
		return ErrInvalidActivity
	}
	if in.Timestamp <= 0 {
		return ErrInvalidActivity
	}
	if in.Timestamp > uc.now().Unix() {
		return ErrFutureTime
	}
	return nil
}
