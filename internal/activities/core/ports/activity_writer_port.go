package ports

import (
	"context"

	"temporal-analytics-service/internal/activities/core/domain"
)

type ActivityWriterPort interface {
	// InsertActivity:
	//   created = true,  err = nil  -> new record
	//   created = false, err = nil  -> duplicate (idempotent)
	//   created = false, err != nil -> DB error
	InsertActivity(ctx context.Context, a *domain.Activity) (created bool, err error)
}
