package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"temporal-analytics-service/internal/forecast/core/domain"
	"temporal-analytics-service/internal/forecast/core/ports"
	"temporal-analytics-service/internal/logging"
	"temporal-analytics-service/internal/observability"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

var (
	ErrInvalidForecastQuery = errors.New("invalid forecast query")
	ErrInvalidTimeRange     = errors.New("invalid time range")
	ErrInvalidHorizon       = errors.New("invalid forecast horizon")
)

type GetForecastInput struct {
	EventName   string
	Channel     *string
	From        int64 // unix second, 0 = unbounded
	To          int64 // unix second, 0 = unbounded
	HorizonDays int   // 0 = configured default
}

type Options struct {
	Location           *time.Location
	DefaultHorizonDays int
	MaxHorizonDays     int
	CacheSize          int // 0 disables caching
	CacheTTL           time.Duration
}

type GetForecastUseCase struct {
	reader ports.ActivityReaderPort
	opts   Options
	cache  *lru.LRU[string, *domain.ForecastResult]
}

func NewGetForecastUseCase(reader ports.ActivityReaderPort, opts Options) *GetForecastUseCase {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MaxHorizonDays <= 0 {
		opts.MaxHorizonDays = 90
	}
	if opts.DefaultHorizonDays <= 0 || opts.DefaultHorizonDays > opts.MaxHorizonDays {
		opts.DefaultHorizonDays = min(7, opts.MaxHorizonDays)
	}

	uc := &GetForecastUseCase{reader: reader, opts: opts}
	if opts.CacheSize > 0 {
		uc.cache = lru.NewLRU[string, *domain.ForecastResult](opts.CacheSize, nil, opts.CacheTTL)
	}
	return uc
}

// Execute validates the query, loads the matching activities and runs the
// forecast engine over them.
func (uc *GetForecastUseCase) Execute(ctx context.Context, in GetForecastInput) (*domain.ForecastResult, error) {
	if in.EventName == "" {
		return nil, ErrInvalidForecastQuery
	}

	if in.From < 0 || in.To < 0 || (in.From > 0 && in.To > 0 && in.From > in.To) {
		return nil, ErrInvalidTimeRange
	}

	horizon := in.HorizonDays
	if horizon == 0 {
		horizon = uc.opts.DefaultHorizonDays
	}
	if horizon < 0 || horizon > uc.opts.MaxHorizonDays {
		return nil, ErrInvalidHorizon
	}

	key := cacheKey(in, horizon)
	if uc.cache != nil {
		if res, ok := uc.cache.Get(key); ok {
			observability.ForecastCacheHits.Inc()
			return res, nil
		}
		observability.ForecastCacheMisses.Inc()
	}

	filter := ports.ActivityFilter{
		EventName: in.EventName,
		Channel:   in.Channel,
	}
	if in.From > 0 {
		from := time.Unix(in.From, 0).UTC()
		filter.From = &from
	}
	if in.To > 0 {
		to := time.Unix(in.To, 0).UTC()
		filter.To = &to
	}

	activities, err := uc.reader.ListActivities(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	start := time.Now()
	res, err := Forecast(activities, horizon, uc.opts.Location)
	observability.ObserveComputation(observability.EngineForecast, start, err)
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Str("event_name", in.EventName).
		Int("activities", len(activities)).
		Int("horizon_days", horizon).
		Str("trend", string(res.Metrics.OverallTrend)).
		Dur("took", time.Since(start)).
		Msg("forecast computed")

	if uc.cache != nil {
		uc.cache.Add(key, res)
	}

	return res, nil
}

func cacheKey(in GetForecastInput, horizon int) string {
	channel := ""
	if in.Channel != nil {
		channel = *in.Channel
	}
	return fmt.Sprintf("%s|%s|%d|%d|%d", in.EventName, channel, in.From, in.To, horizon)
}
