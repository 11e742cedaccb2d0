package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"temporal-analytics-service/internal/forecast/core/domain"
	"temporal-analytics-service/internal/forecast/core/ports"
	"temporal-analytics-service/internal/forecast/core/usecase"
)

// fakeActivityReader fakes ActivityReaderPort for tests.
type fakeActivityReader struct {
	ListFn     func(ctx context.Context, f ports.ActivityFilter) ([]domain.ActivityRecord, error)
	lastFilter ports.ActivityFilter
	calls      int
}

func (f *fakeActivityReader) ListActivities(ctx context.Context, flt ports.ActivityFilter) ([]domain.ActivityRecord, error) {
	f.calls++
	f.lastFilter = flt
	if f.ListFn != nil {
		return f.ListFn(ctx, flt)
	}
	return nil, nil
}

func defaultOptions() usecase.Options {
	return usecase.Options{
		Location:           time.UTC,
		DefaultHorizonDays: 7,
		MaxHorizonDays:     30,
	}
}

// ------------------------------------------------------------
// SUCCESS
// ------------------------------------------------------------

func TestGetForecast_Success(t *testing.T) {
	reader := &fakeActivityReader{
		ListFn: func(ctx context.Context, flt ports.ActivityFilter) ([]domain.ActivityRecord, error) {
			if flt.EventName != "page_view" {
				t.Fatalf("expected event_name=page_view, got %s", flt.EventName)
			}
			if flt.From == nil || flt.From.Unix() != 100 {
				t.Fatalf("expected from=100, got %v", flt.From)
			}
			if flt.To == nil || flt.To.Unix() != 200000 {
				t.Fatalf("expected to=200000, got %v", flt.To)
			}
			if flt.Channel != nil {
				t.Fatalf("expected channel=nil, got %v", *flt.Channel)
			}
			return dailyActivities([]int{3, 4, 5}, 14), nil
		},
	}

	uc := usecase.NewGetForecastUseCase(reader, defaultOptions())

	out, err := uc.Execute(context.Background(), usecase.GetForecastInput{
		EventName: "page_view",
		From:      100,
		To:        200000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Forecast) != 7 {
		t.Fatalf("expected default horizon of 7 points, got %d", len(out.Forecast))
	}
	if out.Metrics.OverallTrend != domain.TrendIncreasing {
		t.Fatalf("expected increasing trend, got %s", out.Metrics.OverallTrend)
	}
	if len(out.Insights) == 0 {
		t.Fatalf("expected insights")
	}
}

// ------------------------------------------------------------
// CHANNEL FILTER + EXPLICIT HORIZON
// ------------------------------------------------------------

func TestGetForecast_ChannelAndHorizon(t *testing.T) {
	reader := &fakeActivityReader{
		ListFn: func(ctx context.Context, flt ports.ActivityFilter) ([]domain.ActivityRecord, error) {
			if flt.Channel == nil || *flt.Channel != "mobile" {
				t.Fatalf("expected channel=mobile, got %v", flt.Channel)
			}
			if flt.From != nil || flt.To != nil {
				t.Fatalf("expected unbounded range")
			}
			return dailyActivities([]int{1, 1}, 9), nil
		},
	}

	uc := usecase.NewGetForecastUseCase(reader, defaultOptions())
	ch := "mobile"

	out, err := uc.Execute(context.Background(), usecase.GetForecastInput{
		EventName:   "page_view",
		Channel:     &ch,
		HorizonDays: 30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Forecast) != 30 {
		t.Fatalf("expected 30 points, got %d", len(out.Forecast))
	}
}

// ------------------------------------------------------------
// VALIDATION ERRORS
// ------------------------------------------------------------

func TestGetForecast_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		in   usecase.GetForecastInput
		want error
	}{
		{"missing event name", usecase.GetForecastInput{}, usecase.ErrInvalidForecastQuery},
		{"from after to", usecase.GetForecastInput{EventName: "x", From: 300, To: 200}, usecase.ErrInvalidTimeRange},
		{"negative from", usecase.GetForecastInput{EventName: "x", From: -1}, usecase.ErrInvalidTimeRange},
		{"horizon above max", usecase.GetForecastInput{EventName: "x", HorizonDays: 31}, usecase.ErrInvalidHorizon},
		{"negative horizon", usecase.GetForecastInput{EventName: "x", HorizonDays: -2}, usecase.ErrInvalidHorizon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &fakeActivityReader{}
			uc := usecase.NewGetForecastUseCase(reader, defaultOptions())

			out, err := uc.Execute(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if out != nil {
				t.Fatalf("expected nil result on error")
			}
			if reader.calls != 0 {
				t.Fatalf("expected reader not to be called")
			}
		})
	}
}

// ------------------------------------------------------------
// READER ERROR
// ------------------------------------------------------------

func TestGetForecast_ReaderError(t *testing.T) {
	dbErr := errors.New("db down")
	reader := &fakeActivityReader{
		ListFn: func(ctx context.Context, flt ports.ActivityFilter) ([]domain.ActivityRecord, error) {
			return nil, dbErr
		},
	}

	uc := usecase.NewGetForecastUseCase(reader, defaultOptions())

	_, err := uc.Execute(context.Background(), usecase.GetForecastInput{EventName: "x"})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

// ------------------------------------------------------------
// CACHE
// ------------------------------------------------------------

func TestGetForecast_CachesResults(t *testing.T) {
	reader := &fakeActivityReader{
		ListFn: func(ctx context.Context, flt ports.ActivityFilter) ([]domain.ActivityRecord, error) {
			return dailyActivities([]int{2, 2, 2}, 10), nil
		},
	}

	opts := defaultOptions()
	opts.CacheSize = 8
	opts.CacheTTL = time.Minute
	uc := usecase.NewGetForecastUseCase(reader, opts)

	in := usecase.GetForecastInput{EventName: "x", HorizonDays: 3}
	first, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reader.calls != 1 {
		t.Fatalf("expected one reader call, got %d", reader.calls)
	}
	if first != second {
		t.Fatalf("expected cached result to be returned")
	}

	in.HorizonDays = 4
	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reader.calls != 2 {
		t.Fatalf("expected a different horizon to miss the cache, got %d calls", reader.calls)
	}
}
