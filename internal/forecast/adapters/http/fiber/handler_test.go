package fiber

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"temporal-analytics-service/internal/forecast/core/domain"
	"temporal-analytics-service/internal/forecast/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type fakeGetForecastUseCase struct {
	ExecuteFunc func(ctx context.Context, in usecase.GetForecastInput) (*domain.ForecastResult, error)
	LastInput   usecase.GetForecastInput
	called      bool
}

func (f *fakeGetForecastUseCase) Execute(ctx context.Context, in usecase.GetForecastInput) (*domain.ForecastResult, error) {
	f.called = true
	f.LastInput = in
	if f.ExecuteFunc != nil {
		return f.ExecuteFunc(ctx, in)
	}
	return &domain.ForecastResult{}, nil
}

func setupTestApp(uc GetForecastUseCase) *fiber.App {
	app := fiber.New()
	h := NewForecastHandler(uc)
	app.Get("/forecast", h.GetForecast)
	return app
}

func doGet(t *testing.T, app *fiber.App, path string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	return resp, body
}

func sampleResult() *domain.ForecastResult {
	hourly := make([]domain.HourlyPattern, 24)
	for i := range hourly {
		hourly[i] = domain.HourlyPattern{Hour: i}
	}
	weekday := make([]domain.WeekdayPattern, 7)
	for i := range weekday {
		weekday[i] = domain.WeekdayPattern{Day: i}
	}
	return &domain.ForecastResult{
		Forecast: []domain.ForecastPoint{
			{
				Date:           time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC),
				Predicted:      12,
				ConfidenceLow:  9,
				ConfidenceHigh: 15,
				Trend:          domain.TrendIncreasing,
			},
		},
		Metrics: domain.ForecastMetrics{
			PeakHour:        "3 PM",
			PeakDay:         "Monday",
			OverallTrend:    domain.TrendIncreasing,
			TrendPercentage: 4.2,
			Confidence:      81,
			HourlyPatterns:  hourly,
			WeekdayPatterns: weekday,
		},
		Insights: []string{"Activity is trending up by 4.2% per day."},
	}
}

func TestGetForecast_Success(t *testing.T) {
	fakeUC := &fakeGetForecastUseCase{
		ExecuteFunc: func(ctx context.Context, in usecase.GetForecastInput) (*domain.ForecastResult, error) {
			return sampleResult(), nil
		},
	}
	app := setupTestApp(fakeUC)

	resp, body := doGet(t, app, "/forecast?event_name=page_view&channel=web&from=100&to=200&horizon_days=3")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body: %s)", resp.StatusCode, string(body))
	}

	in := fakeUC.LastInput
	if in.EventName != "page_view" || in.From != 100 || in.To != 200 || in.HorizonDays != 3 {
		t.Fatalf("unexpected usecase input: %+v", in)
	}
	if in.Channel == nil || *in.Channel != "web" {
		t.Fatalf("expected channel=web, got %v", in.Channel)
	}

	var out ForecastResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if len(out.Forecast) != 1 || out.Forecast[0].Date != "2025-12-08" || out.Forecast[0].Trend != "increasing" {
		t.Fatalf("unexpected forecast: %+v", out.Forecast)
	}
	if len(out.Metrics.HourlyPatterns) != 24 || len(out.Metrics.WeekdayPatterns) != 7 {
		t.Fatalf("unexpected pattern lengths: %d/%d", len(out.Metrics.HourlyPatterns), len(out.Metrics.WeekdayPatterns))
	}
	if out.Metrics.PeakDay != "Monday" || out.Metrics.PeakHour != "3 PM" {
		t.Fatalf("unexpected peaks: %+v", out.Metrics)
	}
}

func TestGetForecast_MissingEventName(t *testing.T) {
	fakeUC := &fakeGetForecastUseCase{}
	app := setupTestApp(fakeUC)

	resp, body := doGet(t, app, "/forecast?horizon_days=3")

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d (body: %s)", resp.StatusCode, string(body))
	}
	if fakeUC.called {
		t.Fatalf("expected usecase not to be called")
	}
}

func TestGetForecast_InvalidNumber(t *testing.T) {
	app := setupTestApp(&fakeGetForecastUseCase{})

	resp, body := doGet(t, app, "/forecast?event_name=x&from=abc")

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d (body: %s)", resp.StatusCode, string(body))
	}
}

func TestGetForecast_UsecaseErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{usecase.ErrInvalidTimeRange, http.StatusBadRequest},
		{usecase.ErrInvalidHorizon, http.StatusBadRequest},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		fakeUC := &fakeGetForecastUseCase{
			ExecuteFunc: func(ctx context.Context, in usecase.GetForecastInput) (*domain.ForecastResult, error) {
				return nil, tt.err
			},
		}
		app := setupTestApp(fakeUC)

		resp, body := doGet(t, app, "/forecast?event_name=x")
		if resp.StatusCode != tt.status {
			t.Fatalf("err %v: expected status %d, got %d (body: %s)", tt.err, tt.status, resp.StatusCode, string(body))
		}
	}
}
