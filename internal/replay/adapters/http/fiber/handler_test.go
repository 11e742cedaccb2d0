package fiber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"temporal-analytics-service/internal/replay/core/domain"
	"temporal-analytics-service/internal/replay/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type fakeReplayUseCase struct {
	StartFn       func(ctx context.Context, in usecase.StartViewInput) (domain.ReplayView, error)
	InteractionFn func(ctx context.Context, viewID string, in usecase.RecordInteractionInput) (domain.ReplayView, error)
	WatchedFn     func(ctx context.Context, viewID string, playbackTime, sessionDuration int64) (domain.ReplayView, error)
	FinalizeFn    func(ctx context.Context, viewID string) (domain.ReplayView, error)
	AnalyticsFn   func(ctx context.Context, q usecase.AnalyticsQuery) (*domain.ReplayAnalytics, error)
	BatchFn       func(ctx context.Context, qs []usecase.AnalyticsQuery) ([]*domain.ReplayAnalytics, error)

	called bool
}

func (f *fakeReplayUseCase) StartView(ctx context.Context, in usecase.StartViewInput) (domain.ReplayView, error) {
	f.called = true
	return f.StartFn(ctx, in)
}

func (f *fakeReplayUseCase) RecordInteraction(ctx context.Context, viewID string, in usecase.RecordInteractionInput) (domain.ReplayView, error) {
	f.called = true
	return f.InteractionFn(ctx, viewID, in)
}

func (f *fakeReplayUseCase) MarkWatched(ctx context.Context, viewID string, playbackTime, sessionDuration int64) (domain.ReplayView, error) {
	f.called = true
	return f.WatchedFn(ctx, viewID, playbackTime, sessionDuration)
}

func (f *fakeReplayUseCase) FinalizeView(ctx context.Context, viewID string) (domain.ReplayView, error) {
	f.called = true
	return f.FinalizeFn(ctx, viewID)
}

func (f *fakeReplayUseCase) GetAnalytics(ctx context.Context, q usecase.AnalyticsQuery) (*domain.ReplayAnalytics, error) {
	f.called = true
	return f.AnalyticsFn(ctx, q)
}

func (f *fakeReplayUseCase) GetAnalyticsBatch(ctx context.Context, qs []usecase.AnalyticsQuery) ([]*domain.ReplayAnalytics, error) {
	f.called = true
	return f.BatchFn(ctx, qs)
}

func setupTestApp(uc ReplayUseCase) *fiber.App {
	app := fiber.New()
	NewReplayHandler(uc).Register(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		buf = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		buf = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	return resp, respBody
}

// ------------------------------------------------------------
// START VIEW
// ------------------------------------------------------------

func TestStartView_Created(t *testing.T) {
	var got usecase.StartViewInput
	fakeUC := &fakeReplayUseCase{
		StartFn: func(ctx context.Context, in usecase.StartViewInput) (domain.ReplayView, error) {
			got = in
			return domain.ReplayView{ID: "v1", SessionID: in.SessionID, ViewerID: in.ViewerID}, nil
		},
	}
	app := setupTestApp(fakeUC)

	resp, body := doRequest(t, app, http.MethodPost, "/replays/s1/views",
		StartViewRequest{ViewerID: "u1", ViewerName: "Ada", ViewerColor: "#fff"})

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", resp.StatusCode, string(body))
	}
	if got.SessionID != "s1" || got.ViewerID != "u1" || got.ViewerName != "Ada" {
		t.Fatalf("unexpected usecase input: %+v", got)
	}

	var out domain.ReplayView
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if out.ID != "v1" {
		t.Fatalf("expected id v1, got %s", out.ID)
	}
}

func TestStartView_MissingViewer(t *testing.T) {
	fakeUC := &fakeReplayUseCase{}
	app := setupTestApp(fakeUC)

	resp, _ := doRequest(t, app, http.MethodPost, "/replays/s1/views", StartViewRequest{})

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if fakeUC.called {
		t.Fatalf("expected usecase not to be called")
	}
}

func TestStartView_InvalidJSON(t *testing.T) {
	fakeUC := &fakeReplayUseCase{}
	app := setupTestApp(fakeUC)

	resp, _ := doRequest(t, app, http.MethodPost, "/replays/s1/views", "{oops")

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if fakeUC.called {
		t.Fatalf("expected usecase not to be called")
	}
}

// ------------------------------------------------------------
// INTERACTIONS / WATCHED / FINALIZE
// ------------------------------------------------------------

func TestRecordInteraction(t *testing.T) {
	var gotID string
	var got usecase.RecordInteractionInput
	fakeUC := &fakeReplayUseCase{
		InteractionFn: func(ctx context.Context, viewID string, in usecase.RecordInteractionInput) (domain.ReplayView, error) {
			gotID, got = viewID, in
			return domain.ReplayView{ID: viewID}, nil
		},
	}
	app := setupTestApp(fakeUC)

	resp, body := doRequest(t, app, http.MethodPost, "/views/v1/interactions",
		RecordInteractionRequest{Type: "speed-change", PlaybackTime: 1500, Data: map[string]any{"rate": 2}})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", resp.StatusCode, string(body))
	}
	if gotID != "v1" || got.Type != domain.InteractionSpeedChange || got.PlaybackTime != 1500 {
		t.Fatalf("unexpected input: %s %+v", gotID, got)
	}
}

func TestRecordInteraction_UnknownType(t *testing.T) {
	fakeUC := &fakeReplayUseCase{}
	app := setupTestApp(fakeUC)

	resp, _ := doRequest(t, app, http.MethodPost, "/views/v1/interactions",
		RecordInteractionRequest{Type: "rewind"})

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if fakeUC.called {
		t.Fatalf("expected usecase not to be called")
	}
}

func TestMarkWatched_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{usecase.ErrViewNotFound, http.StatusNotFound},
		{usecase.ErrViewFinalized, http.StatusConflict},
		{usecase.ErrInvalidTimeRange, http.StatusBadRequest},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		fakeUC := &fakeReplayUseCase{
			WatchedFn: func(ctx context.Context, viewID string, playbackTime, sessionDuration int64) (domain.ReplayView, error) {
				return domain.ReplayView{}, tt.err
			},
		}
		app := setupTestApp(fakeUC)

		resp, body := doRequest(t, app, http.MethodPost, "/views/v1/watched",
			MarkWatchedRequest{PlaybackTime: 100, SessionDuration: 1000})
		if resp.StatusCode != tt.status {
			t.Fatalf("err %v: expected %d, got %d (body: %s)", tt.err, tt.status, resp.StatusCode, string(body))
		}
	}
}

func TestMarkWatched_RequiresSessionDuration(t *testing.T) {
	fakeUC := &fakeReplayUseCase{}
	app := setupTestApp(fakeUC)

	resp, _ := doRequest(t, app, http.MethodPost, "/views/v1/watched", MarkWatchedRequest{PlaybackTime: 100})

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if fakeUC.called {
		t.Fatalf("expected usecase not to be called")
	}
}

func TestFinalizeView(t *testing.T) {
	fakeUC := &fakeReplayUseCase{
		FinalizeFn: func(ctx context.Context, viewID string) (domain.ReplayView, error) {
			return domain.ReplayView{ID: viewID, EngagementScore: 87}, nil
		},
	}
	app := setupTestApp(fakeUC)

	resp, body := doRequest(t, app, http.MethodPost, "/views/v1/finalize", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", resp.StatusCode, string(body))
	}

	var out domain.ReplayView
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if out.EngagementScore != 87 {
		t.Fatalf("expected engagement 87, got %d", out.EngagementScore)
	}
}

// ------------------------------------------------------------
// ANALYTICS
// ------------------------------------------------------------

func TestGetAnalytics(t *testing.T) {
	var got usecase.AnalyticsQuery
	fakeUC := &fakeReplayUseCase{
		AnalyticsFn: func(ctx context.Context, q usecase.AnalyticsQuery) (*domain.ReplayAnalytics, error) {
			got = q
			return &domain.ReplayAnalytics{SessionID: q.SessionID, TotalViews: 2, UniqueViewers: 1}, nil
		},
	}
	app := setupTestApp(fakeUC)

	resp, body := doRequest(t, app, http.MethodGet, "/replays/s1/analytics?session_duration=60000", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", resp.StatusCode, string(body))
	}
	if got.SessionID != "s1" || got.SessionDuration != 60000 {
		t.Fatalf("unexpected query: %+v", got)
	}

	var out domain.ReplayAnalytics
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if out.TotalViews != 2 || out.UniqueViewers != 1 {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestGetAnalytics_MissingDuration(t *testing.T) {
	fakeUC := &fakeReplayUseCase{}
	app := setupTestApp(fakeUC)

	resp, _ := doRequest(t, app, http.MethodGet, "/replays/s1/analytics", nil)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if fakeUC.called {
		t.Fatalf("expected usecase not to be called")
	}
}

func TestGetAnalyticsBatch(t *testing.T) {
	var got []usecase.AnalyticsQuery
	fakeUC := &fakeReplayUseCase{
		BatchFn: func(ctx context.Context, qs []usecase.AnalyticsQuery) ([]*domain.ReplayAnalytics, error) {
			got = qs
			out := make([]*domain.ReplayAnalytics, len(qs))
			for i, q := range qs {
				out[i] = &domain.ReplayAnalytics{SessionID: q.SessionID}
			}
			return out, nil
		},
	}
	app := setupTestApp(fakeUC)

	resp, body := doRequest(t, app, http.MethodPost, "/replays/analytics/batch", BatchAnalyticsRequest{
		Sessions: []BatchSession{
			{SessionID: "s1", SessionDuration: 1000},
			{SessionID: "s2", SessionDuration: 2000},
		},
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", resp.StatusCode, string(body))
	}
	if len(got) != 2 || got[1].SessionID != "s2" || got[1].SessionDuration != 2000 {
		t.Fatalf("unexpected queries: %+v", got)
	}

	var out BatchAnalyticsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if len(out.Results) != 2 || out.Results[0].SessionID != "s1" {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestGetAnalyticsBatch_Empty(t *testing.T) {
	fakeUC := &fakeReplayUseCase{}
	app := setupTestApp(fakeUC)

	resp, _ := doRequest(t, app, http.MethodPost, "/replays/analytics/batch", BatchAnalyticsRequest{})

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if fakeUC.called {
		t.Fatalf("expected usecase not to be called")
	}
}
