package fiber

import (
	"context"
	"errors"
	"net/http"

	"temporal-analytics-service/internal/logging"
	"temporal-analytics-service/internal/replay/core/domain"
	"temporal-analytics-service/internal/replay/core/usecase"
	"temporal-analytics-service/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ReplayUseCase interface {
	StartView(ctx context.Context, in usecase.StartViewInput) (domain.ReplayView, error)
	RecordInteraction(ctx context.Context, viewID string, in usecase.RecordInteractionInput) (domain.ReplayView, error)
	MarkWatched(ctx context.Context, viewID string, playbackTime, sessionDuration int64) (domain.ReplayView, error)
	FinalizeView(ctx context.Context, viewID string) (domain.ReplayView, error)
	GetAnalytics(ctx context.Context, q usecase.AnalyticsQuery) (*domain.ReplayAnalytics, error)
	GetAnalyticsBatch(ctx context.Context, qs []usecase.AnalyticsQuery) ([]*domain.ReplayAnalytics, error)
}

type ReplayHandler struct {
	uc ReplayUseCase
}

func NewReplayHandler(uc ReplayUseCase) *ReplayHandler {
	return &ReplayHandler{uc: uc}
}

// Register mounts the replay routes on r.
func (h *ReplayHandler) Register(r fiber.Router) {
	r.Post("/replays/analytics/batch", h.GetAnalyticsBatch)
	r.Post("/replays/:session_id/views", h.StartView)
	r.Get("/replays/:session_id/analytics", h.GetAnalytics)
	r.Post("/views/:view_id/interactions", h.RecordInteraction)
	r.Post("/views/:view_id/watched", h.MarkWatched)
	r.Post("/views/:view_id/finalize", h.FinalizeView)
}

// StartView godoc
// @Summary Start a replay view
// @Tags Replays
// @Accept json
// @Produce json
// @Param session_id path string true "Recorded session ID"
// @Param request body StartViewRequest true "Viewer"
// @Success 201 {object} domain.ReplayView
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /replays/{session_id}/views [post]
func (h *ReplayHandler) StartView(c *fiber.Ctx) error {
	var req StartViewRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	v, err := h.uc.StartView(c.UserContext(), usecase.StartViewInput{
		SessionID:   c.Params("session_id"),
		ViewerID:    req.ViewerID,
		ViewerName:  req.ViewerName,
		ViewerColor: req.ViewerColor,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(v)
}

// RecordInteraction godoc
// @Summary Record a playback interaction
// @Tags Replays
// @Accept json
// @Produce json
// @Param view_id path string true "View ID"
// @Param request body RecordInteractionRequest true "Interaction"
// @Success 200 {object} domain.ReplayView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /views/{view_id}/interactions [post]
func (h *ReplayHandler) RecordInteraction(c *fiber.Ctx) error {
	var req RecordInteractionRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	v, err := h.uc.RecordInteraction(c.UserContext(), c.Params("view_id"), usecase.RecordInteractionInput{
		Type:         domain.InteractionType(req.Type),
		PlaybackTime: req.PlaybackTime,
		Data:         req.Data,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(v)
}

// MarkWatched godoc
// @Summary Mark the current playback position as watched
// @Tags Replays
// @Accept json
// @Produce json
// @Param view_id path string true "View ID"
// @Param request body MarkWatchedRequest true "Playback position"
// @Success 200 {object} domain.ReplayView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /views/{view_id}/watched [post]
func (h *ReplayHandler) MarkWatched(c *fiber.Ctx) error {
	var req MarkWatchedRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	v, err := h.uc.MarkWatched(c.UserContext(), c.Params("view_id"), req.PlaybackTime, req.SessionDuration)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(v)
}

// FinalizeView godoc
// @Summary Finalize a replay view
// @Tags Replays
// @Produce json
// @Param view_id path string true "View ID"
// @Success 200 {object} domain.ReplayView
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /views/{view_id}/finalize [post]
func (h *ReplayHandler) FinalizeView(c *fiber.Ctx) error {
	v, err := h.uc.FinalizeView(c.UserContext(), c.Params("view_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(v)
}

// GetAnalytics godoc
// @Summary Replay engagement analytics
// @Description Aggregates every stored view of a recorded session
// @Tags Replays
// @Produce json
// @Param session_id path string true "Recorded session ID"
// @Param session_duration query int true "Session length in milliseconds"
// @Success 200 {object} domain.ReplayAnalytics
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /replays/{session_id}/analytics [get]
func (h *ReplayHandler) GetAnalytics(c *fiber.Ctx) error {
	var q AnalyticsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: "query parameters could not be parsed",
		})
	}
	if err := validation.Struct(&q); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	}

	res, err := h.uc.GetAnalytics(c.UserContext(), usecase.AnalyticsQuery{
		SessionID:       c.Params("session_id"),
		SessionDuration: q.SessionDuration,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// GetAnalyticsBatch godoc
// @Summary Replay analytics for several sessions
// @Tags Replays
// @Accept json
// @Produce json
// @Param request body BatchAnalyticsRequest true "Sessions"
// @Success 200 {object} BatchAnalyticsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /replays/analytics/batch [post]
func (h *ReplayHandler) GetAnalyticsBatch(c *fiber.Ctx) error {
	var req BatchAnalyticsRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	qs := make([]usecase.AnalyticsQuery, len(req.Sessions))
	for i, s := range req.Sessions {
		qs[i] = usecase.AnalyticsQuery{SessionID: s.SessionID, SessionDuration: s.SessionDuration}
	}

	res, err := h.uc.GetAnalyticsBatch(c.UserContext(), qs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(BatchAnalyticsResponse{Results: res})
}

// bind parses and validates the body. When ok is false the 400 response has
// already been written and err is the result of writing it.
func bind(c *fiber.Ctx, dst any) (ok bool, err error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "invalid_json"})
	}
	if err := validation.Struct(dst); err != nil {
		return false, c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	}
	return true, nil
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidView),
		errors.Is(err, usecase.ErrInvalidInteraction),
		errors.Is(err, usecase.ErrInvalidTimeRange),
		errors.Is(err, usecase.ErrInvalidSessionDuration):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrViewNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{Error: "view_not_found"})
	case errors.Is(err, usecase.ErrViewFinalized):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Error:   "view_finalized",
			Message: err.Error(),
		})
	default:
		logging.Error().Err(err).Str("path", c.Path()).Msg("replay request failed")
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
