package fiber

import (
	"context"
	"errors"
	"net/http"

	"temporal-analytics-service/internal/activities/core/usecase"
	"temporal-analytics-service/internal/logging"
	"temporal-analytics-service/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type RecordActivityUseCase interface {
	Execute(ctx context.Context, in usecase.RecordActivityInput) (bool, error)
	ExecuteBulk(ctx context.Context, in usecase.RecordActivitiesInput) (usecase.RecordActivitiesResult, error)
}

type ActivityHandler struct {
	uc RecordActivityUseCase
}

func NewActivityHandler(uc RecordActivityUseCase) *ActivityHandler {
	return &ActivityHandler{uc: uc}
}

// RecordActivity godoc
// @Summary Record an activity
// @Description Stores a single activity with idempotency handling
// @Tags Activities
// @Accept json
// @Produce json
// @Param request body RecordActivityRequest true "Activity payload"
// @Success 201 {object} RecordActivityResponse
// @Success 200 {object} RecordActivityResponse "Duplicate activity"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /activities [post]
func (h *ActivityHandler) RecordActivity(c *fiber.Ctx) error {
	var req RecordActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "invalid_json"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_activity",
			Message: err.Error(),
		})
	}

	created, err := h.uc.Execute(c.UserContext(), toInput(req))
	if err != nil {
		return h.writeError(c, err)
	}

	if !created {
		return c.Status(http.StatusOK).JSON(RecordActivityResponse{Status: "duplicate"})
	}
	return c.Status(http.StatusCreated).JSON(RecordActivityResponse{Status: "created"})
}

// RecordActivities godoc
// @Summary Record activities in bulk
// @Description Validates every activity, then stores them individually
// @Tags Activities
// @Accept json
// @Produce json
// @Param request body RecordActivitiesRequest true "Bulk activity payload"
// @Success 201 {object} RecordActivitiesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /activities/bulk [post]
func (h *ActivityHandler) RecordActivities(c *fiber.Ctx) error {
	var req RecordActivitiesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "invalid_json"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_activity",
			Message: err.Error(),
		})
	}

	inputs := make([]usecase.RecordActivityInput, len(req.Activities))
	for i, a := range req.Activities {
		inputs[i] = toInput(a)
	}

	res, err := h.uc.ExecuteBulk(c.UserContext(), usecase.RecordActivitiesInput{Activities: inputs})
	if err != nil {
		return h.writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(RecordActivitiesResponse{
		Created:    res.Created,
		Duplicates: res.Duplicates,
	})
}

func (h *ActivityHandler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidActivity),
		errors.Is(err, usecase.ErrFutureTime):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_activity",
			Message: err.Error(),
		})
	default:
		logging.Error().Err(err).Msg("recording activity failed")
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

func toInput(r RecordActivityRequest) usecase.RecordActivityInput {
	return usecase.RecordActivityInput{
		Name:       r.Name,
		Channel:    r.Channel,
		CampaignID: r.CampaignID,
		UserID:     r.UserID,
		Timestamp:  r.Timestamp,
		Tags:       r.Tags,
		Metadata:   r.Metadata,
	}
}
