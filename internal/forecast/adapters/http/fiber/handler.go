package fiber

import (
	"context"
	"errors"
	"net/http"

	"temporal-analytics-service/internal/forecast/core/domain"
	"temporal-analytics-service/internal/forecast/core/usecase"
	"temporal-analytics-service/internal/logging"
	"temporal-analytics-service/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type GetForecastUseCase interface {
	Execute(ctx context.Context, in usecase.GetForecastInput) (*domain.ForecastResult, error)
}

type ForecastHandler struct {
	uc GetForecastUseCase
}

func NewForecastHandler(uc GetForecastUseCase) *ForecastHandler {
	return &ForecastHandler{uc: uc}
}

// GetForecast godoc
// @Summary Forecast daily activity
// @Description Projects daily activity counts with confidence bands, trend and usage patterns
// @Tags Forecast
// @Produce json
// @Param event_name query string true "Event name"
// @Param channel query string false "Channel filter"
// @Param from query int false "From timestamp (unix seconds)"
// @Param to query int false "To timestamp (unix seconds)"
// @Param horizon_days query int false "Days to forecast"
// @Success 200 {object} ForecastResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /forecast [get]
func (h *ForecastHandler) GetForecast(c *fiber.Ctx) error {
	var q ForecastQuery
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

	in := usecase.GetForecastInput{
		EventName:   q.EventName,
		From:        q.From,
		To:          q.To,
		HorizonDays: q.HorizonDays,
	}
	if q.Channel != "" {
		ch := q.Channel
		in.Channel = &ch
	}

	res, err := h.uc.Execute(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidForecastQuery),
			errors.Is(err, usecase.ErrInvalidTimeRange),
			errors.Is(err, usecase.ErrInvalidHorizon):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_query",
				Message: err.Error(),
			})
		default:
			logging.Error().Err(err).Str("event_name", q.EventName).Msg("forecast failed")
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	return c.Status(http.StatusOK).JSON(toForecastResponse(q.EventName, res))
}

func toForecastResponse(eventName string, res *domain.ForecastResult) ForecastResponse {
	resp := ForecastResponse{
		EventName: eventName,
		Forecast:  make([]ForecastPointResponse, 0, len(res.Forecast)),
		Metrics: ForecastMetricsResponse{
			PeakHour:        res.Metrics.PeakHour,
			PeakDay:         res.Metrics.PeakDay,
			OverallTrend:    string(res.Metrics.OverallTrend),
			TrendPercentage: res.Metrics.TrendPercentage,
			Confidence:      res.Metrics.Confidence,
			HourlyPatterns:  make([]HourlyPatternResponse, 0, len(res.Metrics.HourlyPatterns)),
			WeekdayPatterns: make([]WeekdayPatternResponse, 0, len(res.Metrics.WeekdayPatterns)),
		},
		Insights: res.Insights,
	}

	for _, p := range res.Forecast {
		resp.Forecast = append(resp.Forecast, ForecastPointResponse{
			Date:           p.Date.Format(dateLayout),
			Predicted:      p.Predicted,
			ConfidenceLow:  p.ConfidenceLow,
			ConfidenceHigh: p.ConfidenceHigh,
			Trend:          string(p.Trend),
		})
	}
	for _, p := range res.Metrics.HourlyPatterns {
		resp.Metrics.HourlyPatterns = append(resp.Metrics.HourlyPatterns, HourlyPatternResponse(p))
	}
	for _, p := range res.Metrics.WeekdayPatterns {
		resp.Metrics.WeekdayPatterns = append(resp.Metrics.WeekdayPatterns, WeekdayPatternResponse(p))
	}
	if resp.Insights == nil {
		resp.Insights = []string{}
	}

	return resp
}
