package fiber

import "temporal-analytics-service/internal/replay/core/domain"

type StartViewRequest struct {
	ViewerID    string `json:"viewer_id" validate:"required"`
	ViewerName  string `json:"viewer_name"`
	ViewerColor string `json:"viewer_color" example:"#3b82f6"`
}

type RecordInteractionRequest struct {
	Type         string         `json:"type" validate:"required,oneof=play pause seek speed-change annotate bookmark reply" example:"pause"`
	PlaybackTime int64          `json:"playback_time" validate:"gte=0" example:"42000"`
	Data         map[string]any `json:"data"`
}

type MarkWatchedRequest struct {
	PlaybackTime    int64 `json:"playback_time" validate:"gte=0" example:"42000"`
	SessionDuration int64 `json:"session_duration" validate:"gt=0" example:"600000"`
}

// AnalyticsQuery is bound from the analytics query string. Durations are in
// milliseconds.
type AnalyticsQuery struct {
	SessionDuration int64 `query:"session_duration" validate:"gt=0"`
}

type BatchSession struct {
	SessionID       string `json:"session_id" validate:"required"`
	SessionDuration int64  `json:"session_duration" validate:"gt=0"`
}

type BatchAnalyticsRequest struct {
	Sessions []BatchSession `json:"sessions" validate:"required,min=1,max=50,dive"`
}

type BatchAnalyticsResponse struct {
	Results []*domain.ReplayAnalytics `json:"results"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"view_not_found"`
	Message string `json:"message,omitempty"`
}
