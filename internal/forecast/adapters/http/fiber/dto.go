package fiber

import "time"

// ForecastQuery is bound from the /forecast query string.
type ForecastQuery struct {
	EventName   string `query:"event_name" validate:"required"`
	Channel     string `query:"channel"`
	From        int64  `query:"from" validate:"gte=0"`
	To          int64  `query:"to" validate:"gte=0"`
	HorizonDays int    `query:"horizon_days" validate:"gte=0"`
}

type ForecastPointResponse struct {
	Date           string `json:"date" example:"2025-12-08"`
	Predicted      int    `json:"predicted"`
	ConfidenceLow  int    `json:"confidence_low"`
	ConfidenceHigh int    `json:"confidence_high"`
	Trend          string `json:"trend" example:"increasing"`
}

type HourlyPatternResponse struct {
	Hour        int     `json:"hour"`
	Label       string  `json:"label" example:"3 PM"`
	AvgActivity float64 `json:"avg_activity"`
}

type WeekdayPatternResponse struct {
	Day         int     `json:"day"`
	Label       string  `json:"label" example:"Monday"`
	AvgActivity float64 `json:"avg_activity"`
}

type ForecastMetricsResponse struct {
	PeakHour        string                   `json:"peak_hour"`
	PeakDay         string                   `json:"peak_day"`
	OverallTrend    string                   `json:"overall_trend"`
	TrendPercentage float64                  `json:"trend_percentage"`
	Confidence      float64                  `json:"confidence"`
	HourlyPatterns  []HourlyPatternResponse  `json:"hourly_patterns"`
	WeekdayPatterns []WeekdayPatternResponse `json:"weekday_patterns"`
}

type ForecastResponse struct {
	EventName string                  `json:"event_name"`
	Forecast  []ForecastPointResponse `json:"forecast"`
	Metrics   ForecastMetricsResponse `json:"metrics"`
	Insights  []string                `json:"insights"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message" example:"event_name is required"`
}

const dateLayout = time.DateOnly
