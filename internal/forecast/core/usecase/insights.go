package usecase

import (
	"fmt"
	"math"

	"temporal-analytics-service/internal/forecast/core/domain"
)

const (
	highConfidence = 75
	lowConfidence  = 40
)

// GenerateInsights turns forecast metrics into short human-readable
// statements. It reads nothing but the metrics, so callers can regenerate the
// text from a stored ForecastMetrics.
func GenerateInsights(m domain.ForecastMetrics) []string {
	var insights []string

	switch m.OverallTrend {
	case domain.TrendIncreasing:
		insights = append(insights, fmt.Sprintf("Activity is trending up by %.1f%% per day.", m.TrendPercentage))
	case domain.TrendDecreasing:
		insights = append(insights, fmt.Sprintf("Activity is trending down by %.1f%% per day.", math.Abs(m.TrendPercentage)))
	default:
		insights = append(insights, "Activity is stable with no significant trend.")
	}

	if m.PeakDay == domain.NoActivityPeakDay {
		return insights
	}

	insights = append(insights,
		fmt.Sprintf("Peak activity happens around %s.", m.PeakHour),
		fmt.Sprintf("%s is the busiest day of the week.", m.PeakDay),
	)

	switch {
	case m.Confidence >= highConfidence:
		insights = append(insights, fmt.Sprintf("Forecast confidence is high (%.0f%%): activity is consistent day to day.", m.Confidence))
	case m.Confidence < lowConfidence:
		insights = append(insights, fmt.Sprintf("Forecast confidence is low (%.0f%%): daily activity varies widely.", m.Confidence))
	default:
		insights = append(insights, fmt.Sprintf("Forecast confidence is moderate (%.0f%%).", m.Confidence))
	}

	return insights
}
