package domain

import "time"

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Labels reported when there is no activity at all.
const (
	NoActivityPeakHour = "12 AM"
	NoActivityPeakDay  = "N/A"
)

// ActivityRecord is one occurrence of a tracked action.
type ActivityRecord struct {
	Timestamp time.Time
}

// ForecastPoint is the projection for one future calendar day.
// ConfidenceLow <= Predicted <= ConfidenceHigh, all >= 0.
type ForecastPoint struct {
	Date           time.Time
	Predicted      int
	ConfidenceLow  int
	ConfidenceHigh int
	Trend          Trend
}

type HourlyPattern struct {
	Hour        int // 0..23
	Label       string
	AvgActivity float64
}

type WeekdayPattern struct {
	Day         int // 0 = Sunday
	Label       string
	AvgActivity float64
}

type ForecastMetrics struct {
	PeakHour        string
	PeakDay         string
	OverallTrend    Trend
	TrendPercentage float64
	// Confidence is a 0..100 heuristic derived from the variance-to-mean ratio
	// of daily counts. It is not a statistical confidence level.
	Confidence      float64
	HourlyPatterns  []HourlyPattern  // always 24 entries
	WeekdayPatterns []WeekdayPattern // always 7 entries
}

type ForecastResult struct {
	Forecast []ForecastPoint
	Metrics  ForecastMetrics
	Insights []string
}
