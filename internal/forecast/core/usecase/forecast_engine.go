package usecase

import (
	"math"
	"time"

	"temporal-analytics-service/internal/forecast/core/domain"
	"temporal-analytics-service/internal/timeseries"
)

const (
	// slope magnitude (events/day per day) above which a trend is reported
	trendThreshold = 0.1
	// relative widening of the confidence band per forecast day
	bandGrowthPerDay = 0.1
	// weekday seasonality needs two weekly cycles; with fewer, each weekday has
	// a single sample and the ratio only echoes the trend
	seasonalMinDays = 2 * timeseries.DaysPerWeek
	// weight of the variance-to-mean ratio in the confidence heuristic
	confidencePenalty = 10
)

// Forecast projects daily activity counts horizonDays past the last observed
// day and summarises hourly and weekday usage. It is a pure function of its
// arguments; loc decides calendar-day, hour and weekday boundaries.
// With fewer than 14 observed days the weekday multiplier stays at 1.
func Forecast(activities []domain.ActivityRecord, horizonDays int, loc *time.Location) (*domain.ForecastResult, error) {
	if horizonDays <= 0 {
		return nil, ErrInvalidHorizon
	}
	if loc == nil {
		loc = time.UTC
	}

	times := make([]time.Time, len(activities))
	for i, a := range activities {
		times[i] = a.Timestamp
	}

	hourly := hourlyPatterns(times, loc)
	weekday := weekdayPatterns(times, loc)

	if len(times) == 0 {
		metrics := domain.ForecastMetrics{
			PeakHour:        domain.NoActivityPeakHour,
			PeakDay:         domain.NoActivityPeakDay,
			OverallTrend:    domain.TrendStable,
			HourlyPatterns:  hourly,
			WeekdayPatterns: weekday,
		}
		return &domain.ForecastResult{
			Forecast: []domain.ForecastPoint{},
			Metrics:  metrics,
			Insights: GenerateInsights(metrics),
		}, nil
	}

	days := timeseries.Bucketize(times, timeseries.Day, loc)
	counts := make([]float64, len(days))
	for i, d := range days {
		counts[i] = float64(d.Count)
	}

	slope := timeseries.FitLinearTrend(counts)
	avgCount := timeseries.Mean(counts)
	trendPercentage := 0.0
	if avgCount > 0 {
		trendPercentage = slope / avgCount * 100
	}
	overallTrend := classifyTrend(slope)

	variance := timeseries.SampleVariance(counts)
	stdDev := math.Sqrt(variance)
	multipliers := weekdayMultipliers(weekday, len(days))

	last := days[len(days)-1]
	forecast := make([]domain.ForecastPoint, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		date := last.Start.AddDate(0, 0, i)
		trendBase := float64(last.Count) + slope*float64(i)
		predicted := max(0, int(math.Round(trendBase*multipliers[int(date.Weekday())])))

		width := stdDev * (1 + float64(i)*bandGrowthPerDay)
		forecast = append(forecast, domain.ForecastPoint{
			Date:           date,
			Predicted:      predicted,
			ConfidenceLow:  max(0, int(math.Round(float64(predicted)-width))),
			ConfidenceHigh: int(math.Round(float64(predicted) + width)),
			Trend:          overallTrend,
		})
	}

	metrics := domain.ForecastMetrics{
		PeakHour:        peakHour(hourly).Label,
		PeakDay:         peakDay(weekday).Label,
		OverallTrend:    overallTrend,
		TrendPercentage: trendPercentage,
		Confidence:      timeseries.Clamp(100-(variance/math.Max(avgCount, 1))*confidencePenalty, 0, 100),
		HourlyPatterns:  hourly,
		WeekdayPatterns: weekday,
	}

	return &domain.ForecastResult{
		Forecast: forecast,
		Metrics:  metrics,
		Insights: GenerateInsights(metrics),
	}, nil
}

func classifyTrend(slope float64) domain.Trend {
	switch {
	case slope > trendThreshold:
		return domain.TrendIncreasing
	case slope < -trendThreshold:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

// hourlyPatterns divides the events seen in each hour by the number of
// distinct dates in the whole input, i.e. average events per day in that hour.
func hourlyPatterns(times []time.Time, loc *time.Location) []domain.HourlyPattern {
	buckets := timeseries.Bucketize(times, timeseries.HourOfDay, loc)
	days := timeseries.DistinctDays(times, loc)

	patterns := make([]domain.HourlyPattern, len(buckets))
	for i, b := range buckets {
		avg := 0.0
		if days > 0 {
			avg = float64(b.Count) / float64(days)
		}
		patterns[i] = domain.HourlyPattern{Hour: b.Index, Label: b.Key, AvgActivity: avg}
	}
	return patterns
}

// weekdayPatterns collapses events to one count per date first and then
// averages those daily counts over the dates falling on each weekday.
func weekdayPatterns(times []time.Time, loc *time.Location) []domain.WeekdayPattern {
	perDate := make(map[time.Time]int)
	for _, t := range times {
		perDate[timeseries.StartOfDay(t, loc)]++
	}

	var totals, dates [timeseries.DaysPerWeek]int
	for date, count := range perDate {
		wd := int(date.Weekday())
		totals[wd] += count
		dates[wd]++
	}

	buckets := timeseries.Bucketize(nil, timeseries.Weekday, loc)
	patterns := make([]domain.WeekdayPattern, len(buckets))
	for i, b := range buckets {
		avg := 0.0
		if dates[i] > 0 {
			avg = float64(totals[i]) / float64(dates[i])
		}
		patterns[i] = domain.WeekdayPattern{Day: b.Index, Label: b.Key, AvgActivity: avg}
	}
	return patterns
}

// weekdayMultipliers returns the seasonal factor per weekday, or all ones when
// the observed range is too short to separate seasonality from trend.
func weekdayMultipliers(patterns []domain.WeekdayPattern, observedDays int) [timeseries.DaysPerWeek]float64 {
	var m [timeseries.DaysPerWeek]float64
	for i := range m {
		m[i] = 1
	}
	if observedDays < seasonalMinDays {
		return m
	}

	var sum float64
	for _, p := range patterns {
		sum += p.AvgActivity
	}
	overall := sum / float64(len(patterns))
	if overall <= 0 {
		return m
	}
	for _, p := range patterns {
		m[p.Day] = p.AvgActivity / overall
	}
	return m
}

// peakHour and peakDay return the first entry with the highest average.
func peakHour(patterns []domain.HourlyPattern) domain.HourlyPattern {
	best := patterns[0]
	for _, p := range patterns[1:] {
		if p.AvgActivity > best.AvgActivity {
			best = p
		}
	}
	return best
}

func peakDay(patterns []domain.WeekdayPattern) domain.WeekdayPattern {
	best := patterns[0]
	for _, p := range patterns[1:] {
		if p.AvgActivity > best.AvgActivity {
			best = p
		}
	}
	return best
}
