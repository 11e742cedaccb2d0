package usecase

import (
	"sort"

	"temporal-analytics-service/internal/replay/core/domain"
	"temporal-analytics-service/internal/timeseries"
)

const (
	HeatmapBucketMs  int64 = 5000
	DropOffBucketMs  int64 = 5000
	PopularSegmentMs int64 = 10000

	heatmapViewWeight        = 0.6
	heatmapInteractionWeight = 0.4

	topPopularSegments = 5
	topDropOffPoints   = 3

	// a view ending before this share of the session counts as a drop-off
	completionThreshold = 0.9
	highDropOffShare    = 0.2

	HighDropOffReason = "High drop-off point"
)

// CalculateReplayAnalytics aggregates every view of one recorded session.
// Views belonging to other sessions are ignored. Views may be finalized or
// still in progress; only finalized views take part in drop-off detection.
func CalculateReplayAnalytics(sessionID string, sessionDuration int64, views []domain.ReplayView) (*domain.ReplayAnalytics, error) {
	if sessionDuration <= 0 {
		return nil, ErrInvalidSessionDuration
	}
	views = sessionViews(sessionID, views)
	for _, v := range views {
		for _, s := range v.WatchedSegments {
			if s.End < s.Start {
				return nil, ErrInvalidTimeRange
			}
		}
	}

	res := &domain.ReplayAnalytics{
		SessionID:  sessionID,
		TotalViews: len(views),
	}

	var durationSum, completionSum float64
	for _, v := range views {
		durationSum += float64(v.Duration)
		completionSum += v.CompletionRate
		for _, s := range v.WatchedSegments {
			res.TotalEngagementTime += s.Duration()
		}
	}
	if len(views) > 0 {
		res.AverageDuration = durationSum / float64(len(views))
		res.AverageCompletionRate = completionSum / float64(len(views))
	}

	res.Heatmap = heatmap(sessionDuration, views)
	res.PeakViewingTime = peakViewingTime(res.Heatmap)
	res.ViewerStats = viewerStats(views)
	res.UniqueViewers = len(res.ViewerStats)
	res.PopularSegments = popularSegments(sessionDuration, views)
	res.DropOffPoints = dropOffPoints(sessionDuration, views)

	return res, nil
}

// sessionViews returns the views recorded against sessionID, in input order.
func sessionViews(sessionID string, views []domain.ReplayView) []domain.ReplayView {
	out := make([]domain.ReplayView, 0, len(views))
	for _, v := range views {
		if v.SessionID == sessionID {
			out = append(out, v)
		}
	}
	return out
}

// ClassifyEngagement buckets a viewer by completion and interaction volume.
func ClassifyEngagement(averageCompletionRate float64, totalInteractions int) domain.EngagementLevel {
	switch {
	case averageCompletionRate > 75 && totalInteractions > 5:
		return domain.EngagementHigh
	case averageCompletionRate > 40 || totalInteractions > 2:
		return domain.EngagementMedium
	default:
		return domain.EngagementLow
	}
}

// touchedWindows returns the indexes of width-sized windows within
// [0, limit) that segment s overlaps.
func touchedWindows(s domain.TimeSegment, width, limit int64) (first, last int, ok bool) {
	if s.End <= s.Start || s.Start >= limit || s.End <= 0 {
		return 0, 0, false
	}
	start := max(s.Start, 0)
	end := min(s.End, limit)
	return timeseries.WindowIndex(start, width), timeseries.WindowIndex(end-1, width), true
}

func heatmap(sessionDuration int64, views []domain.ReplayView) []domain.HeatmapPoint {
	windows := timeseries.Windows(sessionDuration, HeatmapBucketMs)
	viewCounts := make([]int, len(windows))

	var offsets []int64
	for _, v := range views {
		touched := make(map[int]struct{})
		for _, s := range v.WatchedSegments {
			first, last, ok := touchedWindows(s, HeatmapBucketMs, sessionDuration)
			if !ok {
				continue
			}
			for i := first; i <= last; i++ {
				touched[i] = struct{}{}
			}
		}
		for i := range touched {
			viewCounts[i]++
		}

		for _, in := range v.Interactions {
			offsets = append(offsets, in.PlaybackTime)
		}
	}
	interactionCounts := timeseries.CountFixed(offsets, HeatmapBucketMs, sessionDuration)

	maxViews, maxInteractions := 1, 1
	for i := range windows {
		maxViews = max(maxViews, viewCounts[i])
		maxInteractions = max(maxInteractions, interactionCounts[i])
	}

	points := make([]domain.HeatmapPoint, len(windows))
	for i, w := range windows {
		intensity := (float64(viewCounts[i])/float64(maxViews)*heatmapViewWeight +
			float64(interactionCounts[i])/float64(maxInteractions)*heatmapInteractionWeight) * 100

		points[i] = domain.HeatmapPoint{
			Timestamp:        w.Start,
			ViewCount:        viewCounts[i],
			InteractionCount: interactionCounts[i],
			Intensity:        timeseries.Clamp(intensity, 0, 100),
		}
	}
	return points
}

func peakViewingTime(points []domain.HeatmapPoint) int64 {
	if len(points) == 0 {
		return 0
	}
	peak := points[0]
	for _, p := range points[1:] {
		if p.Intensity > peak.Intensity {
			peak = p
		}
	}
	return peak.Timestamp
}

func viewerStats(views []domain.ReplayView) []domain.ViewerStats {
	var order []string
	byViewer := make(map[string]*domain.ViewerStats)
	completionSums := make(map[string]float64)

	for _, v := range views {
		st, ok := byViewer[v.ViewerID]
		if !ok {
			st = &domain.ViewerStats{ViewerID: v.ViewerID}
			byViewer[v.ViewerID] = st
			order = append(order, v.ViewerID)
		}

		// name and colour follow the most recent view
		if st.ViewCount == 0 || !v.StartedAt.Before(st.LastViewedAt) {
			st.ViewerName = v.ViewerName
			st.ViewerColor = v.ViewerColor
			st.LastViewedAt = v.StartedAt
		}

		st.ViewCount++
		st.TotalWatchTime += v.Duration
		st.TotalInteractions += len(v.Interactions)
		completionSums[v.ViewerID] += v.CompletionRate
	}

	stats := make([]domain.ViewerStats, 0, len(order))
	for _, id := range order {
		st := byViewer[id]
		st.AverageCompletionRate = completionSums[id] / float64(st.ViewCount)
		st.EngagementLevel = ClassifyEngagement(st.AverageCompletionRate, st.TotalInteractions)
		stats = append(stats, *st)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalWatchTime > stats[j].TotalWatchTime
	})
	return stats
}

// popularSegments scores 10s windows by how many views touched them and how
// many distinct watch buckets each of those views covered inside the window.
func popularSegments(sessionDuration int64, views []domain.ReplayView) []domain.PopularSegment {
	windows := timeseries.Windows(sessionDuration, PopularSegmentMs)
	viewCounts := make([]int, len(windows))
	rewatchSums := make([]int, len(windows))

	for _, v := range views {
		buckets := make(map[int]struct{})
		for _, s := range v.WatchedSegments {
			first, last, ok := touchedWindows(s, WatchBucketMs, sessionDuration)
			if !ok {
				continue
			}
			for b := first; b <= last; b++ {
				buckets[b] = struct{}{}
			}
		}

		perWindow := make(map[int]int)
		for b := range buckets {
			perWindow[timeseries.WindowIndex(int64(b)*WatchBucketMs, PopularSegmentMs)]++
		}
		for i, n := range perWindow {
			viewCounts[i]++
			rewatchSums[i] += n
		}
	}

	segments := make([]domain.PopularSegment, 0, len(windows))
	for i, w := range windows {
		if viewCounts[i] == 0 {
			continue
		}
		avg := float64(rewatchSums[i]) / float64(viewCounts[i])
		segments = append(segments, domain.PopularSegment{
			StartTime:           w.Start,
			EndTime:             w.End,
			ViewCount:           viewCounts[i],
			AverageRewatchCount: avg,
			EngagementScore:     float64(viewCounts[i]) * avg,
		})
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].EngagementScore > segments[j].EngagementScore
	})
	if len(segments) > topPopularSegments {
		segments = segments[:topPopularSegments]
	}
	return segments
}

func dropOffPoints(sessionDuration int64, views []domain.ReplayView) []domain.DropOffPoint {
	windows := timeseries.Windows(sessionDuration, DropOffBucketMs)
	counts := make([]int, len(windows))
	cutoff := completionThreshold * float64(sessionDuration)

	for _, v := range views {
		if !v.Finalized() || len(v.WatchedSegments) == 0 {
			continue
		}

		end := v.WatchedSegments[0].End
		for _, s := range v.WatchedSegments[1:] {
			end = max(end, s.End)
		}
		if end < 0 || float64(end) >= cutoff {
			continue
		}
		counts[timeseries.WindowIndex(end, DropOffBucketMs)]++
	}

	total := len(views)
	points := make([]domain.DropOffPoint, 0)
	for i, w := range windows {
		if counts[i] == 0 {
			continue
		}
		p := domain.DropOffPoint{
			Timestamp:    w.Start,
			DropOffCount: counts[i],
			DropOffRate:  timeseries.Clamp(float64(counts[i])/float64(total)*100, 0, 100),
		}
		if float64(counts[i]) > highDropOffShare*float64(total) {
			p.PossibleReason = HighDropOffReason
		}
		points = append(points, p)
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].DropOffRate > points[j].DropOffRate
	})
	if len(points) > topDropOffPoints {
		points = points[:topDropOffPoints]
	}
	return points
}
