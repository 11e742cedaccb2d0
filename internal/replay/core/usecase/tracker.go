package usecase

import (
	"errors"
	"maps"
	"math"
	"time"

	"temporal-analytics-service/internal/replay/core/domain"
	"temporal-analytics-service/internal/timeseries"

	"github.com/google/uuid"
)

var (
	ErrViewFinalized          = errors.New("replay view already finalized")
	ErrInvalidInteraction     = errors.New("invalid interaction type")
	ErrInvalidTimeRange       = errors.New("invalid time range")
	ErrInvalidSessionDuration = errors.New("session duration must be positive")
)

const (
	// WatchBucketMs is the resolution of watched-segment tracking.
	WatchBucketMs int64 = 1000

	// expected viewing time for a full duration score
	baselineDurationMs = 60000
	// interactions needed for a full interaction score
	baselineInteractions = 10

	completionWeight  = 0.4
	interactionWeight = 0.3
	durationWeight    = 0.3
)

// Tracker drives a ReplayView through created -> (interaction | watched)* ->
// finalized. Every transition returns a new view and leaves its input alone.
type Tracker struct {
	Now func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{Now: time.Now}
}

func (t *Tracker) now() time.Time {
	if t.Now == nil {
		return time.Now()
	}
	return t.Now()
}

func (t *Tracker) StartView(sessionID, viewerID, viewerName, viewerColor string) domain.ReplayView {
	return domain.ReplayView{
		ID:              uuid.NewString(),
		SessionID:       sessionID,
		ViewerID:        viewerID,
		ViewerName:      viewerName,
		ViewerColor:     viewerColor,
		StartedAt:       t.now(),
		Interactions:    []domain.ViewerInteraction{},
		WatchedSegments: []domain.TimeSegment{},
	}
}

func (t *Tracker) RecordInteraction(v domain.ReplayView, typ domain.InteractionType, playbackTime int64, data map[string]any) (domain.ReplayView, error) {
	if v.Finalized() {
		return v, ErrViewFinalized
	}
	if !typ.Valid() {
		return v, ErrInvalidInteraction
	}
	if playbackTime < 0 {
		return v, ErrInvalidTimeRange
	}

	out := v.Clone()
	out.Interactions = append(out.Interactions, domain.ViewerInteraction{
		Type:         typ,
		Timestamp:    t.now(),
		PlaybackTime: playbackTime,
		Data:         maps.Clone(data),
	})
	return out, nil
}

// MarkWatched records the 1s bucket containing currentPlaybackTime as
// watched. A bucket already present is not added twice.
func (t *Tracker) MarkWatched(v domain.ReplayView, currentPlaybackTime, sessionDuration int64) (domain.ReplayView, error) {
	if v.Finalized() {
		return v, ErrViewFinalized
	}
	if sessionDuration <= 0 {
		return v, ErrInvalidSessionDuration
	}
	if currentPlaybackTime < 0 || currentPlaybackTime >= sessionDuration {
		return v, ErrInvalidTimeRange
	}

	out := v.Clone()

	idx := timeseries.WindowIndex(currentPlaybackTime, WatchBucketMs)
	seen := false
	for _, s := range out.WatchedSegments {
		if timeseries.WindowIndex(s.Start, WatchBucketMs) == idx {
			seen = true
			break
		}
	}
	if !seen {
		start := int64(idx) * WatchBucketMs
		out.WatchedSegments = append(out.WatchedSegments, domain.TimeSegment{
			Start:   start,
			End:     min(start+WatchBucketMs, sessionDuration),
			Watched: true,
		})
	}

	var watched int64
	for _, s := range out.WatchedSegments {
		watched += s.Duration()
	}
	out.CompletionRate = timeseries.Clamp(float64(watched)/float64(sessionDuration)*100, 0, 100)

	return out, nil
}

// Finalize closes the view and computes its engagement score.
func (t *Tracker) Finalize(v domain.ReplayView) (domain.ReplayView, error) {
	if v.Finalized() {
		return v, ErrViewFinalized
	}

	out := v.Clone()
	ended := t.now()
	out.EndedAt = &ended
	out.Duration = max(ended.Sub(out.StartedAt).Milliseconds(), 0)
	out.EngagementScore = EngagementScore(out.CompletionRate, len(out.Interactions), out.Duration)
	return out, nil
}

// EngagementScore weighs completion, interaction volume and watch time, each
// capped at 100.
func EngagementScore(completionRate float64, interactions int, durationMs int64) int {
	completion := timeseries.Clamp(completionRate, 0, 100)
	interaction := math.Min(100, float64(interactions)/baselineInteractions*100)
	duration := math.Min(100, float64(durationMs)/baselineDurationMs*100)

	score := completionWeight*completion + interactionWeight*interaction + durationWeight*duration
	return int(timeseries.Clamp(math.Round(score), 0, 100))
}
