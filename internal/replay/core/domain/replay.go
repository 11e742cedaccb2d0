package domain

import "time"

type InteractionType string

const (
	InteractionPlay        InteractionType = "play"
	InteractionPause       InteractionType = "pause"
	InteractionSeek        InteractionType = "seek"
	InteractionSpeedChange InteractionType = "speed-change"
	InteractionAnnotate    InteractionType = "annotate"
	InteractionBookmark    InteractionType = "bookmark"
	InteractionReply       InteractionType = "reply"
)

func (t InteractionType) Valid() bool {
	switch t {
	case InteractionPlay, InteractionPause, InteractionSeek, InteractionSpeedChange,
		InteractionAnnotate, InteractionBookmark, InteractionReply:
		return true
	}
	return false
}

// ViewerInteraction is one playback control event. PlaybackTime is the
// offset into the recording in milliseconds.
type ViewerInteraction struct {
	Type         InteractionType `json:"type"`
	Timestamp    time.Time       `json:"timestamp"`
	PlaybackTime int64           `json:"playback_time"`
	Data         map[string]any  `json:"data,omitempty"`
}

// TimeSegment is a bucket-aligned range [Start, End) in milliseconds.
type TimeSegment struct {
	Start   int64 `json:"start"`
	End     int64 `json:"end"`
	Watched bool  `json:"watched"`
}

func (s TimeSegment) Duration() int64 {
	return s.End - s.Start
}

// ReplayView is one viewer's playback of a recorded session. A view with a
// non-nil EndedAt is finalized and no longer changes.
type ReplayView struct {
	ID              string              `json:"id"`
	SessionID       string              `json:"session_id"`
	ViewerID        string              `json:"viewer_id"`
	ViewerName      string              `json:"viewer_name"`
	ViewerColor     string              `json:"viewer_color"`
	StartedAt       time.Time           `json:"started_at"`
	EndedAt         *time.Time          `json:"ended_at,omitempty"`
	Duration        int64               `json:"duration"` // ms
	CompletionRate  float64             `json:"completion_rate"`
	Interactions    []ViewerInteraction `json:"interactions"`
	WatchedSegments []TimeSegment       `json:"watched_segments"`
	EngagementScore int                 `json:"engagement_score"`
}

func (v ReplayView) Finalized() bool {
	return v.EndedAt != nil
}

// Clone returns a copy that shares no slices with v.
func (v ReplayView) Clone() ReplayView {
	out := v
	out.Interactions = append([]ViewerInteraction{}, v.Interactions...)
	out.WatchedSegments = append([]TimeSegment{}, v.WatchedSegments...)
	if v.EndedAt != nil {
		ended := *v.EndedAt
		out.EndedAt = &ended
	}
	return out
}

type EngagementLevel string

const (
	EngagementHigh   EngagementLevel = "high"
	EngagementMedium EngagementLevel = "medium"
	EngagementLow    EngagementLevel = "low"
)

type HeatmapPoint struct {
	Timestamp        int64   `json:"timestamp"` // bucket start, ms
	ViewCount        int     `json:"view_count"`
	InteractionCount int     `json:"interaction_count"`
	Intensity        float64 `json:"intensity"`
}

type ViewerStats struct {
	ViewerID              string          `json:"viewer_id"`
	ViewerName            string          `json:"viewer_name"`
	ViewerColor           string          `json:"viewer_color"`
	ViewCount             int             `json:"view_count"`
	TotalWatchTime        int64           `json:"total_watch_time"`
	AverageCompletionRate float64         `json:"average_completion_rate"`
	TotalInteractions     int             `json:"total_interactions"`
	LastViewedAt          time.Time       `json:"last_viewed_at"`
	EngagementLevel       EngagementLevel `json:"engagement_level"`
}

type PopularSegment struct {
	StartTime           int64   `json:"start_time"`
	EndTime             int64   `json:"end_time"`
	ViewCount           int     `json:"view_count"`
	AverageRewatchCount float64 `json:"average_rewatch_count"`
	EngagementScore     float64 `json:"engagement_score"`
}

type DropOffPoint struct {
	Timestamp      int64   `json:"timestamp"`
	DropOffCount   int     `json:"drop_off_count"`
	DropOffRate    float64 `json:"drop_off_rate"`
	PossibleReason string  `json:"possible_reason,omitempty"`
}

type ReplayAnalytics struct {
	SessionID             string           `json:"session_id"`
	TotalViews            int              `json:"total_views"`
	UniqueViewers         int              `json:"unique_viewers"`
	AverageDuration       float64          `json:"average_duration"`
	AverageCompletionRate float64          `json:"average_completion_rate"`
	TotalEngagementTime   int64            `json:"total_engagement_time"`
	PeakViewingTime       int64            `json:"peak_viewing_time"`
	Heatmap               []HeatmapPoint   `json:"heatmap"`
	ViewerStats           []ViewerStats    `json:"viewer_stats"`
	PopularSegments       []PopularSegment `json:"popular_segments"`
	DropOffPoints         []DropOffPoint   `json:"drop_off_points"`
}
