package domain

import "time"

// Activity is one stored occurrence of a tracked action. The forecast engine
// only reads its OccurredAt.
type Activity struct {
	Name       string
	Channel    string
	CampaignID string
	UserID     string
	OccurredAt time.Time
	Tags       []string
	Metadata   map[string]any
	DedupeKey  string
}
