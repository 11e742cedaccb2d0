package fiber

// RecordActivityRequest represents an activity payload
// @Description Activity ingestion DTO
type RecordActivityRequest struct {
	Name       string         `json:"name" validate:"required"`
	Channel    string         `json:"channel" validate:"required"`
	CampaignID string         `json:"campaign_id"`
	UserID     string         `json:"user_id" validate:"required"`
	Timestamp  int64          `json:"timestamp" validate:"gt=0"`
	Tags       []string       `json:"tags"`
	Metadata   map[string]any `json:"metadata"`
}

type RecordActivityResponse struct {
	Status string `json:"status" example:"created"`
}

type RecordActivitiesRequest struct {
	Activities []RecordActivityRequest `json:"activities" validate:"required,min=1,max=1000,dive"`
}

type RecordActivitiesResponse struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_activity"`
	Message string `json:"message,omitempty" example:"Activity payload is invalid"`
}
