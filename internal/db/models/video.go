package models

import "time"

// ProcessingStatus mirrors models.ProcessingStatus at the persistence layer.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "PENDING"
	StatusProcessing ProcessingStatus = "PROCESSING"
	StatusCompleted  ProcessingStatus = "COMPLETED"
	StatusFailed     ProcessingStatus = "FAILED"
)

// Video represents a creator video submitted for product extraction.
type Video struct {
	VideoID      string           `db:"video_id"`
	ChannelID    string           `db:"channel_id"`
	Title        string           `db:"title"`
	Description  string           `db:"description"`
	Platform     string           `db:"platform"`
	URL          string           `db:"url"`
	Tags         []string         `db:"tags"`
	Status       ProcessingStatus `db:"status"`
	ProductCount int              `db:"product_count"`
	DraftID      *string          `db:"draft_id"`
	Summary      *string          `db:"summary"`
	Category     *string          `db:"category"`
	Hashtags     []string         `db:"hashtags"`
	ErrorMessage *string          `db:"error_message"`
	ProcessedAt  *time.Time       `db:"processed_at"`
	CreatedAt    time.Time        `db:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at"`
}

// NewVideo creates a pending Video from a submission.
func NewVideo(videoID, channelID, title, description string) *Video {
	now := time.Now()
	return &Video{
		VideoID:     videoID,
		ChannelID:   channelID,
		Title:       title,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
