package validation

import (
	"fmt"
	"regexp"

	"github.com/creatorlink/product-pipeline-go/internal/models"
)

var (
	videoIDRegex   = regexp.MustCompile(`^[a-zA-Z0-9_-]{5,50}$`)
	channelIDRegex = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22}$`)
)

type Validator struct {
	maxDescriptionSize int64
	validationEnabled  bool
}

func New(maxDescriptionSize int64, enabled bool) *Validator {
	return &Validator{
		maxDescriptionSize: maxDescriptionSize,
		validationEnabled:  enabled,
	}
}

func (v *Validator) ValidatePayload(payload *models.VideoIngestDTO) error {
	if !v.validationEnabled {
		return nil
	}

	// Validate video ID format
	if !videoIDRegex.MatchString(payload.VideoID) {
		return fmt.Errorf("invalid video ID format: %s", payload.VideoID)
	}

	// Channel ID is optional but must be well formed when present
	if payload.ChannelID != "" && !channelIDRegex.MatchString(payload.ChannelID) {
		return fmt.Errorf("invalid channel ID format: %s", payload.ChannelID)
	}

	// Validate description size
	if payload.Description == "" {
		return fmt.Errorf("description is required")
	}
	if int64(len(payload.Description)) > v.maxDescriptionSize {
		return fmt.Errorf("description exceeds maximum size of %d bytes", v.maxDescriptionSize)
	}

	return nil
}

func (v *Validator) IsValidVideoID(videoID string) bool {
	return videoIDRegex.MatchString(videoID)
}

func (v *Validator) IsValidChannelID(channelID string) bool {
	return channelIDRegex.MatchString(channelID)
}
