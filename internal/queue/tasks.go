package queue

import (
	"encoding/json"
	"fmt"
)

// Task types
const (
	TypeProcessVideo = "pipeline:process_video"
)

// ProcessVideoPayload is the payload for video processing tasks
type ProcessVideoPayload struct {
	VideoID  string                 `json:"video_id"`
	Force    bool                   `json:"force"`
	Metadata map[string]interface{} `json:"metadata"`
}

// NewProcessVideoTask creates a new video processing task payload
func NewProcessVideoTask(videoID string, force bool, metadata map[string]interface{}) (*ProcessVideoPayload, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video ID is required")
	}

	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &ProcessVideoPayload{
		VideoID:  videoID,
		Force:    force,
		Metadata: metadata,
	}, nil
}

// Marshal serializes the payload to JSON
func (p *ProcessVideoPayload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalProcessVideoPayload deserializes JSON to payload
func UnmarshalProcessVideoPayload(data []byte) (*ProcessVideoPayload, error) {
	var payload ProcessVideoPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return &payload, nil
}
