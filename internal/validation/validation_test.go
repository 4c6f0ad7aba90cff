package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/creatorlink/product-pipeline-go/internal/models"
)

func validPayload() *models.VideoIngestDTO {
	return &models.VideoIngestDTO{
		VideoID:     "abc123def45",
		Title:       "My Summer GRWM",
		Description: "PRODUCTS MENTIONED:\nKosas Revealer Concealer\nhttps://shopmy.us/p/222",
		ChannelID:   "UCabcdefghij1234567890AB",
	}
}

func TestValidatePayload(t *testing.T) {
	v := New(1048576, true)

	tests := []struct {
		name    string
		mutate  func(*models.VideoIngestDTO)
		wantErr string
	}{
		{name: "valid payload", mutate: func(p *models.VideoIngestDTO) {}},
		{
			name:    "short video id",
			mutate:  func(p *models.VideoIngestDTO) { p.VideoID = "ab" },
			wantErr: "invalid video ID",
		},
		{
			name:    "video id with invalid characters",
			mutate:  func(p *models.VideoIngestDTO) { p.VideoID = "abc 123!" },
			wantErr: "invalid video ID",
		},
		{
			name:   "missing channel id is allowed",
			mutate: func(p *models.VideoIngestDTO) { p.ChannelID = "" },
		},
		{
			name:    "malformed channel id",
			mutate:  func(p *models.VideoIngestDTO) { p.ChannelID = "not-a-channel" },
			wantErr: "invalid channel ID",
		},
		{
			name:    "empty description",
			mutate:  func(p *models.VideoIngestDTO) { p.Description = "" },
			wantErr: "description is required",
		},
		{
			name:    "oversized description",
			mutate:  func(p *models.VideoIngestDTO) { p.Description = strings.Repeat("x", 1048577) },
			wantErr: "exceeds maximum size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(payload)

			err := v.ValidatePayload(payload)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePayload_Disabled(t *testing.T) {
	v := New(10, false)

	payload := validPayload()
	payload.VideoID = "!"
	assert.NoError(t, v.ValidatePayload(payload), "disabled validator accepts everything")
}

func TestIsValidVideoID(t *testing.T) {
	v := New(1024, true)

	assert.True(t, v.IsValidVideoID("dQw4w9WgXcQ"))
	assert.True(t, v.IsValidVideoID("short"))
	assert.False(t, v.IsValidVideoID("ab"))
	assert.False(t, v.IsValidVideoID(""))
	assert.False(t, v.IsValidVideoID(strings.Repeat("a", 51)))
}
