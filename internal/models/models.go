// Package models contains the data models and DTOs for the product link
// extraction API.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingStatus represents the processing state of a video run.
type ProcessingStatus string

// ProcessingStatus constants define the possible states of video processing.
const (
	ProcessingStatusPending    ProcessingStatus = "PENDING"
	ProcessingStatusProcessing ProcessingStatus = "PROCESSING"
	ProcessingStatusCompleted  ProcessingStatus = "COMPLETED"
	ProcessingStatusFailed     ProcessingStatus = "FAILED"
)

// VideoIngestDTO represents the video submission request. Platform, URL
// and tags are stored as submitted; only the description is parsed.
type VideoIngestDTO struct {
	VideoID     string   `json:"videoId" binding:"required,max=50"`
	Title       string   `json:"title" binding:"max=500"`
	Description string   `json:"description" binding:"required"`
	ChannelID   string   `json:"channelId" binding:"max=50"`
	Platform    string   `json:"platform" binding:"max=50"`
	URL         string   `json:"url" binding:"max=2048"`
	Tags        []string `json:"tags"`
	Force       bool     `json:"force"`
}

// VideoIngestResponseDTO represents the video submission response.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoIngestResponseDTO struct {
	RunID      uuid.UUID `json:"runId"`
	VideoID    string    `json:"videoId"`
	ReceivedAt time.Time `json:"receivedAt"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
}

// ErrorResponse represents an error response.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

// ProductLinkDTO is the API view of one reconciled product link.
type ProductLinkDTO struct {
	Brand       string `json:"brand"`
	Name        string `json:"name"`
	ProductType string `json:"productType"`
	SearchQuery string `json:"searchQuery,omitempty"`
	ShopMyURL   string `json:"shopMyUrl,omitempty"`
	AmazonURL   string `json:"amazonUrl,omitempty"`
	OriginalURL string `json:"originalUrl,omitempty"`
	Price       string `json:"price,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Source      string `json:"source,omitempty"`
}

// VideoProductsResponseDTO represents the product list for a video.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoProductsResponseDTO struct {
	VideoID  string           `json:"videoId"`
	Status   string           `json:"status"`
	Products []ProductLinkDTO `json:"products"`
}

// VideoStatusDTO represents the processing state of a submitted video.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoStatusDTO struct {
	VideoID      string     `json:"videoId"`
	ChannelID    string     `json:"channelId,omitempty"`
	Title        string     `json:"title,omitempty"`
	Platform     string     `json:"platform,omitempty"`
	URL          string     `json:"url,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Status       string     `json:"status"`
	ProductCount int        `json:"productCount"`
	DraftID      string     `json:"draftId,omitempty"`
	Summary      string     `json:"summary,omitempty"`
	Category     string     `json:"category,omitempty"`
	Hashtags     []string   `json:"hashtags,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	ProcessedAt  *time.Time `json:"processedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// VideoAnalysis is the structured output of the LLM content analysis pass.
type VideoAnalysis struct {
	Summary  string   `json:"summary"`
	Category string   `json:"category"`
	Hashtags []string `json:"hashtags"`
}

// DraftCreatedEvent is published to the message broker after a CMS draft is
// created for a processed video.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DraftCreatedEvent struct {
	RunID        uuid.UUID `json:"runId"`
	VideoID      string    `json:"videoId"`
	DraftID      string    `json:"draftId"`
	ProductCount int       `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
}
