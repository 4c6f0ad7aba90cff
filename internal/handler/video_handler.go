package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/creatorlink/product-pipeline-go/internal/db"
	dbmodels "github.com/creatorlink/product-pipeline-go/internal/db/models"
	"github.com/creatorlink/product-pipeline-go/internal/models"
	"github.com/creatorlink/product-pipeline-go/internal/service"
	"github.com/creatorlink/product-pipeline-go/pkg/logger"
)

// VideoHandler handles video submission and product retrieval requests.
type VideoHandler struct {
	videoService *service.VideoService
}

// NewVideoHandler creates a new VideoHandler instance.
func NewVideoHandler(videoService *service.VideoService) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
	}
}

// SubmitVideo accepts a creator video for product extraction.
func (h *VideoHandler) SubmitVideo(c *gin.Context) {
	var payload models.VideoIngestDTO

	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Log.Warn("Invalid request payload",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:    http.StatusBadRequest,
			Error:     "Bad Request",
			Message:   "Invalid request payload: " + err.Error(),
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
		return
	}

	logger.Log.Info("Received video submission",
		zap.String("videoId", payload.VideoID),
		zap.String("channelId", payload.ChannelID),
		zap.Bool("force", payload.Force),
	)

	response, err := h.videoService.SubmitVideo(c.Request.Context(), &payload)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, response)
}

// GetVideo returns the processing state of a submitted video.
func (h *VideoHandler) GetVideo(c *gin.Context) {
	videoID := c.Param("id")

	video, err := h.videoService.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toVideoStatusDTO(video))
}

// GetVideoProducts returns the reconciled product links for a video.
func (h *VideoHandler) GetVideoProducts(c *gin.Context) {
	videoID := c.Param("id")

	video, links, err := h.videoService.GetVideoProducts(c.Request.Context(), videoID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	products := make([]models.ProductLinkDTO, 0, len(links))
	for _, link := range links {
		products = append(products, models.ProductLinkDTO{
			Brand:       link.Brand,
			Name:        link.Name,
			ProductType: link.ProductType,
			SearchQuery: link.SearchQuery,
			ShopMyURL:   link.ShopMyURL,
			AmazonURL:   link.AmazonURL,
			OriginalURL: link.OriginalURL,
			Price:       link.Price,
			ImageURL:    link.ImageURL,
			Source:      link.Source,
		})
	}

	c.JSON(http.StatusOK, models.VideoProductsResponseDTO{
		VideoID:  video.VideoID,
		Status:   string(video.Status),
		Products: products,
	})
}

func toVideoStatusDTO(video *dbmodels.Video) models.VideoStatusDTO {
	dto := models.VideoStatusDTO{
		VideoID:      video.VideoID,
		ChannelID:    video.ChannelID,
		Title:        video.Title,
		Platform:     video.Platform,
		URL:          video.URL,
		Tags:         video.Tags,
		Status:       string(video.Status),
		ProductCount: video.ProductCount,
		Hashtags:     video.Hashtags,
		ProcessedAt:  video.ProcessedAt,
		CreatedAt:    video.CreatedAt,
	}
	if video.DraftID != nil {
		dto.DraftID = *video.DraftID
	}
	if video.Summary != nil {
		dto.Summary = *video.Summary
	}
	if video.Category != nil {
		dto.Category = *video.Category
	}
	if video.ErrorMessage != nil {
		dto.ErrorMessage = *video.ErrorMessage
	}
	return dto
}

func (h *VideoHandler) handleError(c *gin.Context, err error) {
	switch {
	case isValidationError(err):
		logger.Log.Warn("Validation error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:    http.StatusBadRequest,
			Error:     "Bad Request",
			Message:   err.Error(),
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
	case db.IsNotFound(err):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:    http.StatusNotFound,
			Error:     "Not Found",
			Message:   "Video not found",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
	default:
		logger.Log.Error("Unexpected error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:    http.StatusInternalServerError,
			Error:     "Internal Server Error",
			Message:   "An unexpected error occurred",
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
	}
}

func isValidationError(err error) bool {
	_, ok := err.(*service.ValidationError)
	return ok
}
