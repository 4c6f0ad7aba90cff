// Package service provides business logic for video submission and the
// pipeline's supporting infrastructure.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	dbmodels "github.com/creatorlink/product-pipeline-go/internal/db/models"
	"github.com/creatorlink/product-pipeline-go/internal/db/repository"
	"github.com/creatorlink/product-pipeline-go/internal/models"
	"github.com/creatorlink/product-pipeline-go/internal/validation"
	"github.com/creatorlink/product-pipeline-go/pkg/logger"
)

// TaskEnqueuer enqueues pipeline runs.
type TaskEnqueuer interface {
	EnqueueProcessVideo(ctx context.Context, videoID string, force bool) error
}

// ProcessedChecker answers whether a video already completed a run.
type ProcessedChecker interface {
	IsProcessed(ctx context.Context, videoID string) (bool, error)
}

// VideoService handles video submission business logic.
type VideoService struct {
	videoRepo repository.VideoRepository
	linkRepo  repository.ProductLinkRepository
	queue     TaskEnqueuer
	processed ProcessedChecker // optional
	validator *validation.Validator
}

// NewVideoService creates a new VideoService instance.
func NewVideoService(
	videoRepo repository.VideoRepository,
	linkRepo repository.ProductLinkRepository,
	queue TaskEnqueuer,
	processed ProcessedChecker,
	validator *validation.Validator,
) *VideoService {
	return &VideoService{
		videoRepo: videoRepo,
		linkRepo:  linkRepo,
		queue:     queue,
		processed: processed,
		validator: validator,
	}
}

// SubmitVideo validates a submission, stores the video row and enqueues a
// pipeline run. Already-processed videos are skipped unless force is set.
func (vs *VideoService) SubmitVideo(ctx context.Context, payload *models.VideoIngestDTO) (*models.VideoIngestResponseDTO, error) {
	if err := vs.validator.ValidatePayload(payload); err != nil {
		logger.Log.Warn("Video submission validation failed",
			zap.Error(err),
			zap.String("videoId", payload.VideoID),
		)
		return nil, &ValidationError{Message: err.Error()}
	}

	if vs.processed != nil && !payload.Force {
		done, err := vs.processed.IsProcessed(ctx, payload.VideoID)
		if err != nil {
			logger.Log.Warn("Processed cache check failed, continuing with submission",
				zap.Error(err),
				zap.String("videoId", payload.VideoID),
			)
		} else if done {
			logger.Log.Info("Video already processed, skipping",
				zap.String("videoId", payload.VideoID),
			)
			return &models.VideoIngestResponseDTO{
				RunID:      uuid.Nil,
				VideoID:    payload.VideoID,
				Status:     "SKIPPED",
				Message:    "Video already processed; resubmit with force to rerun",
				ReceivedAt: time.Now(),
			}, nil
		}
	}

	video := dbmodels.NewVideo(payload.VideoID, payload.ChannelID, payload.Title, payload.Description)
	video.Platform = payload.Platform
	video.URL = payload.URL
	video.Tags = payload.Tags
	if err := vs.videoRepo.UpsertVideo(ctx, video); err != nil {
		logger.Log.Error("Failed to persist video",
			zap.Error(err),
			zap.String("videoId", payload.VideoID),
		)
		return nil, &ProcessingError{Message: "failed to persist video", Cause: err}
	}

	runID := uuid.New()
	if err := vs.queue.EnqueueProcessVideo(ctx, payload.VideoID, payload.Force); err != nil {
		logger.Log.Error("Failed to enqueue pipeline run",
			zap.Error(err),
			zap.String("videoId", payload.VideoID),
		)
		return nil, &ProcessingError{Message: "failed to enqueue pipeline run", Cause: err}
	}

	logger.Log.Info("Video accepted for processing",
		zap.String("runId", runID.String()),
		zap.String("videoId", payload.VideoID),
		zap.Bool("force", payload.Force),
	)

	return &models.VideoIngestResponseDTO{
		RunID:      runID,
		VideoID:    payload.VideoID,
		Status:     "ACCEPTED",
		Message:    "Video accepted for processing",
		ReceivedAt: time.Now(),
	}, nil
}

// GetVideo retrieves a video by ID.
func (vs *VideoService) GetVideo(ctx context.Context, videoID string) (*dbmodels.Video, error) {
	return vs.videoRepo.GetVideoByID(ctx, videoID)
}

// GetVideoProducts retrieves the reconciled product links for a video in
// description order. The video must exist.
func (vs *VideoService) GetVideoProducts(ctx context.Context, videoID string) (*dbmodels.Video, []*dbmodels.ProductLink, error) {
	video, err := vs.videoRepo.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, nil, err
	}

	links, err := vs.linkRepo.GetByVideoID(ctx, videoID)
	if err != nil {
		return nil, nil, err
	}

	return video, links, nil
}

// Custom errors

// ValidationError represents a submission payload validation error.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProcessingError represents an error that occurred during submission
// processing.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ProcessingError struct {
	Message string
	Cause   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}
