package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/creatorlink/product-pipeline-go/internal/db"
	"github.com/creatorlink/product-pipeline-go/internal/db/models"
)

// VideoRepository defines operations for managing submitted videos.
type VideoRepository interface {
	// UpsertVideo creates a new video or refreshes the title and description
	// of an existing one, resetting it to PENDING.
	UpsertVideo(ctx context.Context, video *models.Video) error

	// GetVideoByID retrieves a single video by ID.
	GetVideoByID(ctx context.Context, videoID string) (*models.Video, error)

	// ListVideos retrieves videos with pagination, newest first.
	ListVideos(ctx context.Context, limit, offset int) ([]*models.Video, error)

	// MarkProcessing transitions a video to PROCESSING.
	MarkProcessing(ctx context.Context, videoID string) error

	// MarkCompleted stores the run results carried on the video struct and
	// transitions it to COMPLETED.
	MarkCompleted(ctx context.Context, video *models.Video) error

	// MarkFailed transitions a video to FAILED with the given error message.
	MarkFailed(ctx context.Context, videoID, errorMessage string) error

	// GetProcessedVideoIDs returns the IDs of all COMPLETED videos.
	GetProcessedVideoIDs(ctx context.Context) ([]string, error)
}

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

const videoColumns = `video_id, channel_id, title, description, platform, url, tags, status, product_count, draft_id, summary, category, hashtags, error_message, processed_at, created_at, updated_at`

func (r *videoRepository) UpsertVideo(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (video_id, channel_id, title, description, platform, url, tags, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (video_id) DO UPDATE
		SET channel_id = EXCLUDED.channel_id,
		    title = EXCLUDED.title,
		    description = EXCLUDED.description,
		    platform = EXCLUDED.platform,
		    url = EXCLUDED.url,
		    tags = EXCLUDED.tags,
		    status = EXCLUDED.status,
		    updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		video.VideoID,
		video.ChannelID,
		video.Title,
		video.Description,
		video.Platform,
		video.URL,
		video.Tags,
		video.Status,
		video.CreatedAt,
		video.UpdatedAt,
	).Scan(
		&video.CreatedAt,
		&video.UpdatedAt,
	)

	if err != nil {
		return db.WrapError(err, "upsert video")
	}

	return nil
}

func (r *videoRepository) GetVideoByID(ctx context.Context, videoID string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE video_id = $1`

	video := &models.Video{}
	err := r.pool.QueryRow(ctx, query, videoID).Scan(
		&video.VideoID,
		&video.ChannelID,
		&video.Title,
		&video.Description,
		&video.Platform,
		&video.URL,
		&video.Tags,
		&video.Status,
		&video.ProductCount,
		&video.DraftID,
		&video.Summary,
		&video.Category,
		&video.Hashtags,
		&video.ErrorMessage,
		&video.ProcessedAt,
		&video.CreatedAt,
		&video.UpdatedAt,
	)

	if err != nil {
		return nil, db.WrapError(err, "get video by id")
	}

	return video, nil
}

func (r *videoRepository) ListVideos(ctx context.Context, limit, offset int) ([]*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, db.WrapError(err, "list videos")
	}
	defer rows.Close()

	return scanVideos(rows)
}

func (r *videoRepository) MarkProcessing(ctx context.Context, videoID string) error {
	query := `
		UPDATE videos
		SET status = $2, error_message = NULL, updated_at = NOW()
		WHERE video_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, videoID, models.StatusProcessing)
	if err != nil {
		return db.WrapError(err, "mark video processing")
	}
	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "mark video processing")
	}

	return nil
}

func (r *videoRepository) MarkCompleted(ctx context.Context, video *models.Video) error {
	query := `
		UPDATE videos
		SET status = $2,
		    product_count = $3,
		    draft_id = $4,
		    summary = $5,
		    category = $6,
		    hashtags = $7,
		    error_message = NULL,
		    processed_at = NOW(),
		    updated_at = NOW()
		WHERE video_id = $1
		RETURNING processed_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		video.VideoID,
		models.StatusCompleted,
		video.ProductCount,
		video.DraftID,
		video.Summary,
		video.Category,
		video.Hashtags,
	).Scan(
		&video.ProcessedAt,
		&video.UpdatedAt,
	)

	if err != nil {
		return db.WrapError(err, "mark video completed")
	}

	video.Status = models.StatusCompleted
	return nil
}

func (r *videoRepository) MarkFailed(ctx context.Context, videoID, errorMessage string) error {
	query := `
		UPDATE videos
		SET status = $2, error_message = $3, updated_at = NOW()
		WHERE video_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, videoID, models.StatusFailed, errorMessage)
	if err != nil {
		return db.WrapError(err, "mark video failed")
	}
	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "mark video failed")
	}

	return nil
}

func (r *videoRepository) GetProcessedVideoIDs(ctx context.Context) ([]string, error) {
	query := `SELECT video_id FROM videos WHERE status = $1`

	rows, err := r.pool.Query(ctx, query, models.StatusCompleted)
	if err != nil {
		return nil, db.WrapError(err, "get processed video ids")
	}
	defer rows.Close()

	var videoIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan video id: %w", err)
		}
		videoIDs = append(videoIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video ids: %w", err)
	}

	return videoIDs, nil
}

// Helper function to scan multiple videos from query results
func scanVideos(rows pgx.Rows) ([]*models.Video, error) {
	var videos []*models.Video

	for rows.Next() {
		video := &models.Video{}
		err := rows.Scan(
			&video.VideoID,
			&video.ChannelID,
			&video.Title,
			&video.Description,
			&video.Platform,
			&video.URL,
			&video.Tags,
			&video.Status,
			&video.ProductCount,
			&video.DraftID,
			&video.Summary,
			&video.Category,
			&video.Hashtags,
			&video.ErrorMessage,
			&video.ProcessedAt,
			&video.CreatedAt,
			&video.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}
