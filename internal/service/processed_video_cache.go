package service

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/creatorlink/product-pipeline-go/internal/db/repository"
)

const (
	processedVideosSetKey = "processed_videos:set"
)

// ProcessedVideoCache provides an O(1) membership check for already
// processed video IDs using a Redis set, so repeat submissions can be
// short-circuited before a pipeline run is enqueued.
type ProcessedVideoCache struct {
	redisClient *redis.Client
	repo        repository.VideoRepository
}

// NewProcessedVideoCache creates a new ProcessedVideoCache.
func NewProcessedVideoCache(redisClient *redis.Client, repo repository.VideoRepository) *ProcessedVideoCache {
	return &ProcessedVideoCache{
		redisClient: redisClient,
		repo:        repo,
	}
}

// LoadFromDB loads all completed video IDs from the database into the Redis
// cache. This should be called on application startup.
func (c *ProcessedVideoCache) LoadFromDB(ctx context.Context) error {
	videoIDs, err := c.repo.GetProcessedVideoIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load processed video IDs from database: %w", err)
	}

	if len(videoIDs) == 0 {
		log.Println("No processed videos found in database")
		return nil
	}

	// Clear existing set and add all video IDs
	pipe := c.redisClient.Pipeline()
	pipe.Del(ctx, processedVideosSetKey)

	members := make([]interface{}, len(videoIDs))
	for i, id := range videoIDs {
		members[i] = id
	}
	pipe.SAdd(ctx, processedVideosSetKey, members...)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to load processed videos into Redis: %w", err)
	}

	log.Printf("Loaded %d processed video IDs into cache", len(videoIDs))
	return nil
}

// IsProcessed checks if a video ID has already completed a pipeline run.
func (c *ProcessedVideoCache) IsProcessed(ctx context.Context, videoID string) (bool, error) {
	result, err := c.redisClient.SIsMember(ctx, processedVideosSetKey, videoID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check if video is processed: %w", err)
	}
	return result, nil
}

// MarkProcessed adds a video ID to the processed set. This should be called
// after a run completes successfully.
func (c *ProcessedVideoCache) MarkProcessed(ctx context.Context, videoID string) error {
	err := c.redisClient.SAdd(ctx, processedVideosSetKey, videoID).Err()
	if err != nil {
		return fmt.Errorf("failed to add video to processed cache: %w", err)
	}
	return nil
}

// Remove removes a video ID from the processed set, forcing the next
// submission to run the pipeline again.
func (c *ProcessedVideoCache) Remove(ctx context.Context, videoID string) error {
	err := c.redisClient.SRem(ctx, processedVideosSetKey, videoID).Err()
	if err != nil {
		return fmt.Errorf("failed to remove video from processed cache: %w", err)
	}
	return nil
}

// Sync reloads all processed video IDs from the database, ensuring cache
// consistency.
func (c *ProcessedVideoCache) Sync(ctx context.Context) error {
	return c.LoadFromDB(ctx)
}

// GetCount returns the number of processed videos in the cache.
func (c *ProcessedVideoCache) GetCount(ctx context.Context) (int64, error) {
	count, err := c.redisClient.SCard(ctx, processedVideosSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get processed videos count: %w", err)
	}
	return count, nil
}
