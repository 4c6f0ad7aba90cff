package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/creatorlink/product-pipeline-go/internal/db"
	"github.com/creatorlink/product-pipeline-go/internal/db/repository"
	"github.com/creatorlink/product-pipeline-go/internal/metrics"
	"github.com/creatorlink/product-pipeline-go/internal/pipeline"
)

// ProcessedChecker answers whether a video already completed a run.
type ProcessedChecker interface {
	IsProcessed(ctx context.Context, videoID string) (bool, error)
}

// ProcessVideoHandler handles video processing tasks
type ProcessVideoHandler struct {
	videoRepo repository.VideoRepository
	processor *pipeline.Processor
	processed ProcessedChecker // optional
	callbacks *CallbackManager // optional
}

// NewProcessVideoHandler creates a new video processing task handler
func NewProcessVideoHandler(
	videoRepo repository.VideoRepository,
	processor *pipeline.Processor,
	processed ProcessedChecker,
	callbacks *CallbackManager,
) *ProcessVideoHandler {
	return &ProcessVideoHandler{
		videoRepo: videoRepo,
		processor: processor,
		processed: processed,
		callbacks: callbacks,
	}
}

// ProcessTask implements asynq.HandlerFunc
func (h *ProcessVideoHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := UnmarshalProcessVideoPayload(task.Payload())
	if err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log.Printf("[Handler] Processing video: video_id=%s, force=%t", payload.VideoID, payload.Force)

	// Skip videos that already completed a run unless the caller forces a
	// rerun. Cache errors fall through to processing rather than dropping
	// the task.
	if h.processed != nil && !payload.Force {
		done, err := h.processed.IsProcessed(ctx, payload.VideoID)
		if err != nil {
			log.Printf("[Handler] Warning: processed cache check failed for video %s: %v", payload.VideoID, err)
		} else if done {
			log.Printf("[Handler] Video %s already processed, skipping", payload.VideoID)
			metrics.VideosSkipped.Inc()
			return nil
		}
	}

	video, err := h.videoRepo.GetVideoByID(ctx, payload.VideoID)
	if err != nil {
		if db.IsNotFound(err) {
			// The row is gone; retrying will not help.
			log.Printf("[Handler] Video %s not found, dropping task", payload.VideoID)
			return nil
		}
		return fmt.Errorf("failed to load video %s: %w", payload.VideoID, err)
	}

	result, err := h.processor.ProcessVideo(ctx, video)
	if err != nil {
		metrics.VideosFailed.Inc()
		return fmt.Errorf("failed to process video %s: %w", payload.VideoID, err)
	}

	metrics.VideosProcessed.Inc()
	metrics.ProductsExtracted.Add(float64(len(result.Products)))

	if h.callbacks != nil {
		h.callbacks.TriggerCallbacks(ctx, result)
	}

	log.Printf("[Handler] Successfully processed video: video_id=%s, products=%d", payload.VideoID, len(result.Products))
	return nil
}

// HandleProcessVideoTask returns an asynq.HandlerFunc for video processing
func (h *ProcessVideoHandler) HandleProcessVideoTask() asynq.HandlerFunc {
	return h.ProcessTask
}

// Server wraps asynq server for processing tasks
type Server struct {
	asynqServer *asynq.Server
	mux         *asynq.ServeMux
}

// NewServer creates a new task processing server
func NewServer(redisAddr string, concurrency int, handler *ProcessVideoHandler) (*Server, error) {
	// Parse Redis URL to extract connection details (host, password, db, TLS)
	redisOpt, err := ParseRedisURL(redisAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 10,
			},
			StrictPriority: false, // Process all queues fairly
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Server] Task failed: type=%s, error=%v", task.Type(), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeProcessVideo, handler.HandleProcessVideoTask())

	return &Server{
		asynqServer: srv,
		mux:         mux,
	}, nil
}

// Start starts the server
func (s *Server) Start() error {
	log.Println("[Server] Starting task processing server...")
	return s.asynqServer.Start(s.mux)
}

// Stop gracefully stops the server
func (s *Server) Stop() {
	log.Println("[Server] Shutting down task processing server...")
	s.asynqServer.Shutdown()
}

// Run starts the server and blocks until shutdown
func (s *Server) Run() error {
	return s.Start()
}
