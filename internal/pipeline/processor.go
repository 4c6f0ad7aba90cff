package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	dbmodels "github.com/creatorlink/product-pipeline-go/internal/db/models"
	"github.com/creatorlink/product-pipeline-go/internal/db/repository"
	"github.com/creatorlink/product-pipeline-go/internal/model"
	"github.com/creatorlink/product-pipeline-go/internal/models"
)

// Extractor parses product candidates out of a video description.
type Extractor interface {
	Extract(ctx context.Context, description string) []model.ExtractedProduct
}

// ContentAnalyzer produces a summary, category and hashtags for a video.
type ContentAnalyzer interface {
	AnalyzeVideoContent(ctx context.Context, title, description string) (*models.VideoAnalysis, string, error)
	Enabled() bool
}

// DraftPublisher pushes a processed video to the CMS as a draft document.
type DraftPublisher interface {
	PublishVideoDraft(ctx context.Context, video *dbmodels.Video, analysis *models.VideoAnalysis, products []model.ExtractedProduct) (string, error)
	Enabled() bool
}

// EventPublisher announces draft creation to downstream consumers.
type EventPublisher interface {
	PublishDraftCreated(ctx context.Context, event *models.DraftCreatedEvent) error
}

// ProcessedMarker records a video as processed in the fast-path cache.
type ProcessedMarker interface {
	MarkProcessed(ctx context.Context, videoID string) error
}

// Result summarizes one pipeline run for a video.
type Result struct {
	RunID    uuid.UUID
	VideoID  string
	Products []model.ExtractedProduct
	Analysis *models.VideoAnalysis
	DraftID  string
}

// Processor runs the full per-video pipeline. Parsing, reconciliation and
// persistence are mandatory; analysis, CMS publishing, eventing and the
// processed cache are optional collaborators that may be nil. A failure in
// an optional step is logged and does not fail the run.
type Processor struct {
	extractor  Extractor
	reconciler *Reconciler
	videoRepo  repository.VideoRepository
	linkRepo   repository.ProductLinkRepository

	analyzer  ContentAnalyzer
	cms       DraftPublisher
	events    EventPublisher
	processed ProcessedMarker
}

// NewProcessor creates a Processor with the mandatory collaborators.
func NewProcessor(
	extractor Extractor,
	reconciler *Reconciler,
	videoRepo repository.VideoRepository,
	linkRepo repository.ProductLinkRepository,
) *Processor {
	return &Processor{
		extractor:  extractor,
		reconciler: reconciler,
		videoRepo:  videoRepo,
		linkRepo:   linkRepo,
	}
}

// WithAnalyzer attaches the optional LLM content analyzer.
func (p *Processor) WithAnalyzer(analyzer ContentAnalyzer) *Processor {
	p.analyzer = analyzer
	return p
}

// WithDraftPublisher attaches the optional CMS draft publisher.
func (p *Processor) WithDraftPublisher(publisher DraftPublisher) *Processor {
	p.cms = publisher
	return p
}

// WithEventPublisher attaches the optional broker event publisher.
func (p *Processor) WithEventPublisher(events EventPublisher) *Processor {
	p.events = events
	return p
}

// WithProcessedMarker attaches the optional processed-video cache.
func (p *Processor) WithProcessedMarker(marker ProcessedMarker) *Processor {
	p.processed = marker
	return p
}

// ProcessVideo runs the pipeline for one video. The returned error is
// non-nil only for failures that should be retried: repository errors and
// missing videos. Optional-collaborator failures degrade the result
// instead.
func (p *Processor) ProcessVideo(ctx context.Context, video *dbmodels.Video) (*Result, error) {
	runID := uuid.New()
	log.Printf("[Processor] run=%s video=%s starting", runID, video.VideoID)

	if err := p.videoRepo.MarkProcessing(ctx, video.VideoID); err != nil {
		return nil, fmt.Errorf("mark video processing: %w", err)
	}

	candidates := p.extractor.Extract(ctx, video.Description)
	products := p.reconciler.Reconcile(ctx, candidates)
	log.Printf("[Processor] run=%s video=%s extracted %d candidates, reconciled to %d products",
		runID, video.VideoID, len(candidates), len(products))

	if err := p.persistLinks(ctx, video.VideoID, products); err != nil {
		p.failVideo(ctx, video.VideoID, err)
		return nil, fmt.Errorf("persist product links: %w", err)
	}

	result := &Result{
		RunID:    runID,
		VideoID:  video.VideoID,
		Products: products,
	}

	result.Analysis = p.analyzeVideo(ctx, runID, video)
	result.DraftID = p.publishDraft(ctx, runID, video, result.Analysis, products)

	video.ProductCount = len(products)
	if result.Analysis != nil {
		video.Summary = &result.Analysis.Summary
		video.Category = &result.Analysis.Category
		video.Hashtags = result.Analysis.Hashtags
	}
	if result.DraftID != "" {
		video.DraftID = &result.DraftID
	}

	if err := p.videoRepo.MarkCompleted(ctx, video); err != nil {
		return nil, fmt.Errorf("mark video completed: %w", err)
	}

	if p.processed != nil {
		if err := p.processed.MarkProcessed(ctx, video.VideoID); err != nil {
			log.Printf("[Processor] run=%s video=%s failed to update processed cache: %v", runID, video.VideoID, err)
		}
	}

	log.Printf("[Processor] run=%s video=%s completed: products=%d draft=%q",
		runID, video.VideoID, len(products), result.DraftID)
	return result, nil
}

func (p *Processor) persistLinks(ctx context.Context, videoID string, products []model.ExtractedProduct) error {
	links := make([]*dbmodels.ProductLink, 0, len(products))
	now := time.Now()

	for i, product := range products {
		links = append(links, &dbmodels.ProductLink{
			VideoID:     videoID,
			Brand:       product.Brand,
			Name:        product.Name,
			ProductType: string(product.Type),
			SearchQuery: product.SearchQuery,
			ShopMyURL:   product.ShopMyURL,
			AmazonURL:   product.AmazonURL,
			OriginalURL: product.OriginalURL,
			Price:       product.Price,
			ImageURL:    product.ImageURL,
			Source:      string(product.Source),
			Position:    i,
			CreatedAt:   now,
		})
	}

	return p.linkRepo.ReplaceForVideo(ctx, videoID, links)
}

func (p *Processor) analyzeVideo(ctx context.Context, runID uuid.UUID, video *dbmodels.Video) *models.VideoAnalysis {
	if p.analyzer == nil || !p.analyzer.Enabled() {
		return nil
	}

	analysis, _, err := p.analyzer.AnalyzeVideoContent(ctx, video.Title, video.Description)
	if err != nil {
		log.Printf("[Processor] run=%s video=%s content analysis failed: %v", runID, video.VideoID, err)
		return nil
	}
	return analysis
}

func (p *Processor) publishDraft(ctx context.Context, runID uuid.UUID, video *dbmodels.Video, analysis *models.VideoAnalysis, products []model.ExtractedProduct) string {
	if p.cms == nil || !p.cms.Enabled() {
		return ""
	}

	draftID, err := p.cms.PublishVideoDraft(ctx, video, analysis, products)
	if err != nil {
		log.Printf("[Processor] run=%s video=%s draft publish failed: %v", runID, video.VideoID, err)
		return ""
	}

	if p.events != nil {
		event := &models.DraftCreatedEvent{
			RunID:        runID,
			VideoID:      video.VideoID,
			DraftID:      draftID,
			ProductCount: len(products),
			CreatedAt:    time.Now(),
		}
		if err := p.events.PublishDraftCreated(ctx, event); err != nil {
			log.Printf("[Processor] run=%s video=%s failed to publish draft.created event: %v", runID, video.VideoID, err)
		}
	}

	return draftID
}

func (p *Processor) failVideo(ctx context.Context, videoID string, cause error) {
	if err := p.videoRepo.MarkFailed(ctx, videoID, cause.Error()); err != nil {
		log.Printf("[Processor] video=%s failed to record failure: %v", videoID, err)
	}
}
