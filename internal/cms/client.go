// Package cms publishes processed videos as draft documents to the
// headless CMS, where editors review them before the shoppable page goes
// live.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/creatorlink/product-pipeline-go/internal/db/models"
	"github.com/creatorlink/product-pipeline-go/internal/model"
	apimodels "github.com/creatorlink/product-pipeline-go/internal/models"
)

// Config holds the CMS API connection settings.
type Config struct {
	BaseURL    string // e.g. "https://<project>.api.sanity.io"
	Dataset    string // e.g. "production"
	Token      string
	APIVersion string        // e.g. "2024-01-01"
	Timeout    time.Duration // Request timeout (default: 30 seconds)
}

// Client talks to the CMS mutation API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a CMS client from config, applying defaults for
// anything unset.
func NewClient(cfg Config) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-01-01"
	}
	if cfg.Dataset == "" {
		cfg.Dataset = "production"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Enabled reports whether the client is configured. Draft publishing is
// skipped entirely when disabled.
func (c *Client) Enabled() bool {
	return c.cfg.BaseURL != "" && c.cfg.Token != ""
}

// draftDocument is the CMS document shape for a shoppable video draft.
type draftDocument struct {
	ID       string         `json:"_id"`
	Type     string         `json:"_type"`
	VideoID  string         `json:"videoId"`
	Title    string         `json:"title"`
	Summary  string         `json:"summary,omitempty"`
	Category string         `json:"category,omitempty"`
	Hashtags []string       `json:"hashtags,omitempty"`
	Products []draftProduct `json:"products"`
}

type draftProduct struct {
	Key         string `json:"_key"`
	Brand       string `json:"brand"`
	Name        string `json:"name"`
	ProductType string `json:"productType"`
	ShopMyURL   string `json:"shopMyUrl,omitempty"`
	AmazonURL   string `json:"amazonUrl,omitempty"`
	OriginalURL string `json:"originalUrl,omitempty"`
	Price       string `json:"price,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type mutateRequest struct {
	Mutations []map[string]any `json:"mutations"`
}

type mutateResponse struct {
	TransactionID string `json:"transactionId"`
	Results       []struct {
		ID string `json:"id"`
	} `json:"results"`
}

// PublishVideoDraft creates or replaces the draft document for a processed
// video and returns the draft document ID.
func (c *Client) PublishVideoDraft(ctx context.Context, video *models.Video, analysis *apimodels.VideoAnalysis, products []model.ExtractedProduct) (string, error) {
	doc := draftDocument{
		ID:       "drafts.video-" + video.VideoID,
		Type:     "shoppableVideo",
		VideoID:  video.VideoID,
		Title:    video.Title,
		Products: make([]draftProduct, 0, len(products)),
	}

	if analysis != nil {
		doc.Summary = analysis.Summary
		doc.Category = analysis.Category
		doc.Hashtags = analysis.Hashtags
	}

	for _, p := range products {
		doc.Products = append(doc.Products, draftProduct{
			Key:         uuid.NewString(),
			Brand:       p.Brand,
			Name:        p.Name,
			ProductType: string(p.Type),
			ShopMyURL:   p.ShopMyURL,
			AmazonURL:   p.AmazonURL,
			OriginalURL: p.OriginalURL,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
		})
	}

	body, err := json.Marshal(mutateRequest{
		Mutations: []map[string]any{
			{"createOrReplace": doc},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal mutation: %w", err)
	}

	mutateURL := fmt.Sprintf("%s/v%s/data/mutate/%s?returnIds=true", c.cfg.BaseURL, c.cfg.APIVersion, c.cfg.Dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mutateURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send mutation to CMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("CMS API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed mutateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("parse CMS response: %w", err)
	}

	if len(parsed.Results) > 0 && parsed.Results[0].ID != "" {
		return parsed.Results[0].ID, nil
	}
	return doc.ID, nil
}
