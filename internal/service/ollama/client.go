// Package ollama provides the LLM client used for video content analysis.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/creatorlink/product-pipeline-go/internal/models"
)

// Client is a client for interacting with an Ollama LLM server
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// Config holds the configuration for the Ollama client
type Config struct {
	BaseURL string        // e.g., "http://ollama.example.com:11434"
	Model   string        // e.g., "llama3:8b"
	APIKey  string        // Optional API key for authentication
	Timeout time.Duration // Request timeout (default: 60 seconds)
}

// NewClient creates a new Ollama client
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		model:   config.Model,
		apiKey:  config.APIKey,
		timeout: config.Timeout,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Enabled reports whether the client is configured with a server URL.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// ollamaGenerateRequest represents a request to the Ollama /api/generate endpoint
type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Format string `json:"format"` // "json" for structured output
	Stream bool   `json:"stream"` // false for non-streaming
}

// ollamaGenerateResponse represents a response from the Ollama /api/generate endpoint
type ollamaGenerateResponse struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Response  string    `json:"response"` // The actual JSON response from the LLM
	Done      bool      `json:"done"`
}

// knownCategories are the coarse content categories the prompt asks for.
// Anything else the model invents is folded into "other".
var knownCategories = []string{"beauty", "fashion", "lifestyle", "fitness", "food", "tech", "other"}

// AnalyzeVideoContent sends a video title and description to the LLM to
// produce a short summary, a content category and suggested hashtags.
// Returns the parsed analysis, the raw JSON response, and any error.
func (c *Client) AnalyzeVideoContent(ctx context.Context, title, description string) (*models.VideoAnalysis, string, error) {
	prompt := buildContentAnalysisPrompt(title, description)

	reqPayload := ollamaGenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Format: "json",
		Stream: false,
	}

	reqBody, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("send request to Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("ollama API returned status %d: %s", resp.StatusCode, string(body))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response body: %w", err)
	}

	var ollamaResp ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &ollamaResp); err != nil {
		return nil, "", fmt.Errorf("parse Ollama response: %w", err)
	}

	// The actual LLM response is in the "response" field
	rawLLMResponse := strings.TrimSpace(ollamaResp.Response)

	var analysis models.VideoAnalysis
	if err := json.Unmarshal([]byte(rawLLMResponse), &analysis); err != nil {
		return nil, rawLLMResponse, fmt.Errorf("parse LLM JSON response: %w (raw: %s)", err, rawLLMResponse)
	}

	normalizeAnalysis(&analysis)

	return &analysis, rawLLMResponse, nil
}

// normalizeAnalysis cleans up model output: unknown categories fold into
// "other", hashtags lose their leading '#' and are capped at ten.
func normalizeAnalysis(analysis *models.VideoAnalysis) {
	analysis.Category = strings.ToLower(strings.TrimSpace(analysis.Category))

	valid := false
	for _, category := range knownCategories {
		if analysis.Category == category {
			valid = true
			break
		}
	}
	if !valid {
		analysis.Category = "other"
	}

	cleaned := make([]string, 0, len(analysis.Hashtags))
	for _, tag := range analysis.Hashtags {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		cleaned = append(cleaned, tag)
		if len(cleaned) == 10 {
			break
		}
	}
	analysis.Hashtags = cleaned
}

// buildContentAnalysisPrompt constructs the prompt for content analysis
func buildContentAnalysisPrompt(title, description string) string {
	return fmt.Sprintf(`You are analyzing a creator video to prepare it for a shoppable content page.

Video Title: %s

Video Description:
%s

Provide:
1. summary: A 2-3 sentence summary of what the video covers, written for viewers browsing a content feed
2. category: Exactly one of: beauty, fashion, lifestyle, fitness, food, tech, other
3. hashtags: 5 to 10 short hashtags (without the # symbol) relevant to the video content

Return your response as JSON in this exact format:
{
  "summary": "A short summary of the video.",
  "category": "beauty",
  "hashtags": ["grwm", "makeuptutorial", "skincare"]
}

Only return the JSON, no additional text or explanation.`, title, description)
}

// GetPromptText returns the prompt text that would be sent for a given title and description
// This is useful for storing the prompt in the database
func (c *Client) GetPromptText(title, description string) string {
	return buildContentAnalysisPrompt(title, description)
}
