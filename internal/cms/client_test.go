package cms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbmodels "github.com/creatorlink/product-pipeline-go/internal/db/models"
	"github.com/creatorlink/product-pipeline-go/internal/model"
	"github.com/creatorlink/product-pipeline-go/internal/models"
)

func testVideo() *dbmodels.Video {
	return dbmodels.NewVideo("abc123def45", "UC001", "My Summer GRWM", "description")
}

func TestPublishVideoDraft(t *testing.T) {
	var captured mutateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2024-01-01/data/mutate/production", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("returnIds"))
		assert.Equal(t, "Bearer sk-test-token", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_, _ = w.Write([]byte(`{"transactionId":"tx1","results":[{"id":"drafts.video-abc123def45"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "sk-test-token"})

	analysis := &models.VideoAnalysis{
		Summary:  "A summer get-ready-with-me.",
		Category: "beauty",
		Hashtags: []string{"grwm", "summermakeup"},
	}
	products := []model.ExtractedProduct{
		{
			Brand:     "Kosas",
			Name:      "Revealer Concealer",
			Type:      model.ProductTypeMakeup,
			ShopMyURL: "https://shopmy.us/p/222",
			AmazonURL: "https://www.amazon.com/dp/B08XYZ?tag=creator-20",
		},
	}

	draftID, err := client.PublishVideoDraft(context.Background(), testVideo(), analysis, products)
	require.NoError(t, err)
	assert.Equal(t, "drafts.video-abc123def45", draftID)

	require.Len(t, captured.Mutations, 1)
	raw, err := json.Marshal(captured.Mutations[0]["createOrReplace"])
	require.NoError(t, err)

	var doc draftDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "drafts.video-abc123def45", doc.ID)
	assert.Equal(t, "shoppableVideo", doc.Type)
	assert.Equal(t, "My Summer GRWM", doc.Title)
	assert.Equal(t, "beauty", doc.Category)
	require.Len(t, doc.Products, 1)
	assert.Equal(t, "Kosas", doc.Products[0].Brand)
	assert.Equal(t, "makeup", doc.Products[0].ProductType)
	assert.NotEmpty(t, doc.Products[0].Key)
}

func TestPublishVideoDraft_NilAnalysis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "sk-test-token"})

	draftID, err := client.PublishVideoDraft(context.Background(), testVideo(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "drafts.video-abc123def45", draftID, "falls back to the document ID when the API omits result IDs")
}

func TestPublishVideoDraft_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "bad-token"})

	_, err := client.PublishVideoDraft(context.Background(), testVideo(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestClient_Enabled(t *testing.T) {
	assert.True(t, NewClient(Config{BaseURL: "https://cms.example.com", Token: "tok"}).Enabled())
	assert.False(t, NewClient(Config{BaseURL: "https://cms.example.com"}).Enabled())
	assert.False(t, NewClient(Config{Token: "tok"}).Enabled())
}
