package retail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		AccessKey:          "AKIDEXAMPLE",
		SecretKey:          "secret",
		PartnerTag:         "creator-20",
		MinRequestInterval: 5 * time.Millisecond,
	}
}

func newTestClient(cfg Config, serverURL string) *Client {
	c := NewClient(cfg)
	c.baseURL = serverURL
	return c
}

const sampleResponse = `{
	"SearchResult": {
		"Items": [
			{
				"ASIN": "B000YJ2SLG",
				"DetailPageURL": "https://www.amazon.com/dp/B000YJ2SLG",
				"ItemInfo": {
					"Title": {"DisplayValue": "CeraVe Moisturizing Cream 19oz"},
					"ByLineInfo": {"Brand": {"DisplayValue": "CeraVe"}}
				},
				"Offers": {
					"Listings": [
						{
							"Price": {"DisplayAmount": "$16.08"},
							"Availability": {"Type": "Now"}
						}
					]
				},
				"Images": {
					"Primary": {"Large": {"URL": "https://m.media-amazon.com/images/I/cream.jpg"}}
				}
			}
		]
	}
}`

func TestSearch_MapsFirstItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchPath, r.URL.Path)
		assert.Equal(t, searchTarget, r.Header.Get("X-Amz-Target"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "AWS4-HMAC-SHA256 Credential="))

		var body searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cerave moisturizing cream", body.Keywords)
		assert.Equal(t, "Beauty", body.SearchIndex)
		assert.Equal(t, "creator-20", body.PartnerTag)
		assert.Equal(t, "Associates", body.PartnerType)

		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	c := newTestClient(testConfig(), server.URL)

	result := c.Search(context.Background(), "CeraVe Moisturizing Cream", "")
	require.NotNil(t, result)
	assert.Equal(t, "B000YJ2SLG", result.ASIN)
	assert.Equal(t, "CeraVe Moisturizing Cream 19oz", result.Title)
	assert.Equal(t, "https://www.amazon.com/dp/B000YJ2SLG?tag=creator-20", result.URL)
	assert.Equal(t, "$16.08", result.Price)
	assert.Equal(t, "https://m.media-amazon.com/images/I/cream.jpg", result.ImageURL)
	assert.Equal(t, "CeraVe", result.Brand)
	assert.True(t, result.Available)
}

func TestSearch_CachesNegativeResult(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"SearchResult":{"Items":[]}}`))
	}))
	defer server.Close()

	c := newTestClient(testConfig(), server.URL)
	ctx := context.Background()

	assert.Nil(t, c.Search(ctx, "no such product", ""))
	assert.Nil(t, c.Search(ctx, "No  Such   Product", "")) // same query after normalization
	assert.Equal(t, int32(1), calls.Load(), "second call must be served from the negative cache")
}

func TestSearch_CachesSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	c := newTestClient(testConfig(), server.URL)
	ctx := context.Background()

	first := c.Search(ctx, "cerave moisturizing cream", "")
	second := c.Search(ctx, "cerave moisturizing cream", "")
	require.NotNil(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearch_ErrorStatusesResolveToNil(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError} {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(status)
		}))

		c := newTestClient(testConfig(), server.URL)
		ctx := context.Background()

		assert.Nil(t, c.Search(ctx, "some query", ""), "status %d", status)
		assert.Nil(t, c.Search(ctx, "some query", ""), "status %d", status)
		assert.Equal(t, int32(1), calls.Load(), "failure for status %d must be cached as a negative", status)

		server.Close()
	}
}

func TestSearch_RateGateSpacesRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"SearchResult":{"Items":[]}}`))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MinRequestInterval = 30 * time.Millisecond
	c := newTestClient(cfg, server.URL)
	ctx := context.Background()

	start := time.Now()
	c.Search(ctx, "query one", "")
	c.Search(ctx, "query two", "")
	c.Search(ctx, "query three", "")
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 2*cfg.MinRequestInterval,
		"three sequential searches must be spaced by the shared rate gate")
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := NewClient(testConfig())
	assert.Nil(t, c.Search(context.Background(), "   ", ""))
}

func TestClient_Enabled(t *testing.T) {
	assert.True(t, NewClient(testConfig()).Enabled())
	assert.False(t, NewClient(Config{}).Enabled())

	cfg := testConfig()
	cfg.PartnerTag = ""
	assert.False(t, NewClient(cfg).Enabled())
}
