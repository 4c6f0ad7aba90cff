package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewAPIKeyAuth(t *testing.T) {
	t.Parallel()

	t.Run("creates auth with valid keys", func(t *testing.T) {
		t.Parallel()

		keys := []string{"key1", "key2", "key3"}
		auth := NewAPIKeyAuth(keys, nil)

		require.NotNil(t, auth)
		assert.Equal(t, 3, len(auth.apiKeys))
		assert.True(t, auth.apiKeys["key1"])
		assert.True(t, auth.apiKeys["key2"])
		assert.True(t, auth.apiKeys["key3"])
	})

	t.Run("filters out empty keys", func(t *testing.T) {
		t.Parallel()

		keys := []string{"key1", "", "key2", ""}
		auth := NewAPIKeyAuth(keys, nil)

		require.NotNil(t, auth)
		assert.Equal(t, 2, len(auth.apiKeys))
		assert.True(t, auth.apiKeys["key1"])
		assert.True(t, auth.apiKeys["key2"])
	})

	t.Run("defaults logger when nil", func(t *testing.T) {
		t.Parallel()

		auth := NewAPIKeyAuth([]string{"key1"}, nil)

		require.NotNil(t, auth)
		assert.NotNil(t, auth.logger)
	})
}

func newAuthRouter(keys []string) *gin.Engine {
	router := gin.New()
	router.Use(NewAPIKeyAuth(keys, nil).Gin())
	router.GET("/api/v1/videos/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"videoId": c.Param("id")})
	})
	return router
}

func TestAPIKeyAuth_Gin(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		headers    map[string]string
		wantStatus int
	}{
		{
			name:       "valid X-API-Key header",
			keys:       []string{"secret-key-1"},
			headers:    map[string]string{"X-API-Key": "secret-key-1"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid Bearer token",
			keys:       []string{"secret-key-1"},
			headers:    map[string]string{"Authorization": "Bearer secret-key-1"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "X-API-Key takes precedence over Authorization",
			keys:       []string{"secret-key-1"},
			headers:    map[string]string{"X-API-Key": "secret-key-1", "Authorization": "Bearer wrong-key"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "second configured key accepted",
			keys:       []string{"secret-key-1", "secret-key-2"},
			headers:    map[string]string{"X-API-Key": "secret-key-2"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing API key",
			keys:       []string{"secret-key-1"},
			headers:    map[string]string{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid API key",
			keys:       []string{"secret-key-1"},
			headers:    map[string]string{"X-API-Key": "wrong-key"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Authorization header without Bearer prefix",
			keys:       []string{"secret-key-1"},
			headers:    map[string]string{"Authorization": "secret-key-1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no keys configured rejects all requests",
			keys:       nil,
			headers:    map[string]string{"X-API-Key": "any-key"},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(tt.keys)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/video123", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAPIKeyAuth_Gin_UnauthorizedBody(t *testing.T) {
	router := newAuthRouter([]string{"secret-key-1"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/video123", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestAPIKeyAuth_Gin_RejectedRequestSkipsHandler(t *testing.T) {
	called := false
	router := gin.New()
	router.Use(NewAPIKeyAuth([]string{"secret-key-1"}, nil).Gin())
	router.GET("/protected", func(c *gin.Context) {
		called = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-API-Key", "wrong-key")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestExtractAPIKey(t *testing.T) {
	t.Parallel()

	auth := NewAPIKeyAuth([]string{"secret-key-1"}, nil)

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"from X-API-Key", map[string]string{"X-API-Key": "key-a"}, "key-a"},
		{"from Bearer token", map[string]string{"Authorization": "Bearer key-b"}, "key-b"},
		{"X-API-Key wins over Bearer", map[string]string{"X-API-Key": "key-a", "Authorization": "Bearer key-b"}, "key-a"},
		{"no headers", map[string]string{}, ""},
		{"Authorization without Bearer", map[string]string{"Authorization": "Basic dXNlcg=="}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, auth.extractAPIKey(req))
		})
	}
}

func TestIsValidAPIKey(t *testing.T) {
	t.Parallel()

	auth := NewAPIKeyAuth([]string{"secret-key-1", "secret-key-2"}, nil)

	assert.True(t, auth.isValidAPIKey("secret-key-1"))
	assert.True(t, auth.isValidAPIKey("secret-key-2"))
	assert.False(t, auth.isValidAPIKey("wrong-key"))
	assert.False(t, auth.isValidAPIKey(""))

	empty := NewAPIKeyAuth(nil, nil)
	assert.False(t, empty.isValidAPIKey("secret-key-1"))
}
