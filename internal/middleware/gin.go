package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/creatorlink/product-pipeline-go/internal/metrics"
)

// Gin adapts the API key middleware for gin routers.
func (a *APIKeyAuth) Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.isValidAPIKey(a.extractAPIKey(c.Request)) {
			a.logger.Warn("unauthorized request - invalid or missing API key",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"remote_addr", c.Request.RemoteAddr,
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": unauthorizedError})
			return
		}
		c.Next()
	}
}

// Metrics records per-handler request counts by status code.
func Metrics(handlerName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		metrics.HTTPRequests.WithLabelValues(handlerName, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
