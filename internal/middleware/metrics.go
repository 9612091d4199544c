package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uniflow/uniflow-api/internal/service"
)

// Metrics records request duration and status for every route. The route
// template, not the raw path, is used as the label so IDs do not explode
// cardinality.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
