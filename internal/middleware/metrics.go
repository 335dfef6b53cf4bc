package middleware

import (
	"strconv"
	"time"

	"antecipa/internal/metrics"

	"github.com/gin-gonic/gin"
)

// HTTPMetrics records request latency labelled by the matched route template.
func HTTPMetrics(rec *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
