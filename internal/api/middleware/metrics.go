package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sci-insight/sci-api/internal/metrics"
)

// CollectMetrics records request count, duration and in-flight gauge for
// every route. Uses the route template, not the raw URL, to keep label
// cardinality bounded.
func CollectMetrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := ctx.Request.Method

		metrics.RequestInProgress.WithLabelValues(method, path).Inc()
		startTime := time.Now()

		ctx.Next()

		duration := time.Since(startTime).Seconds()
		status := strconv.Itoa(ctx.Writer.Status())

		metrics.RequestCounter.WithLabelValues(status, method, path).Inc()
		metrics.RequestDuration.WithLabelValues(status, method, path).Observe(duration)
		metrics.RequestInProgress.WithLabelValues(method, path).Dec()
	}
}
