package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/store"
)

// Healthz reports store and redis connectivity, answering 503 when either
// backend is unreachable.
func Healthz(db *store.DB, rds *store.Redis) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		dbHealthy := db != nil && db.Client != nil && db.Client.PingContext(ctx) == nil
		redisHealthy := rds.Healthy(ctx)

		status := http.StatusOK
		if !dbHealthy || !redisHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "redis": redisHealthy})
	}
}
