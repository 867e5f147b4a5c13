package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clientdesk/clientdesk/internal/cache"
	"github.com/clientdesk/clientdesk/pkg/response"
)

// Health reports readiness of the database and the cache backend. The cache
// being down degrades the service but does not fail the check.
func Health(db *gorm.DB, cacheStore cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload := gin.H{"status": "ok"}

		dbStatus := "ok"
		if sqlDB, err := db.DB(); err != nil {
			dbStatus = "error"
		} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			dbStatus = "error"
		}
		payload["database"] = dbStatus

		cacheStatus := "ok"
		if cacheStore == nil {
			cacheStatus = "disabled"
		} else if _, _, err := cacheStore.Get(c.Request.Context(), "health:probe"); err != nil {
			cacheStatus = "error"
		}
		payload["cache"] = cacheStatus

		status := http.StatusOK
		if dbStatus != "ok" {
			payload["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		payload["time"] = time.Now().UTC().Format(time.RFC3339)
		response.Success(c, status, payload)
	}
}
