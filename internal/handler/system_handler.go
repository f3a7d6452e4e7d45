package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// HealthCheck 检查数据库连通性，供负载均衡探活使用。
func (a *API) HealthCheck(c *gin.Context) {
	dialect := a.db.Dialector.Name()

	sqlDB, err := a.db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "database": dialect, "message": "database handle unavailable"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	started := time.Now()
	if err := sqlDB.PingContext(ctx); err != nil {
		a.logger.Warn("health check ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "database": dialect, "message": "database unreachable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"database":  dialect,
		"latencyMs": time.Since(started).Milliseconds(),
	})
}
