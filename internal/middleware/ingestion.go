package middleware

import (
	"campus_club_backend/internal/util"
	"campus_club_backend/pkg/logger"
	"campus_club_backend/pkg/monitoring"
	"campus_club_backend/pkg/ratelimit"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IngestionGate 按客户端地址的固定窗口限流。
// 计数存储出错时放行并记录日志，不因限流组件故障拒绝考勤写入。
func IngestionGate(gate *ratelimit.FixedWindow) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		decision, err := gate.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Log.Error("Ingestion gate store error, allowing request",
				zap.String("client", key),
				zap.Error(err),
			)
			monitoring.IngestionDecisions.WithLabelValues("error").Inc()
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining()))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			monitoring.IngestionDecisions.WithLabelValues("rejected").Inc()
			util.TooManyRequests(c)
			return
		}

		monitoring.IngestionDecisions.WithLabelValues("allowed").Inc()
		c.Next()
	}
}
