// Package middlewares 存放系统中间件
package middlewares

import (
	"strings"
	"time"

	"tarot-agent/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// RequestIDHeader 请求 ID 响应头
const RequestIDHeader = "X-Request-Id"

// Logger 记录请求日志，并为每个请求分配请求 ID
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Set("request_id", rid)
		c.Writer.Header().Set(RequestIDHeader, rid)

		start := time.Now()
		c.Next()

		cost := time.Since(start)
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
			zap.String("time", cost.String()),
		}

		switch {
		case status >= 500:
			logger.Error("HTTP Error "+cast.ToString(status), fields...)
		case status >= 400:
			logger.Warn("HTTP Warning "+cast.ToString(status), fields...)
		default:
			logger.Debug("HTTP Access Log", fields...)
		}
	}
}
