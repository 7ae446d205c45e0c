// Package v1 通用接口
package v1

import (
	"context"
	"net/http"
	"time"

	"tarot-agent/pkg/app"
	"tarot-agent/pkg/llm"
	"tarot-agent/pkg/response"

	"github.com/gin-gonic/gin"
)

// HealthCheck 单项健康检查
type HealthCheck func(ctx context.Context) error

// HealthController 健康检查
type HealthController struct {
	checks  map[string]HealthCheck
	metrics *llm.CallMetrics
}

// NewHealthController 创建控制器，metrics 为 nil 时不输出模型调用统计
func NewHealthController(checks map[string]HealthCheck, metrics *llm.CallMetrics) *HealthController {
	return &HealthController{checks: checks, metrics: metrics}
}

// Show 检查各依赖项
func (hc *HealthController) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	statuses := make(map[string]string, len(hc.checks))
	healthy := true
	for name, check := range hc.checks {
		if err := check(ctx); err != nil {
			statuses[name] = err.Error()
			healthy = false
			continue
		}
		statuses[name] = "ok"
	}

	data := gin.H{
		"status":   "ok",
		"version":  app.Version,
		"time":     time.Now().Unix(),
		"services": statuses,
	}
	if hc.metrics != nil {
		data["llm"] = metricsReport(hc.metrics.Snapshot())
	}
	if !healthy {
		data["status"] = "degraded"
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Response{Status: response.Error, Data: data, Message: "服务不可用"})
		return
	}
	response.Data(c, data)
}

// metricsReport 模型调用统计，延迟单位为毫秒
func metricsReport(snapshot map[llm.Operation]llm.OperationStats) gin.H {
	report := make(gin.H, len(snapshot))
	for op, stats := range snapshot {
		report[string(op)] = gin.H{
			"successes":      stats.Successes,
			"failures":       stats.Failures,
			"avg_latency_ms": stats.Latency.Average().Milliseconds(),
			"min_latency_ms": stats.Latency.Min.Milliseconds(),
			"max_latency_ms": stats.Latency.Max.Milliseconds(),
		}
	}
	return report
}
