package bootstrap

import (
	"context"
	"net/http"
	"strings"

	v1 "tarot-agent/app/http/controllers/api/v1"
	"tarot-agent/app/http/middlewares"
	"tarot-agent/pkg/config"
	"tarot-agent/pkg/database"
	"tarot-agent/pkg/redis"
	"tarot-agent/routes"

	"github.com/gin-gonic/gin"
)

// SetupRoute 路由初始化
// 1. 注册全局中间件
// 2. 注册 API 路由
// 3. 配置 404 处理器
func SetupRoute(router *gin.Engine, svc *Services) {
	// 注册全局中间件
	registerGlobalMiddleWare(router)

	// 注册 API 路由
	routes.RegisterAPIRoutes(router, routes.Dependencies{
		Readings:       svc.Readings,
		Cards:          svc.Cards,
		HealthChecks:   healthChecks(),
		GatewayMetrics: svc.GatewayMetrics,
		ReadingQuota:   config.GetString("limiter.reading_quota", routes.DefaultReadingQuota),
		CorsOrigins:    strings.Split(config.GetString("app.cors_origins"), ","),
	})

	// 配置 404 路由处理器
	setup404Handler(router)
}

// registerGlobalMiddleWare 注册全局中间件
func registerGlobalMiddleWare(router *gin.Engine) {
	router.Use(
		middlewares.Logger(),   // 记录请求日志
		middlewares.Recovery(), // 在发生 panic 时恢复
	)
}

// healthChecks 健康检查项，Redis 未启用时不检查
func healthChecks() map[string]v1.HealthCheck {
	checks := map[string]v1.HealthCheck{
		"database": func(ctx context.Context) error {
			return database.SQLDB.PingContext(ctx)
		},
	}
	if redis.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redis.Redis.Client.Ping(ctx).Err()
		}
	}
	return checks
}

// setup404Handler 配置 404 请求处理器
// 根据请求的 Accept 头来返回不同格式的 404 响应
func setup404Handler(router *gin.Engine) {
	router.NoRoute(func(c *gin.Context) {
		acceptString := c.Request.Header.Get("Accept")

		if strings.Contains(acceptString, "text/html") {
			c.String(http.StatusNotFound, "页面返回 404")
		} else {
			c.JSON(http.StatusNotFound, gin.H{
				"error_code":    404,
				"error_message": "路由未定义，请确认 url 和请求方法是否正确。",
			})
		}
	})
}
