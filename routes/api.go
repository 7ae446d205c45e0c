// Package routes 注册路由
package routes

import (
	v1 "tarot-agent/app/http/controllers/api/v1"
	"tarot-agent/app/http/controllers/api/v1/tarot"
	"tarot-agent/app/http/middlewares"
	"tarot-agent/app/repositories"
	"tarot-agent/app/services"
	"tarot-agent/pkg/llm"

	"github.com/gin-gonic/gin"
)

// 路由限流配置
const (
	// 🌍 全局限流：每小时每IP 30000 请求
	GlobalRateLimit = "30000-H"
	// 🔍 查询限流：每分钟每IP 300 请求
	QueryLimit = "300-M"
	// 🎴 默认占卜配额：每小时每IP 30 次
	DefaultReadingQuota = "30-H"
)

// Dependencies 路由依赖
type Dependencies struct {
	Readings     *services.ReadingService
	Cards        *repositories.CardRepository
	HealthChecks map[string]v1.HealthCheck
	ReadingQuota string
	CorsOrigins  []string

	// 模型调用统计，未配置 API Key 时为 nil
	GatewayMetrics *llm.CallMetrics
}

// RegisterAPIRoutes 注册所有 API 路由
func RegisterAPIRoutes(r *gin.Engine, deps Dependencies) {
	quota := deps.ReadingQuota
	if quota == "" {
		quota = DefaultReadingQuota
	}

	v1Group := r.Group("/v1")

	v1Group.Use(
		middlewares.SecurityHeaders(),
		middlewares.LimitIP(GlobalRateLimit),
		middlewares.Cors(deps.CorsOrigins...),
	)

	// GET /v1/health
	v1Group.GET("/health", v1.NewHealthController(deps.HealthChecks, deps.GatewayMetrics).Show)

	// 🎴 塔罗牌相关路由
	tarotRoutes := v1Group.Group("/tarot")
	{
		rc := tarot.NewReadingController(deps.Readings)

		// 📝 发起占卜，每次都会调用模型，单独计配额
		tarotRoutes.POST("/readings", middlewares.LimitReadings(quota), rc.Store)
		tarotRoutes.GET("/readings", middlewares.LimitPerRoute(QueryLimit), rc.Index)
		tarotRoutes.GET("/readings/:id", middlewares.LimitPerRoute(QueryLimit), rc.Show)

		// 💬 追问与重新解读同样消耗配额
		tarotRoutes.POST("/readings/:id/followups", middlewares.LimitReadings(quota), rc.StoreFollowup)
		tarotRoutes.GET("/readings/:id/followups", middlewares.LimitPerRoute(QueryLimit), rc.Followups)
		tarotRoutes.POST("/readings/:id/reinterpret", middlewares.LimitReadings(quota), rc.Reinterpret)

		// 🃏 牌库
		cc := tarot.NewCardController(deps.Cards)
		tarotRoutes.GET("/cards", middlewares.LimitPerRoute(QueryLimit), cc.Index)
		tarotRoutes.GET("/cards/random", middlewares.LimitPerRoute(QueryLimit), cc.Random)
		tarotRoutes.GET("/cards/:id", middlewares.LimitPerRoute(QueryLimit), cc.Show)
	}
}
