package bootstrap

import (
	"time"

	"tarot-agent/app/repositories"
	"tarot-agent/app/services"
	"tarot-agent/pkg/app"
	"tarot-agent/pkg/config"
	"tarot-agent/pkg/database"
	"tarot-agent/pkg/llm"
	"tarot-agent/pkg/random"
	"tarot-agent/pkg/redis"
)

// Services 组装好的业务服务，命令行和 HTTP 共用
type Services struct {
	Readings *services.ReadingService
	Cards    *repositories.CardRepository

	// 仅在使用真实网关时非 nil
	GatewayMetrics *llm.CallMetrics
}

// SetupServices 组装仓储与占卜服务，需在 SetupDB 之后调用
func SetupServices(gateway services.Gateway) *Services {
	rng := random.Default()
	cards := repositories.NewCardRepository(database.DB, rng)

	// 占卜时间按配置的时区记录
	opts := []services.Option{services.WithClock(app.TimenowInTimezone)}
	if redis.Redis != nil {
		ttl := time.Duration(config.GetInt("redis.followup_ttl_hours", 24)) * time.Hour
		followups := repositories.NewFollowupRepository(redis.Redis, config.GetString("app.name", "tarot"), ttl)
		opts = append(opts, services.WithFollowupStore(followups))
	}

	svc := &Services{
		Readings: services.NewReadingService(cards, repositories.NewReadingRepository(database.DB), gateway, rng, opts...),
		Cards:    cards,
	}
	if service, ok := gateway.(*llm.Service); ok {
		svc.GatewayMetrics = service.Metrics()
	}
	return svc
}
