// Package limiter 处理限流逻辑
package limiter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"tarot-agent/pkg/config"
	"tarot-agent/pkg/logger"
	"tarot-agent/pkg/redis"

	"github.com/gin-gonic/gin"
	limiterlib "github.com/ulule/limiter/v3"
	smemory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Rate 定义限流速率
type Rate struct {
	Rate float64
}

var (
	storeMu     sync.Mutex
	sharedStore limiterlib.Store
)

// ParseLimit 解析限流配置字符串
// 支持的格式: "5-S"、"10-M"、"1000-H"、"2000-D"
func ParseLimit(limit string) (*Rate, error) {
	if _, err := limiterlib.NewRateFromFormatted(limit); err != nil {
		return nil, fmt.Errorf("invalid limit format: %w", err)
	}

	parts := strings.Split(limit, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid limit format: %s", limit)
	}

	value, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid rate value: %s", parts[0])
	}

	// 根据时间单位转换为每秒的速率
	var ratePerSecond float64
	switch strings.ToUpper(parts[1]) {
	case "S":
		ratePerSecond = value
	case "M":
		ratePerSecond = value / 60.0
	case "H":
		ratePerSecond = value / 3600.0
	case "D":
		ratePerSecond = value / 86400.0
	default:
		return nil, fmt.Errorf("invalid time unit: %s", parts[1])
	}

	return &Rate{Rate: ratePerSecond}, nil
}

// GetKeyIP 获取 Limitor 的 Key，IP
func GetKeyIP(c *gin.Context) string {
	return c.ClientIP()
}

// GetKeyRouteWithIP Limitor 的 Key，路由+IP，针对单个路由做限流
func GetKeyRouteWithIP(c *gin.Context) string {
	return routeToKeyString(c.FullPath()) + c.ClientIP()
}

// Store 获取共享存储，启用 Redis 时使用 Redis，否则使用进程内存
func Store() (limiterlib.Store, error) {
	storeMu.Lock()
	defer storeMu.Unlock()

	if sharedStore != nil {
		return sharedStore, nil
	}

	// 为 limiter 设置前缀，保持 redis 里数据的整洁
	options := limiterlib.StoreOptions{
		Prefix: config.GetString("app.name", "tarot") + ":limiter",
	}

	if redis.Redis != nil {
		store, err := sredis.NewStoreWithOptions(redis.Redis.Client, options)
		if err != nil {
			return nil, err
		}
		sharedStore = store
	} else {
		sharedStore = smemory.NewStoreWithOptions(options)
	}
	return sharedStore, nil
}

// ResetStore 丢弃共享存储，下次调用 Store 时重新创建
func ResetStore() {
	storeMu.Lock()
	defer storeMu.Unlock()
	sharedStore = nil
}

// Take 消耗一次配额
// formatted 形如 "30-H"，也接受 limiter 原生的 "30/H"
func Take(ctx context.Context, key string, formatted string) (limiterlib.Context, error) {
	return take(ctx, key, formatted, false)
}

// Peek 查看配额，不增加访问次数
func Peek(ctx context.Context, key string, formatted string) (limiterlib.Context, error) {
	return take(ctx, key, formatted, true)
}

func take(ctx context.Context, key string, formatted string, peek bool) (limiterlib.Context, error) {
	var result limiterlib.Context

	rate, err := limiterlib.NewRateFromFormatted(strings.ReplaceAll(formatted, "/", "-"))
	if err != nil {
		logger.LogIf(err)
		return result, err
	}

	store, err := Store()
	if err != nil {
		logger.LogIf(err)
		return result, err
	}

	limiterObj := limiterlib.New(store, rate)
	if peek {
		return limiterObj.Peek(ctx, key)
	}
	return limiterObj.Get(ctx, key)
}

// CheckRate 检测请求是否超额
func CheckRate(c *gin.Context, key string, formatted string) (limiterlib.Context, error) {
	// 确保多个路由组里调用时，只增加一次访问次数
	if c.GetBool("limiter-once") {
		return Peek(c, key, formatted)
	}
	c.Set("limiter-once", true)
	return Take(c, key, formatted)
}

// routeToKeyString 辅助方法，将 URL 中的 / 格式为 -
func routeToKeyString(routeName string) string {
	routeName = strings.ReplaceAll(routeName, "/", "-")
	routeName = strings.ReplaceAll(routeName, ":", "_")
	return routeName
}
