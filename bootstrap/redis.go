package bootstrap

import (
	"fmt"

	"tarot-agent/pkg/config"
	"tarot-agent/pkg/logger"
	"tarot-agent/pkg/redis"
)

// SetupRedis 初始化 Redis，未启用时跳过
func SetupRedis() error {
	if !config.GetBool("redis.enabled") {
		logger.DebugString("Redis", "Setup", "未启用 Redis，追问不留存")
		return nil
	}

	err := redis.ConnectRedis(
		fmt.Sprintf("%v:%v", config.GetString("redis.host"), config.GetString("redis.port")),
		config.GetString("redis.username"),
		config.GetString("redis.password"),
		config.GetInt("redis.database"),
	)
	if err != nil {
		logger.ErrorString("Redis", "Setup", err.Error())
		return err
	}

	logger.InfoString("Redis", "Setup", "Redis 连接成功")
	return nil
}
