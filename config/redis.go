package config

import (
	"tarot-agent/pkg/config"
)

func init() {
	config.Add("redis", func() map[string]interface{} {
		return map[string]interface{}{
			// 关闭时追问不留存，限流使用内存存储
			"enabled": config.Env("REDIS_ENABLED", false),

			"host":     config.Env("REDIS_HOST", "127.0.0.1"),
			"port":     config.Env("REDIS_PORT", "6379"),
			"username": config.Env("REDIS_USERNAME", ""),
			"password": config.Env("REDIS_PASSWORD", ""),

			// 业务类存储使用 1 号库（包括限流）
			"database": config.Env("REDIS_MAIN_DB", 1),

			// 追问记录保留时长，单位：小时
			"followup_ttl_hours": config.Env("REDIS_FOLLOWUP_TTL_HOURS", 24),
		}
	})
}
