package config

import "tarot-agent/pkg/config"

func init() {
	config.Add("app", func() map[string]interface{} {
		return map[string]interface{}{

			// 应用名称，同时作为 Redis 键前缀
			"name": config.Env("APP_NAME", "tarot"),

			// 当前环境，用以区分多环境，一般为 local, stage, production, test
			"env": config.Env("APP_ENV", "production"),

			// 是否进入调试模式
			"debug": config.Env("APP_DEBUG", false),

			// serve 命令监听端口
			"port": config.Env("APP_PORT", "3000"),

			// 设置时区，日志记录里会使用到
			"timezone": config.Env("TIMEZONE", "Asia/Shanghai"),

			// 允许跨域的来源，逗号分隔，为空时允许全部
			"cors_origins": config.Env("CORS_ORIGINS", ""),
		}
	})
}
