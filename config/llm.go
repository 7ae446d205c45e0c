package config

import "tarot-agent/pkg/config"

func init() {
	config.Add("llm", func() map[string]interface{} {
		return map[string]interface{}{
			// 为空时不调用模型，解读和追问均返回空结果
			"api_key": config.Env("ANTHROPIC_API_KEY", ""),

			"base_url": config.Env("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			"version":  config.Env("ANTHROPIC_VERSION", "2023-06-01"),
			"model":    config.Env("LLM_MODEL", "claude-3-5-sonnet-20241022"),

			// 单次调用超时，单位：秒
			"timeout": config.Env("LLM_TIMEOUT", 90),

			// 每分钟最多调用次数，0 为不限
			"rate_per_minute": config.Env("LLM_RATE_PER_MINUTE", 0),
		}
	})
}
