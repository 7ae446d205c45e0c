package config

import "tarot-agent/pkg/config"

func init() {
	config.Add("limiter", func() map[string]interface{} {
		return map[string]interface{}{
			// 占卜配额，格式：<次数>-<S|M|H|D>，命令行与 HTTP 共用
			"reading_quota": config.Env("READING_QUOTA", "30-H"),
		}
	})
}
