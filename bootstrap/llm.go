package bootstrap

import (
	"fmt"
	"time"

	"tarot-agent/app/services"
	"tarot-agent/pkg/config"
	"tarot-agent/pkg/llm"
	"tarot-agent/pkg/logger"
)

// SetupLLM 初始化解读网关，未配置 API Key 时返回 llm.Disabled
func SetupLLM() services.Gateway {
	apiKey := config.GetString("llm.api_key")
	if apiKey == "" {
		logger.WarnString("LLM", "Setup", "未配置 ANTHROPIC_API_KEY，解读功能不可用")
		return llm.Disabled{}
	}

	service, err := llm.NewService(llm.Config{
		BaseURL:       config.GetString("llm.base_url"),
		APIKey:        apiKey,
		Model:         config.GetString("llm.model"),
		Version:       config.GetString("llm.version"),
		Timeout:       time.Duration(config.GetInt("llm.timeout")) * time.Second,
		RatePerMinute: config.GetInt("llm.rate_per_minute"),
	})
	if err != nil {
		logger.ErrorString("LLM", "Setup", err.Error())
		return llm.Disabled{}
	}

	logger.InfoString("LLM", "Setup", fmt.Sprintf("解读网关初始化成功 [model: %s]", config.GetString("llm.model")))
	return service
}
