// Package llm 封装对 Anthropic Messages API 的调用
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"tarot-agent/pkg/logger"
)

const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-sonnet-20241022"
	DefaultVersion = "2023-06-01"
	DefaultTimeout = 90 * time.Second
)

// Config 网关配置
type Config struct {
	BaseURL       string
	APIKey        string
	Model         string
	Version       string
	Timeout       time.Duration
	RatePerMinute int
}

// Service 通过 resty 访问 Messages API
// 所有失败都在这里记录日志并转换为缺失结果
type Service struct {
	client  *resty.Client
	model   string
	timeout time.Duration
	pacer   *rate.Limiter
	metrics *CallMetrics
}

// NewService 创建新的网关实例
func NewService(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	// 单次请求，不重试
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", cfg.Version).
		SetHeader("Content-Type", "application/json")

	pacer := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerMinute > 0 {
		pacer = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), 1)
	}

	return &Service{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		pacer:   pacer,
		metrics: NewCallMetrics(),
	}, nil
}

// Metrics 调用指标
func (s *Service) Metrics() *CallMetrics {
	return s.metrics
}

// Interpret 生成整体解读
func (s *Service) Interpret(ctx context.Context, cards []CardContext, question, spreadKind string) (string, bool) {
	return s.call(ctx, OpInterpret, interpretationPrompt(cards, question, spreadKind))
}

// GenerateAdvice 基于解读生成建议
func (s *Service) GenerateAdvice(ctx context.Context, cards []CardContext, question, interpretation string) (string, bool) {
	return s.call(ctx, OpAdvice, advicePrompt(cards, question, interpretation))
}

// AskFollowup 针对已有解读回答追问
func (s *Service) AskFollowup(ctx context.Context, original ReadingContext, followup string) (string, bool) {
	return s.call(ctx, OpFollowup, followupPrompt(original, followup))
}

func (s *Service) call(ctx context.Context, op Operation, prompt string) (string, bool) {
	start := time.Now()
	text, err := s.send(ctx, op, prompt)
	duration := time.Since(start)
	s.metrics.Record(op, duration, err == nil)

	if err != nil {
		logger.ErrorString("LLM", string(op), fmt.Sprintf("请求失败 耗时:%v 错误:%v", duration, err))
		return "", false
	}

	logger.InfoString("LLM", string(op), fmt.Sprintf("请求成功 耗时:%v 结果长度:%d", duration, len(text)))
	return text, true
}

func (s *Service) send(ctx context.Context, op Operation, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.pacer.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	conf := settings[op]
	reqBody := messagesRequest{
		Model:       s.model,
		Messages:    []message{{Role: "user", Content: prompt}},
		MaxTokens:   conf.MaxTokens,
		Temperature: conf.Temperature,
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(reqBody).
		Post("/v1/messages")
	if err != nil {
		return "", fmt.Errorf("failed to call messages api: %w", err)
	}

	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("messages api returned non-200 status: %d, body: %s",
			resp.StatusCode(), resp.String())
	}

	return extractText(resp.Body())
}

// extractText 取第一个 text 类型内容块
func extractText(body []byte) (string, error) {
	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("api error %s: %s", parsed.Error.Type, parsed.Error.Message)
	}

	for _, block := range parsed.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", errors.New("response has no text content")
}

// Disabled 未配置密钥时使用，所有调用均返回缺失
type Disabled struct{}

func (Disabled) Interpret(context.Context, []CardContext, string, string) (string, bool) {
	return "", false
}

func (Disabled) GenerateAdvice(context.Context, []CardContext, string, string) (string, bool) {
	return "", false
}

func (Disabled) AskFollowup(context.Context, ReadingContext, string) (string, bool) {
	return "", false
}
