package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tarot-agent/app/models/reading"
	"tarot-agent/pkg/logger"
	"tarot-agent/pkg/redis"
)

// DefaultFollowupTTL 追问记录默认保留时间
const DefaultFollowupTTL = 24 * time.Hour

// FollowupRepository 追问记录仓库，保存在 Redis 列表中并带过期时间
type FollowupRepository struct {
	client *redis.RedisClient
	prefix string
	ttl    time.Duration
}

// NewFollowupRepository 创建仓库实例
func NewFollowupRepository(client *redis.RedisClient, prefix string, ttl time.Duration) *FollowupRepository {
	if ttl <= 0 {
		ttl = DefaultFollowupTTL
	}
	return &FollowupRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *FollowupRepository) key(readingID uint64) string {
	return fmt.Sprintf("%s:followups:%d", r.prefix, readingID)
}

// Append 追加一次追问
func (r *FollowupRepository) Append(ctx context.Context, readingID uint64, exchange reading.FollowupExchange) error {
	payload, err := json.Marshal(exchange)
	if err != nil {
		return err
	}
	return r.client.Append(ctx, r.key(readingID), payload, r.ttl)
}

// List 按时间顺序返回追问记录，无记录时返回空切片
func (r *FollowupRepository) List(ctx context.Context, readingID uint64) ([]reading.FollowupExchange, error) {
	values, err := r.client.Range(ctx, r.key(readingID))
	if err != nil {
		return nil, err
	}

	exchanges := make([]reading.FollowupExchange, 0, len(values))
	for _, value := range values {
		var exchange reading.FollowupExchange
		if err := json.Unmarshal([]byte(value), &exchange); err != nil {
			logger.WarnString("Followup", "List", fmt.Sprintf("跳过无法解析的记录: %v", err))
			continue
		}
		exchanges = append(exchanges, exchange)
	}
	return exchanges, nil
}
