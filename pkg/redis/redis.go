/*
	Package redis 提供 Redis 连接和操作的工具包

	用于追问记录的临时存储，以及限流器的共享存储。
	未启用 Redis 时全局 Redis 为 nil，调用方需自行降级。
*/
package redis

import (
	"context"
	"fmt"
	"time"

	"tarot-agent/pkg/logger"

	redis "github.com/redis/go-redis/v9"
)

// 关键配置常量
const (
	// DefaultPoolSize Redis 连接池大小
	DefaultPoolSize = 10
	// DefaultTimeout 默认操作超时时间
	DefaultTimeout = 5 * time.Second
	// DefaultMinIdleConns 最小空闲连接数
	DefaultMinIdleConns = 2
	// DefaultMaxRetries 最大重试次数
	DefaultMaxRetries = 3
	// DefaultIdleTimeout 空闲超时
	DefaultIdleTimeout = 5 * time.Minute
)

// RedisClient Redis 客户端封装
type RedisClient struct {
	Client  *redis.Client
	Context context.Context
}

// RedisConfig Redis 配置结构
type RedisConfig struct {
	Address      string
	Username     string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	Timeout      time.Duration
}

// Redis 全局客户端，未启用时为 nil
var Redis *RedisClient

/* 🔄 连接管理相关方法 */

// ConnectRedis 初始化全局 Redis 连接
func ConnectRedis(address, username, password string, db int) error {
	client, err := NewClient(RedisConfig{
		Address:      address,
		Username:     username,
		Password:     password,
		DB:           db,
		PoolSize:     DefaultPoolSize,
		MinIdleConns: DefaultMinIdleConns,
		Timeout:      DefaultTimeout,
	})
	if err != nil {
		return err
	}
	Redis = client
	return nil
}

// NewClient 创建新的 Redis 客户端
func NewClient(config RedisConfig) (*RedisClient, error) {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	rds := &RedisClient{
		Context: context.Background(),
	}

	rds.Client = redis.NewClient(&redis.Options{
		Addr:         config.Address,
		Username:     config.Username,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,

		// 连接池配置
		PoolTimeout:     config.Timeout,
		ConnMaxIdleTime: DefaultIdleTimeout,

		// 读写超时
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		// 重试策略
		MaxRetries:      DefaultMaxRetries,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	// 测试连接
	if err := rds.Ping(); err != nil {
		_ = rds.Client.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	return rds, nil
}

// Close 关闭连接
func (rds *RedisClient) Close() error {
	return rds.Client.Close()
}

/* 🔍 健康检查方法 */

// Ping 测试 Redis 连接
func (rds *RedisClient) Ping() error {
	ctx, cancel := context.WithTimeout(rds.Context, DefaultTimeout)
	defer cancel()

	_, err := rds.Client.Ping(ctx).Result()
	return err
}

/* 📝 数据操作方法 */

// Set 存储键值对
func (rds *RedisClient) Set(key string, value interface{}, expiration time.Duration) bool {
	ctx, cancel := context.WithTimeout(rds.Context, DefaultTimeout)
	defer cancel()

	if err := rds.Client.Set(ctx, key, value, expiration).Err(); err != nil {
		logger.ErrorString("Redis", "Set", err.Error())
		return false
	}
	return true
}

// Get 获取键值
func (rds *RedisClient) Get(key string) string {
	ctx, cancel := context.WithTimeout(rds.Context, DefaultTimeout)
	defer cancel()

	result, err := rds.Client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.ErrorString("Redis", "Get", err.Error())
		}
		return ""
	}
	return result
}

// Has 检查键是否存在
func (rds *RedisClient) Has(key string) bool {
	ctx, cancel := context.WithTimeout(rds.Context, DefaultTimeout)
	defer cancel()

	n, err := rds.Client.Exists(ctx, key).Result()
	if err != nil {
		logger.ErrorString("Redis", "Has", err.Error())
		return false
	}
	return n > 0
}

// Del 删除键
func (rds *RedisClient) Del(keys ...string) bool {
	ctx, cancel := context.WithTimeout(rds.Context, DefaultTimeout)
	defer cancel()

	if err := rds.Client.Del(ctx, keys...).Err(); err != nil {
		logger.ErrorString("Redis", "Del", err.Error())
		return false
	}
	return true
}

/* 📚 列表相关方法 */

// Append 追加到列表尾部并刷新过期时间
func (rds *RedisClient) Append(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	pipe := rds.Client.TxPipeline()
	pipe.RPush(ctx, key, value)
	if expiration > 0 {
		pipe.Expire(ctx, key, expiration)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.ErrorString("Redis", "Append", err.Error())
		return err
	}
	return nil
}

// Range 读取整个列表，键不存在时返回空切片
func (rds *RedisClient) Range(ctx context.Context, key string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	values, err := rds.Client.LRange(ctx, key, 0, -1).Result()
	if err == redis.Nil {
		return []string{}, nil
	}
	if err != nil {
		logger.ErrorString("Redis", "Range", err.Error())
		return nil, err
	}
	return values, nil
}
