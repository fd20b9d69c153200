package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/qa-forum/pkg/logger"
)

// QuestionCache 热点问题快照缓存（JSON + TTL）。
// 只服务读路径；任何触及该问题的变更都先 Invalidate，广播 payload 永远来自新鲜 populate。
type QuestionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewQuestionCache(rdb *redis.Client, ttl time.Duration) *QuestionCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &QuestionCache{rdb: rdb, ttl: ttl}
}

func key(questionID string) string { return fmt.Sprintf("question:snapshot:%s", questionID) }

// Get 返回缓存的快照 JSON；未命中返回 nil
func (c *QuestionCache) Get(ctx context.Context, questionID string) []byte {
	if c == nil || c.rdb == nil {
		return nil
	}
	data, err := c.rdb.Get(ctx, key(questionID)).Bytes()
	if err != nil {
		return nil
	}
	return data
}

func (c *QuestionCache) Set(ctx context.Context, questionID string, payload []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key(questionID), payload, c.ttl).Err(); err != nil {
		logger.Warn("cache set failed", zap.String("question", questionID), zap.Error(err))
	}
}

// Invalidate 变更路径调用；缓存不可用时静默放过，读路径会回源
func (c *QuestionCache) Invalidate(ctx context.Context, questionID string) {
	if c == nil || c.rdb == nil || questionID == "" {
		return
	}
	if err := c.rdb.Del(ctx, key(questionID)).Err(); err != nil {
		logger.Warn("cache invalidate failed", zap.String("question", questionID), zap.Error(err))
	}
}
