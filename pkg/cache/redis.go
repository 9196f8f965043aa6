// backend/pkg/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"quiz-portal/internal/models"
)

const (
	groupKeyPrefix       = "quizgroup:"
	leaderboardKeyPrefix = "leaderboard:"
	groupTTL             = 24 * time.Hour
)

// NewRedisClient builds the shared client used by the cache and the session store.
func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) SetGroup(ctx context.Context, group *models.QuizGroup) error {
	data, err := json.Marshal(group)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, groupKeyPrefix+group.GroupID, data, groupTTL).Err()
}

// GetGroup returns (nil, nil) on a cache miss.
func (c *RedisCache) GetGroup(ctx context.Context, groupID string) (*models.QuizGroup, error) {
	data, err := c.client.Get(ctx, groupKeyPrefix+groupID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var group models.QuizGroup
	if err := json.Unmarshal(data, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *RedisCache) DeleteGroup(ctx context.Context, groupID string) error {
	pipe := c.client.Pipeline()
	pipe.Del(ctx, groupKeyPrefix+groupID)
	pipe.Del(ctx, leaderboardKeyPrefix+groupID)
	_, err := pipe.Exec(ctx)
	return err
}

// RecordScore keeps the best score per account on the group's board.
func (c *RedisCache) RecordScore(ctx context.Context, groupID, accountName string, score int) error {
	return c.client.ZAddArgs(ctx, leaderboardKeyPrefix+groupID, redis.ZAddArgs{
		GT:      true,
		Members: []redis.Z{{Score: float64(score), Member: accountName}},
	}).Err()
}

func (c *RedisCache) GetLeaderboard(ctx context.Context, groupID string, limit int64) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	// Get entries sorted by score (descending)
	results, err := c.client.ZRevRangeWithScores(ctx, leaderboardKeyPrefix+groupID, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, len(results))
	for i, z := range results {
		member, _ := z.Member.(string)
		entries[i] = models.LeaderboardEntry{
			AccountName: member,
			Score:       int(z.Score),
		}
	}
	return entries, nil
}
