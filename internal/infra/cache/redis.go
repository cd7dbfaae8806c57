// Package cache provides Redis-based caching for quick state reads.
// Cached snapshots serve spectator and lobby queries; the event log
// stays the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is an interface over the Redis operations the cache
// needs. This allows for easy mocking in tests.
type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key string, values ...interface{}) error
}

// goRedisClient adapts a go-redis client to the RedisClient interface.
type goRedisClient struct {
	rdb *redis.Client
}

// NewRedisClient connects to a Redis server at the given address.
func NewRedisClient(ctx context.Context, addr string) (RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return &goRedisClient{rdb: rdb}, nil
}

func (c *goRedisClient) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

func (c *goRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

func (c *goRedisClient) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *goRedisClient) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return c.rdb.HGetAll(ctx, key).Result()
}

func (c *goRedisClient) HSet(ctx context.Context, key string, values ...interface{}) error {
	return c.rdb.HSet(ctx, key, values...).Err()
}

// SnapshotCache provides fast access to game state snapshots.
type SnapshotCache struct {
	client     RedisClient
	expiration time.Duration
}

// NewSnapshotCache creates a new snapshot cache instance.
func NewSnapshotCache(client RedisClient) *SnapshotCache {
	return &SnapshotCache{
		client:     client,
		expiration: 15 * time.Minute,
	}
}

// PlayerSummary is the cached lobby view of one player.
type PlayerSummary struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	CharacterID string `json:"character_id"`
	Money       int    `json:"money"`
	Position    int    `json:"position"`
	NetWorth    int    `json:"net_worth"`
	InJail      bool   `json:"in_jail"`
	Bankrupt    bool   `json:"bankrupt"`
	LastSync    int64  `json:"last_sync"`
}

// SetGameSnapshot caches the full serialized snapshot of a match.
func (c *SnapshotCache) SetGameSnapshot(ctx context.Context, gameID string, snapshot interface{}) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal game snapshot: %w", err)
	}
	return c.client.Set(ctx, c.snapshotKey(gameID), data, c.expiration)
}

// GetGameSnapshot retrieves the cached snapshot into dst, reporting a
// miss through the error.
func (c *SnapshotCache) GetGameSnapshot(ctx context.Context, gameID string, dst interface{}) error {
	data, err := c.client.Get(ctx, c.snapshotKey(gameID))
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return fmt.Errorf("failed to unmarshal game snapshot: %w", err)
	}
	return nil
}

// SetPlayerSummaries caches the lobby view of all players of a match.
// Uses a Redis Hash for efficient storage.
func (c *SnapshotCache) SetPlayerSummaries(ctx context.Context, gameID string, summaries map[string]PlayerSummary) error {
	values := make([]interface{}, 0, len(summaries)*2)
	for id, s := range summaries {
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal summary for %s: %w", id, err)
		}
		values = append(values, id, string(data))
	}
	return c.client.HSet(ctx, c.playersKey(gameID), values...)
}

// GetPlayerSummaries retrieves the cached lobby view of a match.
func (c *SnapshotCache) GetPlayerSummaries(ctx context.Context, gameID string) (map[string]PlayerSummary, error) {
	data, err := c.client.HGetAll(ctx, c.playersKey(gameID))
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]PlayerSummary)
	for id, jsonStr := range data {
		var s PlayerSummary
		if err := json.Unmarshal([]byte(jsonStr), &s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal summary for %s: %w", id, err)
		}
		summaries[id] = s
	}
	return summaries, nil
}

// InvalidateGame removes all cached state for a match.
func (c *SnapshotCache) InvalidateGame(ctx context.Context, gameID string) error {
	return c.client.Del(ctx, c.snapshotKey(gameID), c.playersKey(gameID))
}

func (c *SnapshotCache) snapshotKey(gameID string) string {
	return fmt.Sprintf("game:%s:snapshot", gameID)
}

func (c *SnapshotCache) playersKey(gameID string) string {
	return fmt.Sprintf("game:%s:players", gameID)
}
