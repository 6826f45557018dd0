package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"my-calendar/internal/logger"
)

const holidayKeyPrefix = "holidays"

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(addr string, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // no password
		DB:       0,  // use default DB
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		if log != nil {
			log.Error("REDIS", fmt.Sprintf("Failed to connect to Redis at %s: %v", addr, err))
		}
		client.Close()
		return nil, err
	}

	if log != nil {
		log.Info("REDIS", fmt.Sprintf("Connected to Redis at %s for holiday caching", addr))
	}
	return client, nil
}

// RedisHolidayCache keeps holiday lists as JSON under holidays:{country}:{year}.
type RedisHolidayCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisHolidayCache(client *redis.Client, ttl time.Duration) *RedisHolidayCache {
	return &RedisHolidayCache{Client: client, TTL: ttl}
}

func holidayKey(country string, year int) string {
	return fmt.Sprintf("%s:%s:%d", holidayKeyPrefix, country, year)
}

func (c *RedisHolidayCache) Get(ctx context.Context, country string, year int) ([]Holiday, bool, error) {
	raw, err := c.Client.Get(ctx, holidayKey(country, year)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var holidays []Holiday
	if err := json.Unmarshal(raw, &holidays); err != nil {
		return nil, false, fmt.Errorf("corrupt holiday cache entry: %w", err)
	}
	return holidays, true, nil
}

func (c *RedisHolidayCache) Set(ctx context.Context, country string, year int, holidays []Holiday) error {
	raw, err := json.Marshal(holidays)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, holidayKey(country, year), raw, c.TTL).Err()
}
