package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKey   = "lms:leaderboard:ranked"
	versionKey = "lms:leaderboard:version"
)

const DefaultCacheTTL = 5 * time.Minute

// Cache stores the fully ranked list. A miss is reported as ok == false.
// Load also returns the current version; Store drops the write when an
// Invalidate has bumped the version since, so a ranking computed before an
// XP change never lands after it.
type Cache interface {
	Load(ctx context.Context) (entries []RankedEntry, version int64, ok bool, err error)
	Store(ctx context.Context, entries []RankedEntry, version int64) error
	Invalidate(ctx context.Context) error
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type RedisCache struct {
	Client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		MaxRetries:   2,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{Client: client, ttl: ttl}, nil
}

func (c *RedisCache) Load(ctx context.Context) ([]RankedEntry, int64, bool, error) {
	vals, err := c.Client.MGet(ctx, cacheKey, versionKey).Result()
	if err != nil {
		return nil, 0, false, err
	}

	version, err := parseVersion(vals[1])
	if err != nil {
		return nil, 0, false, err
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, version, false, nil
	}

	var entries []RankedEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, version, false, err
	}
	return entries, version, true, nil
}

func parseVersion(v interface{}) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func (c *RedisCache) Store(ctx context.Context, entries []RankedEntry, version int64) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	err = c.Client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cacheKey, raw, c.ttl)
			return nil
		})
		return err
	}, versionKey)

	// The version moved while we were writing: the entries are stale.
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	_, err := c.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		pipe.Del(ctx, cacheKey)
		return nil
	})
	return err
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}
