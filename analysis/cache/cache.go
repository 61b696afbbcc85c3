// Package cache memoizes analyses in Redis, keyed by transcript.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kibitz/analysis"
	"kibitz/obslog"
)

const keyPrefix = "kibitz:analysis:"

// Cache wraps an Analyzer. Redis failures degrade to a direct call.
type Cache struct {
	rdb  *redis.Client
	next analysis.Analyzer
	ttl  time.Duration
}

var _ analysis.Analyzer = (*Cache)(nil)

func New(rdb *redis.Client, next analysis.Analyzer, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, next: next, ttl: ttl}
}

// Dial parses a redis:// URL and pings the server.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// Key returns the Redis key for a transcript. Surrounding whitespace and line
// ending style do not change the key.
func Key(transcript string) string {
	normalized := strings.TrimSpace(strings.ReplaceAll(transcript, "\r\n", "\n"))
	return keyPrefix + strconv.FormatUint(xxhash.Sum64String(normalized), 16)
}

func (c *Cache) Analyze(ctx context.Context, transcript string) (*analysis.Result, error) {
	if err := analysis.ValidateTranscript(transcript); err != nil {
		return nil, err
	}
	key := Key(transcript)
	log := obslog.L().With(zap.String("key", key))

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var res analysis.Result
		if jsonErr := json.Unmarshal(raw, &res); jsonErr == nil {
			log.Debug("analysis cache hit")
			res.Transcript = transcript
			return &res, nil
		}
		log.Warn("discarding corrupt cache entry")
	case errors.Is(err, redis.Nil):
	default:
		log.Warn("analysis cache read failed", zap.Error(err))
	}

	res, err := c.next.Analyze(ctx, transcript)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(res); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Warn("analysis cache write failed", zap.Error(err))
		}
	}
	return res, nil
}
