package integrity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quangdng/spotline/internal/platform/apperr"
	"github.com/quangdng/spotline/internal/platform/constants"
)

// ReportCache keeps the latest report snapshot in redis so operators can
// poll it without touching the primary database.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

func (cache *ReportCache) Store(context context.Context, report *Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return cache.client.Set(context, constants.RedisKeyIntegrityReport, payload, cache.ttl).Err()
}

// Latest returns the cached report, or NOT_FOUND when no run happened
// within the TTL window.
func (cache *ReportCache) Latest(context context.Context) (*Report, error) {
	payload, err := cache.client.Get(context, constants.RedisKeyIntegrityReport).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFound("Integrity report")
	}
	if err != nil {
		return nil, err
	}

	report := &Report{}
	if err := json.Unmarshal(payload, report); err != nil {
		return nil, err
	}
	return report, nil
}
