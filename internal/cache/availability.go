package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
)

// AvailabilityCache keeps computed availability per barber. Every write to
// a barber's calendar bumps a generation counter, so stale entries are never
// read again and simply expire.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

// NewClient connects to addr. An empty addr disables caching.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func generationKey(barberID uint) string {
	return fmt.Sprintf("avail:gen:%d", barberID)
}

func entryKey(barberID uint, gen int64, date string, serviceID uint) string {
	return fmt.Sprintf("avail:%d:g%d:%s:%d", barberID, gen, date, serviceID)
}

func (c *AvailabilityCache) generation(ctx context.Context, barberID uint) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(barberID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

// Get never fails: any redis problem is a miss. The returned generation is
// what Set must write under, so a calendar change that lands while the
// caller computes makes the late entry unreachable. A negative generation
// means the counter could not be read and nothing should be stored.
func (c *AvailabilityCache) Get(
	ctx context.Context,
	barberID uint,
	serviceID uint,
	date string,
) (*domain.Availability, int64, bool) {
	if c == nil || c.rdb == nil {
		return nil, -1, false
	}

	gen, err := c.generation(ctx, barberID)
	if err != nil {
		zap.L().Debug("availability cache unavailable", zap.Error(err))
		return nil, -1, false
	}

	raw, err := c.rdb.Get(ctx, entryKey(barberID, gen, date, serviceID)).Bytes()
	if err != nil {
		return nil, gen, false
	}

	var out domain.Availability
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, gen, false
	}
	return &out, gen, true
}

func (c *AvailabilityCache) Set(
	ctx context.Context,
	barberID uint,
	serviceID uint,
	date string,
	gen int64,
	a *domain.Availability,
) {
	if c == nil || c.rdb == nil || a == nil || gen < 0 {
		return
	}

	raw, err := json.Marshal(a)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, entryKey(barberID, gen, date, serviceID), raw, c.ttl).Err(); err != nil {
		zap.L().Debug("availability cache write failed", zap.Error(err))
	}
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, barberID uint) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, generationKey(barberID)).Err(); err != nil {
		zap.L().Warn("availability cache invalidation failed",
			zap.Uint("barber_id", barberID),
			zap.Error(err),
		)
	}
}
