package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mdsxf1029/Sports-reservation-backend-sub000/internal/domain"
)

// AvailabilityCache keeps per-day locked-cell snapshots in Redis. Entries are
// deleted whenever a booking commits for that day, so a hit is at most one
// write behind and the booking path never trusts it.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

func (c *AvailabilityCache) GetLockedCells(ctx context.Context, day time.Time) ([]domain.LockedCell, bool, error) {
	data, err := c.client.Get(ctx, dayKey(day)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var cells []domain.LockedCell
	if err := json.Unmarshal([]byte(data), &cells); err != nil {
		return nil, false, err
	}
	return cells, true, nil
}

func (c *AvailabilityCache) SetLockedCells(ctx context.Context, day time.Time, cells []domain.LockedCell) error {
	data, err := json.Marshal(cells)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dayKey(day), data, c.ttl).Err()
}

func (c *AvailabilityCache) InvalidateDay(ctx context.Context, day time.Time) error {
	return c.client.Del(ctx, dayKey(day)).Err()
}

func dayKey(day time.Time) string {
	return "locked_cells:" + day.UTC().Format("2006-01-02")
}

// NewClient builds a Redis client and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
