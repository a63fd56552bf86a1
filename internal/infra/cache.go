package infra

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const priceCacheTTL = 5 * time.Minute

// ErrCacheMiss is returned when the key is absent or unreadable.
var ErrCacheMiss = errors.New("cache miss")

// PriceCache caches public price-check lookups by barcode so the kiosk
// endpoint does not hit Postgres on every scan. Entries expire after a short
// TTL; writes (price changes, stock moves) invalidate eagerly.
type PriceCache struct {
	rdb *redis.Client
}

func NewPriceCache(rdb *redis.Client) *PriceCache { return &PriceCache{rdb: rdb} }

func key(barcode string) string { return "phoneshop:price:" + barcode }

func (c *PriceCache) Get(ctx context.Context, barcode string, dest interface{}) error {
	raw, err := c.rdb.Get(ctx, key(barcode)).Bytes()
	if err != nil {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return ErrCacheMiss
	}
	return nil
}

func (c *PriceCache) Set(ctx context.Context, barcode string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key(barcode), raw, priceCacheTTL)
}

func (c *PriceCache) Invalidate(ctx context.Context, barcode string) {
	c.rdb.Del(ctx, key(barcode))
}
