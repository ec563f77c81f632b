package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go-stock-briefing/internal/entity"
	redisPkg "go-stock-briefing/pkg/redis"

	"github.com/patrickmn/go-cache"
)

const redisKeyLastPrice = "last_price:%s"

// LastPrice is the last-known per-ticker state surviving across runs.
type LastPrice struct {
	Price     float64
	Status    entity.RunStatus
	Timestamp int64
}

// PriceCacheRepository stores the last-known price and status per ticker.
// Writes are last-writer-wins; at most one refresh writes per run.
type PriceCacheRepository interface {
	GetLast(ctx context.Context, symbol string) (*LastPrice, error)
	SetLast(ctx context.Context, symbol string, last LastPrice) error
}

// NewPriceCacheRepository returns the redis-backed cache when a client is
// provided, otherwise an in-process cache that lives for the process only.
func NewPriceCacheRepository(client *redisPkg.Client) PriceCacheRepository {
	if client == nil {
		return &memoryPriceCache{cache: cache.New(48*time.Hour, time.Hour)}
	}
	return &redisPriceCache{client: client}
}

type redisPriceCache struct {
	client *redisPkg.Client
}

func (r *redisPriceCache) GetLast(ctx context.Context, symbol string) (*LastPrice, error) {
	key := fmt.Sprintf(redisKeyLastPrice, symbol)
	values, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	price, err := strconv.ParseFloat(values["price"], 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt price cache entry for %s: %w", symbol, err)
	}
	timestamp, _ := strconv.ParseInt(values["timestamp"], 10, 64)

	return &LastPrice{
		Price:     price,
		Status:    entity.RunStatus(values["status"]),
		Timestamp: timestamp,
	}, nil
}

func (r *redisPriceCache) SetLast(ctx context.Context, symbol string, last LastPrice) error {
	key := fmt.Sprintf(redisKeyLastPrice, symbol)
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"price":     last.Price,
		"status":    string(last.Status),
		"timestamp": last.Timestamp,
	})
	pipe.Expire(ctx, key, 7*24*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

type memoryPriceCache struct {
	cache *cache.Cache
}

func (m *memoryPriceCache) GetLast(_ context.Context, symbol string) (*LastPrice, error) {
	if value, found := m.cache.Get(symbol); found {
		last := value.(LastPrice)
		return &last, nil
	}
	return nil, nil
}

func (m *memoryPriceCache) SetLast(_ context.Context, symbol string, last LastPrice) error {
	m.cache.Set(symbol, last, cache.DefaultExpiration)
	return nil
}
