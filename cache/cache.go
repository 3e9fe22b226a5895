package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trendyware/storefront-api/models"
	"go.uber.org/zap"
)

const adminOrdersKey = "orders:admin"

func userOrdersKey(userID string) string {
	return fmt.Sprintf("orders:user:%s", userID)
}

// InitRedis connects to redis and verifies the connection.
func InitRedis(addr, password string, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("redis connection established", zap.String("addr", addr))
	return rdb, nil
}

// OrderViews caches rendered order lists for the customer and admin views.
// A nil *OrderViews is valid and behaves as a permanent cache miss, so the
// server runs fine without redis. Cache errors degrade to database reads.
type OrderViews struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewOrderViews(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *OrderViews {
	return &OrderViews{rdb: rdb, ttl: ttl, log: log}
}

func (v *OrderViews) get(ctx context.Context, key string) ([]models.Order, bool) {
	if v == nil {
		return nil, false
	}
	data, err := v.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			v.log.Warn("order view cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var orders []models.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		v.log.Warn("order view cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return orders, true
}

func (v *OrderViews) set(ctx context.Context, key string, orders []models.Order) {
	if v == nil {
		return
	}
	data, err := json.Marshal(orders)
	if err != nil {
		return
	}
	if err := v.rdb.Set(ctx, key, data, v.ttl).Err(); err != nil {
		v.log.Warn("order view cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (v *OrderViews) GetUserOrders(ctx context.Context, userID string) ([]models.Order, bool) {
	return v.get(ctx, userOrdersKey(userID))
}

func (v *OrderViews) SetUserOrders(ctx context.Context, userID string, orders []models.Order) {
	v.set(ctx, userOrdersKey(userID), orders)
}

func (v *OrderViews) GetAdminOrders(ctx context.Context) ([]models.Order, bool) {
	return v.get(ctx, adminOrdersKey)
}

func (v *OrderViews) SetAdminOrders(ctx context.Context, orders []models.Order) {
	v.set(ctx, adminOrdersKey, orders)
}

// Invalidate drops the admin list and, when the order belongs to a user,
// that user's list. Runs after commit; failures are logged only.
func (v *OrderViews) Invalidate(ctx context.Context, userID *string) {
	if v == nil {
		return
	}
	keys := []string{adminOrdersKey}
	if userID != nil {
		keys = append(keys, userOrdersKey(*userID))
	}
	if err := v.rdb.Del(ctx, keys...).Err(); err != nil {
		v.log.Warn("order view invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
