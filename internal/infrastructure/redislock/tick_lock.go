// Package redislock implementa el candado de revisión de stock bajo sobre Redis,
// para que varias réplicas no envíen los mismos avisos a la vez.
package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/pkg/config"
)

const defaultKey = "inventario:alerts:low-stock:tick"

// Solo borra la clave si sigue siendo nuestra.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TickLock candado SET NX PX con token propio; el TTL libera el candado si la réplica muere.
type TickLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewClient crea el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// New construye el candado. key vacío usa la clave por defecto.
func New(client *redis.Client, key string, ttl time.Duration) *TickLock {
	if key == "" {
		key = defaultKey
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &TickLock{client: client, key: key, ttl: ttl}
}

// TryLock intenta tomar el candado sin esperar. ErrTickInProgress si otra réplica lo tiene.
func (l *TickLock) TryLock(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lock: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if !ok {
		return nil, domain.ErrTickInProgress
	}
	return func() {
		// ctx puede estar cancelado al terminar la revisión; se libera igualmente.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(rctx, l.client, []string{l.key}, token).Err()
	}, nil
}
