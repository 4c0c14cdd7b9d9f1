// Package cache хранит в Redis краткоживущие данные: отозванные токены и
// отметки ограничения частоты писем.
// Состояние подписок и приглашений здесь не кешируется.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/streamflix/internal/config"
)

const (
	revokedTokenPrefix = "revoked_jwt:"
	throttlePrefix     = "throttle:"
)

// Cache — клиент Redis.
type Cache struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// Throttle атомарно занимает ключ key на время ttl. Возвращает false,
// если ключ уже занят: действие выполнялось недавно.
func (c *Cache) Throttle(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	const op = "cache.Throttle"
	ok, err := c.Db.SetNX(ctx, throttlePrefix+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

// RevokeToken помечает токен с идентификатором jti отозванным до момента expiresAt.
// Уже истёкший токен не сохраняется.
func (c *Cache) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	const op = "cache.RevokeToken"
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := c.Db.Set(ctx, revokedTokenPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsTokenRevoked сообщает, отозван ли токен.
func (c *Cache) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	const op = "cache.IsTokenRevoked"
	n, err := c.Db.Exists(ctx, revokedTokenPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// Ping проверяет соединение.
func (c *Cache) Ping(ctx context.Context) error {
	return c.Db.Ping(ctx).Err()
}

// Close закрывает клиент.
func (c *Cache) Close() error {
	return c.Db.Close()
}
