package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Client — обёртка над go-redis: всё состояние галереи лежит в нескольких
// JSON-ключах, поэтому репозиториям достаточно Get/Set.
type Client struct {
	*redis.Client
}

func NewClient(addr, password string, db int) *Client {
	return &Client{
		Client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// HealthCheck пингует Redis; отдаётся наружу через /health.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() {
	c.Conn().Close()
}
