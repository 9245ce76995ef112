// Package redis keeps the short lived state of the service: delivery verification codes
// and revoked access tokens. Every key is namespaced with a configurable prefix.
package redis

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
)

const defaultPrefix = "fastship"

// Options configures the redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Client is a redis connection with a key namespace.
type Client struct {
	rdb    *goredis.Client
	prefix string
}

// NewClient connects lazily; use Ping to check the server is reachable.
func NewClient(opts Options) *Client {
	prefix := strings.TrimSpace(opts.Prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Client{
		rdb: goredis.NewClient(&goredis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		prefix: prefix,
	}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) key(parts ...string) string {
	return fmt.Sprintf("%s:%s", c.prefix, strings.Join(parts, ":"))
}
