package redis

import (
	"context"
	"time"
)

// TokenBlacklist remembers revoked access token ids until the tokens expire.
type TokenBlacklist struct {
	client *Client
	now    func() time.Time
}

func NewTokenBlacklist(client *Client) *TokenBlacklist {
	return &TokenBlacklist{client: client, now: time.Now}
}

// Revoke is a no-op for a token that has already expired.
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	return b.client.rdb.Set(ctx, b.key(jti), "1", ttl).Err()
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.rdb.Exists(ctx, b.key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (b *TokenBlacklist) key(jti string) string {
	return b.client.key("jti_blacklist", jti)
}
