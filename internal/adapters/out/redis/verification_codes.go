package redis

import (
	"context"
	"time"

	"fastship/internal/core/domain/model/kernel"

	goredis "github.com/redis/go-redis/v9"
)

// consumeScript deletes the key only when it holds the expected code.
var consumeScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// VerificationCodeStore keeps one delivery verification code per shipment.
type VerificationCodeStore struct {
	client *Client
	ttl    time.Duration
}

func NewVerificationCodeStore(client *Client, ttl time.Duration) *VerificationCodeStore {
	return &VerificationCodeStore{client: client, ttl: ttl}
}

// Put stores code, replacing the previous one and restarting the expiry.
func (s *VerificationCodeStore) Put(ctx context.Context, shipmentID kernel.UUID, code string) error {
	return s.client.rdb.Set(ctx, s.key(shipmentID), code, s.ttl).Err()
}

// Consume compares and deletes in one server side step, so two concurrent deliveries
// cannot both use the same code.
func (s *VerificationCodeStore) Consume(ctx context.Context, shipmentID kernel.UUID, code string) (bool, error) {
	deleted, err := consumeScript.Run(ctx, s.client.rdb, []string{s.key(shipmentID)}, code).Int()
	if err != nil {
		return false, err
	}
	return deleted == 1, nil
}

func (s *VerificationCodeStore) key(shipmentID kernel.UUID) string {
	return s.client.key("verification_code", shipmentID.String())
}
