package token

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Denylist tracks revoked token ids in Redis. Entries live exactly as
// long as the token they revoke, so the set stays bounded.
type Denylist struct {
	client *goredis.Client
	prefix string
}

func NewDenylist(client *goredis.Client) *Denylist {
	return &Denylist{
		client: client,
		prefix: "revoked_token:",
	}
}

// Revoke marks the token id revoked until its expiry. Tokens already
// past expiry need no entry.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 || tokenID == "" {
		return nil
	}
	return d.client.Set(ctx, d.prefix+tokenID, "1", ttl).Err()
}

// Revoked reports whether the token id has been revoked.
func (d *Denylist) Revoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := d.client.Exists(ctx, d.prefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
