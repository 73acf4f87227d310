package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./denylist.go -destination=./mocks/denylist_mock.go -package=mocks

import (
	"context"
	"fmt"
	"math"

	"studio/shared/cache"
)

const revokedKeyPrefix = "auth:revoked:"

// Denylist remembers revoked token ids until the tokens would have expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, claims *Claims) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type denylistImpl struct {
	cache cache.RedisCache
}

func NewDenylist(cache cache.RedisCache) Denylist {
	return &denylistImpl{cache: cache}
}

func RevokedKey(tokenID string) string {
	return revokedKeyPrefix + tokenID
}

func (d *denylistImpl) Revoke(ctx context.Context, claims *Claims) error {
	ttl := int(math.Ceil(claims.RemainingTTL().Seconds()))
	if ttl <= 0 {
		return nil
	}

	if err := d.cache.Save(ctx, RevokedKey(claims.TokenID), claims.UserID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

func (d *denylistImpl) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}

	revoked, err := d.cache.Exists(ctx, RevokedKey(tokenID))
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}

	return revoked, nil
}
