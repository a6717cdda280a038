package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// RefreshTokenRepositoryImpl implements domain.RefreshTokenStore using Redis.
// Each live token id maps to its owner; a per-user set indexes them for bulk revocation.
type RefreshTokenRepositoryImpl struct {
	client *redis.Client
	prefix string
}

// NewRefreshTokenRepository creates a new refresh token allowlist
func NewRefreshTokenRepository(client *redis.Client) domain.RefreshTokenStore {
	return &RefreshTokenRepositoryImpl{
		client: client,
		prefix: "refresh:",
	}
}

func (r *RefreshTokenRepositoryImpl) tokenKey(tokenID string) string {
	return r.prefix + tokenID
}

func (r *RefreshTokenRepositoryImpl) userKey(userID string) string {
	return r.prefix + "user:" + userID
}

// Save implements domain.RefreshTokenStore
func (r *RefreshTokenRepositoryImpl) Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.tokenKey(tokenID), userID, ttl)
		pipe.SAdd(ctx, r.userKey(userID), tokenID)
		pipe.Expire(ctx, r.userKey(userID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Consume implements domain.RefreshTokenStore. GETDEL makes a token id
// usable exactly once even under concurrent refreshes.
func (r *RefreshTokenRepositoryImpl) Consume(ctx context.Context, userID, tokenID string) (bool, error) {
	owner, err := r.client.GetDel(ctx, r.tokenKey(tokenID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("consume refresh token: %w", err)
	}
	if err := r.client.SRem(ctx, r.userKey(owner), tokenID).Err(); err != nil {
		return false, fmt.Errorf("unindex refresh token: %w", err)
	}
	return owner == userID, nil
}

// Revoke implements domain.RefreshTokenStore
func (r *RefreshTokenRepositoryImpl) Revoke(ctx context.Context, userID, tokenID string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.tokenKey(tokenID))
		pipe.SRem(ctx, r.userKey(userID), tokenID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAll implements domain.RefreshTokenStore
func (r *RefreshTokenRepositoryImpl) RevokeAll(ctx context.Context, userID string) error {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("list refresh tokens: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, r.tokenKey(id))
	}
	keys = append(keys, r.userKey(userID))

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}
