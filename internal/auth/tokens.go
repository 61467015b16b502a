package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pharmapulse/pharmapulse/internal/shared"
)

const tokenKeyPrefix = "auth:token:"

// TokenStore issues and resolves opaque bearer tokens backed by Redis.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

type tokenPayload struct {
	UserID   int64       `json:"user_id"`
	FullName string      `json:"full_name"`
	Role     shared.Role `json:"role"`
}

// Issue creates a new token for the identity and stores it with the TTL.
func (s *TokenStore) Issue(ctx context.Context, id shared.Identity) (string, error) {
	token := uuid.NewString()
	raw, err := json.Marshal(tokenPayload{UserID: id.UserID, FullName: id.FullName, Role: id.Role})
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, tokenKeyPrefix+token, raw, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the identity bound to the token, refreshing its TTL.
func (s *TokenStore) Resolve(ctx context.Context, token string) (shared.Identity, error) {
	if token == "" {
		return shared.Identity{}, shared.ErrUnauthorized
	}
	raw, err := s.client.Get(ctx, tokenKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return shared.Identity{}, shared.ErrUnauthorized
		}
		return shared.Identity{}, err
	}
	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return shared.Identity{}, shared.ErrUnauthorized
	}
	_ = s.client.Expire(ctx, tokenKeyPrefix+token, s.ttl).Err()
	return shared.Identity{UserID: payload.UserID, FullName: payload.FullName, Role: payload.Role}, nil
}

// Revoke deletes the token; absent tokens are treated as already revoked.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, tokenKeyPrefix+token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
