package auth

import (
	"context"
	"time"

	"curator/internal/cache"
)

const revokedRefreshKeyPrefix = "blacklist:refresh_token:"

// TokenStoreInterface defines the interface for token revocation.
type TokenStoreInterface interface {
	RevokeRefreshToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRefreshTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore keeps revoked refresh token ids in Redis until they would have
// expired anyway.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// RevokeRefreshToken blacklists a refresh token id for ttl.
func (s *TokenStore) RevokeRefreshToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedRefreshKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsRefreshTokenRevoked checks if a refresh token id is blacklisted.
func (s *TokenStore) IsRefreshTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, revokedRefreshKeyPrefix+tokenID)
	if err != nil {
		return false, nil // Not revoked if error (fail safe)
	}
	return data != nil, nil
}
