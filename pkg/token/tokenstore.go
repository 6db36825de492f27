package tokenstore

import (
	"time"

	"HDTN/pkg/cache"
)

// Store remembers revoked token ids until the token would have expired anyway.
type Store struct {
	revoked *cache.Cache
}

func New() *Store {
	return &Store{revoked: cache.New(0, time.Minute)}
}

// Revoke marks jti as revoked until expiresAt. A zero expiresAt keeps it forever.
func (s *Store) Revoke(jti string, expiresAt time.Time) {
	if jti == "" {
		return
	}
	var ttl time.Duration
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
		if ttl <= 0 {
			return
		}
	}
	s.revoked.Set(jti, struct{}{}, ttl)
}

func (s *Store) IsRevoked(jti string) bool {
	if jti == "" {
		return false
	}
	_, ok := s.revoked.Get(jti)
	return ok
}
