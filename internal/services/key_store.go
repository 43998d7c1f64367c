package services

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/deploymenttheory/go-clearkey/internal/interfaces"
	"github.com/deploymenttheory/go-clearkey/internal/types"
)

// KeyStore is an in-memory KeyStore whose entries expire after a fixed TTL.
// It is safe for concurrent use.
type KeyStore struct {
	cache *cache.Cache
}

// Ensure interface compliance
var _ interfaces.KeyStore = (*KeyStore)(nil)

// NewKeyStore creates a key store. A ttl of zero or less keeps keys until they are
// removed or the store is cleared.
func NewKeyStore(ttl time.Duration) *KeyStore {
	if ttl <= 0 {
		return &KeyStore{cache: cache.New(cache.NoExpiration, 0)}
	}
	return &KeyStore{cache: cache.New(ttl, 2*ttl)}
}

// Put stores key under id.
func (s *KeyStore) Put(id types.KeyID, key types.Key) {
	s.cache.Set(id.Hex(), key, cache.DefaultExpiration)
}

// Get returns the key stored under id.
func (s *KeyStore) Get(id types.KeyID) (types.Key, bool) {
	x, found := s.cache.Get(id.Hex())
	if !found {
		return types.Key{}, false
	}
	key, ok := x.(types.Key)
	return key, ok
}

// Remove drops the key stored under id.
func (s *KeyStore) Remove(id types.KeyID) {
	s.cache.Delete(id.Hex())
}

// Len returns the number of stored keys, including expired keys not yet evicted.
func (s *KeyStore) Len() int {
	return s.cache.ItemCount()
}

// Clear drops every key.
func (s *KeyStore) Clear() {
	s.cache.Flush()
}
