package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// keyCacheEntry holds a fetched key set and its expiry
type keyCacheEntry struct {
	keys    jwk.Set
	expires time.Time
	mu      sync.RWMutex
}

// KeyCache fetches and caches JWKS key sets per URL
type KeyCache struct {
	cache map[string]*keyCacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
}

// NewKeyCache creates a new JWKS key cache with a 1 hour TTL
func NewKeyCache() *KeyCache {
	return &KeyCache{
		cache: make(map[string]*keyCacheEntry),
		ttl:   1 * time.Hour,
	}
}

// Get retrieves the key set for a JWKS URL, fetching if the cache is stale
func (c *KeyCache) Get(ctx context.Context, jwksURL string) (jwk.Set, error) {
	c.mu.RLock()
	entry, exists := c.cache[jwksURL]
	c.mu.RUnlock()

	if exists {
		entry.mu.RLock()
		if time.Now().Before(entry.expires) && entry.keys != nil {
			keys := entry.keys
			entry.mu.RUnlock()
			return keys, nil
		}
		entry.mu.RUnlock()
	}

	keys, err := c.fetch(ctx, jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	c.mu.Lock()
	c.cache[jwksURL] = &keyCacheEntry{
		keys:    keys,
		expires: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()

	return keys, nil
}

func (c *KeyCache) fetch(ctx context.Context, jwksURL string) (jwk.Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read JWKS response: %w", err)
	}

	keys, err := jwk.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS: %w", err)
	}

	return keys, nil
}
