package retail

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/creatorlink/product-pipeline-go/internal/model"
)

// searchCache holds recent search results keyed by normalized query.
// "Not found" is cached too, as an explicit negative, so a failing query is
// not retried within the TTL. Entries past the TTL are treated as absent.
type searchCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	result   *model.RetailSearchResult // nil is a cached negative
	storedAt time.Time
}

func newSearchCache(ttl time.Duration) *searchCache {
	return &searchCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// get returns the cached result for a normalized query. The second return
// distinguishes "cached negative" (nil, true) from "not cached" (nil, false).
func (c *searchCache) get(key string) (*model.RetailSearchResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false
	}
	return entry.result, true
}

func (c *searchCache) put(key string, result *model.RetailSearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{result: result, storedAt: c.now()}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// normalizeQuery produces the cache key: lowercased, whitespace collapsed.
func normalizeQuery(query string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(query)), " ")
}
