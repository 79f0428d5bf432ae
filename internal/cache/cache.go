package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/JustJay7/court-case-lookup/internal/scraper"
	"github.com/patrickmn/go-cache"
)

// Entry is a successful court site answer kept for reuse.
type Entry struct {
	Result    *scraper.CaseResult
	Raw       string
	FetchedAt time.Time
}

type Cache interface {
	Get(key string) (*Entry, bool)
	Set(key string, value *Entry) error
	Delete(key string)
	Clear()
	Stats() CacheStats
}

type CacheStats struct {
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	Size       int       `json:"size"`
	MaxSize    int       `json:"max_size"`
	TTLSeconds float64   `json:"ttl_seconds"`
	LastAccess time.Time `json:"last_access"`
}

// LRUCache is a size-bounded TTL cache. When full, the entry closest to
// expiry is evicted.
type LRUCache struct {
	cache   *cache.Cache
	mu      sync.Mutex
	stats   CacheStats
	maxSize int
	ttl     time.Duration
}

func NewCache(maxSize int, ttl time.Duration) Cache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRUCache{
		cache:   cache.New(ttl, ttl*2),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func (c *LRUCache) Get(key string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.LastAccess = time.Now()

	if data, found := c.cache.Get(key); found {
		if entry, ok := data.(*Entry); ok {
			c.stats.Hits++
			return entry, true
		}
	}

	c.stats.Misses++
	return nil, false
}

func (c *LRUCache) Set(key string, value *Entry) error {
	if value == nil || value.Result == nil {
		return fmt.Errorf("cache: refusing to store empty entry for %q", key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.cache.Get(key); !exists && c.cache.ItemCount() >= c.maxSize {
		c.removeOldest()
	}

	c.cache.Set(key, value, cache.DefaultExpiration)
	return nil
}

func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Delete(key)
}

func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
	c.stats = CacheStats{}
}

func (c *LRUCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = c.cache.ItemCount()
	stats.MaxSize = c.maxSize
	stats.TTLSeconds = c.ttl.Seconds()
	return stats
}

func (c *LRUCache) removeOldest() {
	items := c.cache.Items()
	if len(items) == 0 {
		return
	}

	var (
		oldestKey string
		oldestExp int64
	)
	for key, item := range items {
		if oldestKey == "" || item.Expiration < oldestExp {
			oldestKey = key
			oldestExp = item.Expiration
		}
	}

	c.cache.Delete(oldestKey)
}

// GenerateCacheKey builds the key for a case lookup. Case type and number
// are compared without surrounding whitespace and case-insensitively.
func GenerateCacheKey(caseType, caseNumber string, filingYear int) string {
	return fmt.Sprintf("case:%s:%s:%d",
		strings.ToUpper(strings.TrimSpace(caseType)),
		strings.ToUpper(strings.TrimSpace(caseNumber)),
		filingYear,
	)
}
