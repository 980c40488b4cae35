// Package cache provides a thread-safe LRU cache for compiled expressions.
//
// Hosts that evaluate many distinct expressions can avoid re-parsing the
// same source on every call. Note that the parse-once/evaluate-many access
// pattern does not need this package: a single compiled Expression is
// already reusable. The cache only amortizes parsing across unrelated
// expression strings.
//
// # Example
//
//	c := cache.New(256)
//	expr, err := c.GetOrCompile("(att1 + att3) / att5", func() (*types.Expression, error) {
//	    return parser.Parse("(att1 + att3) / att5")
//	})
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fracpete/mxexpression-go/pkg/types"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 256

// Cache is a thread-safe LRU cache of compiled expressions keyed by their
// source string. Once the capacity is reached, the least recently accessed
// entry is evicted.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	capacity int
	lru      *lru.Cache[string, *types.Expression]
}

// New creates a new LRU cache with the given capacity.
// A capacity <= 0 falls back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	// lru.New only fails for non-positive sizes, which are filtered above.
	l, _ := lru.New[string, *types.Expression](capacity)
	return &Cache{
		capacity: capacity,
		lru:      l,
	}
}

// Get retrieves a compiled expression from the cache, marking it as most
// recently used.
func (c *Cache) Get(key string) (*types.Expression, bool) {
	return c.lru.Get(key)
}

// Set inserts or replaces an expression in the cache. If at capacity, the
// least recently used entry is evicted first.
func (c *Cache) Set(key string, expr *types.Expression) {
	c.lru.Add(key, expr)
}

// GetOrCompile retrieves the expression for key from the cache, or calls
// compile() to create it, caches the result, and returns it. Errors are
// not cached.
func (c *Cache) GetOrCompile(key string, compile func() (*types.Expression, error)) (*types.Expression, error) {
	if expr, ok := c.lru.Get(key); ok {
		return expr, nil
	}
	expr, err := compile()
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, expr)
	return expr, nil
}

// Len returns the number of entries currently in the cache.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Capacity returns the maximum number of entries the cache can hold.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Invalidate removes a single entry from the cache.
func (c *Cache) Invalidate(key string) {
	c.lru.Remove(key)
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.lru.Purge()
}
