package cache_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/fracpete/mxexpression-go/pkg/cache"
	"github.com/fracpete/mxexpression-go/pkg/parser"
	"github.com/fracpete/mxexpression-go/pkg/types"
)

func compile(t *testing.T, input string) *types.Expression {
	t.Helper()
	expr, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", input, err)
	}
	return expr
}

func TestCacheGetSet(t *testing.T) {
	c := cache.New(4)

	if _, ok := c.Get("1+1"); ok {
		t.Error("Get on empty cache returned a hit")
	}

	expr := compile(t, "1+1")
	c.Set("1+1", expr)

	got, ok := c.Get("1+1")
	if !ok {
		t.Fatal("Expected a cache hit")
	}
	if got != expr {
		t.Error("Cache returned a different expression instance")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheEviction(t *testing.T) {
	c := cache.New(2)

	c.Set("a", compile(t, "1"))
	c.Set("b", compile(t, "2"))

	// Touch "a" so "b" becomes the eviction candidate.
	c.Get("a")
	c.Set("c", compile(t, "3"))

	if _, ok := c.Get("b"); ok {
		t.Error("Least recently used entry was not evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("Recently used entry was evicted")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestCacheDefaultCapacity(t *testing.T) {
	c := cache.New(0)
	if c.Capacity() != cache.DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", c.Capacity(), cache.DefaultCapacity)
	}
}

func TestCacheGetOrCompile(t *testing.T) {
	c := cache.New(4)

	calls := 0
	compileFn := func() (*types.Expression, error) {
		calls++
		return parser.Parse("2*3")
	}

	first, err := c.GetOrCompile("2*3", compileFn)
	if err != nil {
		t.Fatalf("GetOrCompile failed: %v", err)
	}
	second, err := c.GetOrCompile("2*3", compileFn)
	if err != nil {
		t.Fatalf("GetOrCompile failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("compile called %d times, want 1", calls)
	}
	if first != second {
		t.Error("Cache hit returned a different instance")
	}
}

func TestCacheErrorsNotCached(t *testing.T) {
	c := cache.New(4)

	fail := errors.New("compile failed")
	calls := 0
	compileFn := func() (*types.Expression, error) {
		calls++
		return nil, fail
	}

	if _, err := c.GetOrCompile("bad", compileFn); !errors.Is(err, fail) {
		t.Fatalf("GetOrCompile error = %v, want %v", err, fail)
	}
	if _, err := c.GetOrCompile("bad", compileFn); !errors.Is(err, fail) {
		t.Fatalf("GetOrCompile error = %v, want %v", err, fail)
	}
	if calls != 2 {
		t.Errorf("compile called %d times, want 2", calls)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after failed compiles, want 0", c.Len())
	}
}

func TestCacheInvalidateClear(t *testing.T) {
	c := cache.New(4)
	c.Set("a", compile(t, "1"))
	c.Set("b", compile(t, "2"))

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Invalidated entry still present")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", c.Len())
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := cache.New(16)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 32; j++ {
				source := fmt.Sprintf("%d+%d", n, j%4)
				_, err := c.GetOrCompile(source, func() (*types.Expression, error) {
					return parser.Parse(source)
				})
				if err != nil {
					t.Errorf("GetOrCompile(%q) failed: %v", source, err)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}
