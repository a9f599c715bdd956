package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRU_GetAndSet(t *testing.T) {
	c := NewLRU[string, int](3)
	c.Set("a", 1)
	c.Set("b", 2)

	val, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, val)

	val, ok = c.Get("missing")
	assert.False(t, ok)
	assert.Zero(t, val)

	c.Set("a", 100)
	val, _ = c.Get("a")
	assert.Equal(t, 100, val)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRU_ZeroCapacityHoldsOne(t *testing.T) {
	c := NewLRU[string, int](0)
	c.Set("a", 1)
	c.Set("b", 2)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestLRU_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRU[string, string](4, WithTTL(time.Minute), WithClock(func() time.Time { return now }))

	c.Set("one.test", "k1")
	now = now.Add(59 * time.Second)
	val, ok := c.Get("one.test")
	assert.True(t, ok)
	assert.Equal(t, "k1", val)

	now = now.Add(time.Second)
	_, ok = c.Get("one.test")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entries are dropped when read")

	c.Set("one.test", "k2")
	now = now.Add(30 * time.Second)
	c.Set("one.test", "k3")
	now = now.Add(45 * time.Second)
	val, ok = c.Get("one.test")
	assert.True(t, ok, "setting again restarts the TTL")
	assert.Equal(t, "k3", val)
}

func TestLRU_RemoveAndRemoveFunc(t *testing.T) {
	c := NewLRU[string, string](8)
	c.Set("one.test", "k1")
	c.Set("alias.test", "k1")
	c.Set("two.test", "k2")

	c.Remove("missing")
	assert.Equal(t, 3, c.Len())

	removed := c.RemoveFunc(func(_ string, key string) bool { return key == "k1" })
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Len())

	c.Remove("two.test")
	assert.Equal(t, 0, c.Len())

	c.Set("x", "y")
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestLRU_ConcurrentAccess(t *testing.T) {
	c := NewLRU[int, int](50)
	var wg sync.WaitGroup
	for i := range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Set(i%80, i)
			c.Get(i % 80)
			if i%7 == 0 {
				c.Remove(i % 80)
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}
