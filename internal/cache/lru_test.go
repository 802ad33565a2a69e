package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRU_Evicts(t *testing.T) {
	c := New(2)
	c.Add("a", 1)
	c.Add("b", 2)
	_, _ = c.Get("a") // a becomes MRU
	c.Add("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b should be evicted")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())

	c.Add("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestLRU_Concurrent(t *testing.T) {
	c := New(8)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Add(i%10, i)
			c.Get(i % 10)
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 8)
}

func TestNew_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { New(0) })
}
