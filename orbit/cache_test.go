package orbit_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polyray/symrev/orbit"
)

func TestCache_InsertReportsPresence(t *testing.T) {
	c := orbit.NewCache(10)
	assert.False(t, c.Insert("a"))
	assert.True(t, c.Insert("a"), "second insert of the same key sees it")
	assert.Equal(t, 1, c.Len())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := orbit.NewCache(2)
	c.Insert("a")
	c.Insert("b")
	c.Insert("a") // touch a; b is now LRU
	c.Insert("c") // evicts b

	assert.True(t, c.Lookup("a"))
	assert.False(t, c.Lookup("b"))
	assert.True(t, c.Lookup("c"))
	assert.Equal(t, 2, c.Len())
}

func TestCache_NeverExceedsCapacity(t *testing.T) {
	c := orbit.NewCache(5)
	for i := 0; i < 100; i++ {
		c.Insert(strconv.Itoa(i))
		assert.LessOrEqual(t, c.Len(), 5)
	}
	assert.Equal(t, 5, c.Len())
}

func TestCache_ZeroCapacityCoerced(t *testing.T) {
	c := orbit.NewCache(0)
	assert.Equal(t, 1, c.Cap())
	c.Insert("a")
	c.Insert("b")
	assert.Equal(t, 1, c.Len())
}

func TestCache_Remove(t *testing.T) {
	c := orbit.NewCache(3)
	c.Insert("a")
	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Equal(t, 0, c.Len())
}
