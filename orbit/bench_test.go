package orbit_test

import (
	"strconv"
	"testing"

	"github.com/polyray/symrev/orbit"
)

func BenchmarkCache_Insert(b *testing.B) {
	c := orbit.NewCache(1000)
	keys := make([]string, 4096)
	for i := range keys {
		keys[i] = "{" + strconv.Itoa(i) + " " + strconv.Itoa(i+7) + "}"
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Insert(keys[i%len(keys)])
	}
}

func BenchmarkCache_HitPath(b *testing.B) {
	c := orbit.NewCache(64)
	c.Insert("hot")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Insert("hot")
	}
}
