package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetExpire(t *testing.T) {
	c, err := NewCache(2)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", 1, time.Minute)
	assert.Equal(t, 1, c.Get("a"))

	now = now.Add(2 * time.Minute)
	assert.Nil(t, c.Get("a"), "expired entries are dropped")
	assert.Equal(t, 0, c.Len())
}

func TestCache_EvictAndPurge(t *testing.T) {
	c, err := NewCache(2)
	require.NoError(t, err)

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Set("c", 3, time.Minute)
	assert.Nil(t, c.Get("a"))
	assert.Equal(t, 3, c.Get("c"))

	c.Delete("c")
	assert.Nil(t, c.Get("c"))

	c.Purge()
	assert.Equal(t, 0, c.Len())
}
