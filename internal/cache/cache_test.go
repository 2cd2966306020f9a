package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmachacek/ledgermind/internal/model"
)

func TestResultCache_SetGet(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	result := model.RuleMatch("entertainment", "r1", "netflix")
	c.Set("txn-1", result)

	got, ok := c.Get("txn-1")
	require.True(t, ok)
	assert.Equal(t, result, got)

	_, ok = c.Get("txn-2")
	assert.False(t, ok)
}

func TestResultCache_Expiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	defer c.Close()

	c.Set("txn-1", model.NoResult())
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("txn-1")
	assert.False(t, ok)
}

func TestResultCache_Invalidate(t *testing.T) {
	c := New(time.Minute)
	defer c.Close()

	c.Set("txn-1", model.NoResult())
	c.Set("txn-2", model.NoResult())
	require.Equal(t, 2, c.Size())

	c.Invalidate()

	assert.Zero(t, c.Size())
	_, ok := c.Get("txn-1")
	assert.False(t, ok)
}

func TestResultCache_DefaultTTL(t *testing.T) {
	c := New(0)
	defer c.Close()

	c.Set("txn-1", model.NoResult())
	_, ok := c.Get("txn-1")
	assert.True(t, ok)
}
