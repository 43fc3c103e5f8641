package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)

	assert.NotEqual(t, "secret", hash)
	assert.True(t, CheckPasswordHash("secret", hash))
	assert.False(t, CheckPasswordHash("secrets", hash))
	assert.False(t, CheckPasswordHash("secret", "not-a-bcrypt-hash"))
}

func TestFrozenClock(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFrozenClock(start)

	assert.Equal(t, start, clock.Now())

	clock.Advance(30 * time.Second)
	assert.Equal(t, start.Add(30*time.Second), clock.Now())

	clock.Set(start)
	assert.Equal(t, start, clock.Now())
}
