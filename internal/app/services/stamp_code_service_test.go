package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRestoreTTLKeepsRemainingLifetime(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 5*time.Minute, restoreTTL(now.Add(5*time.Minute), now))
	assert.Equal(t, time.Second, restoreTTL(now.Add(time.Second), now))
}

func TestRestoreTTLExpiredCodeIsNotRestorable(t *testing.T) {
	now := time.Now()

	// Zero or negative means the code would have lapsed anyway; the
	// restore path skips these instead of resurrecting a dead code.
	assert.LessOrEqual(t, restoreTTL(now, now), time.Duration(0))
	assert.Negative(t, restoreTTL(now.Add(-time.Minute), now))
}
