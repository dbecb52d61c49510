package apikey

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey("pos")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "pos_"))
	assert.NotContains(t, key, "=")

	other, err := GenerateAPIKey("pos")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestHasScope(t *testing.T) {
	key := &APIKey{Scopes: ScopeList{ScopeRead, ScopeIssue}}

	assert.True(t, key.HasScope(ScopeRead))
	assert.True(t, key.HasScope(ScopeIssue))
	assert.False(t, key.HasScope(ScopeAdmin))
}

func TestValidateScope(t *testing.T) {
	assert.True(t, ValidateScope(ScopeIssue))
	assert.False(t, ValidateScope(Scope("WITHDRAW")))
}

func TestIsExpired(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	assert.False(t, (&APIKey{}).IsExpired())
	assert.False(t, (&APIKey{ExpiresAt: &future}).IsExpired())
	assert.True(t, (&APIKey{ExpiresAt: &past}).IsExpired())
}
