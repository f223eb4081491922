package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilClientAlwaysAllows(t *testing.T) {
	l := New(nil)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		release, err := l.Acquire(context.Background(), userID, ScopeComment, time.Minute)
		require.NoError(t, err)
		require.NotNil(t, release)
		release()
	}
}

func TestKeyIsScopedPerUserAndAction(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.NotEqual(t, key(a, ScopeContent), key(b, ScopeContent))
	assert.NotEqual(t, key(a, ScopeContent), key(a, ScopeComment))
	assert.Equal(t, "rate_limit:user:"+a.String()+":content", key(a, ScopeContent))
}
