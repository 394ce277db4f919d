package trace

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")

	id, ok := RequestIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-123", id)
	assert.Equal(t, "req-123", EnsureRequestID(ctx))
}

func TestRequestIDMissing(t *testing.T) {
	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = RequestIDFromContext(WithRequestID(context.Background(), ""))
	assert.False(t, ok, "empty IDs are treated as absent")
}

func TestEnsureRequestIDGenerates(t *testing.T) {
	first := EnsureRequestID(context.Background())
	second := EnsureRequestID(context.Background())

	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
