package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitForSucceedsEventually(t *testing.T) {
	attempts := 0
	err := WaitFor(context.Background(), func() bool {
		attempts++
		return attempts >= 3
	}, time.Millisecond, 10, "test condition")
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestWaitForGivesUpAfterMaxChecks(t *testing.T) {
	err := WaitFor(context.Background(), func() bool {
		return false
	}, time.Millisecond, 3, "never ready")
	require.Error(t, err)
	require.Contains(t, err.Error(), "never ready")
}

func TestWaitForStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WaitFor(ctx, func() bool { return false }, time.Millisecond, 100, "cancelled")
	require.ErrorIs(t, err, context.Canceled)
}
