package shutdown

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"histogram-tool/internal/logger"
)

func TestShutdownCancelsContext(t *testing.T) {
	m := NewManager(context.Background(), logger.NoOpLogger{})
	m.Listen()

	require.NoError(t, m.Context().Err())
	m.Shutdown()
	m.Shutdown()

	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
	assert.False(t, m.Interrupted())
	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestSignalTriggersShutdown(t *testing.T) {
	m := NewManager(context.Background(), logger.NoOpLogger{})
	m.Listen()

	m.sigs <- syscall.SIGTERM

	select {
	case <-m.Context().Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled after signal")
	}
	assert.Eventually(t, m.Interrupted, time.Second, 10*time.Millisecond)
}

func TestParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	m := NewManager(parent, logger.NoOpLogger{})
	cancel()
	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
	m.Shutdown()
}
