package autosave

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter() (*atomic.Int32, SaveFunc) {
	var n atomic.Int32
	return &n, func(context.Context) error {
		n.Add(1)
		return nil
	}
}

func TestTriggerCoalesces(t *testing.T) {
	n, save := counter()
	a := New(save, 20*time.Millisecond)
	defer a.Stop()

	saved := make(chan error, 4)
	a.SetOnSaved(func(err error) { saved <- err })

	for range 5 {
		a.Trigger()
	}
	assert.True(t, a.IsPending())

	select {
	case err := <-saved:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("save never ran")
	}

	assert.Equal(t, int32(1), n.Load())
	assert.False(t, a.IsPending())
}

func TestFlushSavesPending(t *testing.T) {
	n, save := counter()
	a := New(save, time.Hour)
	defer a.Stop()

	require.NoError(t, a.Flush())
	assert.Zero(t, n.Load(), "nothing pending, nothing saved")

	a.Trigger()
	require.NoError(t, a.Flush())
	assert.Equal(t, int32(1), n.Load())
	assert.False(t, a.IsPending())
}

func TestFlushBeforeTimerSkipsDuplicateSave(t *testing.T) {
	n, save := counter()
	a := New(save, 30*time.Millisecond)

	a.Trigger()
	require.NoError(t, a.Flush())
	time.Sleep(80 * time.Millisecond)
	a.Stop()

	assert.Equal(t, int32(1), n.Load())
}

func TestLastError(t *testing.T) {
	boom := errors.New("disk full")
	a := New(func(context.Context) error { return boom }, time.Hour)
	defer a.Stop()

	a.Trigger()
	assert.ErrorIs(t, a.Flush(), boom)
	assert.ErrorIs(t, a.LastError(), boom)
}

func TestStopCancelsScheduledSave(t *testing.T) {
	n, save := counter()
	a := New(save, time.Hour)

	a.Trigger()
	a.Stop()
	a.Stop()

	a.Trigger()
	assert.Zero(t, n.Load())
}
