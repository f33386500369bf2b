package notification

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRun_BoundsConcurrency(t *testing.T) {
	p := NewPool(2, 0)

	var running, peak, done atomic.Int32
	tasks := make([]Task, 0, 6)
	for i := 0; i < 6; i++ {
		tasks = append(tasks, func(context.Context) error {
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
			done.Add(1)
			return nil
		})
	}

	require.NoError(t, p.Run(context.Background(), tasks...))
	assert.Equal(t, int32(6), done.Load())
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestPoolRun_CombinesErrors(t *testing.T) {
	errA := errors.New("mailbox full")
	errB := errors.New("smtp down")
	p := NewPool(3, 0)

	err := p.Run(context.Background(),
		func(context.Context) error { return errA },
		func(context.Context) error { return nil },
		nil,
		func(context.Context) error { return errB },
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errA) || errors.Is(err, errB))
}

func TestPoolRun_EmptyAndNil(t *testing.T) {
	assert.NoError(t, NewPool(0, 0).Run(context.Background()))

	var p *Pool
	called := false
	require.NoError(t, p.Run(context.Background(), func(context.Context) error {
		called = true
		return nil
	}))
	assert.True(t, called)
}

func TestPoolRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	err := NewPool(1, 1).Run(ctx,
		func(context.Context) error { calls.Add(1); return nil },
		func(context.Context) error { calls.Add(1); return nil },
	)
	assert.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, calls.Load(), int32(1))
}
