package utils

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsAllTasks(t *testing.T) {
	pool := NewWorkerPool(3)
	var count atomic.Int32
	for i := 0; i < 20; i++ {
		pool.Execute(func() {
			count.Add(1)
		})
	}
	pool.Wait()
	require.Equal(t, int32(20), count.Load())
}

func TestWorkerPoolLimitsConcurrency(t *testing.T) {
	pool := NewWorkerPool(2)
	var current, peak atomic.Int32
	for i := 0; i < 10; i++ {
		pool.Execute(func() {
			now := current.Add(1)
			for {
				old := peak.Load()
				if now <= old || peak.CompareAndSwap(old, now) {
					break
				}
			}
			current.Add(-1)
		})
	}
	pool.Wait()
	require.LessOrEqual(t, peak.Load(), int32(2))
}

func TestWorkerPoolPanicHandler(t *testing.T) {
	var mu sync.Mutex
	var recovered []any
	pool := NewWorkerPool(1, WithPanicHandler(func(r any) {
		mu.Lock()
		recovered = append(recovered, r)
		mu.Unlock()
	}))
	pool.Execute(func() { panic("boom") })
	pool.Wait()
	require.Equal(t, []any{"boom"}, recovered)
}
