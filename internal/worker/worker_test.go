package worker_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/internal/worker"
)

func TestAllTasksCompleteWithoutErrors(t *testing.T) {
	t.Parallel()

	wp := worker.NewPool(5)
	defer wp.Stop()

	var counter int32

	for i := 0; i < 10; i++ {
		wp.Submit(func() error {
			atomic.AddInt32(&counter, 1)
			return nil
		})
	}

	require.NoError(t, wp.Wait())
	assert.Equal(t, int32(10), atomic.LoadInt32(&counter))
}

func TestConcurrencyStaysWithinBound(t *testing.T) {
	t.Parallel()

	const maxWorkers = 3

	wp := worker.NewPool(maxWorkers)
	defer wp.Stop()

	var active, peak int32

	for i := 0; i < 20; i++ {
		wp.Submit(func() error {
			current := atomic.AddInt32(&active, 1)

			for {
				observed := atomic.LoadInt32(&peak)
				if current <= observed || atomic.CompareAndSwapInt32(&peak, observed, current) {
					break
				}
			}

			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&active, -1)

			return nil
		})
	}

	require.NoError(t, wp.Wait())
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(maxWorkers))
}

func TestSomeTasksReturnErrors(t *testing.T) {
	t.Parallel()

	wp := worker.NewPool(3)
	defer wp.Stop()

	var successCount int32

	for i := 0; i < 10; i++ {
		i := i
		wp.Submit(func() error {
			if i%2 == 0 {
				return errors.Errorf("run %d failed", i)
			}

			atomic.AddInt32(&successCount, 1)

			return nil
		})
	}

	err := wp.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5 errors occurred")
	assert.Equal(t, int32(5), atomic.LoadInt32(&successCount))
}

func TestGracefulStopCollectsErrors(t *testing.T) {
	t.Parallel()

	wp := worker.NewPool(2)

	wp.Submit(func() error {
		return errors.New("boom")
	})

	err := wp.GracefulStop()
	require.Error(t, err)
	assert.False(t, wp.IsRunning())
}

func TestSubmitWhileStoppingIsDropped(t *testing.T) {
	t.Parallel()

	wp := worker.NewPool(2)

	release := make(chan struct{})

	var counter int32

	wp.Submit(func() error {
		<-release
		atomic.AddInt32(&counter, 1)

		return nil
	})

	wp.Stop()

	wp.Submit(func() error {
		atomic.AddInt32(&counter, 100)
		return nil
	})

	close(release)

	require.NoError(t, wp.Wait())
	assert.Equal(t, int32(1), atomic.LoadInt32(&counter))
}
