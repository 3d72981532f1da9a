// Package worker provides a semaphore-bounded pool for running independent
// tasks concurrently, such as processing many CI runs at once.
//
// Tasks are submitted as closures and executed by at most maxWorkers
// goroutines at a time. Errors returned by tasks are collected into a single
// MultiError that Wait returns once every submitted task has finished, so a
// failing task never interrupts its siblings.
package worker

import (
	"sync"
	"sync/atomic"

	"github.com/openshift-eng/ci-monitor/internal/errors"
)

// Task is a unit of work executed by the pool.
type Task func() error

// Pool runs submitted tasks with bounded concurrency.
type Pool struct {
	semaphore   chan struct{}
	allErrors   *errors.MultiError
	wg          sync.WaitGroup
	maxWorkers  int
	mu          sync.RWMutex
	allErrorsMu sync.RWMutex
	isStopping  atomic.Bool
	isRunning   bool
}

// NewPool creates a pool that executes at most maxWorkers tasks concurrently.
func NewPool(maxWorkers int) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	return &Pool{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
		allErrors:  &errors.MultiError{},
	}
}

// Start prepares the pool for task submission. Submitting to a pool that was
// not started is allowed; Submit starts it on first use.
func (wp *Pool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.isRunning {
		return
	}

	wp.isRunning = true
	wp.isStopping.Store(false)
	wp.semaphore = make(chan struct{}, wp.maxWorkers)

	wp.allErrorsMu.Lock()
	wp.allErrors = &errors.MultiError{}
	wp.allErrorsMu.Unlock()
}

func (wp *Pool) appendError(err error) {
	if err == nil {
		return
	}

	wp.allErrorsMu.Lock()
	wp.allErrors = wp.allErrors.Append(err)
	wp.allErrorsMu.Unlock()
}

// Submit schedules a task for execution. The task starts as soon as a worker
// slot is free. Submissions made while the pool is stopping are dropped.
func (wp *Pool) Submit(task Task) {
	wp.mu.RLock()
	notRunning := !wp.isRunning
	wp.mu.RUnlock()

	if notRunning {
		wp.Start()
	}

	if wp.isStopping.Load() {
		return
	}

	wp.wg.Add(1)

	go func() {
		defer wp.wg.Done()

		wp.semaphore <- struct{}{}

		defer func() { <-wp.semaphore }()

		if err := task(); err != nil {
			wp.appendError(err)
		}
	}()
}

// Wait blocks until every submitted task has finished and returns the
// collected errors, or nil when all tasks succeeded.
func (wp *Pool) Wait() error {
	wp.wg.Wait()

	wp.allErrorsMu.RLock()
	defer wp.allErrorsMu.RUnlock()

	return wp.allErrors.ErrorOrNil()
}

// Stop rejects new submissions and marks the pool stopped once in-flight
// tasks complete.
func (wp *Pool) Stop() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.isRunning {
		return
	}

	wp.isStopping.Store(true)

	go func() {
		wp.wg.Wait()

		wp.mu.Lock()
		wp.isRunning = false
		wp.mu.Unlock()
	}()
}

// GracefulStop rejects new submissions, waits for in-flight tasks to finish
// and returns their collected errors.
func (wp *Pool) GracefulStop() error {
	wp.isStopping.Store(true)

	err := wp.Wait()

	wp.mu.Lock()
	defer wp.mu.Unlock()

	wp.isRunning = false

	return err
}

// IsRunning reports whether the pool currently accepts tasks.
func (wp *Pool) IsRunning() bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	return wp.isRunning
}
