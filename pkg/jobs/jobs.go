// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package jobs provides the bounded worker queue the pipeline uses to
// acquire resources in parallel.
package jobs

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"k8s.io/klog/v2"
)

const (
	maxWorkers = 100
	minWorkers = 1
	bufferSize = 200
)

// WorkFunc processes a single queued task.
type WorkFunc func(ctx context.Context, task interface{}) error

// Queue fans queued tasks out to a fixed set of workers and accumulates
// their errors. With failFast false the queue keeps draining after
// failures, which is what the acquisition phase wants: a resource that
// cannot be fetched is reported, not fatal.
type Queue struct {
	// name identifies the queue in log messages
	name string
	// workers is the number of goroutines draining the queue
	workers  int
	work     WorkFunc
	failFast bool
	// pending counts added tasks until each is processed
	pending sync.WaitGroup
	tasks   chan interface{}
	errs    *multierror.Error

	startOnce, stopOnce sync.Once
	mu                  sync.Mutex
	stopped             bool
	// processed tasks count
	done uint32
}

// NewQueue validates the worker count and returns an idle queue. Call
// Start before or after Add; tasks buffer until workers run.
func NewQueue(name string, workers int, work WorkFunc, failFast bool) (*Queue, error) {
	if workers < minWorkers || workers > maxWorkers {
		return nil, fmt.Errorf("queue %s: worker count %d outside [%d,%d]", name, workers, minWorkers, maxWorkers)
	}
	if work == nil {
		return nil, fmt.Errorf("queue %s: work func is nil", name)
	}
	return &Queue{
		name:     name,
		workers:  workers,
		work:     work,
		failFast: failFast,
		tasks:    make(chan interface{}, bufferSize),
	}, nil
}

// Start launches the worker goroutines. Subsequent calls are no-ops.
func (q *Queue) Start(ctx context.Context) {
	q.startOnce.Do(func() {
		klog.V(6).Infof("starting %s queue", q.name)
		for i := 0; i < q.workers; i++ {
			go q.run(ctx)
		}
	})
}

// Stop closes the task channel. Workers exit once the buffer drains.
// Triggered internally on context cancellation and on failFast errors.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		klog.V(6).Infof("stopping %s queue", q.name)
		q.stopped = true
		close(q.tasks)
	})
}

// Add enqueues a task. It reports false when the queue is stopped or a
// failFast error already occurred.
func (q *Queue) Add(task interface{}) bool {
	defer func() {
		// Stop may close the channel between the accept check and the
		// send; the recover keeps the pending count balanced.
		if recover() != nil {
			q.pending.Done()
			klog.V(6).Infof("dropped task %v, %s queue closed", task, q.name)
		}
	}()
	if q.accepting() {
		q.pending.Add(1)
		q.tasks <- task
		return true
	}
	klog.V(6).Infof("skipping task %v in %s queue", task, q.name)
	return false
}

// Wait blocks until every added task has been processed. Callers must
// finish adding before waiting.
func (q *Queue) Wait() {
	q.pending.Wait()
}

// Errors returns the accumulated worker errors, nil when none occurred.
func (q *Queue) Errors() *multierror.Error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.errs
}

// Processed returns the number of tasks handed to the work func.
func (q *Queue) Processed() int {
	return int(atomic.LoadUint32(&q.done))
}

// Waiting returns the number of buffered tasks not yet picked up.
func (q *Queue) Waiting() int {
	return len(q.tasks)
}

func (q *Queue) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			klog.V(6).Infof("context done for %s queue", q.name)
			q.Stop()
		case t, ok := <-q.tasks:
			if !ok {
				klog.V(6).Infof("%s queue drained", q.name)
				return
			}
			q.runOne(ctx, t)
		}
	}
}

// runOne executes the work func for one task, recovering panics into
// ordinary errors so a bad resource never kills a worker.
func (q *Queue) runOne(ctx context.Context, t interface{}) {
	defer q.pending.Done()
	defer atomic.AddUint32(&q.done, 1)
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in %s for task %v recovered: %v", q.name, t, r)
			klog.Warning(err.Error(), "\n", string(debug.Stack()))
			q.appendError(err)
		}
	}()
	if q.accepting() {
		if err := q.work(ctx, t); err != nil {
			q.appendError(err)
		}
	}
}

func (q *Queue) appendError(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.errs = multierror.Append(q.errs, err)
	if q.failFast {
		go q.Stop() // Stop locks mu itself
	}
}

// accepting reports whether new or buffered tasks should still be
// processed.
func (q *Queue) accepting() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.stopped && !(q.failFast && q.errs != nil)
}
