// Package loop serializes all taskbar state changes onto one goroutine.
package loop

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned when work is submitted to a loop that has exited.
var ErrStopped = errors.New("event loop stopped")

// Loop runs posted functions one at a time, in order, on the goroutine that
// called Run. Each function runs to completion before the next starts.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

// New returns a loop with the given queue depth.
func New(queue int) *Loop {
	if queue <= 0 {
		queue = 256
	}
	return &Loop{
		tasks: make(chan func(), queue),
		done:  make(chan struct{}),
	}
}

// Run processes tasks until ctx is cancelled. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post queues fn without waiting. It reports false if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}
	select {
	case l.tasks <- task:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
