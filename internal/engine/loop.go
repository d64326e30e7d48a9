// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Clock arms timers. The callback must be delivered on the goroutine that
// runs the engine.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending clock callback.
type Timer interface {
	Stop() bool
}

// Loop runs posted events one at a time on the goroutine calling Run.
// It is also the engine's Clock: timer callbacks are posted to the loop
// instead of running on the timer goroutine.
type Loop struct {
	events chan func()
	done   chan struct{}
	once   sync.Once
	closed atomic.Bool
}

// NewLoop creates a loop with room for buffer queued events.
func NewLoop(buffer int) *Loop {
	return &Loop{
		events: make(chan func(), buffer),
		done:   make(chan struct{}),
	}
}

// Post queues f. It reports false once the loop is closed.
func (l *Loop) Post(f func()) bool {
	if l.closed.Load() {
		return false
	}
	select {
	case l.events <- f:
		return true
	case <-l.done:
		return false
	}
}

// Run processes events until ctx ends or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case f := <-l.events:
			f()
		}
	}
}

// Close stops Run and rejects further events. Queued events are dropped.
func (l *Loop) Close() {
	l.once.Do(func() {
		l.closed.Store(true)
		close(l.done)
	})
}

// AfterFunc arms a timer whose callback is posted to the loop.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() {
		l.Post(f)
	})
}
