// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package engine

import (
	"math"
	"strconv"
	"strings"
	"time"

	"nickandperla.net/wmlrt/internal/deck"
)

// scheduler owns the single pending card timer.
type scheduler struct {
	clock   Clock
	unit    time.Duration
	fire    func()
	pending *pendingTimer
}

type pendingTimer struct {
	handle    Timer
	cancelled bool
}

func newScheduler(clock Clock, unit time.Duration, fire func()) *scheduler {
	return &scheduler{clock: clock, unit: unit, fire: fire}
}

// arm replaces any pending timer with one firing after units.
func (s *scheduler) arm(units int) {
	s.cancel()
	p := &pendingTimer{}
	s.pending = p
	p.handle = s.clock.AfterFunc(time.Duration(units)*s.unit, func() {
		if p.cancelled || s.pending != p {
			return
		}
		// Cleared before the action runs so the action can arm again.
		s.pending = nil
		s.fire()
	})
}

func (s *scheduler) cancel() {
	p := s.pending
	if p == nil {
		return
	}
	p.cancelled = true
	s.pending = nil
	if p.handle != nil {
		p.handle.Stop()
	}
}

func (s *scheduler) isPending() bool { return s.pending != nil }

// parseTimerValue reads a timer value in units. Values whose duration
// does not fit a time.Duration are rejected.
func parseTimerValue(v string, unit time.Duration) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0, false
	}
	if unit > 0 && int64(n) > math.MaxInt64/int64(unit) {
		return 0, false
	}
	return n, true
}

// armFor re-arms the scheduler for c. A card without a timer leaves no
// timer pending.
func (e *Engine) armFor(c *deck.Card) {
	e.timer.cancel()
	if c == nil || c.Timer == nil {
		return
	}
	units, ok := parseTimerValue(c.Timer.Value, e.timer.unit)
	if !ok {
		e.report(newError(ErrMalformedTimer, "timer", c.Timer.Value, nil))
		return
	}
	e.logger.Debug("timer armed", "card", c.ID, "units", units)
	e.timer.arm(units)
}

// onTimer runs when the active card's timer expires.
func (e *Engine) onTimer() {
	if e.active == nil {
		return
	}
	e.logger.Debug("timer fired", "card", e.active.ID)
	e.handleEvent(deck.Timer)
}
