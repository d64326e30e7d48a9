// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package engine runs a materialized deck: it owns the active card, the
// variable context, the pending timer and the select baselines of one
// browsing session, and interprets the deck's tasks against a host.
//
// An Engine is not safe for concurrent use. Every method must be called
// from the goroutine running the engine's Loop (or, with a custom Clock,
// from a single goroutine of the caller's choosing).
package engine

import (
	"context"
	"log/slog"
	"time"

	"nickandperla.net/wmlrt/internal/deck"
	"nickandperla.net/wmlrt/internal/store"
)

// Host performs the navigation the engine requests. The engine never
// awaits a request: the host reports the outcome later through
// HashChanged, HistoryForward or HistoryBack (possibly re-entrantly).
type Host interface {
	RequestCard(id string)
	RequestExternal(req Request)
	RequestBack()
}

// Request is an external navigation.
type Request struct {
	URL    string
	Method string // "get" or "post"
	Fields []Field
}

// Field is a form field of an external request.
type Field struct {
	Name  string
	Value string
}

// Surface is the rendering surface.
type Surface interface {
	Show(c *deck.Card)
	Hide(c *deck.Card)
	SetText(t *deck.Text, text string)
}

// DefaultTimeUnit is the duration of one timer unit.
const DefaultTimeUnit = 100 * time.Millisecond

// Engine is one browsing session over one deck.
type Engine struct {
	deck    *deck.Deck
	store   store.Store
	host    Host
	surface Surface
	logger  *slog.Logger
	diag    func(error)
	loop    *Loop

	active  *deck.Card
	navType NavigationType
	loaded  bool

	timer   *scheduler
	selects *selectTracker
	inputs  map[string]*inputControl
}

// Option configures an Engine.
type Option func(*Engine)

// WithHost sets the navigation host.
func WithHost(h Host) Option {
	return func(e *Engine) { e.host = h }
}

// WithSurface sets the rendering surface.
func WithSurface(s Surface) Option {
	return func(e *Engine) { e.surface = s }
}

// WithStore sets the variable store. The default is an in-memory store.
func WithStore(s store.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithLogger sets the logger used for diagnostics and tracing.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithDiagnostics registers a hook receiving every *Error the engine recovers from.
func WithDiagnostics(fn func(error)) Option {
	return func(e *Engine) { e.diag = fn }
}

// WithClock replaces the engine loop as timer source. The clock must
// deliver callbacks on the goroutine driving the engine.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.timer.clock = c }
}

// WithTimeUnit sets the duration of one timer unit.
func WithTimeUnit(d time.Duration) Option {
	return func(e *Engine) { e.timer.unit = d }
}

// New creates an engine for d. The deck is not shown until Load.
func New(d *deck.Deck, opts ...Option) *Engine {
	e := &Engine{
		deck:    d,
		navType: NavUnknown,
		loop:    NewLoop(64),
		selects: newSelectTracker(),
		inputs:  make(map[string]*inputControl),
	}
	e.timer = newScheduler(e.loop, DefaultTimeUnit, e.onTimer)
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = store.NewMemory()
	}
	if e.host == nil {
		e.host = nopHost{}
	}
	if e.surface == nil {
		e.surface = nopSurface{}
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	return e
}

// Deck returns the deck being run.
func (e *Engine) Deck() *deck.Deck { return e.deck }

// Active returns the active card, nil before Load.
func (e *Engine) Active() *deck.Card { return e.active }

// TimerPending reports whether a card timer is armed.
func (e *Engine) TimerPending() bool { return e.timer.isPending() }

// Post queues f on the engine loop.
func (e *Engine) Post(f func()) bool { return e.loop.Post(f) }

// Run drives the engine loop until ctx ends or Close is called.
func (e *Engine) Run(ctx context.Context) error { return e.loop.Run(ctx) }

// Close cancels the pending timer and stops the loop. The store is not closed.
func (e *Engine) Close() {
	e.timer.cancel()
	e.loop.Close()
}

// report sends a recovered error to the diagnostics channel.
func (e *Engine) report(err *Error) {
	e.logger.Warn("diagnostic", "op", err.Op, "kind", err.Kind.Error(), "subject", err.Subject, "err", err)
	if e.diag != nil {
		e.diag(err)
	}
}

type nopHost struct{}

func (nopHost) RequestCard(string)      {}
func (nopHost) RequestExternal(Request) {}
func (nopHost) RequestBack()            {}

type nopSurface struct{}

func (nopSurface) Show(*deck.Card)            {}
func (nopSurface) Hide(*deck.Card)            {}
func (nopSurface) SetText(*deck.Text, string) {}
