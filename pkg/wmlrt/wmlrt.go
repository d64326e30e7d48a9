// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package wmlrt provides the public API for running WML card decks.
package wmlrt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"nickandperla.net/wmlrt/internal/deck"
	"nickandperla.net/wmlrt/internal/engine"
	"nickandperla.net/wmlrt/internal/htmldeck"
	"nickandperla.net/wmlrt/internal/store"
)

// Deck model.
type (
	Deck         = deck.Deck
	Card         = deck.Card
	Template     = deck.Template
	CardTimer    = deck.CardTimer
	Text         = deck.Text
	Anchor       = deck.Anchor
	Input        = deck.Input
	Select       = deck.Select
	SelectOption = deck.Option
	Event        = deck.Event
	Task         = deck.Task
	Go           = deck.Go
	Prev         = deck.Prev
	Refresh      = deck.Refresh
	Noop         = deck.Noop
	Setvar       = deck.Setvar
	Postfield    = deck.Postfield
)

// Runtime runs one deck for one browsing session.
type Runtime struct {
	engine     *engine.Engine
	store      store.Store
	openStore  func() (store.Store, error)
	logger     *slog.Logger
	engineOpts []engine.Option
}

// New creates a runtime for d. It fails only if the variable store
// cannot be opened.
func New(d *Deck, opts ...Option) (*Runtime, error) {
	r := &Runtime{}
	for _, opt := range opts {
		opt(r)
	}
	if r.openStore == nil {
		WithMemoryStore()(r)
	}
	s, err := r.openStore()
	if err != nil {
		return nil, fmt.Errorf("open variable store: %w", err)
	}
	r.store = s
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}

	engineOpts := append([]engine.Option{
		engine.WithStore(s),
		engine.WithLogger(r.logger),
	}, r.engineOpts...)
	r.engine = engine.New(d, engineOpts...)
	return r, nil
}

// NewFromHTML parses a transcoded HTML deck and creates a runtime for it.
func NewFromHTML(rd io.Reader, opts ...Option) (*Runtime, error) {
	d, err := htmldeck.Parse(rd)
	if err != nil {
		return nil, err
	}
	return New(d, opts...)
}

// NewFromFile is NewFromHTML over a file.
func NewFromFile(path string, opts ...Option) (*Runtime, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewFromHTML(f, opts...)
}

// Load shows the deck. locator is the host's initial location.
func (r *Runtime) Load(locator string) error { return r.engine.Load(locator) }

// HashChanged reports a location change.
func (r *Runtime) HashChanged(locator string) Transition { return r.engine.HashChanged(locator) }

// HistoryForward reports a forward history move.
func (r *Runtime) HistoryForward(locator string) Transition { return r.engine.HistoryForward(locator) }

// HistoryBack reports a backward history move.
func (r *Runtime) HistoryBack(locator string) Transition { return r.engine.HistoryBack(locator) }

// Execute runs a task.
func (r *Runtime) Execute(t Task) { r.engine.Execute(t) }

// Activate handles a click on an anchor.
func (r *Runtime) Activate(a *Anchor) { r.engine.Activate(a) }

// Select handles a change event on a select control.
func (r *Runtime) Select(id string, indexes ...int) bool { return r.engine.Select(id, indexes...) }

// SelectByIndexList is Select with the positions written as "1;3".
func (r *Runtime) SelectByIndexList(id, list string) bool { return r.engine.SelectByIndexList(id, list) }

// Input handles an input event on an input control.
func (r *Runtime) Input(id, value string) (string, bool) { return r.engine.Input(id, value) }

// GetVar returns a variable, "" when unset.
func (r *Runtime) GetVar(name string) string { return r.engine.GetVar(name) }

// SetVar sets a variable.
func (r *Runtime) SetVar(name, value string) { r.engine.SetVar(name, value) }

// Vars returns a snapshot of the variables.
func (r *Runtime) Vars() map[string]string { return r.engine.Vars() }

// NewContext clears the variables and the select baselines.
func (r *Runtime) NewContext() { r.engine.ResetContext() }

// Active returns the active card.
func (r *Runtime) Active() *Card { return r.engine.Active() }

// Deck returns the deck being run.
func (r *Runtime) Deck() *Deck { return r.engine.Deck() }

// TimerPending reports whether a card timer is armed.
func (r *Runtime) TimerPending() bool { return r.engine.TimerPending() }

// Session returns the store session id, "" for stores without sessions.
func (r *Runtime) Session() string {
	if s, ok := r.store.(interface{ Session() string }); ok {
		return s.Session()
	}
	return ""
}

// Post queues f on the event loop.
func (r *Runtime) Post(f func()) bool { return r.engine.Post(f) }

// Run drives the event loop until ctx ends or Close is called.
func (r *Runtime) Run(ctx context.Context) error { return r.engine.Run(ctx) }

// Stop cancels the pending timer and stops the event loop. The store
// stays open.
func (r *Runtime) Stop() { r.engine.Close() }

// Close stops the event loop and closes the store.
func (r *Runtime) Close() error {
	r.engine.Close()
	return r.store.Close()
}
