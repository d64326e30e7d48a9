// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package wmlrt

import (
	"log/slog"
	"time"

	"nickandperla.net/wmlrt/internal/engine"
	"nickandperla.net/wmlrt/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithSQLiteStore keeps variables in a fresh session of the SQLite
// database at path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		r.openStore = func() (store.Store, error) {
			return store.NewSQLite(path)
		}
	}
}

// WithSQLiteSession resumes an existing session of the SQLite database at path.
func WithSQLiteSession(path, session string) Option {
	return func(r *Runtime) {
		r.openStore = func() (store.Store, error) {
			return store.OpenSession(path, session)
		}
	}
}

// WithMemoryStore keeps variables in memory. This is the default.
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.openStore = func() (store.Store, error) {
			return store.NewMemory(), nil
		}
	}
}

// WithStore uses a caller-provided store. The runtime closes it on Close.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.openStore = func() (store.Store, error) {
			return s, nil
		}
	}
}

// WithHost sets the navigation host.
func WithHost(h Host) Option {
	return func(r *Runtime) {
		r.engineOpts = append(r.engineOpts, engine.WithHost(h))
	}
}

// WithSurface sets the rendering surface.
func WithSurface(s Surface) Option {
	return func(r *Runtime) {
		r.engineOpts = append(r.engineOpts, engine.WithSurface(s))
	}
}

// WithLogger sets the diagnostics logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithDiagnostics registers a hook receiving every recovered *Error.
func WithDiagnostics(fn func(error)) Option {
	return func(r *Runtime) {
		r.engineOpts = append(r.engineOpts, engine.WithDiagnostics(fn))
	}
}

// WithClock replaces the event loop as timer source (for testing).
func WithClock(c Clock) Option {
	return func(r *Runtime) {
		r.engineOpts = append(r.engineOpts, engine.WithClock(c))
	}
}

// WithTimeUnit sets the duration of one timer unit.
func WithTimeUnit(d time.Duration) Option {
	return func(r *Runtime) {
		r.engineOpts = append(r.engineOpts, engine.WithTimeUnit(d))
	}
}

// Store is the variable store interface.
type Store = store.Store

// Host performs navigation requests.
type Host = engine.Host

// Surface renders cards.
type Surface = engine.Surface

// Clock arms timers.
type Clock = engine.Clock

// Timer is a pending clock callback.
type Timer = engine.Timer

// Request is an external navigation request.
type Request = engine.Request

// Field is a form field of a Request.
type Field = engine.Field

// Error is a recovered diagnostic.
type Error = engine.Error

// NavigationType is the kind of the pending navigation.
type NavigationType = engine.NavigationType

// Transition is the outcome of a navigation notification.
type Transition = engine.Transition

// Navigation types and transitions.
const (
	NavForward  = engine.NavForward
	NavBackward = engine.NavBackward
	NavUnknown  = engine.NavUnknown

	Unchanged = engine.Unchanged
	Changed   = engine.Changed
)

// Diagnostic kinds, for errors.Is.
var (
	ErrMalformedSpecifier = engine.ErrMalformedSpecifier
	ErrUnknownTarget      = engine.ErrUnknownTarget
	ErrMissingVariable    = engine.ErrMissingVariable
	ErrMalformedTimer     = engine.ErrMalformedTimer
	ErrMalformedEscape    = engine.ErrMalformedEscape
	ErrUnknownControl     = engine.ErrUnknownControl
	ErrStore              = engine.ErrStore
)
