// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package engine

import (
	"errors"
	"fmt"
)

// Error kinds. All of them are recovered inside the engine and only ever
// reach the diagnostics channel.
var (
	// ErrMalformedSpecifier: an input format does not have the count+code shape.
	// The control is left unvalidated.
	ErrMalformedSpecifier = errors.New("malformed format specifier")
	// ErrUnknownTarget: a navigation target names no card. The active card
	// is left unchanged.
	ErrUnknownTarget = errors.New("unknown navigation target")
	// ErrMissingVariable is never reported: unset variables resolve to "".
	// It exists so hosts can name the policy.
	ErrMissingVariable = errors.New("missing variable")
	// ErrMalformedTimer: a card timer value is not a non-negative integer.
	ErrMalformedTimer = errors.New("malformed timer value")
	// ErrMalformedEscape: a value could not be percent-decoded.
	ErrMalformedEscape = errors.New("malformed escape sequence")
	// ErrUnknownControl: an input or change event names no control.
	ErrUnknownControl = errors.New("unknown control")
	// ErrStore: the variable store failed; reads resolve to "".
	ErrStore = errors.New("variable store failure")
)

// Error is a diagnostic raised while running a deck.
type Error struct {
	Kind    error  // one of the Err* kinds
	Op      string // operation that raised it, e.g. "go", "hashchange"
	Subject string // target, control id, specifier...
	Err     error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("wmlrt: %s: %v", e.Op, e.Kind)
	if e.Subject != "" {
		msg += fmt.Sprintf(" %q", e.Subject)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, op, subject string, err error) *Error {
	return &Error{Kind: kind, Op: op, Subject: subject, Err: err}
}
