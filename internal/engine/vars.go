// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package engine

import (
	"errors"

	"nickandperla.net/wmlrt/internal/deck"
	"nickandperla.net/wmlrt/internal/subst"
)

// GetVar returns the value of name, "" when unset.
func (e *Engine) GetVar(name string) string {
	v, _, err := e.store.Get(name)
	if err != nil {
		e.report(newError(ErrStore, "getvar", name, err))
		return ""
	}
	return v
}

// SetVar overwrites name unconditionally.
func (e *Engine) SetVar(name, value string) {
	if err := e.store.Put(name, value); err != nil {
		e.report(newError(ErrStore, "setvar", name, err))
	}
}

// Vars returns a snapshot of every bound variable.
func (e *Engine) Vars() map[string]string {
	all, err := e.store.All()
	if err != nil {
		e.report(newError(ErrStore, "vars", "", err))
		return map[string]string{}
	}
	return all
}

// ResetContext clears every variable and re-records the select baselines
// from the current selections.
func (e *Engine) ResetContext() {
	if err := e.store.Reset(); err != nil {
		e.report(newError(ErrStore, "newcontext", "", err))
	}
	e.selects.rebase()
	e.refresh()
}

func (e *Engine) assign(vars []deck.Setvar) {
	for _, sv := range vars {
		e.SetVar(sv.Name, sv.Value)
	}
}

// refresh re-resolves the placeholders of the active card.
func (e *Engine) refresh() {
	if e.active == nil {
		return
	}
	for _, t := range e.active.Texts {
		if t.Display == nil {
			continue
		}
		text, err := subst.Resolve(t.Display, e.GetVar)
		e.reportEscape("refresh", err)
		e.surface.SetText(t, text)
	}
}

// reportEscape turns substitution errors into diagnostics.
func (e *Engine) reportEscape(op string, err error) {
	if err == nil {
		return
	}
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}
	for _, one := range errs {
		var ee *subst.EscapeError
		if errors.As(one, &ee) {
			e.report(newError(ErrMalformedEscape, op, ee.Name, ee.Err))
			continue
		}
		e.report(newError(ErrMalformedEscape, op, "", one))
	}
}
