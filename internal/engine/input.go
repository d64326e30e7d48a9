// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package engine

import (
	"fmt"

	"nickandperla.net/wmlrt/internal/deck"
	"nickandperla.net/wmlrt/internal/format"
)

// inputControl is the dispatch table entry of an input.
type inputControl struct {
	input     *deck.Input
	validator *format.Validator // nil when the input is unvalidated
}

// compileFormats registers every input of the deck and attaches a
// validator to the ones declaring a well-formed format.
func (e *Engine) compileFormats() {
	clear(e.inputs)
	n := 0
	for _, c := range e.deck.Cards {
		for _, in := range c.Inputs {
			if in.ID == "" {
				in.ID = fmt.Sprintf("wml_input_%d", n)
			}
			n++
			ctl := &inputControl{input: in}
			e.inputs[in.ID] = ctl
			if in.Format == "" {
				continue
			}
			rule, err := format.Compile(in.Format)
			if err != nil {
				e.report(newError(ErrMalformedSpecifier, "format", in.ID, err))
				continue
			}
			in.Rule = rule
			in.Required = true
			in.MaxLength = rule.MaxLength
			in.InputMode = rule.InputMode
			ctl.validator = format.NewValidator(rule, in.Value)
			in.Value = ctl.validator.Last()
			e.logger.Debug("input format", "input", in.ID, "format", in.Format, "pattern", rule.Pattern.String())
		}
	}
}

// Input handles an input event on control id and returns the value the
// control holds afterwards. A value rejected by the control's format is
// replaced by the last accepted one and reported as not accepted.
func (e *Engine) Input(id, value string) (string, bool) {
	ctl, ok := e.inputs[id]
	if !ok {
		e.report(newError(ErrUnknownControl, "input", id, nil))
		return "", false
	}
	if ctl.validator == nil {
		ctl.input.Value = value
		return value, true
	}
	v, accepted := ctl.validator.Input(value)
	ctl.input.Value = v
	return v, accepted
}

// snapshotControls pushes the value of every control of the active card
// into the variables.
func (e *Engine) snapshotControls() {
	if e.active == nil {
		return
	}
	for _, in := range e.active.Inputs {
		if in.Name != "" {
			e.SetVar(in.Name, in.Value)
		}
	}
	for _, s := range e.active.Selects {
		e.writeSelectVars(s)
	}
}
