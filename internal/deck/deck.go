// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package deck defines the materialized document tree the engine runs:
// a deck of cards holding text, controls, anchors, a timer and tasks.
package deck

import (
	"errors"
	"fmt"
	"strings"

	"nickandperla.net/wmlrt/internal/expr"
	"nickandperla.net/wmlrt/internal/format"
)

// Deck is a materialized document.
type Deck struct {
	Cards    []*Card
	Template *Template // document-level defaults, may be nil
}

// ErrInvalidDeck is wrapped by Validate errors.
var ErrInvalidDeck = errors.New("invalid deck")

// Validate checks the structural invariants the engine relies on.
func (d *Deck) Validate() error {
	if len(d.Cards) == 0 {
		return fmt.Errorf("%w: no cards", ErrInvalidDeck)
	}
	seen := make(map[string]bool)
	for i, c := range d.Cards {
		if c.ID == "" {
			continue
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate card id %q (card %d)", ErrInvalidDeck, c.ID, i)
		}
		seen[c.ID] = true
	}
	return nil
}

// Card returns the card with the given id, or nil.
func (d *Deck) Card(id string) *Card {
	if id == "" {
		return nil
	}
	for _, c := range d.Cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Default returns the card shown when no locator names a card.
func (d *Deck) Default() *Card {
	if len(d.Cards) == 0 {
		return nil
	}
	return d.Cards[0]
}

// Selects returns every select control of the deck in document order.
func (d *Deck) Selects() []*Select {
	var out []*Select
	for _, c := range d.Cards {
		out = append(out, c.Selects...)
	}
	return out
}

// Event identifies an intrinsic event of a card.
type Event int

const (
	EnterForward Event = iota
	EnterBackward
	Timer
)

func (e Event) String() string {
	switch e {
	case EnterForward:
		return "onenterforward"
	case EnterBackward:
		return "onenterbackward"
	case Timer:
		return "ontimer"
	default:
		return "unknown"
	}
}

// Template holds document-level direct navigation targets, used when a
// card handles an event neither directly nor with a task.
type Template struct {
	OnTimer         string
	OnEnterForward  string
	OnEnterBackward string
}

// Target returns the template's direct target for ev.
func (t *Template) Target(ev Event) string {
	if t == nil {
		return ""
	}
	switch ev {
	case EnterForward:
		return t.OnEnterForward
	case EnterBackward:
		return t.OnEnterBackward
	case Timer:
		return t.OnTimer
	}
	return ""
}

// Card is one navigable unit of a deck.
type Card struct {
	ID    string
	Title string

	// Direct navigation targets.
	OnTimer         string
	OnEnterForward  string
	OnEnterBackward string

	Timer  *CardTimer
	Events map[Event]Task

	Texts   []*Text // text-bearing nodes, depth-first document order
	Anchors []*Anchor
	Inputs  []*Input
	Selects []*Select

	Active bool
}

// Target returns the card's direct target for ev.
func (c *Card) Target(ev Event) string {
	switch ev {
	case EnterForward:
		return c.OnEnterForward
	case EnterBackward:
		return c.OnEnterBackward
	case Timer:
		return c.OnTimer
	}
	return ""
}

// CardTimer declares a countdown for a card. Value is in tenths of a second.
type CardTimer struct {
	Name  string
	Value string
}

// Text is a text-bearing node. Display is its marked form, filled in
// when the engine loads the deck.
type Text struct {
	Raw     string
	Display expr.Expr
}

// Anchor is an activatable label bound to a task.
type Anchor struct {
	Label *Text
	Task  Task
}

// Input is a text entry control.
type Input struct {
	ID    string
	Name  string
	Value string
	// Format is the declared format specifier, "" when absent.
	Format string

	Rule      *format.Rule
	Required  bool
	MaxLength int // format.Unbounded when not limited
	InputMode format.InputMode
}

// Select is a single or multiple choice control.
type Select struct {
	ID       string
	Name     string // variable receiving the selected values
	IName    string // variable receiving the selected 1-based indexes
	IValue   string // initial 1-based indexes
	Multiple bool
	Options  []*Option
}

// Selected returns the selected options in document order.
func (s *Select) Selected() []*Option {
	var out []*Option
	for _, o := range s.Options {
		if o.Selected {
			out = append(out, o)
		}
	}
	return out
}

// Option is a choice of a Select. OnPick is a direct target and wins
// over PickTask.
type Option struct {
	Value    string
	Label    string
	OnPick   string
	PickTask Task
	Selected bool
}

// Picks reports whether selecting o triggers anything.
func (o *Option) Picks() bool {
	return o.OnPick != "" || o.PickTask != nil
}

// CardLocator reports whether href is a same-document card reference
// ("#id") and returns the id.
func CardLocator(href string) (string, bool) {
	if len(href) > 1 && strings.HasPrefix(href, "#") {
		return href[1:], true
	}
	return "", false
}
