// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package engine

import (
	"nickandperla.net/wmlrt/internal/deck"
	"nickandperla.net/wmlrt/internal/expr"
	"nickandperla.net/wmlrt/internal/subst"
)

// NavigationType is the kind of the navigation in progress. It is set
// when a navigation is requested or observed and consumed by the next
// intrinsic event dispatch.
type NavigationType int

const (
	NavForward  NavigationType = 1
	NavBackward NavigationType = -1
	NavUnknown  NavigationType = -2
)

func (n NavigationType) String() string {
	switch {
	case n >= 0:
		return "forward"
	case n == NavBackward:
		return "backward"
	default:
		return "unknown"
	}
}

// Transition is the outcome of a navigation notification.
type Transition int

const (
	Unchanged Transition = iota
	Changed
)

func (t Transition) String() string {
	if t == Changed {
		return "changed"
	}
	return "unchanged"
}

// NavigationType returns the pending navigation type.
func (e *Engine) NavigationType() NavigationType { return e.navType }

// Load shows the deck for the first time. locator is the host's initial
// location ("#id" or anything else for the default card). Load fails only
// if the deck is structurally invalid; calling it again reloads the deck.
func (e *Engine) Load(locator string) error {
	if err := e.deck.Validate(); err != nil {
		return err
	}
	e.timer.cancel()
	e.navType = NavForward

	c := e.deck.Default()
	if id, ok := deck.CardLocator(locator); ok {
		if found := e.deck.Card(id); found != nil {
			c = found
		} else {
			e.report(newError(ErrUnknownTarget, "load", id, nil))
		}
	}
	for _, card := range e.deck.Cards {
		card.Active = false
		e.surface.Hide(card)
	}
	c.Active = true
	e.active = c
	e.surface.Show(c)
	e.logger.Debug("load", "card", c.ID)

	e.markTexts()
	e.selects.init(e.deck)
	e.compileFormats()
	e.loaded = true

	e.refresh()
	e.armFor(c)
	e.dispatchIntrinsic()
	return nil
}

func (e *Engine) markTexts() {
	for _, c := range e.deck.Cards {
		n := 0
		for _, t := range c.Texts {
			var found []expr.Placeholder
			t.Display, found = subst.Mark(t.Raw)
			n += len(found)
		}
		e.logger.Debug("marked", "card", c.ID, "texts", len(c.Texts), "placeholders", n)
	}
}

// HashChanged tells the engine the host location changed to locator.
// The pending navigation type is consumed.
func (e *Engine) HashChanged(locator string) Transition {
	if !e.loaded {
		return Unchanged
	}
	target := e.deck.Default()
	if id, ok := deck.CardLocator(locator); ok {
		target = e.deck.Card(id)
		if target == nil {
			e.report(newError(ErrUnknownTarget, "hashchange", id, nil))
			e.navType = NavUnknown
			return Unchanged
		}
	}
	if target == e.active {
		e.navType = NavUnknown
		return Unchanged
	}
	e.activate(target)
	return Changed
}

// HistoryForward reports a forward history move to locator.
func (e *Engine) HistoryForward(locator string) Transition {
	e.navType = NavForward
	return e.HashChanged(locator)
}

// HistoryBack reports a backward history move to locator.
func (e *Engine) HistoryBack(locator string) Transition {
	e.navType = NavBackward
	return e.HashChanged(locator)
}

func (e *Engine) activate(c *deck.Card) {
	from := e.activeID()
	if prev := e.active; prev != nil {
		prev.Active = false
		e.surface.Hide(prev)
	}
	c.Active = true
	e.active = c
	e.surface.Show(c)
	e.logger.Debug("transition", "from", from, "to", c.ID, "nav", e.navType.String())

	e.refresh()
	e.armFor(c)
	e.dispatchIntrinsic()
}

// dispatchIntrinsic consumes the pending navigation type.
func (e *Engine) dispatchIntrinsic() {
	nav := e.navType
	e.navType = NavUnknown
	switch {
	case nav >= 0:
		e.handleEvent(deck.EnterForward)
	case nav == NavBackward:
		e.handleEvent(deck.EnterBackward)
	default:
		e.logger.Warn("cannot determine navigation type", "card", e.activeID())
	}
}

// handleEvent runs the active card's handler for ev: the card's direct
// target, then its event task, then the template's direct target.
func (e *Engine) handleEvent(ev deck.Event) {
	c := e.active
	if target := c.Target(ev); target != "" {
		e.navigateTo(ev.String(), target)
		return
	}
	if task, ok := c.Events[ev]; ok && task != nil {
		e.Execute(task)
		return
	}
	if target := e.deck.Template.Target(ev); target != "" {
		e.navigateTo(ev.String(), target)
	}
}

// navigateTo follows a direct target.
func (e *Engine) navigateTo(op, target string) {
	href, err := subst.RewriteURL(target, e.GetVar)
	e.reportEscape(op, err)
	if id, ok := deck.CardLocator(href); ok {
		e.requestCard(op, id)
		return
	}
	e.timer.cancel()
	e.navType = NavForward
	e.logger.Debug("external request", "op", op, "url", href)
	e.host.RequestExternal(Request{URL: href, Method: "get"})
}

// requestCard asks the host for card id. An unknown id is reported and
// nothing else happens.
func (e *Engine) requestCard(op, id string) {
	if e.deck.Card(id) == nil {
		e.report(newError(ErrUnknownTarget, op, id, nil))
		return
	}
	e.timer.cancel()
	e.navType = NavForward
	e.logger.Debug("card request", "op", op, "card", id)
	e.host.RequestCard(id)
}
