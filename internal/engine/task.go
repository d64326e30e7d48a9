// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package engine

import (
	"strings"

	"nickandperla.net/wmlrt/internal/deck"
	"nickandperla.net/wmlrt/internal/subst"
)

// Execute runs t as the terminal action of the current event.
func (e *Engine) Execute(t deck.Task) {
	e.logger.Debug("task", "kind", deck.Kind(t), "card", e.activeID())
	switch t.(type) {
	case nil, *deck.Noop:
		return
	}
	e.assign(t.Assignments())
	e.refresh()
	switch t := t.(type) {
	case *deck.Prev:
		e.timer.cancel()
		e.navType = NavBackward
		e.host.RequestBack()
	case *deck.Go:
		e.snapshotControls()
		e.submit(t)
	}
}

// Activate handles a click on a.
func (e *Engine) Activate(a *deck.Anchor) {
	if a == nil {
		return
	}
	e.Execute(a.Task)
}

func (e *Engine) submit(t *deck.Go) {
	href, err := subst.RewriteURL(t.Href, e.GetVar)
	e.reportEscape("go", err)
	if id, ok := deck.CardLocator(href); ok {
		e.requestCard("go", id)
		return
	}

	req := Request{Method: t.Method}
	if req.Method == "" {
		req.Method = "get"
	}
	for _, pf := range t.Postfields {
		v, err := subst.Rewrite(pf.Value, e.GetVar)
		e.reportEscape("postfield", err)
		req.Fields = append(req.Fields, Field{Name: pf.Name, Value: v})
	}
	var query string
	req.URL, query = splitQuery(href)
	req.Fields = append(req.Fields, queryFields(query)...)

	e.timer.cancel()
	e.navType = NavForward
	e.logger.Debug("external request", "url", req.URL, "method", req.Method, "fields", len(req.Fields))
	e.host.RequestExternal(req)
}

// splitQuery separates href into its location and its query string. The
// fragment is dropped.
func splitQuery(href string) (base, query string) {
	href, _, _ = strings.Cut(href, "#")
	base, query, _ = strings.Cut(href, "?")
	return base, query
}

// queryFields turns the literal pairs of a query string into fields.
// Names and values are kept as written.
func queryFields(query string) []Field {
	var out []Field
	for _, pair := range strings.Split(query, "&") {
		name, value, _ := strings.Cut(pair, "=")
		if name == "" {
			continue
		}
		out = append(out, Field{Name: name, Value: value})
	}
	return out
}

func (e *Engine) activeID() string {
	if e.active == nil {
		return ""
	}
	return e.active.ID
}
