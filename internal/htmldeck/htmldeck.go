// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package htmldeck materializes a deck from its transcoded HTML form.
//
// Cards are elements of class wml_card. Inside a card, the engine's
// nodes are recognized by class (wml_timer, wml_input, wml_select,
// wml_setvar, wml_postfield) and tasks by their data-wml_task_type
// attribute. A task's role comes from its class: wml_anchor_task for a
// link, wml_onevent_<event> for an intrinsic event handler.
package htmldeck

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"nickandperla.net/wmlrt/internal/deck"
	"nickandperla.net/wmlrt/internal/format"
)

const (
	classCard     = "wml_card"
	classTemplate = "wml_template"
	classTimer    = "wml_timer"
	classInput    = "wml_input"
	classSelect   = "wml_select"
	classSetvar   = "wml_setvar"
	classPostfld  = "wml_postfield"
	classAnchor   = "wml_anchor_task"
	classOnevent  = "wml_onevent_"
)

// Task type tags.
const (
	TaskGo      = "wml_task_go"
	TaskPrev    = "wml_task_prev"
	TaskRefresh = "wml_task_refresh"
	TaskNoop    = "wml_task_noop"
)

var eventClasses = map[string]deck.Event{
	classOnevent + "onenterforward":  deck.EnterForward,
	classOnevent + "onenterbackward": deck.EnterBackward,
	classOnevent + "ontimer":         deck.Timer,
}

// Parse reads an HTML deck. The result is validated.
func Parse(r io.Reader) (*deck.Deck, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse deck: %w", err)
	}
	b := &builder{d: &deck.Deck{}}
	b.walk(doc, nil)
	if err := b.d.Validate(); err != nil {
		return nil, err
	}
	return b.d, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*deck.Deck, error) {
	return Parse(strings.NewReader(s))
}

type builder struct {
	d *deck.Deck
}

func (b *builder) walk(n *html.Node, card *deck.Card) {
	switch n.Type {
	case html.TextNode:
		if card != nil && strings.TrimSpace(n.Data) != "" {
			card.Texts = append(card.Texts, &deck.Text{Raw: n.Data})
		}
		return
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
		if hasClass(n, classTemplate) && b.d.Template == nil {
			b.d.Template = &deck.Template{
				OnTimer:         attr(n, "data-wml_ontimer"),
				OnEnterForward:  attr(n, "data-wml_onenterforward"),
				OnEnterBackward: attr(n, "data-wml_onenterbackward"),
			}
		}
		if hasClass(n, classCard) {
			card = newCard(n)
			b.d.Cards = append(b.d.Cards, card)
		} else if card != nil && b.element(n, card) {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c, card)
	}
}

func newCard(n *html.Node) *deck.Card {
	return &deck.Card{
		ID:              attr(n, "id"),
		Title:           attr(n, "title"),
		OnTimer:         attr(n, "data-wml_ontimer"),
		OnEnterForward:  attr(n, "data-wml_onenterforward"),
		OnEnterBackward: attr(n, "data-wml_onenterbackward"),
		Events:          make(map[deck.Event]deck.Task),
	}
}

// element handles an element inside a card. It reports whether the
// element's subtree has been consumed.
func (b *builder) element(n *html.Node, card *deck.Card) bool {
	switch {
	case hasAttr(n, "data-wml_task_type"):
		b.task(n, card)
		return true
	case hasClass(n, classTimer):
		if card.Timer == nil {
			card.Timer = &deck.CardTimer{Name: attr(n, "data-wml_name"), Value: attr(n, "data-wml_value")}
		}
		return true
	case hasClass(n, classInput):
		card.Inputs = append(card.Inputs, &deck.Input{
			ID:        attr(n, "id"),
			Name:      attr(n, "name"),
			Value:     attr(n, "value"),
			Format:    attr(n, "data-wml_format"),
			MaxLength: format.Unbounded,
		})
		return true
	case hasClass(n, classSelect):
		card.Selects = append(card.Selects, parseSelect(n))
		return true
	case n.DataAtom == atom.A && hasAttr(n, "href"):
		label := &deck.Text{Raw: textContent(n)}
		card.Texts = append(card.Texts, label)
		card.Anchors = append(card.Anchors, &deck.Anchor{Label: label, Task: &deck.Go{Href: attr(n, "href")}})
		return true
	}
	return false
}

func (b *builder) task(n *html.Node, card *deck.Card) {
	t := parseTask(n)
	if t == nil {
		return
	}
	for class, ev := range eventClasses {
		if hasClass(n, class) {
			if _, dup := card.Events[ev]; !dup {
				card.Events[ev] = t
			}
			return
		}
	}
	if hasClass(n, classAnchor) {
		label := &deck.Text{Raw: textContent(n)}
		card.Texts = append(card.Texts, label)
		card.Anchors = append(card.Anchors, &deck.Anchor{Label: label, Task: t})
	}
}

func parseTask(n *html.Node) deck.Task {
	var vars []deck.Setvar
	var fields []deck.Postfield
	eachElement(n, func(c *html.Node) {
		switch {
		case hasClass(c, classSetvar):
			vars = append(vars, deck.Setvar{Name: attr(c, "data-wml_name"), Value: attr(c, "data-wml_value")})
		case hasClass(c, classPostfld):
			fields = append(fields, deck.Postfield{Name: attr(c, "name"), Value: attr(c, "value")})
		}
	})
	switch attr(n, "data-wml_task_type") {
	case TaskGo:
		return &deck.Go{
			Href:       attr(n, "data-wml_href"),
			Method:     strings.ToLower(attr(n, "method")),
			Postfields: fields,
			Vars:       vars,
		}
	case TaskPrev:
		return &deck.Prev{Vars: vars}
	case TaskRefresh:
		return &deck.Refresh{Vars: vars}
	case TaskNoop:
		return &deck.Noop{}
	}
	return nil
}

func parseSelect(n *html.Node) *deck.Select {
	s := &deck.Select{
		ID:       attr(n, "id"),
		Name:     attr(n, "name"),
		IName:    attr(n, "data-wml_iname"),
		IValue:   attr(n, "data-wml_ivalue"),
		Multiple: hasAttr(n, "multiple"),
	}
	eachElement(n, func(c *html.Node) {
		if c.DataAtom != atom.Option {
			return
		}
		label := strings.TrimSpace(textContent(c))
		value, ok := attrOK(c, "value")
		if !ok {
			value = label
		}
		s.Options = append(s.Options, &deck.Option{
			Value:    value,
			Label:    label,
			OnPick:   attr(c, "data-wml_onpick"),
			Selected: hasAttr(c, "selected"),
		})
	})
	return s
}

// textContent returns the text below n, skipping setvar and postfield
// elements.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				sb.WriteString(c.Data)
			case html.ElementNode:
				if hasClass(c, classSetvar) || hasClass(c, classPostfld) {
					continue
				}
				walk(c)
			}
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// eachElement calls fn for every element below n in document order.
func eachElement(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			fn(c)
		}
		eachElement(c, fn)
	}
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := attrOK(n, key)
	return ok
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
