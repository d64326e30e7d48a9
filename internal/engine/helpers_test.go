package engine

import (
	"time"

	"nickandperla.net/wmlrt/internal/deck"
)

// manualClock records timers and fires them on demand.
type manualClock struct {
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	live := !t.stopped && !t.fired
	t.stopped = true
	return live
}

// fireLive runs every timer that was neither stopped nor fired.
func (c *manualClock) fireLive() int {
	n := 0
	for _, t := range c.timers {
		if t.stopped || t.fired {
			continue
		}
		t.fired = true
		t.f()
		n++
	}
	return n
}

// fakeHost records requests. With an engine attached it answers card and
// back requests the way a browser would, by notifying a location change.
type fakeHost struct {
	e        *Engine
	cards    []string
	external []Request
	backs    int
	history  []string
	onReq    func()
}

func (h *fakeHost) RequestCard(id string) {
	h.cards = append(h.cards, id)
	if h.onReq != nil {
		h.onReq()
	}
	if h.e != nil {
		h.history = append(h.history, "#"+id)
		h.e.HashChanged("#" + id)
	}
}

func (h *fakeHost) RequestExternal(req Request) {
	h.external = append(h.external, req)
	if h.onReq != nil {
		h.onReq()
	}
}

func (h *fakeHost) RequestBack() {
	h.backs++
	if h.e != nil && len(h.history) > 1 {
		h.history = h.history[:len(h.history)-1]
		h.e.HashChanged(h.history[len(h.history)-1])
	}
}

type fakeSurface struct {
	shown   []string
	hidden  []string
	texts   map[*deck.Text]string
	setText int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{texts: make(map[*deck.Text]string)}
}

func (s *fakeSurface) Show(c *deck.Card) { s.shown = append(s.shown, c.ID) }
func (s *fakeSurface) Hide(c *deck.Card) { s.hidden = append(s.hidden, c.ID) }

func (s *fakeSurface) SetText(t *deck.Text, text string) {
	s.texts[t] = text
	s.setText++
}

// harness bundles an engine with its fakes.
type harness struct {
	e       *Engine
	clock   *manualClock
	host    *fakeHost
	surface *fakeSurface
	diags   []error
}

func newHarness(d *deck.Deck, follow bool) *harness {
	h := &harness{
		clock:   &manualClock{},
		host:    &fakeHost{},
		surface: newFakeSurface(),
	}
	h.e = New(d,
		WithHost(h.host),
		WithSurface(h.surface),
		WithClock(h.clock),
		WithDiagnostics(func(err error) { h.diags = append(h.diags, err) }),
	)
	if follow {
		h.host.e = h.e
	}
	return h
}

// entered builds enter handlers that record the event in the "last" variable.
func entered(id string) map[deck.Event]deck.Task {
	return map[deck.Event]deck.Task{
		deck.EnterForward:  &deck.Refresh{Vars: []deck.Setvar{{Name: "last", Value: id + " forward"}}},
		deck.EnterBackward: &deck.Refresh{Vars: []deck.Setvar{{Name: "last", Value: id + " backward"}}},
	}
}

func twoCards() *deck.Deck {
	return &deck.Deck{Cards: []*deck.Card{
		{ID: "c1", Events: entered("c1"), Texts: []*deck.Text{{Raw: "Hello $(name)"}}},
		{ID: "c2", Events: entered("c2"), Texts: []*deck.Text{{Raw: "Bye $name"}}},
	}}
}
