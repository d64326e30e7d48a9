// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package deck

// Task is a declarative action. The set of kinds is closed: Go, Prev,
// Refresh and Noop are the only implementations.
type Task interface {
	// Assignments returns the variable assignments applied when the task runs.
	Assignments() []Setvar
	task()
}

// Setvar assigns a literal value to a variable.
type Setvar struct {
	Name  string
	Value string
}

// Postfield is a form field sent with an external Go request. Its value
// is substituted at submission time.
type Postfield struct {
	Name  string
	Value string
}

// Go navigates to a card of this deck or submits an external request.
type Go struct {
	Href       string
	Method     string // "get" or "post", empty means get
	Postfields []Postfield
	Vars       []Setvar
}

// Prev navigates back in history.
type Prev struct {
	Vars []Setvar
}

// Refresh applies its assignments and redisplays the active card.
type Refresh struct {
	Vars []Setvar
}

// Noop does nothing.
type Noop struct{}

func (t *Go) Assignments() []Setvar      { return t.Vars }
func (t *Prev) Assignments() []Setvar    { return t.Vars }
func (t *Refresh) Assignments() []Setvar { return t.Vars }
func (t *Noop) Assignments() []Setvar    { return nil }

func (*Go) task()      {}
func (*Prev) task()    {}
func (*Refresh) task() {}
func (*Noop) task()    {}

// Kind returns a short name for t, for logging.
func Kind(t Task) string {
	switch t.(type) {
	case *Go:
		return "go"
	case *Prev:
		return "prev"
	case *Refresh:
		return "refresh"
	case *Noop:
		return "noop"
	case nil:
		return "none"
	}
	return "unknown"
}
