// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package engine

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"nickandperla.net/wmlrt/internal/deck"
)

// Separator joins the values and indexes of a multiple selection.
const Separator = ";"

// selectTracker remembers the last observed selection of every select so
// that newly picked options can be told apart.
type selectTracker struct {
	byID     map[string]*deck.Select
	baseline map[*deck.Select][]*deck.Option
}

func newSelectTracker() *selectTracker {
	return &selectTracker{
		byID:     make(map[string]*deck.Select),
		baseline: make(map[*deck.Select][]*deck.Option),
	}
}

// init applies the initial indexes of every select of d and records the
// resulting baselines.
func (t *selectTracker) init(d *deck.Deck) {
	clear(t.byID)
	clear(t.baseline)
	for i, s := range d.Selects() {
		if s.ID == "" {
			s.ID = fmt.Sprintf("wml_select_%d", i)
		}
		if s.IValue != "" {
			for _, o := range s.Options {
				o.Selected = false
			}
			applyIndexes(s, parseIndexes(s.IValue))
		}
		if !s.Multiple && len(s.Options) > 0 && len(s.Selected()) == 0 {
			s.Options[0].Selected = true
		}
		t.byID[s.ID] = s
		t.baseline[s] = s.Selected()
	}
}

// rebase records the current selection of every select as its baseline.
func (t *selectTracker) rebase() {
	for _, s := range t.byID {
		t.baseline[s] = s.Selected()
	}
}

// change records the new selection of s and returns the first newly
// selected option that picks something, or nil.
func (t *selectTracker) change(s *deck.Select) *deck.Option {
	before := t.baseline[s]
	now := s.Selected()
	t.baseline[s] = now
	for _, o := range now {
		if !o.Picks() {
			continue
		}
		if !slices.Contains(before, o) {
			return o
		}
	}
	return nil
}

func parseIndexes(list string) []int {
	var out []int
	for _, f := range strings.Split(list, Separator) {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// applyIndexes selects the options at the given 1-based positions. Out of
// range positions are ignored; a single select keeps the last valid one.
func applyIndexes(s *deck.Select, indexes []int) {
	for _, n := range indexes {
		if n < 1 || n > len(s.Options) {
			continue
		}
		if !s.Multiple {
			for _, o := range s.Options {
				o.Selected = false
			}
		}
		s.Options[n-1].Selected = true
	}
}

// selectVars computes the value and index variables of s.
func selectVars(s *deck.Select) (value, index string) {
	var values, indexes []string
	for i, o := range s.Options {
		if !o.Selected {
			continue
		}
		values = append(values, o.Value)
		indexes = append(indexes, strconv.Itoa(i+1))
	}
	index = strings.Join(indexes, Separator)
	if index == "" {
		index = "0"
	}
	return strings.Join(values, Separator), index
}

func (e *Engine) writeSelectVars(s *deck.Select) {
	value, index := selectVars(s)
	if s.Name != "" {
		e.SetVar(s.Name, value)
	}
	if s.IName != "" {
		e.SetVar(s.IName, index)
	}
}

// Select handles a change event: the options of select id at the given
// 1-based positions become the selection. It reports false if id names no
// select.
func (e *Engine) Select(id string, indexes ...int) bool {
	s, ok := e.selects.byID[id]
	if !ok {
		e.report(newError(ErrUnknownControl, "select", id, nil))
		return false
	}
	for _, o := range s.Options {
		o.Selected = false
	}
	applyIndexes(s, indexes)
	e.writeSelectVars(s)

	picked := e.selects.change(s)
	if picked == nil {
		return true
	}
	e.logger.Debug("onpick", "select", id, "option", picked.Value)
	if picked.OnPick != "" {
		e.navigateTo("onpick", picked.OnPick)
		return true
	}
	e.Execute(picked.PickTask)
	return true
}

// SelectByIndexList is Select with the indexes given as a separator list.
func (e *Engine) SelectByIndexList(id, list string) bool {
	return e.Select(id, parseIndexes(list)...)
}
