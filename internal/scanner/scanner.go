// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner splits text into literal runs and variable references.
package scanner

import (
	"strings"

	"nickandperla.net/wmlrt/internal/token"
)

// Scanner tokenizes text rune-by-rune.
//
// At every '$' the parenthesized form $(name) / $(name:esc) is tried first;
// only when it does not match is the bare form $name tried. A '$' that
// starts neither form is literal text.
type Scanner struct {
	src     []rune
	pos     int
	buf     strings.Builder
	encoded bool // also accept %24(name...) as the parenthesized form
}

// Item represents a scanned token with its value.
type Item struct {
	Token  token.Token
	Value  string // raw source text of the token
	Name   string // variable name, VARIABLE only
	Escape token.Escape
}

// New creates a Scanner over display text.
func New(s string) *Scanner {
	return &Scanner{src: []rune(s)}
}

// NewURL creates a Scanner over a URL, where the parenthesized form may
// also be introduced by the percent-encoded dollar sign.
func NewURL(s string) *Scanner {
	return &Scanner{src: []rune(s), encoded: true}
}

// Next returns the next item. Once the input is exhausted it keeps
// returning EOF.
func (s *Scanner) Next() *Item {
	s.buf.Reset()
	for s.pos < len(s.src) {
		if item, n := s.reference(s.pos); item != nil {
			if s.buf.Len() > 0 {
				// Flush pending text first; the reference is rescanned next call.
				return &Item{Token: token.TEXT, Value: s.buf.String()}
			}
			s.pos += n
			return item
		}
		s.buf.WriteRune(s.src[s.pos])
		s.pos++
	}
	if s.buf.Len() > 0 {
		return &Item{Token: token.TEXT, Value: s.buf.String()}
	}
	return &Item{Token: token.EOF}
}

// All scans the remaining input into a slice, excluding EOF.
func (s *Scanner) All() []*Item {
	var items []*Item
	for {
		item := s.Next()
		if item.Token == token.EOF {
			return items
		}
		items = append(items, item)
	}
}

// reference tries to match a reference at i and returns it with the
// number of runes consumed.
func (s *Scanner) reference(i int) (*Item, int) {
	prefix := 0
	switch {
	case s.src[i] == token.RuneDollar:
		prefix = 1
	case s.encoded && s.hasEncodedDollar(i):
		prefix = len(token.EncodedDollar)
	default:
		return nil, 0
	}

	if item, n := s.parenthesized(i, prefix); item != nil {
		return item, n
	}
	if prefix == 1 {
		if name := s.name(i + 1); name != "" {
			return &Item{
				Token: token.VARIABLE,
				Value: string(s.src[i : i+1+len(name)]),
				Name:  name,
			}, 1 + len(name)
		}
	}
	return nil, 0
}

func (s *Scanner) parenthesized(i, prefix int) (*Item, int) {
	j := i + prefix
	if j >= len(s.src) || s.src[j] != token.RuneOpen {
		return nil, 0
	}
	j++
	name := s.name(j)
	if name == "" {
		return nil, 0
	}
	j += len(name)

	esc := token.EscapeNone
	if j < len(s.src) && s.src[j] == token.RuneEscapeSep {
		j++
		start := j
		for j < len(s.src) && isLetter(s.src[j]) {
			j++
		}
		var ok bool
		esc, ok = token.ParseEscape(string(s.src[start:j]))
		if !ok {
			return nil, 0
		}
	}
	if j >= len(s.src) || s.src[j] != token.RuneClose {
		return nil, 0
	}
	j++
	return &Item{
		Token:  token.VARIABLE,
		Value:  string(s.src[i:j]),
		Name:   name,
		Escape: esc,
	}, j - i
}

// name returns the identifier starting at i, or "".
func (s *Scanner) name(i int) string {
	if i >= len(s.src) || !token.IsNameStart(s.src[i]) {
		return ""
	}
	j := i + 1
	for j < len(s.src) && token.IsNamePart(s.src[j]) {
		j++
	}
	return string(s.src[i:j])
}

func (s *Scanner) hasEncodedDollar(i int) bool {
	if i+len(token.EncodedDollar) > len(s.src) {
		return false
	}
	return string(s.src[i:i+len(token.EncodedDollar)]) == token.EncodedDollar
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
