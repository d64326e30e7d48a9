// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines the token kinds and escape modes of variable references.
package token

import "strings"

// Token represents a scanned token type.
type Token int

const (
	EOF Token = iota
	TEXT
	VARIABLE // $name or $(name) or $(name:esc)
)

func (t Token) String() string {
	switch t {
	case EOF:
		return "EOF"
	case TEXT:
		return "TEXT"
	case VARIABLE:
		return "VARIABLE"
	default:
		return "UNKNOWN"
	}
}

// Runes and sequences that introduce a reference.
const (
	RuneDollar    = '$'
	RuneOpen      = '('
	RuneClose     = ')'
	RuneEscapeSep = ':'
	EncodedDollar = "%24" // '$' as it appears inside a URL
)

// Escape is the conversion applied when a reference is resolved.
type Escape int

const (
	EscapeNone    Escape = iota // no conversion requested
	EscapeEscape                // percent-encode
	EscapeNoEsc                 // pass through
	EscapeUnescape              // percent-decode
)

// String returns the single-letter code of the escape mode.
func (e Escape) String() string {
	switch e {
	case EscapeEscape:
		return "e"
	case EscapeNoEsc:
		return "n"
	case EscapeUnescape:
		return "u"
	default:
		return ""
	}
}

// ParseEscape parses an escape keyword. Accepted forms are e/escape,
// n/noesc and u/unesc/unescape in any letter case.
func ParseEscape(s string) (Escape, bool) {
	switch strings.ToLower(s) {
	case "e", "escape":
		return EscapeEscape, true
	case "n", "noesc":
		return EscapeNoEsc, true
	case "u", "unesc", "unescape":
		return EscapeUnescape, true
	}
	return EscapeNone, false
}

// IsNameStart reports whether r may begin a variable name.
func IsNameStart(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// IsNamePart reports whether r may continue a variable name.
func IsNamePart(r rune) bool {
	return IsNameStart(r) || r >= '0' && r <= '9'
}
