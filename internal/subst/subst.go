// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package subst implements variable substitution for display text, URLs
// and postfield values.
//
// Display text is substituted in two phases: Mark turns text into an
// expression in which every reference is a Placeholder, and Resolve
// evaluates that expression against the current variables. A card is
// marked once and resolved on every display. URLs and postfields are
// rewritten in one step by Rewrite and RewriteURL.
package subst

import (
	"errors"
	"strings"

	"nickandperla.net/wmlrt/internal/expr"
	"nickandperla.net/wmlrt/internal/scanner"
	"nickandperla.net/wmlrt/internal/token"
)

// Lookup returns the value of a variable, "" when unset.
type Lookup func(name string) string

// Mark scans text and returns its deferred form together with the
// placeholders found, in order. Text without references comes back as
// a single expr.Text and no placeholders.
func Mark(text string) (expr.Expr, []expr.Placeholder) {
	var parts []expr.Expr
	for _, item := range scanner.New(text).All() {
		switch item.Token {
		case token.TEXT:
			parts = append(parts, expr.Text{Value: item.Value})
		case token.VARIABLE:
			parts = append(parts, expr.Placeholder{Name: item.Name, Escape: item.Escape})
		}
	}
	marked := expr.NewCompound(parts...)
	return marked, expr.Placeholders(marked)
}

// Resolve evaluates e against get. The returned text is always complete;
// placeholders whose value cannot be converted keep the unconverted value
// and contribute to the returned error.
func Resolve(e expr.Expr, get Lookup) (string, error) {
	var sb strings.Builder
	var errs []error
	resolveInto(&sb, e, get, &errs)
	return sb.String(), errors.Join(errs...)
}

func resolveInto(sb *strings.Builder, e expr.Expr, get Lookup, errs *[]error) {
	switch v := e.(type) {
	case expr.Placeholder:
		value, err := Value(v, get)
		if err != nil {
			*errs = append(*errs, err)
		}
		sb.WriteString(value)
	case expr.Compound:
		for _, p := range v.Parts {
			resolveInto(sb, p, get, errs)
		}
	case nil:
	default:
		sb.WriteString(v.String())
	}
}

// Value resolves a single placeholder. Empty values are never converted.
func Value(p expr.Placeholder, get Lookup) (string, error) {
	value := get(p.Name)
	if value == "" {
		return "", nil
	}
	switch p.Escape {
	case token.EscapeEscape:
		return Escape(value), nil
	case token.EscapeUnescape:
		decoded, err := Unescape(value)
		if err != nil {
			return value, &EscapeError{Name: p.Name, Value: value, Err: err}
		}
		return decoded, nil
	}
	return value, nil
}

// Rewrite replaces every reference in text with its value directly.
// It is meant for ephemeral strings such as postfield values.
func Rewrite(text string, get Lookup) (string, error) {
	return rewrite(scanner.New(text), get)
}

// RewriteURL is Rewrite for URLs: the parenthesized form may also be
// written with a percent-encoded dollar sign.
func RewriteURL(url string, get Lookup) (string, error) {
	return rewrite(scanner.NewURL(url), get)
}

func rewrite(s *scanner.Scanner, get Lookup) (string, error) {
	var sb strings.Builder
	var errs []error
	for _, item := range s.All() {
		if item.Token != token.VARIABLE {
			sb.WriteString(item.Value)
			continue
		}
		value, err := Value(expr.Placeholder{Name: item.Name, Escape: item.Escape}, get)
		if err != nil {
			errs = append(errs, err)
		}
		sb.WriteString(value)
	}
	return sb.String(), errors.Join(errs...)
}

// EscapeError reports a value that could not be percent-decoded.
type EscapeError struct {
	Name  string
	Value string
	Err   error
}

func (e *EscapeError) Error() string {
	return "unescape $(" + e.Name + "): " + e.Err.Error()
}

func (e *EscapeError) Unwrap() error { return e.Err }
