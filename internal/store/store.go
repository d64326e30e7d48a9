// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package store provides backends for the variable context of a browsing session.
package store

// Store is the interface for variable storage.
type Store interface {
	// Get retrieves a variable. ok is false if it was never set.
	Get(name string) (value string, ok bool, err error)
	// Put stores a variable, overwriting any previous value.
	Put(name, value string) error
	// Reset removes every variable of the context.
	Reset() error
	// All returns a copy of every variable of the context.
	All() (map[string]string, error)
	// Close releases resources.
	Close() error
}
