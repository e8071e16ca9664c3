// Package ident provides helpers for Turbo Pascal's case-insensitive identifiers.
//
// Pascal treats WriteLn, writeln and WRITELN as the same name. All symbol-table
// and registry keys go through Normalize so that lookups agree regardless of the
// spelling used at the declaration or the use site.
package ident

import "strings"

// Normalize returns the canonical (lower-cased) form of an identifier.
func Normalize(name string) string {
	return strings.ToLower(name)
}

// Equal reports whether two identifiers name the same thing.
func Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Map is a map keyed by normalized identifier. The zero value is not usable;
// create one with NewMap. Entries remember the original spelling of their key
// so error messages can echo the user's casing.
type Map[V any] struct {
	entries map[string]entry[V]
}

type entry[V any] struct {
	original string
	value    V
}

// NewMap creates an empty identifier-keyed map.
func NewMap[V any]() *Map[V] {
	return &Map[V]{entries: make(map[string]entry[V])}
}

// Set stores value under the normalized form of name.
func (m *Map[V]) Set(name string, value V) {
	m.entries[Normalize(name)] = entry[V]{original: name, value: value}
}

// Get returns the value stored under name, if any.
func (m *Map[V]) Get(name string) (V, bool) {
	e, ok := m.entries[Normalize(name)]
	return e.value, ok
}

// Has reports whether name is present.
func (m *Map[V]) Has(name string) bool {
	_, ok := m.entries[Normalize(name)]
	return ok
}

// Delete removes name from the map.
func (m *Map[V]) Delete(name string) {
	delete(m.entries, Normalize(name))
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	return len(m.entries)
}

// Original returns the spelling used when name was last Set.
func (m *Map[V]) Original(name string) (string, bool) {
	e, ok := m.entries[Normalize(name)]
	return e.original, ok
}

// Keys returns the normalized keys in unspecified order.
func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys
}
