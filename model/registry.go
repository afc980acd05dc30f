package model

import "github.com/inab/BP-Model/errs"

// OrderedMap is an insertion-ordered, name-keyed registry generic over
// the entity kind. Every name-keyed registry in the model core (concept
// types, concept domains, collections, compound types, filename
// patterns, and column sets) is built on this, giving them invariant I1
// (unique keys) and the declaration-order iteration guarantee of §5.
type OrderedMap[V any] struct {
	order []string
	byKey map[string]V
	kind  string // used in duplicate-name error messages
}

// NewOrderedMap returns an empty registry; kind names the entity type for
// error messages (e.g. "concept domain").
func NewOrderedMap[V any](kind string) *OrderedMap[V] {
	return &OrderedMap[V]{byKey: make(map[string]V), kind: kind}
}

// Add registers v under key. Returns errs.DuplicateName on collision.
func (m *OrderedMap[V]) Add(key string, v V) error {
	if _, ok := m.byKey[key]; ok {
		return errs.New(errs.DuplicateName, "%s %q already registered", m.kind, key)
	}
	m.byKey[key] = v
	m.order = append(m.order, key)
	return nil
}

// Set inserts or overwrites the value for key without a duplicate check;
// used when the caller has already validated uniqueness (e.g. compound
// keys) or is deliberately overriding, such as same-name override during
// concept-type merge.
func (m *OrderedMap[V]) Set(key string, v V) {
	if _, ok := m.byKey[key]; !ok {
		m.order = append(m.order, key)
	}
	m.byKey[key] = v
}

// Get returns the value registered under key.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.byKey[key]
	return v, ok
}

// Has reports whether key is registered.
func (m *OrderedMap[V]) Has(key string) bool {
	_, ok := m.byKey[key]
	return ok
}

// Keys returns the registered keys in declaration order.
func (m *OrderedMap[V]) Keys() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Values returns the registered values in declaration order.
func (m *OrderedMap[V]) Values() []V {
	out := make([]V, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.byKey[k])
	}
	return out
}

// Len returns the number of registered entries.
func (m *OrderedMap[V]) Len() int { return len(m.order) }
