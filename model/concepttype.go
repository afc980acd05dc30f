package model

import "github.com/inab/BP-Model/errs"

// resolveConceptTypes builds the concept-type registry in document order
// (C7). Each declaration may name a previously-declared parent; the
// merged column-set puts parent columns first, with a same-name child
// column overriding the parent's only when the override is
// type-compatible (same primitive, usage widening required -> desirable
// -> optional only).
func resolveConceptTypes(m *Model, xs []xmlConceptType) error {
	for _, x := range xs {
		var parent *ConceptType
		if x.Parent != "" {
			p, ok := m.ConceptTypes.Get(x.Parent)
			if !ok {
				return errs.New(errs.UnknownReference, "concept type %q: unknown parent %q", x.Name, x.Parent)
			}
			parent = p
		}
		own, err := buildColumnSet(m, x.Columns)
		if err != nil {
			return err
		}
		merged, err := mergeColumnSets(parentColumnSet(parent), own)
		if err != nil {
			return err
		}
		ct := &ConceptType{Name: x.Name, Parent: parent, Columns: merged}
		if x.Name != "" {
			if err := m.ConceptTypes.Add(x.Name, ct); err != nil {
				return err
			}
		}
	}
	return nil
}

func parentColumnSet(p *ConceptType) *ColumnSet {
	if p == nil {
		return NewColumnSet()
	}
	return p.Columns
}

// mergeColumnSets merges child on top of base: base columns come first in
// iteration order, and a same-name child column overrides base's provided
// the override is type-compatible (§4.5); otherwise ColumnConflict.
func mergeColumnSets(base, child *ColumnSet) (*ColumnSet, error) {
	merged := base.Clone()
	for _, c := range child.Columns() {
		if old, ok := merged.Get(c.Name); ok {
			if old.Type.Primitive != c.Type.Primitive || !CanWiden(old.Type.Usage, c.Type.Usage) {
				return nil, errs.New(errs.ColumnConflict, "column %q: incompatible override (primitive/usage mismatch)", c.Name)
			}
			merged.Override(c)
		} else {
			if err := merged.Add(c); err != nil {
				return nil, err
			}
		}
	}
	return merged, nil
}
