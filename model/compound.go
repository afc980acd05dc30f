package model

// resolveCompoundTypes builds every declared compound type in document
// order (C6). Compound types are order-sensitive: a compound type's
// columns may restrict on an earlier-declared compound type, which is
// already registered on m by the time buildColumnSet resolves its
// "compound" attribute.
func resolveCompoundTypes(m *Model, xs []xmlCompoundType) error {
	for _, x := range xs {
		cols, err := buildColumnSet(m, x.Columns)
		if err != nil {
			return err
		}
		ct := &CompoundType{Name: x.Name, Columns: cols}
		if err := m.CompoundTypes.Add(x.Name, ct); err != nil {
			return err
		}
	}
	return nil
}
