package model

import "github.com/inab/BP-Model/errs"

// resolveCollections builds every declared backend collection in document
// order, including its indices.
func resolveCollections(m *Model, xs []xmlCollection) error {
	for _, x := range xs {
		coll := &Collection{Name: x.Name, Path: x.Path}
		for _, xi := range x.Indices {
			idx := &Index{Unique: xi.Unique}
			for _, xc := range xi.Columns {
				dir := int8(1)
				if xc.Dir == "-1" || xc.Dir == "desc" {
					dir = -1
				}
				idx.Columns = append(idx.Columns, IndexColumn{Name: xc.Name, Dir: dir})
			}
			coll.Indices = append(coll.Indices, idx)
		}
		if err := m.Collections.Add(x.Name, coll); err != nil {
			return err
		}
	}
	return nil
}

// resolveMetadataCollection binds the model's metadataCollection reference,
// if present.
func resolveMetadataCollection(m *Model, ref *xmlRef) error {
	if ref == nil || ref.Ref == "" {
		return nil
	}
	coll, ok := m.Collections.Get(ref.Ref)
	if !ok {
		return errs.New(errs.UnknownReference, "metadataCollection: unknown collection %q", ref.Ref)
	}
	m.MetadataCollection = coll
	return nil
}
