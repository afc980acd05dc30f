package model

import "github.com/inab/BP-Model/errs"

// ResolveRelatedConcepts performs the second pass over every concept's
// declared related-concepts (C9): the target's identifier columns are
// copied into the referring concept, renamed with the relation's key
// prefix, and their usage is cleared from idref to required — a foreign
// key is not itself part of the referring concept's own identity.
//
// This pass runs after every domain has been fully resolved, since a
// related concept may live in a domain declared later in the document
// than the one referring to it. It is safe to call more than once against
// the same Model: a column already propagated from a given relation is
// left untouched rather than re-added (P5).
func ResolveRelatedConcepts(m *Model) error {
	for _, dom := range m.ConceptDomains.Values() {
		for _, c := range dom.Concepts() {
			for _, rel := range c.Related {
				if err := resolveRelatedConcept(m, dom, c, rel); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func resolveRelatedConcept(m *Model, owner *ConceptDomain, c *Concept, rel *RelatedConcept) error {
	ref := ConceptRef{Domain: rel.TargetDomain, Name: rel.TargetName}
	target, ok := m.Concept(ref, owner)
	if !ok {
		return errs.New(errs.UnknownReference, "concept %q: unknown related concept %q", c.Qualified(), rel.TargetName)
	}
	idcols := target.Columns.IdentifierColumns()
	if len(idcols) == 0 {
		return errs.New(errs.ColumnConflict, "concept %q: related concept %q has no identifier columns to propagate", c.Qualified(), target.Qualified())
	}

	fkNames := make([]string, 0, len(idcols))
	for _, idcol := range idcols {
		name := rel.KeyPrefix + idcol.Name
		fkNames = append(fkNames, name)
		if existing, ok := c.Columns.Get(name); ok {
			if existing.RefConcept != nil && existing.RefConcept.Name == target.Name && existing.RefColumn == idcol.Name {
				continue
			}
			return errs.New(errs.ColumnConflict, "concept %q: foreign key column %q collides with an existing column", c.Qualified(), name)
		}
		fk := &Column{
			Name:        name,
			Description: idcol.Description,
			Annotations: idcol.Annotations,
			Type: &ColumnType{
				Primitive:   idcol.Type.Primitive,
				Usage:       UsageRequired,
				Default:     idcol.Type.Default,
				Restriction: idcol.Type.Restriction,
				Separators:  idcol.Type.Separators,
			},
			RefConcept: &ConceptRef{Domain: target.Domain.Name, Name: target.Name},
			RefColumn:  idcol.Name,
		}
		if err := c.Columns.Add(fk); err != nil {
			return err
		}
	}

	rel.Resolved = target
	rel.FKColumns = fkNames
	return nil
}
