package model

import (
	"strings"

	"github.com/inab/BP-Model/cv"
	"github.com/inab/BP-Model/errs"
)

// resolveDomains builds every concept domain and its concepts in
// declaration order (C8). Within a domain, a concept's column-set is
// assembled in the deterministic order of §4.6: concept-type column-sets
// (in declaration order), the "extends" parent's fully merged column-set,
// "identifiedBy" id-columns (prefixed), then locally declared columns.
// Related-concept references are recorded but not yet resolved — that is
// the second pass performed by ResolveRelatedConcepts (C9).
func resolveDomains(m *Model, xs []xmlDomain) error {
	for _, xd := range xs {
		dom := NewConceptDomain(xd.Name)
		dom.FullName = orDefault(xd.FullName, xd.Name)
		dom.Abstract = xd.Abstract
		dom.Description = xd.Description
		dom.Annotations = cv.NewAnnotationSet()
		if err := m.ConceptDomains.Add(xd.Name, dom); err != nil {
			return err
		}
		for _, xc := range xd.Concepts {
			c, err := resolveConcept(m, dom, xc)
			if err != nil {
				return err
			}
			if err := dom.AddConcept(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func resolveConcept(m *Model, dom *ConceptDomain, xc xmlConcept) (*Concept, error) {
	merged := NewColumnSet()

	var basedOn []*ConceptType
	for _, name := range splitCSV(xc.BasedOn) {
		ct, ok := m.ConceptTypes.Get(name)
		if !ok {
			return nil, errs.New(errs.UnknownReference, "concept %q: unknown concept type %q", xc.Name, name)
		}
		basedOn = append(basedOn, ct)
		nm, err := mergeColumnSets(merged, ct.Columns)
		if err != nil {
			return nil, err
		}
		merged = nm
	}

	var parentConcept *Concept
	if xc.Extends != "" {
		p, ok := dom.Concept(xc.Extends)
		if !ok {
			return nil, errs.New(errs.UnknownReference, "concept %q: unknown extends target %q", xc.Name, xc.Extends)
		}
		parentConcept = p
		nm, err := mergeColumnSets(merged, p.Columns)
		if err != nil {
			return nil, err
		}
		merged = nm
	}

	var idConcept *Concept
	if xc.IdentifiedBy != "" {
		id, ok := dom.Concept(xc.IdentifiedBy)
		if !ok {
			return nil, errs.New(errs.UnknownReference, "concept %q: unknown identifiedBy target %q", xc.Name, xc.IdentifiedBy)
		}
		idConcept = id
		prefixed := NewColumnSet()
		for _, idcol := range id.Columns.IdentifierColumns() {
			nc := &Column{
				Name:        xc.IDPrefix + idcol.Name,
				Description: idcol.Description,
				Annotations: cv.NewAnnotationSet(),
				Type:        cloneColumnType(idcol.Type),
				RefConcept:  &ConceptRef{Domain: dom.Name, Name: id.Name},
				RefColumn:   idcol.Name,
			}
			if err := prefixed.Add(nc); err != nil {
				return nil, err
			}
		}
		nm, err := mergeColumnSets(merged, prefixed)
		if err != nil {
			return nil, err
		}
		merged = nm
	}

	own, err := buildColumnSet(m, xc.Columns)
	if err != nil {
		return nil, err
	}
	merged, err = mergeColumnSets(merged, own)
	if err != nil {
		return nil, err
	}

	var related []*RelatedConcept
	for _, xr := range xc.Related {
		arity := Arity(xr.Arity)
		switch arity {
		case Arity1, Arity01, Arity1N, Arity0N:
		case "":
			arity = Arity1
		default:
			return nil, errs.New(errs.PatternInvalid, "concept %q: unknown related-concept arity %q", xc.Name, xr.Arity)
		}
		related = append(related, &RelatedConcept{
			TargetDomain: xr.Domain,
			TargetName:   xr.Concept,
			KeyPrefix:    xr.KeyPrefix,
			Arity:        arity,
		})
	}

	var coll *Collection
	if xc.Collection != "" {
		cc, ok := m.Collections.Get(xc.Collection)
		if !ok {
			return nil, errs.New(errs.UnknownReference, "concept %q: unknown collection %q", xc.Name, xc.Collection)
		}
		coll = cc
	}

	c := &Concept{
		Name:          xc.Name,
		FullName:      orDefault(xc.FullName, dom.Name+"."+xc.Name),
		Description:   xc.Description,
		Annotations:   cv.NewAnnotationSet(),
		BasedOn:       basedOn,
		ParentConcept: parentConcept,
		IDConcept:     idConcept,
		IDPrefix:      xc.IDPrefix,
		Columns:       merged,
		Related:       related,
		Collection:    coll,
	}
	return c, nil
}

func cloneColumnType(t *ColumnType) *ColumnType {
	cp := *t
	if t.Separators != nil {
		cp.Separators = append([]rune(nil), t.Separators...)
	}
	return &cp
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
