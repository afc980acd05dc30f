package model

import (
	"testing"

	"github.com/inab/BP-Model/errs"
	"github.com/inab/BP-Model/typreg"
)

func buildRelsModel(t *testing.T) (*Model, *ConceptDomain, *Concept, *Concept) {
	t.Helper()
	m := New()
	dom := NewConceptDomain("clinical")
	must(t, m.ConceptDomains.Add("clinical", dom))

	targetCols := NewColumnSet()
	must(t, targetCols.Add(&Column{Name: "id", Type: &ColumnType{Primitive: typreg.String, Usage: UsageIdref}}))
	target := &Concept{Name: "donor", Columns: targetCols}
	must(t, dom.AddConcept(target))

	ownerCols := NewColumnSet()
	must(t, ownerCols.Add(&Column{Name: "sampleId", Type: &ColumnType{Primitive: typreg.String, Usage: UsageIdref}}))
	owner := &Concept{
		Name:    "sample",
		Columns: ownerCols,
		Related: []*RelatedConcept{{TargetName: "donor", KeyPrefix: "donor_"}},
	}
	must(t, dom.AddConcept(owner))
	return m, dom, target, owner
}

func TestResolveRelatedConceptPropagatesEveryIdentifierColumn(t *testing.T) {
	m, _, target, owner := buildRelsModel(t)
	target.Columns.Add(&Column{Name: "site", Type: &ColumnType{Primitive: typreg.String, Usage: UsageIdref}})

	if err := ResolveRelatedConcepts(m); err != nil {
		t.Fatalf("ResolveRelatedConcepts: %v", err)
	}
	if !owner.Columns.Has("donor_id") || !owner.Columns.Has("donor_site") {
		t.Errorf("owner columns = %v, want donor_id and donor_site", owner.Columns.Names())
	}
	rel := owner.Related[0]
	if rel.Resolved != target {
		t.Errorf("rel.Resolved not set to target concept")
	}
	if len(rel.FKColumns) != 2 {
		t.Errorf("rel.FKColumns = %v, want 2 entries", rel.FKColumns)
	}
}

func TestResolveRelatedConceptPropagatesRestrictionAndDefault(t *testing.T) {
	m := New()
	dom := NewConceptDomain("clinical")
	must(t, m.ConceptDomains.Add("clinical", dom))

	pat, err := m.Patterns.Add("donorIdPattern", "^D[0-9]+$")
	must(t, err)

	targetCols := NewColumnSet()
	must(t, targetCols.Add(&Column{
		Name: "id",
		Type: &ColumnType{
			Primitive:   typreg.String,
			Usage:       UsageIdref,
			Default:     &Default{Literal: "D0"},
			Restriction: &Restriction{Pattern: pat},
		},
	}))
	target := &Concept{Name: "donor", Columns: targetCols}
	must(t, dom.AddConcept(target))

	ownerCols := NewColumnSet()
	owner := &Concept{
		Name:    "sample",
		Columns: ownerCols,
		Related: []*RelatedConcept{{TargetName: "donor", KeyPrefix: "donor_"}},
	}
	must(t, dom.AddConcept(owner))

	if err := ResolveRelatedConcepts(m); err != nil {
		t.Fatalf("ResolveRelatedConcepts: %v", err)
	}
	fk, ok := owner.Columns.Get("donor_id")
	if !ok {
		t.Fatalf("donor_id not propagated")
	}
	if fk.Type.Restriction == nil || fk.Type.Restriction.Pattern != pat {
		t.Errorf("fk restriction = %v, want pattern %v carried over", fk.Type.Restriction, pat)
	}
	if fk.Type.Default == nil || fk.Type.Default.Literal != "D0" {
		t.Errorf("fk default = %v, want literal D0 carried over", fk.Type.Default)
	}
}

func TestResolveRelatedConceptUnknownTarget(t *testing.T) {
	m := New()
	dom := NewConceptDomain("d")
	must(t, m.ConceptDomains.Add("d", dom))
	c := &Concept{Name: "x", Columns: NewColumnSet(), Related: []*RelatedConcept{{TargetName: "ghost"}}}
	must(t, dom.AddConcept(c))

	err := ResolveRelatedConcepts(m)
	if kind, ok := errs.KindOf(err); !ok || kind != errs.UnknownReference {
		t.Errorf("unknown related target: want UnknownReference, got %v (ok=%v)", kind, ok)
	}
}

func TestResolveRelatedConceptTargetWithoutIdentifierFails(t *testing.T) {
	m := New()
	dom := NewConceptDomain("d")
	must(t, m.ConceptDomains.Add("d", dom))
	target := &Concept{Name: "noid", Columns: NewColumnSet()}
	must(t, dom.AddConcept(target))
	owner := &Concept{Name: "x", Columns: NewColumnSet(), Related: []*RelatedConcept{{TargetName: "noid"}}}
	must(t, dom.AddConcept(owner))

	err := ResolveRelatedConcepts(m)
	if kind, ok := errs.KindOf(err); !ok || kind != errs.ColumnConflict {
		t.Errorf("target without identifier: want ColumnConflict, got %v (ok=%v)", kind, ok)
	}
}

func TestResolveRelatedConceptGenuineCollisionFails(t *testing.T) {
	m, _, _, owner := buildRelsModel(t)
	// Pre-populate a colliding column that was NOT propagated from this
	// relation, so the idempotency check must not treat it as already-done.
	owner.Columns.Add(&Column{Name: "donor_id", Type: &ColumnType{Primitive: typreg.Integer, Usage: UsageRequired}})

	err := ResolveRelatedConcepts(m)
	if kind, ok := errs.KindOf(err); !ok || kind != errs.ColumnConflict {
		t.Errorf("genuine collision: want ColumnConflict, got %v (ok=%v)", kind, ok)
	}
}

func TestResolveRelatedConceptCrossDomain(t *testing.T) {
	m := New()
	domA := NewConceptDomain("a")
	domB := NewConceptDomain("b")
	must(t, m.ConceptDomains.Add("a", domA))
	must(t, m.ConceptDomains.Add("b", domB))

	targetCols := NewColumnSet()
	must(t, targetCols.Add(&Column{Name: "id", Type: &ColumnType{Primitive: typreg.String, Usage: UsageIdref}}))
	target := &Concept{Name: "donor", Columns: targetCols}
	must(t, domA.AddConcept(target))

	ownerCols := NewColumnSet()
	owner := &Concept{
		Name:    "sample",
		Columns: ownerCols,
		Related: []*RelatedConcept{{TargetDomain: "a", TargetName: "donor", KeyPrefix: "donor_"}},
	}
	must(t, domB.AddConcept(owner))

	if err := ResolveRelatedConcepts(m); err != nil {
		t.Fatalf("ResolveRelatedConcepts: %v", err)
	}
	if !owner.Columns.Has("donor_id") {
		t.Errorf("cross-domain FK propagation failed: owner columns = %v", owner.Columns.Names())
	}
}
