// Package model implements the resolved, in-memory data-model core: the
// content-addressed graph of concept types, concept domains, concepts,
// columns, controlled vocabularies, compound types and filename patterns
// produced by loading and resolving a declarative XML model document.
//
// Entities are created during load, mutated only by the resolvers (C6-C10)
// during resolution, and frozen thereafter. The Model owns every registry
// exclusively; everything else is reached by weak lookup (name, or
// name-pair for concepts), per the ownership-by-name design note.
package model

import (
	"github.com/inab/BP-Model/cv"
	"github.com/inab/BP-Model/typreg"
)

// Usage is the column usage classification.
type Usage string

const (
	UsageIdref     Usage = "idref"
	UsageRequired  Usage = "required"
	UsageDesirable Usage = "desirable"
	UsageOptional  Usage = "optional"
)

// widenRank orders non-idref usages from narrowest to widest, so that
// widening (required -> desirable -> optional) can be checked with a
// simple rank comparison.
var widenRank = map[Usage]int{
	UsageRequired:  0,
	UsageDesirable: 1,
	UsageOptional:  2,
}

// CanWiden reports whether usage may be widened from cur to next during a
// same-name column override (spec §4.5): required -> desirable -> optional
// only, in that direction.
func CanWiden(cur, next Usage) bool {
	if cur == UsageIdref || next == UsageIdref {
		return cur == next
	}
	cr, ok1 := widenRank[cur]
	nr, ok2 := widenRank[next]
	return ok1 && ok2 && nr >= cr
}

// Default is a column default: either a literal value or a reference to a
// sibling column whose value should be copied.
type Default struct {
	Literal    string
	ColumnName string // set instead of Literal when the default is a sibling reference
}

// Restriction is at most one of a pattern, a controlled vocabulary, or a
// compound type — the three ways a column's lexical space can be
// constrained.
type Restriction struct {
	Pattern  *typreg.Pattern
	CV       cv.Vocabulary
	Compound *CompoundType
}

// ColumnType describes the type and constraints of a column.
type ColumnType struct {
	Primitive    typreg.Primitive
	Usage        Usage
	Default      *Default
	Restriction  *Restriction
	Separators   []rune // array-separator ladder, one rune per dimension
}

// IsArray reports whether the column carries an array-separator ladder of
// depth > 0.
func (t *ColumnType) IsArray() bool { return len(t.Separators) > 0 }

// ConceptRef names a concept by (domain, name); domain empty means "the
// owning concept's own domain" until resolved.
type ConceptRef struct {
	Domain string
	Name   string
}

// Column is one entry of a column-set.
type Column struct {
	Name        string
	Description string
	Annotations *cv.AnnotationSet
	Type        *ColumnType

	// RefConcept/RefColumn are populated by C9 for foreign-key columns
	// synthesized during related-concept propagation: they record which
	// concept and column this column was copied from.
	RefConcept *ConceptRef
	RefColumn  string
}

// ColumnSet is an insertion-ordered mapping from column name to column,
// with the identifier subset tracked separately for O(1) access.
type ColumnSet struct {
	cols     *OrderedMap[*Column]
	idOrder  []string
}

// NewColumnSet returns an empty column set.
func NewColumnSet() *ColumnSet {
	return &ColumnSet{cols: NewOrderedMap[*Column]("column")}
}

// Add appends a new column. Returns errs.DuplicateName if the name is
// already present — callers implementing the merge/override rules of
// §4.5-§4.6 should use Override instead when that is intended.
func (cs *ColumnSet) Add(c *Column) error {
	if err := cs.cols.Add(c.Name, c); err != nil {
		return err
	}
	if c.Type != nil && c.Type.Usage == UsageIdref {
		cs.idOrder = append(cs.idOrder, c.Name)
	}
	return nil
}

// Override installs c under its own name unconditionally, used for
// same-name overrides during merges (already validated for
// type-compatible widening by the caller).
func (cs *ColumnSet) Override(c *Column) {
	wasID := false
	if old, ok := cs.cols.Get(c.Name); ok && old.Type != nil && old.Type.Usage == UsageIdref {
		wasID = true
	}
	cs.cols.Set(c.Name, c)
	isID := c.Type != nil && c.Type.Usage == UsageIdref
	switch {
	case wasID && !isID:
		cs.idOrder = removeStr(cs.idOrder, c.Name)
	case !wasID && isID:
		cs.idOrder = append(cs.idOrder, c.Name)
	}
}

func removeStr(s []string, v string) []string {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// Get returns the column registered under name.
func (cs *ColumnSet) Get(name string) (*Column, bool) { return cs.cols.Get(name) }

// Has reports whether name is a column of this set.
func (cs *ColumnSet) Has(name string) bool { return cs.cols.Has(name) }

// Names returns column names in declaration order.
func (cs *ColumnSet) Names() []string { return cs.cols.Keys() }

// Columns returns columns in declaration order.
func (cs *ColumnSet) Columns() []*Column { return cs.cols.Values() }

// Len returns the number of columns.
func (cs *ColumnSet) Len() int { return cs.cols.Len() }

// IdentifierColumns returns the sub-ordering of columns marked idref, in
// declaration order.
func (cs *ColumnSet) IdentifierColumns() []*Column {
	out := make([]*Column, 0, len(cs.idOrder))
	for _, n := range cs.idOrder {
		c, ok := cs.cols.Get(n)
		if ok {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns a shallow copy of the column set (columns are shared, the
// set container is not) — used as the starting point for merges so parent
// column sets are never mutated in place.
func (cs *ColumnSet) Clone() *ColumnSet {
	out := NewColumnSet()
	for _, c := range cs.Columns() {
		out.Add(c)
	}
	return out
}

// CompoundType is a named, reusable column-set usable as a column's type.
type CompoundType struct {
	Name    string
	Columns *ColumnSet
}

// ConceptType is a reusable, possibly abstract template of columns.
// Anonymous members of an inheritance chain are not installed in the name
// registry (they are internal-only, per the anonymous-abstract design
// note) but still contribute columns during merge.
type ConceptType struct {
	Name    string // empty for anonymous/abstract members
	Parent  *ConceptType
	Columns *ColumnSet
}

// Chain returns the inheritance lineage from root to leaf, including t.
func (t *ConceptType) Chain() []*ConceptType {
	var rev []*ConceptType
	for c := t; c != nil; c = c.Parent {
		rev = append(rev, c)
	}
	out := make([]*ConceptType, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}

// Arity is the multiplicity of a related-concept reference.
type Arity string

const (
	Arity1    Arity = "1"
	Arity01   Arity = "0..1"
	Arity1N   Arity = "1..N"
	Arity0N   Arity = "0..N"
)

// RelatedConcept is a directed reference from one concept to another.
type RelatedConcept struct {
	TargetDomain string // empty means "same domain as the owner"
	TargetName   string
	KeyPrefix    string
	Arity        Arity

	// Populated by C9.
	Resolved   *Concept
	FKColumns  []string
}

// Concept is an entity type with a column set.
type Concept struct {
	Name        string
	FullName    string
	Description string
	Annotations *cv.AnnotationSet
	Domain      *ConceptDomain

	BasedOn      []*ConceptType
	ParentConcept *Concept // "extends", in-domain inheritance
	IDConcept     *Concept // "identifiedBy", weak-entity identification
	IDPrefix      string

	Columns *ColumnSet
	Related []*RelatedConcept

	Collection *Collection
}

// Qualified returns the (domain, name) pair as a single dotted string,
// mirroring the qualified-name convention used for cross-registry lookup.
func (c *Concept) Qualified() string {
	if c.Domain == nil {
		return c.Name
	}
	return c.Domain.Name + "." + c.Name
}

// ConceptDomain is a named grouping of concepts.
type ConceptDomain struct {
	Name        string
	FullName    string
	Abstract    bool
	Description string
	Annotations *cv.AnnotationSet

	concepts *OrderedMap[*Concept]
}

// NewConceptDomain returns an empty concept domain named name.
func NewConceptDomain(name string) *ConceptDomain {
	return &ConceptDomain{Name: name, concepts: NewOrderedMap[*Concept]("concept")}
}

// AddConcept registers a concept. Returns errs.DuplicateName on collision.
func (d *ConceptDomain) AddConcept(c *Concept) error {
	c.Domain = d
	return d.concepts.Add(c.Name, c)
}

// Concept returns the concept registered under name.
func (d *ConceptDomain) Concept(name string) (*Concept, bool) { return d.concepts.Get(name) }

// Concepts returns concepts in declaration order.
func (d *ConceptDomain) Concepts() []*Concept { return d.concepts.Values() }

// IndexColumn is one (column, direction) pair of an index.
type IndexColumn struct {
	Name string
	Dir  int8 // +1 or -1
}

// Index is a uniqueness flag plus an ordered sequence of index columns.
type Index struct {
	Unique  bool
	Columns []IndexColumn
}

// Collection is a named destination within the target backend.
type Collection struct {
	Name    string
	Path    string
	Indices []*Index
}

// FilenamePattern maps file basenames to a concept plus extracted values.
type FilenamePattern struct {
	Name    string
	Regex   string // source pattern before compilation, kept for diagnostics
	Concept ConceptRef
}
