package model

import (
	"github.com/inab/BP-Model/cv"
	"github.com/inab/BP-Model/typreg"
)

// Digests are the four bit-exact content digests defined in spec §6.3.
type Digests struct {
	SchemaSHA1     string
	ModelSHA1      string
	CvSHA1         string
	FullModelSHA1  string
}

// Model is the fully resolved, invariant-checked in-memory model. It
// exclusively owns every registry; every other entity is referenced by
// weak lookup through one of these registries (ownership-by-name design
// note). A Model is created during Load, mutated only by the resolvers,
// and frozen thereafter: Model itself performs no mutation once returned
// from Load.
type Model struct {
	Project       string
	SchemaVersion string
	Digests       Digests
	Annotations   *cv.AnnotationSet

	MetadataCollection *Collection

	Collections      *OrderedMap[*Collection]
	Patterns         *typreg.Patterns
	CompoundTypes    *OrderedMap[*CompoundType]
	ConceptTypes     *OrderedMap[*ConceptType]
	ConceptDomains   *OrderedMap[*ConceptDomain]
	CVs              *cv.Set
	FilenamePatterns *OrderedMap[*FilenamePattern]

	NullCV cv.NullVocabulary
}

// New returns an empty Model with all registries initialized, ready to be
// populated by the loader.
func New() *Model {
	return &Model{
		Annotations:      cv.NewAnnotationSet(),
		Collections:      NewOrderedMap[*Collection]("collection"),
		Patterns:         typreg.NewPatterns(),
		CompoundTypes:    NewOrderedMap[*CompoundType]("compound type"),
		ConceptTypes:     NewOrderedMap[*ConceptType]("concept type"),
		ConceptDomains:   NewOrderedMap[*ConceptDomain]("concept domain"),
		CVs:              cv.NewSet(),
		FilenamePatterns: NewOrderedMap[*FilenamePattern]("filename pattern"),
	}
}

// ConceptDomain returns the domain registered under name.
func (m *Model) ConceptDomain(name string) (*ConceptDomain, bool) {
	return m.ConceptDomains.Get(name)
}

// Concept resolves a concept by (domain, name), using owner as the domain
// when ref.Domain is empty (same-domain reference).
func (m *Model) Concept(ref ConceptRef, owner *ConceptDomain) (*Concept, bool) {
	dom := owner
	if ref.Domain != "" {
		d, ok := m.ConceptDomains.Get(ref.Domain)
		if !ok {
			return nil, false
		}
		dom = d
	}
	if dom == nil {
		return nil, false
	}
	return dom.Concept(ref.Name)
}

// IsValidNull reports whether v is a registered null sentinel.
func (m *Model) IsValidNull(v string) bool { return m.NullCV.IsValidNull(v) }
