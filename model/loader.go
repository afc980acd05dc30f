package model

import (
	"encoding/xml"

	"github.com/inab/BP-Model/cv"
	"github.com/inab/BP-Model/errs"
)

// Validator validates the raw model document bytes against the meta-schema
// (C1) before the model document is decoded, returning a non-nil error
// naming the first violation encountered.
type Validator interface {
	Validate(modelBytes []byte) error
}

// Sources bundles everything the loader needs to read from, whether it
// came from a packaged archive or a plain directory of files.
type Sources struct {
	SchemaBytes []byte
	ModelBytes  []byte
	CVFiles     CVFileSource
}

// Load parses, validates and fully resolves a model document (C1-C10),
// returning a frozen Model or the first fatal error encountered. Loading
// never returns a partially resolved Model: any error aborts the whole
// load.
func Load(src Sources, validator Validator) (*Model, error) {
	if validator != nil {
		if err := validator.Validate(src.ModelBytes); err != nil {
			return nil, err
		}
	}

	var xm xmlModel
	if err := xml.Unmarshal(src.ModelBytes, &xm); err != nil {
		return nil, errs.Wrap(errs.SchemaViolation, err, "decode model document")
	}

	m := New()
	m.Project = xm.Project
	m.SchemaVersion = xm.SchemaVersion

	for _, a := range xm.Annotations {
		m.Annotations.Set(a.Name, cv.AnnotationValue{Text: a.Text})
	}

	for _, p := range xm.Patterns {
		if _, err := m.Patterns.Add(p.Name, p.Regex); err != nil {
			return nil, err
		}
	}

	if err := resolveCollections(m, xm.Collections); err != nil {
		return nil, err
	}
	if err := resolveMetadataCollection(m, xm.MetadataRef); err != nil {
		return nil, err
	}

	acc := NewDigestAccumulator(src.ModelBytes)
	if err := resolveVocabularies(m, xm.CVs, xm.MetaCVs, src.CVFiles, acc); err != nil {
		return nil, err
	}

	if err := resolveCompoundTypes(m, xm.CompoundTypes); err != nil {
		return nil, err
	}
	if err := resolveConceptTypes(m, xm.ConceptTypes); err != nil {
		return nil, err
	}
	if err := resolveDomains(m, xm.Domains); err != nil {
		return nil, err
	}
	if err := ResolveRelatedConcepts(m); err != nil {
		return nil, err
	}
	if _, err := resolveFilenamePatterns(m, xm.Filenames); err != nil {
		return nil, err
	}

	m.Digests = computeDigests(src.SchemaBytes, src.ModelBytes, acc)
	return m, nil
}
