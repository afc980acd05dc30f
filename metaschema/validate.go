// Package metaschema validates a raw model document against the bundled
// meta-schema (C1) before it is decoded and resolved.
package metaschema

import (
	"bytes"
	"fmt"
	"io/fs"

	"github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/errors"

	"github.com/inab/BP-Model/errs"
)

// Schema wraps a compiled meta-schema, ready to validate model documents
// against it.
type Schema struct {
	schema *xsd.Schema
}

// Load compiles the meta-schema rooted at location within fsys.
func Load(fsys fs.FS, location string) (*Schema, error) {
	s, err := xsd.Load(fsys, location)
	if err != nil {
		return nil, errs.Wrap(errs.SchemaViolation, err, "load meta-schema %q", location)
	}
	return &Schema{schema: s}, nil
}

// Validate implements model.Validator: it validates raw model document
// bytes against the compiled meta-schema. The first reported violation
// becomes an *errs.Error located at its instance path; any further
// violations are only counted in its message.
func (s *Schema) Validate(docBytes []byte) error {
	err := s.schema.Validate(bytes.NewReader(docBytes))
	if err == nil {
		return nil
	}
	list, ok := err.(xsderrors.ValidationList)
	if !ok {
		return errs.Wrap(errs.SchemaViolation, err, "validate model document")
	}
	if len(list) == 0 {
		return nil
	}
	first := list[0]
	loc := first.Path
	if first.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", loc, first.Line, first.Column)
	}
	e := errs.New(errs.SchemaViolation, "%s", first.Error())
	if len(list) > 1 {
		e = errs.New(errs.SchemaViolation, "%s (and %d more)", first.Error(), len(list)-1)
	}
	return e.At(loc)
}
