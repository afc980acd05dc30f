package model

import (
	"io"

	"github.com/inab/BP-Model/archive"
)

// LoadPackaged loads a model from a packaged archive (§4.1's "packaged"
// mode): it opens ra as a packaged archive, resolves the model the same
// way Load does from its extracted schema/model bytes and cv/ files, then
// verifies every computed digest against the archive's own signatures.txt
// (S5). A digest mismatch fails with errs.CorruptArchive even if the model
// document itself parsed and resolved cleanly.
func LoadPackaged(ra io.ReaderAt, size int64, validator Validator) (*Model, error) {
	pkg, err := archive.Open(ra, size)
	if err != nil {
		return nil, err
	}

	src := Sources{
		SchemaBytes: pkg.SchemaBytes,
		ModelBytes:  pkg.ModelBytes,
		CVFiles:     pkg,
	}
	m, err := Load(src, validator)
	if err != nil {
		return nil, err
	}

	if err := archive.Verify(pkg.Signatures, m.Digests.SchemaSHA1, m.Digests.ModelSHA1, m.Digests.CvSHA1); err != nil {
		return nil, err
	}
	return m, nil
}
