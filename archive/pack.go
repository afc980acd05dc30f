// Package archive implements the packaged-archive container format (C2):
// a zip file bundling the meta-schema, the model document, every external
// CV file the model references, and a signatures.txt of content digests
// used to detect a corrupted or hand-edited package.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/inab/BP-Model/errs"
)

const (
	schemaEntry     = "bp-schema.xsd"
	modelEntry      = "bp-model.xml"
	signaturesEntry = "signatures.txt"
	cvDir           = "cv/"
)

// Package is a packaged archive opened for reading.
type Package struct {
	SchemaBytes []byte
	ModelBytes  []byte
	Signatures  Signatures

	cv map[string][]byte // flattened cv/ entry name -> raw bytes
}

// Open reads a packaged archive from ra.
func Open(ra io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, errs.Wrap(errs.CorruptArchive, err, "open archive")
	}
	p := &Package{cv: map[string][]byte{}}
	var sigBytes []byte
	for _, f := range zr.File {
		data, err := readZipEntry(f)
		if err != nil {
			return nil, err
		}
		switch {
		case f.Name == schemaEntry:
			p.SchemaBytes = data
		case f.Name == modelEntry:
			p.ModelBytes = data
		case f.Name == signaturesEntry:
			sigBytes = data
		case strings.HasPrefix(f.Name, cvDir):
			p.cv[strings.TrimPrefix(f.Name, cvDir)] = data
		}
	}
	if p.SchemaBytes == nil {
		return nil, errs.New(errs.CorruptArchive, "archive missing %s", schemaEntry)
	}
	if p.ModelBytes == nil {
		return nil, errs.New(errs.CorruptArchive, "archive missing %s", modelEntry)
	}
	if sigBytes == nil {
		return nil, errs.New(errs.CorruptArchive, "archive missing %s", signaturesEntry)
	}
	sig, err := ReadSignatures(bytes.NewReader(sigBytes))
	if err != nil {
		return nil, err
	}
	p.Signatures = sig
	return p, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errs.Wrap(errs.CorruptArchive, err, "open archive entry %q", f.Name)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errs.Wrap(errs.CorruptArchive, err, "read archive entry %q", f.Name)
	}
	return data, nil
}

// Open implements model.CVFileSource: it resolves an external CV file
// name against the archive's flat cv/ directory.
func (p *Package) Open(name string) (io.ReadCloser, error) {
	data, ok := p.cv[flattenName(name)]
	if !ok {
		return nil, errs.New(errs.CorruptArchive, "archive: no cv file for %q", name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// CVFile is one external CV file to be packaged, keyed by the logical
// name the model document references it by.
type CVFile struct {
	Name string
	Data []byte
}

// Emit writes a new packaged archive to w containing schemaBytes,
// modelBytes, every file in cvFiles (flattened into cv/ with collisions
// resolved by a first-seen-order counter suffix — see the filename
// collision decision), and a signatures.txt holding the digests in sig.
// Emit writes sig as given; it does not compute digests itself.
func Emit(w io.Writer, schemaBytes, modelBytes []byte, cvFiles []CVFile, sig Signatures) error {
	zw := zip.NewWriter(w)

	if err := writeEntry(zw, schemaEntry, schemaBytes); err != nil {
		return err
	}
	if err := writeEntry(zw, modelEntry, modelBytes); err != nil {
		return err
	}

	names := flattenNames(cvFiles)
	for i, cvf := range cvFiles {
		if err := writeEntry(zw, cvDir+names[i], cvf.Data); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := WriteSignatures(&buf, sig); err != nil {
		return err
	}
	if err := writeEntry(zw, signaturesEntry, buf.Bytes()); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return errs.Wrap(errs.IOError, err, "close archive")
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.Create(name)
	if err != nil {
		return errs.Wrap(errs.IOError, err, "create archive entry %q", name)
	}
	if _, err := fw.Write(data); err != nil {
		return errs.Wrap(errs.IOError, err, "write archive entry %q", name)
	}
	return nil
}

// flattenName drops every directory component of a logical CV file name,
// keeping only its base name — packaged archives store every CV file flat
// under cv/, regardless of the path it was loaded from.
func flattenName(name string) string {
	return path.Base(strings.ReplaceAll(name, "\\", "/"))
}

// flattenNames flattens every cv file's name and resolves collisions by
// appending a monotonically increasing counter suffix in first-seen order
// (open question decision: no cross-platform case-fold stability claim is
// made here).
func flattenNames(cvFiles []CVFile) []string {
	seen := map[string]int{}
	out := make([]string, len(cvFiles))
	for i, cvf := range cvFiles {
		base := flattenName(cvf.Name)
		n := seen[base]
		seen[base] = n + 1
		if n == 0 {
			out[i] = base
			continue
		}
		ext := path.Ext(base)
		stem := strings.TrimSuffix(base, ext)
		out[i] = fmt.Sprintf("%s-%d%s", stem, n+1, ext)
	}
	return out
}
