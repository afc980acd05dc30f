package archive

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/inab/BP-Model/errs"
)

// signatureKeys is the fixed key order of signatures.txt (§6.1): every
// packaged archive must carry exactly these three digests, in this order,
// so that a byte-diff of two signatures.txt files is a meaningful compare.
var signatureKeys = []string{"schemaSHA1", "modelSHA1", "cvSHA1"}

// Signatures is the parsed content of a packaged archive's signatures.txt.
type Signatures struct {
	SchemaSHA1 string
	ModelSHA1  string
	CvSHA1     string
}

func (s Signatures) get(key string) string {
	switch key {
	case "schemaSHA1":
		return s.SchemaSHA1
	case "modelSHA1":
		return s.ModelSHA1
	case "cvSHA1":
		return s.CvSHA1
	}
	return ""
}

// WriteSignatures writes the three digests to w in the fixed key order, as
// "key: value\n" lines (§6.1).
func WriteSignatures(w io.Writer, sig Signatures) error {
	for _, k := range signatureKeys {
		if _, err := fmt.Fprintf(w, "%s: %s\n", k, sig.get(k)); err != nil {
			return errs.Wrap(errs.IOError, err, "write signatures")
		}
	}
	return nil
}

// ReadSignatures parses signatures.txt from r.
func ReadSignatures(r io.Reader) (Signatures, error) {
	var sig Signatures
	seen := map[string]bool{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		kv := strings.SplitN(line, ": ", 2)
		if len(kv) != 2 {
			return Signatures{}, errs.New(errs.CorruptArchive, "signatures.txt: malformed line %q", line)
		}
		key, val := kv[0], kv[1]
		switch key {
		case "schemaSHA1":
			sig.SchemaSHA1 = val
		case "modelSHA1":
			sig.ModelSHA1 = val
		case "cvSHA1":
			sig.CvSHA1 = val
		default:
			return Signatures{}, errs.New(errs.CorruptArchive, "signatures.txt: unknown key %q", key)
		}
		seen[key] = true
	}
	if err := sc.Err(); err != nil {
		return Signatures{}, errs.Wrap(errs.IOError, err, "read signatures.txt")
	}
	for _, k := range signatureKeys {
		if !seen[k] {
			return Signatures{}, errs.New(errs.CorruptArchive, "signatures.txt: missing key %q", k)
		}
	}
	return sig, nil
}

// Verify compares sig against the digests actually computed while loading
// the archive, returning errs.CorruptArchive on the first mismatch.
func Verify(sig Signatures, schemaSHA1, modelSHA1, cvSHA1 string) error {
	switch {
	case sig.SchemaSHA1 != schemaSHA1:
		return errs.New(errs.CorruptArchive, "schema digest mismatch: signatures.txt has %q, computed %q", sig.SchemaSHA1, schemaSHA1)
	case sig.ModelSHA1 != modelSHA1:
		return errs.New(errs.CorruptArchive, "model digest mismatch: signatures.txt has %q, computed %q", sig.ModelSHA1, modelSHA1)
	case sig.CvSHA1 != cvSHA1:
		return errs.New(errs.CorruptArchive, "cv digest mismatch: signatures.txt has %q, computed %q", sig.CvSHA1, cvSHA1)
	}
	return nil
}
