package archive

import (
	"bytes"
	"testing"

	"github.com/inab/BP-Model/errs"
)

func TestEmitOpenRoundTrip(t *testing.T) {
	schemaBytes := []byte("<schema/>")
	modelBytes := []byte("<model/>")
	cvFiles := []CVFile{
		{Name: "vocab/colors.tsv", Data: []byte("a\tAlpha\n")},
		{Name: "sex.tsv", Data: []byte("m\tMale\n")},
	}
	sig := Signatures{SchemaSHA1: "s1", ModelSHA1: "m1", CvSHA1: "c1"}

	var buf bytes.Buffer
	if err := Emit(&buf, schemaBytes, modelBytes, cvFiles, sig); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	pkg, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(pkg.SchemaBytes, schemaBytes) {
		t.Errorf("SchemaBytes = %q, want %q", pkg.SchemaBytes, schemaBytes)
	}
	if !bytes.Equal(pkg.ModelBytes, modelBytes) {
		t.Errorf("ModelBytes = %q, want %q", pkg.ModelBytes, modelBytes)
	}
	if pkg.Signatures != sig {
		t.Errorf("Signatures = %+v, want %+v", pkg.Signatures, sig)
	}

	rc, err := pkg.Open("vocab/colors.tsv")
	if err != nil {
		t.Fatalf("Open(colors.tsv): %v", err)
	}
	defer rc.Close()
	var out bytes.Buffer
	out.ReadFrom(rc)
	if out.String() != "a\tAlpha\n" {
		t.Errorf("colors.tsv content = %q, want %q", out.String(), "a\tAlpha\n")
	}
}

func TestFlattenNamesCollision(t *testing.T) {
	cvFiles := []CVFile{
		{Name: "a/colors.tsv"},
		{Name: "b/colors.tsv"},
		{Name: "c/colors.tsv"},
	}
	names := flattenNames(cvFiles)
	want := []string{"colors.tsv", "colors-2.tsv", "colors-3.tsv"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestOpenTruncatedArchiveFails(t *testing.T) {
	var buf bytes.Buffer
	if err := Emit(&buf, []byte("s"), []byte("m"), nil, Signatures{}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	// Corrupt the archive by cutting off the last 10 bytes, part of the
	// end-of-central-directory record, which zip.NewReader will reject as
	// a bad archive rather than silently accept.
	corrupted := buf.Bytes()[:len(buf.Bytes())-10]
	if _, err := Open(bytes.NewReader(corrupted), int64(len(corrupted))); err == nil {
		t.Errorf("Open truncated archive: want error, got nil")
	}
}

func TestSignaturesRoundTripAndVerify(t *testing.T) {
	sig := Signatures{SchemaSHA1: "aaaa", ModelSHA1: "bbbb", CvSHA1: "cccc"}
	var buf bytes.Buffer
	if err := WriteSignatures(&buf, sig); err != nil {
		t.Fatalf("WriteSignatures: %v", err)
	}
	want := "schemaSHA1: aaaa\nmodelSHA1: bbbb\ncvSHA1: cccc\n"
	if buf.String() != want {
		t.Errorf("WriteSignatures output = %q, want %q", buf.String(), want)
	}

	got, err := ReadSignatures(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadSignatures: %v", err)
	}
	if got != sig {
		t.Errorf("ReadSignatures = %+v, want %+v", got, sig)
	}

	if err := Verify(sig, "aaaa", "bbbb", "cccc"); err != nil {
		t.Errorf("Verify matching digests: %v", err)
	}
	if kind, ok := errs.KindOf(Verify(sig, "aaaa", "bbbb", "wrong")); !ok || kind != errs.CorruptArchive {
		t.Errorf("Verify mismatched digest: want CorruptArchive, got %v (ok=%v)", kind, ok)
	}
}

func TestReadSignaturesMissingKey(t *testing.T) {
	_, err := ReadSignatures(bytes.NewReader([]byte("schemaSHA1: a\nmodelSHA1: b\n")))
	if kind, ok := errs.KindOf(err); !ok || kind != errs.CorruptArchive {
		t.Errorf("ReadSignatures missing key: want CorruptArchive, got %v (ok=%v)", kind, ok)
	}
}
