package model

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"testing"
)

func TestDigestBytesMatchesSHA1(t *testing.T) {
	data := []byte("hello world")
	sum := sha1.Sum(data)
	want := hex.EncodeToString(sum[:])
	if got := digestBytes(data); got != want {
		t.Errorf("digestBytes = %q, want %q", got, want)
	}
}

func TestFullModelSHA1IsModelBytesThenCVBytes(t *testing.T) {
	modelBytes := []byte("<model/>")
	cvBytes := []byte("a\tAlpha\nb\tBeta\n")

	acc := NewDigestAccumulator(modelBytes)
	w := acc.Writer()
	n, err := io.Copy(w, bytes.NewReader(cvBytes))
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if n != int64(len(cvBytes)) {
		t.Fatalf("copied %d bytes, want %d", n, len(cvBytes))
	}

	want := sha1.Sum(append(append([]byte{}, modelBytes...), cvBytes...))
	if got := acc.fullModelSHA1(); got != hex.EncodeToString(want[:]) {
		t.Errorf("fullModelSHA1 = %q, want %q", got, hex.EncodeToString(want[:]))
	}

	wantCV := sha1.Sum(cvBytes)
	if got := acc.cvSHA1(); got != hex.EncodeToString(wantCV[:]) {
		t.Errorf("cvSHA1 = %q, want %q", got, hex.EncodeToString(wantCV[:]))
	}
}

func TestDigestAccumulatorAccumulatesAcrossMultipleFiles(t *testing.T) {
	modelBytes := []byte("<model/>")
	file1 := []byte("a\tAlpha\n")
	file2 := []byte("b\tBeta\n")

	acc := NewDigestAccumulator(modelBytes)
	acc.Writer().Write(file1)
	acc.Writer().Write(file2)

	wantCV := sha1.Sum(append(append([]byte{}, file1...), file2...))
	if got := acc.cvSHA1(); got != hex.EncodeToString(wantCV[:]) {
		t.Errorf("cvSHA1 across two files = %q, want %q", got, hex.EncodeToString(wantCV[:]))
	}
}
