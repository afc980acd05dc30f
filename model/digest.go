package model

import (
	"crypto/sha1"
	"encoding/hex"
	"hash"
	"io"
)

// digestBytes returns the lowercase hex SHA-1 of data, matching the four
// bit-exact digests of §6.3. SHA-1 is specified for these fields; it is
// not a general-purpose content-hash choice made here.
func digestBytes(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// DigestAccumulator feeds every external CV file's raw bytes into two
// running SHA-1 hashes at once: cv, which becomes cvSHA1 on its own, and
// full, which is seeded with the raw model bytes before any CV file is
// read so that it ends up hashing modelBytes||cvBytes — fullmodelSHA1.
// A single accumulator is built once per Load and handed to every
// ExtFile call as the tee target, in load order.
type DigestAccumulator struct {
	cv   hash.Hash
	full hash.Hash
}

// NewDigestAccumulator seeds full with modelBytes and returns an
// accumulator ready to receive external CV file bytes.
func NewDigestAccumulator(modelBytes []byte) *DigestAccumulator {
	full := sha1.New()
	full.Write(modelBytes)
	return &DigestAccumulator{cv: sha1.New(), full: full}
}

// Writer returns the io.Writer to pass as ExtFile's digest sink.
func (d *DigestAccumulator) Writer() io.Writer {
	return io.MultiWriter(d.cv, d.full)
}

func (d *DigestAccumulator) cvSHA1() string {
	return hex.EncodeToString(d.cv.Sum(nil))
}

func (d *DigestAccumulator) fullModelSHA1() string {
	return hex.EncodeToString(d.full.Sum(nil))
}

// computeDigests assembles the four §6.3 digests from the raw schema and
// model bytes read from the archive (or plain files) before any
// reformatting, plus the accumulator that has already consumed every
// external CV file's bytes in load order.
func computeDigests(schemaBytes, modelBytes []byte, acc *DigestAccumulator) Digests {
	return Digests{
		SchemaSHA1:    digestBytes(schemaBytes),
		ModelSHA1:     digestBytes(modelBytes),
		CvSHA1:        acc.cvSHA1(),
		FullModelSHA1: acc.fullModelSHA1(),
	}
}
