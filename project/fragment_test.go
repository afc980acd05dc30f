package project

import (
	"testing"

	"github.com/inab/BP-Model/cv"
)

func newTestCV(name string, n int) *cv.CV {
	c := cv.NewCV(name)
	c.Description = "test vocabulary"
	c.Annotations = cv.NewAnnotationSet()
	for i := 0; i < n; i++ {
		t := &cv.Term{Key: keyFor(i), Name: "term"}
		c.AddTerm(t)
	}
	return c
}

func keyFor(i int) string {
	return string(rune('a'+i%26)) + string(rune('0'+i/26))
}

func TestFragmentCVWithinLimitsIsOneSegment(t *testing.T) {
	c := newTestCV("small", 10)
	segs := FragmentCV(c)
	if len(segs) != 1 {
		t.Fatalf("segments = %d, want 1", len(segs))
	}
	if segs[0].NumSegments != 1 || segs[0].SegmentIndex != 0 {
		t.Errorf("segment 0 = %+v, want NumSegments=1 SegmentIndex=0", segs[0])
	}
	doc := segs[0].Document()
	if doc["_id"] != "small" || doc["description"] != "test vocabulary" {
		t.Errorf("segment 0 document missing identity fields: %+v", doc)
	}
}

func TestFragmentCVSplitsByCount(t *testing.T) {
	orig := MaxTerms
	MaxTerms = 4
	defer func() { MaxTerms = orig }()

	c := newTestCV("big", 10)
	segs := FragmentCV(c)
	if len(segs) != 3 {
		t.Fatalf("segments = %d, want 3 (4+4+2)", len(segs))
	}
	total := 0
	for i, seg := range segs {
		if seg.SegmentIndex != i {
			t.Errorf("segment %d has SegmentIndex %d", i, seg.SegmentIndex)
		}
		if seg.NumSegments != 3 {
			t.Errorf("segment %d NumSegments = %d, want 3", i, seg.NumSegments)
		}
		total += len(seg.Terms)
	}
	if total != 10 {
		t.Errorf("total terms across segments = %d, want 10", total)
	}
}

func TestFragmentCVOnlyFirstSegmentCarriesIdentity(t *testing.T) {
	orig := MaxTerms
	MaxTerms = 2
	defer func() { MaxTerms = orig }()

	c := newTestCV("split", 5)
	segs := FragmentCV(c)
	if len(segs) < 2 {
		t.Fatalf("expected multiple segments, got %d", len(segs))
	}
	doc0 := segs[0].Document()
	if _, ok := doc0["_id"]; !ok {
		t.Errorf("segment 0 must carry _id")
	}
	doc1 := segs[1].Document()
	if _, ok := doc1["_id"]; ok {
		t.Errorf("segment 1 must not carry _id, got %+v", doc1)
	}
	if _, ok := doc1["numSegments"]; ok {
		t.Errorf("segment 1 must not carry numSegments, got %+v", doc1)
	}
	if doc1["name"] != "split" || doc1["segmentIndex"] != 1 {
		t.Errorf("segment 1 correlation key wrong: %+v", doc1)
	}
}

func TestFragmentCVSplitsBySize(t *testing.T) {
	origTerms, origBytes := MaxTerms, MaxBytes
	MaxTerms = 1000
	MaxBytes = 200
	defer func() { MaxTerms, MaxBytes = origTerms, origBytes }()

	c := newTestCV("oversize", 20)
	segs := FragmentCV(c)
	if len(segs) < 2 {
		t.Fatalf("expected size-based splitting to produce multiple segments, got %d", len(segs))
	}
	total := 0
	for _, seg := range segs {
		total += len(seg.Terms)
	}
	if total != 20 {
		t.Errorf("total terms = %d, want 20", total)
	}
}
