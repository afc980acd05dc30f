package project

import (
	"encoding/json"

	"github.com/inab/BP-Model/cv"
)

// Fragmentation limits for a controlled vocabulary's document-store
// representation (§4.9): a CV with more than MaxTerms terms, or whose
// single-document JSON encoding would exceed MaxBytes, is split into
// multiple correlated segment documents instead of one oversize document.
var (
	MaxTerms = 256
	MaxBytes = 12 * 1024 * 1024 // conservative margin under a 16MiB document cap
)

// TermDoc is one term's document-store representation.
type TermDoc struct {
	Key       string   `json:"key"`
	Alt       []string `json:"alt,omitempty"`
	Name      string   `json:"name,omitempty"`
	Alias     bool     `json:"alias,omitempty"`
	Parents   []string `json:"parents,omitempty"`
	Ancestors []string `json:"ancestors,omitempty"`
}

func termDoc(t *cv.Term) TermDoc {
	return TermDoc{
		Key:       t.Key,
		Alt:       t.Alt,
		Name:      t.Name,
		Alias:     t.Alias,
		Parents:   t.Parents,
		Ancestors: t.Ancestors,
	}
}

// CVSegment is one segment of a (possibly fragmented) CV document.
// SegmentIndex is 0-based; only segment 0 carries Description and
// Annotations, since every segment shares the vocabulary's identity but
// only the first is the "canonical" record consumers should read
// metadata from.
type CVSegment struct {
	Name         string
	SegmentIndex int
	NumSegments  int
	Description  string
	Annotations  []map[string]any
	Terms        []TermDoc
}

// Document renders the segment into its document-store shape. Every
// segment carries "name" and "segmentIndex" as its correlation key;
// "_id", "description", "annotations" and "numSegments" appear only on
// segment 0.
func (s CVSegment) Document() Document {
	doc := Document{
		"name":         s.Name,
		"segmentIndex": s.SegmentIndex,
		"terms":        s.Terms,
	}
	if s.SegmentIndex == 0 {
		doc["_id"] = s.Name
		doc["description"] = s.Description
		doc["annotations"] = s.Annotations
		doc["numSegments"] = s.NumSegments
	}
	return doc
}

// FragmentCV splits v's terms into one or more CVSegment values per the
// limits above. A CV within both limits always yields exactly one
// segment.
func FragmentCV(v cv.Vocabulary) []CVSegment {
	terms := v.Terms()
	chunks := chunkByCount(terms, MaxTerms)
	chunks = chunkAllBySize(chunks)

	description, annotations := descriptionOf(v)
	segs := make([]CVSegment, len(chunks))
	for i, terms := range chunks {
		docs := make([]TermDoc, len(terms))
		for j, t := range terms {
			docs[j] = termDoc(t)
		}
		segs[i] = CVSegment{Name: v.ID(), SegmentIndex: i, NumSegments: len(chunks), Terms: docs}
	}
	if len(segs) > 0 {
		segs[0].Description = description
		segs[0].Annotations = annotations
	}
	return segs
}

func descriptionOf(v cv.Vocabulary) (string, []map[string]any) {
	if c, ok := v.(*cv.CV); ok {
		return c.Description, annotationsJSON(c.Annotations)
	}
	return "", nil
}

// annotationsJSON renders an AnnotationSet in declaration order.
func annotationsJSON(a *cv.AnnotationSet) []map[string]any {
	if a == nil {
		return nil
	}
	out := make([]map[string]any, 0, len(a.Names))
	for _, n := range a.Names {
		v := a.Values[n]
		entry := map[string]any{"name": n, "text": v.Text}
		if len(v.Fragments) > 0 {
			entry["fragments"] = v.Fragments
		}
		out = append(out, entry)
	}
	return out
}

func chunkByCount(terms []*cv.Term, max int) [][]*cv.Term {
	if max <= 0 || len(terms) <= max {
		return [][]*cv.Term{terms}
	}
	var out [][]*cv.Term
	for len(terms) > 0 {
		n := max
		if n > len(terms) {
			n = len(terms)
		}
		out = append(out, terms[:n])
		terms = terms[n:]
	}
	return out
}

// chunkAllBySize further splits any chunk whose term-only JSON encoding
// would exceed MaxBytes, halving repeatedly until each half fits or is a
// single term.
func chunkAllBySize(chunks [][]*cv.Term) [][]*cv.Term {
	var out [][]*cv.Term
	for _, c := range chunks {
		out = append(out, splitBySize(c)...)
	}
	return out
}

func splitBySize(terms []*cv.Term) [][]*cv.Term {
	if len(terms) <= 1 || encodedSize(terms) <= MaxBytes {
		return [][]*cv.Term{terms}
	}
	mid := len(terms) / 2
	left := splitBySize(terms[:mid])
	right := splitBySize(terms[mid:])
	return append(left, right...)
}

func encodedSize(terms []*cv.Term) int {
	docs := make([]TermDoc, len(terms))
	for i, t := range terms {
		docs[i] = termDoc(t)
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return 0
	}
	return len(data)
}
