package model

import (
	"regexp"
	"strconv"

	"github.com/inab/BP-Model/errs"
	"github.com/inab/BP-Model/typreg"
)

// Capture describes one named regexp capture group of a FilenamePattern
// and how its matched text feeds a column of the target concept.
type Capture struct {
	Name      string
	Primitive typreg.Primitive
	Column    string
}

// CompiledFilenamePattern is a FilenamePattern together with its compiled
// regexp and capture map, ready to be matched against candidate filenames.
type CompiledFilenamePattern struct {
	FilenamePattern
	Re       *regexp.Regexp
	Captures []Capture
}

// Match reports whether name matches the pattern (§4.8). On a match it
// returns mappedValues, the parsed and type-checked value for each target
// column, and extractedValues, the raw captured text keyed by capture name.
// A capture whose text fails the target column's primitive lexical check
// fails the whole match, since a filename-derived value that cannot satisfy
// its own column's type is not usable input.
func (p *CompiledFilenamePattern) Match(name string) (mappedValues map[string]any, extractedValues map[string]string, ok bool) {
	sub := p.Re.FindStringSubmatch(name)
	if sub == nil {
		return nil, nil, false
	}
	mappedValues = make(map[string]any, len(p.Captures))
	extractedValues = make(map[string]string, len(p.Captures))
	for _, cap := range p.Captures {
		idx := p.Re.SubexpIndex(cap.Name)
		if idx < 0 || idx >= len(sub) {
			continue
		}
		raw := sub[idx]
		extractedValues[cap.Name] = raw
		v, ok := parseCaptureValue(cap.Primitive, raw)
		if !ok {
			return nil, nil, false
		}
		mappedValues[cap.Column] = v
	}
	return mappedValues, extractedValues, true
}

// parseCaptureValue type-checks raw against primitive's lexical rules and
// returns the corresponding Go value: int64 for integer, float64 for
// decimal, bool for boolean, the raw string otherwise.
func parseCaptureValue(primitive typreg.Primitive, raw string) (any, bool) {
	pt, known := typreg.Lookup(primitive)
	if known && !pt.Valid(raw) {
		return nil, false
	}
	switch primitive {
	case typreg.Integer:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	case typreg.Decimal:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case typreg.Boolean:
		return raw == "true", true
	default:
		return raw, true
	}
}

// resolveFilenamePatterns compiles every declared filename pattern (C10)
// and validates that each capture group names a real column of an
// existing target concept.
func resolveFilenamePatterns(m *Model, xs []xmlFilePattern) ([]*CompiledFilenamePattern, error) {
	out := make([]*CompiledFilenamePattern, 0, len(xs))
	for _, x := range xs {
		re, err := regexp.Compile(x.Regex)
		if err != nil {
			return nil, errs.Wrap(errs.PatternInvalid, err, "filename pattern %q: invalid regexp", x.Name)
		}
		if x.Domain == "" {
			return nil, errs.New(errs.UnknownReference, "filename pattern %q: target concept %q must name its domain", x.Name, x.Concept)
		}
		target := ConceptRef{Domain: x.Domain, Name: x.Concept}
		concept, ok := m.Concept(target, nil)
		if !ok {
			return nil, errs.New(errs.UnknownReference, "filename pattern %q: unknown target concept %q", x.Name, x.Concept)
		}

		caps := make([]Capture, 0, len(x.Captures))
		for _, xc := range x.Captures {
			col, ok := concept.Columns.Get(xc.Column)
			if !ok {
				return nil, errs.New(errs.UnknownReference, "filename pattern %q: capture %q targets unknown column %q", x.Name, xc.Name, xc.Column)
			}
			prim := col.Type.Primitive
			if xc.Type != "" {
				prim = typreg.Primitive(xc.Type)
			}
			caps = append(caps, Capture{Name: xc.Name, Primitive: prim, Column: xc.Column})
		}

		cfp := &CompiledFilenamePattern{
			FilenamePattern: FilenamePattern{Name: x.Name, Regex: x.Regex, Concept: target},
			Re:              re,
			Captures:        caps,
		}
		if err := m.FilenamePatterns.Add(x.Name, &cfp.FilenamePattern); err != nil {
			return nil, err
		}
		out = append(out, cfp)
	}
	return out, nil
}

// Match returns every compiled pattern that matches name, per the decision
// to report all matches rather than guess a single winner (open question).
func Match(patterns []*CompiledFilenamePattern, name string) []*CompiledFilenamePattern {
	var hits []*CompiledFilenamePattern
	for _, p := range patterns {
		if _, _, ok := p.Match(name); ok {
			hits = append(hits, p)
		}
	}
	return hits
}
