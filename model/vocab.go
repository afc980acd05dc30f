package model

import (
	"io"

	"github.com/inab/BP-Model/cv"
	"github.com/inab/BP-Model/errs"
)

// CVFileSource opens the external CV files referenced by name="file"
// attributes, whether they live inside a packaged archive or beside a
// plain model document on disk.
type CVFileSource interface {
	Open(name string) (io.ReadCloser, error)
}

// resolveVocabularies builds every declared CV and meta-CV in document
// order (C5). Inline CVs get their terms added directly; file-backed CVs
// are read through src with their raw bytes fed into acc for the
// cv-content digest; URI-referenced CVs are marked unresolved rather than
// fetched over the network. Every simple CV's ancestor closures are
// computed once all of its own terms have been added. The CV literally
// named "nullCV", if present, is bound as the model's null-value
// vocabulary (I7).
func resolveVocabularies(m *Model, xcvs []xmlCV, xmcvs []xmlMetaCV, src CVFileSource, acc *DigestAccumulator) error {
	for _, x := range xcvs {
		c, err := buildCV(x, src, acc)
		if err != nil {
			return err
		}
		if err := c.Close(); err != nil {
			return err
		}
		if err := m.CVs.Add(c); err != nil {
			return err
		}
		if x.Name == "nullCV" {
			m.NullCV = cv.NullVocabulary{CV: c}
		}
	}
	for _, x := range xmcvs {
		mv := &cv.MetaCV{Name: x.Name}
		for _, r := range x.Refs {
			enc, ok := m.CVs.Get(r.Ref)
			if !ok {
				return errs.New(errs.UnknownReference, "metaCV %q: unknown vocabulary %q", x.Name, r.Ref)
			}
			mv.Enclosed = append(mv.Enclosed, enc)
		}
		if err := m.CVs.Add(mv); err != nil {
			return err
		}
	}
	return nil
}

func buildCV(x xmlCV, src CVFileSource, acc *DigestAccumulator) (*cv.CV, error) {
	switch {
	case x.File != "":
		rc, err := src.Open(x.File)
		if err != nil {
			return nil, errs.Wrap(errs.IOError, err, "cv %q: open external file %q", x.Name, x.File)
		}
		defer rc.Close()
		c, err := cv.ExtFile(x.Name, rc, acc.Writer())
		if err != nil {
			return nil, err
		}
		if x.Description != "" {
			c.Description = x.Description
		}
		return c, nil

	case len(x.URIs) > 0:
		c := cv.NewCV(x.Name)
		c.Description = x.Description
		c.URIs = append(c.URIs, x.URIs...)
		c.MarkUnresolved()
		return c, nil

	default:
		c := cv.NewCV(x.Name)
		c.Description = x.Description
		c.Annotations = cv.NewAnnotationSet()
		for _, xt := range x.Terms {
			t := &cv.Term{Key: xt.Key, Name: xt.Name, Alias: xt.Alias}
			if xt.Alt != "" {
				t.Alt = splitCSV(xt.Alt)
			}
			if xt.Parents != "" {
				t.Parents = splitCSV(xt.Parents)
			}
			if err := c.AddTerm(t); err != nil {
				return nil, err
			}
		}
		return c, nil
	}
}
