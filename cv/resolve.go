package cv

import "github.com/inab/BP-Model/errs"

// AddTerm appends a term to an inline/external CV and indexes its keys.
// It does not compute the ancestor closure; call Close after all terms of
// the CV have been added.
func (c *CV) AddTerm(t *Term) error {
	for _, k := range t.Keys() {
		if _, ok := c.index[k]; ok {
			return errs.New(errs.DuplicateName, "cv %q: term key %q already used", c.Name, k)
		}
	}
	c.Terms_ = append(c.Terms_, t)
	for _, k := range t.Keys() {
		c.index[k] = t
	}
	if t.Alias {
		for _, k := range t.Parents {
			c.aliasIndex[k] = t
		}
	}
	return nil
}

// Close finalizes the CV: it computes the reflexive-free transitive
// closure of Parents for every non-alias term, detecting cycles
// (errs.CvCycle) and unknown parent references (errs.UnknownReference).
// Alias terms are left untouched; their Parents field already carries the
// union-of semantics and no Ancestors are computed for them.
func (c *CV) Close() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(c.Terms_))
	for _, t := range c.Terms_ {
		if !t.Alias {
			color[t.Key] = white
		}
	}
	var visit func(t *Term) ([]string, error)
	visit = func(t *Term) ([]string, error) {
		if t.Alias {
			return nil, nil
		}
		switch color[t.Key] {
		case black:
			return t.Ancestors, nil
		case gray:
			return nil, errs.New(errs.CvCycle, "cv %q: cycle in parents of term %q", c.Name, t.Key)
		}
		color[t.Key] = gray
		seen := map[string]bool{}
		var out []string
		for _, pk := range t.Parents {
			p, ok := c.index[pk]
			if !ok {
				return nil, errs.New(errs.UnknownReference, "cv %q: term %q has unknown parent %q", c.Name, t.Key, pk)
			}
			if p.Alias {
				return nil, errs.New(errs.UnknownReference, "cv %q: term %q has alias %q as parent", c.Name, t.Key, pk)
			}
			if !seen[p.Key] {
				seen[p.Key] = true
				out = append(out, p.Key)
			}
			anc, err := visit(p)
			if err != nil {
				return nil, err
			}
			for _, a := range anc {
				if !seen[a] {
					seen[a] = true
					out = append(out, a)
				}
			}
		}
		t.Ancestors = out
		color[t.Key] = black
		return out, nil
	}
	for _, t := range c.Terms_ {
		if _, err := visit(t); err != nil {
			return err
		}
	}
	return nil
}
