package model

import (
	"github.com/inab/BP-Model/cv"
	"github.com/inab/BP-Model/errs"
	"github.com/inab/BP-Model/typreg"
)

// buildColumn resolves a single xmlColumn into a Column against the
// registries already populated on m (patterns, CVs, compound types must
// already be registered — I5). It does not resolve sibling default
// references; buildColumnSet checks those once every column of the owning
// set has been built (I2).
func buildColumn(m *Model, x xmlColumn) (*Column, error) {
	prim := typreg.Primitive(x.Type)
	if prim != typreg.Compound {
		if _, ok := typreg.Lookup(prim); !ok {
			return nil, errs.New(errs.PatternInvalid, "column %q: unknown primitive type %q", x.Name, x.Type)
		}
	}
	usage := Usage(x.Use)
	switch usage {
	case UsageIdref, UsageRequired, UsageDesirable, UsageOptional:
	case "":
		usage = UsageOptional
	default:
		return nil, errs.New(errs.PatternInvalid, "column %q: unknown usage %q", x.Name, x.Use)
	}
	ct := &ColumnType{Primitive: prim, Usage: usage}
	if x.Sep != "" {
		ct.Separators = []rune(x.Sep)
	}
	if x.Default != "" {
		ct.Default = &Default{Literal: x.Default}
	} else if x.DefaultCol != "" {
		ct.Default = &Default{ColumnName: x.DefaultCol}
	}

	restrictions := 0
	if x.Pattern != "" {
		restrictions++
	}
	if x.CV != "" {
		restrictions++
	}
	if x.Compound != "" {
		restrictions++
	}
	if restrictions > 1 {
		return nil, errs.New(errs.PatternInvalid, "column %q: at most one of pattern, cv, compound may be set", x.Name)
	}
	if restrictions == 1 {
		r := &Restriction{}
		switch {
		case x.Pattern != "":
			p, ok := m.Patterns.Get(x.Pattern)
			if !ok {
				return nil, errs.New(errs.UnknownReference, "column %q: unknown pattern %q", x.Name, x.Pattern)
			}
			r.Pattern = p
		case x.CV != "":
			v, ok := m.CVs.Get(x.CV)
			if !ok {
				return nil, errs.New(errs.UnknownReference, "column %q: unknown controlled vocabulary %q", x.Name, x.CV)
			}
			r.CV = v
		case x.Compound != "":
			ctype, ok := m.CompoundTypes.Get(x.Compound)
			if !ok {
				return nil, errs.New(errs.UnknownReference, "column %q: unknown compound type %q", x.Name, x.Compound)
			}
			r.Compound = ctype
			ct.Primitive = typreg.Compound
		}
		ct.Restriction = r
	}
	if usage == UsageIdref && ct.IsArray() {
		// I4: an idref column cannot carry a non-zero array ladder unless
		// its referred column does too. At declaration time there is no
		// referred column yet (that only exists after C9 synthesizes FK
		// columns), so a directly declared idref column may never be an
		// array.
		return nil, errs.New(errs.PatternInvalid, "column %q: idref column cannot have an array separator ladder", x.Name)
	}

	col := &Column{
		Name:        x.Name,
		Description: x.Description,
		Annotations: cv.NewAnnotationSet(),
		Type:        ct,
	}
	return col, nil
}

// buildColumnSet builds every column of xs in order and returns them as a
// fresh ColumnSet, then validates sibling default references (I2).
func buildColumnSet(m *Model, xs []xmlColumn) (*ColumnSet, error) {
	cs := NewColumnSet()
	for _, x := range xs {
		c, err := buildColumn(m, x)
		if err != nil {
			return nil, err
		}
		if err := cs.Add(c); err != nil {
			return nil, err
		}
	}
	for _, c := range cs.Columns() {
		if c.Type.Default != nil && c.Type.Default.ColumnName != "" {
			if !cs.Has(c.Type.Default.ColumnName) {
				return nil, errs.New(errs.UnknownReference, "column %q: default references unknown sibling column %q", c.Name, c.Type.Default.ColumnName)
			}
		}
	}
	return cs, nil
}
