package project

import (
	"github.com/inab/BP-Model/model"
	"github.com/inab/BP-Model/typreg"
)

// FieldMapping is one column's search-index field mapping, per the
// primitive-to-index-type table of §6.2. A compound column carries its
// inner column-set as a nested sub-document (Fields) instead of a scalar
// Type; a column with a literal default carries that default as the
// field's null-value default.
type FieldMapping struct {
	Column  string         `json:"column"`
	Type    string         `json:"type,omitempty"`
	Array   bool           `json:"array,omitempty"`
	Fields  []FieldMapping `json:"fields,omitempty"`
	Default string         `json:"default,omitempty"`
}

// IndexMapping is the full set of field mappings a concept's column-set
// projects onto a search index.
type IndexMapping struct {
	Concept string         `json:"concept"`
	Fields  []FieldMapping `json:"fields"`
}

// BuildIndexMapping derives c's search-index field mapping from its
// column-set, in column declaration order.
func BuildIndexMapping(c *model.Concept) IndexMapping {
	fields := make([]FieldMapping, 0, c.Columns.Len())
	for _, col := range c.Columns.Columns() {
		fields = append(fields, buildFieldMapping(col))
	}
	return IndexMapping{Concept: c.Qualified(), Fields: fields}
}

// buildFieldMapping derives one column's field mapping. A compound column
// (§4.9: "Compound types become nested sub-documents") recurses over its
// inner column-set instead of carrying a scalar Type; any column with a
// literal default carries that literal as the field's null-value default
// (§4.9's last sentence).
func buildFieldMapping(col *model.Column) FieldMapping {
	fm := FieldMapping{Column: col.Name, Array: col.Type.IsArray()}
	if col.Type.Default != nil && col.Type.Default.Literal != "" {
		fm.Default = col.Type.Default.Literal
	}
	if col.Type.Primitive == typreg.Compound && col.Type.Restriction != nil && col.Type.Restriction.Compound != nil {
		inner := col.Type.Restriction.Compound.Columns.Columns()
		fm.Fields = make([]FieldMapping, 0, len(inner))
		for _, ic := range inner {
			fm.Fields = append(fm.Fields, buildFieldMapping(ic))
		}
		return fm
	}
	ft := typreg.FieldTypeFor(col.Type.Primitive)
	fm.Type = ft.SearchIndex
	return fm
}

// BuildIndexMappings derives the search-index mapping for every concept
// of every domain in m, in declaration order.
func BuildIndexMappings(m *model.Model) []IndexMapping {
	var out []IndexMapping
	for _, dom := range m.ConceptDomains.Values() {
		for _, c := range dom.Concepts() {
			out = append(out, BuildIndexMapping(c))
		}
	}
	return out
}
