package project

import (
	"testing"

	"github.com/inab/BP-Model/model"
	"github.com/inab/BP-Model/typreg"
)

func TestBuildIndexMapping(t *testing.T) {
	cols := model.NewColumnSet()
	must(t, cols.Add(&model.Column{
		Name: "id",
		Type: &model.ColumnType{Primitive: typreg.String, Usage: model.UsageIdref},
	}))
	must(t, cols.Add(&model.Column{
		Name: "tags",
		Type: &model.ColumnType{Primitive: typreg.String, Usage: model.UsageOptional, Separators: []rune{','}},
	}))
	must(t, cols.Add(&model.Column{
		Name: "count",
		Type: &model.ColumnType{Primitive: typreg.Integer, Usage: model.UsageRequired},
	}))

	dom := model.NewConceptDomain("d")
	c := &model.Concept{Name: "widget", Columns: cols}
	must(t, dom.AddConcept(c))

	mapping := BuildIndexMapping(c)
	if mapping.Concept != "d.widget" {
		t.Errorf("Concept = %q, want %q", mapping.Concept, "d.widget")
	}
	if len(mapping.Fields) != 3 {
		t.Fatalf("Fields len = %d, want 3", len(mapping.Fields))
	}
	if mapping.Fields[0].Type != "keyword" {
		t.Errorf("id field type = %q, want keyword", mapping.Fields[0].Type)
	}
	if !mapping.Fields[1].Array {
		t.Errorf("tags field: want Array=true")
	}
	if mapping.Fields[2].Type != "long" {
		t.Errorf("count field type = %q, want long", mapping.Fields[2].Type)
	}
}

func TestBuildIndexMappingCompoundColumnIsNested(t *testing.T) {
	innerCols := model.NewColumnSet()
	must(t, innerCols.Add(&model.Column{Name: "lat", Type: &model.ColumnType{Primitive: typreg.Decimal, Usage: model.UsageRequired}}))
	must(t, innerCols.Add(&model.Column{Name: "lon", Type: &model.ColumnType{Primitive: typreg.Decimal, Usage: model.UsageRequired}}))
	compound := &model.CompoundType{Name: "geo", Columns: innerCols}

	cols := model.NewColumnSet()
	must(t, cols.Add(&model.Column{
		Name: "location",
		Type: &model.ColumnType{
			Primitive:   typreg.Compound,
			Usage:       model.UsageOptional,
			Restriction: &model.Restriction{Compound: compound},
		},
	}))
	dom := model.NewConceptDomain("d")
	c := &model.Concept{Name: "site", Columns: cols}
	must(t, dom.AddConcept(c))

	mapping := BuildIndexMapping(c)
	if len(mapping.Fields) != 1 {
		t.Fatalf("Fields len = %d, want 1", len(mapping.Fields))
	}
	loc := mapping.Fields[0]
	if loc.Type != "" {
		t.Errorf("compound field Type = %q, want empty (nested instead)", loc.Type)
	}
	if len(loc.Fields) != 2 || loc.Fields[0].Column != "lat" || loc.Fields[1].Column != "lon" {
		t.Errorf("compound field Fields = %+v, want nested lat/lon", loc.Fields)
	}
}

func TestBuildIndexMappingLiteralDefaultBecomesNullValueDefault(t *testing.T) {
	cols := model.NewColumnSet()
	must(t, cols.Add(&model.Column{
		Name: "status",
		Type: &model.ColumnType{
			Primitive: typreg.String,
			Usage:     model.UsageOptional,
			Default:   &model.Default{Literal: "unknown"},
		},
	}))
	dom := model.NewConceptDomain("d")
	c := &model.Concept{Name: "widget", Columns: cols}
	must(t, dom.AddConcept(c))

	mapping := BuildIndexMapping(c)
	if mapping.Fields[0].Default != "unknown" {
		t.Errorf("Default = %q, want unknown", mapping.Fields[0].Default)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
