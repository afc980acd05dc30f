package model_test

import (
	"encoding/json"
	"testing"

	"github.com/inab/BP-Model/model"
)

func TestMarshalJSONShape(t *testing.T) {
	m := loadSample(t)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc["kind"] != "model" {
		t.Errorf("kind = %v, want model", doc["kind"])
	}
	if doc["project"] != "clinicaltrial" {
		t.Errorf("project = %v, want clinicaltrial", doc["project"])
	}
	domains, ok := doc["domains"].([]any)
	if !ok || len(domains) != 1 {
		t.Fatalf("domains = %v, want one domain", doc["domains"])
	}
	dom := domains[0].(map[string]any)
	if dom["kind"] != "conceptDomain" || dom["name"] != "clinical" {
		t.Errorf("domain = %v, want kind=conceptDomain name=clinical", dom)
	}
	concepts, ok := dom["concepts"].([]any)
	if !ok || len(concepts) != 2 {
		t.Fatalf("concepts = %v, want 2", dom["concepts"])
	}
}

func TestMarshalJSONColumnCarriesFieldTypeMapping(t *testing.T) {
	m := loadSample(t)
	dom, _ := m.ConceptDomain("clinical")
	donor, _ := dom.Concept("donor")

	data, err := json.Marshal(donor)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var doc map[string]any
	json.Unmarshal(data, &doc)
	cols := doc["columns"].([]any)
	var sexCol map[string]any
	for _, c := range cols {
		col := c.(map[string]any)
		if col["name"] == "sex" {
			sexCol = col
		}
	}
	if sexCol == nil {
		t.Fatalf("sex column not found in serialized output")
	}
	if sexCol["documentType"] != "string" || sexCol["indexType"] != "keyword" {
		t.Errorf("sex column field-type mapping = %v, want string/keyword", sexCol)
	}
	if doc["identifier"].([]any)[0] != "id" {
		t.Errorf("identifier = %v, want [id]", doc["identifier"])
	}
}

var _ model.Node = (*model.Model)(nil)
