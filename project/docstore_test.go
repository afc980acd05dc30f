package project

import (
	"context"
	"testing"

	"github.com/inab/BP-Model/cv"
	"github.com/inab/BP-Model/model"
)

type fakeSink struct {
	collections map[string]*model.Collection
	docs        map[string][]Document
}

func newFakeSink() *fakeSink {
	return &fakeSink{collections: map[string]*model.Collection{}, docs: map[string][]Document{}}
}

func (f *fakeSink) EnsureCollection(ctx context.Context, coll *model.Collection) error {
	f.collections[coll.Name] = coll
	return nil
}

func (f *fakeSink) Put(ctx context.Context, collection string, docs []Document) error {
	f.docs[collection] = append(f.docs[collection], docs...)
	return nil
}

func TestEnsureCollectionsAddsStandingIndicesToMetadata(t *testing.T) {
	m := model.New()
	meta := &model.Collection{Name: "metadata", Path: "metadata"}
	other := &model.Collection{Name: "samples", Path: "samples"}
	must(t, m.Collections.Add("metadata", meta))
	must(t, m.Collections.Add("samples", other))
	m.MetadataCollection = meta

	sink := newFakeSink()
	if err := EnsureCollections(context.Background(), sink, m); err != nil {
		t.Fatalf("EnsureCollections: %v", err)
	}

	got := sink.collections["metadata"]
	if len(got.Indices) != len(MetadataIndices()) {
		t.Fatalf("metadata indices = %d, want %d", len(got.Indices), len(MetadataIndices()))
	}
	if len(sink.collections["samples"].Indices) != 0 {
		t.Errorf("non-metadata collection got standing indices: %+v", sink.collections["samples"].Indices)
	}
	// The original Collection must not be mutated in place.
	if len(meta.Indices) != 0 {
		t.Errorf("original metadata collection was mutated: %+v", meta.Indices)
	}
}

func buildDocstoreModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New()
	m.Project = "clinicaltrial"

	cols := model.NewColumnSet()
	must(t, cols.Add(&model.Column{Name: "id", Type: &model.ColumnType{Primitive: "string", Usage: model.UsageIdref}}))
	dom := model.NewConceptDomain("clinical")
	donor := &model.Concept{Name: "donor", Columns: cols}
	must(t, dom.AddConcept(donor))
	must(t, m.ConceptDomains.Add("clinical", dom))
	return m
}

func TestModelDocumentCarriesModelHeader(t *testing.T) {
	m := buildDocstoreModel(t)
	doc, err := ModelDocument(m)
	must(t, err)
	if doc["_id"] != "clinicaltrial" || doc["kind"] != "model" {
		t.Errorf("model document = %v, want _id=clinicaltrial kind=model", doc)
	}
}

func TestDomainDocumentsOnePerDomain(t *testing.T) {
	m := buildDocstoreModel(t)
	docs, err := DomainDocuments(m)
	must(t, err)
	if len(docs) != 1 || docs[0]["_id"] != "clinical" || docs[0]["kind"] != "conceptDomain" {
		t.Errorf("domain documents = %v, want one doc _id=clinical kind=conceptDomain", docs)
	}
}

func TestConceptDocumentsOnePerConcept(t *testing.T) {
	m := buildDocstoreModel(t)
	docs, err := ConceptDocuments(m)
	must(t, err)
	if len(docs) != 1 || docs[0]["_id"] != "clinical.donor" || docs[0]["kind"] != "concept" {
		t.Errorf("concept documents = %v, want one doc _id=clinical.donor kind=concept", docs)
	}
}

func TestMetadataDocumentsCoversHeaderDomainsConceptsAndCVs(t *testing.T) {
	m := buildDocstoreModel(t)
	c1 := cv.NewCV("sex")
	must(t, c1.AddTerm(&cv.Term{Key: "m"}))
	must(t, m.CVs.Add(c1))

	docs, err := MetadataDocuments(m)
	must(t, err)
	// one model header + one domain + one concept + one CV
	if len(docs) != 4 {
		t.Fatalf("MetadataDocuments = %d docs, want 4", len(docs))
	}
	if docs[0]["kind"] != "model" || docs[1]["kind"] != "conceptDomain" || docs[2]["kind"] != "concept" {
		t.Errorf("MetadataDocuments order = %v, want model, conceptDomain, concept, ...", docs)
	}
	if docs[3]["_id"] != "sex" {
		t.Errorf("last document = %v, want the sex CV", docs[3])
	}
}

func TestCVDocumentsCoversEveryVocabulary(t *testing.T) {
	m := model.New()
	c1 := cv.NewCV("sex")
	c1.AddTerm(&cv.Term{Key: "m"})
	c1.AddTerm(&cv.Term{Key: "f"})
	must(t, m.CVs.Add(c1))

	docs := CVDocuments(m)
	if len(docs) != 1 {
		t.Fatalf("docs = %d, want 1", len(docs))
	}
	if docs[0]["_id"] != "sex" {
		t.Errorf("doc _id = %v, want sex", docs[0]["_id"])
	}
}
