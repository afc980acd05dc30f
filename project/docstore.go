// Package project turns a resolved model into backend-neutral projections:
// document-store collections with their standing indices, search-index
// field mappings, and oversize-CV fragmentation. It defines Sink as the
// single abstraction a concrete backend implements; the package itself
// never talks to a real database.
package project

import (
	"context"
	"encoding/json"

	"github.com/inab/BP-Model/errs"
	"github.com/inab/BP-Model/model"
)

// Document is one backend-neutral record ready to be written to a
// document-store collection.
type Document map[string]any

// Sink is the write target a concrete backend adapter implements. It is
// deliberately narrow: create the standing collections/indices once, then
// accept documents into them. Backend client libraries live behind this
// interface, never in front of it.
type Sink interface {
	// EnsureCollection creates coll if it does not already exist, with
	// every index coll declares.
	EnsureCollection(ctx context.Context, coll *model.Collection) error
	// Put writes docs into the named collection.
	Put(ctx context.Context, collection string, docs []Document) error
}

// termIndexName, parentsIndexName and ancestorsIndexName are the three
// standing indices every metadata collection carries (§6.2): one on each
// CV term's own key, one on its direct parents, and one on its full
// ancestor closure, so a query can find every term reachable from a given
// key without walking the closure at query time.
const (
	termIndexName      = "term"
	parentsIndexName   = "parents"
	ancestorsIndexName = "ancestors"
)

// MetadataIndices returns the standing indices a model's metadata
// collection must carry regardless of what is declared in the model
// document itself.
func MetadataIndices() []*model.Index {
	return []*model.Index{
		{Unique: true, Columns: []model.IndexColumn{{Name: termIndexName, Dir: 1}}},
		{Columns: []model.IndexColumn{{Name: parentsIndexName, Dir: 1}}},
		{Columns: []model.IndexColumn{{Name: ancestorsIndexName, Dir: 1}}},
	}
}

// EnsureCollections creates every declared collection plus the metadata
// collection with its standing indices merged in.
func EnsureCollections(ctx context.Context, sink Sink, m *model.Model) error {
	for _, coll := range m.Collections.Values() {
		target := coll
		if m.MetadataCollection != nil && coll.Name == m.MetadataCollection.Name {
			target = withStandingIndices(coll)
		}
		if err := sink.EnsureCollection(ctx, target); err != nil {
			return err
		}
	}
	return nil
}

func withStandingIndices(coll *model.Collection) *model.Collection {
	merged := &model.Collection{Name: coll.Name, Path: coll.Path}
	merged.Indices = append(merged.Indices, coll.Indices...)
	merged.Indices = append(merged.Indices, MetadataIndices()...)
	return merged
}

// CVDocuments renders every vocabulary of m into metadata-collection
// documents, one per vocabulary (or one per segment, for CVs the
// fragmenter has split — see fragment.go).
func CVDocuments(m *model.Model) []Document {
	var docs []Document
	for _, v := range m.CVs.All() {
		for _, seg := range FragmentCV(v) {
			docs = append(docs, seg.Document())
		}
	}
	return docs
}

// nodeDocument marshals a model.Node through its own tagged JSON encoding
// and stamps the result with an _id, so the metadata collection stores the
// exact same node shape a caller would see from json.Marshal(m).
func nodeDocument(id string, n model.Node) (Document, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, errs.Wrap(errs.IOError, err, "marshal %s document", n.NodeKind())
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.IOError, err, "unmarshal %s document", n.NodeKind())
	}
	doc["_id"] = id
	return doc, nil
}

// ModelDocument renders the model header (§4.9: "one for the model
// header") as the single document identified by the project name.
func ModelDocument(m *model.Model) (Document, error) {
	return nodeDocument(m.Project, m)
}

// DomainDocuments renders one document per concept-domain, in declaration
// order, identified by the domain's own name.
func DomainDocuments(m *model.Model) ([]Document, error) {
	docs := make([]Document, 0, m.ConceptDomains.Len())
	for _, dom := range m.ConceptDomains.Values() {
		doc, err := nodeDocument(dom.Name, dom)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ConceptDocuments renders one document per concept of every domain, in
// declaration order, identified by the concept's qualified name.
func ConceptDocuments(m *model.Model) ([]Document, error) {
	var docs []Document
	for _, dom := range m.ConceptDomains.Values() {
		for _, c := range dom.Concepts() {
			doc, err := nodeDocument(c.Qualified(), c)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// MetadataDocuments renders every document the metadata collection must
// carry (§4.9): one for the model header, one per concept-domain, one per
// concept, one per CV (the last already fragmented where oversize).
func MetadataDocuments(m *model.Model) ([]Document, error) {
	var docs []Document
	modelDoc, err := ModelDocument(m)
	if err != nil {
		return nil, err
	}
	docs = append(docs, modelDoc)

	domainDocs, err := DomainDocuments(m)
	if err != nil {
		return nil, err
	}
	docs = append(docs, domainDocs...)

	conceptDocs, err := ConceptDocuments(m)
	if err != nil {
		return nil, err
	}
	docs = append(docs, conceptDocs...)

	docs = append(docs, CVDocuments(m)...)
	return docs, nil
}
