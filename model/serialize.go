package model

import (
	"encoding/json"

	"github.com/inab/BP-Model/cv"
	"github.com/inab/BP-Model/typreg"
)

// Node is any model entity that reports a kind tag for the tagged JSON
// wire shape used for backend projection. Model, ConceptDomain, Concept
// and Column marshal as objects with a "kind" discriminator plus their own
// fields; ConceptType, CompoundType and Collection report a kind but have
// no custom encoding, so json.Marshal renders them without "kind".
type Node interface {
	NodeKind() string
}

func (m *Model) NodeKind() string         { return "model" }
func (d *ConceptDomain) NodeKind() string { return "conceptDomain" }
func (c *Concept) NodeKind() string       { return "concept" }
func (t *ConceptType) NodeKind() string   { return "conceptType" }
func (t *CompoundType) NodeKind() string  { return "compoundType" }
func (c *Column) NodeKind() string        { return "column" }
func (c *Collection) NodeKind() string    { return "collection" }

// annotationsJSON renders an AnnotationSet in declaration order rather
// than the arbitrary order a bare map would produce.
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

// MarshalJSON renders the model as the tagged node tree described above.
func (m *Model) MarshalJSON() ([]byte, error) {
	type alias struct {
		Kind          string           `json:"kind"`
		Project       string           `json:"project"`
		SchemaVersion string           `json:"schemaVersion"`
		Digests       Digests          `json:"digests"`
		Annotations   []map[string]any `json:"annotations,omitempty"`
		Domains       []*ConceptDomain `json:"domains"`
		Patterns      []string         `json:"patterns"`
	}
	return json.Marshal(alias{
		Kind:          m.NodeKind(),
		Project:       m.Project,
		SchemaVersion: m.SchemaVersion,
		Digests:       m.Digests,
		Annotations:   annotationsJSON(m.Annotations),
		Domains:       m.ConceptDomains.Values(),
		Patterns:      m.Patterns.Names(),
	})
}

// MarshalJSON renders a concept domain and its concepts, in declaration
// order.
func (d *ConceptDomain) MarshalJSON() ([]byte, error) {
	type alias struct {
		Kind        string           `json:"kind"`
		Name        string           `json:"name"`
		FullName    string           `json:"fullName"`
		Abstract    bool             `json:"abstract"`
		Description string           `json:"description,omitempty"`
		Annotations []map[string]any `json:"annotations,omitempty"`
		Concepts    []*Concept       `json:"concepts"`
	}
	return json.Marshal(alias{
		Kind:        d.NodeKind(),
		Name:        d.Name,
		FullName:    d.FullName,
		Abstract:    d.Abstract,
		Description: d.Description,
		Annotations: annotationsJSON(d.Annotations),
		Concepts:    d.Concepts(),
	})
}

// MarshalJSON renders a concept's fully merged column-set and related
// concepts.
func (c *Concept) MarshalJSON() ([]byte, error) {
	type relJSON struct {
		TargetDomain string   `json:"targetDomain,omitempty"`
		TargetName   string   `json:"targetName"`
		KeyPrefix    string   `json:"keyPrefix,omitempty"`
		Arity        Arity    `json:"arity"`
		FKColumns    []string `json:"fkColumns,omitempty"`
	}
	rels := make([]relJSON, 0, len(c.Related))
	for _, r := range c.Related {
		rels = append(rels, relJSON{
			TargetDomain: r.TargetDomain,
			TargetName:   r.TargetName,
			KeyPrefix:    r.KeyPrefix,
			Arity:        r.Arity,
			FKColumns:    r.FKColumns,
		})
	}
	var collName string
	if c.Collection != nil {
		collName = c.Collection.Name
	}
	type alias struct {
		Kind        string           `json:"kind"`
		Name        string           `json:"name"`
		FullName    string           `json:"fullName"`
		Description string           `json:"description,omitempty"`
		Annotations []map[string]any `json:"annotations,omitempty"`
		Collection  string           `json:"collection,omitempty"`
		Columns     []*Column        `json:"columns"`
		Identifier  []string         `json:"identifier"`
		Related     []relJSON        `json:"related,omitempty"`
	}
	idcols := c.Columns.IdentifierColumns()
	idnames := make([]string, 0, len(idcols))
	for _, ic := range idcols {
		idnames = append(idnames, ic.Name)
	}
	return json.Marshal(alias{
		Kind:        c.NodeKind(),
		Name:        c.Name,
		FullName:    c.FullName,
		Description: c.Description,
		Annotations: annotationsJSON(c.Annotations),
		Collection:  collName,
		Columns:     c.Columns.Columns(),
		Identifier:  idnames,
		Related:     rels,
	})
}

// MarshalJSON renders a column together with the backend field-type
// mapping of its primitive type (§6.2).
func (c *Column) MarshalJSON() ([]byte, error) {
	ft := typreg.FieldTypeFor(c.Type.Primitive)
	type refJSON struct {
		Domain string `json:"domain,omitempty"`
		Name   string `json:"name"`
		Column string `json:"column"`
	}
	var ref *refJSON
	if c.RefConcept != nil {
		ref = &refJSON{Domain: c.RefConcept.Domain, Name: c.RefConcept.Name, Column: c.RefColumn}
	}
	type alias struct {
		Kind         string           `json:"kind"`
		Name         string           `json:"name"`
		Description  string           `json:"description,omitempty"`
		Annotations  []map[string]any `json:"annotations,omitempty"`
		Primitive    typreg.Primitive `json:"primitive"`
		Usage        Usage            `json:"usage"`
		DocumentType string           `json:"documentType"`
		IndexType    string           `json:"indexType"`
		Array        bool             `json:"array,omitempty"`
		Ref          *refJSON         `json:"ref,omitempty"`
	}
	return json.Marshal(alias{
		Kind:         c.NodeKind(),
		Name:         c.Name,
		Description:  c.Description,
		Annotations:  annotationsJSON(c.Annotations),
		Primitive:    c.Type.Primitive,
		Usage:        c.Type.Usage,
		DocumentType: ft.DocumentStore,
		IndexType:    ft.SearchIndex,
		Array:        c.Type.IsArray(),
		Ref:          ref,
	})
}
