package model

import "encoding/xml"

// The following types mirror the bundled meta-schema's document shape and
// are decoded verbatim with encoding/xml before resolution begins.
// Declaration order within each repeated element is preserved by
// encoding/xml (siblings decode into a slice in document order), which is
// what the resolvers rely on.

type xmlModel struct {
	XMLName       xml.Name          `xml:"model"`
	Project       string            `xml:"project,attr"`
	SchemaVersion string            `xml:"schemaVersion,attr"`
	Annotations   []xmlAnnotation   `xml:"annotations>annotation"`
	MetadataRef   *xmlRef           `xml:"metadataCollection"`
	Patterns      []xmlPattern      `xml:"patterns>pattern"`
	CVs           []xmlCV           `xml:"vocabularies>cv"`
	MetaCVs       []xmlMetaCV       `xml:"vocabularies>metaCV"`
	CompoundTypes []xmlCompoundType `xml:"compoundTypes>compoundType"`
	ConceptTypes  []xmlConceptType  `xml:"conceptTypes>conceptType"`
	Domains       []xmlDomain       `xml:"domains>domain"`
	Filenames     []xmlFilePattern  `xml:"filenamePatterns>filenamePattern"`
	Collections   []xmlCollection   `xml:"collections>collection"`
}

type xmlRef struct {
	Ref string `xml:"ref,attr"`
}

type xmlAnnotation struct {
	Name string `xml:"name,attr"`
	Text string `xml:",chardata"`
}

type xmlPattern struct {
	Name  string `xml:"name,attr"`
	Regex string `xml:"regex,attr"`
}

type xmlTerm struct {
	Key     string `xml:"key,attr"`
	Alt     string `xml:"alt,attr"`
	Name    string `xml:"name,attr"`
	Parents string `xml:"parents,attr"`
	Alias   bool   `xml:"alias,attr"`
}

type xmlCV struct {
	Name        string    `xml:"name,attr"`
	Description string    `xml:"description,attr"`
	File        string    `xml:"file,attr"`
	Terms       []xmlTerm `xml:"term"`
	URIs        []string  `xml:"uri"`
}

type xmlMetaCV struct {
	Name string   `xml:"name,attr"`
	Refs []xmlRef `xml:"ref"`
}

type xmlColumn struct {
	Name        string `xml:"name,attr"`
	Description string `xml:"description,attr"`
	Type        string `xml:"type,attr"`
	Use         string `xml:"use,attr"`
	Default     string `xml:"default,attr"`
	DefaultCol  string `xml:"defaultCol,attr"`
	Pattern     string `xml:"pattern,attr"`
	CV          string `xml:"cv,attr"`
	Compound    string `xml:"compound,attr"`
	Sep         string `xml:"sep,attr"`
}

type xmlCompoundType struct {
	Name    string      `xml:"name,attr"`
	Columns []xmlColumn `xml:"column"`
}

type xmlConceptType struct {
	Name    string      `xml:"name,attr"`
	Parent  string      `xml:"parent,attr"`
	Columns []xmlColumn `xml:"column"`
}

type xmlRelatedConcept struct {
	Domain    string `xml:"domain,attr"`
	Concept   string `xml:"concept,attr"`
	KeyPrefix string `xml:"keyPrefix,attr"`
	Arity     string `xml:"arity,attr"`
}

type xmlConcept struct {
	Name         string              `xml:"name,attr"`
	FullName     string              `xml:"fullName,attr"`
	Description  string              `xml:"description,attr"`
	BasedOn      string              `xml:"basedOn,attr"`
	Extends      string              `xml:"extends,attr"`
	IdentifiedBy string              `xml:"identifiedBy,attr"`
	IDPrefix     string              `xml:"idPrefix,attr"`
	Collection   string              `xml:"collection,attr"`
	Columns      []xmlColumn         `xml:"column"`
	Related      []xmlRelatedConcept `xml:"relatedConcept"`
}

type xmlDomain struct {
	Name        string       `xml:"name,attr"`
	FullName    string       `xml:"fullName,attr"`
	Abstract    bool         `xml:"abstract,attr"`
	Description string       `xml:"description,attr"`
	Concepts    []xmlConcept `xml:"concept"`
}

type xmlCapture struct {
	Name   string `xml:"name,attr"`
	Type   string `xml:"type,attr"`
	Column string `xml:"column,attr"`
}

type xmlFilePattern struct {
	Name     string       `xml:"name,attr"`
	Regex    string       `xml:"regex,attr"`
	Domain   string       `xml:"domain,attr"`
	Concept  string       `xml:"concept,attr"`
	Captures []xmlCapture `xml:"capture"`
}

type xmlIndexColumn struct {
	Name string `xml:"name,attr"`
	Dir  string `xml:"dir,attr"`
}

type xmlIndex struct {
	Unique  bool             `xml:"unique,attr"`
	Columns []xmlIndexColumn `xml:"column"`
}

type xmlCollection struct {
	Name    string     `xml:"name,attr"`
	Path    string     `xml:"path,attr"`
	Indices []xmlIndex `xml:"index"`
}
