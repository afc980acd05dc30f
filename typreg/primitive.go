// Package typreg holds the primitive scalar types (C3) and the named regex
// pattern registry (C4) the model core builds on. The null-value sentinel
// vocabulary is not kept here; it is a cv.NullVocabulary bound on the
// Model.
//
// The primitive-type table is process-wide, constructed once and shared
// by read-only reference, with no runtime mutation, matching the
// "process-wide item-type table" design note. A Patterns registry is
// per-model: the loader fills it through Add, and each Pattern is
// immutable once added.
package typreg

import "regexp"

// Primitive is the internal tag for a built-in scalar type.
type Primitive string

const (
	String    Primitive = "string"
	Text      Primitive = "text"
	Integer   Primitive = "integer"
	Decimal   Primitive = "decimal"
	Boolean   Primitive = "boolean"
	Timestamp Primitive = "timestamp"
	Duration  Primitive = "duration"
	Compound  Primitive = "compound"
)

// PrimitiveType describes a built-in scalar with an optional validator
// pattern. A nil Check means any lexical value is accepted.
type PrimitiveType struct {
	Tag   Primitive
	Check *regexp.Regexp
}

// Valid reports whether v is a lexically valid value for this primitive.
func (p PrimitiveType) Valid(v string) bool {
	if p.Check == nil {
		return true
	}
	return p.Check.MatchString(v)
}

var registry = map[Primitive]PrimitiveType{
	String:    {Tag: String},
	Text:      {Tag: Text},
	Integer:   {Tag: Integer, Check: regexp.MustCompile(`^[+-]?[0-9]+$`)},
	Decimal:   {Tag: Decimal, Check: regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)},
	Boolean:   {Tag: Boolean, Check: regexp.MustCompile(`^(true|false)$`)},
	Timestamp: {Tag: Timestamp, Check: regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?)?$`)},
	Duration:  {Tag: Duration, Check: regexp.MustCompile(`^-?P(\d+Y)?(\d+M)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`)},
	Compound:  {Tag: Compound},
}

// Lookup returns the built-in primitive type for tag, or false if tag is
// not one of the fixed built-ins.
func Lookup(tag Primitive) (PrimitiveType, bool) {
	p, ok := registry[tag]
	return p, ok
}

// MustLookup is like Lookup but panics on an unknown tag; only meant for
// use with compile-time constants.
func MustLookup(tag Primitive) PrimitiveType {
	p, ok := registry[tag]
	if !ok {
		panic("typreg: unknown primitive " + string(tag))
	}
	return p
}

// FieldType is the target-backend field-type name a primitive maps to,
// per the primitive-to-field-type table.
type FieldType struct {
	DocumentStore string
	SearchIndex   string
}

var fieldTypes = map[Primitive]FieldType{
	String:    {"string", "keyword"},
	Text:      {"string", "text"},
	Integer:   {"int64", "long"},
	Decimal:   {"float64", "double"},
	Boolean:   {"bool", "boolean"},
	Timestamp: {"date", "date"},
	Duration:  {"string", "keyword"},
	Compound:  {"subdocument", "nested"},
}

// FieldTypeFor returns the backend field-type mapping for a primitive.
func FieldTypeFor(tag Primitive) FieldType { return fieldTypes[tag] }
