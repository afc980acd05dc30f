package cv

import "github.com/inab/BP-Model/errs"

// Set is a name-keyed, insertion-ordered registry of vocabularies (both
// simple CVs and meta-CVs share the namespace). Keys must be unique
// (invariant I1); CVs may reference earlier-declared CVs by name, so
// registration order matters for resolution.
type Set struct {
	order []string
	byKey map[string]Vocabulary
}

// NewSet returns an empty CV registry.
func NewSet() *Set { return &Set{byKey: map[string]Vocabulary{}} }

// Add registers v under its ID. Returns errs.DuplicateName on collision.
func (s *Set) Add(v Vocabulary) error {
	name := v.ID()
	if _, ok := s.byKey[name]; ok {
		return errs.New(errs.DuplicateName, "controlled vocabulary %q already registered", name)
	}
	s.byKey[name] = v
	s.order = append(s.order, name)
	return nil
}

// Get returns the vocabulary registered under name.
func (s *Set) Get(name string) (Vocabulary, bool) {
	v, ok := s.byKey[name]
	return v, ok
}

// Names returns registered vocabulary names in declaration order.
func (s *Set) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// All returns every registered vocabulary in declaration order.
func (s *Set) All() []Vocabulary {
	out := make([]Vocabulary, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.byKey[n])
	}
	return out
}

// NullVocabulary wraps a CV designated as the Model's nullCV: a
// non-empty controlled vocabulary of valid null sentinels (invariant I7).
type NullVocabulary struct {
	*CV
}

// IsValidNull reports whether v is one of the null CV's term keys.
func (n NullVocabulary) IsValidNull(v string) bool {
	if n.CV == nil {
		return false
	}
	return n.CV.Validate(v)
}
