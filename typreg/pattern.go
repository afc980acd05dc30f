package typreg

import (
	"regexp"

	"github.com/inab/BP-Model/errs"
)

// Pattern is a compiled, named regex, declared once at load and never
// mutated afterward.
type Pattern struct {
	Name string
	Re   *regexp.Regexp
}

// Match reports whether v satisfies the pattern.
func (p *Pattern) Match(v string) bool { return p.Re.MatchString(v) }

// Patterns is a name-keyed, insertion-ordered registry of named patterns.
// Keys must be unique within the registry (invariant I1).
type Patterns struct {
	order []string
	byKey map[string]*Pattern
}

// NewPatterns returns an empty pattern registry.
func NewPatterns() *Patterns {
	return &Patterns{byKey: make(map[string]*Pattern)}
}

// Add compiles and registers a named pattern. It returns errs.DuplicateName
// if the name is already registered, or errs.PatternInvalid if expr does
// not compile.
func (p *Patterns) Add(name, expr string) (*Pattern, error) {
	if _, ok := p.byKey[name]; ok {
		return nil, errs.New(errs.DuplicateName, "pattern %q already registered", name)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errs.Wrap(errs.PatternInvalid, err, "pattern %q: invalid regex %q", name, expr)
	}
	pt := &Pattern{Name: name, Re: re}
	p.byKey[name] = pt
	p.order = append(p.order, name)
	return pt, nil
}

// Get returns the pattern for name, or false if unknown.
func (p *Patterns) Get(name string) (*Pattern, bool) {
	pt, ok := p.byKey[name]
	return pt, ok
}

// Names returns registered pattern names in declaration order.
func (p *Patterns) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}
