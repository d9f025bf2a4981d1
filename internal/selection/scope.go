package selection

import "github.com/kotoba-lab/questcore/internal/catalog"

// Mode is the answer format a session asks for.
type Mode string

const (
	ModeSelect Mode = "select"
	ModeInput  Mode = "input"
	ModeSort   Mode = "sort"
	ModeTest   Mode = "test" // mixes every question type
)

// AllModes returns every mode in menu order.
func AllModes() []Mode {
	return []Mode{ModeSelect, ModeInput, ModeSort, ModeTest}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeSelect, ModeInput, ModeSort, ModeTest:
		return true
	}
	return false
}

// QuestionType returns the question type the mode filters on. The second
// result is false for modes that span all types.
func (m Mode) QuestionType() (catalog.QuestionType, bool) {
	switch m {
	case ModeSelect:
		return catalog.TypeSelect, true
	case ModeInput:
		return catalog.TypeInput, true
	case ModeSort:
		return catalog.TypeSort, true
	}
	return "", false
}

// Scope is what a session draws from: a catalog category or one of the
// pseudo-categories below.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeReview   Scope = "review"
	ScopeWeakness Scope = "weakness"
)

// CategoryScope returns the scope of a single catalog category.
func CategoryScope(c catalog.Category) Scope { return Scope(c) }

// Pseudo reports whether s is a pseudo-category rather than a real one.
func (s Scope) Pseudo() bool {
	switch s {
	case ScopeAll, ScopeReview, ScopeWeakness:
		return true
	}
	return false
}

// Rankable reports whether a session in this scope counts toward category
// missions. Review and weakness sessions replay old questions and do not.
func (s Scope) Rankable() bool {
	return s != ScopeReview && s != ScopeWeakness
}

// Category returns the catalog category of a literal scope.
func (s Scope) Category() (catalog.Category, bool) {
	if s.Pseudo() {
		return "", false
	}
	c := catalog.Category(s)
	return c, c.IsKnown()
}
