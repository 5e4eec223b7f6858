// Package navquery defines a small typed AST for corpus query fragments
// and the single renderer that turns them into the FT.SEARCH dialect.
// Values always pass through the escaping replacers; callers never
// concatenate raw input into a query string.
package navquery

// Fragment is one node of a filter clause tree.
type Fragment interface {
	isFragment()
}

// MatchAll matches every document. Renders as "*".
type MatchAll struct{}

func (MatchAll) isFragment() {}

// TagMatch matches a tag field against one or more values (OR semantics
// within the value set).
type TagMatch struct {
	Field  string
	Values []string
}

func (TagMatch) isFragment() {}

// TextMatch matches a full-text field against terms. Wildcard appends a
// prefix-match star to each term.
type TextMatch struct {
	Field    string
	Terms    []string
	Wildcard bool
}

func (TextMatch) isFragment() {}

// NumericRange matches a numeric field against [Min, Max]. Unbounded ends
// use MinInf/MaxInf; MinExcl/MaxExcl make a bound exclusive.
type NumericRange struct {
	Field   string
	Min     float64
	Max     float64
	MinInf  bool
	MaxInf  bool
	MinExcl bool
	MaxExcl bool
}

func (NumericRange) isFragment() {}

// And requires every part to match. An empty And renders as MatchAll.
type And struct {
	Parts []Fragment
}

func (And) isFragment() {}

// Or requires at least one part to match.
type Or struct {
	Parts []Fragment
}

func (Or) isFragment() {}

// Not inverts a fragment.
type Not struct {
	Inner Fragment
}

func (Not) isFragment() {}

// Bounded builds an inclusive numeric range.
func Bounded(field string, minVal, maxVal float64) NumericRange {
	return NumericRange{Field: field, Min: minVal, Max: maxVal}
}

// AtLeast builds a lower-bounded numeric range.
func AtLeast(field string, minVal float64) NumericRange {
	return NumericRange{Field: field, Min: minVal, MaxInf: true}
}

// AtMost builds an upper-bounded numeric range.
func AtMost(field string, maxVal float64) NumericRange {
	return NumericRange{Field: field, Max: maxVal, MinInf: true}
}
