package pan

import (
	"fmt"
	"strings"
)

// Pattern is the topic matching mode.
type Pattern string

// Topic pattern constants.
const (
	PatternExact    Pattern = "exact"
	PatternWildcard Pattern = "wildcard"
)

// Topic is a canonical topic filter.
type Topic struct {
	value     string
	pattern   Pattern
	namespace string
}

// NewTopic canonicalizes a topic filter value. A trailing or embedded "*"
// selects wildcard matching; a "namespace:value" prefix is split off.
func NewTopic(raw string) (Topic, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Topic{}, fmt.Errorf("topic value is required")
	}

	namespace := ""
	value := raw
	if ns, rest, ok := strings.Cut(raw, ":"); ok && ns != "" && rest != "" {
		namespace = ns
		value = rest
	}

	pattern := PatternExact
	if strings.Contains(value, "*") {
		pattern = PatternWildcard
		value = strings.Trim(value, "*")
		if value == "" {
			return Topic{}, fmt.Errorf("topic wildcard needs a stem, got %q", raw)
		}
	}

	return Topic{value: value, pattern: pattern, namespace: namespace}, nil
}

// Value returns the topic stem without wildcard markers.
func (t Topic) Value() string { return t.value }

// Pattern returns the matching mode.
func (t Topic) Pattern() Pattern { return t.pattern }

// Namespace returns the optional topic namespace.
func (t Topic) Namespace() string { return t.namespace }

// Variants returns plural/singular spelling variants of the topic stem,
// the stem itself first. Used by the fuzzy matching strategy.
func (t Topic) Variants() []string {
	variants := []string{t.value}
	switch {
	case strings.HasSuffix(t.value, "ies"):
		variants = append(variants, strings.TrimSuffix(t.value, "ies")+"y")
	case strings.HasSuffix(t.value, "s"):
		variants = append(variants, strings.TrimSuffix(t.value, "s"))
	case strings.HasSuffix(t.value, "y"):
		variants = append(variants, strings.TrimSuffix(t.value, "y")+"ies")
	default:
		variants = append(variants, t.value+"s")
	}
	return variants
}
