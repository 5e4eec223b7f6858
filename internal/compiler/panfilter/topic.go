package panfilter

import (
	"fmt"

	"github.com/corpuslens/corpuslens/internal/domain/nav/pan"
	"github.com/corpuslens/corpuslens/internal/navquery"
)

// TopicStrategy is the closed set of topic matching strategies.
type TopicStrategy int

// Topic strategies, least to most expansive.
const (
	// TopicExact matches the topic stem as plain text.
	TopicExact TopicStrategy = iota
	// TopicFuzzy matches the stem plus plural/singular variants as
	// prefix patterns.
	TopicFuzzy
	// TopicSemantic adds configured term expansions for the stem.
	TopicSemantic
	// TopicHierarchical adds a detected domain's entity-type vocabulary.
	TopicHierarchical
)

func (s TopicStrategy) String() string {
	switch s {
	case TopicExact:
		return "exact"
	case TopicFuzzy:
		return "fuzzy"
	case TopicSemantic:
		return "semantic"
	case TopicHierarchical:
		return "hierarchical"
	}
	panic(fmt.Sprintf("panfilter: unknown topic strategy %d", int(s)))
}

// selectTopicStrategy picks the topic strategy from the filter shape:
// hierarchical when a domain is detected, semantic when expansion applies,
// fuzzy for wildcard patterns, exact otherwise.
func (f *Filterer) selectTopicStrategy(t pan.Topic, domainHint string) TopicStrategy {
	if domainHint != "" {
		if _, ok := f.cfg.DomainVocabularies[domainHint]; ok {
			return TopicHierarchical
		}
	}
	if f.cfg.EnableSemanticExpansion {
		if _, ok := f.cfg.TermExpansions[t.Value()]; ok {
			return TopicSemantic
		}
	}
	if t.Pattern() == pan.PatternWildcard {
		return TopicFuzzy
	}
	return TopicExact
}

func (f *Filterer) applyTopic(t pan.Topic, domainHint string) Result {
	strategy := f.selectTopicStrategy(t, domainHint)

	var (
		fragment    navquery.Fragment
		selectivity float64
		expansions  []string
	)

	switch strategy {
	case TopicExact:
		fragment = navquery.Or{Parts: []navquery.Fragment{
			navquery.TagMatch{Field: FieldTopics, Values: []string{t.Value()}},
			navquery.TextMatch{Field: FieldContent, Terms: []string{t.Value()}},
		}}
		selectivity = f.cfg.TopicExactSelectivity

	case TopicFuzzy:
		variants := t.Variants()
		expansions = variants[1:]
		fragment = navquery.TextMatch{Field: FieldContent, Terms: variants, Wildcard: true}
		selectivity = f.cfg.TopicFuzzySelectivity

	case TopicSemantic:
		expansions = f.cfg.TermExpansions[t.Value()]
		terms := append([]string{t.Value()}, expansions...)
		fragment = navquery.TextMatch{Field: FieldContent, Terms: terms}
		selectivity = f.cfg.TopicSemanticSelectivity

	case TopicHierarchical:
		vocab := f.cfg.DomainVocabularies[domainHint]
		expansions = vocab
		fragment = navquery.Or{Parts: []navquery.Fragment{
			navquery.TextMatch{Field: FieldContent, Terms: append([]string{t.Value()}, vocab...)},
			navquery.TagMatch{Field: FieldDomain, Values: []string{domainHint}},
		}}
		selectivity = f.cfg.TopicHierarchicalSelectivity

	default:
		panic(fmt.Sprintf("panfilter: unknown topic strategy %d", int(strategy)))
	}

	return Result{
		Dimension:    pan.DimTopic,
		StrategyUsed: strategy.String(),
		Fragment:     fragment,
		Selectivity:  clampSelectivity(selectivity),
		Expansions:   expansions,
	}
}
