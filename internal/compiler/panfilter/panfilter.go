// Package panfilter compiles canonical pan filters into scored query
// fragments. Each dimension picks one of a closed set of strategies based
// on the filter's shape, renders a fragment, and estimates how much of the
// corpus the fragment retains.
package panfilter

import (
	"time"

	"github.com/corpuslens/corpuslens/internal/domain/nav/pan"
	"github.com/corpuslens/corpuslens/internal/navquery"
)

// Corpus document fields the filter fragments address.
const (
	FieldURI          = "uri"
	FieldType         = "type"
	FieldRelated      = "related"
	FieldLabel        = "label"
	FieldContent      = "content"
	FieldTopics       = "topics"
	FieldDomain       = "domain"
	FieldAdminUnit    = "admin_unit"
	FieldMemoryDomain = "memory_domain"
	FieldConcepts     = "concepts"
	FieldTimestamp    = "timestamp"
	FieldRelevance    = "relevance"
	FieldLat          = "lat"
	FieldLon          = "lon"
)

// Result is the compiled outcome of one pan dimension.
type Result struct {
	Dimension        pan.Dimension
	StrategyUsed     string
	Fragment         navquery.Fragment
	Selectivity      float64
	ResolvedEntities []string
	// Expansions lists derived terms (spelling variants, domain
	// expansions). May be empty even for expanding strategies: true graph
	// expansion is a collaborator responsibility.
	Expansions []string
	// Hierarchy lists the visible memory domains after inheritance.
	Hierarchy []pan.DomainType
	// ScoreBoost is an additive score bonus the criteria builder surfaces
	// (cross-domain items).
	ScoreBoost float64
}

// Filterer compiles pan filters using tunable heuristics from Config.
type Filterer struct {
	cfg Config
}

// New creates a Filterer. Zero-value config fields fall back to defaults.
func New(cfg Config) *Filterer {
	return &Filterer{cfg: cfg.withDefaults()}
}

// Apply compiles every present dimension, in declaration order. The clock
// anchors memory-domain fading cutoffs. domainHint optionally names a
// detected knowledge domain and steers the topic strategy.
func (f *Filterer) Apply(filters pan.Filters, domainHint string, now time.Time) []Result {
	var results []Result

	if t := filters.Topic(); t != nil {
		results = append(results, f.applyTopic(*t, domainHint))
	}
	if e := filters.Entity(); e != nil {
		results = append(results, f.applyEntity(*e))
	}
	if t := filters.Temporal(); t != nil {
		results = append(results, f.applyTemporal(*t))
	}
	if g := filters.Geographic(); g != nil {
		results = append(results, f.applyGeographic(*g))
	}
	if d := filters.Domains(); d != nil {
		results = append(results, f.applyMemoryDomains(*d, now))
	}
	if kw := filters.Keywords(); len(kw) > 0 {
		results = append(results, f.applyKeywords(kw))
	}
	if c := filters.Corpuscle(); len(c) > 0 {
		results = append(results, f.applyCorpuscle(c))
	}
	if c := filters.Concepts(); len(c) > 0 {
		results = append(results, f.applyConcepts(c))
	}

	return results
}

func (f *Filterer) applyKeywords(keywords []string) Result {
	return Result{
		Dimension:    pan.DimKeywords,
		StrategyUsed: "text",
		Fragment:     navquery.TextMatch{Field: FieldContent, Terms: keywords},
		Selectivity:  clampSelectivity(f.cfg.KeywordSelectivity),
	}
}

func (f *Filterer) applyCorpuscle(ids []string) Result {
	return Result{
		Dimension:    pan.DimCorpuscle,
		StrategyUsed: "identifier",
		Fragment:     navquery.TagMatch{Field: FieldURI, Values: ids},
		Selectivity:  clampSelectivity(f.cfg.CorpuscleSelectivity * float64(len(ids))),
	}
}

func (f *Filterer) applyConcepts(concepts []string) Result {
	return Result{
		Dimension:    pan.DimConcepts,
		StrategyUsed: "concept_tag",
		Fragment:     navquery.TagMatch{Field: FieldConcepts, Values: concepts},
		Selectivity:  clampSelectivity(f.cfg.ConceptSelectivity * float64(len(concepts))),
	}
}

// CombinedSelectivity is the product of per-dimension selectivities,
// monotonically non-increasing as filters are added.
func CombinedSelectivity(results []Result) float64 {
	combined := 1.0
	for _, r := range results {
		combined *= r.Selectivity
	}
	return combined
}

func clampSelectivity(s float64) float64 {
	if s < MinSelectivity {
		return MinSelectivity
	}
	if s > 1 {
		return 1
	}
	return s
}

// MinSelectivity keeps estimates strictly positive so products never
// collapse to zero.
const MinSelectivity = 0.0001
