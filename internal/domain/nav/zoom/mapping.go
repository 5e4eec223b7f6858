package zoom

import (
	"fmt"

	"github.com/corpuslens/corpuslens/internal/domain/nav/tilt"
)

// Mapping describes the corpus schema slice a zoom level targets.
type Mapping struct {
	PrimaryTypes       []string
	SecondaryTypes     []string
	GranularityRank    int // 1 = coarsest (corpus), 6 = finest (micro)
	Scope              string
	TypicalResultCount int
}

// Strategy describes how items are selected at a zoom level.
type Strategy struct {
	Algorithm           string
	ScoringFactors      []string
	Weights             Weights
	RequiresAggregation bool
	MaxResults          int
	SortKey             string
}

// Weights is the per-factor scoring weighting for a zoom level.
// The five factors must sum to 1.
type Weights struct {
	Relevance    float64
	Connectivity float64
	Recency      float64
	Completeness float64
	Diversity    float64
}

// Sum returns the total of all factor weights.
func (w Weights) Sum() float64 {
	return w.Relevance + w.Connectivity + w.Recency + w.Completeness + w.Diversity
}

// Map returns the weights keyed by factor name.
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		"relevance":    w.Relevance,
		"connectivity": w.Connectivity,
		"recency":      w.Recency,
		"completeness": w.Completeness,
		"diversity":    w.Diversity,
	}
}

var mappings = map[Level]Mapping{
	Corpus: {
		PrimaryTypes:       []string{"corpus"},
		SecondaryTypes:     []string{"community"},
		GranularityRank:    1,
		Scope:              "global",
		TypicalResultCount: 1,
	},
	Community: {
		PrimaryTypes:       []string{"community"},
		SecondaryTypes:     []string{"entity"},
		GranularityRank:    2,
		Scope:              "thematic",
		TypicalResultCount: 10,
	},
	Unit: {
		PrimaryTypes:       []string{"semantic_unit"},
		SecondaryTypes:     []string{"text_element"},
		GranularityRank:    3,
		Scope:              "contextual",
		TypicalResultCount: 25,
	},
	Text: {
		PrimaryTypes:       []string{"text_element"},
		SecondaryTypes:     []string{"semantic_unit"},
		GranularityRank:    4,
		Scope:              "textual",
		TypicalResultCount: 50,
	},
	Entity: {
		PrimaryTypes:       []string{"entity"},
		SecondaryTypes:     []string{"semantic_unit"},
		GranularityRank:    5,
		Scope:              "focused",
		TypicalResultCount: 25,
	},
	Micro: {
		PrimaryTypes:       []string{"micro_unit"},
		SecondaryTypes:     []string{"entity"},
		GranularityRank:    6,
		Scope:              "atomic",
		TypicalResultCount: 100,
	},
}

var strategies = map[Level]Strategy{
	Corpus: {
		Algorithm:           "corpus_overview",
		ScoringFactors:      []string{"completeness", "diversity"},
		Weights:             Weights{Relevance: 0.2, Connectivity: 0.1, Recency: 0.1, Completeness: 0.3, Diversity: 0.3},
		RequiresAggregation: true,
		MaxResults:          5,
		SortKey:             "coverage",
	},
	Community: {
		Algorithm:           "community_aggregation",
		ScoringFactors:      []string{"relevance", "connectivity", "diversity"},
		Weights:             Weights{Relevance: 0.25, Connectivity: 0.25, Recency: 0.1, Completeness: 0.2, Diversity: 0.2},
		RequiresAggregation: true,
		MaxResults:          20,
		SortKey:             "size",
	},
	Unit: {
		Algorithm:           "semantic_grouping",
		ScoringFactors:      []string{"relevance", "recency", "completeness"},
		Weights:             Weights{Relevance: 0.4, Connectivity: 0.1, Recency: 0.2, Completeness: 0.2, Diversity: 0.1},
		RequiresAggregation: false,
		MaxResults:          50,
		SortKey:             "relevance",
	},
	Text: {
		Algorithm:           "full_text_retrieval",
		ScoringFactors:      []string{"relevance", "recency", "completeness"},
		Weights:             Weights{Relevance: 0.5, Connectivity: 0.05, Recency: 0.15, Completeness: 0.2, Diversity: 0.1},
		RequiresAggregation: false,
		MaxResults:          100,
		SortKey:             "relevance",
	},
	Entity: {
		Algorithm:           "entity_retrieval",
		ScoringFactors:      []string{"relevance", "connectivity"},
		Weights:             Weights{Relevance: 0.4, Connectivity: 0.3, Recency: 0.1, Completeness: 0.1, Diversity: 0.1},
		RequiresAggregation: false,
		MaxResults:          50,
		SortKey:             "degree",
	},
	Micro: {
		Algorithm:           "attribute_scan",
		ScoringFactors:      []string{"relevance", "recency"},
		Weights:             Weights{Relevance: 0.5, Connectivity: 0.1, Recency: 0.2, Completeness: 0.1, Diversity: 0.1},
		RequiresAggregation: false,
		MaxResults:          200,
		SortKey:             "relevance",
	},
}

const weightEpsilon = 1e-6

func init() {
	// The weight tables are static configuration: an imbalance is a defect
	// in this file, not a runtime condition.
	for level, s := range strategies {
		if sum := s.Weights.Sum(); sum < 1-weightEpsilon || sum > 1+weightEpsilon {
			panic(fmt.Sprintf("zoom: scoring weights for %q sum to %g, want 1.0", level, sum))
		}
	}
	for _, level := range Levels() {
		if _, ok := mappings[level]; !ok {
			panic(fmt.Sprintf("zoom: no mapping for level %q", level))
		}
		if _, ok := strategies[level]; !ok {
			panic(fmt.Sprintf("zoom: no strategy for level %q", level))
		}
	}
}

// MappingFor returns the schema mapping for a zoom level.
// The level must have passed validation; an unknown level panics.
func MappingFor(level Level) Mapping {
	m, ok := mappings[level]
	if !ok {
		panic(fmt.Sprintf("zoom: unknown level %q reached the mapper", level))
	}
	return m
}

// StrategyFor returns the selection strategy for a zoom level.
// The level must have passed validation; an unknown level panics.
func StrategyFor(level Level) Strategy {
	s, ok := strategies[level]
	if !ok {
		panic(fmt.Sprintf("zoom: unknown level %q reached the mapper", level))
	}
	return s
}

// recommendedTilts maps each zoom level to the tilt that works best at it.
var recommendedTilts = map[Level]tilt.Representation{
	Corpus:    tilt.Keywords,
	Community: tilt.Graph,
	Unit:      tilt.Embedding,
	Text:      tilt.Keywords,
	Entity:    tilt.Embedding,
	Micro:     tilt.Keywords,
}

// offTilts lists zoom/tilt pairs that compile but rarely produce useful
// views. They are surfaced as advisory warnings, never overridden.
var offTilts = map[Level][]tilt.Representation{
	Corpus: {tilt.Embedding, tilt.Temporal},
	Text:   {tilt.Graph},
	Micro:  {tilt.Graph},
}

// SupportsTilt reports whether a tilt is considered a good fit at a zoom
// level. A false return is advisory only.
func SupportsTilt(level Level, t tilt.Representation) bool {
	for _, off := range offTilts[level] {
		if off == t {
			return false
		}
	}
	return true
}

// RecommendedTilt returns the advisory best tilt for a zoom level.
func RecommendedTilt(level Level) tilt.Representation {
	return recommendedTilts[level]
}
