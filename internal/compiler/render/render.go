// Package render turns selection criteria and compiled pan filters into
// the final query descriptor consumed by the corpus executor.
package render

import (
	"math"

	"github.com/corpuslens/corpuslens/internal/compiler/criteria"
	"github.com/corpuslens/corpuslens/internal/compiler/normalize"
	"github.com/corpuslens/corpuslens/internal/domain/nav/tilt"
	"github.com/corpuslens/corpuslens/internal/domain/nav/zoom"
	"github.com/corpuslens/corpuslens/internal/navquery"
)

// tokensPerResult is the budget cost assumed per returned item.
const tokensPerResult = 50

// maxResultLimit caps the computed result limit.
const maxResultLimit = 1000

// Kind tells the executor how to run a descriptor.
type Kind string

// Descriptor kinds.
const (
	// KindSelect is a plain filtered selection.
	KindSelect Kind = "select"
	// KindAggregate groups results for community/corpus summarization.
	KindAggregate Kind = "aggregate"
	// KindSimilarity wraps the selection in a KNN clause; the executor
	// binds the query vector as the $BLOB parameter.
	KindSimilarity Kind = "similarity"
)

// Aggregation describes the group-level summarization of an aggregate
// descriptor.
type Aggregation struct {
	GroupBy  string
	Reducers []string
}

// Metadata is the advisory cost estimate attached to a descriptor.
type Metadata struct {
	Complexity           int
	EstimatedResultCount int
	EstimatedSelectivity float64
}

// QueryDescriptor is the compiler's final artifact: a renderable query
// plus ordering, limit, cache key, and scoring metadata. Constructed once
// per request, never mutated, safe to cache by CacheKey.
type QueryDescriptor struct {
	RenderedQuery string
	Kind          Kind
	ZoomLevel     zoom.Level
	OrderingKey   tilt.OrderingKey
	ResultLimit   int
	ReturnFields  []string
	Aggregation   *Aggregation
	Scoring       criteria.Scoring
	CacheKey      string
	Metadata      Metadata
}

// template is the zoom-specific shape of the rendered query.
type template struct {
	returnFields []string
	groupBy      string
	reducers     []string
}

var zoomTemplates = map[zoom.Level]template{
	zoom.Corpus: {
		returnFields: []string{"uri", "type", "label"},
		groupBy:      "@domain",
		reducers:     []string{"COUNT", "AVG @quality"},
	},
	zoom.Community: {
		returnFields: []string{"uri", "type", "label", "content"},
		groupBy:      "@community",
		reducers:     []string{"COUNT", "AVG @relevance"},
	},
	zoom.Unit: {
		returnFields: []string{"uri", "type", "label", "content", "timestamp"},
	},
	zoom.Text: {
		returnFields: []string{"uri", "type", "label", "content"},
	},
	zoom.Entity: {
		returnFields: []string{"uri", "type", "label", "content", "degree"},
	},
	zoom.Micro: {
		returnFields: []string{"uri", "type", "label", "content", "timestamp"},
	},
}

// Config holds the tunable rendering estimates.
type Config struct {
	// CorpusSizeEstimate scales selectivity into an item-count estimate.
	CorpusSizeEstimate int
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{CorpusSizeEstimate: 1_000_000}
}

// Renderer renders query descriptors.
type Renderer struct {
	cfg Config
}

// NewRenderer creates a Renderer. A zero config falls back to defaults.
func NewRenderer(cfg Config) *Renderer {
	if cfg.CorpusSizeEstimate == 0 {
		cfg.CorpusSizeEstimate = DefaultConfig().CorpusSizeEstimate
	}
	return &Renderer{cfg: cfg}
}

// Render assembles the query descriptor from the selection plan. The
// variant is chosen by zoom (aggregation) and tilt (similarity); plain
// selects otherwise.
func (r *Renderer) Render(params normalize.Parameters, crit criteria.Criteria) QueryDescriptor {
	level := params.Zoom().Level
	tpl, ok := zoomTemplates[level]
	if !ok {
		panic("render: no template for zoom level " + level.String())
	}

	base := baseFragment(crit)
	limit := resultLimit(params)

	kind := KindSelect
	rendered := navquery.Render(base)
	var agg *Aggregation

	switch {
	case params.Tilt().Representation == tilt.Embedding:
		kind = KindSimilarity
		rendered = navquery.WrapKNN(base, limit)
	case zoom.StrategyFor(level).RequiresAggregation:
		kind = KindAggregate
		agg = &Aggregation{GroupBy: tpl.groupBy, Reducers: tpl.reducers}
	}

	selectivity := crit.CombinedSelectivity()

	return QueryDescriptor{
		RenderedQuery: rendered,
		Kind:          kind,
		ZoomLevel:     level,
		OrderingKey:   params.Tilt().Representation.Ordering(),
		ResultLimit:   limit,
		ReturnFields:  tpl.returnFields,
		Aggregation:   agg,
		Scoring:       crit.Scoring(),
		CacheKey:      params.Metadata().ParameterHash,
		Metadata: Metadata{
			Complexity:           params.Metadata().Complexity,
			EstimatedResultCount: r.estimateCount(selectivity, limit),
			EstimatedSelectivity: selectivity,
		},
	}
}

// baseFragment conjoins the primary rules, already ordered most selective
// first by the criteria builder.
func baseFragment(crit criteria.Criteria) navquery.Fragment {
	rules := crit.Primary()
	parts := make([]navquery.Fragment, 0, len(rules))
	for _, rule := range rules {
		parts = append(parts, rule.Fragment)
	}
	return navquery.And{Parts: parts}
}

// resultLimit derives the item budget from the content token budget.
func resultLimit(params normalize.Parameters) int {
	limit := params.Transform().TokenBudget().Content / tokensPerResult
	if limit > maxResultLimit {
		return maxResultLimit
	}
	if limit < 1 {
		return 1
	}
	return limit
}

func (r *Renderer) estimateCount(selectivity float64, limit int) int {
	estimate := int(math.Round(selectivity * float64(r.cfg.CorpusSizeEstimate)))
	if estimate > limit {
		return limit
	}
	if estimate < 0 {
		return 0
	}
	return estimate
}
