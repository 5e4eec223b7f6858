// Package criteria assembles selection rules, constraints, scoring and
// optimization hints from normalized parameters and compiled pan filters.
package criteria

import (
	"fmt"
	"sort"

	"github.com/corpuslens/corpuslens/internal/compiler/normalize"
	"github.com/corpuslens/corpuslens/internal/compiler/panfilter"
	"github.com/corpuslens/corpuslens/internal/domain/nav/pan"
	"github.com/corpuslens/corpuslens/internal/domain/nav/tilt"
	"github.com/corpuslens/corpuslens/internal/domain/nav/zoom"
	"github.com/corpuslens/corpuslens/internal/navquery"
)

// RuleTypeConstraint names the mandatory type rule every query carries.
const RuleTypeConstraint = "type_constraint"

// Complexity thresholds.
const (
	// complexityLimit triggers the simplify_filters fallback constraint.
	complexityLimit = 7
	// parallelThreshold marks a compilation parallelization-eligible.
	parallelThreshold = 3
)

// Rule is one selection rule: a fragment plus its estimated selectivity.
type Rule struct {
	Name        string
	Dimension   pan.Dimension // empty for the type constraint
	Fragment    navquery.Fragment
	Selectivity float64
	Mandatory   bool
}

// Constraint is a hard resource bound on query execution.
type Constraint struct {
	Name     string
	Limit    int
	Fallback string
}

// Constraint names.
const (
	ConstraintTokenBudget = "token_budget"
	ConstraintResultCount = "result_count"
	ConstraintComplexity  = "complexity_limit"
)

// ScoringComponent is one weighted factor of the scoring function.
type ScoringComponent struct {
	Factor string
	Weight float64
}

// Scoring is the weighted multi-factor scoring function for a zoom level.
type Scoring struct {
	Weights    map[string]float64
	Components []ScoringComponent
	// Boost is an additive bonus for cross-domain items.
	Boost float64
}

// Optimization carries executor hints derived from the request shape.
type Optimization struct {
	IndexHints              []string
	PageSize                int
	ParallelizationEligible bool
}

// Criteria is the assembled selection plan.
type Criteria struct {
	primary      []Rule
	secondary    []Rule
	constraints  []Constraint
	scoring      Scoring
	optimization Optimization
}

// Primary returns the must-match rules, most selective first.
func (c Criteria) Primary() []Rule { return c.primary }

// Secondary returns the soft preference rules.
func (c Criteria) Secondary() []Rule { return c.secondary }

// Constraints returns the hard resource bounds.
func (c Criteria) Constraints() []Constraint { return c.constraints }

// Scoring returns the weighted scoring function.
func (c Criteria) Scoring() Scoring { return c.scoring }

// Optimization returns the executor hints.
func (c Criteria) Optimization() Optimization { return c.optimization }

// CombinedSelectivity is the product of the primary rules' selectivities.
func (c Criteria) CombinedSelectivity() float64 {
	combined := 1.0
	for _, r := range c.primary {
		combined *= r.Selectivity
	}
	return combined
}

// Config holds the tunable criteria heuristics.
type Config struct {
	// ZoomSelectivity estimates the corpus fraction each zoom level's type
	// constraint retains.
	ZoomSelectivity map[zoom.Level]float64
	// QualityFloor is the soft quality preference threshold.
	QualityFloor float64
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		ZoomSelectivity: map[zoom.Level]float64{
			zoom.Corpus:    0.0001,
			zoom.Community: 0.001,
			zoom.Unit:      0.15,
			zoom.Text:      0.3,
			zoom.Entity:    0.05,
			zoom.Micro:     0.5,
		},
		QualityFloor: 0.5,
	}
}

// Builder assembles criteria using tunable configuration.
type Builder struct {
	cfg Config
}

// NewBuilder creates a Builder. A zero config falls back to defaults.
func NewBuilder(cfg Config) *Builder {
	if cfg.ZoomSelectivity == nil {
		cfg.ZoomSelectivity = DefaultConfig().ZoomSelectivity
	}
	if cfg.QualityFloor == 0 {
		cfg.QualityFloor = DefaultConfig().QualityFloor
	}
	return &Builder{cfg: cfg}
}

// Build assembles the selection plan. Panics if the static weight table
// violates the sum-to-one invariant; that is a table defect, not a
// per-request condition.
func (b *Builder) Build(params normalize.Parameters, filters []panfilter.Result) Criteria {
	level := params.Zoom().Level
	strategy := zoom.StrategyFor(level)

	if sum := strategy.Weights.Sum(); sum < 1-1e-6 || sum > 1+1e-6 {
		panic(fmt.Sprintf("criteria: scoring weights for %q sum to %g, want 1.0", level, sum))
	}

	primary := b.primaryRules(params, filters)
	orderRules(primary)

	boost := 0.0
	for _, f := range filters {
		boost += f.ScoreBoost
	}

	return Criteria{
		primary:     primary,
		secondary:   b.secondaryRules(params),
		constraints: b.buildConstraints(params),
		scoring: Scoring{
			Weights:    strategy.Weights.Map(),
			Components: components(strategy),
			Boost:      boost,
		},
		optimization: b.optimization(params, filters),
	}
}

// primaryRules: one mandatory type constraint plus one mandatory rule per
// compiled pan filter.
func (b *Builder) primaryRules(params normalize.Parameters, filters []panfilter.Result) []Rule {
	zoomSel, ok := b.cfg.ZoomSelectivity[params.Zoom().Level]
	if !ok {
		panic(fmt.Sprintf("criteria: no zoom selectivity configured for %q", params.Zoom().Level))
	}

	rules := []Rule{{
		Name:        RuleTypeConstraint,
		Fragment:    navquery.TagMatch{Field: panfilter.FieldType, Values: params.Zoom().TargetTypes},
		Selectivity: zoomSel,
		Mandatory:   true,
	}}

	for _, f := range filters {
		rules = append(rules, Rule{
			Name:        string(f.Dimension) + "_filter",
			Dimension:   f.Dimension,
			Fragment:    f.Fragment,
			Selectivity: f.Selectivity,
			Mandatory:   true,
		})
	}
	return rules
}

// secondaryRules: tilt-specific soft preferences plus a generic quality
// preference. Never mandatory.
func (b *Builder) secondaryRules(params normalize.Parameters) []Rule {
	var rules []Rule

	switch params.Tilt().Representation {
	case tilt.Embedding:
		rules = append(rules, Rule{
			Name:        "prefer_vectorized",
			Fragment:    navquery.TagMatch{Field: "has_embedding", Values: []string{"true"}},
			Selectivity: 0.8,
		})
	case tilt.Keywords, tilt.Concept:
		rules = append(rules, Rule{
			Name:        "prefer_substantial_text",
			Fragment:    navquery.AtLeast("content_length", 100),
			Selectivity: 0.7,
		})
	case tilt.Temporal:
		rules = append(rules, Rule{
			Name:        "prefer_timestamped",
			Fragment:    navquery.AtLeast(panfilter.FieldTimestamp, 1),
			Selectivity: 0.9,
		})
	case tilt.Graph:
		rules = append(rules, Rule{
			Name:        "prefer_connected",
			Fragment:    navquery.AtLeast("degree", 1),
			Selectivity: 0.8,
		})
	}

	rules = append(rules, Rule{
		Name:        "prefer_quality",
		Fragment:    navquery.AtLeast("quality", b.cfg.QualityFloor),
		Selectivity: 0.6,
	})
	return rules
}

func (b *Builder) buildConstraints(params normalize.Parameters) []Constraint {
	contentBudget := params.Transform().TokenBudget().Content

	constraints := []Constraint{
		{Name: ConstraintTokenBudget, Limit: params.Transform().MaxTokens()},
		{Name: ConstraintResultCount, Limit: min(contentBudget/50, 1000)},
	}
	if params.Metadata().Complexity > complexityLimit {
		constraints = append(constraints, Constraint{
			Name:     ConstraintComplexity,
			Limit:    complexityLimit,
			Fallback: "simplify_filters",
		})
	}
	return constraints
}

func (b *Builder) optimization(params normalize.Parameters, filters []panfilter.Result) Optimization {
	hintSet := map[string]bool{}
	for _, f := range filters {
		switch f.Dimension {
		case pan.DimTopic, pan.DimKeywords, pan.DimConcepts:
			hintSet["text_search"] = true
		case pan.DimTemporal, pan.DimDomains:
			hintSet["temporal"] = true
		case pan.DimGeographic:
			hintSet["spatial"] = true
		}
	}
	if params.Tilt().Representation == tilt.Embedding {
		hintSet["vector"] = true
	}

	hints := make([]string, 0, len(hintSet))
	for _, h := range []string{"text_search", "temporal", "spatial", "vector"} {
		if hintSet[h] {
			hints = append(hints, h)
		}
	}

	contentBudget := params.Transform().TokenBudget().Content
	pageSize := min(contentBudget/50, zoom.StrategyFor(params.Zoom().Level).MaxResults)
	if pageSize < 1 {
		pageSize = 1
	}

	return Optimization{
		IndexHints:              hints,
		PageSize:                pageSize,
		ParallelizationEligible: params.Metadata().Complexity > parallelThreshold,
	}
}

func components(s zoom.Strategy) []ScoringComponent {
	weights := s.Weights.Map()
	comps := make([]ScoringComponent, 0, len(s.ScoringFactors))
	for _, factor := range s.ScoringFactors {
		comps = append(comps, ScoringComponent{Factor: factor, Weight: weights[factor]})
	}
	return comps
}

// orderRules sorts ascending by selectivity so the executor evaluates the
// most restrictive rule first. Ties keep the type constraint first, then
// pan filters in declaration order.
func orderRules(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Selectivity < rules[j].Selectivity
	})
}
