// Package compiler turns raw navigation requests into executable query
// descriptors: validation, normalization, pan filter compilation,
// criteria assembly, and rendering. The whole pipeline is synchronous and
// side-effect-free; it is safe to call concurrently from many requests.
package compiler

import (
	"fmt"
	"time"

	"github.com/corpuslens/corpuslens/internal/compiler/criteria"
	"github.com/corpuslens/corpuslens/internal/compiler/normalize"
	"github.com/corpuslens/corpuslens/internal/compiler/panfilter"
	"github.com/corpuslens/corpuslens/internal/compiler/render"
	"github.com/corpuslens/corpuslens/internal/compiler/validate"
	"github.com/corpuslens/corpuslens/internal/domain/nav"
	"github.com/corpuslens/corpuslens/internal/domain/nav/tilt"
	"github.com/corpuslens/corpuslens/internal/domain/nav/zoom"
)

// Config bundles the tunable heuristics of every stage.
type Config struct {
	Filter   panfilter.Config
	Criteria criteria.Config
	Render   render.Config
}

// Output is a successful compilation: the descriptor plus the
// intermediate artifacts callers may want to inspect, and any advisory
// warnings.
type Output struct {
	Descriptor render.QueryDescriptor
	Parameters normalize.Parameters
	Criteria   criteria.Criteria
	Filters    []panfilter.Result
	Warnings   []string
}

// Compiler compiles navigation requests. Stateless apart from static
// configuration; one instance serves all requests.
type Compiler struct {
	filterer *panfilter.Filterer
	builder  *criteria.Builder
	renderer *render.Renderer
	clock    func() time.Time
}

// Option customizes a Compiler.
type Option func(*Compiler)

// WithClock replaces the wall clock, anchoring relative temporal filters
// and memory-domain fading cutoffs. Tests pass a fixed clock.
func WithClock(clock func() time.Time) Option {
	return func(c *Compiler) { c.clock = clock }
}

// New creates a Compiler.
func New(cfg Config, opts ...Option) *Compiler {
	c := &Compiler{
		filterer: panfilter.New(cfg.Filter),
		builder:  criteria.NewBuilder(cfg.Criteria),
		renderer: render.NewRenderer(cfg.Render),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile runs the full pipeline. Validation failures short-circuit:
// stages past validation never see invalid input, so any error they raise
// is a configuration defect, not a caller mistake.
func (c *Compiler) Compile(req nav.Request) (Output, error) {
	res := validate.Validate(req)
	if !res.Valid() {
		return Output{}, res.Err()
	}
	warnings := res.Warnings

	now := c.clock()

	params, err := normalize.Normalize(req, now)
	if err != nil {
		// Unreachable for validated input; surfaced loudly, never retried.
		return Output{}, fmt.Errorf("normalize validated request: %w", err)
	}

	warnings = append(warnings, advisories(params)...)

	filters := c.filterer.Apply(params.Pan(), domainHint(params), now)
	crit := c.builder.Build(params, filters)
	descriptor := c.renderer.Render(params, crit)

	return Output{
		Descriptor: descriptor,
		Parameters: params,
		Criteria:   crit,
		Filters:    filters,
		Warnings:   warnings,
	}, nil
}

// domainHint derives the knowledge-domain hint for the topic strategy
// from the topic namespace. Entity/concept extraction collaborators may
// eventually supply richer hints.
func domainHint(params normalize.Parameters) string {
	if t := params.Pan().Topic(); t != nil {
		return t.Namespace()
	}
	return ""
}

// advisories emits non-blocking compatibility warnings: a tilt that is
// off for the zoom level, and filters with little effect at corpus scope.
func advisories(params normalize.Parameters) []string {
	var warnings []string

	level := params.Zoom().Level
	rep := params.Tilt().Representation
	if !zoom.SupportsTilt(level, rep) {
		warnings = append(warnings, fmt.Sprintf(
			"tilt %q is not optimal at zoom %q; recommended tilt: %q",
			rep, level, zoom.RecommendedTilt(level)))
	}
	if level == zoom.Corpus && params.Metadata().HasFilters {
		warnings = append(warnings,
			"pan filters have limited effect at corpus zoom; results are corpus-wide summaries")
	}
	if rep == tilt.Embedding && params.Pan().Topic() == nil && len(params.Pan().Concepts()) == 0 &&
		len(params.Pan().Keywords()) == 0 {
		warnings = append(warnings,
			"embedding tilt without a topic, concept, or keyword filter has no similarity anchor; ordering falls back to the executor default")
	}

	return warnings
}
