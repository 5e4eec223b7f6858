package panfilter

import (
	"fmt"

	"github.com/corpuslens/corpuslens/internal/domain/nav/pan"
	"github.com/corpuslens/corpuslens/internal/navquery"
)

// EntityStrategy is the closed set of entity matching strategies.
type EntityStrategy int

// Entity strategies.
const (
	// EntityDirect matches the listed identifiers exactly.
	EntityDirect EntityStrategy = iota
	// EntityRelated includes the one-hop graph neighborhood.
	EntityRelated
	// EntityTransitive includes the multi-hop neighborhood.
	EntityTransitive
	// EntityTyped constrains matches to a declared entity type.
	EntityTyped
)

func (s EntityStrategy) String() string {
	switch s {
	case EntityDirect:
		return "direct"
	case EntityRelated:
		return "related"
	case EntityTransitive:
		return "transitive"
	case EntityTyped:
		return "typed"
	}
	panic(fmt.Sprintf("panfilter: unknown entity strategy %d", int(s)))
}

// Confidence returns the match confidence for a strategy.
func (s EntityStrategy) Confidence() float64 {
	switch s {
	case EntityDirect:
		return 1.0
	case EntityRelated:
		return 0.8
	case EntityTransitive:
		return 0.6
	case EntityTyped:
		return 0.9
	}
	panic(fmt.Sprintf("panfilter: unknown entity strategy %d", int(s)))
}

// selectEntityStrategy maps the requested resolution onto a strategy.
// Large identifier sets force direct matching: expanding dozens of
// neighborhoods costs more than it narrows.
func (f *Filterer) selectEntityStrategy(e pan.Entity) EntityStrategy {
	if len(e.IDs()) > f.cfg.DirectResolutionLimit {
		return EntityDirect
	}
	switch e.Resolution() {
	case pan.ResolutionRelated:
		return EntityRelated
	case pan.ResolutionTransitive:
		return EntityTransitive
	case pan.ResolutionTyped:
		return EntityTyped
	case pan.ResolutionDirect:
		return EntityDirect
	}
	return EntityDirect
}

func (f *Filterer) applyEntity(e pan.Entity) Result {
	strategy := f.selectEntityStrategy(e)

	base := f.cfg.EntityPerIDSelectivity * float64(len(e.IDs()))

	var (
		fragment    navquery.Fragment
		selectivity float64
	)

	switch strategy {
	case EntityDirect:
		fragment = navquery.TagMatch{Field: FieldURI, Values: e.IDs()}
		selectivity = base

	case EntityRelated:
		// The actual one-hop expansion set comes from the graph store; the
		// fragment matches both the entities and their recorded relations.
		fragment = navquery.Or{Parts: []navquery.Fragment{
			navquery.TagMatch{Field: FieldURI, Values: e.IDs()},
			navquery.TagMatch{Field: FieldRelated, Values: e.IDs()},
		}}
		selectivity = base * f.cfg.RelatedSpreadFactor

	case EntityTransitive:
		fragment = navquery.Or{Parts: []navquery.Fragment{
			navquery.TagMatch{Field: FieldURI, Values: e.IDs()},
			navquery.TagMatch{Field: FieldRelated, Values: e.IDs()},
		}}
		selectivity = base * f.cfg.TransitiveSpreadFactor

	case EntityTyped:
		fragment = navquery.And{Parts: []navquery.Fragment{
			navquery.TagMatch{Field: FieldURI, Values: e.IDs()},
			navquery.TagMatch{Field: FieldType, Values: []string{e.EntityType()}},
		}}
		selectivity = base * f.cfg.TypedNarrowingFactor

	default:
		panic(fmt.Sprintf("panfilter: unknown entity strategy %d", int(strategy)))
	}

	return Result{
		Dimension:        pan.DimEntity,
		StrategyUsed:     strategy.String(),
		Fragment:         fragment,
		Selectivity:      clampSelectivity(selectivity),
		ResolvedEntities: e.IDs(),
	}
}
