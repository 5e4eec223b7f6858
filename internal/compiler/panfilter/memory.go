package panfilter

import (
	"math"
	"time"

	"github.com/corpuslens/corpuslens/internal/domain/nav/pan"
	"github.com/corpuslens/corpuslens/internal/navquery"
)

// applyMemoryDomains compiles the hierarchical memory-domain filter. It
// stacks four sub-filters:
//
//   - hierarchy: the requested domains plus inherited parents are visible
//   - fading: items in decaying domains are excluded once their decay
//     factor exp(-age/halfLife) falls below the configured floor
//   - relevance: items below the relevance threshold are excluded
//   - cross-domain boost: items tagged with two or more requested domains
//     get an additive score bonus (surfaced, not filtered)
//
// Domains that never decay (instruction) have no fading cutoff and stay
// visible regardless of age.
func (f *Filterer) applyMemoryDomains(m pan.MemoryDomains, now time.Time) Result {
	visible := m.Expanded()

	domainParts := make([]navquery.Fragment, 0, len(visible))
	for _, d := range visible {
		domainParts = append(domainParts, f.domainClause(d, now))
	}

	parts := []navquery.Fragment{navquery.Or{Parts: domainParts}}
	if m.RelevanceThreshold() > 0 {
		parts = append(parts, navquery.AtLeast(FieldRelevance, m.RelevanceThreshold()))
	}

	selectivity := f.cfg.DomainSelectivity * float64(len(visible))
	if m.RelevanceThreshold() > 0 {
		selectivity *= 1 - m.RelevanceThreshold()
	}

	boost := 0.0
	if len(m.Domains()) >= 2 {
		boost = m.CrossDomainBoost()
	}

	return Result{
		Dimension:    pan.DimDomains,
		StrategyUsed: "hierarchical",
		Fragment:     navquery.And{Parts: parts},
		Selectivity:  clampSelectivity(selectivity),
		Hierarchy:    visible,
		ScoreBoost:   boost,
	}
}

// domainClause matches one domain's items, with a freshness cutoff for
// decaying domains.
func (f *Filterer) domainClause(d pan.DomainType, now time.Time) navquery.Fragment {
	tag := navquery.TagMatch{Field: FieldMemoryDomain, Values: []string{string(d)}}

	maxAge := FadingCutoff(d, f.cfg.DecayFloor)
	if maxAge == 0 {
		return tag
	}

	cutoff := now.Add(-maxAge)
	return navquery.And{Parts: []navquery.Fragment{
		tag,
		navquery.AtLeast(FieldTimestamp, float64(cutoff.Unix())),
	}}
}

// FadingCutoff returns the oldest age at which a domain's items still
// clear the decay floor, 0 for domains that never decay. Derived from
// exp(-age/halfLife) >= floor.
func FadingCutoff(d pan.DomainType, floor float64) time.Duration {
	def := d.Definition()
	if def.DecayHalfLife <= 0 || def.Fading == pan.FadeNone {
		return 0
	}
	if floor <= 0 || floor >= 1 {
		return 0
	}
	return time.Duration(float64(def.DecayHalfLife) * math.Log(1/floor))
}
