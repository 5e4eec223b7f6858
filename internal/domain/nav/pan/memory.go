package pan

import (
	"fmt"
	"math"
	"time"
)

// DomainType is a hierarchical memory-domain tag.
type DomainType string

// Memory domain constants, highest priority first.
const (
	// DomainInstruction holds always-visible instruction memory; it never
	// decays.
	DomainInstruction DomainType = "instruction"
	DomainUser        DomainType = "user"
	DomainProject     DomainType = "project"
	DomainSession     DomainType = "session"
)

// DomainTypes lists every memory domain in priority order.
func DomainTypes() []DomainType {
	return []DomainType{DomainInstruction, DomainUser, DomainProject, DomainSession}
}

// IsValid checks if the domain type is one of the supported values.
func (d DomainType) IsValid() bool {
	switch d {
	case DomainInstruction, DomainUser, DomainProject, DomainSession:
		return true
	}
	return false
}

// FadingStrategy names how a domain's items lose relevance over time.
type FadingStrategy string

// Fading strategy constants.
const (
	// FadeNone keeps items fully visible forever.
	FadeNone FadingStrategy = "none"
	// FadeExponential decays relevance as exp(-age/halfLife).
	FadeExponential FadingStrategy = "exponential"
)

// DomainDefinition is the static behavior of one memory domain.
type DomainDefinition struct {
	Priority      int // 1 = highest
	BaseRelevance float64
	// DecayHalfLife of 0 means the domain never decays.
	DecayHalfLife time.Duration
	Fading        FadingStrategy
	InheritsFrom  []DomainType
}

var domainDefinitions = map[DomainType]DomainDefinition{
	DomainInstruction: {
		Priority:      1,
		BaseRelevance: 1.0,
		DecayHalfLife: 0,
		Fading:        FadeNone,
	},
	DomainUser: {
		Priority:      2,
		BaseRelevance: 0.9,
		DecayHalfLife: 90 * 24 * time.Hour,
		Fading:        FadeExponential,
		InheritsFrom:  []DomainType{DomainInstruction},
	},
	DomainProject: {
		Priority:      3,
		BaseRelevance: 0.8,
		DecayHalfLife: 14 * 24 * time.Hour,
		Fading:        FadeExponential,
		InheritsFrom:  []DomainType{DomainInstruction, DomainUser},
	},
	DomainSession: {
		Priority:      4,
		BaseRelevance: 0.7,
		DecayHalfLife: time.Hour,
		Fading:        FadeExponential,
		InheritsFrom:  []DomainType{DomainInstruction, DomainUser, DomainProject},
	},
}

// Definition returns the static behavior of a memory domain.
// The domain must have passed validation; an unknown domain panics.
func (d DomainType) Definition() DomainDefinition {
	def, ok := domainDefinitions[d]
	if !ok {
		panic(fmt.Sprintf("pan: unknown memory domain %q", d))
	}
	return def
}

// DecayFactor returns exp(-age/halfLife) for the domain, 1.0 when the
// domain never decays. Negative ages count as zero.
func (d DomainType) DecayFactor(age time.Duration) float64 {
	def := d.Definition()
	if def.DecayHalfLife <= 0 || def.Fading == FadeNone {
		return 1.0
	}
	if age <= 0 {
		return 1.0
	}
	return math.Exp(-float64(age) / float64(def.DecayHalfLife))
}

// MemoryDomains is a canonical memory-domain filter: the requested domains
// plus visibility tuning.
type MemoryDomains struct {
	domains            []DomainType
	relevanceThreshold float64
	includeInherited   bool
	crossDomainBoost   float64
}

// NewMemoryDomains canonicalizes a memory-domain filter. Duplicate domains
// collapse; relevanceThreshold must lie in [0,1].
func NewMemoryDomains(
	domains []DomainType, relevanceThreshold float64,
	includeInherited bool, crossDomainBoost float64,
) (MemoryDomains, error) {
	if len(domains) == 0 {
		return MemoryDomains{}, fmt.Errorf("memory-domain filter needs at least one domain")
	}
	if relevanceThreshold < 0 || relevanceThreshold > 1 {
		return MemoryDomains{}, fmt.Errorf("relevance threshold must be between 0 and 1")
	}
	if crossDomainBoost < 0 {
		return MemoryDomains{}, fmt.Errorf("cross-domain boost must not be negative")
	}
	seen := make(map[DomainType]bool, len(domains))
	deduped := make([]DomainType, 0, len(domains))
	for _, d := range domains {
		if !d.IsValid() {
			return MemoryDomains{}, fmt.Errorf("invalid memory domain: %q", d)
		}
		if !seen[d] {
			seen[d] = true
			deduped = append(deduped, d)
		}
	}
	return MemoryDomains{
		domains:            deduped,
		relevanceThreshold: relevanceThreshold,
		includeInherited:   includeInherited,
		crossDomainBoost:   crossDomainBoost,
	}, nil
}

// Domains returns the requested domains in request order, deduplicated.
func (m MemoryDomains) Domains() []DomainType { return m.domains }

// RelevanceThreshold returns the minimum item relevance to include.
func (m MemoryDomains) RelevanceThreshold() float64 { return m.relevanceThreshold }

// IncludeInherited reports whether parent-domain items are visible.
func (m MemoryDomains) IncludeInherited() bool { return m.includeInherited }

// CrossDomainBoost returns the score bonus for items tagged with two or
// more of the requested domains.
func (m MemoryDomains) CrossDomainBoost() float64 { return m.crossDomainBoost }

// Expanded returns the requested domains plus, when inheritance is on,
// every parent domain per the inheritance rules, in priority order.
func (m MemoryDomains) Expanded() []DomainType {
	if !m.includeInherited {
		return m.domains
	}
	seen := make(map[DomainType]bool)
	for _, d := range m.domains {
		seen[d] = true
		for _, parent := range d.Definition().InheritsFrom {
			seen[parent] = true
		}
	}
	var out []DomainType
	for _, d := range DomainTypes() {
		if seen[d] {
			out = append(out, d)
		}
	}
	return out
}
