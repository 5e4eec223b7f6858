package panfilter

// Config holds the tunable filter heuristics. The selectivity constants
// are calibration knobs, not invariants; only their [0,1] bounds are
// guaranteed.
type Config struct {
	// Topic strategy selectivities.
	TopicExactSelectivity        float64
	TopicFuzzySelectivity        float64
	TopicSemanticSelectivity     float64
	TopicHierarchicalSelectivity float64
	// EnableSemanticExpansion turns on term-expansion for topics that have
	// entries in TermExpansions.
	EnableSemanticExpansion bool
	// TermExpansions maps a topic stem to related search terms.
	TermExpansions map[string][]string
	// DomainVocabularies maps a knowledge domain to its entity-type
	// vocabulary, used by the hierarchical topic strategy.
	DomainVocabularies map[string][]string

	// Entity selectivity per identifier, scaled by resolution depth.
	EntityPerIDSelectivity float64
	RelatedSpreadFactor    float64
	TransitiveSpreadFactor float64
	TypedNarrowingFactor   float64
	// DirectResolutionLimit is the identifier count above which direct
	// resolution is forced regardless of the requested depth.
	DirectResolutionLimit int

	// Temporal knobs.
	GraceDays             int
	PeriodicThresholdDays int
	SelectivityPerYear    float64

	// Geographic knobs.
	GeoAreaDenominator   float64
	AdminUnitSelectivity float64

	// Memory-domain knobs.
	DomainSelectivity float64
	// DecayFloor is the decay factor below which faded items are excluded.
	DecayFloor float64

	// Simple dimensions.
	KeywordSelectivity   float64
	CorpuscleSelectivity float64
	ConceptSelectivity   float64
}

// DefaultConfig returns the tuned defaults. The multipliers mirror the
// historically observed corpus shape and are deliberately configurable.
func DefaultConfig() Config {
	return Config{
		TopicExactSelectivity:        0.1,
		TopicFuzzySelectivity:        0.2,
		TopicSemanticSelectivity:     0.3,
		TopicHierarchicalSelectivity: 0.4,
		EnableSemanticExpansion:      true,
		TermExpansions: map[string][]string{
			"machine-learning": {"neural networks", "deep learning", "statistical models"},
			"climate":          {"warming", "emissions", "carbon"},
			"genetics":         {"genome", "dna", "heredity"},
		},
		DomainVocabularies: map[string][]string{
			"technology": {"software", "hardware", "protocol", "algorithm"},
			"science":    {"experiment", "hypothesis", "measurement", "theory"},
			"history":    {"event", "period", "figure", "movement"},
		},

		EntityPerIDSelectivity: 0.02,
		RelatedSpreadFactor:    3,
		TransitiveSpreadFactor: 6,
		TypedNarrowingFactor:   0.75,
		DirectResolutionLimit:  16,

		GraceDays:             7,
		PeriodicThresholdDays: 730,
		SelectivityPerYear:    0.2,

		GeoAreaDenominator:   64800, // 360 x 180 degree grid
		AdminUnitSelectivity: 0.05,

		DomainSelectivity: 0.15,
		DecayFloor:        0.05,

		KeywordSelectivity:   0.25,
		CorpuscleSelectivity: 0.001,
		ConceptSelectivity:   0.05,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TopicExactSelectivity == 0 {
		c.TopicExactSelectivity = def.TopicExactSelectivity
	}
	if c.TopicFuzzySelectivity == 0 {
		c.TopicFuzzySelectivity = def.TopicFuzzySelectivity
	}
	if c.TopicSemanticSelectivity == 0 {
		c.TopicSemanticSelectivity = def.TopicSemanticSelectivity
	}
	if c.TopicHierarchicalSelectivity == 0 {
		c.TopicHierarchicalSelectivity = def.TopicHierarchicalSelectivity
	}
	if c.TermExpansions == nil {
		c.TermExpansions = def.TermExpansions
	}
	if c.DomainVocabularies == nil {
		c.DomainVocabularies = def.DomainVocabularies
	}
	if c.EntityPerIDSelectivity == 0 {
		c.EntityPerIDSelectivity = def.EntityPerIDSelectivity
	}
	if c.RelatedSpreadFactor == 0 {
		c.RelatedSpreadFactor = def.RelatedSpreadFactor
	}
	if c.TransitiveSpreadFactor == 0 {
		c.TransitiveSpreadFactor = def.TransitiveSpreadFactor
	}
	if c.TypedNarrowingFactor == 0 {
		c.TypedNarrowingFactor = def.TypedNarrowingFactor
	}
	if c.DirectResolutionLimit == 0 {
		c.DirectResolutionLimit = def.DirectResolutionLimit
	}
	if c.GraceDays == 0 {
		c.GraceDays = def.GraceDays
	}
	if c.PeriodicThresholdDays == 0 {
		c.PeriodicThresholdDays = def.PeriodicThresholdDays
	}
	if c.SelectivityPerYear == 0 {
		c.SelectivityPerYear = def.SelectivityPerYear
	}
	if c.GeoAreaDenominator == 0 {
		c.GeoAreaDenominator = def.GeoAreaDenominator
	}
	if c.AdminUnitSelectivity == 0 {
		c.AdminUnitSelectivity = def.AdminUnitSelectivity
	}
	if c.DomainSelectivity == 0 {
		c.DomainSelectivity = def.DomainSelectivity
	}
	if c.DecayFloor == 0 {
		c.DecayFloor = def.DecayFloor
	}
	if c.KeywordSelectivity == 0 {
		c.KeywordSelectivity = def.KeywordSelectivity
	}
	if c.CorpuscleSelectivity == 0 {
		c.CorpuscleSelectivity = def.CorpuscleSelectivity
	}
	if c.ConceptSelectivity == 0 {
		c.ConceptSelectivity = def.ConceptSelectivity
	}
	return c
}
