package tilt

// Representation is the style applied to selected corpus items.
type Representation string

// Tilt representation constants.
const (
	// Embedding represents items as similarity-ranked vectors.
	Embedding Representation = "embedding"
	Keywords  Representation = "keywords"
	Graph     Representation = "graph"
	Temporal  Representation = "temporal"
	// Concept represents items as extracted concept summaries.
	Concept Representation = "concept"
)

// Representations lists every supported tilt.
func Representations() []Representation {
	return []Representation{Embedding, Keywords, Graph, Temporal, Concept}
}

// IsValid checks if the representation is one of the supported values.
func (r Representation) IsValid() bool {
	switch r {
	case Embedding, Keywords, Graph, Temporal, Concept:
		return true
	}
	return false
}

func (r Representation) String() string { return string(r) }

// ProcessingWeight returns the relative compilation cost of a tilt,
// used as one term of the complexity score.
func (r Representation) ProcessingWeight() int {
	switch r {
	case Keywords:
		return 1
	case Temporal, Concept:
		return 2
	case Graph:
		return 3
	case Embedding:
		return 4
	}
	return 0
}

// OutputFormat returns the document shape produced by a tilt.
func (r Representation) OutputFormat() string {
	switch r {
	case Embedding:
		return "vector_ranked"
	case Keywords:
		return "keyword_summary"
	case Graph:
		return "adjacency"
	case Temporal:
		return "timeline"
	case Concept:
		return "concept_map"
	}
	return "plain"
}

// ProcessingType names how a tilt shapes results after selection.
type ProcessingType string

// Processing type constants.
const (
	ProcessSimilarity ProcessingType = "similarity"
	ProcessExtraction ProcessingType = "extraction"
	ProcessStructural ProcessingType = "structural"
	ProcessSequencing ProcessingType = "sequencing"
)

// Processing returns the processing type for a tilt.
func (r Representation) Processing() ProcessingType {
	switch r {
	case Embedding:
		return ProcessSimilarity
	case Keywords, Concept:
		return ProcessExtraction
	case Graph:
		return ProcessStructural
	case Temporal:
		return ProcessSequencing
	}
	return ProcessExtraction
}

// OrderingKey names the sort the executor applies for a tilt.
type OrderingKey string

// Ordering key constants.
const (
	// OrderRecencyDesc sorts newest first.
	OrderRecencyDesc OrderingKey = "recency_desc"
	// OrderLabelAsc sorts alphabetically by label.
	OrderLabelAsc OrderingKey = "label_asc"
	// OrderStructural sorts by graph degree, most connected first.
	OrderStructural OrderingKey = "structural"
	// OrderSimilarity defers ordering to an external similarity pass.
	OrderSimilarity OrderingKey = "similarity"
	// OrderIDAsc is the stable fallback ordering.
	OrderIDAsc OrderingKey = "id_asc"
)

// Ordering returns the ordering the executor should apply for a tilt.
func (r Representation) Ordering() OrderingKey {
	switch r {
	case Temporal:
		return OrderRecencyDesc
	case Keywords:
		return OrderLabelAsc
	case Graph:
		return OrderStructural
	case Embedding:
		return OrderSimilarity
	}
	return OrderIDAsc
}
