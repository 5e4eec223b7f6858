// Package pan holds the canonical filter value objects a navigation view
// can be narrowed by: topic, entity, temporal, geographic, concept and
// memory-domain filters.
package pan

// Dimension names a pan filter axis.
type Dimension string

// Filter dimension constants, in declaration (priority) order.
const (
	DimTopic      Dimension = "topic"
	DimEntity     Dimension = "entity"
	DimTemporal   Dimension = "temporal"
	DimGeographic Dimension = "geographic"
	DimDomains    Dimension = "domains"
	DimKeywords   Dimension = "keywords"
	DimCorpuscle  Dimension = "corpuscle"
	DimConcepts   Dimension = "concepts"
)

// Dimensions lists every recognized pan dimension in priority order.
func Dimensions() []Dimension {
	return []Dimension{
		DimTopic, DimEntity, DimTemporal, DimGeographic,
		DimDomains, DimKeywords, DimCorpuscle, DimConcepts,
	}
}

// Filters is the canonical set of pan filters present on a request.
// Absent dimensions are nil; they are omitted, never defaulted to empty.
type Filters struct {
	topic      *Topic
	entity     *Entity
	temporal   *Temporal
	geographic *Geographic
	domains    *MemoryDomains
	keywords   []string
	corpuscle  []string
	concepts   []string
}

// NewFilters assembles a canonical filter set. Nil members are absent.
func NewFilters(
	topic *Topic,
	entity *Entity,
	temporal *Temporal,
	geographic *Geographic,
	domains *MemoryDomains,
	keywords, corpuscle, concepts []string,
) Filters {
	return Filters{
		topic:      topic,
		entity:     entity,
		temporal:   temporal,
		geographic: geographic,
		domains:    domains,
		keywords:   keywords,
		corpuscle:  corpuscle,
		concepts:   concepts,
	}
}

// Topic returns the topic filter, nil if absent.
func (f Filters) Topic() *Topic { return f.topic }

// Entity returns the entity filter, nil if absent.
func (f Filters) Entity() *Entity { return f.entity }

// Temporal returns the temporal filter, nil if absent.
func (f Filters) Temporal() *Temporal { return f.temporal }

// Geographic returns the geographic filter, nil if absent.
func (f Filters) Geographic() *Geographic { return f.geographic }

// Domains returns the memory-domain filter, nil if absent.
func (f Filters) Domains() *MemoryDomains { return f.domains }

// Keywords returns the keyword filter values (empty if absent).
func (f Filters) Keywords() []string { return f.keywords }

// Corpuscle returns the corpuscle identifier filter (empty if absent).
func (f Filters) Corpuscle() []string { return f.corpuscle }

// Concepts returns the concept filter values (empty if absent).
func (f Filters) Concepts() []string { return f.concepts }

// IsEmpty reports whether no filter is present on any dimension.
func (f Filters) IsEmpty() bool { return f.Count() == 0 }

// Count returns the number of dimensions that carry a filter.
func (f Filters) Count() int {
	n := 0
	if f.topic != nil {
		n++
	}
	if f.entity != nil {
		n++
	}
	if f.temporal != nil {
		n++
	}
	if f.geographic != nil {
		n++
	}
	if f.domains != nil {
		n++
	}
	if len(f.keywords) > 0 {
		n++
	}
	if len(f.corpuscle) > 0 {
		n++
	}
	if len(f.concepts) > 0 {
		n++
	}
	return n
}

// Present lists the dimensions that carry a filter, in priority order.
func (f Filters) Present() []Dimension {
	var dims []Dimension
	if f.topic != nil {
		dims = append(dims, DimTopic)
	}
	if f.entity != nil {
		dims = append(dims, DimEntity)
	}
	if f.temporal != nil {
		dims = append(dims, DimTemporal)
	}
	if f.geographic != nil {
		dims = append(dims, DimGeographic)
	}
	if f.domains != nil {
		dims = append(dims, DimDomains)
	}
	if len(f.keywords) > 0 {
		dims = append(dims, DimKeywords)
	}
	if len(f.corpuscle) > 0 {
		dims = append(dims, DimCorpuscle)
	}
	if len(f.concepts) > 0 {
		dims = append(dims, DimConcepts)
	}
	return dims
}
