package db

import (
	"fmt"
	"strings"
)

// IndexBuilder is a fluent builder for FT index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an FT index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Prefix adds key prefixes to the index.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

// Numeric adds a NUMERIC field to the index.
func (b *IndexBuilder) Numeric(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: IndexFieldNumeric})
	return b
}

// Tag adds a TAG field to the index.
func (b *IndexBuilder) Tag(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: IndexFieldTag})
	return b
}

// Text adds a TEXT field to the index.
func (b *IndexBuilder) Text(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: IndexFieldText})
	return b
}

// VectorHNSW adds a VECTOR field with the HNSW algorithm.
func (b *IndexBuilder) VectorHNSW(name string, dim int, distance DistanceMetric, m, efConstruct int) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name:              name,
		Type:              IndexFieldVector,
		VectorDim:         dim,
		VectorDistance:    distance,
		VectorM:           m,
		VectorEFConstruct: efConstruct,
	})
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if b.def.Name == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(b.def.Fields) == 0 {
		return nil, fmt.Errorf("index %q needs at least one field", b.def.Name)
	}
	for _, f := range b.def.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("index %q has a field without a name", b.def.Name)
		}
		if f.Type == IndexFieldVector && f.VectorDim <= 0 {
			return nil, fmt.Errorf("vector field %q needs a positive dimension", f.Name)
		}
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// CorpusIndex is the navigation corpus index schema: typed graph items
// (entities, semantic units, text elements, communities) with topical,
// temporal, spatial, memory-domain and embedding fields.
func CorpusIndex(name, keyPrefix string, embeddingDim, hnswM, hnswEFConstruct int) *IndexDefinition {
	return NewIndex(name).
		Prefix(keyPrefix).
		Tag("uri").
		Tag("type").
		Tag("related").
		Tag("topics").
		Tag("domain").
		Tag("admin_unit").
		Tag("memory_domain").
		Tag("concepts").
		Tag("has_embedding").
		Text("label").
		Text("content").
		Numeric("timestamp").
		Numeric("relevance").
		Numeric("quality").
		Numeric("degree").
		Numeric("content_length").
		Numeric("lat").
		Numeric("lon").
		VectorHNSW("embedding", embeddingDim, DistanceCosine, hnswM, hnswEFConstruct).
		MustBuild()
}

// String returns a debug representation resembling the FT.CREATE command.
func (idx *IndexDefinition) String() string {
	parts := []string{"FT.CREATE", idx.Name, "ON", "HASH"}
	if len(idx.Prefixes) > 0 {
		parts = append(parts, "PREFIX")
		parts = append(parts, idx.Prefixes...)
	}
	parts = append(parts, "SCHEMA")
	for i := range idx.Fields {
		f := &idx.Fields[i]
		parts = append(parts, f.Name)
		switch f.Type {
		case IndexFieldTag:
			parts = append(parts, "TAG")
		case IndexFieldNumeric:
			parts = append(parts, "NUMERIC")
		case IndexFieldText:
			parts = append(parts, "TEXT")
		case IndexFieldVector:
			parts = append(parts, "VECTOR", "HNSW")
		}
	}
	return strings.Join(parts, " ")
}
