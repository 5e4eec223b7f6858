package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_Simple(t *testing.T) {
	idx := NewIndex("test-idx").
		Prefix("doc:").
		Tag("category").
		Numeric("price").
		MustBuild()

	if idx.Name != "test-idx" {
		t.Errorf("name = %q, want test-idx", idx.Name)
	}
	if len(idx.Prefixes) != 1 || idx.Prefixes[0] != "doc:" {
		t.Errorf("prefixes = %v", idx.Prefixes)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Name != "category" || idx.Fields[0].Type != IndexFieldTag {
		t.Errorf("field[0] = %+v, want category TAG", idx.Fields[0])
	}
	if idx.Fields[1].Name != "price" || idx.Fields[1].Type != IndexFieldNumeric {
		t.Errorf("field[1] = %+v, want price NUMERIC", idx.Fields[1])
	}
}

func TestIndexBuilder_VectorHNSW(t *testing.T) {
	idx := NewIndex("hnsw-idx").
		Prefix("doc:").
		VectorHNSW("vec", 768, DistanceL2, 32, 400).
		MustBuild()

	if len(idx.Fields) != 1 {
		t.Fatalf("fields count = %d, want 1", len(idx.Fields))
	}
	f := idx.Fields[0]
	if f.Type != IndexFieldVector {
		t.Errorf("type = %v, want vector", f.Type)
	}
	if f.VectorDim != 768 {
		t.Errorf("dim = %d, want 768", f.VectorDim)
	}
	if f.VectorDistance != DistanceL2 {
		t.Errorf("distance = %q, want L2", f.VectorDistance)
	}
	if f.VectorM != 32 || f.VectorEFConstruct != 400 {
		t.Errorf("hnsw params = %d/%d, want 32/400", f.VectorM, f.VectorEFConstruct)
	}
}

func TestIndexBuilder_Validation(t *testing.T) {
	tests := []struct {
		name    string
		builder *IndexBuilder
	}{
		{"empty name", NewIndex("").Tag("t")},
		{"no fields", NewIndex("idx")},
		{"unnamed field", NewIndex("idx").Tag("")},
		{"zero-dim vector", NewIndex("idx").VectorHNSW("vec", 0, DistanceCosine, 32, 400)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.builder.Build(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestMustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid definition")
		}
	}()
	NewIndex("").MustBuild()
}

func TestCorpusIndex(t *testing.T) {
	idx := CorpusIndex("corpuslens:corpus:idx", "corpuslens:item:", 1536, 32, 400)

	if idx.Name != "corpuslens:corpus:idx" {
		t.Errorf("name = %q", idx.Name)
	}
	if len(idx.Prefixes) != 1 || idx.Prefixes[0] != "corpuslens:item:" {
		t.Errorf("prefixes = %v", idx.Prefixes)
	}

	byName := map[string]IndexField{}
	for _, f := range idx.Fields {
		byName[f.Name] = f
	}
	for _, tag := range []string{"uri", "type", "topics", "domain", "admin_unit", "memory_domain", "concepts"} {
		if f, ok := byName[tag]; !ok || f.Type != IndexFieldTag {
			t.Errorf("field %q = %+v, want TAG", tag, f)
		}
	}
	for _, num := range []string{"timestamp", "relevance", "quality", "degree", "lat", "lon"} {
		if f, ok := byName[num]; !ok || f.Type != IndexFieldNumeric {
			t.Errorf("field %q = %+v, want NUMERIC", num, f)
		}
	}
	for _, txt := range []string{"label", "content"} {
		if f, ok := byName[txt]; !ok || f.Type != IndexFieldText {
			t.Errorf("field %q = %+v, want TEXT", txt, f)
		}
	}
	emb, ok := byName["embedding"]
	if !ok || emb.Type != IndexFieldVector {
		t.Fatalf("embedding field = %+v", emb)
	}
	if emb.VectorDim != 1536 || emb.VectorDistance != DistanceCosine {
		t.Errorf("embedding = %+v", emb)
	}
}

func TestIndexDefinitionString(t *testing.T) {
	idx := NewIndex("idx").Prefix("doc:").Tag("type").Numeric("ts").MustBuild()
	s := idx.String()
	for _, want := range []string{"FT.CREATE idx", "PREFIX doc:", "SCHEMA", "type TAG", "ts NUMERIC"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
