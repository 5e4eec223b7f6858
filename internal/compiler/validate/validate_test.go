package validate

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/corpuslens/corpuslens/internal/domain"
	"github.com/corpuslens/corpuslens/internal/domain/nav"
	pandomain "github.com/corpuslens/corpuslens/internal/domain/nav/pan"
)

func TestValidateMinimalRequest(t *testing.T) {
	res := Validate(nav.Request{Zoom: "unit", Tilt: "keywords"})
	if !res.Valid() {
		t.Fatalf("expected valid, got errors %v", res.Errors)
	}
	if err := res.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		req       nav.Request
		wantField string
	}{
		{"missing zoom", nav.Request{Tilt: "keywords"}, "zoom"},
		{"unknown zoom", nav.Request{Zoom: "planet", Tilt: "keywords"}, "zoom"},
		{"missing tilt", nav.Request{Zoom: "unit"}, "tilt"},
		{"unknown tilt", nav.Request{Zoom: "unit", Tilt: "hologram"}, "tilt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.req)
			if res.Valid() {
				t.Fatal("expected validation failure")
			}
			if res.Errors[0].Field != tt.wantField {
				t.Errorf("field = %q, want %q", res.Errors[0].Field, tt.wantField)
			}
			if !errors.Is(res.Err(), domain.ErrInvalidRequest) {
				t.Errorf("Err() should wrap domain.ErrInvalidRequest, got %v", res.Err())
			}
		})
	}
}

func TestValidatePan(t *testing.T) {
	tests := []struct {
		name      string
		pan       nav.PanInput
		wantField string
	}{
		{"empty entity element", nav.PanInput{Entity: []string{"e1", " "}}, "pan.entity"},
		{"threshold above one", nav.PanInput{DomainThreshold: ptrFloat(1.5)}, "pan.domainThreshold"},
		{"unknown resolution", nav.PanInput{Entity: []string{"e1"}, EntityResolution: "psychic"}, "pan.entityResolution"},
		{"typed without type", nav.PanInput{Entity: []string{"e1"}, EntityResolution: "typed"}, "pan.entityType"},
		{"unknown memory domain", nav.PanInput{Domains: []string{"bogus"}}, "pan.domains"},
		{"stemless topic wildcard", nav.PanInput{Topic: "*"}, "pan.topic"},
		{"namespaced stemless wildcard", nav.PanInput{Topic: "science:*"}, "pan.topic"},
		{"too many entity ids", nav.PanInput{Entity: manyIDs(pandomain.MaxEntityIDs + 1)}, "pan.entity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pan := tt.pan
			res := Validate(nav.Request{Zoom: "unit", Tilt: "keywords", Pan: &pan})
			assertFieldError(t, res, tt.wantField)
		})
	}
}

func TestValidatePanAcceptsCanonicalShapes(t *testing.T) {
	res := Validate(nav.Request{
		Zoom: "unit", Tilt: "keywords",
		Pan: &nav.PanInput{
			Topic:   "climate*",
			Domains: []string{"session", "user"},
			Entity:  manyIDs(pandomain.MaxEntityIDs),
		},
	})
	if !res.Valid() {
		t.Fatalf("expected valid, got errors %v", res.Errors)
	}
}

func manyIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("http://example.org/e%d", i)
	}
	return ids
}

func TestValidateTemporal(t *testing.T) {
	tests := []struct {
		name      string
		temporal  nav.TemporalInput
		wantField string
	}{
		{"last with start", nav.TemporalInput{Last: "30d", Start: "2026-01-01"}, "pan.temporal"},
		{"bad last", nav.TemporalInput{Last: "soonish"}, "pan.temporal.last"},
		{"missing end", nav.TemporalInput{Start: "2026-01-01"}, "pan.temporal"},
		{"bad start", nav.TemporalInput{Start: "not-a-date", End: "2026-02-01"}, "pan.temporal.start"},
		{"bad end", nav.TemporalInput{Start: "2026-01-01", End: "later"}, "pan.temporal.end"},
		{"start after end", nav.TemporalInput{Start: "2026-02-01", End: "2026-01-01"}, "pan.temporal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			temporal := tt.temporal
			res := Validate(nav.Request{Zoom: "unit", Tilt: "keywords", Pan: &nav.PanInput{Temporal: &temporal}})
			assertFieldError(t, res, tt.wantField)
		})
	}

	t.Run("valid range", func(t *testing.T) {
		res := Validate(nav.Request{Zoom: "unit", Tilt: "keywords", Pan: &nav.PanInput{
			Temporal: &nav.TemporalInput{Start: "2026-01-01", End: "2026-02-01T12:00:00Z"},
		}})
		if !res.Valid() {
			t.Errorf("expected valid, got %v", res.Errors)
		}
	})
}

func TestValidateGeographic(t *testing.T) {
	tests := []struct {
		name      string
		geo       nav.GeoInput
		wantField string
	}{
		{"no shape", nav.GeoInput{}, "pan.geographic"},
		{"two shapes", nav.GeoInput{AdminUnit: "norway", Center: &nav.CenterInput{Lat: 1, Lon: 1}, RadiusKm: 5}, "pan.geographic"},
		{"bbox wrong length", nav.GeoInput{BBox: []float64{1, 2, 3}}, "pan.geographic.bbox"},
		{"bbox inverted lon", nav.GeoInput{BBox: []float64{10, 0, 5, 1}}, "pan.geographic.bbox"},
		{"bbox lon out of range", nav.GeoInput{BBox: []float64{0, 0, 200, 10}}, "pan.geographic.bbox"},
		{"bbox lat out of range", nav.GeoInput{BBox: []float64{0, -95, 10, 10}}, "pan.geographic.bbox"},
		{"center lat out of range", nav.GeoInput{Center: &nav.CenterInput{Lat: 95, Lon: 0}, RadiusKm: 5}, "pan.geographic.center.lat"},
		{"zero radius", nav.GeoInput{Center: &nav.CenterInput{Lat: 10, Lon: 10}}, "pan.geographic.radiusKm"},
		{"degenerate polygon", nav.GeoInput{Polygon: [][2]float64{{0, 0}, {1, 1}}}, "pan.geographic.polygon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := tt.geo
			res := Validate(nav.Request{Zoom: "unit", Tilt: "keywords", Pan: &nav.PanInput{Geographic: &geo}})
			assertFieldError(t, res, tt.wantField)
		})
	}
}

func TestValidateTransform(t *testing.T) {
	t.Run("below minimum", func(t *testing.T) {
		res := Validate(nav.Request{Zoom: "unit", Tilt: "keywords",
			Transform: &nav.TransformInput{MaxTokens: 50}})
		assertFieldError(t, res, "transform.maxTokens")
	})
	t.Run("negative", func(t *testing.T) {
		res := Validate(nav.Request{Zoom: "unit", Tilt: "keywords",
			Transform: &nav.TransformInput{MaxTokens: -1}})
		assertFieldError(t, res, "transform.maxTokens")
	})
	t.Run("above soft ceiling warns", func(t *testing.T) {
		res := Validate(nav.Request{Zoom: "unit", Tilt: "keywords",
			Transform: &nav.TransformInput{MaxTokens: 64000}})
		if !res.Valid() {
			t.Fatalf("soft ceiling should not be an error, got %v", res.Errors)
		}
		if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "advisory ceiling") {
			t.Errorf("warnings = %v", res.Warnings)
		}
	})
	t.Run("unknown format", func(t *testing.T) {
		res := Validate(nav.Request{Zoom: "unit", Tilt: "keywords",
			Transform: &nav.TransformInput{Format: "xml"}})
		assertFieldError(t, res, "transform.format")
	})
	t.Run("unknown chunk strategy", func(t *testing.T) {
		res := Validate(nav.Request{Zoom: "unit", Tilt: "keywords",
			Transform: &nav.TransformInput{ChunkStrategy: "sliding"}})
		assertFieldError(t, res, "transform.chunkStrategy")
	})
}

func TestValidateWarnsOnUnknownKeys(t *testing.T) {
	res := Validate(nav.Request{Zoom: "unit", Tilt: "keywords", UnknownKeys: []string{"warp"}})
	if !res.Valid() {
		t.Fatalf("unknown keys should warn, not fail: %v", res.Errors)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], `"warp"`) {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2026-03-15")
	if err != nil {
		t.Fatalf("ParseTime: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 15 {
		t.Errorf("parsed %v", got)
	}
	if _, err := ParseTime("2026-03-15T10:30:00Z"); err != nil {
		t.Errorf("RFC3339 should parse: %v", err)
	}
	if _, err := ParseTime("15/03/2026"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestParseRelative(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"6h", 6 * time.Hour, false},
		{"30d", 30 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"", 0, true},
		{"0d", 0, true},
		{"-5d", 0, true},
		{"10y", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseRelative(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRelative(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRelative(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRelative(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func assertFieldError(t *testing.T, res Result, field string) {
	t.Helper()
	if res.Valid() {
		t.Fatalf("expected error on %s, request passed", field)
	}
	for _, e := range res.Errors {
		if e.Field == field {
			return
		}
	}
	t.Errorf("no error on field %s; got %v", field, res.Errors)
}

func ptrFloat(v float64) *float64 { return &v }
