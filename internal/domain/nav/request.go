// Package nav defines the navigation request wire schema and the result
// shape returned by corpus execution.
package nav

import (
	"encoding/json"
	"sort"
)

// Request is a raw navigation request as received from a caller. It is the
// stable contract of the compiler: zoom and tilt are required, pan and
// transform are optional. Unknown top-level keys are retained so
// validation can surface forward-compatibility warnings.
type Request struct {
	Zoom      string          `json:"zoom"`
	Tilt      string          `json:"tilt"`
	Pan       *PanInput       `json:"pan,omitempty"`
	Transform *TransformInput `json:"transform,omitempty"`

	// UnknownKeys lists unrecognized top-level keys, sorted.
	UnknownKeys []string `json:"-"`
}

// PanInput is the raw pan filter block.
type PanInput struct {
	Topic            string         `json:"topic,omitempty"`
	Entity           []string       `json:"entity,omitempty"`
	EntityResolution string         `json:"entityResolution,omitempty"`
	EntityType       string         `json:"entityType,omitempty"`
	Temporal         *TemporalInput `json:"temporal,omitempty"`
	Geographic       *GeoInput      `json:"geographic,omitempty"`
	Domains          []string       `json:"domains,omitempty"`
	DomainThreshold  *float64       `json:"domainThreshold,omitempty"`
	InheritDomains   *bool          `json:"inheritDomains,omitempty"`
	Keywords         []string       `json:"keywords,omitempty"`
	Corpuscle        []string       `json:"corpuscle,omitempty"`
	Concepts         []string       `json:"concepts,omitempty"`
}

// TemporalInput is the raw time-range filter. Start/End are ISO-8601
// timestamps or dates; Last is a relative duration such as "30d" or "6h"
// and excludes Start/End.
type TemporalInput struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Last  string `json:"last,omitempty"`
}

// GeoInput is the raw geographic filter: exactly one of BBox, Center,
// Polygon, or AdminUnit.
type GeoInput struct {
	// BBox is [minLon, minLat, maxLon, maxLat].
	BBox      []float64    `json:"bbox,omitempty"`
	Center    *CenterInput `json:"center,omitempty"`
	RadiusKm  float64      `json:"radiusKm,omitempty"`
	Polygon   [][2]float64 `json:"polygon,omitempty"`
	AdminUnit string       `json:"adminUnit,omitempty"`
}

// CenterInput is a raw center point for point-radius filtering.
type CenterInput struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TransformInput is the raw output-shaping block.
type TransformInput struct {
	MaxTokens       int    `json:"maxTokens,omitempty"`
	Format          string `json:"format,omitempty"`
	Tokenizer       string `json:"tokenizer,omitempty"`
	IncludeMetadata *bool  `json:"includeMetadata,omitempty"`
	ChunkStrategy   string `json:"chunkStrategy,omitempty"`
}

// requestAlias avoids recursing into UnmarshalJSON.
type requestAlias Request

// UnmarshalJSON decodes a request and records unknown top-level keys.
func (r *Request) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var alias requestAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*r = Request(alias)
	for key := range raw {
		switch key {
		case "zoom", "tilt", "pan", "transform":
		default:
			r.UnknownKeys = append(r.UnknownKeys, key)
		}
	}
	sort.Strings(r.UnknownKeys)
	return nil
}
