// Package normalize turns a validated navigation request into canonical,
// immutable parameters: zoom schema attachment, pan filter
// canonicalization, transform defaulting, complexity scoring, and the
// deterministic parameter hash.
package normalize

import (
	"fmt"
	"time"

	"github.com/corpuslens/corpuslens/internal/compiler/validate"
	"github.com/corpuslens/corpuslens/internal/domain/nav"
	"github.com/corpuslens/corpuslens/internal/domain/nav/pan"
	"github.com/corpuslens/corpuslens/internal/domain/nav/tilt"
	"github.com/corpuslens/corpuslens/internal/domain/nav/transform"
	"github.com/corpuslens/corpuslens/internal/domain/nav/zoom"
)

// MaxComplexity is the upper clamp of the complexity score.
const MaxComplexity = 10

// ZoomView is the zoom level with its schema mapping attached.
type ZoomView struct {
	Level           zoom.Level
	GranularityRank int
	TargetTypes     []string
	SecondaryTypes  []string
}

// TiltView is the tilt with its derived representation properties.
type TiltView struct {
	Representation tilt.Representation
	OutputFormat   string
	Processing     tilt.ProcessingType
}

// Metadata is the derived bookkeeping of a normalized request.
type Metadata struct {
	HasFilters    bool
	TokenBudget   int
	Complexity    int
	ParameterHash string
}

// Parameters is a fully normalized navigation request. Immutable once
// built; every compilation stage downstream consumes it by value.
type Parameters struct {
	zoom      ZoomView
	pan       pan.Filters
	tilt      TiltView
	transform transform.Options
	metadata  Metadata
}

// Zoom returns the zoom view.
func (p Parameters) Zoom() ZoomView { return p.zoom }

// Pan returns the canonical pan filters.
func (p Parameters) Pan() pan.Filters { return p.pan }

// Tilt returns the tilt view.
func (p Parameters) Tilt() TiltView { return p.tilt }

// Transform returns the transform options.
func (p Parameters) Transform() transform.Options { return p.transform }

// Metadata returns the derived metadata.
func (p Parameters) Metadata() Metadata { return p.metadata }

// Normalize canonicalizes a validated request. It is deterministic and
// total over validated input; a failure here means validation and
// normalization disagree, which is a defect, so errors are returned only
// to fail loudly, never to be handled per-request. The clock anchors
// relative temporal filters.
func Normalize(req nav.Request, now time.Time) (Parameters, error) {
	level := zoom.Level(req.Zoom)
	mapping := zoom.MappingFor(level)

	filters, err := canonicalizePan(req.Pan, now)
	if err != nil {
		return Parameters{}, fmt.Errorf("canonicalize pan: %w", err)
	}

	rep := tilt.Representation(req.Tilt)

	opts, err := canonicalizeTransform(req.Transform)
	if err != nil {
		return Parameters{}, fmt.Errorf("canonicalize transform: %w", err)
	}

	params := Parameters{
		zoom: ZoomView{
			Level:           level,
			GranularityRank: mapping.GranularityRank,
			TargetTypes:     mapping.PrimaryTypes,
			SecondaryTypes:  mapping.SecondaryTypes,
		},
		pan: filters,
		tilt: TiltView{
			Representation: rep,
			OutputFormat:   rep.OutputFormat(),
			Processing:     rep.Processing(),
		},
		transform: opts,
	}
	params.metadata = Metadata{
		HasFilters:    !filters.IsEmpty(),
		TokenBudget:   opts.MaxTokens(),
		Complexity:    complexity(mapping.GranularityRank, filters, rep),
		ParameterHash: parameterHash(params),
	}
	return params, nil
}

func canonicalizePan(in *nav.PanInput, now time.Time) (pan.Filters, error) {
	if in == nil {
		return pan.Filters{}, nil
	}

	var (
		topic      *pan.Topic
		entity     *pan.Entity
		temporal   *pan.Temporal
		geographic *pan.Geographic
		domains    *pan.MemoryDomains
	)

	if in.Topic != "" {
		t, err := pan.NewTopic(in.Topic)
		if err != nil {
			return pan.Filters{}, err
		}
		topic = &t
	}

	if len(in.Entity) > 0 {
		e, err := pan.NewEntity(in.Entity, pan.Resolution(in.EntityResolution), in.EntityType)
		if err != nil {
			return pan.Filters{}, err
		}
		entity = &e
	}

	if in.Temporal != nil {
		t, err := canonicalizeTemporal(in.Temporal, now)
		if err != nil {
			return pan.Filters{}, err
		}
		temporal = &t
	}

	if in.Geographic != nil {
		g, err := canonicalizeGeographic(in.Geographic)
		if err != nil {
			return pan.Filters{}, err
		}
		geographic = &g
	}

	if len(in.Domains) > 0 {
		threshold := 0.0
		if in.DomainThreshold != nil {
			threshold = *in.DomainThreshold
		}
		inherit := true
		if in.InheritDomains != nil {
			inherit = *in.InheritDomains
		}
		types := make([]pan.DomainType, len(in.Domains))
		for i, d := range in.Domains {
			types[i] = pan.DomainType(d)
		}
		m, err := pan.NewMemoryDomains(types, threshold, inherit, 0.2)
		if err != nil {
			return pan.Filters{}, err
		}
		domains = &m
	}

	return pan.NewFilters(
		topic, entity, temporal, geographic, domains,
		in.Keywords, in.Corpuscle, in.Concepts,
	), nil
}

func canonicalizeTemporal(in *nav.TemporalInput, now time.Time) (pan.Temporal, error) {
	if in.Last != "" {
		d, err := validate.ParseRelative(in.Last)
		if err != nil {
			return pan.Temporal{}, err
		}
		// Minute-precision anchor: equal relative requests compiled within
		// the same minute share a parameter hash and can hit the cache.
		return pan.NewRelativeTemporal(d, now.Truncate(time.Minute))
	}
	start, err := validate.ParseTime(in.Start)
	if err != nil {
		return pan.Temporal{}, err
	}
	end, err := validate.ParseTime(in.End)
	if err != nil {
		return pan.Temporal{}, err
	}
	return pan.NewTemporal(start, end)
}

func canonicalizeGeographic(in *nav.GeoInput) (pan.Geographic, error) {
	switch {
	case len(in.BBox) == 4:
		return pan.NewBoundingBox(in.BBox[0], in.BBox[1], in.BBox[2], in.BBox[3])
	case in.Center != nil:
		return pan.NewPointRadius(in.Center.Lat, in.Center.Lon, in.RadiusKm)
	case len(in.Polygon) > 0:
		return pan.NewPolygon(in.Polygon)
	case in.AdminUnit != "":
		return pan.NewAdminUnit(in.AdminUnit)
	}
	return pan.Geographic{}, fmt.Errorf("geographic filter has no shape")
}

func canonicalizeTransform(in *nav.TransformInput) (transform.Options, error) {
	input := transform.Input{}
	if in != nil {
		input = transform.Input{
			MaxTokens:       in.MaxTokens,
			Format:          transform.Format(in.Format),
			Tokenizer:       in.Tokenizer,
			IncludeMetadata: in.IncludeMetadata,
			ChunkStrategy:   transform.ChunkStrategy(in.ChunkStrategy),
		}
	}
	return transform.New(input)
}

// complexity scores a request 0..10: granularity rank plus per-filter
// weights plus the tilt processing weight, clamped. Monotonic in every
// input by construction.
func complexity(granularityRank int, filters pan.Filters, rep tilt.Representation) int {
	score := granularityRank

	if filters.Topic() != nil {
		score++
	}
	if e := filters.Entity(); e != nil {
		score += len(e.IDs())
	}
	if filters.Temporal() != nil {
		score += 2
	}
	if filters.Geographic() != nil {
		score += 3
	}
	if filters.Domains() != nil {
		score += 2
	}
	if len(filters.Keywords()) > 0 {
		score++
	}
	if len(filters.Corpuscle()) > 0 {
		score++
	}
	if len(filters.Concepts()) > 0 {
		score++
	}

	score += rep.ProcessingWeight()

	if score > MaxComplexity {
		return MaxComplexity
	}
	if score < 0 {
		return 0
	}
	return score
}
