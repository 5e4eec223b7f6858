// Package validate checks raw navigation requests against the request
// schema. It only accepts or rejects; canonicalization happens in the
// normalize package.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/corpuslens/corpuslens/internal/domain"
	"github.com/corpuslens/corpuslens/internal/domain/nav"
	"github.com/corpuslens/corpuslens/internal/domain/nav/pan"
	"github.com/corpuslens/corpuslens/internal/domain/nav/tilt"
	"github.com/corpuslens/corpuslens/internal/domain/nav/transform"
	"github.com/corpuslens/corpuslens/internal/domain/nav/zoom"
)

// FieldError is a single validation failure with the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// Result is the outcome of validating a request.
type Result struct {
	Errors   []FieldError `json:"errors,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Valid reports whether the request passed validation.
func (r Result) Valid() bool { return len(r.Errors) == 0 }

// Err returns an error wrapping domain.ErrInvalidRequest listing every
// field failure, nil if the request is valid.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.String()
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, strings.Join(msgs, "; "))
}

func (r *Result) addError(field, format string, args ...any) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (r *Result) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks a raw request against the schema. Pure function; it
// performs no normalization and no I/O.
func Validate(req nav.Request) Result {
	var res Result

	validateZoom(&res, req.Zoom)
	validateTilt(&res, req.Tilt)
	if req.Pan != nil {
		validatePan(&res, req.Pan)
	}
	if req.Transform != nil {
		validateTransform(&res, req.Transform)
	}
	for _, key := range req.UnknownKeys {
		res.addWarning("unknown top-level key %q ignored", key)
	}

	return res
}

func validateZoom(res *Result, level string) {
	if level == "" {
		res.addError("zoom", "zoom is required; allowed values: %s", joinLevels())
		return
	}
	if !zoom.Level(level).IsValid() {
		res.addError("zoom", "unknown zoom level %q; allowed values: %s", level, joinLevels())
	}
}

func validateTilt(res *Result, rep string) {
	if rep == "" {
		res.addError("tilt", "tilt is required; allowed values: %s", joinTilts())
		return
	}
	if !tilt.Representation(rep).IsValid() {
		res.addError("tilt", "unknown tilt %q; allowed values: %s", rep, joinTilts())
	}
}

func validatePan(res *Result, in *nav.PanInput) {
	validateStringList(res, "pan.entity", in.Entity)
	validateStringList(res, "pan.domains", in.Domains)
	validateStringList(res, "pan.keywords", in.Keywords)
	validateStringList(res, "pan.corpuscle", in.Corpuscle)
	validateStringList(res, "pan.concepts", in.Concepts)

	if in.Topic != "" {
		if _, err := pan.NewTopic(in.Topic); err != nil {
			res.addError("pan.topic", "%v", err)
		}
	}
	if len(in.Entity) > pan.MaxEntityIDs {
		res.addError("pan.entity", "too many identifiers; at most %d, got %d",
			pan.MaxEntityIDs, len(in.Entity))
	}
	for _, d := range in.Domains {
		if strings.TrimSpace(d) == "" {
			continue
		}
		if !pan.DomainType(d).IsValid() {
			res.addError("pan.domains", "unknown memory domain %q; allowed values: %s",
				d, joinDomains())
		}
	}

	if in.Temporal != nil {
		validateTemporal(res, in.Temporal)
	}
	if in.Geographic != nil {
		validateGeographic(res, in.Geographic)
	}
	if in.DomainThreshold != nil {
		if t := *in.DomainThreshold; t < 0 || t > 1 {
			res.addError("pan.domainThreshold", "must be between 0 and 1, got %g", t)
		}
	}
	if in.EntityResolution != "" && !validResolution(in.EntityResolution) {
		res.addError("pan.entityResolution",
			"unknown resolution %q; allowed values: direct, related, transitive, typed",
			in.EntityResolution)
	}
	if in.EntityResolution == "typed" && in.EntityType == "" {
		res.addError("pan.entityType", "required when entityResolution is typed")
	}
}

func validResolution(r string) bool {
	switch r {
	case "direct", "related", "transitive", "typed":
		return true
	}
	return false
}

func validateStringList(res *Result, field string, values []string) {
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			res.addError(field, "element %d must be a non-empty string", i)
		}
	}
}

func validateTemporal(res *Result, t *nav.TemporalInput) {
	if t.Last != "" {
		if t.Start != "" || t.End != "" {
			res.addError("pan.temporal", "\"last\" excludes explicit start/end")
			return
		}
		if _, err := ParseRelative(t.Last); err != nil {
			res.addError("pan.temporal.last", "%v", err)
		}
		return
	}
	if t.Start == "" || t.End == "" {
		res.addError("pan.temporal", "both start and end are required")
		return
	}
	start, errStart := ParseTime(t.Start)
	if errStart != nil {
		res.addError("pan.temporal.start", "cannot parse %q as an ISO-8601 date", t.Start)
	}
	end, errEnd := ParseTime(t.End)
	if errEnd != nil {
		res.addError("pan.temporal.end", "cannot parse %q as an ISO-8601 date", t.End)
	}
	if errStart == nil && errEnd == nil && start.After(end) {
		res.addError("pan.temporal", "start %s is after end %s", t.Start, t.End)
	}
}

func validateGeographic(res *Result, g *nav.GeoInput) {
	shapes := 0
	if len(g.BBox) > 0 {
		shapes++
	}
	if g.Center != nil {
		shapes++
	}
	if len(g.Polygon) > 0 {
		shapes++
	}
	if g.AdminUnit != "" {
		shapes++
	}
	if shapes == 0 {
		res.addError("pan.geographic", "one of bbox, center, polygon, or adminUnit is required")
		return
	}
	if shapes > 1 {
		res.addError("pan.geographic", "bbox, center, polygon, and adminUnit are mutually exclusive")
		return
	}

	switch {
	case len(g.BBox) > 0:
		if len(g.BBox) != 4 {
			res.addError("pan.geographic.bbox", "must be exactly 4 numbers [minLon,minLat,maxLon,maxLat], got %d", len(g.BBox))
			return
		}
		minLon, minLat, maxLon, maxLat := g.BBox[0], g.BBox[1], g.BBox[2], g.BBox[3]
		if minLon >= maxLon {
			res.addError("pan.geographic.bbox", "minLon %g must be less than maxLon %g", minLon, maxLon)
		}
		if minLat >= maxLat {
			res.addError("pan.geographic.bbox", "minLat %g must be less than maxLat %g", minLat, maxLat)
		}
		for _, lat := range []float64{minLat, maxLat} {
			if lat < -90 || lat > 90 {
				res.addError("pan.geographic.bbox", "latitude %g must be between -90 and 90", lat)
			}
		}
		for _, lon := range []float64{minLon, maxLon} {
			if lon < -180 || lon > 180 {
				res.addError("pan.geographic.bbox", "longitude %g must be between -180 and 180", lon)
			}
		}
	case g.Center != nil:
		if g.Center.Lat < -90 || g.Center.Lat > 90 {
			res.addError("pan.geographic.center.lat", "must be between -90 and 90, got %g", g.Center.Lat)
		}
		if g.Center.Lon < -180 || g.Center.Lon > 180 {
			res.addError("pan.geographic.center.lon", "must be between -180 and 180, got %g", g.Center.Lon)
		}
		if g.RadiusKm <= 0 {
			res.addError("pan.geographic.radiusKm", "must be positive, got %g", g.RadiusKm)
		}
	case len(g.Polygon) > 0:
		if len(g.Polygon) < 3 {
			res.addError("pan.geographic.polygon", "needs at least 3 points, got %d", len(g.Polygon))
		}
	}
}

func validateTransform(res *Result, t *nav.TransformInput) {
	if t.MaxTokens != 0 {
		switch {
		case t.MaxTokens < 0:
			res.addError("transform.maxTokens", "must be positive, got %d", t.MaxTokens)
		case t.MaxTokens < transform.MinTokens:
			res.addError("transform.maxTokens", "below the minimum of %d, got %d", transform.MinTokens, t.MaxTokens)
		case t.MaxTokens > transform.SoftTokenCeiling:
			res.addWarning("transform.maxTokens %d exceeds the advisory ceiling of %d; responses may be truncated by downstream consumers",
				t.MaxTokens, transform.SoftTokenCeiling)
		}
	}
	if t.Format != "" && !transform.Format(t.Format).IsValid() {
		res.addError("transform.format", "unknown format %q; allowed values: %s", t.Format, joinFormats())
	}
	if t.ChunkStrategy != "" && !transform.ChunkStrategy(t.ChunkStrategy).IsValid() {
		res.addError("transform.chunkStrategy", "unknown strategy %q; allowed values: %s", t.ChunkStrategy, joinChunkStrategies())
	}
}

// ParseTime parses an ISO-8601 timestamp or plain date.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a time", s)
}

// ParseRelative parses a relative duration like "6h", "30d" or "2w".
func ParseRelative(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("relative duration is empty")
	}
	unit := s[len(s)-1]
	var n int
	if _, err := fmt.Sscanf(s[:len(s)-1], "%d", &n); err != nil || n <= 0 {
		return 0, fmt.Errorf("cannot parse %q as a relative duration (want e.g. 6h, 30d, 2w)", s)
	}
	switch unit {
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("unknown duration unit %q (want h, d, or w)", string(unit))
}

func joinLevels() string {
	levels := zoom.Levels()
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}

func joinTilts() string {
	reps := tilt.Representations()
	parts := make([]string, len(reps))
	for i, r := range reps {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

func joinDomains() string {
	domains := pan.DomainTypes()
	parts := make([]string, len(domains))
	for i, d := range domains {
		parts[i] = string(d)
	}
	return strings.Join(parts, ", ")
}

func joinFormats() string {
	formats := transform.Formats()
	parts := make([]string, len(formats))
	for i, f := range formats {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}

func joinChunkStrategies() string {
	strategies := transform.ChunkStrategies()
	parts := make([]string, len(strategies))
	for i, s := range strategies {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
