package normalize

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/corpuslens/corpuslens/internal/domain/nav/pan"
)

// parameterHash computes a stable content hash over the fields that affect
// query results: zoom level, canonical pan filters, tilt representation,
// and the budget-affecting transform fields. Fields are written in a fixed
// order and list values are sorted, so semantically identical requests
// hash identically regardless of input key ordering.
func parameterHash(p Parameters) string {
	h := xxhash.New()

	writeField(h, "zoom", string(p.zoom.Level))
	writePan(h, p.pan)
	writeField(h, "tilt", string(p.tilt.Representation))
	writeField(h, "maxTokens", strconv.Itoa(p.transform.MaxTokens()))
	writeField(h, "format", string(p.transform.Format()))
	writeField(h, "chunkStrategy", string(p.transform.ChunkStrategy()))

	return fmt.Sprintf("%016x", h.Sum64())
}

func writePan(h *xxhash.Digest, f pan.Filters) {
	if t := f.Topic(); t != nil {
		writeField(h, "pan.topic", string(t.Pattern())+"/"+t.Namespace()+"/"+t.Value())
	}
	if e := f.Entity(); e != nil {
		writeField(h, "pan.entity", sortedJoin(e.IDs())+"/"+string(e.Resolution())+"/"+e.EntityType())
	}
	if t := f.Temporal(); t != nil {
		writeField(h, "pan.temporal",
			t.Start().UTC().Format(time.RFC3339)+"/"+t.End().UTC().Format(time.RFC3339))
	}
	if g := f.Geographic(); g != nil {
		writeGeo(h, g)
	}
	if d := f.Domains(); d != nil {
		names := make([]string, len(d.Domains()))
		for i, dom := range d.Domains() {
			names[i] = string(dom)
		}
		writeField(h, "pan.domains", sortedJoin(names)+"/"+
			formatFloat(d.RelevanceThreshold())+"/"+strconv.FormatBool(d.IncludeInherited()))
	}
	if kw := f.Keywords(); len(kw) > 0 {
		writeField(h, "pan.keywords", sortedJoin(kw))
	}
	if c := f.Corpuscle(); len(c) > 0 {
		writeField(h, "pan.corpuscle", sortedJoin(c))
	}
	if c := f.Concepts(); len(c) > 0 {
		writeField(h, "pan.concepts", sortedJoin(c))
	}
}

func writeGeo(h *xxhash.Digest, g *pan.Geographic) {
	switch g.Shape() {
	case pan.ShapeBoundingBox, pan.ShapePolygon:
		minLon, minLat, maxLon, maxLat := g.Bounds()
		writeField(h, "pan.geo", string(g.Shape())+"/"+
			formatFloat(minLon)+","+formatFloat(minLat)+","+
			formatFloat(maxLon)+","+formatFloat(maxLat))
	case pan.ShapePointRadius:
		lat, lon := g.Center()
		writeField(h, "pan.geo", "point/"+
			formatFloat(lat)+","+formatFloat(lon)+","+formatFloat(g.RadiusKm()))
	case pan.ShapeAdminUnit:
		writeField(h, "pan.geo", "admin/"+g.AdminUnit())
	}
}

// writeField writes "name=value;" so adjacent fields cannot collide.
func writeField(h *xxhash.Digest, name, value string) {
	_, _ = h.WriteString(name)
	_, _ = h.WriteString("=")
	_, _ = h.WriteString(value)
	_, _ = h.WriteString(";")
}

func sortedJoin(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
