// Package corpus executes compiled query descriptors against the corpus
// store.
package corpus

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/corpuslens/corpuslens/internal/compiler/render"
	"github.com/corpuslens/corpuslens/internal/db"
	"github.com/corpuslens/corpuslens/internal/domain"
	"github.com/corpuslens/corpuslens/internal/domain/nav"
	"github.com/corpuslens/corpuslens/internal/domain/nav/tilt"
)

// store is the consumer interface for descriptor execution (ISP).
type store interface {
	Search(ctx context.Context, q *db.NavQuery) (*db.SearchResult, error)
	Aggregate(ctx context.Context, q *db.AggregateQuery) (*db.SearchResult, error)
	Count(ctx context.Context, index, query string) (int, error)
}

// sortSpec maps an ordering key onto an FT.SEARCH SORTBY clause.
type sortSpec struct {
	field string
	desc  bool
}

// similarity descriptors carry no SORTBY; the KNN score orders them.
var orderings = map[tilt.OrderingKey]sortSpec{
	tilt.OrderRecencyDesc: {field: "timestamp", desc: true},
	tilt.OrderLabelAsc:    {field: "label"},
	tilt.OrderStructural:  {field: "degree", desc: true},
	tilt.OrderIDAsc:       {field: "uri"},
}

// Repo implements usecase/navigate.Corpus.
type Repo struct {
	store     store
	indexName string
	keyPrefix string
}

// New creates a corpus executor over the given FT index.
func New(s store, indexName, keyPrefix string) *Repo {
	return &Repo{store: s, indexName: indexName, keyPrefix: keyPrefix}
}

// Execute runs a compiled descriptor. For similarity descriptors the
// query vector must be non-empty; it is bound as the KNN parameter.
func (r *Repo) Execute(ctx context.Context, desc *render.QueryDescriptor, vector []float32) ([]nav.Result, int, error) {
	if desc.Kind == render.KindAggregate {
		return r.executeAggregate(ctx, desc)
	}

	if desc.Kind == render.KindSimilarity && len(vector) == 0 {
		return nil, 0, fmt.Errorf("similarity query needs a vector: %w", domain.ErrInvalidExecution)
	}

	q := &db.NavQuery{
		IndexName:    r.indexName,
		Query:        desc.RenderedQuery,
		ReturnFields: desc.ReturnFields,
		Limit:        desc.ResultLimit,
		Vector:       vector,
	}
	if desc.Kind == render.KindSimilarity {
		// nearest first; the field holds the KNN distance
		q.ReturnFields = append(append([]string{}, desc.ReturnFields...), knnDistanceField)
		q.SortBy = knnDistanceField
	} else if spec, ok := orderings[desc.OrderingKey]; ok {
		q.SortBy = spec.field
		q.SortDesc = spec.desc
	}

	sr, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("execute %s query: %w", desc.Kind, err)
	}

	return parseEntries(sr, r.keyPrefix), sr.Total, nil
}

// EstimateCount runs the descriptor with a zero limit, returning only the
// matching-document total.
func (r *Repo) EstimateCount(ctx context.Context, desc *render.QueryDescriptor) (int, error) {
	query := desc.RenderedQuery
	if desc.Kind == render.KindSimilarity {
		// the KNN wrapper is not countable; count the inner filter
		query = innerFilter(query)
	}
	total, err := r.store.Count(ctx, r.indexName, query)
	if err != nil {
		return 0, fmt.Errorf("count query: %w", err)
	}
	return total, nil
}

func (r *Repo) executeAggregate(ctx context.Context, desc *render.QueryDescriptor) ([]nav.Result, int, error) {
	agg := desc.Aggregation
	if agg == nil {
		return nil, 0, fmt.Errorf("aggregate descriptor without aggregation: %w", domain.ErrInvalidExecution)
	}

	q := &db.AggregateQuery{
		IndexName: r.indexName,
		Query:     desc.RenderedQuery,
		GroupBy:   agg.GroupBy,
		Reducers:  agg.Reducers,
		Limit:     desc.ResultLimit,
	}

	sr, err := r.store.Aggregate(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("execute aggregate query: %w", err)
	}

	groupField := strings.TrimPrefix(agg.GroupBy, "@")
	results := make([]nav.Result, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		label := entry.Fields[groupField]
		results = append(results, nav.NewResult(label, "group", 0, label, "", entry.Fields))
	}
	return results, sr.Total, nil
}

// knnDistanceField is the score field RediSearch derives from the vector
// field name in a KNN query.
const knnDistanceField = "__embedding_score"

// parseEntries converts store entries into domain results. KNN entries
// carry a cosine distance; it is converted to a similarity score.
func parseEntries(sr *db.SearchResult, keyPrefix string) []nav.Result {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	results := make([]nav.Result, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, keyPrefix)
		score := entry.Score
		if raw, ok := entry.Fields[knnDistanceField]; ok {
			if dist, err := strconv.ParseFloat(raw, 64); err == nil {
				score = 1 - dist
			}
		}
		results = append(results, nav.NewResult(
			id,
			entry.Fields["type"],
			score,
			entry.Fields["label"],
			entry.Fields["content"],
			entry.Fields,
		))
	}
	return results
}

// innerFilter strips the KNN wrapper "(filter)=>[...]" back to its filter.
func innerFilter(query string) string {
	if i := strings.Index(query, ")=>["); i > 0 && strings.HasPrefix(query, "(") {
		return query[1:i]
	}
	if strings.HasPrefix(query, "*=>[") {
		return "*"
	}
	return query
}
