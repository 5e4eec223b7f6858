package redis

import (
	"context"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/corpuslens/corpuslens/internal/db"
)

// Search executes a pre-rendered FT.SEARCH query.
func (s *Store) Search(ctx context.Context, q *db.NavQuery) (*db.SearchResult, error) {
	args := []string{"FT.SEARCH", q.IndexName, q.Query}

	withScores := q.SortBy == ""
	if withScores {
		args = append(args, "WITHSCORES")
	} else {
		args = append(args, "SORTBY", q.SortBy)
		if q.SortDesc {
			args = append(args, "DESC")
		} else {
			args = append(args, "ASC")
		}
	}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, "LIMIT", "0", strconv.Itoa(limit))

	if len(q.Vector) > 0 {
		args = append(args, "PARAMS", "2", "BLOB", rueidis.VectorString32(q.Vector))
	}
	args = append(args, "DIALECT", "2")

	cmd := s.b().Arbitrary(args[0]).Args(args[1:]...).Build()
	arr, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "unknown index") || isRedisErr(err, "no such index") {
			return nil, &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseSearchReply(arr, withScores)
}

// Count runs the query with LIMIT 0 0, returning only the total.
func (s *Store) Count(ctx context.Context, indexName, query string) (int, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").
		Args(indexName, query, "LIMIT", "0", "0", "DIALECT", "2").
		Build()
	arr, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "unknown index") || isRedisErr(err, "no such index") {
			return 0, &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}
		}
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(arr) == 0 {
		return 0, nil
	}
	total, err := arr[0].AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	return int(total), nil
}

// Aggregate executes an FT.AGGREGATE query grouping documents for the
// coarse zoom levels.
func (s *Store) Aggregate(ctx context.Context, q *db.AggregateQuery) (*db.SearchResult, error) {
	args := []string{"FT.AGGREGATE", q.IndexName, q.Query}

	args = append(args, "GROUPBY", "1", q.GroupBy)
	for _, reducer := range q.Reducers {
		args = append(args, reducerArgs(reducer)...)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, "LIMIT", "0", strconv.Itoa(limit))
	args = append(args, "DIALECT", "2")

	cmd := s.b().Arbitrary(args[0]).Args(args[1:]...).Build()
	arr, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "unknown index") || isRedisErr(err, "no such index") {
			return nil, &db.Error{Op: db.OpAggregate, Err: db.ErrIndexNotFound}
		}
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	return parseAggregateReply(arr, q.GroupBy)
}

// reducerArgs expands a reducer spec such as "COUNT" or "AVG @quality"
// into REDUCE arguments with a derived alias.
func reducerArgs(spec string) []string {
	fn := spec
	var prop string
	if i := strings.IndexByte(spec, ' '); i >= 0 {
		fn = spec[:i]
		prop = spec[i+1:]
	}
	if prop == "" {
		return []string{"REDUCE", fn, "0", "AS", strings.ToLower(fn)}
	}
	alias := strings.ToLower(fn) + "_" + strings.TrimPrefix(prop, "@")
	return []string{"REDUCE", fn, "1", prop, "AS", alias}
}

// parseSearchReply decodes the RESP2 FT.SEARCH reply: the total count
// followed by per-document groups of key, optional score, and a
// field-value array.
func parseSearchReply(arr []rueidis.RedisMessage, withScores bool) (*db.SearchResult, error) {
	if len(arr) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := arr[0].AsInt64()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	result := &db.SearchResult{Total: int(total)}

	stride := 2
	if withScores {
		stride = 3
	}

	for i := 1; i+stride-1 < len(arr); i += stride {
		entry := db.SearchEntry{}

		key, err := arr[i].ToString()
		if err != nil {
			return nil, &db.Error{Op: db.OpSearch, Err: err}
		}
		entry.Key = key

		fieldsIdx := i + 1
		if withScores {
			score, err := arr[i+1].AsFloat64()
			if err != nil {
				return nil, &db.Error{Op: db.OpSearch, Err: err}
			}
			entry.Score = score
			fieldsIdx = i + 2
		}

		fields, err := arr[fieldsIdx].AsStrMap()
		if err != nil {
			return nil, &db.Error{Op: db.OpSearch, Err: err}
		}
		entry.Fields = fields

		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}

// parseAggregateReply decodes the RESP2 FT.AGGREGATE reply: the group
// count followed by per-group field-value arrays.
func parseAggregateReply(arr []rueidis.RedisMessage, groupBy string) (*db.SearchResult, error) {
	if len(arr) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := arr[0].AsInt64()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}
	result := &db.SearchResult{Total: int(total)}

	groupField := groupBy
	if len(groupField) > 0 && groupField[0] == '@' {
		groupField = groupField[1:]
	}

	for i := 1; i < len(arr); i++ {
		fields, err := arr[i].AsStrMap()
		if err != nil {
			return nil, &db.Error{Op: db.OpAggregate, Err: err}
		}
		entry := db.SearchEntry{Key: fields[groupField], Fields: fields}
		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}
