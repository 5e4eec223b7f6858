package db

// NavQuery is a pre-rendered navigation query. The query string comes out
// of the compiler's renderer; this layer never builds filter syntax.
type NavQuery struct {
	IndexName    string
	Query        string
	ReturnFields []string
	// SortBy is the sort field; empty means the engine's default scoring.
	SortBy   string
	SortDesc bool
	Limit    int
	// Vector, when set, is bound as the $BLOB parameter of a KNN query.
	Vector []float32
}

// AggregateQuery groups a navigation query for community/corpus zoom
// levels.
type AggregateQuery struct {
	IndexName string
	Query     string
	GroupBy   string
	Reducers  []string
	Limit     int
}

// SearchResult is the output of a search or aggregate operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
