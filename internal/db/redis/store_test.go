package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/corpuslens/corpuslens/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewStoreRequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestIsRedisErr(t *testing.T) {
	serverErr := mock.Result(mock.RedisError("Index Already Exists")).Error()

	tests := []struct {
		name string
		err  error
		sub  string
		want bool
	}{
		{"case-insensitive match", serverErr, "index already exists", true},
		{"substring mismatch", serverErr, "unknown index name", false},
		{"not a server error", context.DeadlineExceeded, "timeout", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRedisErr(tc.err, tc.sub); got != tc.want {
				t.Errorf("isRedisErr = %v, want %v", got, tc.want)
			}
		})
	}
}

// --- kv.go tests ---

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.Result(mock.RedisString("payload")))

	s := NewStoreForTest(c)
	val, err := s.Get(context.Background(), "mykey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(val) != "payload" {
		t.Errorf("value = %q, want payload", val)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "missing")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpGet {
		t.Errorf("expected db.Error with OpGet, got %v", err)
	}
}

func TestSetWithTTL_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "mykey", "v", "EX", "300")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.SetWithTTL(context.Background(), "mykey", []byte("v"), 300*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDel_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "mykey")).
		Return(mock.Result(mock.RedisInt64(0)))

	s := NewStoreForTest(c)
	if err := s.Del(context.Background(), "mykey"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var captured []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			captured = cmd
			return cmd[0] == "FT.CREATE" && cmd[1] == "idx"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	def := db.CorpusIndex("idx", "item:", 4, 32, 400)
	if err := s.CreateIndex(context.Background(), def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSubsequence(t, captured, "PREFIX", "1", "item:")
	assertSubsequence(t, captured, "SCHEMA")
	assertSubsequence(t, captured, "uri", "TAG")
	assertSubsequence(t, captured, "timestamp", "NUMERIC", "SORTABLE")
	assertSubsequence(t, captured, "label", "TEXT", "SORTABLE")
	assertSubsequence(t, captured,
		"embedding", "VECTOR", "HNSW", "10",
		"TYPE", "FLOAT32", "DIM", "4", "DISTANCE_METRIC", "COSINE",
		"M", "32", "EF_CONSTRUCTION", "400")
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	def := db.CorpusIndex("idx", "item:", 4, 32, 400)
	err := s.CreateIndex(context.Background(), def)
	if !errors.Is(err, db.ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}
}

func TestDropIndex_Unknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "idx")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	err := s.DropIndex(context.Background(), "idx")
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		c := mock.NewClient(ctrl)

		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.INFO", "idx")).
			Return(mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("idx"))))

		s := NewStoreForTest(c)
		ok, err := s.IndexExists(context.Background(), "idx")
		if err != nil || !ok {
			t.Fatalf("got %v, %v", ok, err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		c := mock.NewClient(ctrl)

		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.INFO", "idx")).
			Return(mock.Result(mock.RedisError("Unknown Index name")))

		s := NewStoreForTest(c)
		ok, err := s.IndexExists(context.Background(), "idx")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected false")
		}
	})
}

// --- search.go tests ---

func TestSearch_WithScores(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var captured []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			captured = cmd
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("item:1"),
			mock.RedisString("0.9"),
			mock.RedisArray(
				mock.RedisString("label"),
				mock.RedisString("Chlorophyll"),
			),
			mock.RedisString("item:2"),
			mock.RedisString("0.4"),
			mock.RedisArray(
				mock.RedisString("label"),
				mock.RedisString("Photosystem"),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.Search(context.Background(), &db.NavQuery{
		IndexName:    "idx",
		Query:        "@type:{entity}",
		ReturnFields: []string{"label"},
		Limit:        10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSubsequence(t, captured, "FT.SEARCH", "idx", "@type:{entity}", "WITHSCORES")
	assertSubsequence(t, captured, "RETURN", "1", "label")
	assertSubsequence(t, captured, "LIMIT", "0", "10")
	assertSubsequence(t, captured, "DIALECT", "2")

	if result.Total != 2 {
		t.Errorf("total = %d, want 2", result.Total)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(result.Entries))
	}
	first := result.Entries[0]
	if first.Key != "item:1" || first.Score != 0.9 || first.Fields["label"] != "Chlorophyll" {
		t.Errorf("entry = %+v", first)
	}
}

func TestSearch_SortBy(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var captured []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			captured = cmd
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("item:1"),
			mock.RedisArray(
				mock.RedisString("timestamp"),
				mock.RedisString("1700000000"),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.Search(context.Background(), &db.NavQuery{
		IndexName: "idx",
		Query:     "*",
		SortBy:    "timestamp",
		SortDesc:  true,
		Limit:     5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSubsequence(t, captured, "SORTBY", "timestamp", "DESC")
	if len(result.Entries) != 1 || result.Entries[0].Score != 0 {
		t.Errorf("entries = %+v", result.Entries)
	}
}

func TestSearch_VectorParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var captured []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			captured = cmd
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	vec := []float32{0.1, 0.2}
	_, err := s.Search(context.Background(), &db.NavQuery{
		IndexName: "idx",
		Query:     "*=>[KNN 10 @embedding $BLOB]",
		SortBy:    "__embedding_score",
		Vector:    vec,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSubsequence(t, captured, "PARAMS", "2", "BLOB", rueidis.VectorString32(vec))
}

func TestSearch_UnknownIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	_, err := s.Search(context.Background(), &db.NavQuery{IndexName: "idx", Query: "*"})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx", "@type:{entity}", "LIMIT", "0", "0", "DIALECT", "2")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(42))))

	s := NewStoreForTest(c)
	total, err := s.Count(context.Background(), "idx", "@type:{entity}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 42 {
		t.Errorf("total = %d, want 42", total)
	}
}

func TestAggregate(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var captured []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			captured = cmd
			return cmd[0] == "FT.AGGREGATE"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisArray(
				mock.RedisString("domain"),
				mock.RedisString("science"),
				mock.RedisString("count"),
				mock.RedisString("120"),
				mock.RedisString("avg_quality"),
				mock.RedisString("0.8"),
			),
			mock.RedisArray(
				mock.RedisString("domain"),
				mock.RedisString("history"),
				mock.RedisString("count"),
				mock.RedisString("44"),
				mock.RedisString("avg_quality"),
				mock.RedisString("0.7"),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.Aggregate(context.Background(), &db.AggregateQuery{
		IndexName: "idx",
		Query:     "*",
		GroupBy:   "@domain",
		Reducers:  []string{"COUNT", "AVG @quality"},
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSubsequence(t, captured, "GROUPBY", "1", "@domain")
	assertSubsequence(t, captured, "REDUCE", "COUNT", "0", "AS", "count")
	assertSubsequence(t, captured, "REDUCE", "AVG", "1", "@quality", "AS", "avg_quality")

	if result.Total != 2 {
		t.Errorf("total = %d, want 2", result.Total)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("entries = %d", len(result.Entries))
	}
	first := result.Entries[0]
	if first.Key != "science" || first.Fields["count"] != "120" {
		t.Errorf("entry = %+v", first)
	}
}

func TestReducerArgs(t *testing.T) {
	tests := []struct {
		spec string
		want []string
	}{
		{"COUNT", []string{"REDUCE", "COUNT", "0", "AS", "count"}},
		{"AVG @quality", []string{"REDUCE", "AVG", "1", "@quality", "AS", "avg_quality"}},
		{"SUM @degree", []string{"REDUCE", "SUM", "1", "@degree", "AS", "sum_degree"}},
	}
	for _, tt := range tests {
		got := reducerArgs(tt.spec)
		if len(got) != len(tt.want) {
			t.Fatalf("reducerArgs(%q) = %v, want %v", tt.spec, got, tt.want)
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("reducerArgs(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		}
	}
}

// assertSubsequence checks that want appears contiguously in cmd.
func assertSubsequence(t *testing.T, cmd []string, want ...string) {
	t.Helper()
	for i := 0; i+len(want) <= len(cmd); i++ {
		match := true
		for j := range want {
			if cmd[i+j] != want[j] {
				match = false
				break
			}
		}
		if match {
			return
		}
	}
	t.Errorf("command %v missing sequence %v", cmd, want)
}
