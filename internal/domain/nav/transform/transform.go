// Package transform holds the output-shaping budget of a navigation view:
// token limits, format, and chunking policy.
package transform

import "fmt"

// Token limits.
const (
	DefaultMaxTokens = 4000
	// MinTokens is the absolute floor; requests below it are rejected.
	MinTokens = 100
	// MaxTokens is the hard ceiling maxTokens is clamped to.
	MaxTokens = 128000
	// SoftTokenCeiling triggers an advisory warning, not an error.
	SoftTokenCeiling = 32000
)

// Token budget split, in percent.
const (
	contentShare  = 80
	metadataShare = 15
	overheadShare = 5
)

// Format is the output document shape.
type Format string

// Output format constants.
const (
	FormatStructured Format = "structured"
	FormatMarkdown   Format = "markdown"
	FormatJSON       Format = "json"
	FormatPlain      Format = "plain"
)

// Formats lists every supported output format.
func Formats() []Format {
	return []Format{FormatStructured, FormatMarkdown, FormatJSON, FormatPlain}
}

// IsValid checks if the format is one of the supported values.
func (f Format) IsValid() bool {
	switch f {
	case FormatStructured, FormatMarkdown, FormatJSON, FormatPlain:
		return true
	}
	return false
}

// ChunkStrategy is how content is split into chunks.
type ChunkStrategy string

// Chunk strategy constants.
const (
	ChunkFixed    ChunkStrategy = "fixed"
	ChunkAdaptive ChunkStrategy = "adaptive"
	ChunkSemantic ChunkStrategy = "semantic"
)

// ChunkStrategies lists every supported chunk strategy.
func ChunkStrategies() []ChunkStrategy {
	return []ChunkStrategy{ChunkFixed, ChunkAdaptive, ChunkSemantic}
}

// IsValid checks if the strategy is one of the supported values.
func (s ChunkStrategy) IsValid() bool {
	switch s {
	case ChunkFixed, ChunkAdaptive, ChunkSemantic:
		return true
	}
	return false
}

// TokenBudget is the 80/15/5 partition of maxTokens.
type TokenBudget struct {
	Content  int
	Metadata int
	Overhead int
}

// Total returns the sum of the budget parts. Integer flooring means Total
// can undershoot maxTokens by up to 3 tokens.
func (b TokenBudget) Total() int { return b.Content + b.Metadata + b.Overhead }

// ChunkSize is the chunk-size policy derived from budget and strategy.
// Which fields are set depends on the strategy: fixed uses Size, adaptive
// uses Min/Max, semantic uses Target/Overlap.
type ChunkSize struct {
	Size    int
	Min     int
	Max     int
	Target  int
	Overlap int
}

// Options is the canonical transform configuration.
type Options struct {
	maxTokens       int
	format          Format
	tokenizer       string
	includeMetadata bool
	chunkStrategy   ChunkStrategy
	tokenBudget     TokenBudget
	chunkSize       ChunkSize
}

// Input is the caller-supplied transform fields; zero values mean "use the
// default".
type Input struct {
	MaxTokens       int
	Format          Format
	Tokenizer       string
	IncludeMetadata *bool
	ChunkStrategy   ChunkStrategy
}

// New merges caller values over defaults and derives the token budget and
// chunk policy. MaxTokens is clamped to [MinTokens, MaxTokens].
func New(in Input) (Options, error) {
	maxTokens := in.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}
	if maxTokens < MinTokens {
		maxTokens = MinTokens
	}
	if maxTokens > MaxTokens {
		maxTokens = MaxTokens
	}

	format := in.Format
	if format == "" {
		format = FormatStructured
	}
	if !format.IsValid() {
		return Options{}, fmt.Errorf("invalid output format: %q", format)
	}

	tokenizer := in.Tokenizer
	if tokenizer == "" {
		tokenizer = "cl100k_base"
	}

	includeMetadata := true
	if in.IncludeMetadata != nil {
		includeMetadata = *in.IncludeMetadata
	}

	strategy := in.ChunkStrategy
	if strategy == "" {
		strategy = ChunkSemantic
	}
	if !strategy.IsValid() {
		return Options{}, fmt.Errorf("invalid chunk strategy: %q", strategy)
	}

	budget := TokenBudget{
		Content:  maxTokens * contentShare / 100,
		Metadata: maxTokens * metadataShare / 100,
		Overhead: maxTokens * overheadShare / 100,
	}

	return Options{
		maxTokens:       maxTokens,
		format:          format,
		tokenizer:       tokenizer,
		includeMetadata: includeMetadata,
		chunkStrategy:   strategy,
		tokenBudget:     budget,
		chunkSize:       chunkSizeFor(strategy, budget.Content),
	}, nil
}

func chunkSizeFor(strategy ChunkStrategy, contentBudget int) ChunkSize {
	switch strategy {
	case ChunkFixed:
		return ChunkSize{Size: contentBudget / 4}
	case ChunkAdaptive:
		return ChunkSize{Min: contentBudget / 8, Max: contentBudget / 2}
	case ChunkSemantic:
		return ChunkSize{Target: contentBudget / 3, Overlap: 50}
	}
	return ChunkSize{}
}

// MaxTokens returns the clamped token ceiling.
func (o Options) MaxTokens() int { return o.maxTokens }

// Format returns the output format.
func (o Options) Format() Format { return o.format }

// Tokenizer returns the tokenizer name used for budget accounting.
func (o Options) Tokenizer() string { return o.tokenizer }

// IncludeMetadata reports whether item metadata is emitted.
func (o Options) IncludeMetadata() bool { return o.includeMetadata }

// ChunkStrategy returns the chunking strategy.
func (o Options) ChunkStrategy() ChunkStrategy { return o.chunkStrategy }

// TokenBudget returns the content/metadata/overhead partition.
func (o Options) TokenBudget() TokenBudget { return o.tokenBudget }

// ChunkSize returns the chunk-size policy for the strategy.
func (o Options) ChunkSize() ChunkSize { return o.chunkSize }
