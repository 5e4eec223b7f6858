package domain

import "errors"

var (
	// ErrInvalidRequest signals a navigation request that failed validation.
	ErrInvalidRequest = errors.New("invalid navigation request")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrCorpusUnavailable signals that the corpus store cannot be reached.
	ErrCorpusUnavailable = errors.New("corpus unavailable")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrNotImplemented signals an unimplemented feature.
	ErrNotImplemented = errors.New("not implemented")
	// ErrInvalidExecution signals a descriptor that cannot be executed as
	// given, such as a similarity query without a vector.
	ErrInvalidExecution = errors.New("invalid execution")
)
