package classify

import "context"

// Analyzer port for the secondary content analysis path (remote model).
// Implementations are expected to be rate limited; callers treat
// ErrRateLimited as "defer this file", not as a failure.
type Analyzer interface {
	Analyze(ctx context.Context, filename, mimeType string, content []byte) (Result, error)
}
