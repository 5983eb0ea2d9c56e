package classify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	domain "github.com/bryanwahyu/drive-sentinel/internal/domain/classify"
)

// Limiter gates the secondary analyzer path.
type Limiter interface {
	Allow() bool
}

// Service implements the rule-based sensitivity classifier with an
// optional rate-limited secondary analyzer for image content.
// Safe for concurrent use.
type Service struct {
	Analyzer domain.Analyzer // nil disables the secondary path
	Limiter  Limiter
}

// Classify produces a verdict from filename, mime type and optional
// extracted content.
//
// Signal order: filename keywords, content keywords + PII detectors, then
// the low-confidence mime-type fallback only when nothing else fired.
func (s *Service) Classify(ctx context.Context, filename, mimeType string, content string) domain.Result {
	findings := domain.MatchFilename(filename)
	if content != "" {
		findings.Merge(domain.ScanText(content))
	}

	deferred := false
	if len(findings) == 0 && domain.ImageMime(mimeType) && s.Analyzer != nil {
		res, err := s.analyzeImage(ctx, filename, mimeType, content)
		switch {
		case err == nil && res.Primary != nil:
			return res
		case errors.Is(err, domain.ErrRateLimited):
			deferred = true
		case err != nil:
			// secondary path is best-effort; fall through to the mime fallback
			log.Printf("classify: secondary analysis failed file=%s err=%v", filename, err)
		}
	}

	if len(findings) > 0 {
		return buildResult(findings, deferred)
	}

	// Conservative default: unlabeled office docs, PDFs and images score a
	// low-confidence confidential candidate below the acceptance threshold.
	if domain.TypicallySensitiveMime(mimeType) {
		fallback := domain.CategoryConfidential
		return domain.Result{
			Confidence:    domain.FallbackConfidence,
			Primary:       &fallback,
			MatchedTopics: []string{string(domain.CategoryConfidential)},
			Explanation:   "No explicit signal; mime type typically contains sensitive content",
			Deferred:      deferred,
		}
	}

	return domain.Result{
		MatchedTopics: []string{},
		Explanation:   "No sensitive patterns detected",
		Deferred:      deferred,
	}
}

// buildResult selects the highest-confidence candidate. All keyword and
// detector signals score the same constant, so the tie-break is the
// category enumeration order.
func buildResult(findings domain.Findings, deferred bool) domain.Result {
	cats := findings.Categories()
	primary := cats[0]
	labels := findings[primary]
	return domain.Result{
		Confidence:    domain.KeywordConfidence,
		Primary:       &primary,
		MatchedTopics: findings.Topics(),
		Explanation:   fmt.Sprintf("Found %s", strings.Join(labels, ", ")),
		Deferred:      deferred,
	}
}

func (s *Service) analyzeImage(ctx context.Context, filename, mimeType, content string) (domain.Result, error) {
	if s.Limiter != nil && !s.Limiter.Allow() {
		return domain.Result{}, domain.ErrRateLimited
	}
	return s.Analyzer.Analyze(ctx, filename, mimeType, []byte(content))
}
