package classify

import (
	"context"
	"testing"

	domain "github.com/bryanwahyu/drive-sentinel/internal/domain/classify"
)

type fakeAnalyzer struct {
	result domain.Result
	err    error
	calls  int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, filename, mimeType string, content []byte) (domain.Result, error) {
	f.calls++
	return f.result, f.err
}

type allowAll struct{}

func (allowAll) Allow() bool { return true }

type denyAll struct{}

func (denyAll) Allow() bool { return false }

func TestClassifyKeywordFromContent(t *testing.T) {
	svc := &Service{}
	res := svc.Classify(context.Background(),
		"Q3_salary_report.xlsx",
		"application/vnd.google-apps.spreadsheet",
		"projected salary increases for next year")

	if res.Primary == nil || *res.Primary != domain.CategoryFinancial {
		t.Fatalf("primary = %v, want financial", res.Primary)
	}
	if res.Confidence != domain.KeywordConfidence {
		t.Errorf("confidence = %v, want %v", res.Confidence, domain.KeywordConfidence)
	}
	if res.Deferred {
		t.Error("keyword match must not be deferred")
	}
}

func TestClassifyRegexPII(t *testing.T) {
	svc := &Service{}
	res := svc.Classify(context.Background(), "contacts.txt", "text/plain",
		"Contact: john@example.com")

	if res.Primary == nil || *res.Primary != domain.CategoryPII {
		t.Fatalf("primary = %v, want pii", res.Primary)
	}
	if res.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", res.Confidence)
	}
	found := false
	for _, topic := range res.MatchedTopics {
		if topic == "email" {
			found = true
		}
	}
	if !found {
		t.Errorf("matched topics = %v, want to include email", res.MatchedTopics)
	}
}

func TestClassifyNoSignal(t *testing.T) {
	svc := &Service{}
	res := svc.Classify(context.Background(), "notes.txt", "text/plain", "")

	if res.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", res.Confidence)
	}
	if res.Primary != nil {
		t.Errorf("primary = %v, want nil", *res.Primary)
	}
	if res.Deferred {
		t.Error("deferred = true, want false")
	}
}

func TestClassifyMimeFallback(t *testing.T) {
	svc := &Service{}
	res := svc.Classify(context.Background(), "scan0001.pdf", "application/pdf", "")

	if res.Primary == nil || *res.Primary != domain.CategoryConfidential {
		t.Fatalf("primary = %v, want confidential fallback", res.Primary)
	}
	if res.Confidence != domain.FallbackConfidence {
		t.Errorf("confidence = %v, want %v", res.Confidence, domain.FallbackConfidence)
	}
	// below the acceptance threshold: fallback alone is never "sensitive"
	if res.Sensitive(0.7) {
		t.Error("fallback result counted as sensitive")
	}
}

// Any real signal suppresses the mime-type fallback: the confidence must be
// the keyword constant, not 0.6, and the category the matched one.
func TestClassifyFallbackSuppressed(t *testing.T) {
	svc := &Service{}
	res := svc.Classify(context.Background(),
		"invoice_2024.pdf", "application/pdf", "")

	if res.Primary == nil || *res.Primary != domain.CategoryFinancial {
		t.Fatalf("primary = %v, want financial (fallback must not win)", res.Primary)
	}
	if res.Confidence != domain.KeywordConfidence {
		t.Errorf("confidence = %v, want %v", res.Confidence, domain.KeywordConfidence)
	}
	for _, topic := range res.MatchedTopics {
		if topic == string(domain.CategoryConfidential) {
			t.Errorf("fallback category appended alongside real signal: %v", res.MatchedTopics)
		}
	}
}

func TestClassifyImageDeferredWhenRateLimited(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	svc := &Service{Analyzer: analyzer, Limiter: denyAll{}}

	res := svc.Classify(context.Background(), "IMG_2041.png", "image/png", "")

	if analyzer.calls != 0 {
		t.Errorf("analyzer called %d times while rate limited", analyzer.calls)
	}
	if !res.Deferred {
		t.Error("deferred = false, want true")
	}
	// fallback still applies for image mime types
	if res.Primary == nil || *res.Primary != domain.CategoryConfidential {
		t.Fatalf("primary = %v, want confidential fallback", res.Primary)
	}
	if res.Sensitive(0.7) {
		t.Error("deferred fallback counted as sensitive")
	}
}

func TestClassifyImageUsesAnalyzer(t *testing.T) {
	pii := domain.CategoryPII
	analyzer := &fakeAnalyzer{result: domain.Result{
		Confidence:    0.9,
		Primary:       &pii,
		MatchedTopics: []string{"id card"},
		Explanation:   "photo of an identity document",
	}}
	svc := &Service{Analyzer: analyzer, Limiter: allowAll{}}

	res := svc.Classify(context.Background(), "IMG_2041.png", "image/png", "")

	if analyzer.calls != 1 {
		t.Fatalf("analyzer calls = %d, want 1", analyzer.calls)
	}
	if res.Primary == nil || *res.Primary != domain.CategoryPII {
		t.Fatalf("primary = %v, want pii from analyzer", res.Primary)
	}
	if res.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", res.Confidence)
	}
}

// Filename signals short-circuit the analyzer: no budget is spent on files
// the rule engine already flagged.
func TestClassifyKeywordSkipsAnalyzer(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	svc := &Service{Analyzer: analyzer, Limiter: allowAll{}}

	res := svc.Classify(context.Background(), "employee_badge.png", "image/png", "")

	if analyzer.calls != 0 {
		t.Errorf("analyzer calls = %d, want 0", analyzer.calls)
	}
	if res.Primary == nil {
		t.Fatal("expected a keyword classification")
	}
}
