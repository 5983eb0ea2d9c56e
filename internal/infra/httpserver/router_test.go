package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appscan "github.com/bryanwahyu/drive-sentinel/internal/application/scan"
	"github.com/bryanwahyu/drive-sentinel/internal/domain/classify"
	"github.com/bryanwahyu/drive-sentinel/internal/domain/files"
	domain "github.com/bryanwahyu/drive-sentinel/internal/domain/scan"
)

type memStore struct {
	tree      map[string][]files.FileRecord
	available bool
}

func (m *memStore) ListChildren(ctx context.Context, folderID string) ([]files.FileRecord, error) {
	return m.tree[folderID], nil
}

func (m *memStore) GetContent(ctx context.Context, fileID string) ([]byte, error) {
	return nil, nil
}

func (m *memStore) IsAvailable(ctx context.Context) bool { return m.available }

type passExtractor struct{}

func (passExtractor) Extract(ctx context.Context, rec files.FileRecord) (string, error) {
	return "", nil
}

type nilClassifier struct{}

func (nilClassifier) Classify(ctx context.Context, filename, mimeType, content string) classify.Result {
	return classify.Result{}
}

func newTestRouter(store *memStore) (http.Handler, *appscan.Cache) {
	cache := appscan.NewCache(time.Hour)
	svc := &appscan.Service{
		Store:      store,
		Extractor:  passExtractor{},
		Classifier: nilClassifier{},
		Cache:      cache,
		Clock:      appscan.SystemClock{},
		Opts: appscan.Options{
			BatchSize:             2,
			BatchTimeout:          2 * time.Second,
			ExtractionTimeout:     time.Second,
			ClassificationTimeout: time.Second,
		},
	}
	return NewRouter(svc, cache), cache
}

func TestScanEndpoint(t *testing.T) {
	store := &memStore{
		available: true,
		tree: map[string][]files.FileRecord{
			"drive": {
				{ID: "f1", Name: "a.txt", MimeType: "text/plain", ModifiedTime: "2025-01-10T00:00:00Z"},
			},
		},
	}
	handler, _ := newTestRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/v1/acme/scan",
		strings.NewReader(`{"root_id": "drive", "recursive": true}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var report domain.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.TargetID != "drive" || !report.ScanComplete || report.TotalFiles != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestScanEndpointMissingRootID(t *testing.T) {
	handler, _ := newTestRouter(&memStore{available: true})

	req := httptest.NewRequest(http.MethodPost, "/v1/acme/scan", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code == http.StatusOK {
		t.Error("missing root_id must not succeed")
	}
}

func TestScanEndpointStoreUnavailable(t *testing.T) {
	handler, _ := newTestRouter(&memStore{available: false})

	req := httptest.NewRequest(http.MethodPost, "/v1/acme/scan",
		strings.NewReader(`{"root_id": "drive"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestCachedEndpoint(t *testing.T) {
	handler, cache := newTestRouter(&memStore{available: true})

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/scan/cached?target_id=drive", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("empty cache status = %d, want 404", rec.Code)
	}

	cache.Put("drive", domain.NewReport("drive"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/acme/scan/cached?target_id=drive", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("cached status = %d, want 200", rec.Code)
	}
}

func TestCacheInvalidationEndpoints(t *testing.T) {
	handler, cache := newTestRouter(&memStore{available: true})
	cache.Put("a", domain.NewReport("a"))
	cache.Put("b", domain.NewReport("b"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/acme/cache/a", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("point delete status = %d", rec.Code)
	}
	if _, ok := cache.Get("a"); ok {
		t.Error("entry a still cached after delete")
	}
	if _, ok := cache.Get("b"); !ok {
		t.Error("entry b dropped by point delete")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/acme/cache", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("bulk delete status = %d", rec.Code)
	}
	if len(cache.Status()) != 0 {
		t.Error("cache not empty after bulk delete")
	}
}

type memFailureLog struct {
	entries []*domain.Failure
}

func (m *memFailureLog) Save(ctx context.Context, f *domain.Failure) error {
	m.entries = append(m.entries, f)
	return nil
}

func (m *memFailureLog) ListByScan(ctx context.Context, tenant, scanID string, limit int) ([]*domain.Failure, error) {
	var out []*domain.Failure
	for _, f := range m.entries {
		if f.TenantID == tenant && f.ScanID == scanID {
			out = append(out, f)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestFailuresEndpoint(t *testing.T) {
	handler, _ := newTestRouter(&memStore{available: true})

	// audit log disabled
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/acme/failures?scan_id=s1", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("disabled audit status = %d, want 404", rec.Code)
	}
}

func TestFailuresEndpointLists(t *testing.T) {
	store := &memStore{available: true}
	cache := appscan.NewCache(time.Hour)
	audit := &memFailureLog{entries: []*domain.Failure{
		{TenantID: "acme", ScanID: "s1", FileName: "bad.pdf", Reason: "Batch processing timeout"},
		{TenantID: "other", ScanID: "s1", FileName: "skip.pdf", Reason: "x"},
	}}
	svc := &appscan.Service{
		Store:      store,
		Extractor:  passExtractor{},
		Classifier: nilClassifier{},
		Cache:      cache,
		Failures:   audit,
		Clock:      appscan.SystemClock{},
	}
	handler := NewRouter(svc, cache)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/acme/failures?scan_id=s1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got []*domain.Failure
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].FileName != "bad.pdf" {
		t.Errorf("failures = %+v", got)
	}
}

func TestCacheStatusEndpoint(t *testing.T) {
	handler, cache := newTestRouter(&memStore{available: true})
	cache.Put("drive", domain.NewReport("drive"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/acme/cache/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]appscan.CacheStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st, ok := body["drive"]; !ok || !st.Cached {
		t.Errorf("body = %+v", body)
	}
}
