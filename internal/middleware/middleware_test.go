package middleware

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestLoggingMiddlewareTagsTenant(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/scan/cached", nil)
	req = req.WithContext(context.WithValue(req.Context(), TenantKey, "acme"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	if !strings.Contains(line, "http: tenant=acme") {
		t.Errorf("log line missing tenant tag: %q", line)
	}
	if !strings.Contains(line, "status=202") {
		t.Errorf("log line missing status: %q", line)
	}
}

func TestLoggingMiddlewareAnonymousTenant(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !strings.Contains(buf.String(), "tenant=-") {
		t.Errorf("unauthenticated request should log tenant=-: %q", buf.String())
	}
}

func TestRecordScanComplete(t *testing.T) {
	before := GetMetrics()["files_processed"].(uint64)

	RecordScanComplete(7)
	RecordScanComplete(0)

	got := GetMetrics()
	if processed := got["files_processed"].(uint64); processed != before+7 {
		t.Errorf("files_processed = %d, want %d", processed, before+7)
	}
	if got["last_scan_at"].(string) == "" {
		t.Error("last_scan_at should be set after a completed scan")
	}
}
