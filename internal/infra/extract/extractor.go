// Package extract retrieves bounded text content for classification.
// Extraction is deliberately shallow: the file store already exports
// Workspace documents as plain text and spreadsheets as CSV, so this layer
// only gates by mime family and size and normalizes the bytes.
package extract

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/bryanwahyu/drive-sentinel/internal/domain/files"
	domain "github.com/bryanwahyu/drive-sentinel/internal/domain/scan"
)

// maxTextBytes bounds the text handed to the classifier per file.
const maxTextBytes = 512 << 10

// Extractor implements application/scan.Extractor on top of a FileStore.
type Extractor struct {
	Store       domain.FileStore
	MaxFileSize int64 // hard cap; larger files are skipped, not failed
}

func New(store domain.FileStore, maxFileSize int64) *Extractor {
	if maxFileSize <= 0 {
		maxFileSize = 10 << 20
	}
	return &Extractor{Store: store, MaxFileSize: maxFileSize}
}

// Extract returns text content for a file, or empty text for unsupported
// and oversized files. A non-nil error marks the file failed; callers
// isolate it from the rest of the batch.
func (e *Extractor) Extract(ctx context.Context, rec files.FileRecord) (string, error) {
	if rec.Size > e.MaxFileSize {
		log.Printf("extract: size skip file=%s size=%d cap=%d", rec.Name, rec.Size, e.MaxFileSize)
		return "", nil
	}
	if !extractable(files.BucketByType(rec.MimeType, rec.Name)) {
		return "", nil
	}

	raw, err := e.Store.GetContent(ctx, rec.ID)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("extraction timeout for %s", rec.Name)
		}
		return "", fmt.Errorf("get content %s: %w", rec.ID, err)
	}
	if len(raw) == 0 {
		return "", nil
	}
	return normalize(raw), nil
}

// extractable: images go through the secondary analyzer instead, and
// "others" have no text export.
func extractable(t files.TypeBucket) bool {
	switch t {
	case files.TypeDocuments, files.TypeSpreadsheets, files.TypePresentations, files.TypePDFs:
		return true
	default:
		return false
	}
}

// normalize truncates to the text budget and drops invalid UTF-8 so the
// regex engine sees clean input.
func normalize(raw []byte) string {
	if len(raw) > maxTextBytes {
		raw = raw[:maxTextBytes]
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), "")
}
