package files

import (
	"testing"
	"time"
)

func TestBucketByAge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		modified time.Time
		want     AgeBucket
	}{
		{"yesterday", now.Add(-24 * time.Hour), AgeLessThanOneYear},
		{"exactly one year", now.Add(-365 * 24 * time.Hour), AgeLessThanOneYear},
		{"just over one year", now.Add(-366 * 24 * time.Hour), AgeOneToThreeYears},
		{"two years", now.Add(-730 * 24 * time.Hour), AgeOneToThreeYears},
		{"exactly three years", now.Add(-1095 * 24 * time.Hour), AgeOneToThreeYears},
		{"four years", now.Add(-1460 * 24 * time.Hour), AgeMoreThanThreeYears},
		{"zero time defaults to oldest", time.Time{}, AgeMoreThanThreeYears},
		{"future timestamp", now.Add(24 * time.Hour), AgeLessThanOneYear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BucketByAge(tt.modified, now); got != tt.want {
				t.Errorf("BucketByAge(%v) = %v, want %v", tt.modified, got, tt.want)
			}
		})
	}
}

// BucketByAge must be a pure function of now - modified.
func TestBucketByAgeDeterministic(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mod := now.Add(-400 * 24 * time.Hour)
	first := BucketByAge(mod, now)
	for i := 0; i < 10; i++ {
		if got := BucketByAge(mod, now); got != first {
			t.Fatalf("re-invocation changed result: %v != %v", got, first)
		}
	}
}

func TestBucketByType(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		fileName string
		want     TypeBucket
	}{
		{"workspace doc", "application/vnd.google-apps.document", "notes", TypeDocuments},
		{"workspace sheet", "application/vnd.google-apps.spreadsheet", "budget", TypeSpreadsheets},
		{"workspace slides", "application/vnd.google-apps.presentation", "deck", TypePresentations},
		{"pdf exact", "application/pdf", "report", TypePDFs},
		{"image prefix", "image/jpeg", "photo", TypeImages},
		{"image prefix uncommon", "image/x-canon-cr2", "raw", TypeImages},
		{"drawing is image", "application/vnd.google-apps.drawing", "diagram", TypeImages},
		{"ooxml sheet", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "q3.xlsx", TypeSpreadsheets},
		{"extension fallback docx", "", "contract.docx", TypeDocuments},
		{"extension fallback csv", "application/octet-stream", "data.csv", TypeSpreadsheets},
		{"extension fallback pdf", "", "scan.PDF", TypePDFs},
		{"extension fallback png", "", "logo.png", TypeImages},
		{"unknown everything", "application/octet-stream", "blob.bin", TypeOthers},
		{"no extension no mime", "", "README", TypeOthers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BucketByType(tt.mimeType, tt.fileName); got != tt.want {
				t.Errorf("BucketByType(%q, %q) = %v, want %v", tt.mimeType, tt.fileName, got, tt.want)
			}
		})
	}
}

func TestFileRecordModified(t *testing.T) {
	rec := FileRecord{ModifiedTime: "2023-04-01T10:30:00Z"}
	got, ok := rec.Modified()
	if !ok {
		t.Fatal("expected a parseable timestamp")
	}
	want := time.Date(2023, 4, 1, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Modified() = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "not-a-date", "2023-04-01"} {
		rec := FileRecord{ModifiedTime: bad}
		if _, ok := rec.Modified(); ok {
			t.Errorf("Modified() accepted %q", bad)
		}
	}
}

func TestFileRecordValidate(t *testing.T) {
	ok := FileRecord{ID: "x1", Name: "a.txt"}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid record rejected: %v", err)
	}
	if err := (&FileRecord{Name: "a.txt"}).Validate(); err == nil {
		t.Error("record without id accepted")
	}
	if err := (&FileRecord{ID: "x1"}).Validate(); err == nil {
		t.Error("record without name accepted")
	}
}
