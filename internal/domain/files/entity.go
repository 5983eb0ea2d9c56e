package files

import (
	"fmt"
	"strings"
	"time"
)

// FileRecord is a single drive entry as returned by the file store.
// Validated at the store boundary; the core never touches raw store payloads.
type FileRecord struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MimeType     string   `json:"mimeType"`
	ModifiedTime string   `json:"modifiedTime"`
	Size         int64    `json:"size,omitempty"`
	Owners       []string `json:"owners,omitempty"`
}

// MimeTypeFolder marks a container entry; folders are recursed into, not scanned.
const MimeTypeFolder = "application/vnd.google-apps.folder"

// IsFolder reports whether the record is a container.
func (f *FileRecord) IsFolder() bool {
	return f.MimeType == MimeTypeFolder
}

// Validate checks the minimal fields the pipeline depends on.
func (f *FileRecord) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("file record missing id (name=%q)", f.Name)
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("file record %s missing name", f.ID)
	}
	return nil
}

// Modified parses ModifiedTime as RFC-3339. The bool is false when the
// timestamp is missing or unparseable; callers decide the bucketing policy.
func (f *FileRecord) Modified() (time.Time, bool) {
	if f.ModifiedTime == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, f.ModifiedTime)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Ref is the compact reference stored in report bucket lists.
type Ref struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime"`
}

// Ref builds the compact reference for a record.
func (f *FileRecord) Ref() Ref {
	return Ref{
		ID:           f.ID,
		Name:         f.Name,
		MimeType:     f.MimeType,
		ModifiedTime: f.ModifiedTime,
	}
}
