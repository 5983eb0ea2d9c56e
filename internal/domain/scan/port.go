package scan

import (
	"context"
	"time"

	"github.com/bryanwahyu/drive-sentinel/internal/domain/files"
)

// FileStore port (abstract drive: enumeration + content retrieval)
type FileStore interface {
	// ListChildren returns one level of non-trashed entries under folderID.
	ListChildren(ctx context.Context, folderID string) ([]files.FileRecord, error)
	// GetContent retrieves a bounded amount of file content. Empty content
	// with nil error means the store has nothing textual for this file.
	GetContent(ctx context.Context, fileID string) ([]byte, error)
	// IsAvailable is a coarse reachability/auth check before a scan starts.
	IsAvailable(ctx context.Context) bool
}

// SnapshotStore port: best-effort JSON dump of completed reports for
// offline inspection. Not a correctness requirement.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, report *Report, scanID string) (string, error)
}

// Failure is a persisted per-file failure entry (audit trail).
type Failure struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenant_id"`
	ScanID    string    `json:"scan_id"`
	TargetID  string    `json:"target_id"`
	FileName  string    `json:"file_name"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// FailureLog port for persisting scan failures. Best-effort: callers log
// and continue when Save fails.
type FailureLog interface {
	Save(ctx context.Context, f *Failure) error
	ListByScan(ctx context.Context, tenant, scanID string, limit int) ([]*Failure, error)
}
