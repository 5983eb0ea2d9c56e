package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/drive-sentinel/internal/domain/scan"
)

// FailureRepository persists per-file scan failures for auditing.
type FailureRepository struct {
	db *sql.DB
}

func NewFailureRepository(db *sql.DB) *FailureRepository { return &FailureRepository{db: db} }

func (r *FailureRepository) Save(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO scan_failures
  (tenant_id, scan_id, target_id, file_name, reason, created_at)
VALUES (?,?,?,?,?,?)
`
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		stringOrDash(f.TenantID),
		stringOrDash(f.ScanID),
		stringOrDash(f.TargetID),
		stringOrDash(f.FileName),
		stringOrDash(f.Reason),
		created,
	)
	return err
}

func (r *FailureRepository) ListByScan(ctx context.Context, tenant, scanID string, limit int) ([]*domain.Failure, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, scan_id, target_id, file_name, reason, created_at
FROM scan_failures
WHERE tenant_id = ? AND scan_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, tenant, scanID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Failure
	for rows.Next() {
		var f domain.Failure
		if err := rows.Scan(&f.ID, &f.TenantID, &f.ScanID, &f.TargetID, &f.FileName, &f.Reason, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
