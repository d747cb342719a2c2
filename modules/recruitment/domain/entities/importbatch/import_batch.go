package importbatch

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ImportBatch records one sheet import: who ran it, what kind, and the
// resulting counts. Audit entries reference it.
type ImportBatch struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Kind         string
	ActorID      uuid.UUID
	SourceName   string
	CreatedCount int
	UpdatedCount int
	ErrorCount   int
	CreatedAt    time.Time
}

// AuditEntry is the single audit-log line written alongside a batch.
type AuditEntry struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	BatchID   uuid.UUID
	ActorID   uuid.UUID
	Action    string
	Details   string
	CreatedAt time.Time
}

type Repository interface {
	CreateBatch(ctx context.Context, batch ImportBatch) (ImportBatch, error)
	UpdateCounts(ctx context.Context, batch ImportBatch) error
	CreateAudit(ctx context.Context, entry AuditEntry) error
	GetPaginated(ctx context.Context, limit, offset int) ([]ImportBatch, int64, error)
}
