package persistence

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/entities/importbatch"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/infrastructure/persistence/models"
	"github.com/talentgrid-hq/talentgrid/pkg/composables"
	"github.com/talentgrid-hq/talentgrid/pkg/repo"
)

var ErrBatchNotFound = gerrors.New("import batch not found")

type PgImportBatchRepository struct{}

func NewImportBatchRepository() importbatch.Repository {
	return &PgImportBatchRepository{}
}

func (r *PgImportBatchRepository) CreateBatch(ctx context.Context, batch importbatch.ImportBatch) (importbatch.ImportBatch, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return importbatch.ImportBatch{}, err
	}

	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	batch.CreatedAt = time.Now().UTC()

	_, err = tx.Exec(ctx, `
		INSERT INTO rec_import_batches (id, tenant_id, kind, actor_id, source_name, created_count, updated_count, error_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, batch.ID, batch.TenantID, batch.Kind, nullableActor(batch.ActorID), batch.SourceName,
		batch.CreatedCount, batch.UpdatedCount, batch.ErrorCount, batch.CreatedAt)
	if err != nil {
		return importbatch.ImportBatch{}, gerrors.Wrap(err, "failed to create import batch")
	}
	return batch, nil
}

func (r *PgImportBatchRepository) UpdateCounts(ctx context.Context, batch importbatch.ImportBatch) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE rec_import_batches
		SET created_count = $3, updated_count = $4, error_count = $5
		WHERE tenant_id = $1 AND id = $2
	`, batch.TenantID, batch.ID, batch.CreatedCount, batch.UpdatedCount, batch.ErrorCount)
	if err != nil {
		return gerrors.Wrap(err, "failed to update batch counts")
	}
	if tag.RowsAffected() == 0 {
		return ErrBatchNotFound
	}
	return nil
}

func (r *PgImportBatchRepository) GetPaginated(ctx context.Context, limit, offset int) ([]importbatch.ImportBatch, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM rec_import_batches WHERE tenant_id = $1`,
		tenantID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, tenant_id, kind, actor_id, source_name, created_count, updated_count, error_count, created_at
		FROM rec_import_batches
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`+repo.FormatLimitOffset(limit, offset), tenantID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []importbatch.ImportBatch
	for rows.Next() {
		var row models.ImportBatch
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.Kind, &row.ActorID, &row.SourceName,
			&row.CreatedCount, &row.UpdatedCount, &row.ErrorCount, &row.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, toDomainImportBatch(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PgImportBatchRepository) CreateAudit(ctx context.Context, entry importbatch.AuditEntry) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	row := models.AuditEntry{
		ID:       uuid.New(),
		TenantID: entry.TenantID,
		BatchID:  entry.BatchID,
		ActorID:  nullableActor(entry.ActorID),
		Action:   entry.Action,
		Details:  entry.Details,
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO rec_import_audit_log (id, tenant_id, batch_id, actor_id, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`, row.ID, row.TenantID, row.BatchID, row.ActorID, row.Action, row.Details)
	if err != nil {
		return gerrors.Wrap(err, "failed to write audit entry")
	}
	return nil
}
