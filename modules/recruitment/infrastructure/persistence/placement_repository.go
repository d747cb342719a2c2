package persistence

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/placement"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/infrastructure/persistence/models"
	"github.com/talentgrid-hq/talentgrid/pkg/composables"
	"github.com/talentgrid-hq/talentgrid/pkg/repo"
)

var ErrPlacementNotFound = gerrors.New("placement not found")

const placementColumns = `id, tenant_id, employee_id, batch_id, kind, candidate_name, year, join_date,
	quit_date, client, plc_key, placement_type, billing_status, collection_status, billed_hours,
	revenue, incentive, incentive_paid, split_with, lead_name, summary_target, summary_achieved,
	summary_achievement_pct, summary_total_revenue, summary_qualified_for, summary_total_incentive,
	summary_incentive_paid, created_at, updated_at`

const placementColumnCount = 29

// bulkChunk keeps one multi-row INSERT well under the bind-parameter
// limit.
const bulkChunk = 200

type PgPlacementRepository struct{}

func NewPlacementRepository() placement.Repository {
	return &PgPlacementRepository{}
}

func (r *PgPlacementRepository) GetPaginated(ctx context.Context, params *placement.FindParams) ([]placement.Placement, int64, error) {
	if params == nil {
		params = &placement.FindParams{}
	}
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
		`SELECT COUNT(*) FROM rec_placements WHERE tenant_id = $1 AND kind = $2`,
		tenantID, string(params.Kind),
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+placementColumns+`
		FROM rec_placements
		WHERE tenant_id = $1 AND kind = $2
		ORDER BY join_date DESC, candidate_name
	`+repo.FormatLimitOffset(params.Limit, params.Offset),
		tenantID, string(params.Kind))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := scanPlacements(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PgPlacementRepository) GetByEmployeeIDs(ctx context.Context, kind placement.Kind, employeeIDs []uuid.UUID) ([]placement.Placement, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+placementColumns+`
		FROM rec_placements
		WHERE tenant_id = $1 AND kind = $2 AND employee_id = ANY($3)
	`, tenantID, string(kind), employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlacements(rows)
}

func (r *PgPlacementRepository) BulkCreate(ctx context.Context, items []placement.Placement) ([]placement.Placement, error) {
	if len(items) == 0 {
		return nil, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]placement.Placement, 0, len(items))
	for start := 0; start < len(items); start += bulkChunk {
		end := min(start+bulkChunk, len(items))
		chunk := items[start:end]

		args := make([]any, 0, len(chunk)*placementColumnCount)
		for _, item := range chunk {
			dbRow := toDBPlacement(item)
			if dbRow.ID == uuid.Nil {
				dbRow.ID = uuid.New()
			}
			dbRow.CreatedAt = now
			dbRow.UpdatedAt = now
			args = append(args,
				dbRow.ID, dbRow.TenantID, dbRow.EmployeeID, dbRow.BatchID, dbRow.Kind,
				dbRow.CandidateName, dbRow.Year, dbRow.JoinDate, dbRow.QuitDate, dbRow.Client,
				dbRow.PlcKey, dbRow.PlacementType, dbRow.BillingStatus, dbRow.CollectStatus,
				dbRow.BilledHours, dbRow.Revenue, dbRow.Incentive, dbRow.IncentivePaid,
				dbRow.SplitWith, dbRow.LeadName, dbRow.SummaryTarget, dbRow.SummaryAchieved,
				dbRow.SummaryAchievementPct, dbRow.SummaryTotalRevenue, dbRow.SummaryQualifiedFor,
				dbRow.SummaryTotalIncentive, dbRow.SummaryIncentivePaid, dbRow.CreatedAt, dbRow.UpdatedAt,
			)
			out = append(out, toDomainPlacement(dbRow))
		}

		query := `INSERT INTO rec_placements (` + placementColumns + `) VALUES ` +
			repo.BatchPlaceholders(len(chunk), placementColumnCount)
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return nil, gerrors.Wrap(err, "failed to bulk create placements")
		}
	}
	return out, nil
}

func (r *PgPlacementRepository) Update(ctx context.Context, item placement.Placement) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}

	dbRow := toDBPlacement(item)
	tag, err := tx.Exec(ctx, `
		UPDATE rec_placements
		SET batch_id = $3, candidate_name = $4, year = $5, join_date = $6, quit_date = $7,
			client = $8, plc_key = $9, placement_type = $10, billing_status = $11,
			collection_status = $12, billed_hours = $13, revenue = $14, incentive = $15,
			incentive_paid = $16, split_with = $17, lead_name = $18, summary_target = $19,
			summary_achieved = $20, summary_achievement_pct = $21, summary_total_revenue = $22,
			summary_qualified_for = $23, summary_total_incentive = $24, summary_incentive_paid = $25,
			updated_at = now()
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, dbRow.ID, dbRow.BatchID, dbRow.CandidateName, dbRow.Year, dbRow.JoinDate,
		dbRow.QuitDate, dbRow.Client, dbRow.PlcKey, dbRow.PlacementType, dbRow.BillingStatus,
		dbRow.CollectStatus, dbRow.BilledHours, dbRow.Revenue, dbRow.Incentive, dbRow.IncentivePaid,
		dbRow.SplitWith, dbRow.LeadName, dbRow.SummaryTarget, dbRow.SummaryAchieved,
		dbRow.SummaryAchievementPct, dbRow.SummaryTotalRevenue, dbRow.SummaryQualifiedFor,
		dbRow.SummaryTotalIncentive, dbRow.SummaryIncentivePaid)
	if err != nil {
		return gerrors.Wrap(err, "failed to update placement")
	}
	if tag.RowsAffected() == 0 {
		return ErrPlacementNotFound
	}
	return nil
}

func (r *PgPlacementRepository) DeletePlaceholders(ctx context.Context, kind placement.Kind, employeeIDs []uuid.UUID) (int64, error) {
	if len(employeeIDs) == 0 {
		return 0, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM rec_placements
		WHERE tenant_id = $1 AND kind = $2 AND employee_id = ANY($3)
			AND plc_key LIKE $4
			AND candidate_name = $5
	`, tenantID, string(kind), employeeIDs, placement.PlaceholderKeyPrefix+"%", placement.PlaceholderCandidate)
	if err != nil {
		return 0, gerrors.Wrap(err, "failed to delete placeholder placements")
	}
	return tag.RowsAffected(), nil
}

func scanPlacements(rows pgx.Rows) ([]placement.Placement, error) {
	var out []placement.Placement
	for rows.Next() {
		var row models.Placement
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.EmployeeID, &row.BatchID, &row.Kind,
			&row.CandidateName, &row.Year, &row.JoinDate, &row.QuitDate, &row.Client,
			&row.PlcKey, &row.PlacementType, &row.BillingStatus, &row.CollectStatus,
			&row.BilledHours, &row.Revenue, &row.Incentive, &row.IncentivePaid,
			&row.SplitWith, &row.LeadName, &row.SummaryTarget, &row.SummaryAchieved,
			&row.SummaryAchievementPct, &row.SummaryTotalRevenue, &row.SummaryQualifiedFor,
			&row.SummaryTotalIncentive, &row.SummaryIncentivePaid, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, toDomainPlacement(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
