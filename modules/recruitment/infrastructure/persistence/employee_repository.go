package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/employee"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/infrastructure/persistence/models"
	"github.com/talentgrid-hq/talentgrid/pkg/composables"
	"github.com/talentgrid-hq/talentgrid/pkg/repo"
)

var ErrEmployeeNotFound = gerrors.New("employee not found")

const employeeColumns = `id, tenant_id, code, display_name, level, team_name, active, created_at, updated_at`

type PgEmployeeRepository struct{}

func NewEmployeeRepository() employee.Repository {
	return &PgEmployeeRepository{}
}

func (r *PgEmployeeRepository) GetPaginated(ctx context.Context, params *employee.FindParams) ([]employee.Employee, int64, error) {
	if params == nil {
		params = &employee.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := []string{"tenant_id = $1"}
	args := []any{tenantID}
	if q := strings.TrimSpace(params.Q); q != "" {
		where = append(where, "(display_name ILIKE $2 OR code ILIKE $2)")
		args = append(args, "%"+q+"%")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM rec_employees WHERE ` + strings.Join(where, " AND ")
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + employeeColumns + `
		FROM rec_employees
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY display_name
	` + repo.FormatLimitOffset(params.Limit, params.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := scanEmployees(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PgEmployeeRepository) GetAllActive(ctx context.Context) ([]employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+employeeColumns+`
		FROM rec_employees
		WHERE tenant_id = $1 AND active
		ORDER BY display_name
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmployees(rows)
}

func (r *PgEmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (employee.Employee, error) {
	return r.getOne(ctx, "id = $2", id)
}

func (r *PgEmployeeRepository) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	return r.getOne(ctx, "LOWER(code) = LOWER($2)", code)
}

func (r *PgEmployeeRepository) getOne(ctx context.Context, cond string, arg any) (employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return employee.Employee{}, err
	}

	var row models.Employee
	err = tx.QueryRow(ctx, `
		SELECT `+employeeColumns+`
		FROM rec_employees
		WHERE tenant_id = $1 AND `+cond,
		tenantID, arg,
	).Scan(
		&row.ID, &row.TenantID, &row.Code, &row.DisplayName, &row.Level,
		&row.TeamName, &row.Active, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return toDomainEmployee(&row), nil
}

func (r *PgEmployeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return employee.Employee{}, err
	}

	dbRow := toDBEmployee(e)
	if dbRow.ID == uuid.Nil {
		dbRow.ID = uuid.New()
	}
	now := time.Now().UTC()

	_, err = tx.Exec(ctx, `
		INSERT INTO rec_employees (id, tenant_id, code, display_name, level, team_name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`, dbRow.ID, dbRow.TenantID, dbRow.Code, dbRow.DisplayName, dbRow.Level, dbRow.TeamName, dbRow.Active, now)
	if err != nil {
		return employee.Employee{}, gerrors.Wrap(err, "failed to create employee")
	}
	return r.GetByID(ctx, dbRow.ID)
}

func (r *PgEmployeeRepository) Update(ctx context.Context, e employee.Employee) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}

	dbRow := toDBEmployee(e)
	tag, err := tx.Exec(ctx, `
		UPDATE rec_employees
		SET code = $3, display_name = $4, level = $5, team_name = $6, active = $7, updated_at = now()
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, dbRow.ID, dbRow.Code, dbRow.DisplayName, dbRow.Level, dbRow.TeamName, dbRow.Active)
	if err != nil {
		return gerrors.Wrap(err, "failed to update employee")
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func scanEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	var out []employee.Employee
	for rows.Next() {
		var row models.Employee
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.Code, &row.DisplayName, &row.Level,
			&row.TeamName, &row.Active, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, toDomainEmployee(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
