package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/employee"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/placement"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/entities/importbatch"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/services/sheetimport"
	"github.com/talentgrid-hq/talentgrid/pkg/composables"
	"github.com/talentgrid-hq/talentgrid/pkg/eventbus"
)

// stubTx satisfies pgx.Tx so the transaction composables run without a
// database. The mock repositories never touch it.
type stubTx struct{}

func (stubTx) Begin(context.Context) (pgx.Tx, error) { return stubTx{}, nil }
func (stubTx) Commit(context.Context) error          { return nil }
func (stubTx) Rollback(context.Context) error        { return nil }
func (stubTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (stubTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (stubTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (stubTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (stubTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (stubTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (stubTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (stubTx) Conn() *pgx.Conn                                         { return nil }

type mockEmployeeRepo struct {
	staff []employee.Employee
}

func (m *mockEmployeeRepo) GetPaginated(context.Context, *employee.FindParams) ([]employee.Employee, int64, error) {
	return m.staff, int64(len(m.staff)), nil
}
func (m *mockEmployeeRepo) GetAllActive(context.Context) ([]employee.Employee, error) {
	return m.staff, nil
}
func (m *mockEmployeeRepo) GetByID(context.Context, uuid.UUID) (employee.Employee, error) {
	return employee.Employee{}, nil
}
func (m *mockEmployeeRepo) GetByCode(context.Context, string) (employee.Employee, error) {
	return employee.Employee{}, nil
}
func (m *mockEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}
func (m *mockEmployeeRepo) Update(context.Context, employee.Employee) error { return nil }

type mockPlacementRepo struct {
	existing []placement.Placement

	created          []placement.Placement
	updated          []placement.Placement
	placeholderWipes [][]uuid.UUID
}

func (m *mockPlacementRepo) GetPaginated(context.Context, *placement.FindParams) ([]placement.Placement, int64, error) {
	return m.existing, int64(len(m.existing)), nil
}
func (m *mockPlacementRepo) GetByEmployeeIDs(context.Context, placement.Kind, []uuid.UUID) ([]placement.Placement, error) {
	return m.existing, nil
}
func (m *mockPlacementRepo) BulkCreate(_ context.Context, items []placement.Placement) ([]placement.Placement, error) {
	m.created = append(m.created, items...)
	return items, nil
}
func (m *mockPlacementRepo) Update(_ context.Context, item placement.Placement) error {
	m.updated = append(m.updated, item)
	return nil
}
func (m *mockPlacementRepo) DeletePlaceholders(_ context.Context, _ placement.Kind, ids []uuid.UUID) (int64, error) {
	m.placeholderWipes = append(m.placeholderWipes, ids)
	return int64(len(ids)), nil
}

type mockBatchRepo struct {
	batches []importbatch.ImportBatch
	counts  []importbatch.ImportBatch
	audits  []importbatch.AuditEntry
}

func (m *mockBatchRepo) CreateBatch(_ context.Context, batch importbatch.ImportBatch) (importbatch.ImportBatch, error) {
	batch.ID = uuid.New()
	batch.CreatedAt = time.Now().UTC()
	m.batches = append(m.batches, batch)
	return batch, nil
}
func (m *mockBatchRepo) UpdateCounts(_ context.Context, batch importbatch.ImportBatch) error {
	m.counts = append(m.counts, batch)
	return nil
}
func (m *mockBatchRepo) CreateAudit(_ context.Context, entry importbatch.AuditEntry) error {
	m.audits = append(m.audits, entry)
	return nil
}
func (m *mockBatchRepo) GetPaginated(context.Context, int, int) ([]importbatch.ImportBatch, int64, error) {
	return m.batches, int64(len(m.batches)), nil
}

func testContext(tenantID uuid.UUID) context.Context {
	ctx := composables.WithTx(context.Background(), stubTx{})
	return composables.WithTenantID(ctx, tenantID)
}

func quietBus() eventbus.EventBus {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return eventbus.NewEventPublisher(l)
}

func activeEmployee(tenantID uuid.UUID, code, name string, level employee.Level, team string) employee.Employee {
	return employee.Hydrate(tenantID, uuid.New(), code, name, level, team, true, time.Now(), time.Now())
}

func personalHeaders() []string {
	return []string{"Candidate Name", "DOJ", "Client", "PLC ID", "Recruiter Name"}
}

func TestImportPersonalPartitionsInsertsAndUpdates(t *testing.T) {
	tenantID := uuid.New()
	meera := activeEmployee(tenantID, "VB2", "Meera Iyer", employee.LevelL2, "Vantage")

	stored := placement.Hydrate(
		tenantID, uuid.New(), placement.KindPersonal, meera.ID(), uuid.Nil,
		placement.Fields{
			CandidateName: "Old Candidate",
			JoinDate:      time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC),
			Client:        "Acme",
			PlcKey:        "P2",
		},
		time.Now().Add(-time.Hour), time.Now().Add(-time.Hour),
	)

	employees := &mockEmployeeRepo{staff: []employee.Employee{meera}}
	placements := &mockPlacementRepo{existing: []placement.Placement{stored}}
	batches := &mockBatchRepo{}
	svc := NewPlacementImportService(employees, placements, batches, quietBus())

	req := sheetimport.Request{
		Headers: personalHeaders(),
		Rows: [][]sheetimport.Cell{
			{"New Candidate", "2024-03-15", "Globex", "P1", "Meera Iyer"},
			{"Refreshed Candidate", "2024-04-01", "Acme", "p2", "Meera Iyer"},
		},
		Source: "q2.xlsx",
	}

	result, err := svc.ImportPersonal(testContext(tenantID), req)
	require.NoError(t, err)

	require.NotNil(t, result.BatchID)
	require.Equal(t, 1, result.InsertedCount)
	require.Equal(t, 1, result.Summary.PlacementsCreated)
	require.Equal(t, 1, result.Summary.PlacementsUpdated)
	require.Equal(t, 1, result.Summary.EmployeesUpdated)
	require.Empty(t, result.Errors)
	require.Nil(t, result.Report)

	require.Len(t, placements.created, 1)
	require.Equal(t, "New Candidate", placements.created[0].CandidateName())
	require.Equal(t, *result.BatchID, placements.created[0].BatchID())

	// The update keeps the stored identity and creation time.
	require.Len(t, placements.updated, 1)
	require.Equal(t, stored.ID(), placements.updated[0].ID())
	require.Equal(t, "Refreshed Candidate", placements.updated[0].CandidateName())
	require.Equal(t, stored.CreatedAt(), placements.updated[0].CreatedAt())

	require.Len(t, batches.batches, 1)
	require.Equal(t, "personal", batches.batches[0].Kind)
	require.Equal(t, "q2.xlsx", batches.batches[0].SourceName)
	require.Len(t, batches.counts, 1)
	require.Equal(t, 1, batches.counts[0].CreatedCount)
	require.Equal(t, 1, batches.counts[0].UpdatedCount)
	require.Len(t, batches.audits, 1)
	require.Equal(t, "personal_placement_import", batches.audits[0].Action)
}

func TestImportNoEffectiveRowsSkipsBatch(t *testing.T) {
	tenantID := uuid.New()
	employees := &mockEmployeeRepo{staff: []employee.Employee{
		activeEmployee(tenantID, "VB2", "Meera Iyer", employee.LevelL2, "Vantage"),
	}}
	placements := &mockPlacementRepo{}
	batches := &mockBatchRepo{}
	svc := NewPlacementImportService(employees, placements, batches, quietBus())

	req := sheetimport.Request{
		Headers: personalHeaders(),
		Rows: [][]sheetimport.Cell{
			{"Someone", "2024-03-15", "Acme", "P1", "Unknown Person"},
		},
	}

	result, err := svc.ImportPersonal(testContext(tenantID), req)
	require.NoError(t, err)
	require.Nil(t, result.BatchID)
	require.Zero(t, result.InsertedCount)
	require.NotEmpty(t, result.Errors)
	require.Empty(t, batches.batches)
	require.Empty(t, placements.created)
}

func TestImportRealRowSupersedesPlaceholder(t *testing.T) {
	tenantID := uuid.New()
	asha := activeEmployee(tenantID, "VB1", "Asha Rao", employee.LevelL3, "Vantage")

	target := 500000.0
	placeholder := placement.Hydrate(
		tenantID, uuid.New(), placement.KindTeam, asha.ID(), uuid.Nil,
		placement.Fields{
			CandidateName: placement.PlaceholderCandidate,
			JoinDate:      placement.PlaceholderJoinDate,
			PlcKey:        placement.PlaceholderKey(asha.ID()),
			Summary:       placement.Summary{Target: &target},
		},
		time.Now(), time.Now(),
	)

	employees := &mockEmployeeRepo{staff: []employee.Employee{asha}}
	placements := &mockPlacementRepo{existing: []placement.Placement{placeholder}}
	batches := &mockBatchRepo{}
	svc := NewPlacementImportService(employees, placements, batches, quietBus())

	req := sheetimport.Request{
		Headers: []string{
			"Team", "VB Code", "Lead Name", "Yearly Revenue Target", "Achieved",
			"Achievement %", "Total Revenue", "Qualified For", "Total Incentive", "Incentive Paid",
		},
		Rows: [][]sheetimport.Cell{
			{"Vantage", "VB1", "Asha Rao", 600000.0, nil, nil, nil, nil, nil, nil},
			{"Candidate Name", "DOJ", "Client", "PLC ID", "Lead Name", "Split With"},
			{"Ravi Kumar", "2024-03-15", "Acme", "P1", nil, nil},
		},
	}

	result, err := svc.ImportTeam(testContext(tenantID), req)
	require.NoError(t, err)
	require.NotNil(t, result.BatchID)
	require.NotNil(t, result.Report)

	require.Len(t, placements.created, 1)
	require.Equal(t, "Ravi Kumar", placements.created[0].CandidateName())

	// The placeholder is wiped now that a real row exists.
	require.Len(t, placements.placeholderWipes, 1)
	require.Equal(t, []uuid.UUID{asha.ID()}, placements.placeholderWipes[0])
}

func TestImportPlaceholderReimportUpdatesInPlace(t *testing.T) {
	tenantID := uuid.New()
	asha := activeEmployee(tenantID, "VB1", "Asha Rao", employee.LevelL3, "Vantage")

	target := 500000.0
	placeholder := placement.Hydrate(
		tenantID, uuid.New(), placement.KindTeam, asha.ID(), uuid.Nil,
		placement.Fields{
			CandidateName: placement.PlaceholderCandidate,
			JoinDate:      placement.PlaceholderJoinDate,
			PlcKey:        placement.PlaceholderKey(asha.ID()),
			Summary:       placement.Summary{Target: &target},
		},
		time.Now(), time.Now(),
	)

	employees := &mockEmployeeRepo{staff: []employee.Employee{asha}}
	placements := &mockPlacementRepo{existing: []placement.Placement{placeholder}}
	batches := &mockBatchRepo{}
	svc := NewPlacementImportService(employees, placements, batches, quietBus())

	req := sheetimport.Request{
		Headers: []string{
			"Team", "VB Code", "Lead Name", "Yearly Revenue Target", "Achieved",
			"Achievement %", "Total Revenue", "Qualified For", "Total Incentive", "Incentive Paid",
		},
		Rows: [][]sheetimport.Cell{
			{"Vantage", "VB1", "Asha Rao", nil, 450000.0, nil, nil, nil, nil, nil},
		},
	}

	result, err := svc.ImportTeam(testContext(tenantID), req)
	require.NoError(t, err)
	require.NotNil(t, result.BatchID)

	// The summary-only re-import routes onto the stored placeholder.
	require.Empty(t, placements.created)
	require.Len(t, placements.updated, 1)
	require.Equal(t, placeholder.ID(), placements.updated[0].ID())

	// Merge keeps the previously-known target and adds the new achieved.
	merged := placements.updated[0].Summary()
	require.NotNil(t, merged.Target)
	require.InDelta(t, 500000.0, *merged.Target, 0.001)
	require.NotNil(t, merged.Achieved)
	require.InDelta(t, 450000.0, *merged.Achieved, 0.001)

	// No real rows arrived, so the stored placeholder must survive.
	require.Empty(t, placements.placeholderWipes)
}

func TestImportFallbackMatchOnSentinelKey(t *testing.T) {
	tenantID := uuid.New()
	meera := activeEmployee(tenantID, "VB2", "Meera Iyer", employee.LevelL2, "Vantage")

	stored := placement.Hydrate(
		tenantID, uuid.New(), placement.KindPersonal, meera.ID(), uuid.Nil,
		placement.Fields{
			CandidateName: "Ravi Kumar",
			JoinDate:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Client:        "Acme",
			PlcKey:        "",
		},
		time.Now(), time.Now(),
	)

	employees := &mockEmployeeRepo{staff: []employee.Employee{meera}}
	placements := &mockPlacementRepo{existing: []placement.Placement{stored}}
	batches := &mockBatchRepo{}
	svc := NewPlacementImportService(employees, placements, batches, quietBus())

	req := sheetimport.Request{
		Headers: personalHeaders(),
		Rows: [][]sheetimport.Cell{
			// Same candidate, client and join date; still no usable key.
			{"Ravi Kumar", "2024-03-15", "Acme", "NA", "Meera Iyer"},
		},
	}

	result, err := svc.ImportPersonal(testContext(tenantID), req)
	require.NoError(t, err)

	require.Empty(t, placements.created)
	require.Len(t, placements.updated, 1)
	require.Equal(t, stored.ID(), placements.updated[0].ID())
	require.Equal(t, 1, result.Summary.PlacementsUpdated)
}

func TestImportIsIdempotent(t *testing.T) {
	tenantID := uuid.New()
	meera := activeEmployee(tenantID, "VB2", "Meera Iyer", employee.LevelL2, "Vantage")

	employees := &mockEmployeeRepo{staff: []employee.Employee{meera}}
	placements := &mockPlacementRepo{}
	batches := &mockBatchRepo{}
	svc := NewPlacementImportService(employees, placements, batches, quietBus())

	req := sheetimport.Request{
		Headers: personalHeaders(),
		Rows: [][]sheetimport.Cell{
			{"Ravi Kumar", "2024-03-15", "Acme", "P1", "Meera Iyer"},
		},
	}

	first, err := svc.ImportPersonal(testContext(tenantID), req)
	require.NoError(t, err)
	require.Equal(t, 1, first.Summary.PlacementsCreated)

	// Re-running with what the first run stored routes to updates.
	placements.existing = placements.created
	second, err := svc.ImportPersonal(testContext(tenantID), req)
	require.NoError(t, err)
	require.Zero(t, second.Summary.PlacementsCreated)
	require.Equal(t, 1, second.Summary.PlacementsUpdated)
}
