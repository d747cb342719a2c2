package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/employee"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/placement"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/entities/importbatch"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/services/sheetimport"
	"github.com/talentgrid-hq/talentgrid/pkg/composables"
	"github.com/talentgrid-hq/talentgrid/pkg/eventbus"
	"github.com/talentgrid-hq/talentgrid/pkg/metrics"
)

type ImportSummary struct {
	PlacementsCreated int `json:"placementsCreated"`
	PlacementsUpdated int `json:"placementsUpdated"`
	EmployeesUpdated  int `json:"employeesUpdated"`
}

type ImportResult struct {
	Summary       ImportSummary          `json:"summary"`
	BatchID       *uuid.UUID             `json:"batchId"`
	InsertedCount int                    `json:"insertedCount"`
	Errors        []sheetimport.RowError `json:"errors"`
	// Report is diagnostic and present on team imports only.
	Report *sheetimport.Report `json:"report,omitempty"`
}

// PlacementImportService runs the two sheet-ingestion entry points:
// scan the sheet with the engine, partition prepared rows into inserts
// and updates against stored records, and commit everything as one
// all-or-nothing transaction with a batch record and an audit entry.
type PlacementImportService struct {
	employees  employee.Repository
	placements placement.Repository
	batches    importbatch.Repository
	publisher  eventbus.EventBus
}

func NewPlacementImportService(
	employees employee.Repository,
	placements placement.Repository,
	batches importbatch.Repository,
	publisher eventbus.EventBus,
) *PlacementImportService {
	return &PlacementImportService{
		employees:  employees,
		placements: placements,
		batches:    batches,
		publisher:  publisher,
	}
}

func (s *PlacementImportService) ImportPersonal(ctx context.Context, req sheetimport.Request) (*ImportResult, error) {
	return s.runImport(ctx, sheetimport.Personal, req)
}

func (s *PlacementImportService) ImportTeam(ctx context.Context, req sheetimport.Request) (*ImportResult, error) {
	return s.runImport(ctx, sheetimport.Team, req)
}

func (s *PlacementImportService) runImport(ctx context.Context, kind sheetimport.Kind, req sheetimport.Request) (*ImportResult, error) {
	log := composables.UseLogger(ctx).WithField("import_kind", kind.String())
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	// Audit attribution only; system-initiated imports run without one.
	actorID, _ := composables.UseActorID(ctx)

	staff, err := s.employees.GetAllActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading employees for import")
	}

	scan, err := sheetimport.Run(kind, req, staff, log)
	if err != nil {
		metrics.ImportsTotal.WithLabelValues(kind.String(), "failed").Inc()
		return nil, err
	}

	pKind := placement.KindPersonal
	if kind == sheetimport.Team {
		pKind = placement.KindTeam
	}

	result := &ImportResult{Errors: scan.Errors}
	if kind == sheetimport.Team {
		result.Report = &scan.Report
	}

	err = composables.InTx(ctx, func(txCtx context.Context) error {
		entityIDs := entityIDsOf(scan.Rows)
		existing, err := s.placements.GetByEmployeeIDs(txCtx, pKind, entityIDs)
		if err != nil {
			return errors.Wrap(err, "loading stored placements")
		}
		byKey, byFallback := indexExisting(existing)

		var inserts, updates []placement.Placement
		touched := map[uuid.UUID]struct{}{}
		realRowEntities := map[uuid.UUID]struct{}{}

		for _, row := range scan.Rows {
			incoming := placement.New(tenantID, pKind, row.Entity.ID(), row.Fields)
			stored, found := matchExisting(incoming, byKey, byFallback)
			if found {
				updates = append(updates, incoming.ApplyTo(stored))
			} else {
				if !row.Placeholder && !insertable(incoming) {
					// Cannot represent a real placement; drop silently.
					continue
				}
				inserts = append(inserts, incoming)
			}
			touched[row.Entity.ID()] = struct{}{}
			if !row.Placeholder {
				realRowEntities[row.Entity.ID()] = struct{}{}
			}
		}

		if len(inserts) == 0 && len(updates) == 0 {
			return nil
		}

		batch, err := s.batches.CreateBatch(txCtx, importbatch.ImportBatch{
			TenantID:   tenantID,
			Kind:       kind.String(),
			ActorID:    actorID,
			SourceName: req.Source,
		})
		if err != nil {
			return errors.Wrap(err, "creating import batch")
		}

		for _, u := range updates {
			if err := s.placements.Update(txCtx, u.WithBatchID(batch.ID)); err != nil {
				return errors.Wrap(err, "updating placement")
			}
		}
		for i := range inserts {
			inserts[i] = inserts[i].WithBatchID(batch.ID)
		}
		created, err := s.placements.BulkCreate(txCtx, inserts)
		if err != nil {
			return errors.Wrap(err, "creating placements")
		}

		if len(realRowEntities) > 0 {
			if _, err := s.placements.DeletePlaceholders(txCtx, pKind, keys(realRowEntities)); err != nil {
				return errors.Wrap(err, "deleting superseded placeholders")
			}
		}

		batch.CreatedCount = len(created)
		batch.UpdatedCount = len(updates)
		batch.ErrorCount = len(scan.Errors)
		if err := s.batches.UpdateCounts(txCtx, batch); err != nil {
			return errors.Wrap(err, "recording batch counts")
		}

		details, _ := json.Marshal(map[string]any{
			"created": len(created),
			"updated": len(updates),
			"errors":  len(scan.Errors),
			"source":  req.Source,
		})
		if err := s.batches.CreateAudit(txCtx, importbatch.AuditEntry{
			TenantID: tenantID,
			BatchID:  batch.ID,
			ActorID:  actorID,
			Action:   fmt.Sprintf("%s_placement_import", kind),
			Details:  string(details),
		}); err != nil {
			return errors.Wrap(err, "writing audit entry")
		}

		result.BatchID = &batch.ID
		result.InsertedCount = len(created)
		result.Summary = ImportSummary{
			PlacementsCreated: len(created),
			PlacementsUpdated: len(updates),
			EmployeesUpdated:  len(touched),
		}
		return nil
	})
	if err != nil {
		metrics.ImportsTotal.WithLabelValues(kind.String(), "failed").Inc()
		return nil, err
	}

	metrics.ImportsTotal.WithLabelValues(kind.String(), "ok").Inc()
	metrics.ImportRowsTotal.WithLabelValues(kind.String(), "insert").Add(float64(result.Summary.PlacementsCreated))
	metrics.ImportRowsTotal.WithLabelValues(kind.String(), "update").Add(float64(result.Summary.PlacementsUpdated))
	s.publisher.Publish(&ImportCompletedEvent{Kind: kind.String(), Result: *result})
	return result, nil
}

// ImportCompletedEvent is published after a committed import.
type ImportCompletedEvent struct {
	Kind   string
	Result ImportResult
}

// insertable guards the insert path: a row without candidate, join date
// and client cannot represent a real placement.
func insertable(p placement.Placement) bool {
	return p.CandidateName() != "" && !p.JoinDate().IsZero() && p.Client() != ""
}

func entityIDsOf(rows []sheetimport.Row) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{}
	out := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		id := row.Entity.ID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// indexExisting builds the two stored-row lookups: primary by business
// key, fallback by the (candidate, client, join date) identity for rows
// whose key is sentinel.
func indexExisting(existing []placement.Placement) (map[string]placement.Placement, map[string]placement.Placement) {
	byKey := map[string]placement.Placement{}
	byFallback := map[string]placement.Placement{}
	for _, p := range existing {
		if key := placement.NormalizeKey(p.PlcKey()); !placement.IsSentinelKey(key) {
			byKey[keyLookup(p.EmployeeID(), key)] = p
		}
		byFallback[fallbackLookup(p)] = p
	}
	return byKey, byFallback
}

func matchExisting(incoming placement.Placement, byKey, byFallback map[string]placement.Placement) (placement.Placement, bool) {
	if key := placement.NormalizeKey(incoming.PlcKey()); !placement.IsSentinelKey(key) {
		stored, ok := byKey[keyLookup(incoming.EmployeeID(), key)]
		return stored, ok
	}
	stored, ok := byFallback[fallbackLookup(incoming)]
	return stored, ok
}

func keyLookup(employeeID uuid.UUID, normKey string) string {
	return employeeID.String() + "|" + normKey
}

func fallbackLookup(p placement.Placement) string {
	return strings.Join([]string{
		p.EmployeeID().String(),
		strings.ToLower(p.CandidateName()),
		strings.ToLower(p.Client()),
		p.JoinDate().UTC().Format("2006-01-02"),
	}, "|")
}

func keys(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
