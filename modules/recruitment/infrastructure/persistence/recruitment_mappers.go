package persistence

import (
	"github.com/google/uuid"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/employee"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/placement"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/entities/importbatch"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/infrastructure/persistence/models"
)

func toDomainEmployee(row *models.Employee) employee.Employee {
	return employee.Hydrate(
		row.TenantID,
		row.ID,
		row.Code,
		row.DisplayName,
		employee.Level(row.Level),
		row.TeamName,
		row.Active,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDBEmployee(e employee.Employee) *models.Employee {
	return &models.Employee{
		ID:          e.ID(),
		TenantID:    e.TenantID(),
		Code:        e.Code(),
		DisplayName: e.DisplayName(),
		Level:       string(e.Level()),
		TeamName:    e.TeamName(),
		Active:      e.Active(),
		CreatedAt:   e.CreatedAt(),
		UpdatedAt:   e.UpdatedAt(),
	}
}

func toDomainPlacement(row *models.Placement) placement.Placement {
	batchID := uuid.Nil
	if row.BatchID != nil {
		batchID = *row.BatchID
	}
	var year *int
	if row.Year != nil {
		y := int(*row.Year)
		year = &y
	}
	return placement.Hydrate(
		row.TenantID,
		row.ID,
		placement.Kind(row.Kind),
		row.EmployeeID,
		batchID,
		placement.Fields{
			CandidateName: row.CandidateName,
			Year:          year,
			JoinDate:      row.JoinDate.UTC(),
			QuitDate:      row.QuitDate,
			Client:        row.Client,
			PlcKey:        row.PlcKey,
			PlacementType: row.PlacementType,
			BillingStatus: row.BillingStatus,
			CollectStatus: row.CollectStatus,
			BilledHours:   row.BilledHours,
			Revenue:       row.Revenue,
			Incentive:     row.Incentive,
			IncentivePaid: row.IncentivePaid,
			SplitWith:     row.SplitWith,
			LeadName:      row.LeadName,
			Summary: placement.Summary{
				Target:         row.SummaryTarget,
				Achieved:       row.SummaryAchieved,
				AchievementPct: row.SummaryAchievementPct,
				TotalRevenue:   row.SummaryTotalRevenue,
				QualifiedFor:   row.SummaryQualifiedFor,
				TotalIncentive: row.SummaryTotalIncentive,
				IncentivePaid:  row.SummaryIncentivePaid,
			},
		},
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDBPlacement(p placement.Placement) *models.Placement {
	var batchID *uuid.UUID
	if p.BatchID() != uuid.Nil {
		id := p.BatchID()
		batchID = &id
	}
	var year *int32
	if p.Year() != nil {
		y := int32(*p.Year())
		year = &y
	}
	summary := p.Summary()
	return &models.Placement{
		ID:         p.ID(),
		TenantID:   p.TenantID(),
		EmployeeID: p.EmployeeID(),
		BatchID:    batchID,
		Kind:       string(p.Kind()),

		CandidateName: p.CandidateName(),
		Year:          year,
		JoinDate:      p.JoinDate().UTC(),
		QuitDate:      p.QuitDate(),
		Client:        p.Client(),
		PlcKey:        p.PlcKey(),
		PlacementType: p.PlacementType(),
		BillingStatus: p.BillingStatus(),
		CollectStatus: p.CollectStatus(),
		BilledHours:   p.BilledHours(),
		Revenue:       p.Revenue(),
		Incentive:     p.Incentive(),
		IncentivePaid: p.IncentivePaid(),
		SplitWith:     p.SplitWith(),
		LeadName:      p.LeadName(),

		SummaryTarget:         summary.Target,
		SummaryAchieved:       summary.Achieved,
		SummaryAchievementPct: summary.AchievementPct,
		SummaryTotalRevenue:   summary.TotalRevenue,
		SummaryQualifiedFor:   summary.QualifiedFor,
		SummaryTotalIncentive: summary.TotalIncentive,
		SummaryIncentivePaid:  summary.IncentivePaid,

		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func toDomainImportBatch(row *models.ImportBatch) importbatch.ImportBatch {
	actorID := uuid.Nil
	if row.ActorID != nil {
		actorID = *row.ActorID
	}
	return importbatch.ImportBatch{
		ID:           row.ID,
		TenantID:     row.TenantID,
		Kind:         row.Kind,
		ActorID:      actorID,
		SourceName:   row.SourceName,
		CreatedCount: int(row.CreatedCount),
		UpdatedCount: int(row.UpdatedCount),
		ErrorCount:   int(row.ErrorCount),
		CreatedAt:    row.CreatedAt,
	}
}

func nullableActor(actorID uuid.UUID) *uuid.UUID {
	if actorID == uuid.Nil {
		return nil
	}
	return &actorID
}
