package models

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Code        string
	DisplayName string
	Level       string
	TeamName    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Placement struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	EmployeeID uuid.UUID
	BatchID    *uuid.UUID
	Kind       string

	CandidateName string
	Year          *int32
	JoinDate      time.Time
	QuitDate      *time.Time
	Client        string
	PlcKey        string
	PlacementType string
	BillingStatus string
	CollectStatus string
	BilledHours   *float64
	Revenue       *float64
	Incentive     *float64
	IncentivePaid *float64
	SplitWith     string
	LeadName      string

	SummaryTarget         *float64
	SummaryAchieved       *float64
	SummaryAchievementPct *float64
	SummaryTotalRevenue   *float64
	SummaryQualifiedFor   *string
	SummaryTotalIncentive *float64
	SummaryIncentivePaid  *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ImportBatch struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Kind         string
	ActorID      *uuid.UUID
	SourceName   string
	CreatedCount int32
	UpdatedCount int32
	ErrorCount   int32
	CreatedAt    time.Time
}

type AuditEntry struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	BatchID   uuid.UUID
	ActorID   *uuid.UUID
	Action    string
	Details   string
	CreatedAt time.Time
}
