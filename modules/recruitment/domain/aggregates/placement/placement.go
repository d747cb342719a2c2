package placement

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind separates recruiter ("personal") placements from team-lead ones.
// The two variants are structurally identical; personal rows key on the
// recruiter, team rows key on the lead and carry a split pair.
type Kind string

const (
	KindPersonal Kind = "personal"
	KindTeam     Kind = "team"
)

const (
	// PlaceholderKeyPrefix marks synthetic rows that only carry an
	// entity's summary snapshot until a real placement arrives.
	PlaceholderKeyPrefix = "SUMMARY#"
	// PlaceholderCandidate is the candidate-name sentinel on those rows.
	PlaceholderCandidate = "__summary__"
	// PassThroughKey is a business-key value exempt from uniqueness.
	PassThroughKey = "na"
)

// PlaceholderJoinDate is the fixed join date on placeholder rows.
var PlaceholderJoinDate = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// IsSentinelKey reports whether a business key is exempt from
// deduplication. Placeholder keys are intentionally not sentinel: they must
// collide with themselves so re-imports update in place.
func IsSentinelKey(key string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	return k == "" || k == "0" || k == PassThroughKey
}

// NormalizeKey is the canonical form used for all key comparisons.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// PlaceholderKey returns the reserved business key for an entity's
// summary-only row.
func PlaceholderKey(entityID uuid.UUID) string {
	return PlaceholderKeyPrefix + entityID.String()
}

// Summary is the per-person aggregate snapshot carried on the first row of
// a block. Nil fields were absent from the sheet.
type Summary struct {
	Target         *float64
	Achieved       *float64
	AchievementPct *float64
	TotalRevenue   *float64
	QualifiedFor   *string
	TotalIncentive *float64
	IncentivePaid  *float64
}

// Merge folds an incoming snapshot into the receiver. An incoming non-nil
// value wins; an incoming nil never clears an already-known value.
func (s Summary) Merge(in Summary) Summary {
	out := s
	if in.Target != nil {
		out.Target = in.Target
	}
	if in.Achieved != nil {
		out.Achieved = in.Achieved
	}
	if in.AchievementPct != nil {
		out.AchievementPct = in.AchievementPct
	}
	if in.TotalRevenue != nil {
		out.TotalRevenue = in.TotalRevenue
	}
	if in.QualifiedFor != nil {
		out.QualifiedFor = in.QualifiedFor
	}
	if in.TotalIncentive != nil {
		out.TotalIncentive = in.TotalIncentive
	}
	if in.IncentivePaid != nil {
		out.IncentivePaid = in.IncentivePaid
	}
	return out
}

func (s Summary) IsZero() bool {
	return s.Target == nil && s.Achieved == nil && s.AchievementPct == nil &&
		s.TotalRevenue == nil && s.QualifiedFor == nil &&
		s.TotalIncentive == nil && s.IncentivePaid == nil
}

type Placement struct {
	tenantID   uuid.UUID
	id         uuid.UUID
	kind       Kind
	employeeID uuid.UUID
	batchID    uuid.UUID

	candidateName string
	year          *int
	joinDate      time.Time
	quitDate      *time.Time
	client        string
	plcKey        string
	placementType string
	billingStatus string
	collectStatus string
	billedHours   *float64
	revenue       *float64
	incentive     *float64
	incentivePaid *float64

	// Team variant only.
	splitWith string
	leadName  string

	summary   Summary
	createdAt time.Time
	updatedAt time.Time
}

// Fields carries every sheet-derived attribute of a placement; it keeps
// constructor signatures sane given how wide the record is.
type Fields struct {
	CandidateName string
	Year          *int
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
	Summary       Summary
}

func New(tenantID uuid.UUID, kind Kind, employeeID uuid.UUID, f Fields) Placement {
	return Placement{
		tenantID:      tenantID,
		kind:          kind,
		employeeID:    employeeID,
		candidateName: strings.TrimSpace(f.CandidateName),
		year:          f.Year,
		joinDate:      f.JoinDate,
		quitDate:      f.QuitDate,
		client:        strings.TrimSpace(f.Client),
		plcKey:        strings.TrimSpace(f.PlcKey),
		placementType: strings.TrimSpace(f.PlacementType),
		billingStatus: strings.TrimSpace(f.BillingStatus),
		collectStatus: strings.TrimSpace(f.CollectStatus),
		billedHours:   f.BilledHours,
		revenue:       f.Revenue,
		incentive:     f.Incentive,
		incentivePaid: f.IncentivePaid,
		splitWith:     strings.TrimSpace(f.SplitWith),
		leadName:      strings.TrimSpace(f.LeadName),
		summary:       f.Summary,
	}
}

func Hydrate(
	tenantID uuid.UUID,
	id uuid.UUID,
	kind Kind,
	employeeID uuid.UUID,
	batchID uuid.UUID,
	f Fields,
	createdAt time.Time,
	updatedAt time.Time,
) Placement {
	p := New(tenantID, kind, employeeID, f)
	p.id = id
	p.batchID = batchID
	p.createdAt = createdAt
	p.updatedAt = updatedAt
	return p
}

func (p Placement) TenantID() uuid.UUID    { return p.tenantID }
func (p Placement) ID() uuid.UUID          { return p.id }
func (p Placement) Kind() Kind             { return p.kind }
func (p Placement) EmployeeID() uuid.UUID  { return p.employeeID }
func (p Placement) BatchID() uuid.UUID     { return p.batchID }
func (p Placement) CandidateName() string  { return p.candidateName }
func (p Placement) Year() *int             { return p.year }
func (p Placement) JoinDate() time.Time    { return p.joinDate }
func (p Placement) QuitDate() *time.Time   { return p.quitDate }
func (p Placement) Client() string         { return p.client }
func (p Placement) PlcKey() string         { return p.plcKey }
func (p Placement) PlacementType() string  { return p.placementType }
func (p Placement) BillingStatus() string  { return p.billingStatus }
func (p Placement) CollectStatus() string  { return p.collectStatus }
func (p Placement) BilledHours() *float64  { return p.billedHours }
func (p Placement) Revenue() *float64      { return p.revenue }
func (p Placement) Incentive() *float64    { return p.incentive }
func (p Placement) IncentivePaid() *float64 {
	return p.incentivePaid
}
func (p Placement) SplitWith() string     { return p.splitWith }
func (p Placement) LeadName() string      { return p.leadName }
func (p Placement) Summary() Summary      { return p.summary }
func (p Placement) CreatedAt() time.Time  { return p.createdAt }
func (p Placement) UpdatedAt() time.Time  { return p.updatedAt }

func (p Placement) IsPlaceholder() bool {
	return strings.HasPrefix(p.plcKey, PlaceholderKeyPrefix)
}

// WithBatchID stamps the import batch onto the record.
func (p Placement) WithBatchID(batchID uuid.UUID) Placement {
	p.batchID = batchID
	return p
}

// ApplyTo routes an incoming record onto an already-stored one, preserving
// the stored identity and creation time. Summary fields merge so a partial
// re-import does not clear previously-known metrics.
func (p Placement) ApplyTo(existing Placement) Placement {
	out := p
	out.id = existing.id
	out.tenantID = existing.tenantID
	out.createdAt = existing.createdAt
	out.summary = existing.summary.Merge(p.summary)
	return out
}
