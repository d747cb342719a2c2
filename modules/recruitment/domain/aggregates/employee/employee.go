package employee

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Level is the hierarchy tag carried by every employee. L2 recruiters make
// personal placements; L3/L4 leads own teams and appear on team sheets.
type Level string

const (
	LevelL2 Level = "L2"
	LevelL3 Level = "L3"
	LevelL4 Level = "L4"
)

type Employee struct {
	tenantID    uuid.UUID
	id          uuid.UUID
	code        string
	displayName string
	level       Level
	teamName    string
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
}

func New(tenantID uuid.UUID, code, displayName string, level Level, teamName string) Employee {
	return Employee{
		tenantID:    tenantID,
		code:        normalizeCode(code),
		displayName: strings.TrimSpace(displayName),
		level:       level,
		teamName:    strings.TrimSpace(teamName),
		active:      true,
	}
}

func Hydrate(
	tenantID uuid.UUID,
	id uuid.UUID,
	code string,
	displayName string,
	level Level,
	teamName string,
	active bool,
	createdAt time.Time,
	updatedAt time.Time,
) Employee {
	return Employee{
		tenantID:    tenantID,
		id:          id,
		code:        normalizeCode(code),
		displayName: strings.TrimSpace(displayName),
		level:       level,
		teamName:    strings.TrimSpace(teamName),
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (e Employee) TenantID() uuid.UUID  { return e.tenantID }
func (e Employee) ID() uuid.UUID        { return e.id }
func (e Employee) Code() string         { return e.code }
func (e Employee) DisplayName() string  { return e.displayName }
func (e Employee) Level() Level         { return e.level }
func (e Employee) TeamName() string     { return e.teamName }
func (e Employee) Active() bool         { return e.active }
func (e Employee) CreatedAt() time.Time { return e.createdAt }
func (e Employee) UpdatedAt() time.Time { return e.updatedAt }
func (e Employee) IsZero() bool         { return e.id == uuid.Nil && e.code == "" }

// IsLead reports whether the employee can head a team sheet block.
func (e Employee) IsLead() bool {
	return e.level == LevelL3 || e.level == LevelL4
}

func normalizeCode(v string) string { return strings.TrimSpace(v) }
