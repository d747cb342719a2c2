package employee

import (
	"strings"

	"github.com/google/uuid"

	"github.com/talentgrid-hq/talentgrid/pkg/serrors"
)

var (
	ErrNameRequired  = serrors.NewError("EMPLOYEE_NAME_REQUIRED", "display name is required", "")
	ErrBadLevel      = serrors.NewError("EMPLOYEE_BAD_LEVEL", "level must be one of L2, L3, L4", "")
	ErrDuplicateCode = serrors.NewError("EMPLOYEE_DUPLICATE_CODE", "an employee with this code already exists", "")
)

type CreateDTO struct {
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
	Level       string `json:"level"`
	TeamName    string `json:"teamName"`
}

func (d *CreateDTO) ToEntity(tenantID uuid.UUID) (Employee, error) {
	if strings.TrimSpace(d.DisplayName) == "" {
		return Employee{}, ErrNameRequired
	}
	level := Level(strings.ToUpper(strings.TrimSpace(d.Level)))
	switch level {
	case LevelL2, LevelL3, LevelL4:
	default:
		return Employee{}, ErrBadLevel
	}
	return New(tenantID, d.Code, d.DisplayName, level, d.TeamName), nil
}
