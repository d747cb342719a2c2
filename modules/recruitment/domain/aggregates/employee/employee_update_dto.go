package employee

import (
	"strings"
	"time"
)

type UpdateDTO struct {
	DisplayName string `json:"displayName"`
	Level       string `json:"level"`
	TeamName    string `json:"teamName"`
	Active      *bool  `json:"active"`
}

// Apply returns a copy of the stored employee with the DTO fields set.
// Code and identity never change through this path.
func (d *UpdateDTO) Apply(existing Employee) (Employee, error) {
	if strings.TrimSpace(d.DisplayName) == "" {
		return Employee{}, ErrNameRequired
	}
	level := Level(strings.ToUpper(strings.TrimSpace(d.Level)))
	switch level {
	case LevelL2, LevelL3, LevelL4:
	default:
		return Employee{}, ErrBadLevel
	}
	active := existing.Active()
	if d.Active != nil {
		active = *d.Active
	}
	return Hydrate(
		existing.TenantID(),
		existing.ID(),
		existing.Code(),
		d.DisplayName,
		level,
		d.TeamName,
		active,
		existing.CreatedAt(),
		time.Now(),
	), nil
}
