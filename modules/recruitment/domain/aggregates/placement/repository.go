package placement

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	Kind   Kind
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Placement, int64, error)
	// GetByEmployeeIDs returns every stored row of the given kind for the
	// given entities; the import reconciler matches incoming rows against it.
	GetByEmployeeIDs(ctx context.Context, kind Kind, employeeIDs []uuid.UUID) ([]Placement, error)
	BulkCreate(ctx context.Context, items []Placement) ([]Placement, error)
	Update(ctx context.Context, item Placement) error
	// DeletePlaceholders removes summary-only rows for entities that gained
	// a real placement, returning how many were removed.
	DeletePlaceholders(ctx context.Context, kind Kind, employeeIDs []uuid.UUID) (int64, error)
}
