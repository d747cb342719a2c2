package employee

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	Q      string
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Employee, int64, error)
	GetAllActive(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id uuid.UUID) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
	Create(ctx context.Context, e Employee) (Employee, error)
	Update(ctx context.Context, e Employee) error
}
