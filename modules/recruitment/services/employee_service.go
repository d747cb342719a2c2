package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/employee"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/infrastructure/persistence"
	"github.com/talentgrid-hq/talentgrid/pkg/composables"
	"github.com/talentgrid-hq/talentgrid/pkg/eventbus"
)

type EmployeeService struct {
	repo      employee.Repository
	publisher eventbus.EventBus
}

func NewEmployeeService(repo employee.Repository, publisher eventbus.EventBus) *EmployeeService {
	return &EmployeeService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *EmployeeService) GetPaginated(ctx context.Context, params *employee.FindParams) ([]employee.Employee, int64, error) {
	type page struct {
		items []employee.Employee
		total int64
	}
	out, err := composables.InTxResult(ctx, func(txCtx context.Context) (page, error) {
		items, total, err := s.repo.GetPaginated(txCtx, params)
		return page{items: items, total: total}, err
	})
	return out.items, out.total, err
}

func (s *EmployeeService) GetAllActive(ctx context.Context) ([]employee.Employee, error) {
	return s.repo.GetAllActive(ctx)
}

func (s *EmployeeService) GetByID(ctx context.Context, id uuid.UUID) (employee.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EmployeeService) Create(ctx context.Context, data *employee.CreateDTO) (employee.Employee, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		entity, err := data.ToEntity(tenantID)
		if err != nil {
			return employee.Employee{}, err
		}
		if entity.Code() != "" {
			if _, err := s.repo.GetByCode(txCtx, entity.Code()); err == nil {
				return employee.Employee{}, employee.ErrDuplicateCode
			} else if !errors.Is(err, persistence.ErrEmployeeNotFound) {
				return employee.Employee{}, err
			}
		}
		created, err := s.repo.Create(txCtx, entity)
		if err != nil {
			return employee.Employee{}, err
		}
		s.publisher.Publish(employee.NewCreatedEvent(created))
		return created, nil
	})
}

func (s *EmployeeService) Update(ctx context.Context, data employee.Employee) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, data); err != nil {
			return err
		}
		s.publisher.Publish(employee.NewUpdatedEvent(data))
		return nil
	})
}
