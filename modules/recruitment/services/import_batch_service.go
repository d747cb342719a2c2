package services

import (
	"context"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/entities/importbatch"
	"github.com/talentgrid-hq/talentgrid/pkg/composables"
)

// ImportBatchService exposes import history for read-only listing.
type ImportBatchService struct {
	repo importbatch.Repository
}

func NewImportBatchService(repo importbatch.Repository) *ImportBatchService {
	return &ImportBatchService{repo: repo}
}

func (s *ImportBatchService) GetPaginated(ctx context.Context, limit, offset int) ([]importbatch.ImportBatch, int64, error) {
	type page struct {
		items []importbatch.ImportBatch
		total int64
	}
	out, err := composables.InTxResult(ctx, func(txCtx context.Context) (page, error) {
		items, total, err := s.repo.GetPaginated(txCtx, limit, offset)
		return page{items: items, total: total}, err
	})
	return out.items, out.total, err
}
