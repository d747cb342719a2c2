package recruitment

import (
	"embed"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/infrastructure/persistence"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/presentation/controllers"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/services"
	"github.com/talentgrid-hq/talentgrid/pkg/application"
)

//go:embed infrastructure/persistence/schema/recruitment-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.RegisterSchema(&MigrationFiles)
	batchRepo := persistence.NewImportBatchRepository()
	app.RegisterServices(
		services.NewEmployeeService(persistence.NewEmployeeRepository(), app.EventPublisher()),
		services.NewPlacementImportService(
			persistence.NewEmployeeRepository(),
			persistence.NewPlacementRepository(),
			batchRepo,
			app.EventPublisher(),
		),
		services.NewImportBatchService(batchRepo),
	)
	app.RegisterControllers(
		controllers.NewEmployeeController(app),
		controllers.NewImportController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "recruitment"
}
