package modules

import (
	"github.com/talentgrid-hq/talentgrid/modules/recruitment"
	"github.com/talentgrid-hq/talentgrid/pkg/application"
)

var BuiltInModules = []application.Module{
	recruitment.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
