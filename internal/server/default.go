package server

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/talentgrid-hq/talentgrid/pkg/application"
	"github.com/talentgrid-hq/talentgrid/pkg/configuration"
	"github.com/talentgrid-hq/talentgrid/pkg/middleware"
	"github.com/talentgrid-hq/talentgrid/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

// Default assembles the standard middleware stack around the
// application router.
func Default(options *DefaultOptions) *server.HTTPServer {
	router := options.Application.Router()
	router.Use(
		middleware.RequestLogger(options.Logger),
		middleware.WithPool(options.Pool),
		middleware.TenantContext(),
	)
	return server.NewHTTPServer(router, options.Logger)
}
