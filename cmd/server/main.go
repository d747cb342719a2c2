package main

import (
	"context"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	internalserver "github.com/talentgrid-hq/talentgrid/internal/server"
	"github.com/talentgrid-hq/talentgrid/modules"
	"github.com/talentgrid-hq/talentgrid/pkg/application"
	"github.com/talentgrid-hq/talentgrid/pkg/configuration"
	"github.com/talentgrid-hq/talentgrid/pkg/eventbus"
	"github.com/talentgrid-hq/talentgrid/pkg/metrics"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	app := application.New(mux.NewRouter(), eventbus.NewEventPublisher(logger))
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}
	app.RegisterControllers(metrics.NewPrometheusController(""))

	if err := app.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	serverInstance := internalserver.Default(&internalserver.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	logger.Infof("listening on %s", conf.SocketAddress)
	if err := serverInstance.Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
