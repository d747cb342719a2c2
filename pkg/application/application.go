package application

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talentgrid-hq/talentgrid/pkg/eventbus"
)

// Controller registers HTTP handlers on the shared router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Module is a self-contained feature set wiring its services and
// controllers into the application.
type Module interface {
	Name() string
	Register(app Application) error
}

type Application interface {
	RegisterServices(services ...any)
	RegisterControllers(controllers ...Controller)
	RegisterSchema(fs *embed.FS)
	Service(service any) any
	EventPublisher() eventbus.EventBus
	Router() *mux.Router
	Schemas() []*embed.FS
	RunMigrations(ctx context.Context, pool *pgxpool.Pool) error
}

type application struct {
	router      *mux.Router
	eventBus    eventbus.EventBus
	services    map[reflect.Type]any
	controllers map[string]Controller
	schemas     []*embed.FS
}

func New(router *mux.Router, eventBus eventbus.EventBus) Application {
	return &application{
		router:      router,
		eventBus:    eventBus,
		services:    map[reflect.Type]any{},
		controllers: map[string]Controller{},
	}
}

func (a *application) RegisterServices(services ...any) {
	for _, service := range services {
		a.services[reflect.TypeOf(service).Elem()] = service
	}
}

func (a *application) RegisterControllers(controllers ...Controller) {
	for _, c := range controllers {
		a.controllers[c.Key()] = c
		c.Register(a.router)
	}
}

func (a *application) RegisterSchema(fs *embed.FS) {
	a.schemas = append(a.schemas, fs)
}

// Service returns the registered service with the same type as the given
// zero value. Panics when the service was never registered.
func (a *application) Service(service any) any {
	svc, ok := a.services[reflect.TypeOf(service)]
	if !ok {
		panic(fmt.Sprintf("service %s not registered", reflect.TypeOf(service).Name()))
	}
	return svc
}

func (a *application) EventPublisher() eventbus.EventBus { return a.eventBus }
func (a *application) Router() *mux.Router               { return a.router }
func (a *application) Schemas() []*embed.FS              { return a.schemas }

// RunMigrations executes every registered schema file. Statements are
// written to be idempotent so reruns are safe.
func (a *application) RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	for _, schema := range a.schemas {
		err := fs.WalkDir(schema, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || path.Ext(p) != ".sql" {
				return nil
			}
			ddl, err := fs.ReadFile(schema, p)
			if err != nil {
				return err
			}
			_, err = pool.Exec(ctx, string(ddl))
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}
