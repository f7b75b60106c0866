// Package bootstrap assembles a dashboard container from configuration: the
// stores, the services acting on them, persistence and the ops surface.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/ops-dashboard/internal/api/metrics"
	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
	"github.com/99minutos/ops-dashboard/internal/core/service"
	"github.com/99minutos/ops-dashboard/internal/core/store"
	"github.com/99minutos/ops-dashboard/internal/infrastructure/api"
	"github.com/99minutos/ops-dashboard/internal/infrastructure/config"
	"github.com/99minutos/ops-dashboard/internal/infrastructure/db/mongo"
	"github.com/99minutos/ops-dashboard/internal/infrastructure/db/redis"
	"github.com/99minutos/ops-dashboard/internal/infrastructure/demo"
	opshttp "github.com/99minutos/ops-dashboard/internal/infrastructure/http"
	"github.com/99minutos/ops-dashboard/internal/infrastructure/http/handlers"
	"github.com/99minutos/ops-dashboard/internal/infrastructure/storage"
	"github.com/99minutos/ops-dashboard/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

// App is one running dashboard: a container plus the intents that drive it.
type App struct {
	Container *store.Container
	Auth      *service.AuthService
	Users     *service.UserService
	Tasks     *service.TaskService
	Media     *service.MediaService
	Ops       *echo.Echo

	cfg         *config.Config
	log         zerolog.Logger
	rdb         *goredis.Client
	mongoClient *gomongo.Client
	mongoDB     *gomongo.Database
	stopWatch   func()
}

// New wires an App from cfg and restores any persisted session. On error
// every connection opened so far is closed.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (app *App, err error) {
	app = &App{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			_ = app.Close(context.Background())
			app = nil
		}
	}()

	app.Container = store.NewContainer(
		store.WithLogger(logger.Component(log, "store")),
		store.WithObserver(metrics.Observer{}),
	)
	app.stopWatch = metrics.Watch(app.Container)

	if err := app.connect(ctx); err != nil {
		return app, err
	}

	persister, err := app.sessionPersister()
	if err != nil {
		return app, err
	}

	client := api.NewClient(api.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout}, persister, logger.Component(log, "api"))

	authenticator, err := app.authenticator(ctx, client)
	if err != nil {
		return app, err
	}

	svcLog := logger.Component(log, "service")
	app.Auth = service.NewAuthService(app.Container.Session, authenticator, client, persister, metrics.Observer{}, svcLog)
	app.Users = service.NewUserService(app.Container.Users, client, svcLog)
	app.Tasks = service.NewTaskService(app.Container, client, svcLog)
	app.Media = service.NewMediaService(client, svcLog)

	app.Ops = opshttp.NewRouter(opshttp.RouterConfig{
		Container: app.Container,
		Deps:      app.pingers(),
		Refresh:   app.Refresh,
		JWTSecret: cfg.OpsJWTSecret,
		Log:       logger.Component(log, "ops"),
	})

	restored, err := app.Auth.Rehydrate(ctx)
	if err != nil {
		return app, fmt.Errorf("rehydrate session: %w", err)
	}
	log.Info().
		Str("session_backend", cfg.Session.Backend).
		Str("auth_mode", cfg.Auth.Mode).
		Bool("session_restored", restored).
		Msg("dashboard container ready")
	return app, nil
}

// connect opens the backends cfg selects.
func (a *App) connect(ctx context.Context) error {
	if a.cfg.UsesRedis() {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		a.rdb = rdb
	}
	if a.cfg.UsesMongo() {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
		if err != nil {
			return err
		}
		a.mongoClient = client
		a.mongoDB = db
	}
	return nil
}

func (a *App) sessionPersister() (ports.SessionPersister, error) {
	switch a.cfg.Session.Backend {
	case config.SessionMemory:
		return storage.NewMemory(), nil
	case config.SessionFile:
		p, err := storage.NewFile(a.cfg.Session.File)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.SessionRedis:
		return redis.NewSessionStore(a.rdb, a.cfg.Session.Profile, a.cfg.Session.TTL), nil
	}
	return nil, fmt.Errorf("unknown session backend %q", a.cfg.Session.Backend)
}

func (a *App) authenticator(ctx context.Context, remote *api.Client) (ports.Authenticator, error) {
	if a.cfg.Auth.Mode != config.AuthDemo {
		return remote, nil
	}

	entries := demo.Builtin()
	if a.cfg.Auth.DemoUsersFile != "" {
		loaded, err := demo.LoadFile(a.cfg.Auth.DemoUsersFile)
		if err != nil {
			return nil, err
		}
		entries = loaded
	}

	var dir ports.CredentialDirectory
	switch a.cfg.Auth.Directory {
	case config.DirectoryMongo:
		operators := mongo.NewCredentialDirectory(a.mongoDB)
		if err := operators.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		if a.cfg.Auth.SeedMongoUsers {
			for _, e := range entries {
				if e.Password == "" {
					continue
				}
				if err := operators.Upsert(ctx, e.Identity(), e.Password); err != nil {
					return nil, fmt.Errorf("seed operator %q: %w", e.Username, err)
				}
			}
		}
		dir = operators
	default:
		static, err := demo.NewDirectory(entries)
		if err != nil {
			return nil, err
		}
		dir = static
	}

	a.log.Warn().Str("directory", a.cfg.Auth.Directory).Msg("demo authentication enabled, logins are not checked by the remote API")
	return demo.NewAuthenticator(dir, a.cfg.Auth.DemoJWTSecret, a.cfg.Auth.DemoTokenTTL, logger.Component(a.log, "demo")), nil
}

func (a *App) pingers() map[string]handlers.Pinger {
	deps := make(map[string]handlers.Pinger)
	if a.rdb != nil {
		deps["redis"] = redis.Pinger{Client: a.rdb}
	}
	if a.mongoClient != nil {
		deps["mongodb"] = mongo.Pinger{Client: a.mongoClient}
	}
	return deps
}

// Refresh reloads the users and tasks collections concurrently. Both fetches
// run to settlement; the first error is returned.
func (a *App) Refresh(ctx context.Context) error {
	if !a.Container.Session.Snapshot().IsAuthenticated {
		return domain.AuthError(domain.ErrNoIdentity)
	}
	var g errgroup.Group
	g.Go(func() error {
		_, err := a.Users.FetchAll(ctx)
		return err
	})
	g.Go(func() error {
		_, err := a.Tasks.FetchAll(ctx)
		return err
	})
	return g.Wait()
}

// ServeOps runs the ops HTTP surface on cfg.OpsAddr until ctx is done.
func (a *App) ServeOps(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.cfg.OpsAddr).Msg("ops server listening")
		errCh <- a.Ops.Start(a.cfg.OpsAddr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ops server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Ops.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("ops server shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ops server: %w", err)
		}
		a.log.Info().Msg("ops server stopped")
		return nil
	}
}

// Close releases backend connections. It is safe to call more than once.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.stopWatch != nil {
		a.stopWatch()
		a.stopWatch = nil
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
		a.rdb = nil
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("disconnect mongo: %w", err))
		}
		a.mongoClient = nil
	}
	return errors.Join(errs...)
}

// Run loads configuration from the environment, initialises the process
// logger and serves until ctx is done.
func Run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Env: cfg.Env})
	return Serve(ctx, cfg, log)
}

// Serve builds an App from cfg, runs its ops surface until ctx is done and
// closes it.
func Serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	app, err := New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	serveErr := app.ServeOps(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(serveErr, app.Close(closeCtx))
}
