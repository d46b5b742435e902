package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	auth "github.com/SrEloyF/lab7-back"
	"github.com/SrEloyF/lab7-back/cmd/authd/config"
	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config *gconfig.Container[*config.BaseConfig]
	bunDB  *bun.DB
	repo   auth.RepositoryManager
	auther *auth.Auther
	srv    router.Server[*fiber.App]
	logger *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) SetRepository(repo auth.RepositoryManager) {
	a.repo = repo
}

func (a *App) SetDB(db *bun.DB) {
	a.bunDB = db
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func (a *App) SetHTTPServer(srv router.Server[*fiber.App]) {
	a.srv = srv
}

func (a *App) SetAuthenticator(auther *auth.Auther) {
	a.auther = auther
}

func main() {

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("authd"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{
		Auth: config.Auth{
			SigningKey: os.Getenv("AUTH_SIGNING_KEY"),
		},
	}).WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	fmt.Println("============")
	fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
	fmt.Println("============")

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	if err := WithAuth(ctx, app); err != nil {
		panic(err)
	}

	ProtectedRoutes(app)

	app.srv.Serve(app.Config().GetServer().GetAddress())

	WaitExitSignal()

}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.Config().GetPersistence().GetDSN())
	if err != nil {
		log.Fatal(err)
		return err
	}

	persistence.RegisterModel((*auth.User)(nil))
	persistence.RegisterModel((*auth.Role)(nil))
	persistence.RegisterModel((*auth.UserRole)(nil))

	cfg := app.Config().GetPersistence()
	dialect := sqlitedialect.New()
	client, err := persistence.New(cfg, db, dialect)
	if err != nil {
		log.Fatal(err)
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))
	migrationsFS, err := fs.Sub(auth.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)
	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	// Role rows use fixed ids, so truncate and reseed is stable across restarts.
	client.RegisterFixtures(auth.GetFixturesFS()).AddOptions(persistence.WithTrucateTables())

	if err := client.Seed(ctx); err != nil {
		return err
	}

	if report := client.Report(); report != nil && !report.IsZero() {
		fmt.Printf("report: %s\n", report.String())
	}

	app.SetDB(client.DB())
	app.SetRepository(auth.NewRepositoryManager(client.DB()))

	return nil
}

func WithHTTPServer(ctx context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: true,
			StrictRouting:     false,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	srv.Router().Get("/", func(ctx router.Context) error {
		return ctx.JSON(router.StatusOK, map[string]any{
			"message": "Welcome to the authentication service.",
		})
	})

	app.SetHTTPServer(srv)

	return nil
}

func WithAuth(ctx context.Context, app *App) error {
	cfg := app.Config().GetAuth()

	if err := app.repo.Validate(); err != nil {
		return err
	}

	userProvider := auth.NewUserProvider(app.repo.Users())
	userProvider.WithLogger(app.GetLogger("auth:prv"))

	roleResolver := auth.NewRoleResolver(app.bunDB)
	roleResolver.WithLogger(app.GetLogger("auth:roles"))

	authenticator := auth.NewAuthenticator(userProvider, roleResolver, cfg)
	authenticator.WithLogger(app.GetLogger("auth:authz"))

	app.SetAuthenticator(authenticator)

	registration := auth.NewRegisterUserHandler(app.repo)

	auth.RegisterAuthRoutes(app.srv.Router(),
		auth.WithControllerLogger(app.GetLogger("auth:ctrl")),
		auth.WithControllerAuthenticator(authenticator),
		auth.WithControllerRegistration(registration),
	)

	return nil
}

// ProtectedRoutes mounts the role gated sample content endpoints
func ProtectedRoutes(app *App) {
	p := app.srv.Router()

	cfg := app.Config().GetAuth()

	guarded := auth.TokenGuard(auth.GuardConfig{
		Validator:  app.auther.TokenService(),
		ContextKey: cfg.GetContextKey(),
		AuthScheme: cfg.GetAuthScheme(),
		Logger:     app.GetLogger("auth:guard"),
	})

	p.Get("/api/test/all", func(ctx router.Context) error {
		return ctx.Status(router.StatusOK).SendString("Public Content.")
	})

	p.Get("/api/test/user", func(ctx router.Context) error {
		return ctx.Status(router.StatusOK).SendString("User Content.")
	}, guarded)

	p.Get("/api/test/mod", func(ctx router.Context) error {
		return ctx.Status(router.StatusOK).SendString("Moderator Content.")
	}, guarded, auth.RequireAuthority(auth.Authority(auth.RoleModerator), cfg.GetContextKey()))

	p.Get("/api/test/admin", func(ctx router.Context) error {
		return ctx.Status(router.StatusOK).SendString("Admin Content.")
	}, guarded, auth.RequireAuthority(auth.Authority(auth.RoleAdmin), cfg.GetContextKey()))
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
