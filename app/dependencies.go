package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ritu-90/c25077715-cmt120-cw2/auth"
	"github.com/Ritu-90/c25077715-cmt120-cw2/config"
	"github.com/Ritu-90/c25077715-cmt120-cw2/handlers"
	"github.com/Ritu-90/c25077715-cmt120-cw2/middleware"
	"github.com/Ritu-90/c25077715-cmt120-cw2/repositories"
	"github.com/Ritu-90/c25077715-cmt120-cw2/repositories/postgres"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/accounts"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/contact"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/content"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/notify"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/projects"
	"github.com/Ritu-90/c25077715-cmt120-cw2/services/uploads"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Repos     *repositories.Repositories
	TxManager repositories.TransactionManager

	// Supporting services
	Images     *uploads.ImageStore
	Dispatcher *notify.Dispatcher

	// Domain services
	Accounts *accounts.Service
	Content  *content.Service
	Projects *projects.Service
	Contact  *contact.Service

	// Auth
	Sessions       *auth.SessionStore
	Tokens         *auth.TokenIssuer
	AuthMiddleware *middleware.AuthMiddleware

	// HTTP handlers
	AuthHandler    *handlers.AuthHandler
	ContentHandler *handlers.ContentHandler
	ProjectHandler *handlers.ProjectHandler
	ContactHandler *handlers.ContactHandler
	HealthHandler  *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps, err := build(ctx, cfg, factory, logger)
	if err != nil {
		_ = factory.Close()
		return nil, err
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// NewDependenciesWithDB wires the application over an already opened pool
func NewDependenciesWithDB(ctx context.Context, cfg *config.Config, db *sql.DB, logger *zap.Logger) (*Dependencies, error) {
	factory := postgres.NewRepositoryFactoryFromDB(postgres.WrapDB(db, logger), logger)
	return build(ctx, cfg, factory, logger)
}

func build(ctx context.Context, cfg *config.Config, factory *postgres.RepositoryFactory, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	if err := deps.initRepositories(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	if err := deps.initNotifications(); err != nil {
		return nil, fmt.Errorf("failed to initialize notifications: %w", err)
	}

	deps.initServices()
	deps.initAuth()
	deps.initHandlers()

	return deps, nil
}

// initRepositories creates the schema when enabled and builds all repository instances
func (d *Dependencies) initRepositories(ctx context.Context) error {
	if d.Config.Database.AutoMigrate {
		if err := d.RepoFactory.InitSchema(ctx); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		d.Logger.Info("database schema initialized")
	}

	d.Repos = d.RepoFactory.NewRepositories()
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
	return nil
}

// initNotifications starts the admin notification pool
func (d *Dependencies) initNotifications() error {
	mailer, err := notify.NewMailer(d.Config.Mail, d.Logger)
	if err != nil {
		return err
	}

	d.Dispatcher = notify.NewDispatcher(mailer, notify.OptionsFromConfig(d.Config.Mail), d.Logger)
	if err := d.Dispatcher.Start(); err != nil {
		return err
	}

	if !d.Config.Mail.MailEnabled() {
		d.Logger.Warn("mail provider not configured, admin notifications are discarded")
	}
	return nil
}

func (d *Dependencies) initServices() {
	d.Images = uploads.NewImageStore(d.Config.Upload.Dir, d.Logger)

	d.Accounts = accounts.NewService(d.Repos.Users, d.Config.Admin, d.Logger)
	d.Content = content.NewService(d.Repos, d.Images, d.Logger)
	d.Projects = projects.NewService(d.Repos, d.TxManager, d.Images, d.Logger)
	d.Contact = contact.NewService(d.Repos, d.Dispatcher, d.Logger)
}

func (d *Dependencies) initAuth() {
	d.Sessions = auth.NewSessionStore(auth.SessionOptions{
		Secret: d.Config.Session.Secret,
		MaxAge: d.Config.Session.MaxAge,
		Secure: d.Config.Session.Secure,
	})
	d.Tokens = auth.NewTokenIssuer(d.Config.Session.Secret, d.Config.Session.TokenTTL)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Tokens, d.Sessions, d.Logger)
}

func (d *Dependencies) initHandlers() {
	maxUpload := d.Config.Upload.MaxBytes

	d.AuthHandler = handlers.NewAuthHandler(d.Accounts, d.Sessions, d.Tokens, d.Logger)
	d.ContentHandler = handlers.NewContentHandler(d.Content, maxUpload, d.Logger)
	d.ProjectHandler = handlers.NewProjectHandler(d.Projects, maxUpload, d.Logger)
	d.ContactHandler = handlers.NewContactHandler(d.Contact, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB.DB, d.Dispatcher, d.Logger)
}

// Close gracefully shuts down all dependencies.
// The dispatcher drains before the database closes.
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.Dispatcher != nil {
		if err := d.Dispatcher.Stop(d.Config.Server.ShutdownTimeout); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop notification dispatcher: %w", err))
		} else {
			d.Logger.Info("notification dispatcher stopped")
		}
		d.Dispatcher = nil
	}

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
