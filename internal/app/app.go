// Package app assembles the service from configuration.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/api/http"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/api/http/handlers"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/auth"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/config"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/events"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/mail"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/observability"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/persistence"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/repository"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/repository/memory"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/service"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/storage"
)

// Repositories groups the persistence implementations in use.
type Repositories struct {
	Tickets     repository.TicketRepository
	History     repository.TicketHistoryRepository
	Technicians repository.TechnicianRepository
	Ratings     repository.RatingRepository
	Settings    repository.SettingRepository
	Staff       repository.StaffRepository
}

// Container holds the wired service.
type Container struct {
	Config        config.Config
	Logger        *zap.Logger
	Postgres      *persistence.Postgres
	Redis         *persistence.Redis
	Metrics       *observability.Metrics
	Dispatcher    events.Dispatcher
	Repos         Repositories
	Tokens        *auth.TokenManager
	Tickets       *service.TicketService
	Ratings       *service.RatingService
	Technicians   *service.TechnicianService
	Settings      *service.SettingsService
	Notifications *service.NotificationService
	Auth          *service.AuthService
	HTTP          *fiber.App
}

type options struct {
	postgres    *persistence.Postgres
	redis       *persistence.Redis
	objectStore storage.ObjectStore
	sender      mail.Sender
	clock       func() time.Time
}

// Option overrides a collaborator, mostly for tests.
type Option func(*options)

// WithPostgres reuses an already connected pool.
func WithPostgres(pg *persistence.Postgres) Option {
	return func(o *options) { o.postgres = pg }
}

// WithRedis reuses an already connected client.
func WithRedis(r *persistence.Redis) Option {
	return func(o *options) { o.redis = r }
}

// WithObjectStore replaces the configured photo store.
func WithObjectStore(store storage.ObjectStore) Option {
	return func(o *options) { o.objectStore = store }
}

// WithMailSender replaces the SMTP sender.
func WithMailSender(sender mail.Sender) Option {
	return func(o *options) { o.sender = sender }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// New connects to the configured backends and wires every component.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger, opts ...Option) (*Container, error) {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	pg := o.postgres
	if pg == nil {
		var err error
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if pg.Enabled() && cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
	}
	rdb := o.redis
	if rdb == nil {
		rdb = persistence.NewRedis(ctx, cfg.Redis, logger)
	}

	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Postgres:   pg,
		Redis:      rdb,
		Metrics:    observability.NewMetrics(),
		Dispatcher: events.NewInMemoryDispatcher(),
		Repos:      newRepositories(pg, o.clock),
	}
	if rdb.Enabled() {
		c.Repos.Settings = repository.NewCachedSettingRepository(c.Repos.Settings, rdb.Client, cfg.Redis.SettingsTTL(), logger)
	}

	objects := o.objectStore
	if objects == nil {
		var err error
		objects, err = storage.New(cfg.Storage, cfg.App.PublicURL, logger)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("init storage: %w", err)
		}
	}

	composer, err := mail.NewComposer(cfg.App.PublicURL)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Settings = service.NewSettingsService(c.Repos.Settings, cfg, logger)
	sender := o.sender
	if sender == nil {
		sender = mail.NewSMTPSender(c.Settings.ResolveSMTP, logger)
	}

	c.Tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	c.Tickets = service.NewTicketService(cfg, service.TicketDependencies{
		TicketRepo:     c.Repos.Tickets,
		HistoryRepo:    c.Repos.History,
		TechnicianRepo: c.Repos.Technicians,
		ObjectStore:    objects,
		Dispatcher:     c.Dispatcher,
		Logger:         logger,
		Clock:          o.clock,
	})
	c.Ratings = service.NewRatingService(c.Repos.Ratings, c.Repos.Tickets, c.Dispatcher, logger)
	c.Technicians = service.NewTechnicianService(c.Repos.Technicians)
	c.Auth = service.NewAuthService(cfg, c.Repos.Staff, c.Tokens, logger)
	c.Notifications = service.NewNotificationService(cfg, service.NotificationDependencies{
		Dispatcher: c.Dispatcher,
		Composer:   composer,
		Sender:     sender,
		Settings:   c.Settings,
		Logger:     logger,
		Clock:      o.clock,
	})
	c.Notifications.RegisterHandlers()

	c.HTTP = httptransport.NewApp(cfg.App, logger, c.Metrics)
	routes := httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rdb, c.Metrics),
		Auth:           handlers.NewAuthHandler(c.Auth),
		Tickets:        handlers.NewTicketsHandler(c.Tickets, cfg.App.Location()),
		Technicians:    handlers.NewTechniciansHandler(c.Technicians),
		Ratings:        handlers.NewRatingsHandler(c.Ratings),
		Settings:       handlers.NewSettingsHandler(c.Settings, c.Notifications),
		AuthMiddleware: auth.NewAuthMiddleware(c.Tokens, c.Repos.Staff),
	}
	if o.objectStore == nil && isLocalDriver(cfg.Storage.Driver) {
		routes.UploadsDir = cfg.Storage.LocalDir
	}
	httptransport.RegisterRoutes(c.HTTP, routes)
	return c, nil
}

// Close releases backend connections.
func (c *Container) Close() {
	c.Redis.Close()
	c.Postgres.Close()
}

func newRepositories(pg *persistence.Postgres, now func() time.Time) Repositories {
	if pg.Enabled() {
		pool := pg.PoolHandle()
		return Repositories{
			Tickets:     repository.NewTicketRepository(pool),
			History:     repository.NewTicketHistoryRepository(pool),
			Technicians: repository.NewTechnicianRepository(pool),
			Ratings:     repository.NewRatingRepository(pool),
			Settings:    repository.NewSettingRepository(pool),
			Staff:       repository.NewStaffRepository(pool),
		}
	}
	store := memory.NewStore().WithClock(now)
	return Repositories{
		Tickets:     store.Tickets(),
		History:     store.History(),
		Technicians: store.Technicians(),
		Ratings:     store.Ratings(),
		Settings:    store.Settings(),
		Staff:       store.Staff(),
	}
}

func isLocalDriver(driver string) bool {
	driver = strings.ToLower(driver)
	return driver == "" || driver == "local"
}
