package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/config"
	httpx "github.com/DevByte-Community/Community-API-Backend-sub000/internal/http"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/cookies"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/handlers"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/middleware"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/http/response"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/infrastructure/audit"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/infrastructure/auth"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/infrastructure/database"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/infrastructure/notifications"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/infrastructure/repositories"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *logrus.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	// Repositories
	UserRepo      domain.UserRepository
	RefreshTokens domain.RefreshTokenStore
	ResetTickets  domain.ResetTicketStore

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	OTPSvc          domain.OTPService
	AuthSvc         domain.AuthService
	RoleSvc         domain.RoleService
	PolicySvc       domain.PolicyService
	Audit           domain.AuditLogger
	RootSeeder      *services.RootSeeder

	// HTTP
	Cookies *cookies.Policy
}

// NewContainer connects to the configured database and redis, then wires
// everything on top of them.
func NewContainer(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Container, error) {
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Debug)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}

	rc := database.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := rc.Ping(ctx); err != nil {
		return nil, err
	}

	return NewContainerWith(cfg, log, db, rc.Client)
}

// Option overrides a dependency before the services are wired
type Option func(*Container)

// WithNotifier replaces the configured email transport
func WithNotifier(n domain.NotificationService) Option {
	return func(c *Container) { c.NotificationSvc = n }
}

// NewContainerWith wires the services over an already migrated database and
// a redis client. Tests use it with sqlite and miniredis.
func NewContainerWith(cfg *config.Config, log *logrus.Logger, db *gorm.DB, rdb *redis.Client, opts ...Option) (*Container, error) {
	c := &Container{Config: cfg, Logger: log, DB: db, RedisClient: rdb}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.initCasbin(); err != nil {
		return nil, err
	}
	c.initRepositories()
	c.initServices()
	c.Cookies = cookies.NewPolicy(cfg.Cookie, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	return c, nil
}

func (c *Container) initCasbin() error {
	cas, err := auth.NewCasbinService(c.DB, c.Config.Casbin.ModelPath)
	if err != nil {
		return err
	}
	if err := cas.SeedDefaults(); err != nil {
		return err
	}
	c.Casbin = cas
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.RefreshTokens = repositories.NewRefreshTokenRepository(c.RedisClient)
	c.ResetTickets = repositories.NewResetTicketRepository(c.RedisClient)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(auth.JWTConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Issuer:        cfg.JWT.Issuer,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})

	switch {
	case c.NotificationSvc != nil:
	case cfg.Email.Host != "":
		c.NotificationSvc = notifications.NewSMTPService(notifications.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			TLS:      cfg.Email.TLS,
			Timeout:  cfg.Email.Timeout,
		})
	default:
		c.NotificationSvc = notifications.NewLogService(c.Logger)
	}

	c.Audit = audit.NewLogrusAuditLogger(c.Logger)
	c.OTPSvc = services.NewOTPService(c.RedisClient, services.OTPConfig{
		TTL:         cfg.OTP.TTL,
		MaxAttempts: cfg.OTP.MaxAttempts,
	})
	c.PolicySvc = services.NewPolicyService(c.Casbin.E, c.Logger)
	c.RoleSvc = services.NewRoleService(c.UserRepo, c.Audit, c.Logger, cfg.Timeouts.External)
	c.RootSeeder = services.NewRootSeeder(c.UserRepo, c.PasswordSvc, c.Audit, c.Logger)

	c.AuthSvc = services.NewAuthService(services.AuthDeps{
		Users:         c.UserRepo,
		Passwords:     c.PasswordSvc,
		Tokens:        c.TokenSvc,
		OTP:           c.OTPSvc,
		Notifier:      c.NotificationSvc,
		RefreshTokens: c.RefreshTokens,
		ResetTickets:  c.ResetTickets,
		Audit:         c.Audit,
		Logger:        c.Logger,
	}, services.AuthConfig{
		ExternalTimeout:    cfg.Timeouts.External,
		OTPTTL:             cfg.OTP.TTL,
		ResetTicketTTL:     cfg.OTP.ResetTicketTTL,
		RequireResetTicket: cfg.OTP.RequireResetTicket,
		TrackRefreshTokens: cfg.JWT.TrackRefreshTokens,
	})
}

// SeedRoot creates the configured ROOT account if none exists yet
func (c *Container) SeedRoot(ctx context.Context) error {
	_, err := c.RootSeeder.Seed(ctx, services.RootAccount{
		Email:    c.Config.Root.Email,
		Password: c.Config.Root.Password,
		Fullname: c.Config.Root.Fullname,
	})
	if err != nil {
		return fmt.Errorf("seed root account: %w", err)
	}
	return nil
}

// Router builds the HTTP handler tree
func (c *Container) Router() *gin.Engine {
	resp := response.NewWriter(c.Config.IsProduction(), c.Logger)

	authH := handlers.NewAuthHandlers(c.AuthSvc, c.Cookies, resp)
	roleH := handlers.NewRoleHandlers(c.RoleSvc, resp)
	polH := handlers.NewPolicyHandlers(c.PolicySvc, resp)

	jwtMW := middleware.NewAuthMW(c.TokenSvc, c.Cookies, c.Logger)
	casbinMW := middleware.NewCasbinMW(c.PolicySvc, c.Logger)

	return httpx.BuildRouter(authH, roleH, polH, jwtMW, casbinMW, c.Logger)
}

// Close waits for background deliveries, then closes all connections
func (c *Container) Close() error {
	if d, ok := c.AuthSvc.(interface{ Drain() }); ok {
		d.Drain()
	}
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
