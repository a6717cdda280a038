package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "config/config.yml"

type AppConfig struct {
	Port           int           `yaml:"port" env:"PORT"`
	Env            string        `yaml:"env" env:"ENV"`
	GinMode        string        `yaml:"gin_mode" env:"GIN_MODE"`
	LogLevel       string        `yaml:"log_level" env:"LOG_LEVEL"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DRIVER"`
	DSN    string `yaml:"dsn" env:"DSN"`
	Debug  bool   `yaml:"debug" env:"DEBUG"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
}

type JWTConfig struct {
	AccessSecret       string        `yaml:"access_secret" env:"ACCESS_SECRET"`
	RefreshSecret      string        `yaml:"refresh_secret" env:"REFRESH_SECRET"`
	Issuer             string        `yaml:"issuer" env:"ISSUER"`
	AccessTTL          time.Duration `yaml:"access_ttl" env:"ACCESS_TTL"`
	RefreshTTL         time.Duration `yaml:"refresh_ttl" env:"REFRESH_TTL"`
	TrackRefreshTokens bool          `yaml:"track_refresh_tokens" env:"TRACK_REFRESH_TOKENS"`
}

type OTPConfig struct {
	TTL                time.Duration `yaml:"ttl" env:"TTL"`
	MaxAttempts        int           `yaml:"max_attempts" env:"MAX_ATTEMPTS"`
	ResetTicketTTL     time.Duration `yaml:"reset_ticket_ttl" env:"RESET_TICKET_TTL"`
	RequireResetTicket bool          `yaml:"require_reset_ticket" env:"REQUIRE_RESET_TICKET"`
}

type CookieConfig struct {
	Enabled     bool   `yaml:"enabled" env:"ENABLED"`
	Domain      string `yaml:"domain" env:"DOMAIN"`
	Secure      bool   `yaml:"secure" env:"SECURE"`
	SameSite    string `yaml:"same_site" env:"SAME_SITE"`
	AccessName  string `yaml:"access_name" env:"ACCESS_NAME"`
	RefreshName string `yaml:"refresh_name" env:"REFRESH_NAME"`
}

type EmailConfig struct {
	Host     string        `yaml:"host" env:"HOST"`
	Port     int           `yaml:"port" env:"PORT"`
	Username string        `yaml:"username" env:"USERNAME"`
	Password string        `yaml:"password" env:"PASSWORD"`
	From     string        `yaml:"from" env:"FROM"`
	TLS      string        `yaml:"tls" env:"TLS"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path" env:"MODEL_PATH"`
}

type RootConfig struct {
	Email    string `yaml:"email" env:"EMAIL"`
	Password string `yaml:"password" env:"PASSWORD"`
	Fullname string `yaml:"fullname" env:"FULLNAME"`
}

type TimeoutsConfig struct {
	External time.Duration `yaml:"external" env:"EXTERNAL"`
}

// Config is the whole service configuration. Values come from defaults, then
// the YAML file, then the environment (e.g. JWT_ACCESS_SECRET, OTP_TTL).
type Config struct {
	App      AppConfig      `yaml:"app" envPrefix:"APP_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
	Redis    RedisConfig    `yaml:"redis" envPrefix:"REDIS_"`
	JWT      JWTConfig      `yaml:"jwt" envPrefix:"JWT_"`
	OTP      OTPConfig      `yaml:"otp" envPrefix:"OTP_"`
	Cookie   CookieConfig   `yaml:"cookie" envPrefix:"COOKIE_"`
	Email    EmailConfig    `yaml:"email" envPrefix:"EMAIL_"`
	Casbin   CasbinConfig   `yaml:"casbin" envPrefix:"CASBIN_"`
	Root     RootConfig     `yaml:"root" envPrefix:"ROOT_"`
	Timeouts TimeoutsConfig `yaml:"timeouts" envPrefix:"TIMEOUTS_"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		App: AppConfig{
			Port:           8080,
			Env:            "development",
			GinMode:        "debug",
			LogLevel:       "info",
			RequestTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{Driver: "postgres"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		JWT: JWTConfig{
			Issuer:             "community-api",
			AccessTTL:          15 * time.Minute,
			RefreshTTL:         30 * 24 * time.Hour,
			TrackRefreshTokens: true,
		},
		OTP: OTPConfig{
			TTL:                10 * time.Minute,
			MaxAttempts:        5,
			ResetTicketTTL:     10 * time.Minute,
			RequireResetTicket: true,
		},
		Cookie: CookieConfig{
			SameSite:    "lax",
			AccessName:  "access_token",
			RefreshName: "refresh_token",
		},
		Email: EmailConfig{
			Port:    587,
			TLS:     "mandatory",
			Timeout: 10 * time.Second,
		},
		Casbin:   CasbinConfig{ModelPath: "config/rbac_model.conf"},
		Timeouts: TimeoutsConfig{External: 5 * time.Second},
	}
}

// Load reads .env (if present), the YAML file at CONFIG_PATH and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env: %w", err)
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}
	return LoadFrom(path)
}

// LoadFrom is Load without the .env step. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadConfigFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(bytes, cfg); err != nil {
		return fmt.Errorf("could not parse config yaml: %w", err)
	}
	return nil
}

// Validate checks the settings the service cannot run without
func (c *Config) Validate() error {
	err := validation.Errors{
		"app": validation.ValidateStruct(&c.App,
			validation.Field(&c.App.Port, validation.Required, validation.Min(1), validation.Max(65535)),
			validation.Field(&c.App.Env, validation.In("development", "test", "production")),
			validation.Field(&c.App.GinMode, validation.In("debug", "release", "test")),
			validation.Field(&c.App.LogLevel, validation.In("trace", "debug", "info", "warn", "error")),
		),
		"database": validation.ValidateStruct(&c.Database,
			validation.Field(&c.Database.Driver, validation.Required, validation.In("postgres", "mysql", "sqlite")),
			validation.Field(&c.Database.DSN, validation.Required),
		),
		"jwt": validation.ValidateStruct(&c.JWT,
			validation.Field(&c.JWT.AccessSecret, validation.Required),
			validation.Field(&c.JWT.RefreshSecret, validation.Required,
				validation.NotIn(c.JWT.AccessSecret).Error("must differ from the access secret")),
			validation.Field(&c.JWT.AccessTTL, validation.Required, validation.Min(time.Second)),
			validation.Field(&c.JWT.RefreshTTL, validation.Required, validation.Min(time.Second)),
		),
		"otp": validation.ValidateStruct(&c.OTP,
			validation.Field(&c.OTP.TTL, validation.Required, validation.Min(time.Second)),
			validation.Field(&c.OTP.ResetTicketTTL, validation.Required, validation.Min(time.Second)),
		),
		"cookie": validation.ValidateStruct(&c.Cookie,
			validation.Field(&c.Cookie.SameSite, validation.In("lax", "strict", "none")),
			validation.Field(&c.Cookie.AccessName, validation.Required),
			validation.Field(&c.Cookie.RefreshName, validation.Required),
		),
	}.Filter()
	return err
}

// IsProduction reports whether internal error detail must be hidden
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}
