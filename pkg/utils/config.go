package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Admin     AdminConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Name         string
	Port         string
	Debug        bool
	LogPath      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

// JWTConfig controls token issuance. IssueRefresh is the login policy flag:
// refresh tokens are only minted when it is set.
type JWTConfig struct {
	Secret       string
	Issuer       string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	IssueRefresh bool
}

type AuthConfig struct {
	MaxFailedLogins int
	LockoutWindow   time.Duration
}

type AdminConfig struct {
	Email    string
	Password string
}

type TelemetryConfig struct {
	Endpoint string
	Insecure bool
}

func LoadConfig() (*Config, error) {
	return LoadConfigFile(".env")
}

// LoadConfigFile reads path when it exists, then lets the environment override it.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "token-auth")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("HTTP_READ_TIMEOUT", "15s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "15s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("JWT_ISSUER", "token-auth")
	v.SetDefault("JWT_ACCESS_TTL", "24h")
	v.SetDefault("JWT_REFRESH_TTL", "720h")
	v.SetDefault("JWT_ISSUE_REFRESH", false)
	v.SetDefault("AUTH_MAX_FAILED_LOGINS", 5)
	v.SetDefault("AUTH_LOCKOUT_WINDOW", "15m")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:         v.GetString("APP_NAME"),
			Port:         v.GetString("PORT"),
			Debug:        v.GetBool("DEBUG"),
			LogPath:      v.GetString("LOG_PATH"),
			ReadTimeout:  v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("HTTP_WRITE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			Issuer:       v.GetString("JWT_ISSUER"),
			AccessTTL:    v.GetDuration("JWT_ACCESS_TTL"),
			RefreshTTL:   v.GetDuration("JWT_REFRESH_TTL"),
			IssueRefresh: v.GetBool("JWT_ISSUE_REFRESH"),
		},
		Auth: AuthConfig{
			MaxFailedLogins: v.GetInt("AUTH_MAX_FAILED_LOGINS"),
			LockoutWindow:   v.GetDuration("AUTH_LOCKOUT_WINDOW"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		Telemetry: TelemetryConfig{
			Endpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Insecure: v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT_ACCESS_TTL must be positive")
	}
	if c.JWT.IssueRefresh && c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT_REFRESH_TTL must be positive when refresh tokens are issued")
	}
	return nil
}

// DSN returns a libpq style connection string for pgxpool.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		d.User, d.Password, d.Name, d.Host, d.Port)
}

// MigrationURL returns the pgx5:// URL used by golang-migrate.
func (d DatabaseConfig) MigrationURL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}
