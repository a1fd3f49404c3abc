package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Log     LogConfig
	CORS    CORSConfig
	Accrual AccrualConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// IsProduction reports whether the server runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	Name           string        `mapstructure:"name"`
	SSLMode        string        `mapstructure:"sslmode"`
	MaxOpen        int           `mapstructure:"max_open"`
	MaxIdle        int           `mapstructure:"max_idle"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings. A single "*" origin allows any origin.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AllowAll reports whether every origin is allowed.
func (c *CORSConfig) AllowAll() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return len(c.AllowedOrigins) == 0
}

// AccrualConfig holds penalty accrual worker settings.
type AccrualConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Interval   time.Duration `mapstructure:"interval"`
	RunOnStart bool          `mapstructure:"run_on_start"`
}

// Load reads configuration from environment variables with the REVPORTAL_
// prefix. A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("REVPORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "20s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "revportal")
	v.SetDefault("db.password", "revportal_secret")
	v.SetDefault("db.name", "revportal_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.connect_timeout", "30s")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "*")

	// Accrual defaults
	v.SetDefault("accrual.enabled", true)
	v.SetDefault("accrual.interval", "24h")
	v.SetDefault("accrual.run_on_start", true)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "REVPORTAL_SERVER_PORT",
		"server.read_timeout":     "REVPORTAL_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "REVPORTAL_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout": "REVPORTAL_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":      "REVPORTAL_SERVER_ENVIRONMENT",
		"db.host":                 "REVPORTAL_DB_HOST",
		"db.port":                 "REVPORTAL_DB_PORT",
		"db.user":                 "REVPORTAL_DB_USER",
		"db.password":             "REVPORTAL_DB_PASSWORD",
		"db.name":                 "REVPORTAL_DB_NAME",
		"db.sslmode":              "REVPORTAL_DB_SSLMODE",
		"db.max_open":             "REVPORTAL_DB_MAX_OPEN",
		"db.max_idle":             "REVPORTAL_DB_MAX_IDLE",
		"db.connect_timeout":      "REVPORTAL_DB_CONNECT_TIMEOUT",
		"log.level":               "REVPORTAL_LOG_LEVEL",
		"log.format":              "REVPORTAL_LOG_FORMAT",
		"cors.allowed_origins":    "REVPORTAL_CORS_ALLOWED_ORIGINS",
		"accrual.enabled":         "REVPORTAL_ACCRUAL_ENABLED",
		"accrual.interval":        "REVPORTAL_ACCRUAL_INTERVAL",
		"accrual.run_on_start":    "REVPORTAL_ACCRUAL_RUN_ON_START",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if REVPORTAL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("REVPORTAL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:           v.GetString("db.host"),
		Port:           v.GetInt("db.port"),
		User:           v.GetString("db.user"),
		Password:       v.GetString("db.password"),
		Name:           v.GetString("db.name"),
		SSLMode:        v.GetString("db.sslmode"),
		MaxOpen:        v.GetInt("db.max_open"),
		MaxIdle:        v.GetInt("db.max_idle"),
		ConnectTimeout: v.GetDuration("db.connect_timeout"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Accrual = AccrualConfig{
		Enabled:    v.GetBool("accrual.enabled"),
		Interval:   v.GetDuration("accrual.interval"),
		RunOnStart: v.GetBool("accrual.run_on_start"),
	}

	if cfg.Accrual.Enabled && cfg.Accrual.Interval <= 0 {
		return nil, fmt.Errorf("accrual.interval must be positive, got %s", cfg.Accrual.Interval)
	}

	return cfg, nil
}

// splitList parses a comma-separated string, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
