package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultSessionSecret = "dev-secret-change-me"
	defaultAdminPassword = "admin123"
	minProductionSecret  = 32
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Session       SessionConfig
	Admin         AdminConfig
	Upload        UploadConfig
	Mail          MailConfig
	CORS          CORSConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL database configuration.
// When ConnectionString (from DATABASE_URL) is set, it takes precedence over individual fields.
type DatabaseConfig struct {
	ConnectionString string // From DATABASE_URL when set
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	AutoMigrate      bool
}

// SessionConfig holds cookie session and bearer token settings
type SessionConfig struct {
	Secret   string
	MaxAge   time.Duration
	Secure   bool
	TokenTTL time.Duration
}

// AdminConfig holds the site administrator credentials
type AdminConfig struct {
	Username string
	Password string
}

// UploadConfig holds image upload settings
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// MailConfig holds outbound notification settings.
// An empty Provider disables delivery.
type MailConfig struct {
	Provider       string // smtp, sendgrid or empty
	FromName       string
	FromAddress    string
	AdminName      string
	AdminAddress   string
	SMTP           SMTPConfig
	SendGridAPIKey string
	Workers        int
	BufferSize     int
	SendTimeout    time.Duration
}

// SMTPConfig holds SMTP relay settings
type SMTPConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	AuthType      string // PLAIN, LOGIN or NONE
	Encryption    string // NONE, SSL, SSLTLS, TLS or STARTTLS
	SkipTLSVerify bool
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins []string
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: loadDatabaseConfig(),
		Session: SessionConfig{
			Secret:   getEnv("SESSION_SECRET", getEnv("SECRET_KEY", defaultSessionSecret)),
			MaxAge:   getEnvAsDuration("SESSION_MAX_AGE", 7*24*time.Hour),
			Secure:   getEnvAsBool("SESSION_SECURE", false),
			TokenTTL: getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", defaultAdminPassword),
		},
		Upload: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "static/uploads"),
			MaxBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 2*1024*1024)),
		},
		Mail: MailConfig{
			Provider:     strings.ToLower(getEnv("MAIL_PROVIDER", "")),
			FromName:     getEnv("MAIL_FROM_NAME", "Portfolio"),
			FromAddress:  getEnv("MAIL_FROM_ADDRESS", ""),
			AdminName:    getEnv("MAIL_ADMIN_NAME", "Admin"),
			AdminAddress: getEnv("MAIL_ADMIN_ADDRESS", ""),
			SMTP: SMTPConfig{
				Host:          getEnv("SMTP_HOST", ""),
				Port:          getEnvAsInt("SMTP_PORT", 587),
				Username:      getEnv("SMTP_USERNAME", ""),
				Password:      getEnv("SMTP_PASSWORD", ""),
				AuthType:      strings.ToUpper(getEnv("SMTP_AUTH_TYPE", "LOGIN")),
				Encryption:    strings.ToUpper(getEnv("SMTP_ENCRYPTION", "STARTTLS")),
				SkipTLSVerify: getEnvAsBool("SMTP_SKIP_TLS_VERIFY", false),
			},
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			Workers:        getEnvAsInt("MAIL_WORKERS", 2),
			BufferSize:     getEnvAsInt("MAIL_BUFFER_SIZE", 100),
			SendTimeout:    getEnvAsDuration("MAIL_SEND_TIMEOUT", 15*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	// Database validation (DATABASE_URL or DB_* vars)
	if c.Database.ConnectionString == "" && c.Database.Host == "" {
		return fmt.Errorf("database configuration required: set DATABASE_URL or DB_HOST")
	}
	if c.Database.ConnectionString == "" {
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}
	if c.Admin.Username == "" || c.Admin.Password == "" {
		return fmt.Errorf("admin username and password are required")
	}
	if c.Upload.Dir == "" {
		return fmt.Errorf("upload directory is required")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload max bytes must be positive")
	}

	if c.IsProduction() {
		if c.Session.Secret == defaultSessionSecret || len(c.Session.Secret) < minProductionSecret {
			return fmt.Errorf("session secret must be set to at least %d bytes in production", minProductionSecret)
		}
		if c.Admin.Password == defaultAdminPassword {
			return fmt.Errorf("admin password must be changed in production")
		}
	}

	switch c.Mail.Provider {
	case "":
	case "smtp":
		if c.Mail.SMTP.Host == "" {
			return fmt.Errorf("SMTP_HOST is required when MAIL_PROVIDER=smtp")
		}
	case "sendgrid":
		if c.Mail.SendGridAPIKey == "" {
			return fmt.Errorf("SENDGRID_API_KEY is required when MAIL_PROVIDER=sendgrid")
		}
	default:
		return fmt.Errorf("unsupported mail provider: %s", c.Mail.Provider)
	}
	if c.Mail.Provider != "" && (c.Mail.FromAddress == "" || c.Mail.AdminAddress == "") {
		return fmt.Errorf("MAIL_FROM_ADDRESS and MAIL_ADMIN_ADDRESS are required when mail is enabled")
	}

	// Observability validation
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// MailEnabled reports whether a delivery provider is configured
func (c *MailConfig) MailEnabled() bool {
	return c.Provider != ""
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString (from DATABASE_URL) when set; otherwise builds from individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password). Parses ConnectionString when set.
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			host := u.Hostname()
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			db := strings.TrimPrefix(u.Path, "/")
			return fmt.Sprintf("host=%s port=%s database=%s", host, port, db)
		}
		return "host=<from DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

// loadDatabaseConfig loads database config from DATABASE_URL or DB_* env vars
func loadDatabaseConfig() DatabaseConfig {
	autoMigrate := getEnvAsBool("DB_AUTO_MIGRATE", true)
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL != "" {
		return DatabaseConfig{
			ConnectionString: dbURL,
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			AutoMigrate:      autoMigrate,
		}
	}
	return DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvAsInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "portfolio"),
		Password:        getEnv("DB_PASSWORD", "portfolio"),
		Database:        getEnv("DB_NAME", "portfolio"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		AutoMigrate:     autoMigrate,
	}
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8080
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice splits a comma separated value, dropping empty entries
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
