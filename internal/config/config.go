package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// AuthConfig holds bearer-token validation settings. Token issuance lives in
// the main application backend; this service only verifies.
type AuthConfig struct {
	// Enabled toggles bearer-token enforcement; disable for local development
	Enabled bool
	// JWTSecret is the HS256 shared secret
	JWTSecret string
	// Issuer expected in the "iss" claim (empty skips the check)
	Issuer string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	XSSProtection         string
	ReferrerPolicy        string
	PermissionsPolicy     string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled               bool
	RequestsPerMinute     int
	RequestsPerMinuteAuth int
	WhitelistIPs          []string
	WhitelistPaths        []string
}

// JobsConfig holds background job configuration. Jobs are read-only
// reminders; they never mutate plan or session state.
type JobsConfig struct {
	OverdueReminderEnabled bool
	OverdueReminderCron    string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	// Read from config file
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Secrets come from the environment only
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	}
	if cfg.Database.Password == "" {
		cfg.Database.Password = v.GetString("DATABASE_PASSWORD")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("App.Name", "collection-api")
	v.SetDefault("App.Environment", "development")
	v.SetDefault("App.Port", 8080)

	v.SetDefault("Database.Host", "localhost")
	v.SetDefault("Database.Port", 5432)
	v.SetDefault("Database.Name", "andemamma")
	v.SetDefault("Database.User", "andemamma")
	v.SetDefault("Database.SSLMode", "disable")
	v.SetDefault("Database.MaxOpenConns", 25)
	v.SetDefault("Database.MaxIdleConns", 5)
	v.SetDefault("Database.ConnMaxLifetime", 300)

	v.SetDefault("Auth.Enabled", false)
	v.SetDefault("Auth.Issuer", "andemamma-backend")

	v.SetDefault("Logging.Level", "info")
	v.SetDefault("Logging.Format", "console")

	v.SetDefault("Server.ReadTimeout", 15)
	v.SetDefault("Server.WriteTimeout", 30)
	v.SetDefault("Server.RequestTimeout", 60)
	v.SetDefault("Server.EnableSwagger", true)

	v.SetDefault("CORS.AllowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("CORS.AllowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("CORS.AllowCredentials", true)
	v.SetDefault("CORS.MaxAge", 300)

	v.SetDefault("Security.ContentTypeNosniff", true)
	v.SetDefault("Security.FrameOptions", "DENY")
	v.SetDefault("Security.ReferrerPolicy", "strict-origin-when-cross-origin")

	v.SetDefault("RateLimit.Enabled", true)
	v.SetDefault("RateLimit.RequestsPerMinute", 120)
	v.SetDefault("RateLimit.RequestsPerMinuteAuth", 600)
	v.SetDefault("RateLimit.WhitelistPaths", []string{"/health", "/health/*"})

	v.SetDefault("Jobs.OverdueReminderEnabled", false)
	v.SetDefault("Jobs.OverdueReminderCron", "0 0 7 * * 1-6")
}
