// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
	Catalog  CatalogConfig
	Users    UsersConfig
	Upload   UploadConfig
	Email    EmailConfig
	PDF      PDFConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
	BaseURL     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         string
	StaticDir    string
	LoginPath    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StorageConfig selects the backends behind the durable and ephemeral scopes
type StorageConfig struct {
	DurableDriver   string
	EphemeralDriver string
	EphemeralTTL    time.Duration
	DeviceCookieTTL time.Duration
	SecureCookies   bool
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// JWTConfig contains JWT token configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
	RecoveryExpiry    time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	BcryptCost         int
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// CatalogConfig points at the product/category REST API
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

// UsersConfig contains user directory configuration
type UsersConfig struct {
	Driver               string
	File                 string
	DefaultResetPassword string
}

// UploadConfig contains image upload configuration
type UploadConfig struct {
	Provider          string
	MaxSize           int64
	AllowedExtensions []string
	LocalPath         string
	PublicPath        string
	RemoteURL         string
	RemoteAPIKey      string
}

// EmailConfig contains mail delivery configuration
type EmailConfig struct {
	Provider     string
	FromEmail    string
	FromName     string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool
}

// PDFConfig toggles the wkhtmltopdf backed quote export
type PDFConfig struct {
	Enabled bool
	DPI     uint
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
			BaseURL:     getEnv("APP_BASE_URL", "http://localhost:3000"),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			StaticDir:    getEnv("STATIC_DIR", "dist"),
			LoginPath:    getEnv("LOGIN_PATH", "/admin"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Storage: StorageConfig{
			DurableDriver:   getEnv("STORAGE_DURABLE_DRIVER", "memory"),
			EphemeralDriver: getEnv("STORAGE_EPHEMERAL_DRIVER", "memory"),
			EphemeralTTL:    getEnvAsDuration("STORAGE_EPHEMERAL_TTL", 24*time.Hour),
			DeviceCookieTTL: getEnvAsDuration("DEVICE_COOKIE_TTL", 365*24*time.Hour),
			SecureCookies:   getEnvAsBool("SECURE_COOKIES", false),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "storefront"),
			User:         getEnv("DB_USER", "storefront"),
			Password:     getEnv("DB_PASSWORD", "storefront"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "change-me-storefront-development-secret"),
			AccessTokenExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRE", 24*time.Hour),
			RecoveryExpiry:    getEnvAsDuration("JWT_RECOVERY_EXPIRE", time.Hour),
		},
		Security: SecurityConfig{
			BcryptCost:         getEnvAsInt("BCRYPT_COST", 12),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		Catalog: CatalogConfig{
			BaseURL: getEnv("CATALOG_BASE_URL", "https://69057de8ee3d0d14c132c373.mockapi.io"),
			Timeout: getEnvAsDuration("CATALOG_TIMEOUT", 10*time.Second),
		},
		Users: UsersConfig{
			Driver:               getEnv("USERS_DRIVER", "file"),
			File:                 getEnv("USERS_FILE", "public/data/users.json"),
			DefaultResetPassword: getEnv("USERS_DEFAULT_RESET_PASSWORD", "1234"),
		},
		Upload: UploadConfig{
			Provider:          getEnv("UPLOAD_PROVIDER", "local"),
			MaxSize:           getEnvAsInt64("UPLOAD_MAX_SIZE", 5*1024*1024), // 5MB
			AllowedExtensions: getEnvAsSlice("UPLOAD_ALLOWED_EXTENSIONS", []string{"jpg", "jpeg", "png", "gif", "webp"}),
			LocalPath:         getEnv("STORAGE_LOCAL_PATH", "./uploads"),
			PublicPath:        getEnv("UPLOAD_PUBLIC_PATH", "/uploads"),
			RemoteURL:         getEnv("IMGBB_UPLOAD_URL", "https://api.imgbb.com/1/upload"),
			RemoteAPIKey:      getEnv("IMGBB_API_KEY", ""),
		},
		Email: EmailConfig{
			Provider:     getEnv("EMAIL_PROVIDER", "log"),
			FromEmail:    getEnv("FROM_EMAIL", "noreply@example.com"),
			FromName:     getEnv("FROM_NAME", "Storefront"),
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USER", ""),
			SMTPPassword: getEnv("SMTP_PASS", ""),
			SMTPUseTLS:   getEnvAsBool("SMTP_USE_TLS", false),
		},
		PDF: PDFConfig{
			Enabled: getEnvAsBool("PDF_ENABLED", false),
			DPI:     uint(getEnvAsInt("PDF_DPI", 150)),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	switch c.Storage.DurableDriver {
	case "memory", "postgres", "redis":
	default:
		return fmt.Errorf("unsupported STORAGE_DURABLE_DRIVER %q", c.Storage.DurableDriver)
	}

	switch c.Storage.EphemeralDriver {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported STORAGE_EPHEMERAL_DRIVER %q", c.Storage.EphemeralDriver)
	}

	switch c.Users.Driver {
	case "file":
		if c.Users.File == "" {
			return fmt.Errorf("USERS_FILE is required when USERS_DRIVER=file")
		}
	case "postgres":
	default:
		return fmt.Errorf("unsupported USERS_DRIVER %q", c.Users.Driver)
	}

	if c.UsesPostgres() && c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.UsesRedis() && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.Upload.Provider == "remote" && c.Upload.RemoteAPIKey == "" {
		return fmt.Errorf("IMGBB_API_KEY is required when UPLOAD_PROVIDER=remote")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UsesPostgres reports whether any component is configured against Postgres
func (c *Config) UsesPostgres() bool {
	return c.Storage.DurableDriver == "postgres" || c.Users.Driver == "postgres"
}

// UsesRedis reports whether any storage scope is configured against Redis
func (c *Config) UsesRedis() bool {
	return c.Storage.DurableDriver == "redis" || c.Storage.EphemeralDriver == "redis"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
