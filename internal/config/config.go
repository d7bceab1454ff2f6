package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Configuration is built once in main and passed by reference to every
// component that needs it. It is never mutated after Load returns.
type Configuration struct {
	Server    ServerConfig
	Security  SecurityConfig
	Logging   LoggingConfig
	Database  DatabaseConfig
	UserTypes UserTypeConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type SecurityConfig struct {
	SecretKey        string
	JWTAlgorithm     string
	TokenPrefix      string
	HeaderKey        string
	JWTExpire        time.Duration
	ResetTokenExpire time.Duration
}

type LoggingConfig struct {
	Level string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	Username        string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int
}

// UserTypeConfig names the default user types. These rows always exist and may
// never be renamed or deleted through the directory.
type UserTypeConfig struct {
	Superuser    string
	Commissioner string
	Regular      string
	Verifier     string
}

func (u UserTypeConfig) Defaults() []string {
	return []string{u.Superuser, u.Commissioner, u.Regular, u.Verifier}
}

// Load reads a .env file when present, then builds the configuration from the
// environment with defaults for anything unset.
func Load() (*Configuration, error) {
	_ = godotenv.Load()

	cfg := &Configuration{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8000"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Security: SecurityConfig{
			SecretKey:        getEnv("SECRET_KEY", "e-affidavit-secret-key"),
			JWTAlgorithm:     getEnv("JWT_ALGORITHM", "HS256"),
			TokenPrefix:      getEnv("JWT_TOKEN_PREFIX", "Token"),
			HeaderKey:        getEnv("HEADER_KEY", "Authorization"),
			JWTExpire:        getDuration("JWT_EXPIRE", 60*time.Minute),
			ResetTokenExpire: getDuration("RESET_TOKEN_EXPIRE", 15*time.Minute),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DATABASE_HOST", "localhost"),
			Port:            getEnv("DATABASE_PORT", "5432"),
			Username:        getEnv("DATABASE_USER", "postgres"),
			Password:        getEnv("DATABASE_PASSWORD", "password"),
			Name:            getEnv("DATABASE_NAME", "e_affidavit"),
			SSLMode:         getEnv("DATABASE_SSLMODE", "disable"),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getInt("DATABASE_CONN_MAX_LIFETIME", 300),
		},
		UserTypes: UserTypeConfig{
			Superuser:    getEnv("SUPERUSER_USER_TYPE", "superuser"),
			Commissioner: getEnv("COMMISSIONER_USER_TYPE", "commissioner"),
			Regular:      getEnv("REGULAR_USER_TYPE", "regular"),
			Verifier:     getEnv("VERIFIER_USER_TYPE", "verifier"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the access-control layer cannot operate on.
// Every route allow-list is expressed in terms of the default user types, so
// they must be non-empty and distinct.
func (c *Configuration) Validate() error {
	if c.Security.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY must not be empty")
	}
	if c.Security.JWTAlgorithm != "HS256" {
		return fmt.Errorf("unsupported JWT algorithm %q", c.Security.JWTAlgorithm)
	}
	seen := make(map[string]bool)
	for _, name := range c.UserTypes.Defaults() {
		if name == "" {
			return fmt.Errorf("default user type names must not be empty")
		}
		if seen[name] {
			return fmt.Errorf("duplicate default user type %q", name)
		}
		seen[name] = true
	}
	return nil
}

func LogConfig(cfg *Configuration, logger *zap.Logger) {
	logger.Info("Application configuration",
		zap.String("port", cfg.Server.Port),
		zap.Duration("read_timeout", cfg.Server.ReadTimeout),
		zap.Duration("write_timeout", cfg.Server.WriteTimeout),
		zap.String("token_prefix", cfg.Security.TokenPrefix),
		zap.Duration("jwt_expire", cfg.Security.JWTExpire),
		zap.String("database_host", cfg.Database.Host),
		zap.String("database_name", cfg.Database.Name),
		zap.Strings("default_user_types", cfg.UserTypes.Defaults()),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
