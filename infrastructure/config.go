package infrastructure

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config is the runtime configuration, read from the environment.
type Config struct {
	Port            string        `env:"PORT,default=8080"`
	BasePath        string        `env:"API_BASE_PATH,default=/api"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	DBDriver        string        `env:"DB_DRIVER,default=mysql"`
	DBDSN           string        `env:"DB_DSN"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=5"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=10"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=1h"`
	SeedRoles       bool          `env:"SEED_ROLES,default=false"`

	// semicolon separated in the environment
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5500;http://127.0.0.1:5500;http://localhost:3000;http://localhost:8080"`

	RabbitMQURL   string `env:"RABBITMQ_URL"`
	RabbitMQQueue string `env:"RABBITMQ_QUEUE,default=job_role_events"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// EventsConfig is the subset of settings the role event consumer reads.
type EventsConfig struct {
	RabbitMQURL   string `env:"RABBITMQ_URL"`
	RabbitMQQueue string `env:"RABBITMQ_QUEUE,default=job_role_events"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

func loadEnvFiles(envFiles []string) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			log.Debugf("skip env file %s: %v", f, err)
		}
	}
}

// LoadConfig primes the environment from the given .env files (missing files
// are ignored) and decodes it into a Config.
func LoadConfig(envFiles ...string) (Config, error) {
	loadEnvFiles(envFiles)

	// envdecode leaves an unparsable duration at zero instead of failing
	for _, key := range []string{"SHUTDOWN_TIMEOUT", "DB_CONN_MAX_LIFETIME"} {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			if _, err := time.ParseDuration(strings.TrimSpace(v)); err != nil {
				return Config{}, fmt.Errorf("config: %s: %w", key, err)
			}
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.BasePath = "/" + strings.Trim(strings.TrimSpace(cfg.BasePath), "/")
	cfg.AllowedOrigins = trimAll(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverSQLite:
		if strings.TrimSpace(c.DBDSN) == "" {
			return fmt.Errorf("config: DB_DSN is required for driver %q", c.DBDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.Port == "" {
		return errors.New("config: PORT is required")
	}
	if c.MaxIdleConns <= 0 || c.MaxOpenConns <= 0 {
		return errors.New("config: DB_MAX_IDLE_CONNS and DB_MAX_OPEN_CONNS must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("config: SHUTDOWN_TIMEOUT must be positive")
	}
	if c.ConnMaxLifetime < 0 {
		return errors.New("config: DB_CONN_MAX_LIFETIME must not be negative")
	}
	return validateLogging(c.LogLevel, c.LogFormat)
}

// LoadEventsConfig is LoadConfig for the event consumer. It needs no
// database settings.
func LoadEventsConfig(envFiles ...string) (EventsConfig, error) {
	loadEnvFiles(envFiles)

	var cfg EventsConfig
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.RabbitMQURL = strings.TrimSpace(cfg.RabbitMQURL)
	if cfg.RabbitMQURL == "" {
		return cfg, errors.New("config: RABBITMQ_URL is required")
	}
	if err := validateLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateLogging(level, format string) error {
	if _, err := log.ParseLevel(level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown LOG_FORMAT %q", format)
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
