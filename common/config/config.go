package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix is tried first for every key (EVENTS_DB_SERVER), then the bare tag (DB_SERVER).
// Sections are processed one by one so their keys are not nested under the field name.
const envPrefix = "EVENTS"

// Config holds the runtime configuration shared by the lambdas and the local server
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	Database DatabaseConfig `ignored:"true"`
	JWT      JWTConfig      `ignored:"true"`
	Log      LogConfig      `ignored:"true"`

	// ServiceURL is the backend base URL used by the client-side event service
	ServiceURL string `envconfig:"SERVICE_URL" default:"http://localhost:8080/api"`
}

// DatabaseConfig holds MySQL connection settings
type DatabaseConfig struct {
	Server          string        `envconfig:"DB_SERVER" default:"127.0.0.1"`
	Port            int           `envconfig:"DB_PORT" default:"3306"`
	Name            string        `envconfig:"DB_NAME" default:"EventManagement"`
	User            string        `envconfig:"DB_USER" default:"root"`
	Password        string        `envconfig:"DB_PASSWORD"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

// JWTConfig holds the token signing settings
type JWTConfig struct {
	Secret     string        `envconfig:"JWT_SECRET" default:"local-development-secret-change-me"`
	Expiration time.Duration `envconfig:"JWT_EXPIRATION" default:"168h"`
}

// LogConfig mirrors the variables read by common/logger
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"INFO"`
	Format      string `envconfig:"LOG_FORMAT" default:"text"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"event-service"`
}

// DSN builds the MySQL DSN: user:password@tcp(host:port)/database?parseTime=true
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC",
		c.User,
		c.Password,
		c.Server,
		c.Port,
		c.Name,
	)
}

var (
	globalConfig *Config
	configMutex  sync.RWMutex
)

// Load reads the configuration from the environment.
// The first successful load is cached for the lifetime of the process (warm lambda containers).
func Load() (*Config, error) {
	configMutex.RLock()
	if globalConfig != nil {
		configMutex.RUnlock()
		return globalConfig, nil
	}
	configMutex.RUnlock()

	configMutex.Lock()
	defer configMutex.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	var cfg Config
	for _, section := range []interface{}{&cfg, &cfg.Database, &cfg.JWT, &cfg.Log} {
		if err := envconfig.Process(envPrefix, section); err != nil {
			return nil, fmt.Errorf("failed to process config: %w", err)
		}
	}

	globalConfig = &cfg
	return globalConfig, nil
}

// MustLoad is Load for process entry points
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Reset drops the cached configuration so the next Load re-reads the environment
func Reset() {
	configMutex.Lock()
	globalConfig = nil
	configMutex.Unlock()
}
