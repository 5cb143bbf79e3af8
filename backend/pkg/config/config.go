package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "hetio-cli/backend/pkg/errors"
)

// Primary store drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Query backends
const (
	BackendMirror  = "mirror"
	BackendPrimary = "primary"
)

// Config holds all application configuration
type Config struct {
	// App
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	Port     string `yaml:"port"`

	// Neo4j (graph mirror)
	Neo4jURI      string `yaml:"neo4j_uri"`
	Neo4jUser     string `yaml:"neo4j_user"`
	Neo4jPassword string `yaml:"neo4j_password"`
	Neo4jDatabase string `yaml:"neo4j_database"`

	// Primary document store
	PrimaryDriver string `yaml:"primary_driver"`
	PrimaryDSN    string `yaml:"primary_dsn"`

	// Source tables
	NodesPath string `yaml:"nodes_path"`
	EdgesPath string `yaml:"edges_path"`

	// Queries
	QueryBackend     string        `yaml:"query_backend"`
	OperationTimeout time.Duration `yaml:"operation_timeout"` // 0 disables
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Env:           "development",
		Port:          "8080",
		Neo4jURI:      "bolt://localhost:7687",
		Neo4jUser:     "neo4j",
		Neo4jPassword: "password",
		PrimaryDriver: DriverSQLite,
		PrimaryDSN:    "hetio.db",
		NodesPath:     "data/nodes.tsv",
		EdgesPath:     "data/edges.tsv",
		QueryBackend:  BackendMirror,
	}
}

// Load reads configuration. Precedence, lowest first: defaults, the YAML
// file at path (optional), .env, process environment.
func Load(path string) (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Env = getEnv("ENV", c.Env)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Port = getEnv("PORT", c.Port)
	c.Neo4jURI = getEnv("NEO4J_URI", c.Neo4jURI)
	c.Neo4jUser = getEnv("NEO4J_USER", c.Neo4jUser)
	c.Neo4jPassword = getEnv("NEO4J_PASSWORD", c.Neo4jPassword)
	c.Neo4jDatabase = getEnv("NEO4J_DATABASE", c.Neo4jDatabase)
	c.PrimaryDriver = getEnv("PRIMARY_DRIVER", c.PrimaryDriver)
	c.PrimaryDSN = getEnv("PRIMARY_DSN", c.PrimaryDSN)
	c.NodesPath = getEnv("NODES_PATH", c.NodesPath)
	c.EdgesPath = getEnv("EDGES_PATH", c.EdgesPath)
	c.QueryBackend = getEnv("QUERY_BACKEND", c.QueryBackend)
	c.OperationTimeout = getEnvDuration("OPERATION_TIMEOUT", c.OperationTimeout)
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_URI")
	}
	if c.Neo4jUser == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_USER")
	}
	if c.PrimaryDSN == "" {
		return apperrors.NewConfigMissingRequired("PRIMARY_DSN")
	}
	switch c.PrimaryDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return apperrors.NewConfigValidationFailed("PRIMARY_DRIVER", fmt.Sprintf("unsupported driver %q", c.PrimaryDriver))
	}
	switch c.QueryBackend {
	case BackendMirror, BackendPrimary:
	default:
		return apperrors.NewConfigValidationFailed("QUERY_BACKEND", fmt.Sprintf("unsupported backend %q", c.QueryBackend))
	}
	if c.OperationTimeout < 0 {
		return apperrors.NewConfigValidationFailed("OPERATION_TIMEOUT", "must not be negative")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
