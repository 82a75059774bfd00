package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DatabaseType represents the type of database
type DatabaseType string

const (
	DatabaseTypeSQLite     DatabaseType = "sqlite"
	DatabaseTypePostgreSQL DatabaseType = "postgres"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type     DatabaseType   `json:"type"`
	SQLite   SQLiteConfig   `json:"sqlite"`
	Postgres PostgresConfig `json:"postgres"`
}

// SQLiteConfig holds SQLite specific configuration
type SQLiteConfig struct {
	Path string `json:"path"`
}

// PostgresConfig holds PostgreSQL specific configuration
type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
	TimeZone string `json:"timeZone"`
}

// GetDSN returns the data source name for the database
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case DatabaseTypePostgreSQL:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
			c.Postgres.Host,
			c.Postgres.Username,
			c.Postgres.Password,
			c.Postgres.Database,
			c.Postgres.Port,
			c.Postgres.SSLMode,
			c.Postgres.TimeZone,
		)
	default:
		return c.SQLite.Path + "?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"
	}
}

// GetDatabaseConfig builds the configuration from DATABASE_URL. A postgres://
// or postgresql:// URL selects PostgreSQL; anything else, including an empty
// value, selects the SQLite file at GetDBPath (or the path given by a sqlite:// URL).
func GetDatabaseConfig() (*DatabaseConfig, error) {
	return ParseDatabaseURL(os.Getenv("DATABASE_URL"))
}

// ParseDatabaseURL converts a connection URL into a DatabaseConfig.
func ParseDatabaseURL(raw string) (*DatabaseConfig, error) {
	cfg := GetDefaultDatabaseConfig()
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return cfg, nil
	}

	if p, ok := strings.CutPrefix(raw, "sqlite://"); ok {
		cfg.Type = DatabaseTypeSQLite
		cfg.SQLite.Path = p
		return cfg, nil
	}
	if p, ok := strings.CutPrefix(raw, "file:"); ok {
		cfg.Type = DatabaseTypeSQLite
		cfg.SQLite.Path = p
		return cfg, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return nil, fmt.Errorf("unsupported database scheme: %s", u.Scheme)
	}

	cfg.Type = DatabaseTypePostgreSQL
	cfg.Postgres.Host = u.Hostname()
	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid database port %q", port)
		}
		cfg.Postgres.Port = n
	}
	cfg.Postgres.Database = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.Postgres.Username = u.User.Username()
		cfg.Postgres.Password, _ = u.User.Password()
	}
	q := u.Query()
	if v := q.Get("sslmode"); v != "" {
		cfg.Postgres.SSLMode = v
	}
	if v := q.Get("TimeZone"); v != "" {
		cfg.Postgres.TimeZone = v
	}
	return cfg, nil
}

// GetDefaultDatabaseConfig returns default database configuration
func GetDefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Type: DatabaseTypeSQLite,
		SQLite: SQLiteConfig{
			Path: GetDBPath(),
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "quillpress",
			Username: "quillpress",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
	}
}

// ValidateConfig validates the database configuration
func (c *DatabaseConfig) ValidateConfig() error {
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLite path cannot be empty")
		}
	case DatabaseTypePostgreSQL:
		if c.Postgres.Host == "" {
			return fmt.Errorf("PostgreSQL host cannot be empty")
		}
		if c.Postgres.Database == "" {
			return fmt.Errorf("PostgreSQL database name cannot be empty")
		}
		if c.Postgres.Username == "" {
			return fmt.Errorf("PostgreSQL username cannot be empty")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			return fmt.Errorf("PostgreSQL port must be between 1 and 65535")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	return nil
}

// IsPostgreSQL returns true if the database type is PostgreSQL
func (c *DatabaseConfig) IsPostgreSQL() bool {
	return c.Type == DatabaseTypePostgreSQL
}

// IsSQLite returns true if the database type is SQLite
func (c *DatabaseConfig) IsSQLite() bool {
	return c.Type == DatabaseTypeSQLite
}

// EnsureDirectoryExists ensures the directory for SQLite database exists
func (c *DatabaseConfig) EnsureDirectoryExists() error {
	if c.Type == DatabaseTypeSQLite {
		dir := filepath.Dir(c.SQLite.Path)
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}
