package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MaxServ/tablesync/pkg/notify"
	"github.com/MaxServ/tablesync/pkg/resultlog"
)

// Config represents the main configuration structure
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Import    ImportConfig    `yaml:"import,omitempty"`
	Export    ExportConfig    `yaml:"export,omitempty"`
	Audit     AuditConfig     `yaml:"audit,omitempty"`
	ResultLog resultlog.Config `yaml:"result_log,omitempty"`
	Notify    notify.Config   `yaml:"notify,omitempty"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Type        string `yaml:"type"`                   // sqlite, postgres, mysql, mssql
	Host        string `yaml:"host,omitempty"`         // For network databases
	Port        int    `yaml:"port,omitempty"`         // Database port
	Database    string `yaml:"database"`               // Database name or file path
	User        string `yaml:"user,omitempty"`         // Username
	Password    string `yaml:"password,omitempty"`     // Password
	Schema      string `yaml:"schema,omitempty"`       // PostgreSQL/MSSQL schema
	WindowsAuth bool   `yaml:"windows_auth,omitempty"` // MS SQL Windows authentication
	SSLMode     string `yaml:"sslmode,omitempty"`      // PostgreSQL SSL mode
}

// ImportConfig contains reconciliation import settings
type ImportConfig struct {
	Table          string   `yaml:"table,omitempty"`           // Target table
	MatchFields    []string `yaml:"match_fields,omitempty"`    // Fields used to match existing rows
	Delimiter      string   `yaml:"delimiter,omitempty"`       // List value join delimiter (default ",")
	TimestampField string   `yaml:"timestamp_field,omitempty"` // Modification timestamp column (default "tstamp")
	CreationField  string   `yaml:"creation_field,omitempty"`  // Creation timestamp column (default "crdate")
	StateFile      string   `yaml:"state_file,omitempty"`      // Checksum state file for skipping unchanged documents
}

// ExportConfig contains export settings
type ExportConfig struct {
	SkipColumns []string `yaml:"skip_columns,omitempty"` // Columns excluded from export
	Compress    bool     `yaml:"compress,omitempty"`     // Write .zst compressed YAML
}

// AuditConfig for audit logging settings
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file,omitempty"`
}

// LoadConfig loads configuration from YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to YAML file
func SaveConfig(filename string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateSampleConfig creates sample configuration for different database types
func CreateSampleConfig(dbType string) *Config {
	config := &Config{
		Database: DatabaseConfig{
			Type: dbType,
		},
		Import: ImportConfig{
			Table:          "fe_groups",
			MatchFields:    []string{"title"},
			TimestampField: "tstamp",
			CreationField:  "crdate",
			StateFile:      "tablesync-state.json",
		},
		Export: ExportConfig{
			SkipColumns: []string{"uid", "tstamp", "crdate"},
		},
		Audit: AuditConfig{
			Enabled: true,
			File:    "audit.log",
		},
	}

	switch dbType {
	case "postgres", "postgresql":
		config.Database.Host = "localhost"
		config.Database.Port = 5432
		config.Database.Database = "mydb"
		config.Database.User = "postgres"
		config.Database.Password = "password"
		config.Database.Schema = "public"
		config.Database.SSLMode = "disable"

	case "mssql", "sqlserver":
		config.Database.Host = "localhost"
		config.Database.Port = 1433
		config.Database.Database = "mydb"
		config.Database.User = "sa"
		config.Database.Password = "YourPassword123"
		config.Database.WindowsAuth = false

	case "sqlite":
		config.Database.Database = "database.db"

	case "mysql":
		config.Database.Host = "localhost"
		config.Database.Port = 3306
		config.Database.Database = "mydb"
		config.Database.User = "root"
		config.Database.Password = "password"
	}

	return config
}

// BuildDSN constructs database connection string from config
func (c *DatabaseConfig) BuildDSN() string {
	switch c.Type {
	case "postgres", "postgresql":
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		schema := c.Schema
		if schema == "" {
			schema = "public"
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&search_path=%s",
			c.User, c.Password, c.Host, c.Port, c.Database, sslMode, schema)

	case "mssql", "sqlserver":
		if c.WindowsAuth {
			return fmt.Sprintf("sqlserver://%s:%d?database=%s&integrated security=SSPI",
				c.Host, c.Port, c.Database)
		}
		return fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
			c.User, c.Password, c.Host, c.Port, c.Database)

	case "sqlite":
		return c.Database

	case "mysql":
		// clientFoundRows makes UPDATE report matched rows, so reconciliation
		// counters stay correct when a re-import writes identical values.
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&clientFoundRows=true",
			c.User, c.Password, c.Host, c.Port, c.Database)

	default:
		return ""
	}
}
