package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Rionpgup/student-tracker/internal/model"
)

const (
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
	BackendFile   = "file"
	BackendMemory = "memory"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Grading  GradingConfig  `yaml:"grading"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

type StorageConfig struct {
	Backend string       `yaml:"backend"`
	SQLite  SQLiteConfig `yaml:"sqlite"`
	File    FileConfig   `yaml:"file"`
}

type SQLiteConfig struct {
	Path        string        `yaml:"path"`
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

type FileConfig struct {
	Path string `yaml:"path"`
}

// DatabaseConfig holds the MySQL connection settings used when storage.backend is "mysql".
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	Charset            string        `yaml:"charset"`
	ParseTime          bool          `yaml:"parse_time"`
	Loc                string        `yaml:"loc"`
	MaxConnections     int           `yaml:"max_connections"`
	MaxIdleConnections int           `yaml:"max_idle_connections"`
	ConnectionLifetime time.Duration `yaml:"connection_lifetime"`
}

type GradingConfig struct {
	Mode model.GradeMode `yaml:"mode"`
}

type AuthConfig struct {
	AdminPassword     string `yaml:"admin_password"`
	MinPasswordLength int    `yaml:"min_password_length"`
	BcryptCost        int    `yaml:"bcrypt_cost"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:    "student-tracker",
			Version: "1.0.0",
			Env:     "development",
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			SQLite:  SQLiteConfig{Path: "students.db", BusyTimeout: 5 * time.Second},
			File:    FileConfig{Path: "students.json"},
		},
		Database: DatabaseConfig{
			Host:               "localhost",
			Port:               3306,
			Name:               "students",
			Charset:            "utf8mb4",
			ParseTime:          true,
			Loc:                "UTC",
			MaxConnections:     4,
			MaxIdleConnections: 2,
			ConnectionLifetime: time.Hour,
		},
		Grading: GradingConfig{Mode: model.GradeModeOverall},
		Auth: AuthConfig{
			AdminPassword:     "admin",
			MinPasswordLength: 4,
			BcryptCost:        10,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads .env (if any), then the YAML file named by CONFIG_PATH
// (default config.yaml) over the defaults, then TRACKER_* overrides.
// A missing config file is not an error.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	config := Default()
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TRACKER_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("TRACKER_SQLITE_PATH"); v != "" {
		c.Storage.SQLite.Path = v
	}
	if v := os.Getenv("TRACKER_FILE_PATH"); v != "" {
		c.Storage.File.Path = v
	}
	if v := os.Getenv("TRACKER_GRADING_MODE"); v != "" {
		c.Grading.Mode = model.GradeMode(v)
	}
	if v := os.Getenv("TRACKER_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("TRACKER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TRACKER_MIN_PASSWORD_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TRACKER_MIN_PASSWORD_LENGTH %q: %w", v, err)
		}
		c.Auth.MinPasswordLength = n
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendMySQL, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	mode, err := model.ParseGradeMode(string(c.Grading.Mode))
	if err != nil {
		return err
	}
	c.Grading.Mode = mode
	if c.Auth.MinPasswordLength < 1 {
		return fmt.Errorf("auth.min_password_length must be positive, got %d", c.Auth.MinPasswordLength)
	}
	return nil
}

// MySQL DSN format: [username[:password]@][protocol[(address)]]/dbname[?param1=value1&...&paramN=valueN]
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.Charset, c.Database.ParseTime, c.Database.Loc)
}

// SQLiteDSN enables WAL and a busy timeout on the database file.
func (c *Config) SQLiteDSN() string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d&_foreign_keys=on",
		c.Storage.SQLite.Path, c.Storage.SQLite.BusyTimeout.Milliseconds())
}
