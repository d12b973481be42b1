// Package config loads the settings of the registration form service.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/registration-form/internal/model"
	"gopkg.in/yaml.v3"
)

// Config holds all settings.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Form     FormConfig     `yaml:"form"`
	Admin    AdminConfig    `yaml:"admin"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	Sentry   SentryConfig   `yaml:"sentry"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	GinLogging    bool   `yaml:"gin_logging"`
	SessionSecret string `yaml:"session_secret"`
}

// DatabaseConfig configures the records table. For sqlite, Path is the database file; for mysql,
// DSN is passed to the driver.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// FormConfig configures the form layout.
type FormConfig struct {
	Title    string   `yaml:"title"`
	Variant  string   `yaml:"variant"`
	Branches []string `yaml:"branches"`
	PageSize int      `yaml:"page_size"`
}

// AdminConfig holds the shared secret that unlocks export and deletion.
type AdminConfig struct {
	Password string `yaml:"password"`
}

// SheetsConfig configures the Google Sheets mirror.
type SheetsConfig struct {
	Enabled          bool   `yaml:"enabled"`
	CredentialsFile  string `yaml:"credentials_file"`
	SpreadsheetID    string `yaml:"spreadsheet_id"`
	SpreadsheetTitle string `yaml:"spreadsheet_title"`
	Worksheet        string `yaml:"worksheet"`
	Timeout          string `yaml:"timeout"`
}

// SentryConfig configures error reporting. Reporting is off when DSN is empty.
type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

// LoggingConfig configures the application log.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the settings used when neither a file nor an environment variable says
// otherwise. The admin password has no default.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":8080",
			GinLogging: true,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "data.db",
		},
		Form: FormConfig{
			Title:    "MobiCenter",
			Variant:  string(model.VariantContact),
			Branches: []string{"Чиланзар", "Юнусабад", "Сергели", "Мирзо-Улугбек"},
			PageSize: 10,
		},
		Sheets: SheetsConfig{
			Enabled:          true,
			CredentialsFile:  "credits_mobi.json",
			SpreadsheetTitle: "MyTasks",
			Worksheet:        "Data",
			Timeout:          "15s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path on top of the defaults and applies environment overrides. A
// missing file is not an error; an empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if cfg.Server.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.Server.SessionSecret = secret
	}
	return cfg, nil
}

// applyEnvOverrides lets environment variables replace file values. DBUSER, DBPWD and DBHOST build
// a MySQL DSN.
func (c *Config) applyEnvOverrides() error {
	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("could not parse PORT env variable: %w", err)
		}
		c.Server.Addr = ":" + port
	}
	if strings.EqualFold(os.Getenv("GIN_LOGGING"), "off") {
		c.Server.GinLogging = false
	}
	setString(&c.Server.SessionSecret, "SESSION_SECRET")
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.Path, "DB_PATH")
	setString(&c.Database.DSN, "DB_DSN")
	if c.Database.Driver == "mysql" && c.Database.DSN == "" {
		c.Database.DSN = fmt.Sprintf("%s:%s@tcp(%s)/test?parseTime=true",
			os.Getenv("DBUSER"), os.Getenv("DBPWD"), os.Getenv("DBHOST"))
	}
	setString(&c.Form.Variant, "FORM_VARIANT")
	setString(&c.Admin.Password, "ADMIN_PASSWORD")
	if v := os.Getenv("SHEETS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("could not parse SHEETS_ENABLED env variable: %w", err)
		}
		c.Sheets.Enabled = enabled
	}
	setString(&c.Sheets.CredentialsFile, "GOOGLE_CREDENTIALS_FILE")
	setString(&c.Sheets.SpreadsheetID, "SPREADSHEET_ID")
	setString(&c.Sheets.SpreadsheetTitle, "SPREADSHEET_TITLE")
	setString(&c.Sheets.Worksheet, "WORKSHEET")
	setString(&c.Sentry.DSN, "SENTRY_DSN")
	setString(&c.Sentry.Environment, "APP_ENV")
	setString(&c.Logging.Level, "LOG_LEVEL")
	return nil
}

func setString(target *string, key string) {
	if value, exists := os.LookupEnv(key); exists {
		*target = value
	}
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if _, err := model.ParseVariant(c.Form.Variant); err != nil {
		errs = append(errs, err)
	}
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	if c.Admin.Password == "" {
		errs = append(errs, errors.New("admin password is not set (ADMIN_PASSWORD)"))
	}
	if c.Form.PageSize < 1 {
		errs = append(errs, fmt.Errorf("page size must be positive, got %d", c.Form.PageSize))
	}
	if c.Sheets.Enabled {
		if c.Sheets.CredentialsFile == "" {
			errs = append(errs, errors.New("credentials file is required when the mirror is enabled (GOOGLE_CREDENTIALS_FILE)"))
		}
		if c.Sheets.SpreadsheetID == "" && c.Sheets.SpreadsheetTitle == "" {
			errs = append(errs, errors.New("spreadsheet id or title is required when the mirror is enabled"))
		}
		if _, err := time.ParseDuration(c.Sheets.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("invalid sheets timeout: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Variant returns the configured form variant. It must only be called after Validate.
func (c *Config) Variant() model.Variant {
	return model.Variant(c.Form.Variant)
}

// DataSource returns the driver name and data source name of the records database.
func (c *Config) DataSource() (string, string) {
	if c.Database.Driver == "sqlite" {
		if c.Database.DSN != "" {
			return "sqlite", c.Database.DSN
		}
		return "sqlite", c.Database.Path
	}
	return c.Database.Driver, c.Database.DSN
}

// MirrorTimeout returns how long a single mirror call may take.
func (c *Config) MirrorTimeout() time.Duration {
	d, err := time.ParseDuration(c.Sheets.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
