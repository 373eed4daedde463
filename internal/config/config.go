package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Source    SourceConfig    `yaml:"source" envconfig:"SOURCE"`
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	// RequestTimeout bounds a dashboard build, which includes the dataset fetch.
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"omitempty,oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ExportsDir string `yaml:"exports_dir" envconfig:"EXPORTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// SourceConfig describes where the dataset snapshot is fetched from. ID is a
// URL, an s3:// or sheets:// identifier, or a filesystem path.
type SourceConfig struct {
	ID                    string        `yaml:"id" envconfig:"ID" validate:"required"`
	Timeout               time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	SheetsAPIKey          string        `yaml:"sheets_api_key" envconfig:"SHEETS_API_KEY"`
	SheetsCredentialsFile string        `yaml:"sheets_credentials_file" envconfig:"SHEETS_CREDENTIALS_FILE"`
	S3Region              string        `yaml:"s3_region" envconfig:"S3_REGION"`
	S3Endpoint            string        `yaml:"s3_endpoint" envconfig:"S3_ENDPOINT" validate:"omitempty,url"`
	S3PathStyle           bool          `yaml:"s3_path_style" envconfig:"S3_PATH_STYLE"`
}

// DatasetConfig names the columns the cleaner relies on and the drug
// grouping to apply.
type DatasetConfig struct {
	FilenameColumn string `yaml:"filename_column" envconfig:"FILENAME_COLUMN" validate:"required"`
	DateColumn     string `yaml:"date_column" envconfig:"DATE_COLUMN" validate:"required"`
	KeyColumn      string `yaml:"key_column" envconfig:"KEY_COLUMN" validate:"required"`
	SiteColumn     string `yaml:"site_column" envconfig:"SITE_COLUMN" validate:"required"`
	DatePolicy     string `yaml:"date_policy" envconfig:"DATE_POLICY" validate:"oneof=strict lenient"`
	// GroupingFile optionally replaces the built-in drug grouping.
	GroupingFile string `yaml:"grouping_file" envconfig:"GROUPING_FILE"`
}

// TelemetryConfig selects the OpenTelemetry exporters.
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// Load builds the configuration from, in increasing precedence, the
// defaults, the YAML file (configFile, or the first file found in the usual
// locations when empty) and DOSECHECK_* environment variables.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields are only overwritten for variables that are actually set.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the struct tags and normalizes the logging settings.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	// Always use JSON format
	c.Logging.Format = "json"
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// LenientDates reports whether rows with unparseable check dates are dropped
// rather than failing the load.
func (c *Config) LenientDates() bool {
	return c.Dataset.DatePolicy == DatePolicyLenient
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  45 * time.Second,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   10,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ExportsDir: "data/exports",
			LogsDir:    "logs",
		},
		Source: SourceConfig{
			ID:       DefaultSourceID,
			Timeout:  DefaultFetchTimeout,
			S3Region: DefaultS3Region,
		},
		Dataset: DatasetConfig{
			FilenameColumn: DefaultFilenameColumn,
			DateColumn:     DefaultDateColumn,
			KeyColumn:      DefaultKeyColumn,
			SiteColumn:     DefaultSiteColumn,
			DatePolicy:     DatePolicyStrict,
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
