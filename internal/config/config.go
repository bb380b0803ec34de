package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. BACI_ANALYSIS_TOP_N
const EnvPrefix = "BACI"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration for the report API
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system locations and input file patterns
type PathsConfig struct {
	BaseDir             string `yaml:"base_dir" envconfig:"BASE_DIR"`
	InputDir            string `yaml:"input_dir" envconfig:"INPUT_DIR" validate:"required"`
	OutputDir           string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir             string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
	TradeFilePattern    string `yaml:"trade_file_pattern" envconfig:"TRADE_FILE_PATTERN" validate:"required"`
	CountryCodesPattern string `yaml:"country_codes_pattern" envconfig:"COUNTRY_CODES_PATTERN" validate:"required"`
	ProductCodesPattern string `yaml:"product_codes_pattern" envconfig:"PRODUCT_CODES_PATTERN" validate:"required"`
}

// AnalysisConfig drives the normalizer and the analytics step
type AnalysisConfig struct {
	FocusCountry         string  `yaml:"focus_country" envconfig:"FOCUS_COUNTRY" validate:"required"`
	FileLimit            int     `yaml:"file_limit" envconfig:"FILE_LIMIT" validate:"gte=0"`
	TopN                 int     `yaml:"top_n" envconfig:"TOP_N" validate:"min=1"`
	Clusters             int     `yaml:"clusters" envconfig:"CLUSTERS" validate:"min=1"`
	Seed                 int64   `yaml:"seed" envconfig:"SEED"`
	MaxIterations        int     `yaml:"max_iterations" envconfig:"MAX_ITERATIONS" validate:"min=1"`
	Restarts             int     `yaml:"restarts" envconfig:"RESTARTS" validate:"min=1"`
	CorrelationThreshold float64 `yaml:"correlation_threshold" envconfig:"CORRELATION_THRESHOLD" validate:"gte=-1,lte=1"`
	Workers              int     `yaml:"workers" envconfig:"WORKERS" validate:"min=1"`

	// CategoryMerges is file-only; env vars cannot express a list of rules
	CategoryMerges []CategoryMergeConfig `yaml:"category_merges" ignored:"true" validate:"dive"`
}

// CategoryMergeConfig folds every product whose description contains
// Pattern (case-insensitive) into Label
type CategoryMergeConfig struct {
	Pattern string `yaml:"pattern" validate:"required"`
	Label   string `yaml:"label" validate:"required"`
}

// TelemetryConfig controls OpenTelemetry tracing and metrics
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME"`
	EnableTracing  bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	EnableMetrics  bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// Load builds the configuration from defaults, an optional YAML file and
// BACI_* environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file; an empty path skips the file
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a matching env var keep their file or default value
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and normalizes logging settings
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}

	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path is required when output is %q", c.Logging.Output)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}

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
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			InputDir:            DefaultInputDir,
			OutputDir:           DefaultOutputDir,
			LogsDir:             DefaultLogsDir,
			TradeFilePattern:    DefaultTradeFilePattern,
			CountryCodesPattern: DefaultCountryCodesPattern,
			ProductCodesPattern: DefaultProductCodesPattern,
		},
		Analysis: AnalysisConfig{
			FocusCountry:         DefaultFocusCountry,
			FileLimit:            DefaultTradeFileLimit,
			TopN:                 DefaultTopN,
			Clusters:             DefaultClusterCount,
			Seed:                 DefaultClusterSeed,
			MaxIterations:        DefaultMaxIterations,
			Restarts:             DefaultRestarts,
			CorrelationThreshold: DefaultCorrelationThreshold,
			Workers:              DefaultLoadWorkers,
			CategoryMerges: []CategoryMergeConfig{
				{Pattern: PetroleumPattern, Label: PetroleumLabel},
			},
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "baci-trade-report",
			EnableTracing:  false,
			TraceExporter:  "none",
			EnableMetrics:  true,
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
