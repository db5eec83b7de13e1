// Package config provides configuration loading and validation for linseg.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidPort        = errors.New("invalid server port")
	ErrInvalidEpsilon     = errors.New("editor epsilon must be a finite non-negative number")
	ErrInvalidBodyLimit   = errors.New("invalid server body size limit")
	ErrInvalidFormat      = errors.New("invalid format")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
	ErrInvalidDrainDelay  = errors.New("server drain delay must not be negative")
)

// Output and log formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatText  = "text"
)

// Default configuration values.
const (
	defaultPort        = 8080
	defaultHost        = "0.0.0.0"
	defaultMaxBodySize = "4MB"
	maxPort            = 65535

	envPrefix  = "LINSEG"
	configName = "linseg"
)

// Config holds all configuration for linseg.
type Config struct {
	Editor        EditorConfig        `mapstructure:"editor"`
	Server        ServerConfig        `mapstructure:"server"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Output        OutputConfig        `mapstructure:"output"`
}

// EditorConfig holds the default edit options.
type EditorConfig struct {
	AllowResizeNeighbour bool    `mapstructure:"allow_resize_neighbour"`
	KeepZeroLength       bool    `mapstructure:"keep_zero_length"`
	Epsilon              float64 `mapstructure:"epsilon"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	MaxBodySize     string        `mapstructure:"max_body_size"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	DrainDelay      time.Duration `mapstructure:"drain_delay"`
	Port            int           `mapstructure:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// BodyLimit returns MaxBodySize in bytes.
func (s ServerConfig) BodyLimit() (int64, error) {
	size, err := humanize.ParseBytes(s.MaxBodySize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidBodyLimit, s.MaxBodySize, err)
	}

	if size == 0 || size > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBodyLimit, s.MaxBodySize)
	}

	return int64(size), nil
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig holds telemetry export configuration.
type ObservabilityConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
}

// OutputConfig holds CLI output configuration.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// LoadConfig loads configuration from file and environment variables.
// An empty configPath searches ./linseg.yaml, ./config/linseg.yaml and
// /etc/linseg/linseg.yaml; a missing file there is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/linseg")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := Validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration LoadConfig produces without file or
// environment overrides.
func Default() *Config {
	viperCfg := viper.New()
	setDefaults(viperCfg)

	var config Config

	// Defaults always decode.
	_ = viperCfg.Unmarshal(&config)

	return &config
}

func setDefaults(viperCfg *viper.Viper) {
	// Editor defaults.
	viperCfg.SetDefault("editor.allow_resize_neighbour", true)
	viperCfg.SetDefault("editor.keep_zero_length", false)
	viperCfg.SetDefault("editor.epsilon", 0.0)

	// Server defaults.
	viperCfg.SetDefault("server.host", defaultHost)
	viperCfg.SetDefault("server.port", defaultPort)
	viperCfg.SetDefault("server.max_body_size", defaultMaxBodySize)
	viperCfg.SetDefault("server.read_timeout", "10s")
	viperCfg.SetDefault("server.write_timeout", "10s")
	viperCfg.SetDefault("server.idle_timeout", "60s")
	viperCfg.SetDefault("server.shutdown_timeout", "15s")
	viperCfg.SetDefault("server.drain_delay", "0s")

	// Logging defaults.
	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", FormatText)

	// Observability defaults.
	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.otlp_headers", "")
	viperCfg.SetDefault("observability.otlp_insecure", false)
	viperCfg.SetDefault("observability.sample_ratio", 0.0)
	viperCfg.SetDefault("observability.environment", "")

	// Output defaults.
	viperCfg.SetDefault("output.format", FormatTable)
	viperCfg.SetDefault("output.color", true)
}

// Validate checks a configuration for out-of-range values.
func Validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, config.Server.Port)
	}

	eps := config.Editor.Epsilon
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidEpsilon, eps)
	}

	if config.Server.DrainDelay < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDrainDelay, config.Server.DrainDelay)
	}

	_, err := config.Server.BodyLimit()
	if err != nil {
		return err
	}

	switch config.Logging.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalidFormat, config.Logging.Format)
	}

	switch config.Output.Format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: output.format %q", ErrInvalidFormat, config.Output.Format)
	}

	ratio := config.Observability.SampleRatio
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, ratio)
	}

	return nil
}
