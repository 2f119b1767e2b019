package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Output formats accepted by output.format.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config represents the Prism configuration
type Config struct {
	Input          string        `mapstructure:"input"`
	Service        string        `mapstructure:"service"`
	AutoVisibility bool          `mapstructure:"auto_visibility"`
	Output         OutputConfig  `mapstructure:"output"`
	OpenAPI        OpenAPIConfig `mapstructure:"openapi"`
	Log            LogConfig     `mapstructure:"log"`
}

// OutputConfig controls where and how documents are written
type OutputConfig struct {
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// OpenAPIConfig holds the document info block
type OpenAPIConfig struct {
	Title   string `mapstructure:"title"`
	Version string `mapstructure:"version"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load loads the configuration from path, or from prism.yml or prism.yaml in
// the working directory when path is empty. Environment variables prefixed
// with PRISM_ override file values, e.g. PRISM_OUTPUT_FORMAT.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("input", "")
	v.SetDefault("service", "")
	v.SetDefault("auto_visibility", false)
	v.SetDefault("output.format", FormatJSON)
	v.SetDefault("output.file", "")
	v.SetDefault("openapi.title", "API")
	v.SetDefault("openapi.version", "1.0.0")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("prism")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PRISM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Output.Format = strings.ToLower(config.Output.Format)

	return &config, nil
}

// Validate checks the settings a compilation needs
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("input must name a program description")
	}
	switch c.Output.Format {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("output.format must be %q or %q, got: %s", FormatJSON, FormatYAML, c.Output.Format)
	}
	return nil
}
