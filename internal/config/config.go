// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	filetoolserrors "github.com/tombee/filetools/pkg/errors"
)

// Config represents the complete filetools configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Log           LogConfig           `yaml:"log"`
	Search        SearchConfig        `yaml:"search"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	// Name is the server name announced to MCP clients.
	Name string `yaml:"name" validate:"required"`

	// BaseDir anchors relative paths sent by clients. Empty means the working directory.
	BaseDir string `yaml:"base_dir"`

	// CallsPerMinute limits tool calls. 0 disables the limit.
	CallsPerMinute int `yaml:"calls_per_minute" validate:"gte=0"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	Level string `yaml:"level" validate:"oneof=trace debug info warn warning error"`

	// Format sets the output format (json, text).
	Format string `yaml:"format" validate:"oneof=json text"`

	// AddSource adds source file and line information to logs.
	AddSource bool `yaml:"add_source"`
}

// SearchConfig configures the search engine.
type SearchConfig struct {
	// Exclude lists doublestar patterns, relative to the search root, that are never searched.
	Exclude []string `yaml:"exclude" validate:"dive,required,globpattern"`

	// MaxLineBytes bounds how much of one line is buffered during content searches.
	MaxLineBytes int `yaml:"max_line_bytes" validate:"gte=1024"`
}

// ObservabilityConfig configures metrics and tracing.
type ObservabilityConfig struct {
	// MetricsAddr is the listen address of the Prometheus endpoint. Empty disables it.
	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`

	// TraceExporter selects the span exporter (none, stdout).
	TraceExporter string `yaml:"trace_exporter" validate:"oneof=none stdout"`
}

const (
	defaultServerName    = "filetools"
	defaultLogLevel      = "info"
	defaultLogFormat     = "json"
	defaultMaxLineBytes  = 1 << 20
	defaultTraceExporter = "none"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name: defaultServerName,
		},
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Search: SearchConfig{
			MaxLineBytes: defaultMaxLineBytes,
		},
		Observability: ObservabilityConfig{
			TraceExporter: defaultTraceExporter,
		},
	}
}

// Load loads configuration from a YAML file and environment variables.
// Environment variables take precedence over file-based configuration.
// If configPath is empty, the file at ConfigPath is used when it exists.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	path := configPath
	if path == "" {
		if p, err := ConfigPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			// Only a missing implicit config file is tolerated.
			if configPath != "" || !errors.Is(err, fs.ErrNotExist) {
				return nil, &filetoolserrors.ConfigError{
					Key:    "config_file",
					Reason: fmt.Sprintf("failed to load from %s", path),
					Cause:  err,
				}
			}
		}
	}

	// Apply defaults to any zero values (handles minimal configs)
	cfg.applyDefaults()

	if err := cfg.loadFromEnv(); err != nil {
		return nil, &filetoolserrors.ConfigError{
			Key:    "environment",
			Reason: "failed to read environment overrides",
			Cause:  err,
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &filetoolserrors.ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}

	return cfg, nil
}

// LoadEnvFile loads variables from a dotenv file into the process environment.
// Variables that are already set are left untouched.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return &filetoolserrors.ConfigError{
			Key:    "env_file",
			Reason: fmt.Sprintf("failed to load %s", path),
			Cause:  err,
		}
	}
	return nil
}

// applyDefaults fills in zero values with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Server.Name == "" {
		c.Server.Name = defaultServerName
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
	if c.Search.MaxLineBytes == 0 {
		c.Search.MaxLineBytes = defaultMaxLineBytes
	}
	if c.Observability.TraceExporter == "" {
		c.Observability.TraceExporter = defaultTraceExporter
	}
}

// loadFromFile loads configuration from a YAML file.
func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return filetoolserrors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return filetoolserrors.Wrapf(err, "failed to parse YAML in %s", path)
	}

	return nil
}

// envOverrides lists the supported environment variables. Nil fields were not set.
type envOverrides struct {
	ServerName     *string  `envconfig:"FILETOOLS_SERVER_NAME"`
	BaseDir        *string  `envconfig:"FILETOOLS_BASE_DIR"`
	CallsPerMinute *int     `envconfig:"FILETOOLS_CALLS_PER_MINUTE"`
	LogLevel       *string  `envconfig:"FILETOOLS_LOG_LEVEL"`
	LogFormat      *string  `envconfig:"FILETOOLS_LOG_FORMAT"`
	LogSource      *bool    `envconfig:"FILETOOLS_LOG_SOURCE"`
	SearchExclude  []string `envconfig:"FILETOOLS_SEARCH_EXCLUDE"`
	MaxLineBytes   *int     `envconfig:"FILETOOLS_SEARCH_MAX_LINE_BYTES"`
	MetricsAddr    *string  `envconfig:"FILETOOLS_METRICS_ADDR"`
	TraceExporter  *string  `envconfig:"FILETOOLS_TRACE_EXPORTER"`
}

// loadFromEnv overlays configuration from environment variables.
func (c *Config) loadFromEnv() error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return err
	}

	if env.ServerName != nil {
		c.Server.Name = *env.ServerName
	}
	if env.BaseDir != nil {
		c.Server.BaseDir = *env.BaseDir
	}
	if env.CallsPerMinute != nil {
		c.Server.CallsPerMinute = *env.CallsPerMinute
	}
	if env.LogLevel != nil {
		c.Log.Level = strings.ToLower(*env.LogLevel)
	}
	if env.LogFormat != nil {
		c.Log.Format = strings.ToLower(*env.LogFormat)
	}
	if env.LogSource != nil {
		c.Log.AddSource = *env.LogSource
	}
	if env.SearchExclude != nil {
		c.Search.Exclude = env.SearchExclude
	}
	if env.MaxLineBytes != nil {
		c.Search.MaxLineBytes = *env.MaxLineBytes
	}
	if env.MetricsAddr != nil {
		c.Observability.MetricsAddr = *env.MetricsAddr
	}
	if env.TraceExporter != nil {
		c.Observability.TraceExporter = strings.ToLower(*env.TraceExporter)
	}

	return nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("globpattern", func(fl validator.FieldLevel) bool {
		return doublestar.ValidatePattern(fl.Field().String())
	}); err != nil {
		return err
	}

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return &filetoolserrors.ValidationError{
		Field:      fieldKey(fieldErrs[0]),
		Message:    strings.Join(msgs, "; "),
		Suggestion: fmt.Sprintf("Fix %s in the config file or set the matching FILETOOLS_ environment variable", fieldKey(fieldErrs[0])),
	}
}

// fieldKey returns the YAML key path of a validator failure, without the root struct.
func fieldKey(fe validator.FieldError) string {
	key := fe.Namespace()
	if i := strings.Index(key, "."); i >= 0 {
		key = key[i+1:]
	}
	return key
}

// describeFieldError renders a validator failure using the YAML key path.
func describeFieldError(fe validator.FieldError) string {
	key := fieldKey(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", key)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", key, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	case "globpattern":
		return fmt.Sprintf("%s is not a valid glob pattern: %q", key, fe.Value())
	case "hostname_port":
		return fmt.Sprintf("%s must be a host:port address, got %q", key, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", key, fe.Tag())
	}
}
