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

package shared

import (
	"context"
	"log/slog"
	"os"

	"github.com/tombee/filetools/internal/config"
	"github.com/tombee/filetools/internal/fileops"
	"github.com/tombee/filetools/internal/log"
	"github.com/tombee/filetools/internal/search"
	"github.com/tombee/filetools/internal/tracing"
	filetoolserrors "github.com/tombee/filetools/pkg/errors"
)

// Runtime holds the components shared by commands that execute file operations.
type Runtime struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *fileops.Registry
	Tracing  *tracing.OTelProvider
}

// NewRuntime loads configuration using the global flags and wires the
// logger, tracer provider, search engine and operation registry.
// Overrides are applied to the loaded config before it is validated again.
func NewRuntime(overrides ...func(*config.Config)) (*Runtime, error) {
	if envFile := GetEnvFile(); envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			return nil, NewConfigError("failed to load env file", err)
		}
	}

	cfg, err := config.Load(GetConfigPath())
	if err != nil {
		return nil, NewConfigError("failed to load config", err)
	}
	if len(overrides) > 0 {
		for _, override := range overrides {
			override(cfg)
		}
		if err := cfg.Validate(); err != nil {
			return nil, NewConfigError("invalid command line options", err)
		}
	}

	logger := newLogger(cfg)

	traceCfg := tracing.DefaultConfig()
	traceCfg.Exporter = cfg.Observability.TraceExporter
	traceCfg.ServiceName = cfg.Server.Name
	traceCfg.ServiceVersion = version
	traceCfg.Writer = os.Stderr
	provider, err := tracing.NewOTelProvider(traceCfg)
	if err != nil {
		return nil, NewConfigError("failed to set up tracing", err)
	}

	engine, err := search.NewEngine(&search.Config{
		Exclude:      cfg.Search.Exclude,
		MaxLineBytes: cfg.Search.MaxLineBytes,
		Logger:       log.WithComponent(logger, "search"),
	})
	if err != nil {
		return nil, NewConfigError("invalid search configuration", err)
	}

	ops, err := fileops.New(&fileops.Config{
		BaseDir:  cfg.Server.BaseDir,
		Searcher: engine,
		Logger:   log.WithComponent(logger, "fileops"),
	})
	if err != nil {
		return nil, filetoolserrors.Wrap(err, "failed to create file operations")
	}

	audit := fileops.NewSlogAuditLogger(log.WithComponent(logger, "audit"))

	return &Runtime{
		Config:   cfg,
		Logger:   logger,
		Registry: fileops.NewRegistry(ops, fileops.WithAuditLogger(audit)),
		Tracing:  provider,
	}, nil
}

// Close flushes and stops the tracer provider.
func (r *Runtime) Close(ctx context.Context) error {
	return r.Tracing.Shutdown(ctx)
}

// newLogger builds the stderr logger from config and the verbosity flags.
// FILETOOLS_DEBUG wins over the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	logCfg := log.FromEnv()
	if os.Getenv("FILETOOLS_DEBUG") == "" {
		logCfg.Level = cfg.Log.Level
	}
	logCfg.Format = log.Format(cfg.Log.Format)
	logCfg.AddSource = logCfg.AddSource || cfg.Log.AddSource
	logCfg.Output = os.Stderr

	switch {
	case GetVerbose():
		logCfg.Level = "debug"
	case GetQuiet():
		logCfg.Level = "error"
	}

	return log.New(logCfg)
}
