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

package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/filetools/internal/commands/shared"
	"github.com/tombee/filetools/internal/config"
	"github.com/tombee/filetools/internal/log"
	"github.com/tombee/filetools/internal/mcp/server"
	"github.com/tombee/filetools/internal/tracing"
)

// NewCommand creates the serve command
func NewCommand() *cobra.Command {
	var (
		baseDir     string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the filetools MCP server",
		Long: `Start the filetools MCP (Model Context Protocol) server on stdio.

The server exposes validated filesystem tools that AI assistants can call:
  - list_files: List the files in a directory
  - search_file: Search files by name or content
  - read_file_content: Read a text file
  - read_file_attributes: Read size, timestamps and permissions of a file
  - create_file: Create or append to a .txt file
  - rename_file: Rename a file within its directory
  - create_new_folder: Create a folder
  - testing: Check that the server is up

Relative paths are resolved against --base-dir, or the working directory when unset.

Configuration example for an MCP client:
  {
    "mcpServers": {
      "filetools": {
        "command": "filetools",
        "args": ["serve"]
      }
    }
  }`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), func(cfg *config.Config) {
				if baseDir != "" {
					cfg.Server.BaseDir = baseDir
				}
				if metricsAddr != "" {
					cfg.Observability.MetricsAddr = metricsAddr
				}
			})
		},
	}

	cmd.Flags().StringVar(&baseDir, "base-dir", "", "Directory that relative paths resolve against")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. 127.0.0.1:9464)")

	return cmd
}

func runServe(parent context.Context, override func(*config.Config)) error {
	if parent == nil {
		parent = context.Background()
	}

	rt, err := shared.NewRuntime(override)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.Close(shutdownCtx); err != nil {
			rt.Logger.Warn("failed to shut down tracing", log.Error(err))
		}
	}()

	versionStr, _, _ := shared.GetVersion()
	srv, err := server.NewServer(server.ServerConfig{
		Name:           rt.Config.Server.Name,
		Version:        versionStr,
		Logger:         rt.Logger,
		Registry:       rt.Registry,
		CallsPerMinute: rt.Config.Server.CallsPerMinute,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if addr := rt.Config.Observability.MetricsAddr; addr != "" {
		metricsSrv := startMetricsServer(addr, rt.Logger)
		defer metricsSrv.Close()
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
		case <-ctx.Done():
			return
		}
		rt.Logger.Info("received shutdown signal, shutting down gracefully")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			rt.Logger.Error("error during shutdown", log.Error(err))
		}

		cancel()
	}()

	// Run the server (blocks until shutdown)
	return srv.Run(ctx)
}

// startMetricsServer serves /metrics on addr in the background.
func startMetricsServer(addr string, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", tracing.MetricsHandler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", log.Error(err))
		}
	}()

	return srv
}
