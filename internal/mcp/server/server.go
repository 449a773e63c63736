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

// Package server implements an MCP server that exposes the file tools over stdio.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tombee/filetools/internal/fileops"
	"github.com/tombee/filetools/internal/log"
)

const rateLimitMessage = "Rate limit exceeded. Please try again later."

// Server wraps the MCP server and provides the file tools
type Server struct {
	mcpServer   *server.MCPServer
	registry    *fileops.Registry
	name        string
	version     string
	rateLimiter *RateLimiter
	calls       *log.ToolMiddleware
	logger      *slog.Logger
}

// ServerConfig configures the MCP server
type ServerConfig struct {
	// Name is the server name (default: "filetools")
	Name string

	// Version is the filetools version
	Version string

	// LogLevel controls logging verbosity when Logger is nil (trace, debug, info, warn, error)
	LogLevel string

	// Logger overrides the logger built from LogLevel.
	Logger *slog.Logger

	// Registry provides the operations exposed as tools. Required.
	Registry *fileops.Registry

	// CallsPerMinute limits tool calls. 0 disables the limit.
	CallsPerMinute int
}

// createLogger creates a logger with the specified log level.
// Writes to stderr to avoid interfering with MCP stdio protocol.
func createLogger(levelStr string) (*slog.Logger, error) {
	switch levelStr {
	case "trace", "debug", "info", "", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level: %s (must be trace, debug, info, warn, or error)", levelStr)
	}

	return log.New(&log.Config{
		Level:  levelStr,
		Format: log.FormatText,
		Output: os.Stderr,
	}), nil
}

// NewServer creates a new MCP server instance
func NewServer(config ServerConfig) (*Server, error) {
	if config.Registry == nil {
		return nil, errors.New("operation registry is required")
	}
	if config.Name == "" {
		config.Name = "filetools"
	}
	if config.Version == "" {
		config.Version = "dev"
	}

	logger := config.Logger
	if logger == nil {
		var err error
		logger, err = createLogger(config.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}
	logger = log.WithComponent(logger, "mcp")

	mcpServer := server.NewMCPServer(config.Name, config.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		mcpServer:   mcpServer,
		registry:    config.Registry,
		name:        config.Name,
		version:     config.Version,
		rateLimiter: NewRateLimiter(config.CallsPerMinute),
		calls:       log.NewToolMiddleware(logger),
		logger:      logger,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// registerTools registers one MCP tool per registry operation
func (s *Server) registerTools() error {
	specs := s.registry.Specs()
	if len(specs) == 0 {
		return errors.New("registry has no operations")
	}
	for _, spec := range specs {
		s.mcpServer.AddTool(buildTool(spec), s.toolHandler(spec.Name))
		s.logger.Debug("registered tool", slog.String(log.ToolKey, spec.Name))
	}
	return nil
}

// toolHandler adapts a registry operation to an MCP tool handler.
func (s *Server) toolHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		call := &log.ToolCall{Tool: name, RequestID: uuid.NewString()}

		var result *mcp.CallToolResult
		s.calls.Handle(call, func() *log.ToolOutcome {
			if !s.rateLimiter.AllowCall() {
				result = errorResponse(rateLimitMessage)
				return &log.ToolOutcome{Success: false, Error: "rate limited"}
			}

			env := s.execute(fileops.WithRequestID(ctx, call.RequestID), name, request.Params.Arguments)
			result = envelopeResponse(env)
			return &log.ToolOutcome{Success: env.Success, Code: string(env.Code), Error: failureMessage(env)}
		})
		return result, nil
	}
}

// execute runs name with the call arguments, which must be a JSON object.
func (s *Server) execute(ctx context.Context, name string, arguments any) *fileops.Envelope {
	var params map[string]any
	switch args := arguments.(type) {
	case nil:
		params = map[string]any{}
	case map[string]any:
		params = args
	default:
		return fileops.Failure(fileops.ErrorKindValidation,
			"Invalid parameters: arguments must be a JSON object",
			fileops.FieldError{Field: "arguments", Reason: fmt.Sprintf("must be an object, got %T", arguments)})
	}
	return s.registry.Execute(ctx, name, params)
}

// Run serves MCP over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting filetools MCP server",
		slog.String("version", s.version),
		slog.String("tools", strings.Join(s.registry.Names(), ",")))

	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down filetools MCP server")
	// Returning from Listen is sufficient; the mcp-go server holds no other resources.
	return nil
}

// envelopeResponse renders env as the JSON text of a tool result.
func envelopeResponse(env *fileops.Envelope) *mcp.CallToolResult {
	body, err := env.JSON()
	if err != nil {
		return errorResponse(fmt.Sprintf("failed to encode result: %v", err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(body)),
		},
		IsError: !env.Success,
	}
}

// Helper function to create error response
func errorResponse(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(message)
}

func failureMessage(env *fileops.Envelope) string {
	if env.Success {
		return ""
	}
	return env.Message
}
