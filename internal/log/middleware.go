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

package log

import (
	"context"
	"log/slog"
	"time"
)

// ToolCall describes an incoming MCP tool call for logging purposes.
type ToolCall struct {
	// Tool is the name of the called tool.
	Tool string

	// RequestID is the unique ID assigned to this call.
	RequestID string

	// Metadata contains additional call metadata.
	Metadata map[string]interface{}
}

// ToolOutcome describes how a tool call finished.
type ToolOutcome struct {
	// Success reports whether the tool returned a success envelope.
	Success bool

	// Code is the error kind of a failure envelope.
	Code string

	// Error is the failure message.
	Error string

	// DurationMs is the duration of the call in milliseconds.
	DurationMs int64
}

// LogToolCall logs an incoming tool call.
func LogToolCall(logger *slog.Logger, call *ToolCall) {
	attrs := []any{
		"event", "tool_call",
		ToolKey, call.Tool,
	}

	if call.RequestID != "" {
		attrs = append(attrs, RequestIDKey, call.RequestID)
	}

	for k, v := range call.Metadata {
		attrs = append(attrs, k, v)
	}

	logger.Debug("tool call received", attrs...)
}

// LogToolOutcome logs the end of a tool call.
func LogToolOutcome(logger *slog.Logger, call *ToolCall, outcome *ToolOutcome) {
	attrs := []any{
		"event", "tool_result",
		ToolKey, call.Tool,
		"success", outcome.Success,
		DurationKey, outcome.DurationMs,
	}

	if call.RequestID != "" {
		attrs = append(attrs, RequestIDKey, call.RequestID)
	}

	if outcome.Code != "" {
		attrs = append(attrs, "code", outcome.Code)
	}

	if outcome.Error != "" {
		attrs = append(attrs, "error", outcome.Error)
	}

	level := slog.LevelInfo
	message := "tool call completed"

	if !outcome.Success {
		level = slog.LevelWarn
		message = "tool call failed"
	}

	logger.Log(context.Background(), level, message, attrs...)
}

// ToolMiddleware wraps tool handlers with call logging.
type ToolMiddleware struct {
	logger *slog.Logger
}

// NewToolMiddleware creates a new tool call logging middleware.
func NewToolMiddleware(logger *slog.Logger) *ToolMiddleware {
	return &ToolMiddleware{
		logger: logger,
	}
}

// Handle logs call, runs handler and logs the outcome it reports.
func (m *ToolMiddleware) Handle(call *ToolCall, handler func() *ToolOutcome) *ToolOutcome {
	start := time.Now()

	LogToolCall(m.logger, call)

	outcome := handler()
	if outcome == nil {
		outcome = &ToolOutcome{Success: true}
	}
	outcome.DurationMs = time.Since(start).Milliseconds()

	LogToolOutcome(m.logger, call, outcome)

	return outcome
}
