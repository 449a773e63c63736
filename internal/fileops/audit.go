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

package fileops

import (
	"context"
	"log/slog"
	"time"
)

// AuditEntry represents a logged file operation
type AuditEntry struct {
	Timestamp time.Time
	Operation string
	RequestID string
	Path      string
	Result    string // "success" or "error"
	Code      ErrorKind
	Duration  time.Duration
	Error     string // if Result == "error"
}

// AuditLogger logs file operations
type AuditLogger interface {
	Log(entry AuditEntry)
}

// SlogAuditLogger implements AuditLogger using structured logging with slog
type SlogAuditLogger struct {
	logger *slog.Logger
}

// NewSlogAuditLogger creates an audit logger that uses slog
func NewSlogAuditLogger(logger *slog.Logger) *SlogAuditLogger {
	return &SlogAuditLogger{
		logger: logger,
	}
}

// Log writes an audit entry using structured logging
func (l *SlogAuditLogger) Log(entry AuditEntry) {
	if l.logger == nil {
		return
	}

	attrs := []slog.Attr{
		slog.String("operation", entry.Operation),
		slog.String("result", entry.Result),
		slog.Duration("duration", entry.Duration),
	}
	if entry.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", entry.RequestID))
	}
	if entry.Path != "" {
		attrs = append(attrs, slog.String("path", entry.Path))
	}
	if entry.Code != "" {
		attrs = append(attrs, slog.String("code", string(entry.Code)))
	}
	if entry.Error != "" {
		attrs = append(attrs, slog.String("error", entry.Error))
	}

	// Validation failures are the caller's problem; everything else is ours.
	level := slog.LevelInfo
	if entry.Result == "error" {
		level = slog.LevelWarn
		if entry.Code != ErrorKindValidation {
			level = slog.LevelError
		}
	}
	l.logger.LogAttrs(context.Background(), level, "file operation finished", attrs...)
}

// NoopAuditLogger is a no-op implementation for when auditing is disabled
type NoopAuditLogger struct{}

// Log does nothing
func (n *NoopAuditLogger) Log(entry AuditEntry) {}
