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
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	dec := json.NewDecoder(buf)
	for dec.More() {
		var entry map[string]interface{}
		if err := dec.Decode(&entry); err != nil {
			t.Fatalf("failed to parse JSON log: %v", err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestToolMiddleware_Success(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mw := NewToolMiddleware(logger)

	called := false
	outcome := mw.Handle(&ToolCall{Tool: "list_files", RequestID: "req-1"}, func() *ToolOutcome {
		called = true
		return &ToolOutcome{Success: true}
	})

	if !called {
		t.Fatal("handler was not called")
	}
	if !outcome.Success {
		t.Error("expected success outcome")
	}

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0]["msg"] != "tool call received" || entries[0]["event"] != "tool_call" {
		t.Errorf("unexpected first entry: %v", entries[0])
	}
	if entries[1]["msg"] != "tool call completed" || entries[1]["level"] != "INFO" {
		t.Errorf("unexpected second entry: %v", entries[1])
	}
	if entries[1][RequestIDKey] != "req-1" || entries[1][ToolKey] != "list_files" {
		t.Errorf("missing call fields: %v", entries[1])
	}
	if _, ok := entries[1][DurationKey]; !ok {
		t.Errorf("missing %s: %v", DurationKey, entries[1])
	}
}

func TestToolMiddleware_Failure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	mw := NewToolMiddleware(logger)

	mw.Handle(&ToolCall{Tool: "read_file_content"}, func() *ToolOutcome {
		return &ToolOutcome{Success: false, Code: "READ_FILE_ERROR", Error: "Error reading file"}
	})

	// The received entry is at debug level and filtered out.
	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry["msg"] != "tool call failed" || entry["level"] != "WARN" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if entry["code"] != "READ_FILE_ERROR" || entry["error"] != "Error reading file" {
		t.Errorf("missing failure fields: %v", entry)
	}
	if _, ok := entry[RequestIDKey]; ok {
		t.Errorf("request_id should be omitted when empty: %v", entry)
	}
}

func TestToolMiddleware_NilOutcome(t *testing.T) {
	var buf bytes.Buffer
	mw := NewToolMiddleware(slog.New(slog.NewJSONHandler(&buf, nil)))

	outcome := mw.Handle(&ToolCall{Tool: "testing"}, func() *ToolOutcome { return nil })
	if outcome == nil || !outcome.Success {
		t.Errorf("nil outcome should be treated as success, got %+v", outcome)
	}
}
