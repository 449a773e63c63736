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

package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/filetools/internal/fileops"
)

func newTestServer(t *testing.T, callsPerMinute int) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	ops, err := fileops.New(&fileops.Config{BaseDir: dir})
	require.NoError(t, err)

	s, err := NewServer(ServerConfig{
		Registry:       fileops.NewRegistry(ops),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		CallsPerMinute: callsPerMinute,
	})
	require.NoError(t, err)
	return s, dir
}

func callTool(t *testing.T, s *Server, name string, args any) (*mcp.CallToolResult, fileops.Envelope) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := s.toolHandler(name)(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])

	var env fileops.Envelope
	if json.Valid([]byte(text.Text)) {
		require.NoError(t, json.Unmarshal([]byte(text.Text), &env))
	} else {
		env.Message = text.Text
	}
	return result, env
}

func TestCreateLogger(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"trace", false},
		{"debug", false},
		{"info", false},
		{"", false},
		{"warn", false},
		{"error", false},
		{"verbose", true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := createLogger(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNewServer_Defaults(t *testing.T) {
	s, _ := newTestServer(t, 0)
	assert.Equal(t, "filetools", s.name)
	assert.Equal(t, "dev", s.version)
}

func TestNewServer_RequiresRegistry(t *testing.T) {
	_, err := NewServer(ServerConfig{})
	assert.Error(t, err)
}

func TestNewServer_InvalidLogLevel(t *testing.T) {
	ops, err := fileops.New(&fileops.Config{})
	require.NoError(t, err)

	_, err = NewServer(ServerConfig{Registry: fileops.NewRegistry(ops), LogLevel: "loud"})
	assert.Error(t, err)
}

func TestBuildTool(t *testing.T) {
	s, _ := newTestServer(t, 0)
	op, ok := s.registry.Lookup(fileops.OpSearchFile)
	require.True(t, ok)

	tool := buildTool(op.Spec)

	assert.Equal(t, fileops.OpSearchFile, tool.Name)
	assert.NotEmpty(t, tool.Description)
	assert.ElementsMatch(t, []string{"dir_path", "search_term", "search_by"}, tool.InputSchema.Required)

	searchBy, ok := tool.InputSchema.Properties["search_by"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", searchBy["type"])
	assert.Equal(t, []string{"name", "content"}, searchBy["enum"])

	caseSensitive, ok := tool.InputSchema.Properties["case_sensitive"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boolean", caseSensitive["type"])
	assert.Equal(t, false, caseSensitive["default"])
}

func TestToolHandler_ListFiles(t *testing.T) {
	s, dir := newTestServer(t, 0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644))

	result, env := callTool(t, s, fileops.OpListFiles, map[string]any{"dir_path": dir})
	assert.False(t, result.IsError)
	assert.True(t, env.Success)
	assert.Equal(t, "Number of files found: 2", env.Message)
}

func TestToolHandler_ValidationFailure(t *testing.T) {
	s, dir := newTestServer(t, 0)

	result, env := callTool(t, s, fileops.OpReadFileContent, map[string]any{
		"file_path": filepath.Join(dir, "missing.txt"),
	})
	assert.True(t, result.IsError)
	assert.False(t, env.Success)
	assert.Equal(t, fileops.ErrorKindValidation, env.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "file_path", env.Errors[0].Field)
}

func TestToolHandler_NonObjectArguments(t *testing.T) {
	s, _ := newTestServer(t, 0)

	result, env := callTool(t, s, fileops.OpListFiles, []any{"not", "an", "object"})
	assert.True(t, result.IsError)
	assert.Equal(t, fileops.ErrorKindValidation, env.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "arguments", env.Errors[0].Field)
}

func TestToolHandler_Testing(t *testing.T) {
	s, _ := newTestServer(t, 0)

	result, env := callTool(t, s, fileops.OpTesting, nil)
	assert.False(t, result.IsError)
	assert.True(t, env.Success)
}

func TestToolHandler_RateLimited(t *testing.T) {
	s, _ := newTestServer(t, 1)

	result, _ := callTool(t, s, fileops.OpTesting, nil)
	assert.False(t, result.IsError)

	result, env := callTool(t, s, fileops.OpTesting, nil)
	assert.True(t, result.IsError)
	assert.Equal(t, rateLimitMessage, env.Message)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3)
	for i := 0; i < 3; i++ {
		assert.True(t, rl.AllowCall(), "call %d", i)
	}
	assert.False(t, rl.AllowCall())

	unlimited := NewRateLimiter(0)
	for i := 0; i < 100; i++ {
		require.True(t, unlimited.AllowCall())
	}
}
