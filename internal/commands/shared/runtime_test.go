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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/filetools/internal/fileops"
)

func TestNewRuntime(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("FILETOOLS_DEBUG", "")

	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
server:
  base_dir: `+dir+`
search:
  exclude: ["**/.git/**"]
`), 0o644))

	SetConfigPathForTest(configPath)
	defer SetConfigPathForTest("")

	rt, err := NewRuntime()
	require.NoError(t, err)
	defer rt.Close(context.Background())

	assert.Equal(t, dir, rt.Config.Server.BaseDir)
	assert.False(t, rt.Tracing.Enabled())

	env := rt.Registry.Execute(context.Background(), fileops.OpTesting, map[string]any{})
	assert.True(t, env.Success)
}

func TestNewRuntime_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log:\n  level: loud\n"), 0o644))

	SetConfigPathForTest(configPath)
	defer SetConfigPathForTest("")

	_, err := NewRuntime()
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, ExitInvalidConfig, exitErr.Code)
}
