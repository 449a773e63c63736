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

package tools

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tombee/filetools/internal/fileops"
)

func TestToolsCommand_Table(t *testing.T) {
	cmd := NewCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("tools command failed: %v", err)
	}

	output := buf.String()
	for _, name := range []string{
		fileops.OpListFiles,
		fileops.OpSearchFile,
		fileops.OpReadFileContent,
		fileops.OpReadFileAttributes,
		fileops.OpCreateFile,
		fileops.OpRenameFile,
		fileops.OpCreateFolder,
		fileops.OpTesting,
	} {
		if !strings.Contains(output, name) {
			t.Errorf("expected %s in output:\n%s", name, output)
		}
	}
	if !strings.Contains(output, "[case_sensitive]") {
		t.Errorf("expected optional parameters in brackets:\n%s", output)
	}
}

func TestDescribe(t *testing.T) {
	infos := describe([]fileops.ToolSpec{{
		Name: "example",
		Params: []fileops.ParamSpec{
			{Name: "dir_path", Required: true},
			{Name: "recursive"},
		},
	}})

	if len(infos) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(infos))
	}
	if got := infos[0].Required; len(got) != 1 || got[0] != "dir_path" {
		t.Errorf("required = %v", got)
	}
	if got := infos[0].Optional; len(got) != 1 || got[0] != "recursive" {
		t.Errorf("optional = %v", got)
	}
}
