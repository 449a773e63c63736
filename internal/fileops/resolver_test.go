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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPathResolver_Directory(t *testing.T) {
	tempDir := t.TempDir()
	canonicalDir, err := filepath.EvalSymlinks(tempDir)
	if err != nil {
		t.Fatalf("EvalSymlinks failed: %v", err)
	}

	filePath := filepath.Join(tempDir, "note.txt")
	if err := os.WriteFile(filePath, []byte("hello"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	resolver := NewPathResolver(&PathResolverConfig{BaseDir: tempDir})

	tests := []struct {
		name        string
		path        string
		wantKind    ErrorKind
		wantMessage string
	}{
		{name: "existing directory", path: tempDir},
		{name: "relative current directory", path: "."},
		{name: "trailing dot segments", path: filepath.Join(tempDir, "sub", "..")},
		{name: "missing", path: filepath.Join(tempDir, "missing"), wantKind: ErrorKindValidation, wantMessage: "Directory does not exist"},
		{name: "file instead of directory", path: filePath, wantKind: ErrorKindValidation, wantMessage: "Path is not a directory"},
		{name: "below a file", path: filepath.Join(filePath, "child"), wantKind: ErrorKindValidation, wantMessage: "Directory does not exist"},
		{name: "nul byte", path: "bad\x00path", wantKind: ErrorKindPathFormat, wantMessage: "Invalid path format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, rerr := resolver.Resolve(tt.path, KindDirectory)
			if tt.wantKind == "" {
				if rerr != nil {
					t.Fatalf("Resolve(%q) failed: %v", tt.path, rerr)
				}
				if resolved.Canonical != canonicalDir {
					t.Errorf("Canonical = %q, want %q", resolved.Canonical, canonicalDir)
				}
				if resolved.Original != tt.path {
					t.Errorf("Original = %q, want %q", resolved.Original, tt.path)
				}
				return
			}
			if rerr == nil {
				t.Fatalf("Resolve(%q) succeeded, want %s", tt.path, tt.wantKind)
			}
			if rerr.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", rerr.Kind, tt.wantKind)
			}
			if !strings.Contains(rerr.Error(), tt.wantMessage) {
				t.Errorf("Error() = %q, want it to contain %q", rerr.Error(), tt.wantMessage)
			}
		})
	}
}

func TestPathResolver_DirectoryWithoutReadPermission(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	tempDir := t.TempDir()
	locked := filepath.Join(tempDir, "locked")
	if err := os.Mkdir(locked, 0o300); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	_, rerr := NewPathResolver(nil).Resolve(locked, KindDirectory)
	if rerr == nil {
		t.Fatal("expected a permission failure")
	}
	if !strings.HasPrefix(rerr.Message, "No read permission for directory") {
		t.Errorf("Message = %q", rerr.Message)
	}
	if rerr.Kind != ErrorKindValidation {
		t.Errorf("Kind = %s, want %s", rerr.Kind, ErrorKindValidation)
	}
}

func TestPathResolver_File(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "note.txt")
	if err := os.WriteFile(filePath, []byte("hello"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	link := filepath.Join(tempDir, "link.txt")
	if err := os.Symlink(filePath, link); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	resolver := NewPathResolver(&PathResolverConfig{BaseDir: tempDir})

	resolved, rerr := resolver.Resolve("link.txt", KindFile)
	if rerr != nil {
		t.Fatalf("Resolve failed: %v", rerr)
	}
	if filepath.Base(resolved.Canonical) != "note.txt" {
		t.Errorf("symlink not evaluated: %q", resolved.Canonical)
	}
	if resolved.Absolute != link {
		t.Errorf("Absolute = %q, want %q", resolved.Absolute, link)
	}

	_, rerr = resolver.Resolve(tempDir, KindFile)
	if rerr == nil || !strings.HasPrefix(rerr.Message, "Path is not a file") {
		t.Errorf("directory as file: got %v", rerr)
	}

	_, rerr = resolver.Resolve("gone.txt", KindFile)
	if rerr == nil || rerr.Message != "File does not exist: gone.txt" {
		t.Errorf("missing file: got %v", rerr)
	}
}
