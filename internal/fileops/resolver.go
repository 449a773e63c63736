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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// PathKind selects which existence rules Resolve applies.
type PathKind int

const (
	// KindDirectory requires an existing, readable directory.
	KindDirectory PathKind = iota
	// KindFile requires an existing regular file.
	KindFile
)

// ResolvedPath is a validated path in the form the caller sent, its cleaned absolute
// form, and its canonical form with symlinks evaluated. Absolute still names a
// symlink when the caller pointed at one.
type ResolvedPath struct {
	Original  string
	Absolute  string
	Canonical string
}

// ResolveError explains why a path was rejected.
type ResolveError struct {
	Kind    ErrorKind
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *ResolveError) Unwrap() error {
	return e.Cause
}

// PathResolver canonicalizes caller-supplied paths and checks them against the
// existence rules of the requested kind. Results are never cached; each call sees
// the filesystem as it is at that moment.
type PathResolver struct {
	baseDir string
}

// PathResolverConfig holds configuration for the PathResolver.
type PathResolverConfig struct {
	// BaseDir anchors relative paths. Empty means the process working directory.
	BaseDir string
}

// NewPathResolver creates a new PathResolver with the given configuration.
func NewPathResolver(config *PathResolverConfig) *PathResolver {
	if config == nil {
		config = &PathResolverConfig{}
	}
	return &PathResolver{baseDir: config.BaseDir}
}

// Resolve canonicalizes path and applies the rules for kind, stopping at the first
// rule that fails.
func (r *PathResolver) Resolve(path string, kind PathKind) (ResolvedPath, *ResolveError) {
	absolute, canonical, rerr := r.canonicalize(path)
	if rerr != nil {
		return ResolvedPath{}, rerr
	}
	resolved := ResolvedPath{Original: path, Absolute: absolute, Canonical: canonical}

	switch kind {
	case KindDirectory:
		rerr = checkDirectory(path, canonical)
	default:
		rerr = checkFile(path, canonical)
	}
	if rerr != nil {
		return ResolvedPath{}, rerr
	}
	return resolved, nil
}

// canonicalize returns the absolute, cleaned form of path both as written and with
// symlinks evaluated. A path that does not exist keeps its cleaned absolute form so
// the existence checks can report it.
func (r *PathResolver) canonicalize(path string) (absolute, canonical string, rerr *ResolveError) {
	if strings.ContainsRune(path, 0) {
		return "", "", pathFormatError(path, errors.New("path contains a NUL byte"))
	}

	expanded := path
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", pathFormatError(path, err)
		}
		expanded = filepath.Join(home, path[2:])
	}

	absPath := expanded
	if !filepath.IsAbs(absPath) {
		base := r.baseDir
		if base == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return "", "", pathFormatError(path, err)
			}
			base = cwd
		}
		absPath = filepath.Join(base, absPath)
	}
	cleaned := filepath.Clean(absPath)

	resolved, err := filepath.EvalSymlinks(cleaned)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return cleaned, cleaned, nil
		}
		return "", "", pathFormatError(path, err)
	}
	return cleaned, resolved, nil
}

func pathFormatError(path string, cause error) *ResolveError {
	return &ResolveError{
		Kind:    ErrorKindPathFormat,
		Path:    path,
		Message: fmt.Sprintf("Invalid path format: %s", path),
		Cause:   cause,
	}
}

func invalidPath(path, format string) *ResolveError {
	return &ResolveError{
		Kind:    ErrorKindValidation,
		Path:    path,
		Message: fmt.Sprintf(format, path),
	}
}

func checkDirectory(original, canonical string) *ResolveError {
	info, err := os.Stat(canonical)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return invalidPath(original, "Directory does not exist: %s")
		}
		return pathFormatError(original, err)
	}
	if !info.IsDir() {
		return invalidPath(original, "Path is not a directory: %s")
	}

	// Opening the directory is the portable way to learn whether it can be listed.
	dir, err := os.Open(canonical)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return invalidPath(original, "No read permission for directory: %s")
		}
		return pathFormatError(original, err)
	}
	_ = dir.Close()
	return nil
}

func checkFile(original, canonical string) *ResolveError {
	info, err := os.Stat(canonical)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return invalidPath(original, "File does not exist: %s")
		}
		return pathFormatError(original, err)
	}
	if !info.Mode().IsRegular() {
		return invalidPath(original, "Path is not a file: %s")
	}
	return nil
}
