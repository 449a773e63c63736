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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"

	"github.com/tombee/filetools/internal/search"
)

const (
	bytesPerMB        = 1024 * 1024
	encodingSampleLen = 4096
	fileMode          = 0644
	dirMode           = 0755

	livenessMessage = "Testing tool is working correctly! MCP server is functional."
)

// Searcher runs content and name searches.
type Searcher interface {
	Search(ctx context.Context, q search.Query) (*search.Result, error)
}

// Config holds configuration for Operations.
type Config struct {
	// BaseDir anchors relative paths. Empty means the process working directory.
	BaseDir  string
	Searcher Searcher
	Logger   *slog.Logger
}

// Operations implements the file tools. Each method validates its parameter bag,
// performs the filesystem work and returns exactly one envelope.
type Operations struct {
	resolver *PathResolver
	searcher Searcher
	logger   *slog.Logger
}

// New creates Operations from config.
func New(config *Config) (*Operations, error) {
	if config == nil {
		config = &Config{}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	searcher := config.Searcher
	if searcher == nil {
		engine, err := search.NewEngine(&search.Config{Logger: logger})
		if err != nil {
			return nil, err
		}
		searcher = engine
	}
	return &Operations{
		resolver: NewPathResolver(&PathResolverConfig{BaseDir: config.BaseDir}),
		searcher: searcher,
		logger:   logger,
	}, nil
}

// ListFiles returns the names of the regular files directly inside dir_path.
func (o *Operations) ListFiles(ctx context.Context, raw map[string]any) *Envelope {
	params, verr := ValidateListFiles(raw, o.resolver)
	if verr != nil {
		return invalidParams(verr)
	}
	dir := params.Dir()

	entries, err := os.ReadDir(dir.Canonical)
	if err != nil {
		return failure(&OperationError{
			Operation: OpListFiles,
			Message:   fmt.Sprintf("Invalid path format: %s", dir.Original),
			Kind:      ErrorKindPathFormat,
			Cause:     err,
		})
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if regularEntry(dir.Canonical, entry) {
			files = append(files, entry.Name())
		}
	}
	return Success(fmt.Sprintf("Number of files found: %d", len(files)), map[string]any{
		"files": files,
		"count": len(files),
	})
}

// SearchFile searches dir_path by file name or by file content.
func (o *Operations) SearchFile(ctx context.Context, raw map[string]any) *Envelope {
	params, verr := ValidateSearchFile(raw, o.resolver)
	if verr != nil {
		return invalidParams(verr)
	}

	res, err := o.searcher.Search(ctx, search.Query{
		Dir:           params.Dir().Canonical,
		Term:          params.Term(),
		By:            params.By(),
		CaseSensitive: params.CaseSensitive(),
		Recursive:     params.Recursive(),
		Extension:     params.Extension(),
	})
	if err != nil {
		return failure(&OperationError{
			Operation: OpSearchFile,
			Message:   fmt.Sprintf("Invalid path format: %s", params.Dir().Original),
			Kind:      ErrorKindPathFormat,
			Cause:     err,
		})
	}

	o.logger.Debug("search finished",
		slog.String("dir", params.Dir().Canonical),
		slog.String("search_by", string(params.By())),
		slog.Int("evaluated", res.Evaluated),
		slog.Int("skipped", res.Skipped),
		slog.Int("matches", len(res.Matches)))

	return Success(fmt.Sprintf("Search by %s found total #%d results", params.By(), len(res.Matches)), map[string]any{
		"matches": res.Matches,
		"count":   len(res.Matches),
	})
}

// ReadFileContent returns the text of file_path, dropping invalid UTF-8 sequences.
func (o *Operations) ReadFileContent(ctx context.Context, raw map[string]any) *Envelope {
	params, verr := ValidateFilePath(OpReadFileContent, raw, o.resolver)
	if verr != nil {
		return invalidParams(verr)
	}
	file := params.File()

	data, err := readAll(file)
	if err != nil {
		return failure(err)
	}
	bytesRead.Add(float64(len(data)))

	return Success("Successfully read file content", map[string]any{
		"file_content": search.DecodeLenient(data),
		"size_bytes":   len(data),
		"encoding":     detectEncoding(data),
	})
}

// regularEntry reports whether entry is a regular file or a symlink to one.
func regularEntry(dir string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}

// ReadFileAttributes returns metadata about file_path.
func (o *Operations) ReadFileAttributes(ctx context.Context, raw map[string]any) *Envelope {
	params, verr := ValidateFilePath(OpReadFileAttributes, raw, o.resolver)
	if verr != nil {
		return invalidParams(verr)
	}
	file := params.File()

	info, err := os.Stat(file.Canonical)
	if err != nil {
		return failure(readError(OpReadFileAttributes, file, err))
	}
	accessed, changed := fileTimes(info)

	data := map[string]any{
		"name":         filepath.Base(file.Absolute),
		"size_bytes":   info.Size(),
		"size_mb":      math.Round(float64(info.Size())/bytesPerMB*100) / 100,
		"date_updated": info.ModTime().Format(time.RFC3339),
		"access":       accessed.Format(time.RFC3339),
		"date_created": changed.Format(time.RFC3339),
		"is_file":      info.Mode().IsRegular(),
		"is_directory": info.IsDir(),
		"permissions":  fmt.Sprintf("%03o", info.Mode().Perm()),
	}
	if mt, err := mimetype.DetectFile(file.Canonical); err == nil {
		data["mime_type"] = mt.String()
	} else {
		o.logger.Debug("mime detection failed", slog.String("path", file.Canonical), slog.Any("error", err))
	}

	return Success("Successfully read file attributes", data)
}

// CreateFile writes file_content to dir_path/file_name, appending when
// append_content is set and replacing the file otherwise.
func (o *Operations) CreateFile(ctx context.Context, raw map[string]any) *Envelope {
	params, verr := ValidateCreateFile(raw, o.resolver)
	if verr != nil {
		return invalidParams(verr)
	}
	target := filepath.Join(params.Dir().Canonical, params.FileName())

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if params.Append() {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	if err := writeFile(target, flags, params.Content()); err != nil {
		return failure(&OperationError{
			Operation: OpCreateFile,
			Message:   fmt.Sprintf("Error during creating file %s", target),
			Kind:      ErrorKindFileCreation,
			Cause:     err,
		})
	}
	bytesWritten.Add(float64(len(params.Content())))

	return Success("Success create file with initial content!", map[string]any{
		"name":            target,
		"initial_content": params.Content(),
	})
}

func writeFile(path string, flags int, content string) (err error) {
	f, err := os.OpenFile(path, flags, fileMode)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	_, err = io.WriteString(f, content)
	return err
}

// RenameFile renames file_path to new_file_name inside the same directory.
func (o *Operations) RenameFile(ctx context.Context, raw map[string]any) *Envelope {
	params, verr := ValidateRenameFile(raw, o.resolver)
	if verr != nil {
		return invalidParams(verr)
	}
	// Rename the entry the caller named; a symlink is renamed, not its target.
	oldPath := params.File().Absolute
	newPath := filepath.Join(filepath.Dir(oldPath), params.NewName())

	if err := os.Rename(oldPath, newPath); err != nil {
		return failure(&OperationError{
			Operation: OpRenameFile,
			Message:   fmt.Sprintf("Error during renaming file from %s to %s", oldPath, newPath),
			Kind:      ErrorKindRename,
			Cause:     err,
		})
	}
	return Success("Success rename file!", map[string]any{
		"old_file": oldPath,
		"new_file": newPath,
	})
}

// CreateFolder creates dir_path/folder_name. An existing directory counts as success.
func (o *Operations) CreateFolder(ctx context.Context, raw map[string]any) *Envelope {
	params, verr := ValidateCreateFolder(raw, o.resolver)
	if verr != nil {
		return invalidParams(verr)
	}
	target := filepath.Join(params.Dir().Canonical, params.FolderName())

	if err := os.Mkdir(target, dirMode); err != nil && !existingDir(target, err) {
		return failure(&OperationError{
			Operation: OpCreateFolder,
			Message:   fmt.Sprintf("Error during creating folder %s", target),
			Kind:      ErrorKindFolderCreation,
			Cause:     err,
		})
	}
	return Success("Success create new folder!", map[string]any{
		"folder_path": target,
	})
}

func existingDir(path string, mkdirErr error) bool {
	if !errors.Is(mkdirErr, fs.ErrExist) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Ping reports that the server is alive. It takes no parameters.
func (o *Operations) Ping(ctx context.Context, raw map[string]any) *Envelope {
	if verr := newParamBag(OpTesting, raw).finish(); verr != nil {
		return invalidParams(verr)
	}
	return Success(livenessMessage, nil)
}

func readAll(file ResolvedPath) ([]byte, error) {
	f, err := os.Open(file.Canonical)
	if err != nil {
		return nil, readError(OpReadFileContent, file, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, readError(OpReadFileContent, file, err)
	}
	return data, nil
}

func readError(op string, file ResolvedPath, err error) *OperationError {
	return &OperationError{
		Operation: op,
		Message:   fmt.Sprintf("Error reading file %s", file.Original),
		Kind:      ErrorKindRead,
		Cause:     err,
	}
}

// detectEncoding names the most likely charset of the leading bytes of data.
func detectEncoding(data []byte) string {
	if len(data) == 0 {
		return "unknown"
	}
	sample := data
	if len(sample) > encodingSampleLen {
		sample = sample[:encodingSampleLen]
	}
	best, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || best == nil {
		return "unknown"
	}
	return best.Charset
}
