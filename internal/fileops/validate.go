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
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tombee/filetools/internal/search"
)

const (
	minFileContentLength = 10
	maxFileContentLength = 200
	minFolderNameLength  = 3
	requiredNameFragment = ".txt"
)

// allowedExtensions is the closed allow-list for file_extension.
var allowedExtensions = map[string]bool{
	"txt": true,
}

// fields applies field rules to a parameter bag. Rules run for every field even
// after an earlier one failed, so a single call reports every problem.
type fields struct {
	*paramBag
	resolver *PathResolver
}

func newFields(operation string, raw map[string]any, resolver *PathResolver) *fields {
	return &fields{paramBag: newParamBag(operation, raw), resolver: resolver}
}

func (f *fields) path(key string, kind PathKind) ResolvedPath {
	value, ok := f.requiredString(key)
	if !ok {
		return ResolvedPath{}
	}
	value = strings.TrimSpace(value)
	if value == "" {
		f.errs.add(key, "must not be empty")
		return ResolvedPath{}
	}
	resolved, rerr := f.resolver.Resolve(value, kind)
	if rerr != nil {
		f.errs.add(key, rerr.Error())
		f.errs.escalate(rerr.Kind)
		return ResolvedPath{}
	}
	return resolved
}

func (f *fields) dirPath(key string) ResolvedPath {
	return f.path(key, KindDirectory)
}

func (f *fields) filePath(key string) ResolvedPath {
	return f.path(key, KindFile)
}

func (f *fields) searchTerm(key string) string {
	value, ok := f.requiredString(key)
	if !ok {
		return ""
	}
	value = strings.TrimSpace(value)
	if value == "" {
		f.errs.add(key, "Search term cannot be empty")
	}
	return value
}

func (f *fields) searchBy(key string) search.By {
	value, ok := f.requiredString(key)
	if !ok {
		return ""
	}
	by, valid := search.ParseBy(value)
	if !valid {
		f.errs.add(key, fmt.Sprintf("%s must be one of: name, content", key))
	}
	return by
}

// extension returns the validated extension. An absent or null value is accepted
// without any check and yields "".
func (f *fields) extension(key string) string {
	value, present, ok := f.optionalString(key)
	if !ok || !present {
		return ""
	}
	if !allowedExtensions[value] {
		f.errs.add(key, fmt.Sprintf("Extension not allow: %s", value))
		return ""
	}
	return value
}

func (f *fields) txtName(key string) string {
	value, ok := f.requiredString(key)
	if !ok {
		return ""
	}
	if !strings.Contains(value, requiredNameFragment) {
		f.errs.add(key, fmt.Sprintf("File name must contain %s: %s", requiredNameFragment, value))
	}
	return value
}

func (f *fields) fileContent(key string) string {
	value, ok := f.requiredString(key)
	if !ok {
		return ""
	}
	n := utf8.RuneCountInString(value)
	switch {
	case n < minFileContentLength:
		f.errs.add(key, fmt.Sprintf("must be at least %d characters", minFileContentLength))
	case n > maxFileContentLength:
		f.errs.add(key, fmt.Sprintf("must be at most %d characters", maxFileContentLength))
	}
	return value
}

func (f *fields) folderName(key string) string {
	value, ok := f.requiredString(key)
	if !ok {
		return ""
	}
	if utf8.RuneCountInString(value) < minFolderNameLength {
		f.errs.add(key, fmt.Sprintf("must be at least %d characters", minFolderNameLength))
	}
	return value
}

// ListFilesParams are the validated parameters of list_files.
type ListFilesParams struct {
	dir ResolvedPath
}

// Dir returns the directory to list.
func (p ListFilesParams) Dir() ResolvedPath { return p.dir }

// ValidateListFiles validates the parameters of list_files.
func ValidateListFiles(raw map[string]any, resolver *PathResolver) (ListFilesParams, *ValidationError) {
	f := newFields(OpListFiles, raw, resolver)
	p := ListFilesParams{dir: f.dirPath("dir_path")}
	if err := f.finish(); err != nil {
		return ListFilesParams{}, err
	}
	return p, nil
}

// SearchFileParams are the validated parameters of search_file.
type SearchFileParams struct {
	dir           ResolvedPath
	term          string
	by            search.By
	caseSensitive bool
	recursive     bool
	extension     string
}

func (p SearchFileParams) Dir() ResolvedPath   { return p.dir }
func (p SearchFileParams) Term() string        { return p.term }
func (p SearchFileParams) By() search.By       { return p.by }
func (p SearchFileParams) CaseSensitive() bool { return p.caseSensitive }
func (p SearchFileParams) Recursive() bool     { return p.recursive }
func (p SearchFileParams) Extension() string   { return p.extension }

// ValidateSearchFile validates the parameters of search_file.
func ValidateSearchFile(raw map[string]any, resolver *PathResolver) (SearchFileParams, *ValidationError) {
	f := newFields(OpSearchFile, raw, resolver)
	p := SearchFileParams{
		dir:           f.dirPath("dir_path"),
		term:          f.searchTerm("search_term"),
		by:            f.searchBy("search_by"),
		caseSensitive: f.boolean("case_sensitive", false),
		recursive:     f.boolean("recursive", true),
		extension:     f.extension("file_extension"),
	}
	if err := f.finish(); err != nil {
		return SearchFileParams{}, err
	}
	return p, nil
}

// FileParams are the validated parameters of the operations that act on one file.
type FileParams struct {
	file ResolvedPath
}

// File returns the file to act on.
func (p FileParams) File() ResolvedPath { return p.file }

// ValidateFilePath validates a bag holding only file_path.
func ValidateFilePath(operation string, raw map[string]any, resolver *PathResolver) (FileParams, *ValidationError) {
	f := newFields(operation, raw, resolver)
	p := FileParams{file: f.filePath("file_path")}
	if err := f.finish(); err != nil {
		return FileParams{}, err
	}
	return p, nil
}

// CreateFileParams are the validated parameters of create_file.
type CreateFileParams struct {
	dir      ResolvedPath
	fileName string
	content  string
	append   bool
}

func (p CreateFileParams) Dir() ResolvedPath { return p.dir }
func (p CreateFileParams) FileName() string  { return p.fileName }
func (p CreateFileParams) Content() string   { return p.content }
func (p CreateFileParams) Append() bool      { return p.append }

// ValidateCreateFile validates the parameters of create_file.
func ValidateCreateFile(raw map[string]any, resolver *PathResolver) (CreateFileParams, *ValidationError) {
	f := newFields(OpCreateFile, raw, resolver)
	p := CreateFileParams{
		dir:      f.dirPath("dir_path"),
		fileName: f.txtName("file_name"),
		content:  f.fileContent("file_content"),
		append:   f.boolean("append_content", false),
	}
	if err := f.finish(); err != nil {
		return CreateFileParams{}, err
	}
	return p, nil
}

// RenameFileParams are the validated parameters of rename_file.
type RenameFileParams struct {
	file    ResolvedPath
	newName string
}

func (p RenameFileParams) File() ResolvedPath { return p.file }
func (p RenameFileParams) NewName() string    { return p.newName }

// ValidateRenameFile validates the parameters of rename_file.
func ValidateRenameFile(raw map[string]any, resolver *PathResolver) (RenameFileParams, *ValidationError) {
	f := newFields(OpRenameFile, raw, resolver)
	p := RenameFileParams{
		file:    f.filePath("file_path"),
		newName: f.txtName("new_file_name"),
	}
	if err := f.finish(); err != nil {
		return RenameFileParams{}, err
	}
	return p, nil
}

// CreateFolderParams are the validated parameters of create_new_folder.
type CreateFolderParams struct {
	dir        ResolvedPath
	folderName string
}

func (p CreateFolderParams) Dir() ResolvedPath  { return p.dir }
func (p CreateFolderParams) FolderName() string { return p.folderName }

// ValidateCreateFolder validates the parameters of create_new_folder.
func ValidateCreateFolder(raw map[string]any, resolver *PathResolver) (CreateFolderParams, *ValidationError) {
	f := newFields(OpCreateFolder, raw, resolver)
	p := CreateFolderParams{
		dir:        f.dirPath("dir_path"),
		folderName: f.folderName("folder_name"),
	}
	if err := f.finish(); err != nil {
		return CreateFolderParams{}, err
	}
	return p, nil
}
