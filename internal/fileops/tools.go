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

// Operation names, as exposed to MCP clients.
const (
	OpListFiles          = "list_files"
	OpSearchFile         = "search_file"
	OpReadFileContent    = "read_file_content"
	OpReadFileAttributes = "read_file_attributes"
	OpCreateFile         = "create_file"
	OpRenameFile         = "rename_file"
	OpCreateFolder       = "create_new_folder"
	OpTesting            = "testing"
)

// ParamType is the JSON type of a tool parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamBoolean ParamType = "boolean"
)

// ParamSpec describes one tool parameter.
type ParamSpec struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
	Default     any
}

// ToolSpec describes a tool for schema generation.
type ToolSpec struct {
	Name        string
	Description string
	Params      []ParamSpec
}

var (
	dirPathParam = ParamSpec{
		Name:        "dir_path",
		Type:        ParamString,
		Description: "Path to an existing, readable directory",
		Required:    true,
	}
	filePathParam = ParamSpec{
		Name:        "file_path",
		Type:        ParamString,
		Description: "Path to an existing regular file",
		Required:    true,
	}
)

var (
	listFilesSpec = ToolSpec{
		Name:        OpListFiles,
		Description: "List the files directly inside a directory. Subdirectories are not included.",
		Params:      []ParamSpec{dirPathParam},
	}

	searchFileSpec = ToolSpec{
		Name:        OpSearchFile,
		Description: "Search a directory for files whose name or content contains a literal term.",
		Params: []ParamSpec{
			dirPathParam,
			{Name: "search_term", Type: ParamString, Description: "Literal text to look for", Required: true},
			{Name: "search_by", Type: ParamString, Description: "Match against file names or file content", Required: true, Enum: []string{"name", "content"}},
			{Name: "case_sensitive", Type: ParamBoolean, Description: "Match case exactly", Default: false},
			{Name: "recursive", Type: ParamBoolean, Description: "Descend into subdirectories", Default: true},
			{Name: "file_extension", Type: ParamString, Description: "Only search files with this extension", Enum: []string{"txt"}},
		},
	}

	readFileContentSpec = ToolSpec{
		Name:        OpReadFileContent,
		Description: "Read the text content of a file.",
		Params:      []ParamSpec{filePathParam},
	}

	readFileAttributesSpec = ToolSpec{
		Name:        OpReadFileAttributes,
		Description: "Read size, timestamps, permissions and type of a file.",
		Params:      []ParamSpec{filePathParam},
	}

	createFileSpec = ToolSpec{
		Name:        OpCreateFile,
		Description: "Create a .txt file with initial content, or append to it.",
		Params: []ParamSpec{
			dirPathParam,
			{Name: "file_name", Type: ParamString, Description: "Name of the file; must contain .txt", Required: true},
			{Name: "file_content", Type: ParamString, Description: "Content to write, 10 to 200 characters", Required: true},
			{Name: "append_content", Type: ParamBoolean, Description: "Append instead of replacing existing content", Default: false},
		},
	}

	renameFileSpec = ToolSpec{
		Name:        OpRenameFile,
		Description: "Rename a file within its directory.",
		Params: []ParamSpec{
			filePathParam,
			{Name: "new_file_name", Type: ParamString, Description: "New name of the file; must contain .txt", Required: true},
		},
	}

	createFolderSpec = ToolSpec{
		Name:        OpCreateFolder,
		Description: "Create a folder inside a directory. An existing folder is left as is.",
		Params: []ParamSpec{
			dirPathParam,
			{Name: "folder_name", Type: ParamString, Description: "Name of the folder, at least 3 characters", Required: true},
		},
	}

	testingSpec = ToolSpec{
		Name:        OpTesting,
		Description: "Check that the server is up.",
	}
)
