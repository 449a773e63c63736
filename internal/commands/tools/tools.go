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
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tombee/filetools/internal/commands/shared"
	"github.com/tombee/filetools/internal/fileops"
)

// ToolInfo describes a tool for display
type ToolInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Required    []string `json:"required,omitempty"`
	Optional    []string `json:"optional,omitempty"`
}

// ToolsResponse is the JSON output of the tools command
type ToolsResponse struct {
	shared.JSONResponse
	Tools []ToolInfo `json:"tools"`
}

// NewCommand creates the tools command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools exposed by the MCP server",
		Long:  "Display every file tool with its description and parameters.",
		Args:  cobra.NoArgs,
		RunE:  runTools,
	}
}

func runTools(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	ops, err := fileops.New(&fileops.Config{})
	if err != nil {
		return fmt.Errorf("failed to create file operations: %w", err)
	}
	infos := describe(fileops.NewRegistry(ops).Specs())

	if shared.GetJSON() {
		return shared.EmitJSON(out, ToolsResponse{
			JSONResponse: shared.JSONResponse{
				Version: "1.0",
				Command: "tools",
				Success: true,
			},
			Tools: infos,
		})
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARAMETERS\tDESCRIPTION")
	for _, info := range infos {
		params := append([]string{}, info.Required...)
		for _, name := range info.Optional {
			params = append(params, "["+name+"]")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, strings.Join(params, " "), info.Description)
	}
	return w.Flush()
}

func describe(specs []fileops.ToolSpec) []ToolInfo {
	infos := make([]ToolInfo, 0, len(specs))
	for _, spec := range specs {
		info := ToolInfo{Name: spec.Name, Description: spec.Description}
		for _, p := range spec.Params {
			if p.Required {
				info.Required = append(info.Required, p.Name)
			} else {
				info.Optional = append(info.Optional, p.Name)
			}
		}
		infos = append(infos, info)
	}
	return infos
}
