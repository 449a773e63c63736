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
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tombee/filetools/internal/fileops"
)

// buildTool converts a tool description into an MCP tool with a JSON schema.
func buildTool(spec fileops.ToolSpec) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(spec.Description)}

	for _, p := range spec.Params {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}
		if len(p.Enum) > 0 {
			props = append(props, mcp.Enum(p.Enum...))
		}

		switch p.Type {
		case fileops.ParamBoolean:
			if def, ok := p.Default.(bool); ok {
				props = append(props, mcp.DefaultBool(def))
			}
			opts = append(opts, mcp.WithBoolean(p.Name, props...))
		default:
			if def, ok := p.Default.(string); ok {
				props = append(props, mcp.DefaultString(def))
			}
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}

	return mcp.NewTool(spec.Name, opts...)
}
