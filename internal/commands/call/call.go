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

package call

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tombee/filetools/internal/commands/shared"
	"github.com/tombee/filetools/internal/config"
	filetoolserrors "github.com/tombee/filetools/pkg/errors"
)

// NewCommand creates the call command
func NewCommand() *cobra.Command {
	var (
		params  string
		baseDir string
	)

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Run a single file tool and print its result",
		Long: `Run one file tool without starting the MCP server and print the result
envelope as JSON.

Parameters are passed as a JSON object, exactly as an MCP client would send them.
The command exits with status 4 when the tool reports a failure.`,
		Example: `  filetools call list_files --params '{"dir_path": "."}'
  filetools call search_file --params '{"dir_path": ".", "search_term": "todo", "search_by": "content"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, args[0], params, baseDir)
		},
	}

	cmd.Flags().StringVarP(&params, "params", "p", "{}", "Tool parameters as a JSON object")
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "Directory that relative paths resolve against")

	return cmd
}

func runCall(cmd *cobra.Command, tool, rawParams, baseDir string) error {
	var params map[string]any
	if err := json.Unmarshal([]byte(rawParams), &params); err != nil {
		return shared.NewInvalidInputError("invalid --params", &filetoolserrors.ValidationError{
			Field:      "params",
			Message:    fmt.Sprintf("must be a JSON object: %v", err),
			Suggestion: `Pass --params '{"dir_path": "."}'`,
		})
	}
	if params == nil {
		params = map[string]any{}
	}

	rt, err := shared.NewRuntime(func(cfg *config.Config) {
		if baseDir != "" {
			cfg.Server.BaseDir = baseDir
		}
	})
	if err != nil {
		return err
	}
	defer rt.Close(cmd.Context())

	if _, ok := rt.Registry.Lookup(tool); !ok {
		return shared.NewInvalidInputError("cannot run tool", &filetoolserrors.NotFoundError{Resource: "tool", ID: tool})
	}

	env := rt.Registry.Execute(cmd.Context(), tool, params)

	body, err := env.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(body))

	if !env.Success {
		return shared.NewOperationFailedError(fmt.Sprintf("%s failed with %s", tool, env.Code), nil)
	}
	return nil
}
