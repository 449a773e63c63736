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

package cli

import (
	"github.com/spf13/cobra"

	"github.com/tombee/filetools/internal/commands/call"
	"github.com/tombee/filetools/internal/commands/serve"
	"github.com/tombee/filetools/internal/commands/shared"
	"github.com/tombee/filetools/internal/commands/tools"
	versioncmd "github.com/tombee/filetools/internal/commands/version"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command with every subcommand attached
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filetools",
		Short: "filetools - validated filesystem tools over MCP",
		Long: `filetools exposes a small set of filesystem tools (list, search, read,
create, rename) to AI assistants through the Model Context Protocol.

Every tool validates its parameters before touching the filesystem and
answers with a JSON envelope describing success or the validation problems.

Run 'filetools serve' to start the MCP server on stdio.
Run 'filetools tools' to see the available tools.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
	}

	shared.RegisterGlobalFlags(cmd.PersistentFlags())

	cmd.AddCommand(serve.NewCommand())
	cmd.AddCommand(call.NewCommand())
	cmd.AddCommand(tools.NewCommand())
	cmd.AddCommand(versioncmd.NewVersionCommand())

	cmd.SetHelpCommand(NewHelpCommand(cmd))

	return cmd
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return shared.GetVersion()
}

// HandleExitError handles exit errors with proper exit codes
func HandleExitError(err error) {
	shared.HandleExitError(err)
}
