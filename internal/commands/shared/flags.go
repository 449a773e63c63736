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

package shared

import "github.com/spf13/pflag"

// Global flag values - set by root command
var (
	verboseFlag bool
	quietFlag   bool
	jsonFlag    bool
	configFlag  string
	envFileFlag string

	// Build-time version information
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// RegisterGlobalFlags binds the global flags to fs.
// Called by root command with its persistent flag set.
func RegisterGlobalFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	fs.BoolVarP(&quietFlag, "quiet", "q", false, "Only log errors")
	fs.BoolVar(&jsonFlag, "json", false, "Output in JSON format")
	fs.StringVar(&configFlag, "config", "", "Path to config file (default: ~/.config/filetools/config.yaml)")
	fs.StringVar(&envFileFlag, "env-file", "", "Load environment variables from a dotenv file before reading config")
}

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	version = v
	commit = c
	buildDate = b
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verboseFlag
}

// GetQuiet returns the quiet flag value
func GetQuiet() bool {
	return quietFlag
}

// GetJSON returns the JSON output flag value
func GetJSON() bool {
	return jsonFlag
}

// GetConfigPath returns the config file path
func GetConfigPath() string {
	return configFlag
}

// GetEnvFile returns the dotenv file path
func GetEnvFile() string {
	return envFileFlag
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return version, commit, buildDate
}

// SetConfigPathForTest sets the config path for testing purposes
func SetConfigPathForTest(path string) {
	configFlag = path
}
