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

import (
	"errors"
	"fmt"
	"io"
	"os"

	filetoolserrors "github.com/tombee/filetools/pkg/errors"
)

// Exit codes for filetools commands
const (
	ExitSuccess         = 0
	ExitFailed          = 1
	ExitInvalidConfig   = 2
	ExitInvalidInput    = 3
	ExitOperationFailed = 4
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates an error for configuration that cannot be loaded or validated
func NewConfigError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitInvalidConfig,
		Message: msg,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an error for malformed command arguments
func NewInvalidInputError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitInvalidInput,
		Message: msg,
		Cause:   cause,
	}
}

// NewOperationFailedError creates an error for a file operation that returned a failure envelope
func NewOperationFailedError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitOperationFailed,
		Message: msg,
		Cause:   cause,
	}
}

// HandleExitError checks if an error is an ExitError and exits with the appropriate code
func HandleExitError(err error) {
	if err == nil {
		return
	}
	os.Exit(reportError(os.Stderr, err))
}

// reportError prints err and any suggestion to w and returns the exit code.
func reportError(w io.Writer, err error) int {
	fmt.Fprintln(w, "Error:", err.Error())
	printSuggestion(w, err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailed
}

// printSuggestion prints the suggestion of a validation error in the chain, if any.
func printSuggestion(w io.Writer, err error) {
	var valErr *filetoolserrors.ValidationError
	if errors.As(err, &valErr) && valErr.Suggestion != "" {
		fmt.Fprintf(w, "\nSuggestion: %s\n", valErr.Suggestion)
	}
}
