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
)

// ErrorKind classifies a failed operation. The set is closed; clients match on these
// strings, so they never change.
type ErrorKind string

const (
	// ErrorKindValidation indicates the parameter bag was rejected.
	ErrorKindValidation ErrorKind = "VALIDATION_ERROR"

	// ErrorKindPathFormat indicates a path could not be brought into canonical form
	// or its directory could not be enumerated.
	ErrorKindPathFormat ErrorKind = "PATH_FORMAT_ERROR"

	// ErrorKindRead indicates a file could not be opened, read or stat'ed.
	ErrorKindRead ErrorKind = "READ_FILE_ERROR"

	// ErrorKindRename indicates the rename itself failed.
	ErrorKindRename ErrorKind = "RENAME_FILE_ERROR"

	// ErrorKindFolderCreation indicates mkdir failed.
	ErrorKindFolderCreation ErrorKind = "FOLDER_CREATION_ERROR"

	// ErrorKindFileCreation indicates the file could not be created or written.
	ErrorKindFileCreation ErrorKind = "FILE_CREATION_ERROR"
)

// OperationError represents a failure inside a file operation after validation passed.
type OperationError struct {
	Operation string
	Message   string
	Kind      ErrorKind
	Cause     error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

// Unwrap returns the underlying cause.
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// FieldError is a single problem found with one parameter.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError collects every problem found in a parameter bag.
type ValidationError struct {
	Operation string
	Kind      ErrorKind
	Problems  []FieldError
}

func newValidationError(operation string) *ValidationError {
	return &ValidationError{Operation: operation, Kind: ErrorKindValidation}
}

func (e *ValidationError) add(field, reason string) {
	e.Problems = append(e.Problems, FieldError{Field: field, Reason: reason})
}

// escalate raises the kind to PATH_FORMAT_ERROR. Validation never downgrades it again.
func (e *ValidationError) escalate(kind ErrorKind) {
	if kind == ErrorKindPathFormat {
		e.Kind = kind
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Field, p.Reason))
	}
	noun := "errors"
	if len(e.Problems) == 1 {
		noun = "error"
	}
	return fmt.Sprintf("%d validation %s for %s: %s", len(e.Problems), noun, e.Operation, strings.Join(parts, "; "))
}

// orNil returns nil when no problem was recorded.
func (e *ValidationError) orNil() *ValidationError {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}
