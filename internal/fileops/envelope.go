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
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope is the uniform result of every operation. Build it with Success or Failure;
// a handler returns exactly one of the two variants.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Code    ErrorKind    `json:"code,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Success builds a success envelope.
func Success(message string, data any) *Envelope {
	return &Envelope{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// Failure builds a failure envelope.
func Failure(kind ErrorKind, message string, problems ...FieldError) *Envelope {
	return &Envelope{
		Success: false,
		Message: message,
		Code:    kind,
		Errors:  problems,
	}
}

// invalidParams converts a validation error into its failure envelope.
func invalidParams(err *ValidationError) *Envelope {
	return Failure(err.Kind, "Invalid parameters: "+err.Error(), err.Problems...)
}

// JSON renders the envelope as indented JSON.
func (e *Envelope) JSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// failure converts an error from the filesystem step into a failure envelope.
// The envelope message is the operation message followed by the cause.
func failure(err error) *Envelope {
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		return Failure(ErrorKindRead, err.Error())
	}
	if opErr.Cause == nil {
		return Failure(opErr.Kind, opErr.Message)
	}
	return Failure(opErr.Kind, fmt.Sprintf("%s: %v", opErr.Message, opErr.Cause))
}
