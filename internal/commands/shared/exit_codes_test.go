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
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	filetoolserrors "github.com/tombee/filetools/pkg/errors"
)

func TestExitError_Unwrap(t *testing.T) {
	innerErr := errors.New("inner error")
	exitErr := NewOperationFailedError("operation failed", innerErr)

	if unwrapped := errors.Unwrap(exitErr); unwrapped != innerErr {
		t.Errorf("expected unwrapped error to be innerErr, got %v", unwrapped)
	}
	if exitErr.Error() != "operation failed: inner error" {
		t.Errorf("unexpected message %q", exitErr.Error())
	}
}

func TestReportError_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"config", NewConfigError("bad config", nil), ExitInvalidConfig},
		{"input", NewInvalidInputError("bad params", nil), ExitInvalidInput},
		{"operation", NewOperationFailedError("list_files failed", nil), ExitOperationFailed},
		{"wrapped", fmt.Errorf("outer: %w", NewConfigError("bad config", nil)), ExitInvalidConfig},
		{"plain", errors.New("boom"), ExitFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if got := reportError(&buf, tt.err); got != tt.want {
				t.Errorf("exit code = %d, want %d", got, tt.want)
			}
			if !strings.HasPrefix(buf.String(), "Error: ") {
				t.Errorf("expected Error: prefix, got %q", buf.String())
			}
		})
	}
}

func TestReportError_Suggestion(t *testing.T) {
	cause := &filetoolserrors.ValidationError{
		Field:      "log.level",
		Message:    "must be one of trace debug info warn warning error",
		Suggestion: "Set log.level to info",
	}

	var buf bytes.Buffer
	reportError(&buf, NewConfigError("failed to load config", cause))

	if !strings.Contains(buf.String(), "Suggestion: Set log.level to info") {
		t.Errorf("expected suggestion in output, got %q", buf.String())
	}

	buf.Reset()
	reportError(&buf, errors.New("no suggestion here"))
	if strings.Contains(buf.String(), "Suggestion:") {
		t.Errorf("unexpected suggestion in output %q", buf.String())
	}
}
