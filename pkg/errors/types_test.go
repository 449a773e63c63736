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

package errors_test

import (
	"errors"
	"io/fs"
	"testing"

	filetoolserrors "github.com/tombee/filetools/pkg/errors"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *filetoolserrors.ValidationError
		wantMsg string
	}{
		{
			name: "with field",
			err: &filetoolserrors.ValidationError{
				Field:      "params",
				Message:    "must be a JSON object",
				Suggestion: "Pass --params '{\"dir_path\": \".\"}'",
			},
			wantMsg: "validation failed on params: must be a JSON object",
		},
		{
			name:    "without field",
			err:     &filetoolserrors.ValidationError{Message: "invalid format"},
			wantMsg: "validation failed: invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestNotFoundError_Error(t *testing.T) {
	err := &filetoolserrors.NotFoundError{Resource: "tool", ID: "delete_all"}
	if got := err.Error(); got != "tool not found: delete_all" {
		t.Errorf("NotFoundError.Error() = %q", got)
	}
}

func TestConfigError(t *testing.T) {
	cause := fs.ErrNotExist
	err := &filetoolserrors.ConfigError{Key: "config_file", Reason: "failed to load", Cause: cause}

	if got := err.Error(); got != "config error at config_file: failed to load" {
		t.Errorf("ConfigError.Error() = %q", got)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("ConfigError should unwrap to its cause")
	}

	noKey := &filetoolserrors.ConfigError{Reason: "bad"}
	if got := noKey.Error(); got != "config error: bad" {
		t.Errorf("ConfigError.Error() = %q", got)
	}
}

func TestWrap(t *testing.T) {
	if filetoolserrors.Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if filetoolserrors.Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	base := errors.New("base")
	wrapped := filetoolserrors.Wrapf(base, "loading %s", "config.yaml")
	if wrapped.Error() != "loading config.yaml: base" {
		t.Errorf("Wrapf() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match its cause")
	}
	if got := filetoolserrors.Wrap(base, "reading").Error(); got != "reading: base" {
		t.Errorf("Wrap() = %q", got)
	}
}
