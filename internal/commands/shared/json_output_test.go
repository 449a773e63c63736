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
	"encoding/json"
	"testing"
)

func TestEmitJSON(t *testing.T) {
	var buf bytes.Buffer
	resp := JSONResponse{Version: "1.0", Command: "tools", Success: true}

	if err := EmitJSON(&buf, resp); err != nil {
		t.Fatalf("EmitJSON failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if raw["@version"] != "1.0" {
		t.Errorf("@version = %v, want 1.0", raw["@version"])
	}
	if raw["command"] != "tools" {
		t.Errorf("command = %v, want tools", raw["command"])
	}
}

func TestEmitJSONError(t *testing.T) {
	var buf bytes.Buffer
	errs := []JSONError{{Code: "VALIDATION_ERROR", Message: "bad params", Suggestion: "check the tool schema"}}

	if err := EmitJSONError(&buf, "call", errs); err != nil {
		t.Fatalf("EmitJSONError failed: %v", err)
	}

	var decoded struct {
		JSONResponse
		Errors []JSONError `json:"errors"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Success {
		t.Error("expected success=false")
	}
	if len(decoded.Errors) != 1 || decoded.Errors[0].Code != "VALIDATION_ERROR" {
		t.Errorf("unexpected errors %+v", decoded.Errors)
	}
}
