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

package search

import (
	"strings"
	"testing"
)

func TestNewLineScanner_UniversalNewlines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "lf", input: "a\nb\n", want: []string{"a", "b"}},
		{name: "crlf", input: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "cr", input: "a\rb\r", want: []string{"a", "b"}},
		{name: "mixed", input: "a\r\nb\rc\nd", want: []string{"a", "b", "c", "d"}},
		{name: "empty lines", input: "\n\r\n\r", want: []string{"", "", ""}},
		{name: "no terminator", input: "only", want: []string{"only"}},
		{name: "empty", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := NewLineScanner(strings.NewReader(tt.input), 0)
			var got []string
			for scanner.Scan() {
				got = append(got, scanner.Text())
			}
			if err := scanner.Err(); err != nil {
				t.Fatalf("scan failed: %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewLineScanner_LongLineComesBackInPieces(t *testing.T) {
	input := strings.Repeat("x", 2048) + "\nnext\r\n"
	scanner := NewLineScanner(strings.NewReader(input), 1024)

	var lines []string
	for scanner.Scan() {
		if scanner.Continued() {
			lines[len(lines)-1] += scanner.Text()
		} else {
			lines = append(lines, scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(lines) != 2 || lines[0] != strings.Repeat("x", 2048) || lines[1] != "next" {
		t.Errorf("got %d lines, second %q", len(lines), lines[len(lines)-1])
	}
}

func TestNewLineScanner_CarriageReturnAtPieceBoundary(t *testing.T) {
	// The "\r" of a "\r\n" lands on the last byte of a full buffer.
	input := strings.Repeat("x", 31) + "\r\nnext"
	scanner := NewLineScanner(strings.NewReader(input), 32)

	var lines []string
	for scanner.Scan() {
		if scanner.Continued() {
			lines[len(lines)-1] += scanner.Text()
		} else {
			lines = append(lines, scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(lines) != 2 || lines[0] != strings.Repeat("x", 31) || lines[1] != "next" {
		t.Errorf("lines = %q", lines)
	}
}

func TestDecodeLenient(t *testing.T) {
	if got := DecodeLenient([]byte("ok \xc3\x28 done")); got != "ok ( done" {
		t.Errorf("DecodeLenient = %q", got)
	}
}

func TestScannable(t *testing.T) {
	tests := map[string]bool{
		"notes.txt":  true,
		"page.html":  true,
		"data.json":  true,
		"README":     true,
		"file.zzzzz": true,
		"photo.png":  false,
		"photo.jpg":  false,
		"doc.pdf":    false,
		"app.wasm":   false,
	}
	for name, want := range tests {
		if got := scannable(name); got != want {
			t.Errorf("scannable(%q) = %v, want %v", name, got, want)
		}
	}
}
