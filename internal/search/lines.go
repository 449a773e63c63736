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
	"bufio"
	"bytes"
	"io"
	"strings"
)

const defaultMaxLineBytes = 1 << 20

// scanUniversalLines is a bufio.SplitFunc that treats "\n", "\r\n" and a lone "\r"
// as line terminators.
func scanUniversalLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// Need one more byte to tell "\r" from "\r\n".
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// minLineBytes keeps room for a lone "\r" to be held back at a piece boundary.
const minLineBytes = 16

// LineScanner splits a reader on universal newlines. A line longer than the
// buffer limit comes back in consecutive pieces instead of failing the scan.
type LineScanner struct {
	*bufio.Scanner
	max       int
	continued bool
	truncated bool
}

// NewLineScanner returns a scanner over r that buffers at most maxLineBytes of a
// single line at a time.
func NewLineScanner(r io.Reader, maxLineBytes int) *LineScanner {
	if maxLineBytes <= 0 {
		maxLineBytes = defaultMaxLineBytes
	}
	if maxLineBytes < minLineBytes {
		maxLineBytes = minLineBytes
	}
	initial := 64 * 1024
	if initial > maxLineBytes {
		initial = maxLineBytes
	}
	s := &LineScanner{Scanner: bufio.NewScanner(r), max: maxLineBytes}
	s.Buffer(make([]byte, 0, initial), maxLineBytes)
	s.Split(s.split)
	return s
}

// Continued reports whether the current token carries on the line of the token
// before it.
func (s *LineScanner) Continued() bool {
	return s.continued
}

// Truncated reports whether the current token stops short of its line's end.
func (s *LineScanner) Truncated() bool {
	return s.truncated
}

func (s *LineScanner) split(data []byte, atEOF bool) (advance int, token []byte, err error) {
	advance, token, err = scanUniversalLines(data, atEOF)
	cut := false
	if advance == 0 && token == nil && err == nil && len(data) >= s.max {
		// Full buffer and no terminator yet. A trailing "\r" waits for the next
		// piece so "\r\n" is still seen as one terminator.
		advance = len(data)
		if data[advance-1] == '\r' {
			advance--
		}
		token, cut = data[:advance], true
	}
	if advance > 0 || token != nil {
		s.continued = s.truncated
		s.truncated = cut
	}
	return advance, token, err
}

// DecodeLenient interprets b as UTF-8 and drops any invalid byte sequences.
func DecodeLenient(b []byte) string {
	return strings.ToValidUTF8(string(b), "")
}
