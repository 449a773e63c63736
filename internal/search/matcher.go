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

	"golang.org/x/text/cases"
)

// matcher tests strings for a literal substring. Case-insensitive matching folds
// both sides with Unicode case folding.
type matcher struct {
	needle string
	fold   bool
	caser  cases.Caser
}

func newMatcher(term string, caseSensitive bool) *matcher {
	m := &matcher{needle: term}
	if !caseSensitive {
		m.fold = true
		m.caser = cases.Fold()
		m.needle = m.caser.String(term)
	}
	return m
}

func (m *matcher) match(s string) bool {
	if m.fold {
		s = m.caser.String(s)
	}
	return strings.Contains(s, m.needle)
}
