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

/*
Package search finds files under a directory by name or by content.

A search term is always a literal substring. Name searches compare it against the
base name of each candidate file. Content searches skip files whose name maps to a
known non-text media type, decode the rest leniently and report the first matching
line of each file.

Candidates are collected first (recursively with fastwalk, or from the immediate
children of the root) and sorted by path, then evaluated one after another. Every
candidate is evaluated; a match in one file never stops the search.

# Usage

	engine, err := search.NewEngine(&search.Config{Exclude: []string{"vendor/**"}})
	if err != nil {
		return err
	}
	res, err := engine.Search(ctx, search.Query{
		Dir:       "/srv/notes",
		Term:      "invoice",
		By:        search.ByContent,
		Recursive: true,
	})
*/
package search
