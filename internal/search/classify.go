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
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// scannable reports whether a content search should read the named file. Files
// whose extension maps to a known non-text media type are skipped; files with no
// extension or an unknown one are scanned.
func scannable(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return true
	}
	typ := mime.TypeByExtension(ext)
	if typ == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(typ)
	if err != nil {
		return true
	}
	return textLike(mediaType)
}

// textLike reports whether mediaType is text/* or a type that mimetype's hierarchy
// places under text/plain (application/json, application/x-sh and friends).
func textLike(mediaType string) bool {
	if strings.HasPrefix(mediaType, "text/") {
		return true
	}
	for m := mimetype.Lookup(mediaType); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
