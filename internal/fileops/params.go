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
	"sort"
	"strconv"
	"strings"
)

// paramBag reads typed values out of a raw parameter map and records every problem
// it meets. Keys that are never read are reported as unexpected by finish.
type paramBag struct {
	raw  map[string]any
	seen map[string]bool
	errs *ValidationError
}

func newParamBag(operation string, raw map[string]any) *paramBag {
	if raw == nil {
		raw = map[string]any{}
	}
	return &paramBag{
		raw:  raw,
		seen: make(map[string]bool, len(raw)),
		errs: newValidationError(operation),
	}
}

// lookup returns the raw value for key. JSON null counts as absent.
func (b *paramBag) lookup(key string) (any, bool) {
	b.seen[key] = true
	v, ok := b.raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// requiredString returns the string under key. ok is false when a problem was recorded.
func (b *paramBag) requiredString(key string) (string, bool) {
	v, present := b.lookup(key)
	if !present {
		b.errs.add(key, "field required")
		return "", false
	}
	s, isString := v.(string)
	if !isString {
		b.errs.add(key, "must be a string")
		return "", false
	}
	return s, true
}

// optionalString returns the string under key; present is false when the key is absent or null.
func (b *paramBag) optionalString(key string) (value string, present bool, ok bool) {
	v, present := b.lookup(key)
	if !present {
		return "", false, true
	}
	s, isString := v.(string)
	if !isString {
		b.errs.add(key, "must be a string")
		return "", true, false
	}
	return s, true, true
}

// boolean returns the boolean under key or def when it is absent. The strings
// true/false/1/0 are accepted as well.
func (b *paramBag) boolean(key string, def bool) bool {
	v, present := b.lookup(key)
	if !present {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(t))
		if err == nil {
			return parsed
		}
	}
	b.errs.add(key, "must be a boolean")
	return def
}

// finish reports keys that no rule consumed and returns the collected problems, if any.
func (b *paramBag) finish() *ValidationError {
	var unknown []string
	for key := range b.raw {
		if !b.seen[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		b.errs.add(key, "unexpected parameter")
	}
	return b.errs.orNil()
}
