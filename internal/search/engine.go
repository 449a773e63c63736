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
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// By selects what a search compares the term against.
type By string

const (
	// ByName matches against file base names.
	ByName By = "name"
	// ByContent matches against the lines of text files.
	ByContent By = "content"
)

// ParseBy converts s into a By value.
func ParseBy(s string) (By, bool) {
	switch By(s) {
	case ByName, ByContent:
		return By(s), true
	}
	return "", false
}

// MatchKind describes how a record matched.
type MatchKind string

const (
	MatchName    MatchKind = "name"
	MatchContent MatchKind = "content"
	// MatchBoth is reserved for searches that match names and content at once.
	MatchBoth MatchKind = "both"
)

// MatchRecord is one matching file. LineNumber and MatchedLine are set only for
// content matches.
type MatchRecord struct {
	FilePath    string    `json:"file_path"`
	MatchType   MatchKind `json:"match_type"`
	LineNumber  *int      `json:"line_number"`
	MatchedLine *string   `json:"matched_line"`
}

// Query describes a single search. Dir must already be an absolute directory path.
type Query struct {
	Dir           string
	Term          string
	By            By
	CaseSensitive bool
	Recursive     bool
	// Extension, when set, restricts candidates to files with that extension (no dot).
	Extension string
}

// Result holds every match in path order.
type Result struct {
	Matches   []MatchRecord
	Evaluated int
	Skipped   int
}

// Config holds configuration for the Engine.
type Config struct {
	// Exclude holds doublestar patterns, relative to the search root, for files and
	// directories that are never searched.
	Exclude []string

	// MaxLineBytes bounds how much of one line is buffered during content scans.
	// A longer line is read in pieces.
	MaxLineBytes int

	Logger *slog.Logger
}

// Engine runs searches. It is safe for concurrent use.
type Engine struct {
	exclude      []string
	maxLineBytes int
	logger       *slog.Logger
}

// ErrEmptyTerm is returned when the query has no search term.
var ErrEmptyTerm = errors.New("search term is empty")

// NewEngine creates an Engine, validating the exclude patterns.
func NewEngine(config *Config) (*Engine, error) {
	if config == nil {
		config = &Config{}
	}
	for _, pattern := range config.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	maxLine := config.MaxLineBytes
	if maxLine <= 0 {
		maxLine = defaultMaxLineBytes
	}
	return &Engine{
		exclude:      append([]string(nil), config.Exclude...),
		maxLineBytes: maxLine,
		logger:       logger,
	}, nil
}

// Search runs q and returns every matching file.
func (e *Engine) Search(ctx context.Context, q Query) (*Result, error) {
	if q.Term == "" {
		return nil, ErrEmptyTerm
	}
	if _, ok := ParseBy(string(q.By)); !ok {
		return nil, fmt.Errorf("unsupported search mode %q", q.By)
	}

	candidates, err := e.candidates(ctx, q)
	if err != nil {
		return nil, err
	}

	m := newMatcher(q.Term, q.CaseSensitive)
	res := &Result{Matches: []MatchRecord{}}
	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Evaluated++
		filesScanned.WithLabelValues(string(q.By)).Inc()

		switch q.By {
		case ByName:
			if m.match(filepath.Base(path)) {
				res.Matches = append(res.Matches, MatchRecord{FilePath: path, MatchType: MatchName})
			}
		case ByContent:
			rec, scanned := e.scanFile(path, m)
			if !scanned {
				res.Skipped++
				continue
			}
			if rec != nil {
				res.Matches = append(res.Matches, *rec)
			}
		}
	}
	return res, nil
}

// candidates lists the regular files a query considers, sorted by path.
func (e *Engine) candidates(ctx context.Context, q Query) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)
	add := func(path string, d fs.DirEntry) {
		if !e.wanted(path, d, q.Extension) {
			return
		}
		mu.Lock()
		files = append(files, path)
		mu.Unlock()
	}

	if q.Recursive {
		conf := fastwalk.Config{Follow: false}
		err := fastwalk.Walk(&conf, q.Dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == q.Dir {
					return err
				}
				e.logger.Debug("skipping unreadable path", slog.String("path", path), slog.Any("error", err))
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if path == q.Dir {
				return nil
			}
			if e.excluded(q.Dir, path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			add(path, d)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", q.Dir, err)
		}
	} else {
		entries, err := os.ReadDir(q.Dir)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", q.Dir, err)
		}
		for _, d := range entries {
			path := filepath.Join(q.Dir, d.Name())
			if d.IsDir() || e.excluded(q.Dir, path) {
				continue
			}
			add(path, d)
		}
	}

	sort.Strings(files)
	return files, nil
}

// wanted reports whether the entry is a regular file (directly or through a
// symlink) with the requested extension.
func (e *Engine) wanted(path string, d fs.DirEntry, extension string) bool {
	if extension != "" && !strings.EqualFold(filepath.Ext(path), "."+extension) {
		return false
	}
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		return err == nil && info.Mode().IsRegular()
	}
	return false
}

func (e *Engine) excluded(root, path string) bool {
	if len(e.exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range e.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// scanFile reports the first line of path containing the term. scanned is false
// when the file was not searched at all.
func (e *Engine) scanFile(path string, m *matcher) (rec *MatchRecord, scanned bool) {
	if !scannable(path) {
		filesSkipped.WithLabelValues("not_text").Inc()
		return nil, false
	}

	f, err := os.Open(path)
	if err != nil {
		e.logger.Debug("skipping unreadable file", slog.String("path", path), slog.Any("error", err))
		filesSkipped.WithLabelValues("unreadable").Inc()
		return nil, false
	}
	defer f.Close()

	scanner := NewLineScanner(f, e.maxLineBytes)
	// Pieces of an over-long line are matched with the tail of the piece before
	// them so a term spanning the cut is still found.
	overlap := 4 * len(m.needle)
	var tail []byte
	lineNumber := 0
	for scanner.Scan() {
		window := scanner.Bytes()
		if scanner.Continued() {
			window = append(tail, window...)
		} else {
			lineNumber++
		}
		line := DecodeLenient(window)
		if m.match(line) {
			n := lineNumber
			trimmed := strings.TrimSpace(line)
			return &MatchRecord{
				FilePath:    path,
				MatchType:   MatchContent,
				LineNumber:  &n,
				MatchedLine: &trimmed,
			}, true
		}
		if scanner.Truncated() {
			tail = append(tail[:0], window[max(0, len(window)-overlap):]...)
		}
	}
	if err := scanner.Err(); err != nil {
		e.logger.Debug("stopped reading file", slog.String("path", path), slog.Any("error", err))
		filesSkipped.WithLabelValues("unreadable").Inc()
		return nil, false
	}
	return nil, true
}
