// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package walker resolves a set of input .proto files, and everything
// they transitively import, against an ordered list of include
// directories. It composes the parser package with the filesystem; the
// parser itself never touches disk.
package walker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	art "github.com/kralicky/go-adaptive-radix-tree"
	"golang.org/x/sync/semaphore"

	"github.com/protoschema/protoscan"
	"github.com/protoschema/protoscan/parser"
)

// Result is one resolved file: its canonical (include-relative,
// forward-slash) path, its parsed descriptor, and whether it was named
// directly in the input list rather than reached only via import.
type Result struct {
	CanonicalPath string
	Descriptor    *protoscan.FileDescriptor
	IsInput       bool
}

// ErrorKind classifies why the walker could not produce a complete
// result set.
type ErrorKind int

const (
	_ ErrorKind = iota
	// FileNotFound means an import or input path resolved to no file
	// under any include directory.
	FileNotFound
	// OutsideIncludePath means an input file does not lie under any
	// include directory at all.
	OutsideIncludePath
	// IOFailure wraps an error reading a file that was otherwise
	// located successfully.
	IOFailure
	// ParseFailure wraps a core parser error, tagged with the file's
	// canonical path.
	ParseFailure
)

func (k ErrorKind) String() string {
	switch k {
	case FileNotFound:
		return "file not found"
	case OutsideIncludePath:
		return "outside include path"
	case IOFailure:
		return "i/o failure"
	case ParseFailure:
		return "parse failure"
	default:
		return "walker error"
	}
}

// Error is the error type returned by ParseWithDependencies.
type Error struct {
	Kind       ErrorKind
	Path       string // the canonical or raw path implicated
	Underlying error
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Kind)
}

func (e *Error) Unwrap() error { return e.Underlying }

// canonicalize converts an OS path to the forward-slash form the walker
// reports and keys its visited set by, per spec's "canonical path" rule.
func canonicalize(relPath string) string {
	return filepath.ToSlash(relPath)
}

// resolveAgainstIncludePaths finds the first include directory that is a
// prefix of absPath and returns the include-relative canonical suffix.
func resolveAgainstIncludePaths(includePaths []string, absPath string) (string, bool) {
	for _, dir := range includePaths {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absDir, absPath)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		return canonicalize(rel), true
	}
	return "", false
}

// locate finds the first include directory under which canonicalPath
// exists on disk, returning the absolute path to open.
func locate(includePaths []string, canonicalPath string) (string, bool) {
	for _, dir := range includePaths {
		candidate := filepath.Join(dir, filepath.FromSlash(canonicalPath))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// visited tracks, per canonical path, whether a file has been parsed and
// whether it has been seen as an explicit input. It holds the walker's
// recursion state; every read or write to it happens while holding mu, so
// concurrent file I/O below never races on the recursion decision.
type visitedSet struct {
	mu   sync.Mutex
	tree art.Tree
}

type visitedEntry struct {
	result  *Result
	isInput bool
}

func newVisitedSet() *visitedSet {
	return &visitedSet{tree: art.New()}
}

// claim returns (entry, alreadyVisited). If the path was not yet visited,
// it inserts a placeholder entry and the caller is responsible for
// parsing the file and filling it in. If it was already visited and
// isInput is true, the existing entry's IsInput flag is flipped on, per
// spec 4.7 ("if a file already visited is revisited as an input, flip its
// input flag to true").
func (v *visitedSet) claim(canonicalPath string, isInput bool) (*visitedEntry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	key := art.Key(canonicalPath)
	if existing, found := v.tree.Search(key); found {
		entry := existing.(*visitedEntry)
		if isInput {
			entry.isInput = true
			if entry.result != nil {
				entry.result.IsInput = true
			}
		}
		return entry, true
	}
	entry := &visitedEntry{isInput: isInput}
	v.tree.Insert(key, entry)
	return entry, false
}

// ParseWithDependencies resolves every input file and its transitive
// imports against includePaths, parsing each exactly once. File reads run
// concurrently (bounded by the host's CPU count); the visited-set
// decision of whether to recurse into a given canonical path is made
// serially, so no file is ever parsed twice even under concurrency.
func ParseWithDependencies(includePaths []string, inputPaths []string) ([]Result, error) {
	ctx := context.Background()
	sem := semaphore.NewWeighted(int64(maxConcurrency()))
	vs := newVisitedSet()

	var (
		mu       sync.Mutex
		results  []*Result
		firstErr error
		wg       sync.WaitGroup
	)

	recordErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	var process func(canonicalPath string, isInput bool)
	process = func(canonicalPath string, isInput bool) {
		entry, already := vs.claim(canonicalPath, isInput)
		if already {
			return
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				recordErr(err)
				return
			}
			defer sem.Release(1)

			abs, ok := locate(includePaths, canonicalPath)
			if !ok {
				recordErr(&Error{Kind: FileNotFound, Path: canonicalPath})
				return
			}
			data, err := os.ReadFile(abs)
			if err != nil {
				recordErr(&Error{Kind: IOFailure, Path: canonicalPath, Underlying: err})
				return
			}
			fd, err := parser.ParseBytes(canonicalPath, data)
			if err != nil {
				recordErr(&Error{Kind: ParseFailure, Path: canonicalPath, Underlying: err})
				return
			}

			result := &Result{CanonicalPath: canonicalPath, Descriptor: fd}
			vs.mu.Lock()
			result.IsInput = entry.isInput
			entry.result = result
			vs.mu.Unlock()
			mu.Lock()
			results = append(results, result)
			mu.Unlock()

			for _, imp := range fd.ImportPaths {
				process(canonicalize(filepath.Clean(filepath.FromSlash(imp))), false)
			}
		}()
	}

	for _, input := range inputPaths {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, &Error{Kind: OutsideIncludePath, Path: input, Underlying: err}
		}
		canonical, ok := resolveAgainstIncludePaths(includePaths, abs)
		if !ok {
			return nil, &Error{Kind: OutsideIncludePath, Path: input}
		}
		process(canonical, true)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = *r
	}
	return out, nil
}

func maxConcurrency() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return n
}
