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

package walker

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeProto(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func canonicalPaths(results []Result) []string {
	var out []string
	for _, r := range results {
		out = append(out, r.CanonicalPath)
	}
	sort.Strings(out)
	return out
}

func TestTransitiveImports(t *testing.T) {
	root := t.TempDir()
	writeProto(t, root, "a.proto", `syntax = "proto3"; import "b.proto"; message A {}`)
	writeProto(t, root, "b.proto", `syntax = "proto3"; import "c.proto"; message B {}`)
	writeProto(t, root, "c.proto", `syntax = "proto3"; message C {}`)

	results, err := ParseWithDependencies([]string{root}, []string{filepath.Join(root, "a.proto")})
	require.NoError(t, err)
	require.Equal(t, []string{"a.proto", "b.proto", "c.proto"}, canonicalPaths(results))

	byPath := map[string]Result{}
	for _, r := range results {
		byPath[r.CanonicalPath] = r
	}
	require.True(t, byPath["a.proto"].IsInput)
	require.False(t, byPath["b.proto"].IsInput)
	require.False(t, byPath["c.proto"].IsInput)
}

func TestRevisitedAsInputFlipsFlag(t *testing.T) {
	root := t.TempDir()
	writeProto(t, root, "a.proto", `syntax = "proto3"; import "b.proto"; message A {}`)
	writeProto(t, root, "b.proto", `syntax = "proto3"; import "c.proto"; message B {}`)
	writeProto(t, root, "c.proto", `syntax = "proto3"; message C {}`)

	results, err := ParseWithDependencies([]string{root}, []string{
		filepath.Join(root, "a.proto"),
		filepath.Join(root, "c.proto"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a.proto", "b.proto", "c.proto"}, canonicalPaths(results))

	byPath := map[string]Result{}
	for _, r := range results {
		byPath[r.CanonicalPath] = r
	}
	require.True(t, byPath["a.proto"].IsInput)
	require.False(t, byPath["b.proto"].IsInput)
	require.True(t, byPath["c.proto"].IsInput)
}

func TestImportCycleTolerated(t *testing.T) {
	root := t.TempDir()
	writeProto(t, root, "a.proto", `syntax = "proto3"; import "b.proto"; message A {}`)
	writeProto(t, root, "b.proto", `syntax = "proto3"; import "a.proto"; message B {}`)

	results, err := ParseWithDependencies([]string{root}, []string{filepath.Join(root, "a.proto")})
	require.NoError(t, err)
	require.Equal(t, []string{"a.proto", "b.proto"}, canonicalPaths(results))
}

func TestMissingImportIsFileNotFound(t *testing.T) {
	root := t.TempDir()
	writeProto(t, root, "a.proto", `syntax = "proto3"; import "missing.proto"; message A {}`)

	_, err := ParseWithDependencies([]string{root}, []string{filepath.Join(root, "a.proto")})
	require.Error(t, err)
	var walkErr *Error
	require.ErrorAs(t, err, &walkErr)
	require.Equal(t, FileNotFound, walkErr.Kind)
}

func TestInputOutsideIncludePath(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()
	writeProto(t, other, "a.proto", `syntax = "proto3"; message A {}`)

	_, err := ParseWithDependencies([]string{root}, []string{filepath.Join(other, "a.proto")})
	require.Error(t, err)
	var walkErr *Error
	require.ErrorAs(t, err, &walkErr)
	require.Equal(t, OutsideIncludePath, walkErr.Kind)
}

func TestParseFailurePropagates(t *testing.T) {
	root := t.TempDir()
	writeProto(t, root, "bad.proto", `message {}`)

	_, err := ParseWithDependencies([]string{root}, []string{filepath.Join(root, "bad.proto")})
	require.Error(t, err)
	var walkErr *Error
	require.ErrorAs(t, err, &walkErr)
	require.Equal(t, ParseFailure, walkErr.Kind)
}
