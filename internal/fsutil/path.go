/*
Copyright The ORAS Authors.
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package fsutil resolves slash separated request paths under a root
// directory.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"oras.land/repoauth/errdef"
)

// SecureJoin joins the slash separated target under root and returns the
// absolute result. Targets resolving outside root are rejected with
// errdef.ErrPathTraversal.
func SecureJoin(root, target string) (string, error) {
	if strings.ContainsRune(target, 0) {
		return "", fmt.Errorf("%q: %w", target, errdef.ErrPathTraversal)
	}
	base, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	rel := filepath.FromSlash(strings.TrimLeft(target, "/"))
	joined := filepath.Join(base, rel)
	if err := ensureBasePath(base, joined); err != nil {
		return "", fmt.Errorf("%q: %w", target, err)
	}
	return joined, nil
}

// EnsureNoSymlinkEscape evaluates the symbolic links of path and verifies the
// result is still under root. path must exist.
func EnsureNoSymlinkEscape(root, path string) error {
	base, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	realBase, err := filepath.EvalSymlinks(base)
	if err != nil {
		return err
	}
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return err
	}
	if err := ensureBasePath(realBase, realPath); err != nil {
		return fmt.Errorf("%q: %w", path, err)
	}
	return nil
}

// ensureBasePath ensures the target path is in the base path.
func ensureBasePath(base, target string) error {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return errdef.ErrPathTraversal
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return errdef.ErrPathTraversal
	}
	return nil
}

// EnsureDir ensures the directories of the path exists.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0777)
}
