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

package server

import (
	"fmt"
	"os"

	"oras.land/repoauth/errdef"
	"oras.land/repoauth/internal/fsutil"
)

// Webroot maps request paths to files under a root directory.
type Webroot struct {
	// Root is the directory artifacts are served from.
	Root string
}

// Resolve returns the location of the regular file addressed by the slash
// separated target. It fails with errdef.ErrPathTraversal when the target,
// after cleaning and following symbolic links, lies outside Root, and with
// errdef.ErrNotFound when no regular file exists there.
func (w Webroot) Resolve(target string) (string, error) {
	path, err := fsutil.SecureJoin(w.Root, target)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", target, errdef.ErrNotFound)
		}
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s: not a regular file: %w", target, errdef.ErrNotFound)
	}
	if err := fsutil.EnsureNoSymlinkEscape(w.Root, path); err != nil {
		return "", err
	}
	return path, nil
}
