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

package errdef

import (
	"errors"
	"fmt"
)

// Common errors used in repoauth
var (
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidEndpoint   = errors.New("invalid endpoint")
	ErrMissingProfile    = errors.New("missing profile")
	ErrNoResolvedResult  = errors.New("no resolved result")
	ErrNotFound          = errors.New("not found")
	ErrPathTraversal     = errors.New("path traversal disallowed")
	ErrUnauthorized      = errors.New("unauthorized")
)

// ResolutionError records why a single repository could not satisfy an
// artifact request.
type ResolutionError struct {
	Repository string
	Path       string
	Err        error
}

// NewResolutionError returns a ResolutionError for the repository and path.
func NewResolutionError(repository, path string, err error) error {
	return &ResolutionError{
		Repository: repository,
		Path:       path,
		Err:        err,
	}
}

func (e *ResolutionError) Error() string {
	if e.Repository == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("repository %s: %s: %v", e.Repository, e.Path, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
