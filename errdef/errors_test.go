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
	"testing"
)

func TestResolutionError(t *testing.T) {
	tests := []struct {
		name       string
		repository string
		path       string
		err        error
		want       string
	}{
		{
			name:       "with repository",
			repository: "auth-repository",
			path:       "g/a/1.0/a-1.0.jar",
			err:        ErrForbidden,
			want:       "repository auth-repository: g/a/1.0/a-1.0.jar: forbidden",
		},
		{
			name: "without repository",
			path: "g/a/1.0/a-1.0.jar",
			err:  ErrNotFound,
			want: "g/a/1.0/a-1.0.jar: not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewResolutionError(tt.repository, tt.path, tt.err)
			if got := err.Error(); got != tt.want {
				t.Errorf("ResolutionError.Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("errors.Is(%v, %v) = false, want true", err, tt.err)
			}
			var resErr *ResolutionError
			if !errors.As(err, &resErr) {
				t.Fatalf("errors.As() = false, want true")
			}
			if resErr.Repository != tt.repository {
				t.Errorf("ResolutionError.Repository = %q, want %q", resErr.Repository, tt.repository)
			}
		})
	}
}
