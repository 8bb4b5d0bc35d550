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

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oras.land/repoauth/errdef"
)

func Test_parseRequest(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    string
		wantErr error
	}{
		{
			name: "coordinate",
			arg:  "org.jboss.shrinkwrap.test:test-deps-i:1.0.0",
			want: "org/jboss/shrinkwrap/test/test-deps-i/1.0.0/test-deps-i-1.0.0.jar",
		},
		{
			name: "coordinate with extension",
			arg:  "org.jboss.shrinkwrap.test:test-deps-i:pom:1.0.0",
			want: "org/jboss/shrinkwrap/test/test-deps-i/1.0.0/test-deps-i-1.0.0.pom",
		},
		{
			name: "path",
			arg:  "/org/jboss/shrinkwrap/test/test-deps-i/1.0.0/test-deps-i-1.0.0.pom",
			want: "org/jboss/shrinkwrap/test/test-deps-i/1.0.0/test-deps-i-1.0.0.pom",
		},
		{
			name:    "invalid",
			arg:     "test-deps-i",
			wantErr: errdef.ErrInvalidCoordinate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRequest(tt.arg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.RelativePath)
		})
	}
}
