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

package repository

import (
	"errors"
	"reflect"
	"testing"

	"oras.land/repoauth/errdef"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     Coordinate
		wantPath string
		wantErr  bool
	}{
		{
			name: "group artifact version",
			raw:  "org.jboss.shrinkwrap.test:test-deps-i:1.0.0",
			want: Coordinate{
				GroupID:    "org.jboss.shrinkwrap.test",
				ArtifactID: "test-deps-i",
				Version:    "1.0.0",
				Extension:  "jar",
			},
			wantPath: "org/jboss/shrinkwrap/test/test-deps-i/1.0.0/test-deps-i-1.0.0.jar",
		},
		{
			name: "with extension",
			raw:  "org.jboss.shrinkwrap.test:test-deps-i:pom:1.0.0",
			want: Coordinate{
				GroupID:    "org.jboss.shrinkwrap.test",
				ArtifactID: "test-deps-i",
				Version:    "1.0.0",
				Extension:  "pom",
			},
			wantPath: "org/jboss/shrinkwrap/test/test-deps-i/1.0.0/test-deps-i-1.0.0.pom",
		},
		{
			name: "with classifier",
			raw:  "g:a:jar:sources:2.1",
			want: Coordinate{
				GroupID:    "g",
				ArtifactID: "a",
				Version:    "2.1",
				Extension:  "jar",
				Classifier: "sources",
			},
			wantPath: "g/a/2.1/a-2.1-sources.jar",
		},
		{
			name:    "too few segments",
			raw:     "g:a",
			wantErr: true,
		},
		{
			name:    "too many segments",
			raw:     "g:a:b:c:d:e",
			wantErr: true,
		},
		{
			name:    "empty version",
			raw:     "g:a:",
			wantErr: true,
		},
		{
			name:    "path separator in artifact",
			raw:     "g:../a:1.0",
			wantErr: true,
		},
		{
			name:    "empty group segment",
			raw:     "org..test:a:1.0",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCoordinate(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCoordinate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errdef.ErrInvalidCoordinate) {
					t.Errorf("ParseCoordinate() error = %v, want %v", err, errdef.ErrInvalidCoordinate)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCoordinate() = %+v, want %+v", got, tt.want)
			}
			if path := got.Path(); path != tt.wantPath {
				t.Errorf("Coordinate.Path() = %v, want %v", path, tt.wantPath)
			}
			if req := got.Request(); req.RelativePath != tt.wantPath {
				t.Errorf("Coordinate.Request() = %v, want %v", req.RelativePath, tt.wantPath)
			}
		})
	}
}

func TestCoordinate_String(t *testing.T) {
	tests := []string{
		"org.jboss.shrinkwrap.test:test-deps-i:1.0.0",
		"g:a:pom:1.0",
		"g:a:jar:sources:2.1",
	}
	for _, raw := range tests {
		c, err := ParseCoordinate(raw)
		if err != nil {
			t.Fatalf("ParseCoordinate(%q) error = %v", raw, err)
		}
		if got := c.String(); got != raw {
			t.Errorf("Coordinate.String() = %v, want %v", got, raw)
		}
	}
}

func TestNewArtifactRequest(t *testing.T) {
	if got := NewArtifactRequest("/g/a/1.0/a-1.0.jar").RelativePath; got != "g/a/1.0/a-1.0.jar" {
		t.Errorf("NewArtifactRequest() = %v, want %v", got, "g/a/1.0/a-1.0.jar")
	}
}
