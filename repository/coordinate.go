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

// Package repository defines artifact coordinates and requests against a
// Maven-layout artifact repository.
package repository

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"oras.land/repoauth/errdef"
)

// DefaultExtension is the packaging used when a coordinate omits it.
const DefaultExtension = "jar"

// segmentRegexp matches a single coordinate segment.
var segmentRegexp = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.+-]*$`)

// ArtifactRequest identifies a file under the repository root, for example
// `group/artifact/version/artifact-version.ext`.
type ArtifactRequest struct {
	RelativePath string
}

// NewArtifactRequest returns a request for the slash separated path relative
// to the repository root. Leading slashes are dropped.
func NewArtifactRequest(relativePath string) ArtifactRequest {
	return ArtifactRequest{
		RelativePath: strings.TrimLeft(relativePath, "/"),
	}
}

// String returns the relative path.
func (r ArtifactRequest) String() string {
	return r.RelativePath
}

// Coordinate references an artifact in a Maven-layout repository.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
	Extension  string
	Classifier string
}

// ParseCoordinate parses one of the forms
//
//	groupId:artifactId:version
//	groupId:artifactId:extension:version
//	groupId:artifactId:extension:classifier:version
func ParseCoordinate(raw string) (Coordinate, error) {
	parts := strings.Split(raw, ":")
	var c Coordinate
	switch len(parts) {
	case 3:
		c = Coordinate{
			GroupID:    parts[0],
			ArtifactID: parts[1],
			Version:    parts[2],
		}
	case 4:
		c = Coordinate{
			GroupID:    parts[0],
			ArtifactID: parts[1],
			Extension:  parts[2],
			Version:    parts[3],
		}
	case 5:
		c = Coordinate{
			GroupID:    parts[0],
			ArtifactID: parts[1],
			Extension:  parts[2],
			Classifier: parts[3],
			Version:    parts[4],
		}
	default:
		return Coordinate{}, fmt.Errorf("%w: %q", errdef.ErrInvalidCoordinate, raw)
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Validate validates the coordinate.
func (c Coordinate) Validate() error {
	for _, seg := range []struct {
		name  string
		value string
	}{
		{"groupId", c.GroupID},
		{"artifactId", c.ArtifactID},
		{"version", c.Version},
		{"extension", c.Extension},
	} {
		if !segmentRegexp.MatchString(seg.value) {
			return fmt.Errorf("%w: invalid %s %q", errdef.ErrInvalidCoordinate, seg.name, seg.value)
		}
	}
	if c.Classifier != "" && !segmentRegexp.MatchString(c.Classifier) {
		return fmt.Errorf("%w: invalid classifier %q", errdef.ErrInvalidCoordinate, c.Classifier)
	}
	for _, group := range strings.Split(c.GroupID, ".") {
		if group == "" {
			return fmt.Errorf("%w: invalid groupId %q", errdef.ErrInvalidCoordinate, c.GroupID)
		}
	}
	return nil
}

// Path returns the location of the artifact relative to the repository root.
func (c Coordinate) Path() string {
	name := c.ArtifactID + "-" + c.Version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	name += "." + c.extension()
	groupPath := strings.ReplaceAll(c.GroupID, ".", "/")
	return path.Join(groupPath, c.ArtifactID, c.Version, name)
}

// Request returns the artifact request for the coordinate.
func (c Coordinate) Request() ArtifactRequest {
	return NewArtifactRequest(c.Path())
}

// String implements `fmt.Stringer` and returns the canonical coordinate.
func (c Coordinate) String() string {
	parts := []string{c.GroupID, c.ArtifactID}
	if ext := c.extension(); ext != DefaultExtension || c.Classifier != "" {
		parts = append(parts, ext)
	}
	if c.Classifier != "" {
		parts = append(parts, c.Classifier)
	}
	parts = append(parts, c.Version)
	return strings.Join(parts, ":")
}

func (c Coordinate) extension() string {
	if c.Extension == "" {
		return DefaultExtension
	}
	return c.Extension
}
