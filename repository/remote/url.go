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

package remote

import (
	"net/url"
	"strings"

	"oras.land/repoauth/repository"
)

// ensureTrailingSlash returns p ending with exactly one '/'.
func ensureTrailingSlash(p string) string {
	return strings.TrimRight(p, "/") + "/"
}

// buildArtifactURL builds the URL of the requested artifact.
// Format: <base URL><relative path>
func buildArtifactURL(base *url.URL, req repository.ArtifactRequest) *url.URL {
	u := *base
	u.RawPath = ""
	u.Path = ensureTrailingSlash(base.Path) + strings.TrimLeft(req.RelativePath, "/")
	return &u
}
