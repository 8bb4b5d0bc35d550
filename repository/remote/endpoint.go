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
	"fmt"
	"net/url"

	"oras.land/repoauth/errdef"
	"oras.land/repoauth/repository/remote/credentials"
)

// Endpoint is one configured remote repository.
//
// Endpoints share no state; two endpoints pointing at the same server with
// different credentials are resolved independently.
type Endpoint struct {
	// ID names the repository in logs and errors.
	ID string

	// BaseURL is the root of the repository. It always ends with '/'.
	BaseURL *url.URL

	// Credential is sent with every request when not nil.
	Credential *credentials.Credential
}

// NewEndpoint parses rawURL and returns an endpoint. The credential is
// copied so that later changes by the caller are not observed.
func NewEndpoint(id, rawURL string, cred *credentials.Credential) (Endpoint, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %v", errdef.ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Endpoint{}, fmt.Errorf("%w: %q: unsupported scheme %q", errdef.ErrInvalidEndpoint, rawURL, u.Scheme)
	}
	if u.Host == "" {
		return Endpoint{}, fmt.Errorf("%w: %q: missing host", errdef.ErrInvalidEndpoint, rawURL)
	}
	if u.User != nil {
		return Endpoint{}, fmt.Errorf("%w: %q: credentials must not be embedded in the URL", errdef.ErrInvalidEndpoint, u.Redacted())
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawPath = ""
	u.Path = ensureTrailingSlash(u.Path)

	ep := Endpoint{
		ID:      id,
		BaseURL: u,
	}
	if cred != nil {
		c := *cred
		ep.Credential = &c
	}
	return ep, nil
}

// Name returns the ID of the endpoint, or its base URL when no ID is set.
func (e Endpoint) Name() string {
	if e.ID != "" {
		return e.ID
	}
	if e.BaseURL == nil {
		return ""
	}
	return e.BaseURL.String()
}

// HasCredential reports whether requests carry an Authorization header.
func (e Endpoint) HasCredential() bool {
	return e.Credential != nil
}
