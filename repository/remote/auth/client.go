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

// Package auth provides HTTP Basic authentication for a client to a remote
// artifact repository, and the credential validation used by the server.
package auth

import (
	"net/http"

	"oras.land/repoauth/repository/remote/credentials"
)

// HTTP header names used in authentication.
const (
	headerAuthorization   = "Authorization"
	headerUserAgent       = "User-Agent"
	headerWWWAuthenticate = "Www-Authenticate"
)

// defaultUserAgent is the User-Agent sent when none is configured.
const defaultUserAgent = "repoauth"

// Client is an auth-decorated HTTP client bound to one credential.
//
// The credential is written into every outgoing request. Nothing is cached
// between requests and challenges are never answered by a second attempt, so
// two clients with different credentials behave independently even when they
// share the same underlying HTTP client.
// Its zero value is a usable client that uses http.DefaultClient and sends no
// credential.
type Client struct {
	// Client is the underlying HTTP client used to access the remote
	// server.
	// If nil, http.DefaultClient is used.
	Client *http.Client

	// Header contains the custom headers to be added to each request.
	Header http.Header

	// Credential is attached to every request when not nil.
	Credential *credentials.Credential
}

// client returns an HTTP client used to access the remote repository.
// http.DefaultClient is return if the client is not configured.
func (c *Client) client() *http.Client {
	if c.Client == nil {
		return http.DefaultClient
	}
	return c.Client
}

// SetUserAgent sets the user agent for all out-going requests.
func (c *Client) SetUserAgent(userAgent string) {
	if c.Header == nil {
		c.Header = http.Header{}
	}
	c.Header.Set(headerUserAgent, userAgent)
}

// Do sends a copy of the request to the remote server. The Authorization
// header is replaced by the configured credential, or removed when no
// credential is configured. 401 and 403 responses are returned as is.
func (c *Client) Do(originalReq *http.Request) (*http.Response, error) {
	req := originalReq.Clone(originalReq.Context())
	for key, values := range c.Header {
		req.Header[key] = append(req.Header[key], values...)
	}
	if req.Header.Get(headerUserAgent) == "" {
		req.Header.Set(headerUserAgent, defaultUserAgent)
	}
	if c.Credential != nil {
		req.Header.Set(headerAuthorization, c.Credential.Header())
	} else {
		req.Header.Del(headerAuthorization)
	}
	return c.client().Do(req)
}

// ChallengeRealm returns the Basic realm announced by a 401 response, if any.
func ChallengeRealm(resp *http.Response) (string, bool) {
	scheme, params := ParseChallenge(resp.Header.Get(headerWWWAuthenticate))
	if scheme != SchemeBasic {
		return "", false
	}
	realm, ok := params["realm"]
	return realm, ok
}
