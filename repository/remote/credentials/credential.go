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

// Package credentials provides the credential attached to a remote
// repository endpoint.
package credentials

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// Credential contains the Basic authentication credential used to access a
// remote repository.
type Credential struct {
	// Username is the name of the user for the remote repository.
	Username string

	// Password is the secret associated with the username.
	Password string
}

// EmptyCredential represents an empty credential.
var EmptyCredential Credential

// NewCredential returns a credential for the username and password.
func NewCredential(username, password string) Credential {
	return Credential{
		Username: username,
		Password: password,
	}
}

// IsEmpty reports whether neither username nor password is set.
func (c Credential) IsEmpty() bool {
	return c == EmptyCredential
}

// BasicToken returns base64(username:password). Invalid UTF-8 sequences are
// replaced so that the encoded value does not depend on the platform.
func (c Credential) BasicToken() string {
	raw := c.Username + ":" + c.Password
	if !utf8.ValidString(raw) {
		raw = strings.ToValidUTF8(raw, string(utf8.RuneError))
	}
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// Header returns the value of the Authorization header for the credential.
func (c Credential) Header() string {
	return "Basic " + c.BasicToken()
}

// String returns the credential with the password redacted.
func (c Credential) String() string {
	if c.Password == "" {
		return c.Username
	}
	return c.Username + ":*****"
}
