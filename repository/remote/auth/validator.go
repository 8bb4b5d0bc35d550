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

package auth

import (
	"bufio"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"oras.land/repoauth/repository/remote/credentials"
)

// basicPrefix is the scheme prefix of a Basic Authorization header. The
// scheme is matched case-sensitively.
const basicPrefix = "Basic "

// Validator validates the Authorization header of an incoming request.
type Validator interface {
	// Validate reports whether the header carries acceptable credentials.
	Validate(header string) bool
}

// ValidatorFunc is an adapter to allow the use of ordinary functions as
// validators.
type ValidatorFunc func(header string) bool

// Validate calls fn(header).
func (fn ValidatorFunc) Validate(header string) bool {
	return fn(header)
}

// StaticValidator accepts exactly one username and password pair.
type StaticValidator struct {
	expected string
}

// NewStaticValidator returns a validator accepting only the given username
// and password.
func NewStaticValidator(username, password string) *StaticValidator {
	return &StaticValidator{
		expected: credentials.NewCredential(username, password).Header(),
	}
}

// Validate reconstructs `Basic base64(username:password)` and compares it with
// the header for exact equality.
func (v *StaticValidator) Validate(header string) bool {
	if !strings.HasPrefix(header, basicPrefix) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(v.expected)) == 1
}

// HtpasswdValidator accepts any user listed in an htpasswd file. Only bcrypt
// hashes are supported.
type HtpasswdValidator struct {
	users map[string][]byte
}

// NewHtpasswdValidator parses htpasswd entries (`user:hash` per line).
// Blank lines and lines starting with '#' are ignored.
func NewHtpasswdValidator(r io.Reader) (*HtpasswdValidator, error) {
	users := make(map[string][]byte)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		user, hash, ok := strings.Cut(line, ":")
		if !ok || user == "" {
			return nil, fmt.Errorf("htpasswd line %d: malformed entry", lineNo)
		}
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("htpasswd line %d: user %q: unsupported hash: %w", lineNo, user, err)
		}
		users[user] = []byte(hash)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &HtpasswdValidator{users: users}, nil
}

// LoadHtpasswd reads htpasswd entries from the file at path.
func LoadHtpasswd(path string) (*HtpasswdValidator, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return NewHtpasswdValidator(fp)
}

// Users returns the number of known users.
func (v *HtpasswdValidator) Users() int {
	return len(v.users)
}

// Validate decodes the Basic credential and checks it against the bcrypt
// hash of the user.
func (v *HtpasswdValidator) Validate(header string) bool {
	if !strings.HasPrefix(header, basicPrefix) {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(basicPrefix):])
	if err != nil {
		return false
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return false
	}
	hash, ok := v.users[username]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
