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
	"github.com/opencontainers/go-digest"

	"oras.land/repoauth/errdef"
)

// Kind classifies the result of resolving one artifact from one endpoint.
type Kind int

// Resolution outcome kinds.
const (
	// Resolved means the artifact was downloaded.
	Resolved Kind = iota + 1
	// Unauthorized means the repository asked for credentials (401).
	Unauthorized
	// Forbidden means the repository rejected the credentials (403).
	Forbidden
	// NotFound means the artifact does not exist in the repository (404).
	NotFound
	// TransportError means the exchange failed or the response was not
	// understood.
	TransportError
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not found"
	case TransportError:
		return "transport error"
	}
	return "unknown"
}

// Outcome is the result of a single resolution. Exactly one Kind is set;
// Path, Digest and Size are only meaningful for Resolved, Cause only for
// TransportError.
type Outcome struct {
	Kind Kind

	// Repository is the name of the endpoint that produced the outcome.
	Repository string

	// URL is the requested location.
	URL string

	// Path is the local file holding the downloaded artifact.
	Path string

	// Digest is the digest of the downloaded content.
	Digest digest.Digest

	// Size is the number of bytes downloaded.
	Size int64

	// Cause is the underlying failure of a TransportError.
	Cause error
}

// Ok reports whether the artifact was resolved.
func (o Outcome) Ok() bool {
	return o.Kind == Resolved
}

// Err returns nil for Resolved outcomes, and an error matching the
// corresponding errdef sentinel otherwise. Transport errors return Cause.
func (o Outcome) Err() error {
	switch o.Kind {
	case Resolved:
		return nil
	case Unauthorized:
		return errdef.ErrUnauthorized
	case Forbidden:
		return errdef.ErrForbidden
	case NotFound:
		return errdef.ErrNotFound
	}
	return o.Cause
}
