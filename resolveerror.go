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

package repoauth

import (
	"fmt"

	"oras.land/repoauth/repository/remote"
)

// TransportFailure is returned when a repository could not be asked at all,
// or answered with something the pipeline does not classify. Resolution
// stops at the first such failure.
type TransportFailure struct {
	Repository string
	URL        string
	Err        error
}

// newTransportFailure creates a new TransportFailure from a TransportError
// outcome.
func newTransportFailure(outcome remote.Outcome) error {
	return &TransportFailure{
		Repository: outcome.Repository,
		URL:        outcome.URL,
		Err:        outcome.Cause,
	}
}

// Error implements the error interface for TransportFailure.
func (e *TransportFailure) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("[%s] transport failure: %v", e.Repository, e.Err)
	}
	return fmt.Sprintf("[%s] transport failure on %s: %v", e.Repository, e.URL, e.Err)
}

// Unwrap implements the errors.Unwrap interface for TransportFailure.
func (e *TransportFailure) Unwrap() error {
	return e.Err
}
