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

package progress

import "io"

// Tracker updates the status of a download.
type Tracker interface {
	io.Closer

	// Update updates the status of the download.
	Update(status Status) error

	// Fail marks the download as failed.
	Fail(err error) error
}

// TrackerFunc is an adapter to allow the use of ordinary functions as
// Trackers. A nil error denotes a status update, a non-nil error a failure.
type TrackerFunc func(status Status, err error) error

// Update calls f with the status.
func (f TrackerFunc) Update(status Status) error {
	return f(status, nil)
}

// Fail calls f with the failed state and err.
func (f TrackerFunc) Fail(err error) error {
	return f(Status{State: StateFailed, Offset: -1}, err)
}

// Close closes the tracker.
func (f TrackerFunc) Close() error {
	return nil
}

// Start starts tracking the transmission.
func Start(t Tracker) error {
	return t.Update(Status{
		State:  StateInitialized,
		Offset: -1,
	})
}

// Done marks the transmission as complete.
// Done should be called after the content is stored.
// Note: Reading all content from the reader does not imply the transmission is
// complete.
func Done(t Tracker) error {
	return t.Update(Status{
		State:  StateTransmitted,
		Offset: -1,
	})
}
