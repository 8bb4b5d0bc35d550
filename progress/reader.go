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

import (
	"errors"
	"io"
)

// TrackReader binds a reader with a tracker. Each read reports the number of
// bytes received so far.
func TrackReader(t Tracker, r io.Reader) io.Reader {
	return &readTracker{
		base:    r,
		tracker: t,
	}
}

// readTracker tracks the transmission based on the read operation.
type readTracker struct {
	base    io.Reader
	tracker Tracker
	offset  int64
}

// Read reads from the base reader and updates the status.
func (rt *readTracker) Read(p []byte) (n int, err error) {
	n, err = rt.base.Read(p)
	if n > 0 {
		rt.offset += int64(n)
		_ = rt.tracker.Update(Status{
			State:  StateTransmitting,
			Offset: rt.offset,
		})
	}
	if err != nil && !errors.Is(err, io.EOF) {
		_ = rt.tracker.Fail(err)
	}
	return n, err
}
