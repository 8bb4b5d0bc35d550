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

// Package progress tracks the downloads of resolved artifacts.
package progress

import "io"

// Target identifies a download.
type Target struct {
	// Repository is the name of the repository the artifact comes from.
	Repository string

	// Path is the repository relative path of the artifact.
	Path string
}

// Manager tracks the progress of multiple downloads.
type Manager interface {
	io.Closer

	// Track starts tracking the progress of a download.
	Track(target Target) (Tracker, error)
}

// ManagerFunc is an adapter to allow the use of ordinary functions as Managers.
// If f is a function with the appropriate signature, ManagerFunc(f) is a
// [Manager] that calls f.
type ManagerFunc func(Target, Status, error) error

// Track starts tracking the progress of a download.
func (f ManagerFunc) Track(target Target) (Tracker, error) {
	return TrackerFunc(func(status Status, err error) error {
		return f(target, status, err)
	}), nil
}

// Close closes the manager.
func (f ManagerFunc) Close() error {
	return nil
}

// Record adds the progress of a download as a single entry.
func Record(m Manager, target Target, status Status) error {
	tracker, err := m.Track(target)
	if err != nil {
		return err
	}
	err = tracker.Update(status)
	if err != nil {
		return err
	}
	return tracker.Close()
}
