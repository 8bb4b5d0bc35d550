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
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	target Target
	status Status
	err    error
}

func recorder(records *[]record) ManagerFunc {
	return func(target Target, status Status, err error) error {
		*records = append(*records, record{target, status, err})
		return nil
	}
}

func TestTrackReader(t *testing.T) {
	var records []record
	target := Target{Repository: "auth-repository", Path: "g/a/1.0/a-1.0.jar"}
	tracker, err := recorder(&records).Track(target)
	require.NoError(t, err)

	require.NoError(t, Start(tracker))
	r := TrackReader(tracker, iotest.OneByteReader(strings.NewReader("abc")))
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
	require.NoError(t, Done(tracker))
	require.NoError(t, tracker.Close())

	want := []Status{
		{State: StateInitialized, Offset: -1},
		{State: StateTransmitting, Offset: 1},
		{State: StateTransmitting, Offset: 2},
		{State: StateTransmitting, Offset: 3},
		{State: StateTransmitted, Offset: -1},
	}
	require.Len(t, records, len(want))
	for i, rec := range records {
		assert.Equal(t, target, rec.target)
		assert.Equal(t, want[i], rec.status, "record %d", i)
		assert.NoError(t, rec.err)
	}
}

func TestTrackReader_Failure(t *testing.T) {
	var records []record
	tracker, err := recorder(&records).Track(Target{Path: "a"})
	require.NoError(t, err)

	errBroken := errors.New("broken pipe")
	_, err = io.ReadAll(TrackReader(tracker, iotest.ErrReader(errBroken)))
	assert.ErrorIs(t, err, errBroken)

	require.Len(t, records, 1)
	assert.Equal(t, StateFailed, records[0].status.State)
	assert.ErrorIs(t, records[0].err, errBroken)
}

func TestRecord(t *testing.T) {
	var records []record
	target := Target{Repository: "r", Path: "p"}
	require.NoError(t, Record(recorder(&records), target, Status{State: StateTransmitted, Offset: 42}))
	require.Len(t, records, 1)
	assert.Equal(t, int64(42), records[0].status.Offset)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "transmitted", StateTransmitted.String())
	assert.Equal(t, "unknown", State(42).String())
}
