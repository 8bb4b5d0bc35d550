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

package retry

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// fastPolicy keeps the default predicate but does not wait.
func fastPolicy(maxRetry int) func() Policy {
	return func() Policy {
		p := NewPolicy(maxRetry)
		p.MinWait = time.Millisecond
		p.MaxWait = time.Millisecond
		return p
	}
}

func Test_Client(t *testing.T) {
	testCases := []struct {
		name         string
		failures     int
		statusCode   int
		maxRetry     int
		wantAttempts int64
		wantStatus   int
	}{
		{
			name:         "successful request with 0 retry",
			statusCode:   http.StatusOK,
			maxRetry:     5,
			wantAttempts: 1,
			wantStatus:   http.StatusOK,
		},
		{
			name:         "successful request with 1 retry caused by 408",
			failures:     1,
			statusCode:   http.StatusRequestTimeout,
			maxRetry:     5,
			wantAttempts: 2,
			wantStatus:   http.StatusOK,
		},
		{
			name:         "successful request with 2 retries caused by 503",
			failures:     2,
			statusCode:   http.StatusServiceUnavailable,
			maxRetry:     5,
			wantAttempts: 3,
			wantStatus:   http.StatusOK,
		},
		{
			name:         "too many retries",
			failures:     10,
			statusCode:   http.StatusBadGateway,
			maxRetry:     2,
			wantAttempts: 3,
			wantStatus:   http.StatusBadGateway,
		},
		{
			name:         "401 is not retried",
			failures:     10,
			statusCode:   http.StatusUnauthorized,
			maxRetry:     5,
			wantAttempts: 1,
			wantStatus:   http.StatusUnauthorized,
		},
		{
			name:         "403 is not retried",
			failures:     10,
			statusCode:   http.StatusForbidden,
			maxRetry:     5,
			wantAttempts: 1,
			wantStatus:   http.StatusForbidden,
		},
		{
			name:         "404 is not retried",
			failures:     10,
			statusCode:   http.StatusNotFound,
			maxRetry:     5,
			wantAttempts: 1,
			wantStatus:   http.StatusNotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var count int64
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				if string(body) != "test" {
					t.Errorf("unexpected request body: %q", body)
				}
				if n := atomic.AddInt64(&count, 1); n <= int64(tc.failures) {
					http.Error(w, "error", tc.statusCode)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))
			defer ts.Close()

			client := &http.Client{
				Transport: &Transport{Policy: fastPolicy(tc.maxRetry)},
			}
			req, err := http.NewRequest(http.MethodPost, ts.URL, bytes.NewReader([]byte("test")))
			if err != nil {
				t.Fatalf("failed to create test request: %v", err)
			}
			resp, err := client.Do(req)
			if err != nil {
				t.Fatalf("failed to do test request: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("unexpected status code: %d, want %d", resp.StatusCode, tc.wantStatus)
			}
			if got := atomic.LoadInt64(&count); got != tc.wantAttempts {
				t.Errorf("unexpected attempts: %d, want %d", got, tc.wantAttempts)
			}
		})
	}
}

func TestExponentialBackoff(t *testing.T) {
	backoff := ExponentialBackoff(100*time.Millisecond, 2, 0)
	for attempt, want := range []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
	} {
		if got := backoff(attempt, nil); got != want {
			t.Errorf("backoff(%d) = %v, want %v", attempt, got, want)
		}
	}

	resp := &http.Response{
		StatusCode: http.StatusTooManyRequests,
		Header:     http.Header{"Retry-After": {"2"}},
	}
	if got := backoff(0, resp); got != 2*time.Second {
		t.Errorf("backoff() with Retry-After = %v, want %v", got, 2*time.Second)
	}
}
