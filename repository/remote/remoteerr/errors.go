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

// Package remoteerr describes unexpected responses of a remote repository.
package remoteerr

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxErrorBytes specifies the default limit on how many response bytes are
// allowed in the server's error response.
// A typical error page is well under a kilobyte. Hence, 8 KiB should be
// sufficient.
const maxErrorBytes int64 = 8 * 1024 // 8 KiB

// ErrorResponse represents a response with a status code the resolution
// client does not classify.
type ErrorResponse struct {
	Method     string
	URL        *url.URL
	StatusCode int
	Message    string
}

// Error returns a error string describing the error.
func (err *ErrorResponse) Error() string {
	errmsg := err.Message
	if errmsg == "" {
		errmsg = http.StatusText(err.StatusCode)
	}
	return fmt.Sprintf("%s %q: response status code %d: %s", err.Method, err.URL, err.StatusCode, errmsg)
}

// ParseErrorResponse builds an ErrorResponse from resp, using the first line
// of the body as the message.
func ParseErrorResponse(resp *http.Response) error {
	resultErr := &ErrorResponse{
		StatusCode: resp.StatusCode,
	}
	if resp.Request != nil {
		resultErr.Method = resp.Request.Method
		resultErr.URL = resp.Request.URL
	}
	if resp.Body == nil {
		return resultErr
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
	if err != nil {
		return resultErr
	}
	msg, _, _ := strings.Cut(string(body), "\n")
	resultErr.Message = strings.TrimSpace(msg)
	return resultErr
}
