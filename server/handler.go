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

package server

import (
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"oras.land/repoauth/errdef"
	"oras.land/repoauth/internal/ioutil"
	"oras.land/repoauth/repository/remote/auth"
)

// Response messages.
const (
	msgUnauthorized = "Unauthorized access, please provide credentials"
	msgForbidden    = "Invalid credentials"
)

// contentType is announced for every served artifact.
const contentType = "text/xml"

// Handler serves text artifacts from a webroot to authorized clients.
//
// Every request is evaluated on its own:
//   - no Authorization header: 401 with a Basic challenge
//   - credentials refused by the Validator: 403
//   - no regular file under the webroot: 404
//   - otherwise: 200 and the file, copied line by line
type Handler struct {
	// Validator decides whether an Authorization header is accepted.
	Validator auth.Validator

	// Webroot locates requested files.
	Webroot Webroot

	// Realm is announced in the 401 challenge.
	// If empty, auth.DefaultRealm is used.
	Realm string

	// Logger receives authorization and lookup events.
	// If nil, the logrus standard logger is used.
	Logger logrus.FieldLogger
}

// NewHandler returns a handler serving root to the single user/password
// pair.
func NewHandler(root, username, password string) *Handler {
	return &Handler{
		Validator: auth.NewStaticValidator(username, password),
		Webroot:   Webroot{Root: root},
	}
}

func (h *Handler) logger() logrus.FieldLogger {
	if h.Logger == nil {
		return logrus.StandardLogger()
	}
	return h.Logger
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger().WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"remote": r.RemoteAddr,
	})

	logger.Debug("Authorizing request for artifact")
	header := r.Header.Get("Authorization")
	if header == "" {
		logger.Warn("Unauthorized access, please provide credentials")
		w.Header().Set("WWW-Authenticate", auth.Challenge(h.Realm))
		http.Error(w, msgUnauthorized, http.StatusUnauthorized)
		return
	}
	if h.Validator == nil || !h.Validator.Validate(header) {
		logger.Warn("Invalid credentials")
		http.Error(w, msgForbidden, http.StatusForbidden)
		return
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	path, err := h.Webroot.Resolve(r.URL.Path)
	if err != nil {
		switch {
		case errors.Is(err, errdef.ErrPathTraversal):
			logger.WithError(err).Warn("Requested path is outside of the webroot")
		case errors.Is(err, errdef.ErrNotFound):
			logger.Warnf("Requested file is not found: %s", r.URL.Path)
		default:
			logger.WithError(err).Error("Failed to locate requested file")
		}
		w.WriteHeader(http.StatusNotFound)
		return
	}

	h.serveFile(w, r, path, logger)
}

// serveFile streams the file at path. The file is closed on every exit path.
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, path string, logger logrus.FieldLogger) {
	fp, err := os.Open(path)
	if err != nil {
		logger.WithError(err).Warn("Requested file cannot be opened")
		w.WriteHeader(http.StatusNotFound)
		return
	}
	defer fp.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	n := writeLines(w, fp, logger)
	logger.WithField("bytes", n).Debug("Served artifact")
}

// writeLines streams src to w line by line and flushes it. The status line is
// already committed, so a failed copy aborts the response to keep a short body
// from being taken for the whole artifact.
func writeLines(w http.ResponseWriter, src io.Reader, logger logrus.FieldLogger) int64 {
	n, err := ioutil.CopyLines(w, src)
	if err != nil {
		logger.WithError(err).WithField("bytes", n).Error("Failed to write artifact, aborting response")
		panic(http.ErrAbortHandler)
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return n
}
