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

// Package remote provides the credential-aware client resolving artifacts
// from remote repositories.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"

	"oras.land/repoauth/internal/fsutil"
	"oras.land/repoauth/internal/ioutil"
	"oras.land/repoauth/progress"
	"oras.land/repoauth/repository"
	"oras.land/repoauth/repository/remote/auth"
	"oras.land/repoauth/repository/remote/remoteerr"
)

// DefaultDir is the download directory used when Resolver.Dir is empty.
var DefaultDir = filepath.Join(os.TempDir(), "repoauth")

// Resolver downloads artifacts from endpoints and classifies the responses.
// A Resolver is safe for concurrent use.
type Resolver struct {
	// Client is the underlying HTTP client.
	// If nil, the resolver uses a client with its own transport, so that no
	// connection state is shared with other resolvers.
	Client *http.Client

	// Header contains the custom headers to be added to each request.
	Header http.Header

	// Dir is the directory resolved artifacts are written to, using the
	// repository layout. If empty, DefaultDir is used.
	Dir string

	// Logger receives per-request events.
	// If nil, the logrus standard logger is used.
	Logger logrus.FieldLogger

	// Progress tracks the downloads of resolved artifacts.
	// If nil, downloads are not tracked.
	Progress progress.Manager

	clientOnce    sync.Once
	defaultClient *http.Client
}

// NewResolver returns a resolver downloading into dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{
		Dir: dir,
	}
}

func (r *Resolver) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	r.clientOnce.Do(func() {
		r.defaultClient = &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		}
	})
	return r.defaultClient
}

func (r *Resolver) logger() logrus.FieldLogger {
	if r.Logger == nil {
		return logrus.StandardLogger()
	}
	return r.Logger
}

func (r *Resolver) dir() string {
	if r.Dir == "" {
		return DefaultDir
	}
	return r.Dir
}

// Resolve issues a single GET for the artifact against the endpoint and
// maps the response to an Outcome:
//   - 200: the body is stored under Dir and the outcome is Resolved.
//   - 401, 403, 404: Unauthorized, Forbidden, NotFound.
//   - anything else, including network failures: TransportError.
//
// The Authorization header is attached if and only if the endpoint has a
// credential. Challenges are not answered by a second attempt.
func (r *Resolver) Resolve(ctx context.Context, endpoint Endpoint, req repository.ArtifactRequest) Outcome {
	outcome := Outcome{
		Repository: endpoint.Name(),
	}
	if endpoint.BaseURL == nil {
		return transportError(outcome, fmt.Errorf("repository %s: missing base URL", endpoint.Name()))
	}
	target := buildArtifactURL(endpoint.BaseURL, req)
	outcome.URL = target.String()
	logger := r.logger().WithFields(logrus.Fields{
		"repository": endpoint.Name(),
		"url":        outcome.URL,
	})

	// validate the local location before touching the network
	localPath, err := fsutil.SecureJoin(r.dir(), req.RelativePath)
	if err != nil {
		return transportError(outcome, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, outcome.URL, nil)
	if err != nil {
		return transportError(outcome, err)
	}
	client := &auth.Client{
		Client:     r.client(),
		Header:     r.Header,
		Credential: endpoint.Credential,
	}
	logger.WithField("authenticated", endpoint.HasCredential()).Debug("Requesting artifact")
	resp, err := client.Do(httpReq)
	if err != nil {
		logger.WithError(err).Warn("Request failed")
		return transportError(outcome, err)
	}
	defer resp.Body.Close()

	logger = logger.WithField("status", resp.StatusCode)
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		if realm, ok := auth.ChallengeRealm(resp); ok {
			logger = logger.WithField("realm", realm)
		}
		logger.Warn("Repository requires credentials")
		outcome.Kind = Unauthorized
		return outcome
	case http.StatusForbidden:
		logger.Warn("Repository rejected credentials")
		outcome.Kind = Forbidden
		return outcome
	case http.StatusNotFound:
		logger.Info("Artifact not found")
		outcome.Kind = NotFound
		return outcome
	default:
		err := remoteerr.ParseErrorResponse(resp)
		logger.WithError(err).Warn("Unexpected response")
		return transportError(outcome, err)
	}

	tracker, err := r.track(endpoint.Name(), req)
	if err != nil {
		return transportError(outcome, err)
	}
	defer tracker.Close()
	dgst, size, err := store(localPath, resp, tracker)
	if err != nil {
		logger.WithError(err).Warn("Download failed")
		return transportError(outcome, err)
	}
	outcome.Kind = Resolved
	outcome.Path = localPath
	outcome.Digest = dgst
	outcome.Size = size
	logger.WithFields(logrus.Fields{
		"path":   localPath,
		"digest": dgst,
		"size":   size,
	}).Info("Artifact resolved")
	return outcome
}

// store writes the response body to a temporary file next to target and
// moves it into place once the body is complete.
func store(target string, resp *http.Response, tracker progress.Tracker) (dgst digest.Digest, size int64, err error) {
	if err := fsutil.EnsureDir(filepath.Dir(target)); err != nil {
		return "", 0, fmt.Errorf("failed to ensure directories of the target path: %w", err)
	}
	fp, err := os.CreateTemp(filepath.Dir(target), ".download-*")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmp := fp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmp)
			_ = tracker.Fail(err)
		}
	}()

	if err := progress.Start(tracker); err != nil {
		fp.Close()
		return "", 0, err
	}
	dgst, size, err = ioutil.CopyDigest(fp, progress.TrackReader(tracker, resp.Body))
	closeErr := fp.Close()
	if err != nil {
		return "", size, fmt.Errorf("%s %q: failed to read response body: %w", resp.Request.Method, resp.Request.URL, err)
	}
	if closeErr != nil {
		return "", size, closeErr
	}
	if err := os.Rename(tmp, target); err != nil {
		return "", size, err
	}
	return dgst, size, progress.Done(tracker)
}

// track starts tracking the download of req, or returns a no-op tracker if
// no progress manager is set.
func (r *Resolver) track(name string, req repository.ArtifactRequest) (progress.Tracker, error) {
	if r.Progress == nil {
		return progress.TrackerFunc(func(progress.Status, error) error { return nil }), nil
	}
	return r.Progress.Track(progress.Target{
		Repository: name,
		Path:       req.RelativePath,
	})
}

func transportError(outcome Outcome, err error) Outcome {
	outcome.Kind = TransportError
	outcome.Cause = err
	return outcome
}
