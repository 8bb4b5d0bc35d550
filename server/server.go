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

// Package server provides an HTTP artifact repository protected by Basic
// authentication.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPort is the port the repository listens on unless configured
// otherwise.
const DefaultPort = 12345

// defaultReadHeaderTimeout bounds how long a client may take to send the
// request headers.
const defaultReadHeaderTimeout = 10 * time.Second

// Server runs a Handler on a TCP address.
type Server struct {
	// Addr is the TCP address to listen on, e.g. ":12345".
	Addr string

	// Handler serves the requests.
	Handler http.Handler

	// Logger receives lifecycle events.
	// If nil, the logrus standard logger is used.
	Logger logrus.FieldLogger

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	done     chan struct{}
}

// New returns a server for the handler on the given address.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		Addr:    addr,
		Handler: handler,
	}
}

func (s *Server) logger() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

// Start binds the address and serves requests in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return errors.New("server already started")
	}

	listener, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("could not start server on %s: %w", s.Addr, err)
	}
	s.listener = listener
	s.srv = &http.Server{
		Handler:           s.Handler,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}
	s.done = make(chan struct{})

	go func(srv *http.Server, done chan struct{}) {
		defer close(done)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger().WithError(err).Error("HTTP server stopped unexpectedly")
		}
	}(s.srv, s.done)

	s.logger().WithField("addr", listener.Addr().String()).Info("HTTP server started")
	return nil
}

// URL returns the base URL of the running server, ending with '/'.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	addr := s.listener.Addr().(*net.TCPAddr)
	host := "localhost"
	if !addr.IP.IsUnspecified() {
		host = addr.IP.String()
	}
	return fmt.Sprintf("http://%s/", net.JoinHostPort(host, fmt.Sprint(addr.Port)))
}

// Stop gracefully shuts the server down. Failures are logged and not
// returned, since stopping happens during teardown.
func (s *Server) Stop(ctx context.Context) {
	s.mu.Lock()
	srv, done := s.srv, s.done
	s.srv, s.listener, s.done = nil, nil, nil
	s.mu.Unlock()
	if srv == nil {
		return
	}

	if err := srv.Shutdown(ctx); err != nil {
		s.logger().WithError(err).Error("Could not stop HTTP server cleanly")
		srv.Close()
	}
	<-done
	s.logger().Info("HTTP server stopped")
}

// Wait blocks until the server stops serving.
func (s *Server) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}
