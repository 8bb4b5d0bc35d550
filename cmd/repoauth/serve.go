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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phayes/freeport"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"oras.land/repoauth/repository/remote/auth"
	"oras.land/repoauth/server"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	root     string
	host     string
	port     int
	username string
	password string
	htpasswd string
	realm    string
}

func serveCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a directory as a repository protected by HTTP Basic authentication",
		Long: `Serve a directory as a repository protected by HTTP Basic authentication

Example - serve ./repo on the default port to a single user:
  repoauth serve --root ./repo --username shrinkwrap --password shrinkwrap

Example - serve to the users of an htpasswd file (bcrypt) on a free port:
  repoauth serve --root ./repo --htpasswd ./users.htpasswd --port 0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.root, "root", ".", "directory served as the webroot")
	cmd.Flags().StringVar(&opts.host, "host", "", "address to listen on, all interfaces if empty")
	cmd.Flags().IntVar(&opts.port, "port", server.DefaultPort, "port to listen on, 0 picks a free port")
	cmd.Flags().StringVarP(&opts.username, "username", "u", "", "accepted username")
	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "accepted password")
	cmd.Flags().StringVar(&opts.htpasswd, "htpasswd", "", "htpasswd file with bcrypt entries, replaces --username and --password")
	cmd.Flags().StringVar(&opts.realm, "realm", auth.DefaultRealm, "realm announced to unauthenticated clients")
	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	info, err := os.Stat(opts.root)
	if err != nil {
		return errors.Wrap(err, "invalid --root")
	}
	if !info.IsDir() {
		return errors.Errorf("invalid --root: %s is not a directory", opts.root)
	}

	var validator auth.Validator
	switch {
	case opts.htpasswd != "":
		v, err := auth.LoadHtpasswd(opts.htpasswd)
		if err != nil {
			return errors.Wrap(err, "failed to load htpasswd")
		}
		logrus.WithField("users", v.Users()).Info("Loaded htpasswd")
		validator = v
	case opts.username != "" || opts.password != "":
		validator = auth.NewStaticValidator(opts.username, opts.password)
	default:
		return errors.New("either --htpasswd or --username and --password are required")
	}

	port := opts.port
	if port == 0 {
		if port, err = freeport.GetFreePort(); err != nil {
			return errors.Wrap(err, "failed to find a free port")
		}
	}

	handler := &server.Handler{
		Validator: validator,
		Webroot:   server.Webroot{Root: opts.root},
		Realm:     opts.realm,
	}
	srv := server.New(fmt.Sprintf("%s:%d", opts.host, port), handler)
	if err := srv.Start(); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"url":  srv.URL(),
		"root": opts.root,
	}).Info("Serving repository")

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	srv.Stop(shutdownCtx)
	return nil
}
