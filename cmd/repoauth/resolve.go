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
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"oras.land/repoauth"
	"oras.land/repoauth/progress"
	"oras.land/repoauth/repository"
	"oras.land/repoauth/repository/remote"
	"oras.land/repoauth/repository/remote/retry"
	"oras.land/repoauth/settings"
)

type resolveOptions struct {
	settings string
	profiles []string
	output   string
	retries  int
}

func resolveCmd() *cobra.Command {
	var opts resolveOptions
	cmd := &cobra.Command{
		Use:   "resolve <coordinate|path>...",
		Short: "Resolve artifacts from the repositories of a settings file",
		Long: `Resolve artifacts from the repositories of a settings file

Repositories are tried in order. A repository that asks for credentials,
rejects them, or does not have the artifact is skipped.

Example - resolve a coordinate using the active profiles:
  repoauth resolve --settings settings.yaml org.jboss.shrinkwrap.test:test-deps-i:1.0.0

Example - resolve a repository path using a given profile:
  repoauth resolve --settings settings.yaml --profile auth org/jboss/shrinkwrap/test/test-deps-i/1.0.0/test-deps-i-1.0.0.pom
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.settings, "settings", "s", "", "settings file listing the repositories")
	cmd.Flags().StringArrayVarP(&opts.profiles, "profile", "P", nil, "profile to use, the active profiles if not set")
	cmd.Flags().StringVarP(&opts.output, "output", "o", remote.DefaultDir, "directory resolved artifacts are written to")
	cmd.Flags().IntVar(&opts.retries, "retries", 0, "retries on throttling and server errors")
	_ = cmd.MarkFlagRequired("settings")
	return cmd
}

func runResolve(cmd *cobra.Command, opts resolveOptions, args []string) error {
	s, err := settings.Load(opts.settings)
	if err != nil {
		return err
	}
	endpoints, err := s.Endpoints(opts.profiles...)
	if err != nil {
		return err
	}

	reqs := make([]repository.ArtifactRequest, 0, len(args))
	for _, arg := range args {
		req, err := parseRequest(arg)
		if err != nil {
			return err
		}
		reqs = append(reqs, req)
	}

	resolver := remote.NewResolver(opts.output)
	resolver.Progress = progress.ManagerFunc(logProgress)
	if opts.retries > 0 {
		transport := retry.NewTransport(http.DefaultTransport.(*http.Transport).Clone())
		policy := retry.NewPolicy(opts.retries)
		transport.Policy = func() retry.Policy { return policy }
		resolver.Client = &http.Client{Transport: transport}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	outcomes, err := repoauth.ResolveAll(ctx, resolver, endpoints, reqs...)
	if err != nil {
		return errors.Wrap(err, "failed to resolve")
	}
	for _, outcome := range outcomes {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", outcome.Repository, outcome.Digest, outcome.Path)
	}
	return nil
}

// logProgress reports finished and failed downloads.
func logProgress(target progress.Target, status progress.Status, err error) error {
	entry := logrus.WithFields(logrus.Fields{
		"repository": target.Repository,
		"path":       target.Path,
	})
	switch status.State {
	case progress.StateTransmitted:
		entry.Debug("Download complete")
	case progress.StateFailed:
		entry.WithError(err).Warn("Download failed")
	}
	return nil
}

// parseRequest accepts a coordinate or a repository relative path.
func parseRequest(arg string) (repository.ArtifactRequest, error) {
	if strings.Contains(arg, "/") {
		return repository.NewArtifactRequest(arg), nil
	}
	c, err := repository.ParseCoordinate(arg)
	if err != nil {
		return repository.ArtifactRequest{}, err
	}
	return c.Request(), nil
}
