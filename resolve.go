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

// Package repoauth resolves artifacts from an ordered list of remote
// repositories, each accessed with its own credential.
package repoauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"oras.land/repoauth/errdef"
	"oras.land/repoauth/repository"
	"oras.land/repoauth/repository/remote"
)

// defaultConcurrency is the number of requests ResolveAll resolves at once.
const defaultConcurrency = 4

// Resolve tries the endpoints in order and returns the first Resolved
// outcome.
// Unauthorized, Forbidden and NotFound outcomes move on to the next
// endpoint. A TransportError stops the pipeline and is returned as a
// *TransportFailure. If no endpoint resolves the request, the returned error
// matches errdef.ErrNoResolvedResult and carries an *errdef.ResolutionError
// per rejecting endpoint.
func Resolve(ctx context.Context, resolver *remote.Resolver, endpoints []remote.Endpoint, req repository.ArtifactRequest) (remote.Outcome, error) {
	logger := pipelineLogger(resolver).WithField("path", req.RelativePath)
	var rejections []error
	for _, endpoint := range endpoints {
		if err := ctx.Err(); err != nil {
			return remote.Outcome{}, err
		}
		outcome := resolver.Resolve(ctx, endpoint, req)
		switch outcome.Kind {
		case remote.Resolved:
			return outcome, nil
		case remote.Unauthorized, remote.Forbidden, remote.NotFound:
			logger.WithFields(logrus.Fields{
				"repository": outcome.Repository,
				"outcome":    outcome.Kind,
			}).Info("Repository did not provide artifact, trying next")
			rejections = append(rejections, errdef.NewResolutionError(outcome.Repository, req.RelativePath, outcome.Err()))
		default:
			return outcome, newTransportFailure(outcome)
		}
	}
	if len(rejections) == 0 {
		return remote.Outcome{}, fmt.Errorf("%s: no repository configured: %w", req.RelativePath, errdef.ErrNoResolvedResult)
	}
	return remote.Outcome{}, fmt.Errorf("%s: %w\n%w", req.RelativePath, errdef.ErrNoResolvedResult, errors.Join(rejections...))
}

// ResolveCoordinate parses a groupId:artifactId[:extension[:classifier]]:version
// coordinate and resolves it through Resolve.
func ResolveCoordinate(ctx context.Context, resolver *remote.Resolver, endpoints []remote.Endpoint, coordinate string) (remote.Outcome, error) {
	c, err := repository.ParseCoordinate(coordinate)
	if err != nil {
		return remote.Outcome{}, err
	}
	return Resolve(ctx, resolver, endpoints, c.Request())
}

// ResolveAll resolves the requests concurrently, each through Resolve, and
// returns the outcomes in request order. The first failure cancels the
// remaining requests and is returned.
func ResolveAll(ctx context.Context, resolver *remote.Resolver, endpoints []remote.Endpoint, reqs ...repository.ArtifactRequest) ([]remote.Outcome, error) {
	outcomes := make([]remote.Outcome, len(reqs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(defaultConcurrency)
	for i, req := range reqs {
		i, req := i, req
		eg.Go(func() error {
			outcome, err := Resolve(egCtx, resolver, endpoints, req)
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func pipelineLogger(resolver *remote.Resolver) logrus.FieldLogger {
	if resolver.Logger != nil {
		return resolver.Logger
	}
	return logrus.StandardLogger()
}
