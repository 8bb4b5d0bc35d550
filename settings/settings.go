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

// Package settings loads repository configuration from a YAML settings
// file organised in profiles.
//
// Example:
//
//	activeProfiles: [auth]
//	profiles:
//	  - id: auth
//	    repositories:
//	      - id: auth-repository
//	        url: http://localhost:12345/
//	        username: shrinkwrap
//	        password: ${env.REPO_PASSWORD}
package settings

import (
	"os"
	"regexp"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"oras.land/repoauth/errdef"
	"oras.land/repoauth/repository/remote"
	"oras.land/repoauth/repository/remote/credentials"
)

// Settings is the parsed settings file.
type Settings struct {
	ActiveProfiles []string  `yaml:"activeProfiles"`
	Profiles       []Profile `yaml:"profiles"`
}

// Profile groups repositories that are used together.
type Profile struct {
	ID           string       `yaml:"id"`
	Repositories []Repository `yaml:"repositories"`
}

// Repository is a single remote repository and its credential.
type Repository struct {
	ID       string `yaml:"id"`
	URL      string `yaml:"url"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

var envReference = regexp.MustCompile(`\$\{env\.([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads and parses the settings file at path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read settings")
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid settings file %s", path)
	}
	return s, nil
}

// Parse parses settings from YAML.
func Parse(data []byte) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	seen := make(map[string]struct{}, len(s.Profiles))
	for _, p := range s.Profiles {
		if p.ID == "" {
			return nil, errors.New("profile without id")
		}
		if _, ok := seen[p.ID]; ok {
			return nil, errors.Errorf("duplicate profile %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return &s, nil
}

// Profile returns the profile with the given id.
func (s *Settings) Profile(id string) (Profile, error) {
	for _, p := range s.Profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return Profile{}, errors.Wrapf(errdef.ErrMissingProfile, "profile %q", id)
}

// Endpoints returns the repositories of the given profiles, or of the active
// profiles when none is given, in declaration order.
func (s *Settings) Endpoints(profileIDs ...string) ([]remote.Endpoint, error) {
	if len(profileIDs) == 0 {
		profileIDs = s.ActiveProfiles
	}
	var endpoints []remote.Endpoint
	for _, id := range profileIDs {
		p, err := s.Profile(id)
		if err != nil {
			return nil, err
		}
		for _, repo := range p.Repositories {
			ep, err := repo.Endpoint()
			if err != nil {
				return nil, errors.Wrapf(err, "profile %q", id)
			}
			endpoints = append(endpoints, ep)
		}
	}
	return endpoints, nil
}

// Endpoint converts the repository into a remote endpoint. Environment
// references in the credential are expanded. A repository without username
// and password has no credential.
func (r Repository) Endpoint() (remote.Endpoint, error) {
	var cred *credentials.Credential
	if r.Username != "" || r.Password != "" {
		c := credentials.NewCredential(expandEnv(r.Username), expandEnv(r.Password))
		cred = &c
	}
	ep, err := remote.NewEndpoint(r.ID, r.URL, cred)
	if err != nil {
		return remote.Endpoint{}, errors.Wrapf(err, "repository %q", r.ID)
	}
	return ep, nil
}

// expandEnv replaces ${env.NAME} references with the value of the
// environment variable NAME. Unset variables expand to the empty string.
func expandEnv(s string) string {
	return envReference.ReplaceAllStringFunc(s, func(ref string) string {
		name := envReference.FindStringSubmatch(ref)[1]
		return os.Getenv(name)
	})
}
