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

package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oras.land/repoauth/errdef"
)

const testSettings = `
activeProfiles: [auth]
profiles:
  - id: auth
    repositories:
      - id: auth-repository
        url: http://localhost:12345/
        username: shrinkwrap
        password: ${env.REPOAUTH_TEST_PASSWORD}
  - id: public
    repositories:
      - id: central
        url: https://repo.example.com/maven2
      - id: mirror
        url: https://mirror.example.com/maven2/
        username: reader
`

func TestParse_Endpoints(t *testing.T) {
	t.Setenv("REPOAUTH_TEST_PASSWORD", "shrinkwrap")
	s, err := Parse([]byte(testSettings))
	require.NoError(t, err)

	endpoints, err := s.Endpoints()
	require.NoError(t, err)
	require.Len(t, endpoints, 1)
	ep := endpoints[0]
	assert.Equal(t, "auth-repository", ep.ID)
	assert.Equal(t, "http://localhost:12345/", ep.BaseURL.String())
	require.NotNil(t, ep.Credential)
	assert.Equal(t, "shrinkwrap", ep.Credential.Username)
	assert.Equal(t, "shrinkwrap", ep.Credential.Password)
}

func TestParse_EndpointsOfProfiles(t *testing.T) {
	s, err := Parse([]byte(testSettings))
	require.NoError(t, err)

	endpoints, err := s.Endpoints("public", "auth")
	require.NoError(t, err)
	require.Len(t, endpoints, 3)
	assert.Equal(t, "central", endpoints[0].ID)
	assert.Equal(t, "https://repo.example.com/maven2/", endpoints[0].BaseURL.String())
	assert.Nil(t, endpoints[0].Credential)
	assert.Equal(t, "mirror", endpoints[1].ID)
	require.NotNil(t, endpoints[1].Credential)
	assert.Equal(t, "reader", endpoints[1].Credential.Username)
	assert.Empty(t, endpoints[1].Credential.Password)
	assert.Equal(t, "auth-repository", endpoints[2].ID)
}

func TestSettings_MissingProfile(t *testing.T) {
	s, err := Parse([]byte(testSettings))
	require.NoError(t, err)

	_, err = s.Endpoints("unknown")
	assert.ErrorIs(t, err, errdef.ErrMissingProfile)
}

func TestSettings_InvalidRepository(t *testing.T) {
	s, err := Parse([]byte(`
profiles:
  - id: broken
    repositories:
      - id: local
        url: file:///srv/repo
`))
	require.NoError(t, err)

	_, err = s.Endpoints("broken")
	assert.ErrorIs(t, err, errdef.ErrInvalidEndpoint)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed yaml", data: "profiles: [\n"},
		{name: "profile without id", data: "profiles:\n  - repositories: []\n"},
		{name: "duplicate profile", data: "profiles:\n  - id: a\n  - id: a\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSettings), 0600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"auth"}, s.ActiveProfiles)
	assert.Len(t, s.Profiles, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func Test_expandEnv(t *testing.T) {
	t.Setenv("REPOAUTH_TEST_USER", "alice")
	assert.Equal(t, "alice", expandEnv("${env.REPOAUTH_TEST_USER}"))
	assert.Equal(t, "pre-alice-post", expandEnv("pre-${env.REPOAUTH_TEST_USER}-post"))
	assert.Equal(t, "plain", expandEnv("plain"))
	assert.Equal(t, "$HOME", expandEnv("$HOME"))
	assert.Equal(t, "", expandEnv("${env.REPOAUTH_TEST_UNSET_VARIABLE}"))
}
