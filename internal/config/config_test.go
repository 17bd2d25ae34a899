// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the variables Load looks at for the duration of the test
func clearEnv(t *testing.T) {
	for _, key := range []string{EnvTVAddress, EnvTVPSK, EnvPort, EnvLogLevel} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTVAddress, "192.168.1.50")
	t.Setenv(EnvTVPSK, "0000")
	t.Setenv(EnvPort, "8080")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.50", cfg.Device.Address)
	assert.Equal(t, "0000", cfg.Device.PSK)
	assert.True(t, cfg.Device.AuthConfigured())
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.CommandTimeout())
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout())
	assert.Equal(t, 30*time.Second, cfg.PollInterval())
	assert.False(t, cfg.AuthEnabled())
}

func TestLoad_MissingAddressIsFatal(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device.address is required")
	assert.Contains(t, err.Error(), EnvTVAddress)
}

func TestLoad_FromYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "remote.yml", `
device:
  address: tv.lan
  psk: abcd
server:
  address: "127.0.0.1:9000"
  poll_interval: 10s
timeouts:
  command: 3s
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tv.lan", cfg.Device.Address)
	assert.Equal(t, "abcd", cfg.Device.PSK)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.PollInterval())
	assert.Equal(t, 3*time.Second, cfg.CommandTimeout())
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout())
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTVAddress, "10.0.0.9")
	path := writeFile(t, "remote.yml", "device:\n  address: tv.lan\n  psk: abcd\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.9", cfg.Device.Address)
	assert.Equal(t, "abcd", cfg.Device.PSK)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad duration":   "device:\n  address: tv\ntimeouts:\n  command: soon\n",
		"negative probe": "device:\n  address: tv\ntimeouts:\n  probe: -1s\n",
		"bad level":      "device:\n  address: tv\nlogging:\n  level: loud\n",
		"bad format":     "device:\n  address: tv\nlogging:\n  format: xml\n",
		"short jwt":      "device:\n  address: tv\nauth:\n  password_hash: x\n  jwt_secret: short\n",
		"malformed yaml": "device: [",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeFile(t, "remote.yml", content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadEnvFiles(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, ".env", "TV_IP=172.16.0.4\nTV_PSK=1234\n")

	require.NoError(t, LoadEnvFiles(filepath.Join(t.TempDir(), "missing.env"), path))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "172.16.0.4", cfg.Device.Address)
	assert.Equal(t, "1234", cfg.Device.PSK)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	cfg := NewDefaultConfig()
	cfg.Device.Address = "tv.lan"
	path := filepath.Join(t.TempDir(), "out.yml")

	require.NoError(t, Save(cfg, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "address: tv.lan"))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Device, loaded.Device)
}
