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

package bravia

import (
	"fmt"
	"strings"
)

// ControlCode is an opaque IRCC token for one remote control button
type ControlCode string

// Endpoint is a path on the TV's HTTP server
type Endpoint string

// DeviceConfig identifies the TV and the pre-shared key used to talk to it.
// It is built once at startup and never modified.
type DeviceConfig struct {
	Address string `yaml:"address"`
	PSK     string `yaml:"psk"`
}

// AuthConfigured reports whether requests carry the X-Auth-PSK header
func (d DeviceConfig) AuthConfigured() bool {
	return d.PSK != ""
}

// URL builds the absolute URL of an endpoint on the TV
func (d DeviceConfig) URL(endpoint Endpoint) string {
	host := strings.TrimSuffix(d.Address, "/")
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host + string(endpoint)
	}
	return fmt.Sprintf("http://%s%s", host, endpoint)
}

// Reachability is the result of a single probe of the TV
type Reachability struct {
	Connected      bool   `json:"connected"`
	Address        string `json:"tv_ip"`
	AuthConfigured bool   `json:"psk_configured"`
	HTTPStatus     int    `json:"http_status,omitempty"`
	Error          string `json:"error,omitempty"`
}
