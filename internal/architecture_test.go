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

package internal

import (
	"testing"

	"github.com/kcmvp/archunit"
)

func TestArchitecture(t *testing.T) {
	device := archunit.Packages("device", []string{".../internal/bravia"})
	service := archunit.Packages("service", []string{".../internal/remote"})
	transport := archunit.Packages("transport", []string{".../internal/server"})
	configuration := archunit.Packages("configuration", []string{".../internal/config"})
	commands := archunit.Packages("commands", []string{".../cmd/..."})

	// The device client knows nothing about the layers built on it
	if err := device.ShouldNotReferLayers(service); err != nil {
		t.Errorf("Architecture violation: bravia depends on remote: %v", err)
	}
	if err := device.ShouldNotReferLayers(transport); err != nil {
		t.Errorf("Architecture violation: bravia depends on server: %v", err)
	}
	if err := device.ShouldNotReferLayers(configuration); err != nil {
		t.Errorf("Architecture violation: bravia depends on config: %v", err)
	}
	if err := device.ShouldNotReferLayers(commands); err != nil {
		t.Errorf("Architecture violation: bravia depends on cmd: %v", err)
	}

	if err := service.ShouldNotReferLayers(transport); err != nil {
		t.Errorf("Architecture violation: remote depends on server: %v", err)
	}
	if err := service.ShouldNotReferLayers(commands); err != nil {
		t.Errorf("Architecture violation: remote depends on cmd: %v", err)
	}

	if err := transport.ShouldNotReferLayers(commands); err != nil {
		t.Errorf("Architecture violation: server depends on cmd: %v", err)
	}
}

func TestLayersPresent(t *testing.T) {
	for _, pattern := range []string{".../internal/bravia", ".../internal/remote", ".../internal/server"} {
		layer := archunit.Packages(pattern, []string{pattern})
		if len(layer.Packages()) == 0 {
			t.Errorf("no package matches %s", pattern)
		}
	}
}
