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

import "time"

// Remote Control Codes for Sony Bravia TVs
const (
	// Power Controls
	PowerButton ControlCode = "AAAAAQAAAAEAAAAVAw=="
	PowerOff    ControlCode = "AAAAAQAAAAEAAAAvAw=="
	PowerOn     ControlCode = "AAAAAQAAAAEAAAAuAw=="

	// Number Keys
	Num1 ControlCode = "AAAAAQAAAAEAAAAAAw=="
	Num2 ControlCode = "AAAAAQAAAAEAAAABAw=="
	Num3 ControlCode = "AAAAAQAAAAEAAAACAw=="
	Num4 ControlCode = "AAAAAQAAAAEAAAADAw=="
	Num5 ControlCode = "AAAAAQAAAAEAAAAEAw=="
	Num6 ControlCode = "AAAAAQAAAAEAAAAFAw=="
	Num7 ControlCode = "AAAAAQAAAAEAAAAGAw=="
	Num8 ControlCode = "AAAAAQAAAAEAAAAHAw=="
	Num9 ControlCode = "AAAAAQAAAAEAAAAIAw=="
	Num0 ControlCode = "AAAAAQAAAAEAAAAJAw=="

	// Navigation Controls
	Up      ControlCode = "AAAAAQAAAAEAAAB0Aw=="
	Down    ControlCode = "AAAAAQAAAAEAAAB1Aw=="
	Left    ControlCode = "AAAAAQAAAAEAAAA0Aw=="
	Right   ControlCode = "AAAAAQAAAAEAAAAzAw=="
	Confirm ControlCode = "AAAAAQAAAAEAAABlAw=="
	Return  ControlCode = "AAAAAgAAAJcAAAAjAw=="
	Home    ControlCode = "AAAAAQAAAAEAAABgAw=="

	// Volume Controls
	VolumeUp   ControlCode = "AAAAAQAAAAEAAAASAw=="
	VolumeDown ControlCode = "AAAAAQAAAAEAAAATAw=="
	Mute       ControlCode = "AAAAAQAAAAEAAAAUAw=="

	// Channel Controls
	ChannelUp   ControlCode = "AAAAAQAAAAEAAAAQAw=="
	ChannelDown ControlCode = "AAAAAQAAAAEAAAARAw=="

	// Playback Controls
	Play  ControlCode = "AAAAAgAAAJcAAAAaAw=="
	Pause ControlCode = "AAAAAgAAAJcAAAAZAw=="
	Stop  ControlCode = "AAAAAgAAAJcAAAAYAw=="

	// Misc
	Input      ControlCode = "AAAAAQAAAAEAAAAlAw=="
	Guide      ControlCode = "AAAAAgAAAKQAAABbAw=="
	Options    ControlCode = "AAAAAgAAAJcAAAA2Aw=="
	Display    ControlCode = "AAAAAQAAAAEAAAA6Aw=="
	Netflix    ControlCode = "AAAAAgAAABoAAAB8Aw=="
	ActionMenu ControlCode = "AAAAAgAAAMQAAABLAw=="
)

// Endpoints on the TV
const (
	IRCCEndpoint  Endpoint = "/sony/IRCC"
	ProbeEndpoint Endpoint = "/sony/"
)

// IRCC protocol headers
const (
	HeaderAuthPSK    = "X-Auth-PSK"
	HeaderSOAPAction = "SOAPACTION"

	irccContentType = "text/xml; charset=UTF-8"
	irccSOAPAction  = `"urn:schemas-sony-com:service:IRCC:1#X_SendIRCC"`
)

const (
	DefaultCommandTimeout = 5 * time.Second
	DefaultProbeTimeout   = 2 * time.Second
)
