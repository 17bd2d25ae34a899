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
	"bytes"
	"encoding/xml"
	"fmt"
)

const envelopeTemplate = `<?xml version="1.0"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">
  <s:Body>
    <u:X_SendIRCC xmlns:u="urn:schemas-sony-com:service:IRCC:1">
      <IRCCCode>%s</IRCCCode>
    </u:X_SendIRCC>
  </s:Body>
</s:Envelope>`

// BuildEnvelope returns the SOAP body for an X_SendIRCC call
func BuildEnvelope(code ControlCode) []byte {
	var escaped bytes.Buffer
	// EscapeText only fails when the writer does; bytes.Buffer never does
	_ = xml.EscapeText(&escaped, []byte(code))

	return []byte(fmt.Sprintf(envelopeTemplate, escaped.String()))
}
