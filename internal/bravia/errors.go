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
	"errors"
	"fmt"
)

// ErrorKind classifies why a remote control call failed
type ErrorKind string

const (
	// KindMissingParameter: the caller did not name a command
	KindMissingParameter ErrorKind = "MissingParameter"
	// KindUnknownCommand: the command is not in the code table
	KindUnknownCommand ErrorKind = "UnknownCommand"
	// KindRemoteRejected: the TV answered with a non-2xx status
	KindRemoteRejected ErrorKind = "RemoteRejected"
	// KindTransportError: no response was obtained at all
	KindTransportError ErrorKind = "TransportError"
)

// Error is a classified failure. Details holds the TV's response body for
// KindRemoteRejected and is empty otherwise.
type Error struct {
	Kind       ErrorKind
	Message    string
	Details    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newTransportError(err error) *Error {
	return &Error{
		Kind:    KindTransportError,
		Message: err.Error(),
		Err:     err,
	}
}

func newRemoteRejected(status int, statusText string, body []byte) *Error {
	return &Error{
		Kind:       KindRemoteRejected,
		Message:    fmt.Sprintf("HTTP %d: %s", status, statusText),
		Details:    string(body),
		StatusCode: status,
	}
}

// KindOf returns the kind of a classified error, or "" for anything else
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
