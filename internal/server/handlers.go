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

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"bravia-remote/internal/bravia"
	"bravia-remote/internal/remote"
)

// CommandRequest is the body of POST /api/command
type CommandRequest struct {
	Command string `json:"command"`
	Nonce   string `json:"nonce,omitempty"`
}

// Response helpers
func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, &remote.Response{
		Success: false,
		Error:   message,
	})
}

// statusFor maps a command outcome onto an HTTP status
func statusFor(resp *remote.Response) int {
	if resp.Success {
		return http.StatusOK
	}
	switch resp.Kind {
	case bravia.KindMissingParameter, bravia.KindUnknownCommand:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (api *APIServer) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest

	// An empty body is treated like {} so it reports the missing command
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		sendJSON(w, http.StatusBadRequest, &remote.Response{
			Success: false,
			Error:   "invalid JSON body",
			Kind:    bravia.KindMissingParameter,
		})
		return
	}

	if req.Nonce != "" && !ValidateNonce(req.Nonce) {
		sendError(w, http.StatusBadRequest, "invalid nonce format")
		return
	}

	if claims, ok := ClaimsFromContext(r.Context()); ok {
		api.logger.Debug().
			Str("request_id", RequestIDFromContext(r.Context())).
			Str("subject", claims.Subject).
			Str("command", req.Command).
			Msg("Authenticated command request")
	}

	result, replayed, err := api.nonceCache.Do(req.Nonce, req.Command, func() CachedResponse {
		resp := api.service.Execute(r.Context(), req.Command)
		return CachedResponse{Status: statusFor(resp), Response: resp}
	})
	if err != nil {
		sendError(w, http.StatusConflict, err.Error())
		return
	}
	if result.Response == nil {
		sendError(w, http.StatusInternalServerError, "command did not complete")
		return
	}
	if replayed {
		api.logger.Debug().
			Str("nonce", req.Nonce).
			Str("command", req.Command).
			Msg("Replaying response for repeated nonce")
	}

	sendJSON(w, result.Status, result.Response)
}

func (api *APIServer) handleCommands(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"commands": api.service.Commands(),
	})
}

func (api *APIServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, api.service.Reachability(r.Context()))
}

func (api *APIServer) handleKeymap(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"keys":   remote.KeyBindings(),
		"digits": "Num",
	})
}

func (api *APIServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Password == "" {
		sendError(w, http.StatusBadRequest, "password is required")
		return
	}

	token, err := api.auth.Login(req.Password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			api.logger.Error().Err(err).Msg("Login failed")
		}
		sendError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	sendJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (api *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"nonces": api.nonceCache.GetStats(),
	})
}
