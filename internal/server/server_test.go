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
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bravia-remote/internal/bravia"
	"bravia-remote/internal/config"
	"bravia-remote/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTV answers IRCC and probe requests and counts IRCC calls
type fakeTV struct {
	server     *httptest.Server
	irccCalls  atomic.Int32
	irccStatus atomic.Int32
	irccDelay  atomic.Int64
}

func newFakeTV(t *testing.T) *fakeTV {
	tv := &fakeTV{}
	tv.irccStatus.Store(http.StatusOK)
	tv.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case string(bravia.IRCCEndpoint):
			tv.irccCalls.Add(1)
			time.Sleep(time.Duration(tv.irccDelay.Load()))
			w.WriteHeader(int(tv.irccStatus.Load()))
			io.WriteString(w, "<s:Envelope/>")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(tv.server.Close)
	return tv
}

func (tv *fakeTV) address() string {
	return strings.TrimPrefix(tv.server.URL, "http://")
}

func testConfig(address string) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Device.Address = address
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *APIServer {
	client := bravia.NewClient(cfg.Device)
	service := remote.NewService(bravia.DefaultCodeTable(), client, client)
	return NewAPIServer(service, cfg)
}

func do(t *testing.T, handler http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHandleCommand(t *testing.T) {
	tv := newFakeTV(t)
	handler := newTestServer(t, testConfig(tv.address())).Handler()

	t.Run("known command", func(t *testing.T) {
		before := tv.irccCalls.Load()
		rec := do(t, handler, "POST", "/api/command", `{"command":"Up"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"command":"Up"}`, rec.Body.String())
		assert.Equal(t, before+1, tv.irccCalls.Load())
	})

	t.Run("client errors never reach the TV", func(t *testing.T) {
		tests := []struct {
			name string
			body string
			kind bravia.ErrorKind
		}{
			{"missing field", `{}`, bravia.KindMissingParameter},
			{"empty command", `{"command":""}`, bravia.KindMissingParameter},
			{"empty body", ``, bravia.KindMissingParameter},
			{"invalid json", `{"command":`, bravia.KindMissingParameter},
			{"unknown command", `{"command":"Launch"}`, bravia.KindUnknownCommand},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				before := tv.irccCalls.Load()
				rec := do(t, handler, "POST", "/api/command", tt.body)

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				body := decode(t, rec)
				assert.Equal(t, false, body["success"])
				assert.Equal(t, string(tt.kind), body["kind"])
				assert.NotEmpty(t, body["error"])
				assert.Equal(t, before, tv.irccCalls.Load())
			})
		}
	})

	t.Run("device rejection is a server error", func(t *testing.T) {
		tv.irccStatus.Store(http.StatusForbidden)
		defer tv.irccStatus.Store(http.StatusOK)

		rec := do(t, handler, "POST", "/api/command", `{"command":"Mute"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "HTTP 403: Forbidden", body["error"])
		assert.Equal(t, string(bravia.KindRemoteRejected), body["kind"])
		assert.Equal(t, "<s:Envelope/>", body["details"])
	})
}

func TestHandleCommand_TransportFailure(t *testing.T) {
	tv := newFakeTV(t)
	address := tv.address()
	tv.server.Close()

	handler := newTestServer(t, testConfig(address)).Handler()
	rec := do(t, handler, "POST", "/api/command", `{"command":"Home"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, string(bravia.KindTransportError), body["kind"])
}

func TestHandleCommand_NonceReplay(t *testing.T) {
	tv := newFakeTV(t)
	handler := newTestServer(t, testConfig(tv.address())).Handler()

	body := `{"command":"VolumeUp","nonce":"1700000000000-a1b2c3d4"}`
	first := do(t, handler, "POST", "/api/command", body)
	second := do(t, handler, "POST", "/api/command", body)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Code, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), tv.irccCalls.Load())

	other := do(t, handler, "POST", "/api/command", `{"command":"VolumeUp","nonce":"1700000000001-a1b2c3d4"}`)
	assert.Equal(t, http.StatusOK, other.Code)
	assert.Equal(t, int32(2), tv.irccCalls.Load())

	bad := do(t, handler, "POST", "/api/command", `{"command":"VolumeUp","nonce":"again"}`)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Equal(t, int32(2), tv.irccCalls.Load())
}

func TestHandleCommand_ConcurrentNonce(t *testing.T) {
	tv := newFakeTV(t)
	tv.irccDelay.Store(int64(200 * time.Millisecond))
	handler := newTestServer(t, testConfig(tv.address())).Handler()

	body := `{"command":"VolumeUp","nonce":"1700000000000-deadbeef"}`
	recs := make([]*httptest.ResponseRecorder, 4)

	var wg sync.WaitGroup
	for i := range recs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			recs[i] = do(t, handler, "POST", "/api/command", body)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), tv.irccCalls.Load())
	for _, rec := range recs {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"command":"VolumeUp"}`, rec.Body.String())
	}
}

func TestHandleCommand_NonceReusedForOtherCommand(t *testing.T) {
	tv := newFakeTV(t)
	handler := newTestServer(t, testConfig(tv.address())).Handler()

	first := do(t, handler, "POST", "/api/command", `{"command":"VolumeUp","nonce":"1700000000000-deadbeef"}`)
	require.Equal(t, http.StatusOK, first.Code)

	rec := do(t, handler, "POST", "/api/command", `{"command":"Mute","nonce":"1700000000000-deadbeef"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, ErrNonceReused.Error(), body["error"])
	assert.Equal(t, int32(1), tv.irccCalls.Load())
}

func TestAPIServer_StartShutdown(t *testing.T) {
	tv := newFakeTV(t)
	cfg := testConfig(tv.address())
	cfg.Server.Address = "127.0.0.1:0"
	api := newTestServer(t, cfg)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- api.Serve(listener)
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, api.Shutdown(ctx))
	assert.NoError(t, <-done)
}

func TestAPIServer_ShutdownBeforeStart(t *testing.T) {
	cfg := testConfig("tv")
	cfg.Server.Address = "127.0.0.1:0"
	api := newTestServer(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- api.Start()
	}()
	require.NoError(t, api.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server kept running after shutdown")
	}
}

func TestHandleCommands(t *testing.T) {
	handler := newTestServer(t, testConfig("127.0.0.1:1")).Handler()

	rec := do(t, handler, "GET", "/api/commands", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Commands []string `json:"commands"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, bravia.DefaultCodeTable().Commands(), body.Commands)
}

func TestHandleStatus(t *testing.T) {
	tv := newFakeTV(t)
	cfg := testConfig(tv.address())
	cfg.Device.PSK = "0000"
	handler := newTestServer(t, cfg).Handler()

	rec := do(t, handler, "GET", "/api/status", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["connected"])
	assert.Equal(t, tv.address(), body["tv_ip"])
	assert.Equal(t, true, body["psk_configured"])
	assert.Equal(t, float64(http.StatusNotFound), body["http_status"])
	assert.NotContains(t, body, "error")
}

func TestHandleStatus_Unreachable(t *testing.T) {
	tv := newFakeTV(t)
	address := tv.address()
	tv.server.Close()

	rec := do(t, newTestServer(t, testConfig(address)).Handler(), "GET", "/api/status", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["connected"])
	assert.Equal(t, false, body["psk_configured"])
	assert.NotEmpty(t, body["error"])
}

func TestHandleKeymap(t *testing.T) {
	rec := do(t, newTestServer(t, testConfig("tv")).Handler(), "GET", "/api/keymap", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Keys []remote.KeyBinding `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, remote.KeyBindings()[0].Key, body.Keys[0].Key)
	assert.Len(t, body.Keys, len(remote.KeyBindings()))
}

func TestMiddleware(t *testing.T) {
	handler := newTestServer(t, testConfig("tv")).Handler()

	t.Run("request id is generated", func(t *testing.T) {
		rec := do(t, handler, "GET", "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, rec.Header().Get(HeaderRequestID), 36)
	})

	t.Run("request id is echoed", func(t *testing.T) {
		rec := do(t, handler, "GET", "/healthz", "", HeaderRequestID, "abc-123")
		assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
	})

	t.Run("cors preflight", func(t *testing.T) {
		for _, path := range []string{"/api/command", "/api/commands", "/api/status", "/api/keymap"} {
			rec := do(t, handler, "OPTIONS", path, "")
			assert.Equal(t, http.StatusOK, rec.Code, path)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), path)
		}
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		do(t, handler, "GET", "/api/commands", "")
		rec := do(t, handler, "GET", "/metrics", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "bravia_remote_http_requests_total")
	})
}

func TestWebApp(t *testing.T) {
	handler := newTestServer(t, testConfig("tv")).Handler()

	rec := do(t, handler, "GET", "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bravia Remote")

	rec = do(t, handler, "GET", "/app.js", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/command")

	rec = do(t, handler, "GET", "/api/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
