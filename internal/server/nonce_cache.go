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
	"errors"
	"strings"
	"sync"
	"time"

	"bravia-remote/internal/remote"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrNonceReused is returned when a nonce comes back with another command
var ErrNonceReused = errors.New("nonce already used for a different command")

// CachedResponse is a command outcome replayed for a repeated nonce
type CachedResponse struct {
	Command  string
	Status   int
	Response *remote.Response
}

// inflight is a command still waiting on the TV; duplicates block on done
type inflight struct {
	command string
	done    chan struct{}
	result  CachedResponse
}

// NonceCache remembers recent command responses by client nonce, so a
// double-tapped or retried button press is answered without sending the
// IR code to the TV a second time.
type NonceCache struct {
	mu         sync.Mutex
	cache      *expirable.LRU[string, CachedResponse]
	pending    map[string]*inflight
	maxSize    int
	expiration time.Duration
}

// NewNonceCache creates a new nonce cache
func NewNonceCache(maxSize int, expiration time.Duration) *NonceCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	if expiration <= 0 {
		expiration = 5 * time.Minute
	}

	return &NonceCache{
		cache:      expirable.NewLRU[string, CachedResponse](maxSize, nil, expiration),
		pending:    make(map[string]*inflight),
		maxSize:    maxSize,
		expiration: expiration,
	}
}

// Do runs execute at most once per nonce. A repeat of a finished or
// in-flight nonce gets the first outcome back with replayed set; a repeat
// naming another command fails with ErrNonceReused. An empty nonce always
// runs execute.
func (nc *NonceCache) Do(nonce, command string, execute func() CachedResponse) (result CachedResponse, replayed bool, err error) {
	if nonce == "" {
		return execute(), false, nil
	}

	nc.mu.Lock()
	if cached, found := nc.cache.Get(nonce); found {
		nc.mu.Unlock()
		if cached.Command != command {
			return CachedResponse{}, false, ErrNonceReused
		}
		return cached, true, nil
	}
	if call, found := nc.pending[nonce]; found {
		nc.mu.Unlock()
		if call.command != command {
			return CachedResponse{}, false, ErrNonceReused
		}
		<-call.done
		return call.result, true, nil
	}

	call := &inflight{command: command, done: make(chan struct{})}
	nc.pending[nonce] = call
	nc.mu.Unlock()

	defer func() {
		nc.mu.Lock()
		if call.result.Response != nil {
			nc.cache.Add(nonce, call.result)
		}
		delete(nc.pending, nonce)
		nc.mu.Unlock()
		close(call.done)
	}()

	call.result = execute()
	call.result.Command = command
	return call.result, false, nil
}

// Len returns the number of finished entries
func (nc *NonceCache) Len() int {
	return nc.cache.Len()
}

// Purge drops every finished entry
func (nc *NonceCache) Purge() {
	nc.cache.Purge()
}

// GetStats returns cache statistics
func (nc *NonceCache) GetStats() map[string]interface{} {
	nc.mu.Lock()
	inFlight := len(nc.pending)
	nc.mu.Unlock()

	return map[string]interface{}{
		"total_nonces": nc.cache.Len(),
		"in_flight":    inFlight,
		"max_size":     nc.maxSize,
		"expiration":   nc.expiration.String(),
	}
}

// ValidateNonce checks the "<unix ms>-<8 hex>" shape the web remote sends
func ValidateNonce(nonce string) bool {
	timestampPart, randomPart, found := strings.Cut(nonce, "-")
	if !found || strings.Contains(randomPart, "-") {
		return false
	}

	// Unix time in milliseconds is 13+ digits
	if len(timestampPart) < 13 {
		return false
	}
	for _, c := range timestampPart {
		if c < '0' || c > '9' {
			return false
		}
	}

	if len(randomPart) != 8 {
		return false
	}
	for _, c := range randomPart {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}

	return true
}
