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
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"bravia-remote/internal/config"
	"bravia-remote/internal/logger"
	"bravia-remote/internal/metrics"
	"bravia-remote/internal/remote"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// APIServer exposes the remote over HTTP and serves the web remote
type APIServer struct {
	service    *remote.Service
	auth       *AuthService
	nonceCache *NonceCache
	router     *mux.Router
	server     *http.Server
	logger     zerolog.Logger
}

// NewAPIServer creates a new API server and registers its routes
func NewAPIServer(service *remote.Service, cfg *config.Config) *APIServer {
	api := &APIServer{
		service:    service,
		auth:       NewAuthService(cfg.Auth),
		nonceCache: NewNonceCache(cfg.Server.NonceCacheSize, cfg.NonceTTL()),
		logger:     logger.With("server"),
	}
	api.router = api.routes()
	api.server = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return api
}

func (api *APIServer) routes() *mux.Router {
	router := mux.NewRouter()

	router.Use(requestIDMiddleware)
	router.Use(api.loggingMiddleware)
	router.Use(corsMiddleware)
	router.Use(metricsMiddleware)

	router.HandleFunc("/healthz", api.handleHealth).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	apiRouter := router.PathPrefix("/api").Subrouter()

	if api.auth.Enabled() {
		apiRouter.HandleFunc("/login", api.handleLogin).Methods("POST", "OPTIONS")
	}

	apiRouter.Handle("/command", api.auth.RequireAuth(http.HandlerFunc(api.handleCommand))).Methods("POST", "OPTIONS")
	apiRouter.Handle("/commands", api.auth.RequireAuth(http.HandlerFunc(api.handleCommands))).Methods("GET", "OPTIONS")
	apiRouter.Handle("/status", api.auth.RequireAuth(http.HandlerFunc(api.handleStatus))).Methods("GET", "OPTIONS")
	apiRouter.Handle("/keymap", api.auth.RequireAuth(http.HandlerFunc(api.handleKeymap))).Methods("GET", "OPTIONS")

	// Must be last to catch all non-API routes
	api.SetupWebApp(router)

	return router
}

// Handler returns the HTTP handler with every route and middleware attached
func (api *APIServer) Handler() http.Handler {
	return api.router
}

// Start listens on the configured address until Shutdown is called
func (api *APIServer) Start() error {
	listener, err := net.Listen("tcp", api.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", api.server.Addr, err)
	}
	return api.Serve(listener)
}

// Serve accepts connections on listener until Shutdown is called
func (api *APIServer) Serve(listener net.Listener) error {
	api.logger.Info().
		Str("address", listener.Addr().String()).
		Bool("auth", api.auth.Enabled()).
		Msg("Starting API server")

	if err := api.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (api *APIServer) Shutdown(ctx context.Context) error {
	api.logger.Info().Msg("Shutting down API server")
	api.nonceCache.Purge()
	return api.server.Shutdown(ctx)
}
