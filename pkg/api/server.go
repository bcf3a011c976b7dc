/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package api serves a read-only HTTP view of provisioning state.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/carverauto/lightpath/pkg/logger"
	"github.com/carverauto/lightpath/pkg/models"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

var errServerStarted = errors.New("api server already started")

// RegistryReader looks up the packet intent holding a (src, dst) pair.
type RegistryReader interface {
	Owner(ctx context.Context, src, dst models.ConnectPoint) (models.IntentKey, bool, error)
}

// IntentStateReader reports intent lifecycle states.
type IntentStateReader interface {
	GetIntentState(ctx context.Context, key models.IntentKey) (models.IntentState, error)
}

// PortReader reports which intent has reserved a port.
type PortReader interface {
	PortOwner(ctx context.Context, port models.ConnectPoint) (models.IntentID, bool, error)
}

// DeviceLister lists the devices of the loaded topology.
type DeviceLister interface {
	Devices() []models.DeviceID
}

// Dependencies are the state sources the server reads from.
type Dependencies struct {
	Registry RegistryReader
	Intents  IntentStateReader
	Ports    PortReader
	Devices  DeviceLister
}

// Server is the HTTP status server.
type Server struct {
	addr    string
	deps    Dependencies
	version string
	router  *mux.Router
	logger  logger.Logger

	mu  sync.Mutex
	srv *http.Server
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// NewServer returns a server that will listen on addr.
func NewServer(addr, version string, deps Dependencies, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewTestLogger()
	}

	s := &Server{
		addr:    addr,
		deps:    deps,
		version: version,
		router:  mux.NewRouter(),
		logger:  log.WithComponent("api"),
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)
	v1.HandleFunc("/devices", s.handleDevices).Methods(http.MethodGet)
	v1.HandleFunc("/registry", s.handleRegistryOwner).Methods(http.MethodGet).
		Queries("src", "{src}", "dst", "{dst}")
	v1.HandleFunc("/intents/{key}/state", s.handleIntentState).Methods(http.MethodGet)
	v1.HandleFunc("/ports/{device}/{port}", s.handlePortOwner).Methods(http.MethodGet)
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving in the background.
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return errServerStarted
	}

	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.srv = &http.Server{
		Handler:      s.router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	go func(srv *http.Server) {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("API server stopped")
		}
	}(s.srv)

	s.logger.Info().Str("addr", lis.Addr().String()).Msg("API server listening")

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}

func (*Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

func (s *Server) handleDevices(w http.ResponseWriter, _ *http.Request) {
	if s.deps.Devices == nil {
		writeError(w, "topology unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]models.DeviceID{"devices": s.deps.Devices.Devices()})
}

func (s *Server) handleRegistryOwner(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	src, err := models.ParseConnectPoint(vars["src"])
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	dst, err := models.ParseConnectPoint(vars["dst"])
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	owner, ok, err := s.deps.Registry.Owner(r.Context(), src, dst)
	if err != nil {
		s.logger.Error().Err(err).Msg("Registry lookup failed")
		writeError(w, "registry lookup failed", http.StatusInternalServerError)

		return
	}

	if !ok {
		writeError(w, "pair is not claimed", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"src":   src.String(),
		"dst":   dst.String(),
		"owner": string(owner),
	})
}

func (s *Server) handleIntentState(w http.ResponseWriter, r *http.Request) {
	key := models.IntentKey(mux.Vars(r)["key"])

	state, err := s.deps.Intents.GetIntentState(r.Context(), key)
	if errors.Is(err, models.ErrIntentNotFound) {
		writeError(w, "intent not found", http.StatusNotFound)
		return
	}

	if err != nil {
		s.logger.Error().Err(err).Str("key", string(key)).Msg("Intent state lookup failed")
		writeError(w, "intent state lookup failed", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": string(key), "state": string(state)})
}

func (s *Server) handlePortOwner(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	port, err := models.ParseConnectPoint(vars["device"] + "/" + vars["port"])
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	owner, ok, err := s.deps.Ports.PortOwner(r.Context(), port)
	if err != nil {
		s.logger.Error().Err(err).Str("port", port.String()).Msg("Port lookup failed")
		writeError(w, "port lookup failed", http.StatusInternalServerError)

		return
	}

	if !ok {
		writeError(w, "port is not reserved", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"port": port.String(), "intent_id": string(owner)})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, ErrorResponse{Message: message, Status: status})
}
