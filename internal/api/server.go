// Package api exposes the simulated light state for observation: a JSON
// snapshot of the rooms, a health check, and a WebSocket stream of decision
// events. It never controls anything.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lighttimer/internal/rooms"

	"go.uber.org/zap"
)

// Server provides the HTTP status endpoints.
type Server struct {
	house  *rooms.House
	hub    *Hub
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a status server listening on addr.
func NewServer(house *rooms.House, hub *Hub, logger *zap.Logger, addr string) *Server {
	s := &Server{
		house:  house,
		hub:    hub,
		logger: logger.Named("api"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/rooms", s.handleRooms)
	mux.HandleFunc("/api/events", s.hub.handleEvents)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// RoomsResponse is the JSON body of /api/rooms.
type RoomsResponse struct {
	Rooms []rooms.Room `json:"rooms"`
}

// handleRooms returns the current light state of every room.
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := RoomsResponse{Rooms: s.house.Snapshot()}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.logger.Debug("Rooms request served", zap.String("remote_addr", r.RemoteAddr))
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start begins serving HTTP requests in the background.
func (s *Server) Start() error {
	s.logger.Info("Starting status API server", zap.String("addr", s.server.Addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.logger.Info("Stopping status API server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.hub.closeAll()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	return nil
}
