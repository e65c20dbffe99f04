// internal/bridge/server.go
package bridge

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/user/eliteos/internal/state"
)

// maxBodyBytes bounds an invocation body. Screenshot bytes arrive as JSON
// number arrays, which inflate a file roughly fourfold.
const maxBodyBytes = 256 << 20

// Server is the local HTTP surface for the command registry.
type Server struct {
	registry *Registry
	token    string
	mux      *http.ServeMux
}

// NewServer creates a Server dispatching into registry. When token is
// non-empty, /commands and /invoke require "Authorization: Bearer <token>".
func NewServer(registry *Registry, token string) *Server {
	s := &Server{
		registry: registry,
		token:    token,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /commands", s.authorized(s.handleCommands))
	s.mux.HandleFunc("POST /invoke/{command}", s.authorized(s.handleInvoke))
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	if s.token == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Code: CodeUnauthorized})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Names())
}

type errorResponse struct {
	Error string     `json:"error"`
	Code  state.Code `json:"code"`
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("command")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large", Code: CodeInvalidArgs})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "read request body", Code: CodeInvalidArgs})
		return
	}
	if len(body) > 0 && !json.Valid(body) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON", Code: CodeInvalidArgs})
		return
	}

	result, err := s.registry.Dispatch(r.Context(), name, body)
	if err != nil {
		code := CodeOf(err)
		status := statusFor(code)
		if status == http.StatusInternalServerError {
			slog.Error("bridge invoke failed", "command", name, "error", err)
		}
		writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func statusFor(code state.Code) int {
	switch code {
	case CodeInvalidArgs, state.CodeInvalidPath:
		return http.StatusBadRequest
	case CodeUnknownCommand, state.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("bridge response encode failed", "error", err)
	}
}
