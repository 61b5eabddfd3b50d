// Package httpapi exposes the control channel and snapshot view over HTTP.
// The body of POST /v1/message is exactly one control-channel message, the
// same JSON the pipe transport carries; the response is the resulting
// snapshot.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gaia-platform/access-control/internal/access/service"
)

// maxRequestBody caps control-message bodies.  The largest legitimate
// message is a scan record well under 1 KiB; 64 KiB is generous.
const maxRequestBody = 64 << 10

type Dependencies struct {
	Logger  *zap.Logger
	Addr    string
	Control *service.ControlService
}

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	control    *service.ControlService
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:  d.Logger,
		mux:     mux,
		control: d.Control,
	}

	mux.HandleFunc("POST /v1/message", s.handleMessage)
	mux.HandleFunc("GET /v1/snapshot", s.handleSnapshot)

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_body", "could not read request body")
		return
	}

	snap, err := s.control.HandleMessage(r.Context(), body)
	if err != nil {
		var jsonErr *json.SyntaxError
		if errors.As(err, &jsonErr) || errors.Is(err, io.ErrUnexpectedEOF) {
			writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
			return
		}
		s.logger.Error("message handling failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.control.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}
