package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/fxnlabs/device-runtime/internal/config"
	"github.com/fxnlabs/device-runtime/internal/device"
	"github.com/fxnlabs/device-runtime/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Server exposes the device manager over HTTP.
type Server struct {
	cfg    *config.Config
	mgr    *device.Manager
	logger *zap.Logger

	srv      *http.Server
	listener net.Listener
	serveErr chan error
}

// New creates a server. It does not listen until Start is called.
func New(cfg *config.Config, mgr *device.Manager, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		mgr:    mgr,
		logger: logger.Named("server"),
	}
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}
	return s
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.Handle(pattern, metrics.Middleware(h, endpoint))
	}
	handle("GET /devices", "/devices", s.handleDevices)
	handle("GET /devices/count", "/devices/count", s.handleCount)
	handle("GET /devices/current", "/devices/current", s.handleGetCurrent)
	handle("PUT /devices/current", "/devices/current", s.handleSetCurrent)
	handle("GET /healthz", "/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.cfg.Metrics.Enabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	return mux
}

// Start binds the listen address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.ListenAddr())
	if err != nil {
		return err
	}
	s.listener = ln
	s.serveErr = make(chan error, 1)
	s.logger.Info("Starting server on", zap.String("address", ln.Addr().String()))

	go func() {
		err := s.srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.serveErr <- err
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting for in-flight requests until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	if s.listener == nil {
		return nil
	}
	err := s.srv.Shutdown(ctx)
	select {
	case serveErr := <-s.serveErr:
		err = multierr.Append(err, serveErr)
	case <-ctx.Done():
		err = multierr.Append(err, ctx.Err())
	}
	s.logger.Info("server stopped")
	return err
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	info, err := s.mgr.Info()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.mgr.DeviceCount()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (s *Server) handleGetCurrent(w http.ResponseWriter, r *http.Request) {
	id, err := s.mgr.GetDevice()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, currentDevice{Device: &id})
}

func (s *Server) handleSetCurrent(w http.ResponseWriter, r *http.Request) {
	var req currentDevice
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Device == nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if *req.Device < 0 {
		http.Error(w, "device must not be negative", http.StatusBadRequest)
		return
	}
	if err := s.mgr.SetDevice(*req.Device); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

type countResponse struct {
	Count int `json:"count"`
}

type currentDevice struct {
	Device *int `json:"device"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := errorResponse{Error: err.Error()}
	if kind, ok := device.KindOf(err); ok {
		resp.Kind = kind.String()
		if kind == device.KindUnsupported || kind == device.KindUnavailable {
			status = http.StatusNotImplemented
		}
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("device operation failed", zap.Error(err))
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
