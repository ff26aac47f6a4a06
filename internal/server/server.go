// Package server is the level service: clients connect over WebSocket,
// send generation requests as JSON and receive the rendered level back.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/store"
)

// Server serves generation requests.
type Server struct {
	cfg         *config.Config
	store       *store.Store
	slots       *ConnSlots
	limiter     *FailureLimiter
	StartTime   time.Time

	mu       sync.Mutex
	served   int
	shutdown chan struct{}
	once     sync.Once
}

// New creates a server. st may be nil, in which case save requests fail.
func New(cfg *config.Config, st *store.Store) *Server {
	return &Server{
		cfg:         cfg,
		store:       st,
		slots:       NewConnSlots(cfg.Service.Connections),
		limiter:     NewFailureLimiter(cfg.Service.RateLimit),
		StartTime:   time.Now(),
		shutdown:    make(chan struct{}),
	}
}

// Handler returns the HTTP routes: /ws for the WebSocket endpoint and
// /healthz for liveness checks.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// ListenAndServe serves on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Service.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Level service listening", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Shutdown()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Level service shutting down")
	s.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Shutdown stops background work and tells open connections to close.
func (s *Server) Shutdown() {
	s.once.Do(func() {
		close(s.shutdown)
		s.limiter.Stop()
	})
}

// Served returns the number of levels generated since start.
func (s *Server) Served() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.served
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	conns := s.slots.Stats()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":      "ok",
		"uptime":      time.Since(s.StartTime).Round(time.Second).String(),
		"connections": conns.Open,
		"clients":     conns.Clients,
		"served":      s.Served(),
	})
}

func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := clientHost(r)

	if locked, remaining := s.limiter.IsLocked(clientIP); locked {
		logger.Warning("WebSocket connection rejected - client locked out",
			"client_ip", clientIP,
			"remaining", remaining.Round(time.Second))
		http.Error(w, "Too many bad requests. Please try again later.", http.StatusTooManyRequests)
		return
	}

	release, err := s.slots.Admit(clientIP)
	if err != nil {
		logger.Warning("WebSocket connection rejected - limit exceeded",
			"reason", err,
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.Service.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		release()
		return
	}

	go s.handleWebSocketConnection(wsConn, clientIP, release)
}

func (s *Server) handleWebSocketConnection(wsConn *websocket.Conn, clientIP string, release func()) {
	defer func() {
		release()
		wsConn.Close()
	}()

	if limit := s.cfg.Service.WebSocket.MaxMessageSize; limit > 0 {
		wsConn.SetReadLimit(limit)
	}

	client := NewWebSocketClient(wsConn)
	session := uuid.New().String()
	logger.Debug("Client connected", "client_ip", clientIP, "session", session)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-s.shutdown:
			client.Close()
		case <-done:
		}
	}()

	for {
		data, err := client.ReadMessage()
		if err != nil {
			logger.Debug("Client disconnected", "client_ip", clientIP, "session", session, "reason", err)
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			if !s.reject(client, clientIP, "", fmt.Errorf("malformed request: %w", err)) {
				return
			}
			continue
		}
		if req.RequestID == "" {
			req.RequestID = uuid.New().String()
		}

		resp, err := s.handleRequest(context.Background(), req)
		if err != nil {
			if !s.reject(client, clientIP, req.RequestID, err) {
				return
			}
			continue
		}
		s.limiter.RecordSuccess(clientIP)
		if err := client.WriteJSON(resp); err != nil {
			return
		}
	}
}

// reject answers a bad request and counts it against the client. It
// returns false once the client is locked out and the connection should
// close.
func (s *Server) reject(client *WebSocketClient, clientIP, requestID string, cause error) bool {
	logger.Warning("Request rejected", "client_ip", clientIP, "request_id", requestID, "error", cause)
	if err := client.WriteJSON(errorResponse(requestID, cause)); err != nil {
		return false
	}
	if locked, lockout := s.limiter.RecordFailure(clientIP); locked {
		logger.Warning("Client locked out", "client_ip", clientIP, "lockout", lockout)
		return false
	}
	return true
}

// handleRequest generates, optionally stores, and describes one level.
func (s *Server) handleRequest(ctx context.Context, req Request) (Response, error) {
	if req.Save && s.store == nil {
		return Response{}, errors.New("level store is not enabled")
	}

	gen, err := generate(req, s.cfg.RoomExpansion, s.cfg.Service.MaxSize)
	if err != nil {
		return Response{}, err
	}
	defer gen.grid.Release()

	var id int64
	if req.Save {
		rec, err := store.NewRecord(gen.kind, gen.seed, gen.params, gen.grid)
		if err != nil {
			return Response{}, err
		}
		id, _, err = s.store.Save(ctx, rec)
		if err != nil {
			logger.Error("Failed to save level", "kind", gen.kind, "error", err)
			return Response{}, err
		}
	}

	resp := gen.response(req.PaintPath)
	resp.ID = id
	resp.RequestID = req.RequestID
	logger.Debug("Level generated",
		"request_id", req.RequestID,
		"kind", gen.kind,
		"seed", gen.seed,
		"attempts", gen.attempts,
		"saved", req.Save)

	s.mu.Lock()
	s.served++
	s.mu.Unlock()
	return resp, nil
}
