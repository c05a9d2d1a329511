package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/peterkuimelis/triad/internal/game"
	"github.com/peterkuimelis/triad/internal/service"
	"github.com/peterkuimelis/triad/internal/store"
)

// APIVersion is the version this server speaks.
const APIVersion = "1.0.0"

// VersionHeader carries the client version on game requests.
const VersionHeader = "X-Client-Version"

// Server is the triad HTTP API.
type Server struct {
	svc        *service.Service
	hub        *Hub
	logger     *zap.Logger
	minVersion string
	mux        *http.ServeMux
}

// NewServer creates the API server. hub may be nil when live updates are
// not wanted.
func NewServer(svc *service.Service, hub *Hub, logger *zap.Logger, minVersion string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if minVersion == "" {
		minVersion = APIVersion
	}
	s := &Server{
		svc:        svc,
		hub:        hub,
		logger:     logger,
		minVersion: minVersion,
		mux:        http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/version", s.handleVersion)
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/cards/starter", s.handleStarterCards)

	s.mux.HandleFunc("POST /api/game/new", s.versioned(s.handleCreate))
	s.mux.HandleFunc("GET /api/game/{id}", s.versioned(s.handleGet))
	s.mux.HandleFunc("POST /api/game/{id}/player-move", s.versioned(s.handlePlayerMove))
	s.mux.HandleFunc("POST /api/game/{id}/ai-move", s.versioned(s.handleAIMove))
	s.mux.HandleFunc("GET /api/game/{id}/available-cards", s.handleAvailableCards)
	s.mux.HandleFunc("POST /api/game/{id}/exchange-card", s.versioned(s.handleExchange))
	s.mux.HandleFunc("GET /api/game/{id}/reward", s.handleReward)
	s.mux.HandleFunc("DELETE /api/game/{id}", s.handleDelete)

	s.mux.HandleFunc("GET /api/player/{id}/stats", s.handleStats)

	if s.hub != nil {
		s.mux.HandleFunc("GET /ws/{id}", s.hub.handleSubscribe)
	}
}

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// --- Handlers ---

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version":      APIVersion,
		"minSupported": s.minVersion,
	})
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "cards": s.svc.Cards()})
}

func (s *Server) handleStarterCards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "cards": s.svc.StarterCards()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRequest
	if !s.decode(w, r, &req) {
		return
	}
	info, err := s.svc.CreateMatch(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Status string `json:"status"`
		service.MatchInfo
	}{"created", info})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	info, err := s.svc.GetMatch(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	etag := `"` + info.Checksum + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type moveRequest struct {
	CardIndex *int `json:"cardIndex"`
	Position  *int `json:"position"`
}

func (s *Server) handlePlayerMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.CardIndex == nil || req.Position == nil {
		s.writeError(w, r, fmt.Errorf("%w: cardIndex and position are required", game.ErrInvalidInput))
		return
	}
	info, err := s.svc.PlayerMove(r.Context(), r.PathValue("id"), *req.CardIndex, *req.Position)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMove(w, info)
}

func (s *Server) handleAIMove(w http.ResponseWriter, r *http.Request) {
	info, err := s.svc.AIMove(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMove(w, info)
}

func writeMove(w http.ResponseWriter, info service.MoveInfo) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		service.MoveInfo
	}{"move completed", info})
}

func (s *Server) handleAvailableCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.svc.AvailableCards(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "cards": cards})
}

func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID string `json:"cardId"`
	}
	// The AI-win exchange takes no body.
	if r.ContentLength != 0 {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			s.writeError(w, r, fmt.Errorf("%w: decode body: %v", game.ErrInvalidInput, err))
			return
		}
	}
	info, err := s.svc.Exchange(r.Context(), r.PathValue("id"), req.CardID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "exchange": info})
}

func (s *Server) handleReward(w http.ResponseWriter, r *http.Request) {
	card, err := s.svc.DefeatReward(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "card": card})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.Abandon(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "gameId": id})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Stats(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "stats": st})
}

// --- Middleware ---

// versioned rejects clients older than the minimum supported version with
// 426 Upgrade Required.
func (s *Server) versioned(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !versionAtLeast(r.Header.Get(VersionHeader), s.minVersion) {
			writeJSON(w, http.StatusUpgradeRequired, map[string]any{
				"error":   msgOutdated,
				"details": "Outdated client version",
				"meta": map[string]string{
					"currentVersion": APIVersion,
					"minSupported":   s.minVersion,
				},
			})
			return
		}
		next(w, r)
	}
}

// versionAtLeast compares dotted major.minor.patch versions. A missing or
// malformed client version is too old.
func versionAtLeast(client, minimum string) bool {
	c, ok := parseVersion(client)
	if !ok {
		return false
	}
	m, ok := parseVersion(minimum)
	if !ok {
		return true
	}
	for i := range c {
		if c[i] != m[i] {
			return c[i] > m[i]
		}
	}
	return true
}

func parseVersion(v string) ([3]int, bool) {
	var out [3]int
	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(v), "v"), ".")
	if len(parts) == 0 || len(parts) > 3 || parts[0] == "" {
		return out, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return out, false
		}
		out[i] = n
	}
	return out, true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the connection for WebSocket
// upgrades.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/ws/") {
			next.ServeHTTP(w, r)
			return
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// --- Responses ---

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: decode body: %v", game.ErrInvalidInput, err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status code and a user-facing message. The raw
// error text goes into details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, map[string]string{
		"error":   msg,
		"details": err.Error(),
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, store.ErrVersionConflict):
		return http.StatusConflict, msgConflict
	case errors.Is(err, game.ErrGameFinished):
		return http.StatusConflict, msgFinished
	case errors.Is(err, game.ErrInvalidTurn):
		return http.StatusBadRequest, msgNotYourTurn
	case errors.Is(err, game.ErrNotAITurn):
		return http.StatusBadRequest, msgNotAITurn
	case errors.Is(err, game.ErrExchangeUnavailable):
		return http.StatusBadRequest, msgExchange
	case errors.Is(err, game.ErrMissingSelection):
		return http.StatusBadRequest, msgSelectCard
	case errors.Is(err, game.ErrUnknownCard):
		return http.StatusBadRequest, msgUnknownCard
	case errors.Is(err, game.ErrGameStateCorrupt):
		return http.StatusInternalServerError, msgCorrupt
	case errors.Is(err, service.ErrPlayerRequired):
		return http.StatusBadRequest, msgPlayerRequired
	case errors.Is(err, game.ErrInvalidInput),
		errors.Is(err, game.ErrInvalidIndex),
		errors.Is(err, game.ErrInvalidPosition),
		errors.Is(err, game.ErrNoCardsLeft),
		errors.Is(err, game.ErrNoEmptyCell):
		return http.StatusBadRequest, msgBadRequest
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
