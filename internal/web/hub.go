package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/peterkuimelis/triad/internal/service"
)

const (
	subscriberBuffer = 16
	writeTimeout     = 5 * time.Second
)

// Hub fans match notifications out to WebSocket subscribers. It implements
// service.Notifier.
type Hub struct {
	logger *zap.Logger

	mu   sync.Mutex
	subs map[string]map[chan []byte]struct{}
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{logger: logger, subs: make(map[string]map[chan []byte]struct{})}
}

// Notify queues n for every subscriber of its match. A subscriber whose
// buffer is full misses the notification.
func (h *Hub) Notify(_ context.Context, n service.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("encode notification", zap.String("match_id", n.MatchID), zap.Error(err))
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[n.MatchID] {
		select {
		case ch <- data:
		default:
			h.logger.Warn("dropping notification for slow subscriber", zap.String("match_id", n.MatchID))
		}
	}
}

// Subscribers returns how many connections follow matchID.
func (h *Hub) Subscribers(matchID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[matchID])
}

func (h *Hub) subscribe(matchID string) (chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)
	h.mu.Lock()
	if h.subs[matchID] == nil {
		h.subs[matchID] = make(map[chan []byte]struct{})
	}
	h.subs[matchID][ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs[matchID], ch)
		if len(h.subs[matchID]) == 0 {
			delete(h.subs, matchID)
		}
		h.mu.Unlock()
	}
}

// handleSubscribe upgrades the request and streams notifications for the
// match until the client goes away. Client messages are ignored.
func (h *Hub) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Warn("websocket accept", zap.String("match_id", matchID), zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ch, unsubscribe := h.subscribe(matchID)
	defer unsubscribe()

	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-ch:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				h.logger.Debug("websocket write", zap.String("match_id", matchID), zap.Error(err))
				return
			}
		}
	}
}
