package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vladimirvolkov/artillery/internal/middleware"
)

const maxNameRunes = 12

// sanitizeName keeps letters, digits, underscore, dash, space and cyrillic,
// and enforces 2-12 runes of valid UTF-8. Anything else yields fallback.
func sanitizeName(raw, fallback string) string {
	if !utf8.ValidString(raw) {
		return fallback
	}
	cleaned := []rune{}
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '_' || r == '-' || r == ' ' ||
			(r >= 0x0400 && r <= 0x04FF) {
			cleaned = append(cleaned, r)
		}
	}
	if len(cleaned) < 2 {
		return fallback
	}
	if len(cleaned) > maxNameRunes {
		cleaned = cleaned[:maxNameRunes]
	}
	return string(cleaned)
}

// seatNames reads ?p1= and ?p2=. Identical names get a "(2)" suffix on the
// second seat so the renderer can tell them apart.
func seatNames(p1, p2 string) [2]string {
	names := [2]string{sanitizeName(p1, "Player 1"), sanitizeName(p2, "Player 2")}
	if names[0] == names[1] {
		suffix := "(2)"
		runes := []rune(names[1])
		if limit := maxNameRunes - len(suffix); len(runes) > limit {
			runes = runes[:limit]
		}
		names[1] = string(runes) + suffix
	}
	return names
}

// MatchRunner plays one hot-seat duel over conn and returns when it ends.
type MatchRunner interface {
	RunMatch(ctx context.Context, id string, conn *Conn, seats [2]string) error
}

// HubStats holds live server metrics.
type HubStats struct {
	ActiveMatches    int64  `json:"activeMatches"`
	TotalConnections uint64 `json:"totalConnections"`
	Rejected         uint64 `json:"rejected"`
}

type Hub struct {
	runner     MatchRunner
	limiter    *middleware.IPRateLimiter
	log        *log.Logger
	maxMatches int64

	originPatterns []string

	activeMatches    atomic.Int64
	totalConnections atomic.Uint64
	rejected         atomic.Uint64
}

func NewHub(runner MatchRunner, limiter *middleware.IPRateLimiter, maxMatches int, originPatterns []string, logger *log.Logger) *Hub {
	return &Hub{
		runner:         runner,
		limiter:        limiter,
		log:            logger,
		maxMatches:     int64(maxMatches),
		originPatterns: originPatterns,
	}
}

// Stats returns a snapshot of current server metrics.
func (h *Hub) Stats() HubStats {
	return HubStats{
		ActiveMatches:    h.activeMatches.Load(),
		TotalConnections: h.totalConnections.Load(),
		Rejected:         h.rejected.Load(),
	}
}

func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	codec, err := CodecByName(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ip := middleware.RealIP(r)
	if h.limiter != nil && !h.limiter.ConnectAllowed(ip) {
		h.rejected.Add(1)
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}
	if h.limiter != nil {
		defer h.limiter.Disconnect(ip)
	}

	acceptOpts := &websocket.AcceptOptions{}
	if len(h.originPatterns) > 0 {
		acceptOpts.OriginPatterns = h.originPatterns
	}
	socket, err := websocket.Accept(w, r, acceptOpts)
	if err != nil {
		h.log.Warn("ws accept failed", "ip", ip, "err", err)
		return
	}
	// intents are tiny; snapshots only flow the other way
	socket.SetReadLimit(1024)

	h.totalConnections.Add(1)
	if h.activeMatches.Load() >= h.maxMatches {
		h.rejected.Add(1)
		h.log.Warn("max matches reached, rejecting", "ip", ip)
		socket.Close(websocket.StatusTryAgainLater, "server full")
		return
	}

	id := uuid.NewString()
	conn := NewConn(socket, id, ip, codec, h.limiter, h.log)
	seats := seatNames(r.URL.Query().Get("p1"), r.URL.Query().Get("p2"))

	h.activeMatches.Add(1)
	defer h.activeMatches.Add(-1)
	h.log.Info("match opened", "match", id, "ip", ip, "codec", codec.Name(), "p1", seats[0], "p2", seats[1])

	if err := h.serve(id, conn, seats); err != nil {
		h.log.Warn("match ended with error", "match", id, "err", err)
		return
	}
	h.log.Info("match closed", "match", id)
}

// serve runs the write loop and the match side by side; whichever stops
// first tears the other down. The socket outlives the HTTP handler's
// request context, so the group hangs off Background.
func (h *Hub) serve(id string, conn *Conn, seats [2]string) error {
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return conn.WriteLoop(ctx)
	})
	g.Go(func() error {
		defer conn.Close()
		if err := h.runner.RunMatch(ctx, id, conn, seats); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("match %s: %w", id, err)
		}
		return nil
	})
	return g.Wait()
}
