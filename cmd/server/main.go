package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vladimirvolkov/artillery/internal/config"
	"github.com/vladimirvolkov/artillery/internal/game"
	"github.com/vladimirvolkov/artillery/internal/middleware"
	"github.com/vladimirvolkov/artillery/internal/ws"
)

// securityHeaders wraps a handler with common security response headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; connect-src 'self' ws: wss:; img-src 'self' data:")
		next.ServeHTTP(w, r)
	})
}

// GameManager starts a room per connection. With a fixed SEED, matches get
// consecutive seeds so a server run can be reproduced.
type GameManager struct {
	rules game.Rules
	seed  uint64
	next  atomic.Uint64
	log   *log.Logger
}

func (gm *GameManager) nextSeed() uint64 {
	n := gm.next.Add(1)
	if gm.seed == 0 {
		return uint64(time.Now().UnixNano()) + n
	}
	return gm.seed + n - 1
}

func (gm *GameManager) RunMatch(ctx context.Context, id string, conn *ws.Conn, seats [2]string) error {
	seed := gm.nextSeed()
	gm.log.Debug("starting duel", "match", id, "seed", seed)
	duel := game.NewDuel(gm.rules, seed, seats)
	return game.NewRoom(id, conn, duel, seats, gm.log).Run(ctx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", "err", err)
	}
	// stdout so hosting platforms don't flag every line as an error
	logger, err := config.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal("logger", "err", err)
	}
	log.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewIPRateLimiter(cfg.MaxConnsPerIP, cfg.MsgRate, time.Second)
	go limiter.Cleanup(ctx, 5*time.Minute)

	manager := &GameManager{rules: cfg.Rules, seed: cfg.Seed, log: logger}
	hub := ws.NewHub(manager, limiter, cfg.MaxMatches, cfg.AllowedOrigins, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(hub.Stats()); err != nil {
			logger.Warn("health encode failed", "err", err)
		}
	})

	// no-cache so a redeployed renderer is picked up immediately
	fs := http.FileServer(http.Dir(cfg.StaticDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		fs.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           securityHeaders(mux),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "err", err)
			server.Close()
		}
	}()

	logger.Info("artillery server starting", "port", cfg.Port, "static", cfg.StaticDir,
		"field", cfg.Rules.FieldWidth, "tickRate", cfg.Rules.TickRate)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", "err", err)
	}
	logger.Info("server stopped")
}
