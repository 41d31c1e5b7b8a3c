package ws

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"

	"github.com/vladimirvolkov/artillery/internal/middleware"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		raw, want string
	}{
		{"Alice", "Alice"},
		{"a", "P"},
		{"<script>", "script"},
		{"averyveryverylongname", "averyveryver"},
		{"Иван", "Иван"},
		{"\xff\xfe", "P"},
	}
	for _, c := range cases {
		if got := sanitizeName(c.raw, "P"); got != c.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestSeatNames(t *testing.T) {
	if got := seatNames("", ""); got != [2]string{"Player 1", "Player 2"} {
		t.Errorf("defaults = %v", got)
	}
	if got := seatNames("Sam", "Sam"); got != [2]string{"Sam", "Sam(2)"} {
		t.Errorf("duplicates = %v", got)
	}
	if got := seatNames("abcdefghijkl", "abcdefghijkl"); got[1] != "abcdefghi(2)" {
		t.Errorf("long duplicate = %q", got[1])
	}
}

type echoRunner struct {
	seats chan [2]string
}

// RunMatch echoes the seat names back once and then waits for the socket.
func (e *echoRunner) RunMatch(ctx context.Context, id string, conn *Conn, seats [2]string) error {
	e.seats <- seats
	conn.Send(Message{Type: MsgMatchStart, Payload: map[string]string{"matchId": id}})
	for range conn.ReadLoop(ctx) {
	}
	return nil
}

func TestHubServesMatch(t *testing.T) {
	runner := &echoRunner{seats: make(chan [2]string, 1)}
	hub := NewHub(runner, middleware.NewIPRateLimiter(4, 100, time.Second), 10, nil, log.New(io.Discard))
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?p1=Ann&p2=Bob"
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close(websocket.StatusNormalClosure, "")

	if seats := <-runner.seats; seats != [2]string{"Ann", "Bob"} {
		t.Errorf("seats = %v", seats)
	}
	typ, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if typ != websocket.MessageText {
		t.Errorf("frame type = %v, want text", typ)
	}
	env, err := JSON.Decode(data)
	if err != nil || env.Type != MsgMatchStart {
		t.Fatalf("first message = %+v, %v", env, err)
	}
	if stats := hub.Stats(); stats.TotalConnections != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestHubRejectsUnknownCodec(t *testing.T) {
	hub := NewHub(&echoRunner{seats: make(chan [2]string, 1)}, nil, 10, nil, log.New(io.Discard))
	rec := httptest.NewRecorder()
	hub.HandleWS(rec, httptest.NewRequest(http.MethodGet, "/ws?codec=xml", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHubEnforcesConnectionCap(t *testing.T) {
	limiter := middleware.NewIPRateLimiter(1, 100, time.Second)
	if !limiter.ConnectAllowed("192.0.2.1") {
		t.Fatal("first slot refused")
	}
	hub := NewHub(&echoRunner{seats: make(chan [2]string, 1)}, limiter, 10, nil, log.New(io.Discard))

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.RemoteAddr = "192.0.2.1:5000"
	rec := httptest.NewRecorder()
	hub.HandleWS(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if hub.Stats().Rejected != 1 {
		t.Errorf("rejected = %d, want 1", hub.Stats().Rejected)
	}
}

func TestServeStopsWhenRunnerFails(t *testing.T) {
	boom := errors.New("boom")
	hub := &Hub{runner: failingRunner{boom}, log: log.New(io.Discard)}
	conn := &Conn{sendCh: make(chan []byte, 1), done: make(chan struct{}), ID: "x", log: hub.log}
	// socket already gone, so the write loop exits at once
	conn.once.Do(func() { close(conn.done) })

	if err := hub.serve("x", conn, [2]string{}); !errors.Is(err, boom) {
		t.Errorf("serve = %v, want %v", err, boom)
	}
}

type failingRunner struct{ err error }

func (f failingRunner) RunMatch(context.Context, string, *Conn, [2]string) error { return f.err }
