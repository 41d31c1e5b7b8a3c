package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(maxConns, rate int) (*IPRateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rl := NewIPRateLimiter(maxConns, rate, time.Second)
	rl.now = clock.now
	return rl, clock
}

func TestConnectionSlots(t *testing.T) {
	rl, _ := newTestLimiter(2, 10)

	if !rl.ConnectAllowed("a") || !rl.ConnectAllowed("a") {
		t.Fatal("first two connections refused")
	}
	if rl.ConnectAllowed("a") {
		t.Error("third connection allowed")
	}
	if !rl.ConnectAllowed("b") {
		t.Error("other IP shares the cap")
	}

	rl.Disconnect("a")
	if !rl.ConnectAllowed("a") {
		t.Error("slot not released by Disconnect")
	}
	// extra disconnects never go negative
	rl.Disconnect("b")
	rl.Disconnect("b")
	if !rl.ConnectAllowed("b") || !rl.ConnectAllowed("b") || rl.ConnectAllowed("b") {
		t.Error("slot count drifted after extra disconnects")
	}
}

func TestMessageBucketRefills(t *testing.T) {
	rl, clock := newTestLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !rl.MessageAllowed("a") {
			t.Fatalf("message %d refused", i)
		}
	}
	if rl.MessageAllowed("a") {
		t.Fatal("bucket should be empty")
	}

	clock.advance(999 * time.Millisecond)
	if rl.MessageAllowed("a") {
		t.Error("refilled before the window elapsed")
	}
	clock.advance(time.Millisecond)
	if !rl.MessageAllowed("a") {
		t.Error("not refilled after the window")
	}

	// a long idle period refills to the cap, not beyond it
	clock.advance(time.Minute)
	allowed := 0
	for i := 0; i < 10; i++ {
		if rl.MessageAllowed("a") {
			allowed++
		}
	}
	if allowed != 3 {
		t.Errorf("allowed %d after idle, want 3", allowed)
	}
}

func TestPruneKeepsConnectedVisitors(t *testing.T) {
	rl, _ := newTestLimiter(1, 1)
	rl.ConnectAllowed("busy")
	rl.MessageAllowed("idle")

	rl.prune()
	if _, ok := rl.visitors["idle"]; ok {
		t.Error("idle visitor survived prune")
	}
	if _, ok := rl.visitors["busy"]; !ok {
		t.Error("connected visitor pruned")
	}
}

func TestCleanupStopsWithContext(t *testing.T) {
	rl, _ := newTestLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.Cleanup(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Cleanup did not return after cancel")
	}
}

func TestRealIP(t *testing.T) {
	cases := []struct {
		name, remote, xff, want string
	}{
		{"remote addr", "203.0.113.7:4242", "", "203.0.113.7"},
		{"forwarded", "10.0.0.1:80", "198.51.100.2, 10.0.0.1", "198.51.100.2"},
		{"no port", "203.0.113.9", "", "203.0.113.9"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws", nil)
			r.RemoteAddr = c.remote
			if c.xff != "" {
				r.Header.Set("X-Forwarded-For", c.xff)
			}
			if got := RealIP(r); got != c.want {
				t.Errorf("RealIP = %q, want %q", got, c.want)
			}
		})
	}
}
