package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"

	"github.com/vladimirvolkov/artillery/internal/middleware"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

// Conn is one renderer connection. Sends are queued and never block the
// room loop; a full queue drops the message.
type Conn struct {
	ws      *websocket.Conn
	codec   Codec
	sendCh  chan []byte
	done    chan struct{}
	once    sync.Once
	ID      string
	IP      string
	limiter *middleware.IPRateLimiter
	log     *log.Logger
}

func NewConn(ws *websocket.Conn, id, ip string, codec Codec, limiter *middleware.IPRateLimiter, logger *log.Logger) *Conn {
	return &Conn{
		ws:      ws,
		codec:   codec,
		sendCh:  make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		ID:      id,
		IP:      ip,
		limiter: limiter,
		log:     logger.With("conn", id),
	}
}

func (c *Conn) Send(msg Message) {
	data, err := c.codec.Encode(msg)
	if err != nil {
		c.log.Error("encode failed", "type", msg.Type, "err", err)
		return
	}
	select {
	case c.sendCh <- data:
	case <-c.done:
	default:
		c.log.Warn("send buffer full, dropping message", "type", msg.Type)
	}
}

// ReadLoop decodes frames until the socket fails or ctx ends; the returned
// channel is closed when it stops. Frames over the per-IP rate are dropped.
func (c *Conn) ReadLoop(ctx context.Context) <-chan Envelope {
	ch := make(chan Envelope, sendBuffer)
	go func() {
		defer close(ch)
		for {
			_, data, err := c.ws.Read(ctx)
			if err != nil {
				c.log.Debug("read stopped", "err", err)
				c.Close()
				return
			}
			if c.limiter != nil && !c.limiter.MessageAllowed(c.IP) {
				continue
			}
			env, err := c.codec.Decode(data)
			if err != nil {
				c.log.Warn("decode failed", "err", err)
				continue
			}
			select {
			case ch <- env:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// WriteLoop flushes queued frames until the connection closes or ctx ends.
func (c *Conn) WriteLoop(ctx context.Context) error {
	for {
		select {
		case data := <-c.sendCh:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.ws.Write(wctx, c.codec.Frame(), data)
			cancel()
			if err != nil {
				c.Close()
				return fmt.Errorf("conn %s: write: %w", c.ID, err)
			}
		case <-c.done:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
		c.ws.Close(websocket.StatusNormalClosure, "")
	})
}
