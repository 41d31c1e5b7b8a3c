package game

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vladimirvolkov/artillery/internal/ws"
)

//go:generate go tool mockgen -destination=./mocks/viewer_mock.go -package=mocks . Viewer

// Viewer is the presentation side of a room: it renders what the room sends
// and delivers the player's intents.
type Viewer interface {
	Send(msg ws.Message)
	ReadLoop(ctx context.Context) <-chan ws.Envelope
}

type MatchStartPayload struct {
	MatchID string    `json:"matchId" msgpack:"matchId"`
	Seats   [2]string `json:"seats" msgpack:"seats"`
	Rules   Rules     `json:"rules" msgpack:"rules"`
}

type EventsPayload struct {
	Events []Event `json:"events" msgpack:"events"`
}

type GameOverPayload struct {
	Winner int    `json:"winner" msgpack:"winner"`
	Health [2]int `json:"health" msgpack:"health"`
}

// Room drives one duel. Run is the only goroutine that touches the duel, so
// an intent and a tick never interleave.
type Room struct {
	id     string
	viewer Viewer
	duel   *Duel
	seats  [2]string
	log    *log.Logger
	dirty  bool
}

func NewRoom(id string, viewer Viewer, duel *Duel, seats [2]string, logger *log.Logger) *Room {
	return &Room{
		id:     id,
		viewer: viewer,
		duel:   duel,
		seats:  seats,
		log:    logger.With("match", id),
	}
}

// Run plays until the viewer goes away (nil) or ctx is cancelled (ctx.Err()).
// Stopping mid-flight simply drops the shell.
func (r *Room) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	intents := r.viewer.ReadLoop(ctx)

	r.viewer.Send(ws.Message{
		Type: ws.MsgMatchStart,
		Payload: MatchStartPayload{
			MatchID: r.id,
			Seats:   r.seats,
			Rules:   r.duel.Rules(),
		},
	})
	r.broadcastState()

	ticker := time.NewTicker(time.Second / time.Duration(r.duel.Rules().TickRate))
	defer ticker.Stop()

	for {
		select {
		case env, ok := <-intents:
			if !ok {
				r.log.Info("viewer disconnected")
				return nil
			}
			r.handleMessage(env)
		case <-ticker.C:
			r.tick()
		case <-ctx.Done():
			return ctx.Err()
		}

		if r.dirty {
			r.broadcastState()
			r.dirty = false
		}
	}
}

func (r *Room) handleMessage(env ws.Envelope) {
	var accepted bool

	switch env.Type {
	case ws.MsgMove:
		var p ws.MovePayload
		if err := env.Bind(&p); err != nil {
			r.log.Warn("bad move", "err", err)
			return
		}
		accepted = r.duel.Move(Direction(p.Direction))

	case ws.MsgAngle, ws.MsgPower:
		var p ws.AdjustPayload
		if err := env.Bind(&p); err != nil {
			r.log.Warn("bad adjust", "err", err)
			return
		}
		if env.Type == ws.MsgAngle {
			accepted = r.duel.AdjustAngle(p.Delta)
		} else {
			accepted = r.duel.AdjustPower(p.Delta)
		}

	case ws.MsgFire:
		events := r.duel.Fire()
		accepted = len(events) > 0
		r.publish(events)

	case ws.MsgReset:
		r.publish(r.duel.Reset())
		accepted = true

	case ws.MsgPing:
		var ping ws.PingPayload
		if err := env.Bind(&ping); err != nil {
			return
		}
		r.viewer.Send(ws.Message{
			Type: ws.MsgPong,
			Tick: r.duel.Snapshot().Tick,
			Payload: ws.PongPayload{
				ClientTime: ping.ClientTime,
				ServerTime: uint64(time.Now().UnixMilli()),
			},
		})
		return

	default:
		r.log.Debug("unknown message", "type", env.Type)
		return
	}

	if !accepted {
		r.log.Debug("input ignored", "type", env.Type, "phase", r.duel.Snapshot().Phase)
		return
	}
	r.dirty = true
}

func (r *Room) tick() {
	phase := r.duel.Snapshot().Phase
	if phase != PhaseFiring && phase != PhaseHit {
		return
	}
	r.publish(r.duel.Tick(1))
	r.dirty = true
}

func (r *Room) publish(events []Event) {
	if len(events) == 0 {
		return
	}
	s := r.duel.Snapshot()
	for _, e := range events {
		r.log.Debug("event", "kind", e.Kind, "player", e.PlayerID, "damage", e.Damage, "x", e.X, "y", e.Y)
	}
	r.viewer.Send(ws.Message{Type: ws.MsgEvents, Tick: s.Tick, Payload: EventsPayload{Events: events}})

	for _, e := range events {
		if e.Kind != EventGameOver {
			continue
		}
		r.log.Info("game over", "winner", e.PlayerID, "tick", s.Tick)
		r.viewer.Send(ws.Message{
			Type: ws.MsgGameOver,
			Tick: s.Tick,
			Payload: GameOverPayload{
				Winner: e.PlayerID,
				Health: [2]int{s.Players[0].Health, s.Players[1].Health},
			},
		})
	}
}

func (r *Room) broadcastState() {
	s := r.duel.Snapshot()
	r.viewer.Send(ws.Message{Type: ws.MsgSnapshot, Tick: s.Tick, Payload: s})
}
