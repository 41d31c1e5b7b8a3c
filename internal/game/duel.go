package game

import (
	"math"
	"math/rand/v2"
)

type EventKind uint8

const (
	EventFired EventKind = iota + 1
	EventTerrainHit
	EventTankHit
	EventMiss
	EventTurn
	EventGameOver
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventFired:
		return "fired"
	case EventTerrainHit:
		return "terrain_hit"
	case EventTankHit:
		return "tank_hit"
	case EventMiss:
		return "miss"
	case EventTurn:
		return "turn"
	case EventGameOver:
		return "game_over"
	case EventReset:
		return "reset"
	}
	return "unknown"
}

// Event tells the presentation layer what happened during a call into the
// engine. PlayerID is the shooter for fired/miss, the struck tank for
// tank_hit, the new current player for turn and the winner for game_over.
type Event struct {
	Kind     EventKind `json:"kind" msgpack:"kind"`
	PlayerID int       `json:"playerId,omitempty" msgpack:"playerId,omitempty"`
	Damage   int       `json:"damage,omitempty" msgpack:"damage,omitempty"`
	Health   int       `json:"health" msgpack:"health"`
	X        float64   `json:"x" msgpack:"x"`
	Y        float64   `json:"y" msgpack:"y"`
}

// Advance moves the simulation forward by dt ticks. It only acts in the
// firing and hit phases; s is taken by value and never aliased, so callers
// may keep the previous state.
func Advance(s State, dt float64, r Rules) (State, []Event) {
	switch s.Phase {
	case PhaseFiring:
		return advanceFlight(s, dt, r)
	case PhaseHit:
		return advanceSettle(s, dt)
	}
	return s, nil
}

func advanceFlight(s State, dt float64, r Rules) (State, []Event) {
	s.Tick++
	s.Projectile = StepProjectile(s.Projectile, r.Gravity, dt)
	impact := CheckImpact(s.Projectile, s.Terrain, s.Players[:], r)

	switch impact.Kind {
	case ImpactNone:
		return s, nil

	case ImpactMiss:
		shooter := s.Current
		s.Projectile = Projectile{}
		s.Phase = PhaseWaiting
		s.Current = otherPlayer(s.Current)
		return s, []Event{
			{Kind: EventMiss, PlayerID: shooter, X: impact.X, Y: impact.Y},
			{Kind: EventTurn, PlayerID: s.Current},
		}

	case ImpactTerrain:
		s.Projectile = Projectile{}
		s.LastImpact = impact
		s.Phase = PhaseHit
		s.SettleTimer = r.SettleTicks
		return s, []Event{{Kind: EventTerrainHit, X: impact.X, Y: impact.Y}}

	case ImpactTank:
		s.Projectile = Projectile{}
		s.LastImpact = impact
		s.Phase = PhaseHit
		s.SettleTimer = r.SettleTicks
		victim := s.Player(impact.PlayerID)
		dmg := Damage(impact.X, victim.Position, r)
		health := victim.Hit(dmg)
		if health <= 0 {
			s.pendingWinner = otherPlayer(victim.ID)
		}
		return s, []Event{{
			Kind:     EventTankHit,
			PlayerID: victim.ID,
			Damage:   dmg,
			Health:   health,
			X:        impact.X,
			Y:        impact.Y,
		}}
	}
	return s, nil
}

func advanceSettle(s State, dt float64) (State, []Event) {
	s.Tick++
	s.SettleTimer -= dt
	if s.SettleTimer > 0 {
		return s, nil
	}
	s.SettleTimer = 0
	s.LastImpact = Impact{}

	if s.pendingWinner != 0 {
		s.Phase = PhaseGameOver
		s.Winner = s.pendingWinner
		s.pendingWinner = 0
		return s, []Event{{Kind: EventGameOver, PlayerID: s.Winner}}
	}
	s.Phase = PhaseWaiting
	s.Current = otherPlayer(s.Current)
	return s, []Event{{Kind: EventTurn, PlayerID: s.Current}}
}

// Duel is the simulation context: the rules, a seeded terrain source and the
// current state. It is not safe for concurrent use; a Room owns exactly one.
type Duel struct {
	rules Rules
	rng   *rand.Rand
	names [2]string
	state State
}

// NewDuel starts a duel in the waiting phase with player 1 to move. The seed
// fully determines every terrain the duel will generate.
func NewDuel(r Rules, seed uint64, names [2]string) *Duel {
	d := &Duel{
		rules: r,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		names: names,
	}
	d.reset()
	return d
}

func (d *Duel) Rules() Rules { return d.rules }

// Snapshot returns a copy of the current state.
func (d *Duel) Snapshot() State { return d.state }

// SetTerrain replaces the terrain, for fixtures and tooling.
func (d *Duel) SetTerrain(t Terrain) { d.state.Terrain = t }

func (d *Duel) reset() {
	d.state = State{
		Phase:   PhaseWaiting,
		Current: 1,
		Players: [2]Player{
			NewPlayer(1, d.names[0], d.rules),
			NewPlayer(2, d.names[1], d.rules),
		},
		Terrain: GenerateTerrain(d.rng, d.rules.FieldWidth, d.rules.FieldHeight,
			d.rules.TerrainSegments, d.rules.GroundHeight, d.rules.MaxVariation),
	}
}

// Reset regenerates the terrain and restores both players. It is accepted in
// every phase and discards an in-flight shell.
func (d *Duel) Reset() []Event {
	tick := d.state.Tick
	d.reset()
	d.state.Tick = tick
	return []Event{{Kind: EventReset, PlayerID: d.state.Current}}
}

// actor returns the current player while aim input is legal.
func (d *Duel) actor() *Player {
	if d.state.Phase != PhaseWaiting {
		return nil
	}
	return d.state.Player(d.state.Current)
}

// Move reports whether the input was accepted.
func (d *Duel) Move(dir Direction) bool {
	p := d.actor()
	if p == nil || (dir != Left && dir != Right) {
		return false
	}
	p.Move(dir, d.rules)
	return true
}

// AdjustAngle and AdjustPower reject non-finite deltas.
func (d *Duel) AdjustAngle(delta float64) bool {
	p := d.actor()
	if p == nil || !finite(delta) {
		return false
	}
	p.AdjustAngle(delta)
	return true
}

func (d *Duel) AdjustPower(delta float64) bool {
	p := d.actor()
	if p == nil || !finite(delta) {
		return false
	}
	p.AdjustPower(delta, d.rules)
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Fire launches the current player's shell. Outside the waiting phase it is
// a no-op and returns no events.
func (d *Duel) Fire() []Event {
	p := d.actor()
	if p == nil {
		return nil
	}
	d.state.Projectile = Launch(*p, d.state.Terrain, d.rules)
	d.state.Phase = PhaseFiring
	return []Event{{Kind: EventFired, PlayerID: p.ID, X: d.state.Projectile.X, Y: d.state.Projectile.Y}}
}

// Tick advances the duel by dt ticks.
func (d *Duel) Tick(dt float64) []Event {
	var events []Event
	d.state, events = Advance(d.state, dt, d.rules)
	return events
}
