package game

type GamePhase uint8

const (
	PhaseWaiting GamePhase = iota
	PhaseFiring
	PhaseHit
	PhaseGameOver
)

func (p GamePhase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseFiring:
		return "firing"
	case PhaseHit:
		return "hit"
	case PhaseGameOver:
		return "gameover"
	}
	return "unknown"
}

type Direction int8

const (
	Left  Direction = -1
	Right Direction = 1
)

type Player struct {
	ID       int     `json:"id" msgpack:"id"`
	Name     string  `json:"name" msgpack:"name"`
	Position float64 `json:"position" msgpack:"position"`
	Angle    float64 `json:"angle" msgpack:"angle"` // degrees, absolute
	Power    float64 `json:"power" msgpack:"power"`
	Health   int     `json:"health" msgpack:"health"`
	Color    string  `json:"color" msgpack:"color"`
}

type Projectile struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	VX     float64 `json:"vx" msgpack:"vx"`
	VY     float64 `json:"vy" msgpack:"vy"`
	Active bool    `json:"active" msgpack:"active"`
}

type ImpactKind uint8

const (
	ImpactNone ImpactKind = iota
	ImpactTerrain
	ImpactTank
	ImpactMiss // left the field, no damage
)

func (k ImpactKind) String() string {
	switch k {
	case ImpactNone:
		return "none"
	case ImpactTerrain:
		return "terrain"
	case ImpactTank:
		return "tank"
	case ImpactMiss:
		return "miss"
	}
	return "unknown"
}

type Impact struct {
	Kind     ImpactKind `json:"kind" msgpack:"kind"`
	PlayerID int        `json:"playerId,omitempty" msgpack:"playerId,omitempty"` // only for ImpactTank
	X        float64    `json:"x" msgpack:"x"`
	Y        float64    `json:"y" msgpack:"y"`
}

// State is the complete duel snapshot. It is a value type: copying a State
// copies everything except the terrain points, which are never mutated.
type State struct {
	Tick        uint32     `json:"tick" msgpack:"tick"`
	Phase       GamePhase  `json:"phase" msgpack:"phase"`
	Current     int        `json:"current" msgpack:"current"` // id of the player whose turn it is
	Winner      int        `json:"winner" msgpack:"winner"`   // 0 until gameover
	Players     [2]Player  `json:"players" msgpack:"players"`
	Projectile  Projectile `json:"projectile" msgpack:"projectile"`
	Terrain     Terrain    `json:"terrain" msgpack:"terrain"`
	LastImpact  Impact     `json:"lastImpact" msgpack:"lastImpact"` // Kind==ImpactNone unless settling
	SettleTimer float64    `json:"settleTimer" msgpack:"settleTimer"`

	// set by a lethal hit, promoted to Winner once the settle delay ends
	pendingWinner int
}

// Player returns the record for id, or nil for an unknown id.
func (s *State) Player(id int) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

func otherPlayer(id int) int {
	if id == 1 {
		return 2
	}
	return 1
}
