package game

import (
	"errors"
	"fmt"
)

// ErrInvalidRules is returned by Rules.Validate.
var ErrInvalidRules = errors.New("invalid rules")

// Rules holds every tunable constant of a duel. Distances are in field units
// and time is measured in ticks.
type Rules struct {
	FieldWidth      float64 `json:"fieldWidth" msgpack:"fieldWidth"`
	FieldHeight     float64 `json:"fieldHeight" msgpack:"fieldHeight"`
	TerrainSegments int     `json:"terrainSegments" msgpack:"terrainSegments"`
	GroundHeight    float64 `json:"groundHeight" msgpack:"groundHeight"`
	MaxVariation    float64 `json:"maxVariation" msgpack:"maxVariation"`

	TankWidth       float64 `json:"tankWidth" msgpack:"tankWidth"`
	TankHeight      float64 `json:"tankHeight" msgpack:"tankHeight"`
	MuzzleClearance float64 `json:"muzzleClearance" msgpack:"muzzleClearance"`

	Gravity     float64 `json:"gravity" msgpack:"gravity"`
	MaxPower    float64 `json:"maxPower" msgpack:"maxPower"`
	MoveStep    float64 `json:"moveStep" msgpack:"moveStep"`
	StartAngle  float64 `json:"startAngle" msgpack:"startAngle"` // player 1; player 2 is mirrored
	StartPower  float64 `json:"startPower" msgpack:"startPower"`
	StartHealth int     `json:"startHealth" msgpack:"startHealth"`
	MaxDamage   float64 `json:"maxDamage" msgpack:"maxDamage"`
	SettleTicks float64 `json:"settleTicks" msgpack:"settleTicks"`
	TickRate    int     `json:"tickRate" msgpack:"tickRate"`
	SpawnLeft   float64 `json:"spawnLeft" msgpack:"spawnLeft"`   // fraction of field width
	SpawnRight  float64 `json:"spawnRight" msgpack:"spawnRight"` // fraction of field width
}

// DefaultRules returns the reference tuning: a 60 Hz duel on a 2400-wide field.
func DefaultRules() Rules {
	return Rules{
		FieldWidth:      2400,
		FieldHeight:     700,
		TerrainSegments: 30,
		GroundHeight:    100,
		MaxVariation:    70,

		TankWidth:       40,
		TankHeight:      40,
		MuzzleClearance: 5,

		Gravity:     0.2,
		MaxPower:    15,
		MoveStep:    15,
		StartAngle:  45,
		StartPower:  8,
		StartHealth: 100,
		MaxDamage:   30,
		SettleTicks: 30, // 500ms @60Hz
		TickRate:    60,
		SpawnLeft:   0.2,
		SpawnRight:  0.8,
	}
}

// Midpoint is the x-coordinate separating the two home halves.
func (r Rules) Midpoint() float64 {
	return r.FieldWidth / 2
}

// DefaultGround is the terrain height used outside the sampled profile.
func (r Rules) DefaultGround() float64 {
	return r.FieldHeight - r.GroundHeight
}

// Validate reports the first rule that would make the simulation meaningless.
func (r Rules) Validate() error {
	switch {
	case r.FieldWidth <= 0 || r.FieldHeight <= 0:
		return fmt.Errorf("%w: field must be positive, got %gx%g", ErrInvalidRules, r.FieldWidth, r.FieldHeight)
	case r.TerrainSegments < 1:
		return fmt.Errorf("%w: terrain segments must be >= 1, got %d", ErrInvalidRules, r.TerrainSegments)
	case r.GroundHeight < 0 || r.MaxVariation < 0:
		return fmt.Errorf("%w: ground height and variation must be >= 0", ErrInvalidRules)
	case r.GroundHeight+r.MaxVariation >= r.FieldHeight:
		return fmt.Errorf("%w: terrain does not fit in field height %g", ErrInvalidRules, r.FieldHeight)
	case r.TankWidth <= 0 || r.TankHeight <= 0:
		return fmt.Errorf("%w: tank must be positive, got %gx%g", ErrInvalidRules, r.TankWidth, r.TankHeight)
	case r.FieldWidth/2 <= 1.5*r.TankWidth:
		return fmt.Errorf("%w: field width %g too narrow for tank width %g", ErrInvalidRules, r.FieldWidth, r.TankWidth)
	case r.MaxPower < 1:
		return fmt.Errorf("%w: max power must be >= 1, got %g", ErrInvalidRules, r.MaxPower)
	case r.StartPower < 1 || r.StartPower > r.MaxPower:
		return fmt.Errorf("%w: start power %g outside [1, %g]", ErrInvalidRules, r.StartPower, r.MaxPower)
	case r.StartAngle < 0 || r.StartAngle > 90:
		return fmt.Errorf("%w: start angle %g outside [0, 90]", ErrInvalidRules, r.StartAngle)
	case r.StartHealth <= 0:
		return fmt.Errorf("%w: start health must be positive, got %d", ErrInvalidRules, r.StartHealth)
	case r.MaxDamage < 0 || r.SettleTicks < 0 || r.Gravity < 0:
		return fmt.Errorf("%w: damage, settle ticks and gravity must be >= 0", ErrInvalidRules)
	case r.TickRate <= 0:
		return fmt.Errorf("%w: tick rate must be positive, got %d", ErrInvalidRules, r.TickRate)
	case r.SpawnLeft <= 0 || r.SpawnLeft >= 0.5 || r.SpawnRight <= 0.5 || r.SpawnRight >= 1:
		return fmt.Errorf("%w: spawn fractions must lie in their home halves", ErrInvalidRules)
	case r.FieldWidth*r.SpawnLeft < r.TankWidth/2 || r.FieldWidth*r.SpawnLeft > r.Midpoint()-r.TankWidth:
		return fmt.Errorf("%w: left spawn %g outside [%g, %g]", ErrInvalidRules,
			r.FieldWidth*r.SpawnLeft, r.TankWidth/2, r.Midpoint()-r.TankWidth)
	case r.FieldWidth*r.SpawnRight < r.Midpoint()+r.TankWidth || r.FieldWidth*r.SpawnRight > r.FieldWidth-r.TankWidth/2:
		return fmt.Errorf("%w: right spawn %g outside [%g, %g]", ErrInvalidRules,
			r.FieldWidth*r.SpawnRight, r.Midpoint()+r.TankWidth, r.FieldWidth-r.TankWidth/2)
	}
	return nil
}
