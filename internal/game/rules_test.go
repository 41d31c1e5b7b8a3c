package game

import (
	"errors"
	"testing"
)

func TestDefaultRulesAreValid(t *testing.T) {
	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Rules)
	}{
		{"no segments", func(r *Rules) { r.TerrainSegments = 0 }},
		{"terrain taller than field", func(r *Rules) { r.GroundHeight = 650 }},
		{"start power above max", func(r *Rules) { r.StartPower = 20 }},
		{"zero tick rate", func(r *Rules) { r.TickRate = 0 }},
		{"left spawn past its movement cap", func(r *Rules) { r.SpawnLeft = 0.49 }},
		{"right spawn past its movement cap", func(r *Rules) { r.SpawnRight = 0.51 }},
		{"left spawn off the field edge", func(r *Rules) { r.SpawnLeft = 0.001 }},
		{"right spawn off the field edge", func(r *Rules) { r.SpawnRight = 0.999 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := DefaultRules()
			c.modify(&r)
			if err := r.Validate(); !errors.Is(err, ErrInvalidRules) {
				t.Errorf("Validate = %v, want ErrInvalidRules", err)
			}
		})
	}
}

func TestValidateAcceptsSpawnNearMidpoint(t *testing.T) {
	r := DefaultRules()
	r.SpawnLeft, r.SpawnRight = 0.48, 0.52
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
