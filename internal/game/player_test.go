package game

import (
	"testing"

	"pgregory.net/rapid"
)

func TestNewPlayerDefaults(t *testing.T) {
	r := DefaultRules()
	p1 := NewPlayer(1, "a", r)
	p2 := NewPlayer(2, "b", r)

	if p1.Position != 480 || p2.Position != 1920 {
		t.Errorf("positions = %v, %v, want 480, 1920", p1.Position, p2.Position)
	}
	if p1.Angle != 45 || p2.Angle != 135 {
		t.Errorf("angles = %v, %v, want 45, 135", p1.Angle, p2.Angle)
	}
	if p1.Power != 8 || p1.Health != 100 {
		t.Errorf("power/health = %v/%v, want 8/100", p1.Power, p1.Health)
	}
	if p1.Facing() != 1 || p2.Facing() != -1 {
		t.Errorf("facing = %v, %v", p1.Facing(), p2.Facing())
	}
	if p2.Elevation() != 45 {
		t.Errorf("player 2 elevation = %v, want 45", p2.Elevation())
	}
}

func TestAngleStaysInHalfRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.SampledFrom([]int{1, 2}).Draw(t, "id")
		deltas := rapid.SliceOf(rapid.Float64Range(-400, 400)).Draw(t, "deltas")

		p := NewPlayer(id, "", DefaultRules())
		lo, hi := 0.0, 90.0
		if id == 2 {
			lo, hi = 90, 180
		}
		for _, d := range deltas {
			p.AdjustAngle(d)
			if p.Angle < lo || p.Angle > hi {
				t.Fatalf("player %d angle %f left [%f, %f]", id, p.Angle, lo, hi)
			}
		}
	})
}

func TestPowerStaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := DefaultRules()
		p := NewPlayer(rapid.IntRange(1, 2).Draw(t, "id"), "", r)
		for _, d := range rapid.SliceOf(rapid.Float64Range(-50, 50)).Draw(t, "deltas") {
			p.AdjustPower(d, r)
			if p.Power < 1 || p.Power > r.MaxPower {
				t.Fatalf("power %f outside [1, %f]", p.Power, r.MaxPower)
			}
		}
	})
}

func TestMoveNeverCrossesMidpoint(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := DefaultRules()
		id := rapid.IntRange(1, 2).Draw(t, "id")
		moves := rapid.SliceOf(rapid.SampledFrom([]Direction{Left, Right})).Draw(t, "moves")

		p := NewPlayer(id, "", r)
		for _, m := range moves {
			p.Move(m, r)
			if p.Position < r.TankWidth/2 || p.Position > r.FieldWidth-r.TankWidth/2 {
				t.Fatalf("position %f left the field", p.Position)
			}
			if id == 1 && p.Position > r.Midpoint()-r.TankWidth {
				t.Fatalf("player 1 at %f crossed into the right half", p.Position)
			}
			if id == 2 && p.Position < r.Midpoint()+r.TankWidth {
				t.Fatalf("player 2 at %f crossed into the left half", p.Position)
			}
		}
	})
}

func TestMoveClampsAtEdges(t *testing.T) {
	r := DefaultRules()
	p := NewPlayer(1, "", r)
	for i := 0; i < 200; i++ {
		p.Move(Left, r)
	}
	if p.Position != r.TankWidth/2 {
		t.Errorf("left edge = %v, want %v", p.Position, r.TankWidth/2)
	}
	for i := 0; i < 200; i++ {
		p.Move(Right, r)
	}
	if p.Position != r.Midpoint()-r.TankWidth {
		t.Errorf("player 1 right cap = %v, want %v", p.Position, r.Midpoint()-r.TankWidth)
	}
}

func TestHitFloorsAtZero(t *testing.T) {
	p := NewPlayer(1, "", DefaultRules())
	if got := p.Hit(30); got != 70 {
		t.Errorf("Hit(30) = %d, want 70", got)
	}
	if got := p.Hit(500); got != 0 {
		t.Errorf("Hit(500) = %d, want 0", got)
	}
}
