package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/vladimirvolkov/artillery/internal/game"
)

type options struct {
	seed   uint64
	player int
	angle  float64
	power  float64
	flat   float64
	every  int
	limit  int
}

func main() {
	var o options
	flag.Uint64Var(&o.seed, "seed", 42, "terrain seed")
	flag.IntVar(&o.player, "player", 1, "shooter (1 or 2)")
	flag.Float64Var(&o.angle, "angle", -1, "absolute barrel angle in degrees (default: rule start angle)")
	flag.Float64Var(&o.power, "power", -1, "launch power (default: rule start power)")
	flag.Float64Var(&o.flat, "flat", 0, "use flat ground at this height instead of generated terrain")
	flag.IntVar(&o.every, "every", 10, "print every Nth tick")
	flag.IntVar(&o.limit, "max-ticks", 10000, "give up after this many ticks")
	flag.Parse()

	if err := run(os.Stdout, o); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(w io.Writer, o options) error {
	if o.player != 1 && o.player != 2 {
		return fmt.Errorf("-player must be 1 or 2, got %d", o.player)
	}
	if o.every <= 0 {
		return fmt.Errorf("-every must be > 0")
	}

	rules := game.DefaultRules()
	duel := game.NewDuel(rules, o.seed, [2]string{"Player 1", "Player 2"})
	if o.flat > 0 {
		duel.SetTerrain(game.FlatTerrain(rules.FieldWidth, o.flat))
	}

	// spend player 1's turn on the default shot
	if o.player == 2 {
		duel.Fire()
		for i := 0; i < o.limit && duel.Snapshot().Phase != game.PhaseWaiting; i++ {
			duel.Tick(1)
		}
		if s := duel.Snapshot(); s.Current != 2 {
			return fmt.Errorf("could not hand the turn to player 2 (phase %s)", s.Phase)
		}
	}

	s := duel.Snapshot()
	shooter := s.Player(o.player)
	if o.angle >= 0 {
		duel.AdjustAngle(o.angle - shooter.Angle)
	}
	if o.power >= 0 {
		duel.AdjustPower(o.power - shooter.Power)
	}
	s = duel.Snapshot()
	shooter = s.Player(o.player)

	fmt.Fprintf(w, "=== Trajectory ===\n")
	fmt.Fprintf(w, "seed=%d player=%d position=%.1f angle=%.1f power=%.1f\n\n",
		o.seed, o.player, shooter.Position, shooter.Angle, shooter.Power)

	for _, e := range duel.Fire() {
		fmt.Fprintf(w, "[T=%04d] %-11s (%.1f, %.1f)\n", 0, e.Kind, e.X, e.Y)
	}
	for tick := 1; tick <= o.limit; tick++ {
		events := duel.Tick(1)
		s = duel.Snapshot()
		if s.Projectile.Active && tick%o.every == 0 {
			p := s.Projectile
			fmt.Fprintf(w, "[T=%04d] %-11s (%.1f, %.1f) v=(%.2f, %.2f)\n", tick, "flight", p.X, p.Y, p.VX, p.VY)
		}
		for _, e := range events {
			fmt.Fprintf(w, "[T=%04d] %-11s (%.1f, %.1f)", tick, e.Kind, e.X, e.Y)
			if e.Kind == game.EventTankHit {
				fmt.Fprintf(w, " player=%d damage=%d health=%d", e.PlayerID, e.Damage, e.Health)
			}
			fmt.Fprintln(w)
		}
		if len(events) > 0 {
			return nil
		}
	}
	return fmt.Errorf("no impact within %d ticks", o.limit)
}
