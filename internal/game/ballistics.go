package game

import "math"

// Launch builds the shell fired by p. Elevation is measured from the horizon
// the tank faces, so one formula serves both sides of the field.
func Launch(p Player, t Terrain, r Rules) Projectile {
	rad := p.Elevation() * math.Pi / 180
	return Projectile{
		X:      p.Position,
		Y:      t.HeightAt(p.Position) - r.TankHeight - r.MuzzleClearance,
		VX:     p.Facing() * p.Power * math.Cos(rad),
		VY:     -p.Power * math.Sin(rad),
		Active: true,
	}
}

// StepProjectile advances the shell by dt ticks: position first with the old
// velocity, then gravity.
func StepProjectile(p Projectile, gravity, dt float64) Projectile {
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.VY += gravity * dt
	return p
}
