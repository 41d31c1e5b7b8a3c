package game

import "math"

// CheckImpact resolves the shell's position after integration. Terrain wins
// over tanks on the same tick, tanks are tested in slot order (a shooter can
// hit its own tank), and leaving the field ends the flight without damage.
func CheckImpact(p Projectile, t Terrain, players []Player, r Rules) Impact {
	if ground := t.HeightAt(p.X); p.Y >= ground {
		return Impact{Kind: ImpactTerrain, X: p.X, Y: ground}
	}

	for _, pl := range players {
		if hitsTank(p, pl, t, r) {
			return Impact{Kind: ImpactTank, PlayerID: pl.ID, X: p.X, Y: p.Y}
		}
	}

	if p.X < 0 || p.X > r.FieldWidth || p.Y > r.FieldHeight {
		return Impact{Kind: ImpactMiss, X: p.X, Y: p.Y}
	}
	return Impact{Kind: ImpactNone}
}

func hitsTank(p Projectile, pl Player, t Terrain, r Rules) bool {
	halfW := r.TankWidth / 2
	if p.X < pl.Position-halfW || p.X > pl.Position+halfW {
		return false
	}
	base := t.HeightAt(pl.Position)
	return p.Y >= base-r.TankHeight-r.MuzzleClearance && p.Y <= base
}

// Damage falls off linearly from MaxDamage at the tank centre to zero at its
// edge.
func Damage(impactX, tankX float64, r Rules) int {
	dist := math.Abs(impactX - tankX)
	mult := 1 - dist/(r.TankWidth/2)
	return max(0, int(math.Floor(r.MaxDamage*mult)))
}
