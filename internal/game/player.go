package game

const (
	colorPlayer1 = "#e94560"
	colorPlayer2 = "#0f3460"
)

func NewPlayer(id int, name string, r Rules) Player {
	p := Player{
		ID:     id,
		Name:   name,
		Power:  r.StartPower,
		Health: r.StartHealth,
	}
	if id == 1 {
		p.Position = r.FieldWidth * r.SpawnLeft
		p.Color = colorPlayer1
	} else {
		p.Position = r.FieldWidth * r.SpawnRight
		p.Color = colorPlayer2
	}
	p.Angle = p.angleFromElevation(r.StartAngle)
	return p
}

// Facing is +1 for the left tank (fires right) and -1 for the right tank.
func (p Player) Facing() float64 {
	if p.ID == 1 {
		return 1
	}
	return -1
}

// Elevation is the barrel angle above the horizon the tank faces, in [0, 90].
func (p Player) Elevation() float64 {
	f := p.Facing()
	return 90 - f*(90-p.Angle)
}

func (p Player) angleFromElevation(e float64) float64 {
	f := p.Facing()
	return 90 - f*(90-e)
}

// AngleRange is [0,90] for player 1 and [90,180] for player 2.
func (p Player) AngleRange() (lo, hi float64) {
	a, b := p.angleFromElevation(0), p.angleFromElevation(90)
	return min(a, b), max(a, b)
}

func (p *Player) AdjustAngle(delta float64) {
	lo, hi := p.AngleRange()
	p.Angle = clamp(p.Angle+delta, lo, hi)
}

func (p *Player) AdjustPower(delta float64, r Rules) {
	p.Power = clamp(p.Power+delta, 1, r.MaxPower)
}

// Move shifts the tank one step and keeps it inside the field and its own
// half, at least a tank width away from the midpoint.
func (p *Player) Move(dir Direction, r Rules) {
	x := p.Position + float64(dir)*r.MoveStep
	x = clamp(x, r.TankWidth/2, r.FieldWidth-r.TankWidth/2)
	if p.Facing() > 0 {
		x = min(r.Midpoint()-r.TankWidth, x)
	} else {
		x = max(r.Midpoint()+r.TankWidth, x)
	}
	p.Position = x
}

// Hit applies damage and returns the remaining health.
func (p *Player) Hit(damage int) int {
	p.Health = max(0, p.Health-damage)
	return p.Health
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
