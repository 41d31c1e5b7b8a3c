package game

import (
	"math"
	"math/rand/v2"
	"sort"
)

type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Terrain is a piecewise-linear skyline. Y grows downward, so a smaller Y is
// higher ground.
type Terrain struct {
	Points []Point `json:"points" msgpack:"points"`
	Ground float64 `json:"ground" msgpack:"ground"` // height outside the sampled range
}

// GenerateTerrain samples segments+1 evenly spaced heights, each raised by a
// uniform offset in [0, maxVariation) above the base ground line.
func GenerateTerrain(rng *rand.Rand, width, height float64, segments int, groundHeight, maxVariation float64) Terrain {
	ground := height - groundHeight
	points := make([]Point, segments+1)
	segWidth := width / float64(segments)
	for i := range points {
		points[i] = Point{
			X: float64(i) * segWidth,
			Y: ground - rng.Float64()*maxVariation,
		}
	}
	points[segments].X = width
	return Terrain{Points: points, Ground: ground}
}

// FlatTerrain returns a two-point profile at constant height y.
func FlatTerrain(width, y float64) Terrain {
	return Terrain{
		Points: []Point{{X: 0, Y: y}, {X: width, Y: y}},
		Ground: y,
	}
}

// HeightAt interpolates the terrain height at x. It panics on a profile with
// fewer than two points, which only a generation bug can produce.
func (t Terrain) HeightAt(x float64) float64 {
	n := len(t.Points)
	if n < 2 {
		panic("game: terrain profile needs at least 2 points")
	}
	if math.IsNaN(x) || x < t.Points[0].X || x > t.Points[n-1].X {
		return t.Ground
	}
	i := sort.Search(n, func(i int) bool { return t.Points[i].X >= x })
	if i == 0 {
		return t.Points[0].Y
	}
	p1, p2 := t.Points[i-1], t.Points[i]
	ratio := (x - p1.X) / (p2.X - p1.X)
	return p1.Y + ratio*(p2.Y-p1.Y)
}
