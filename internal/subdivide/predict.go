package subdivide

import (
	"math"

	"meshrefine/internal/mesh"
)

// Forecast is the size of a mesh after some number of refinement levels.
type Forecast struct {
	Vertices int `json:"vertices"`
	Faces    int `json:"faces"`
	Edges    int `json:"edges"`
}

// Predict forecasts the output size of Repeat(in, levels) from the input's
// statistics without running it. Each level maps (V, F, E) to
// (V+E, 4F, 2E+3F). Counts saturate at math.MaxInt.
func Predict(s mesh.Stats, levels int) Forecast {
	f := Forecast{Vertices: s.Vertices, Faces: s.Faces, Edges: s.Edges}
	for l := 0; l < levels; l++ {
		f = Forecast{
			Vertices: satAdd(f.Vertices, f.Edges),
			Faces:    satMul(f.Faces, 4),
			Edges:    satAdd(satMul(f.Edges, 2), satMul(f.Faces, 3)),
		}
	}
	return f
}

func satAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func satMul(a, k int) int {
	if a > math.MaxInt/k {
		return math.MaxInt
	}
	return a * k
}
