package bmd

import (
	"fmt"

	"meshrefine/internal/mathutil"
)

// Model is one parsed BMD file.
type Model struct {
	Name   string
	Meshes []Mesh
	Bones  []Bone
}

// Triangle holds polygon type and index tuples into vertex/normal/texcoord arrays.
// Polygon == 4 means quad (two triangles: 0-1-2 and 0-2-3).
type Triangle struct {
	Polygon int
	VI      [4]int16
	NI      [4]int16
	TI      [4]int16
}

// Mesh holds the raw geometry of one sub-mesh within a BMD file.
type Mesh struct {
	Verts   [][3]float32 // vertex positions, mutable for bone transforms
	Nodes   []int16      // bone index per vertex
	Normals [][3]float32
	UVs     [][2]float32
	Tris    []Triangle
	TexPath string // texture reference from BMD (e.g. "sword04.jpg")
}

// Bone holds bind-pose data for one bone in the skeleton hierarchy.
type Bone struct {
	Name         string
	Parent       int
	IsDummy      bool
	BindPosition [3]float64
	BindRotation [3]float64 // Euler XYZ radians
}

// Vertex is the refinable payload of a triangulated BMD mesh: a position
// and its texture coordinate. Corners that share a position but not a
// texture coordinate become distinct vertices.
type Vertex struct {
	Pos mathutil.Vec3
	UV  mathutil.Vec2
}

// Midpoint interpolates both position and texture coordinate.
func (v Vertex) Midpoint(o Vertex) (Vertex, error) {
	pos, err := v.Pos.Midpoint(o.Pos)
	if err != nil {
		return Vertex{}, fmt.Errorf("bmd: position %w", err)
	}
	uv, err := v.UV.Midpoint(o.UV)
	if err != nil {
		return Vertex{}, fmt.Errorf("bmd: texcoord %w", err)
	}
	return Vertex{Pos: pos, UV: uv}, nil
}
