package bmd

import (
	"fmt"

	"meshrefine/internal/mathutil"
	"meshrefine/internal/mesh"
)

type corner struct {
	vi, ti int16
}

// Triangulate converts the mesh into an arena mesh of Vertex. Quads are
// split into 0-1-2 and 0-2-3. Corners are deduplicated per (position,
// texcoord) index pair, so seams in UV space stay split.
//
// Triangles that name the same corner twice are dropped.
//
// A corner referencing a position outside Verts fails with an error matching
// mesh.ErrInvalidVertexID. A texcoord index outside UVs maps to UV (0, 0).
func (m *Mesh) Triangulate() (*mesh.Mesh[Vertex], error) {
	out := mesh.New[Vertex](len(m.Verts), len(m.Tris)*2)
	ids := make(map[corner]mesh.VertexID, len(m.Verts))

	lookup := func(tri, k int, c corner) (mesh.VertexID, error) {
		if c.vi < 0 || int(c.vi) >= len(m.Verts) {
			return mesh.VertexID{}, fmt.Errorf("bmd: triangle %d corner %d references vertex %d of %d: %w",
				tri, k, c.vi, len(m.Verts), mesh.ErrInvalidVertexID)
		}
		if c.ti < 0 || int(c.ti) >= len(m.UVs) {
			c.ti = -1
		}
		if id, ok := ids[c]; ok {
			return id, nil
		}
		v := Vertex{Pos: mathutil.Vec3From(m.Verts[c.vi])}
		if c.ti >= 0 {
			v.UV = mathutil.Vec2From(m.UVs[c.ti])
		}
		id := out.AddVertex(v)
		ids[c] = id
		return id, nil
	}

	for j, tri := range m.Tris {
		var corners [4]mesh.VertexID
		n := 3
		if tri.Polygon == 4 {
			n = 4
		}
		for k := 0; k < n; k++ {
			id, err := lookup(j, k, corner{vi: tri.VI[k], ti: tri.TI[k]})
			if err != nil {
				return nil, err
			}
			corners[k] = id
		}

		if err := connect(out, corners[0], corners[1], corners[2]); err != nil {
			return nil, err
		}
		if n == 4 {
			if err := connect(out, corners[0], corners[2], corners[3]); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// connect adds the face unless it collapses onto fewer than three corners.
func connect(out *mesh.Mesh[Vertex], a, b, c mesh.VertexID) error {
	if a == b || b == c || c == a {
		return nil
	}
	_, err := out.Connect(a, b, c)
	return err
}
