package subdivide

import "meshrefine/internal/mesh"

// midpoints caches the vertex inserted for each undirected edge during one
// subdivision call, so faces sharing an edge share its midpoint.
type midpoints[P Midpointer[P]] struct {
	ids map[mesh.EdgeKey]mesh.VertexID
}

func newMidpoints[P Midpointer[P]](faces int) *midpoints[P] {
	// A closed triangulated surface has 3F/2 edges.
	return &midpoints[P]{ids: make(map[mesh.EdgeKey]mesh.VertexID, faces*3/2)}
}

func (m *midpoints[P]) get(out mesh.VertexEditor[P], a, b mesh.VertexID, pa, pb P) (mesh.VertexID, error) {
	key := mesh.NewEdgeKey(a, b)
	if id, ok := m.ids[key]; ok {
		return id, nil
	}

	// Always derive from the canonical endpoint order so the result does
	// not depend on which face reached the edge first.
	lo, hi := pa, pb
	if key.Lo() != a {
		lo, hi = pb, pa
	}
	p, err := lo.Midpoint(hi)
	if err != nil {
		return mesh.VertexID{}, &mesh.MidpointError{Edge: key, Err: err}
	}

	id := out.AddVertex(p)
	m.ids[key] = id
	return id, nil
}
