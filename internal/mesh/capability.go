package mesh

// Reader is the query surface of a triangle mesh with positions of type P.
// Implementations must not have side effects.
type Reader[P any] interface {
	NumVertices() int
	NumFaces() int
	// Vertex returns the position of id, or an error matching ErrInvalidVertexID.
	Vertex(id VertexID) (P, error)
	// FaceTopology returns the corners of id, or an error matching ErrInvalidFaceID.
	FaceTopology(id FaceID) (Face, error)
	// FacePositions returns the three corner positions of id. See the
	// package-level FacePositions for a ready-made implementation.
	FacePositions(id FaceID) (P, P, P, error)
}

// VertexEditor appends vertices to a mesh.
type VertexEditor[P any] interface {
	// AddVertex appends p and returns its newly minted handle.
	AddVertex(p P) VertexID
}

// FaceEditor appends faces to a mesh.
type FaceEditor[P any] interface {
	// AddFace appends three new vertices and one face referencing them.
	AddFace(p1, p2, p3 P) FaceID
	// Connect appends a face over three existing vertices. It fails with an
	// error matching ErrInvalidVertexID if any handle is not yet allocated,
	// in which case the mesh is left unchanged.
	Connect(v1, v2, v3 VertexID) (FaceID, error)
}

// Writer is the full construction surface used by mesh-producing algorithms.
type Writer[P any] interface {
	VertexEditor[P]
	FaceEditor[P]
}

type topologyReader[P any] interface {
	Vertex(id VertexID) (P, error)
	FaceTopology(id FaceID) (Face, error)
}

// FacePositions resolves the corners of face id through r. The first lookup
// error is returned unchanged.
func FacePositions[P any](r topologyReader[P], id FaceID) (P, P, P, error) {
	var zero P
	f, err := r.FaceTopology(id)
	if err != nil {
		return zero, zero, zero, err
	}
	var ps [3]P
	for i := range ps {
		v, err := f.VertexAt(i)
		if err != nil {
			return zero, zero, zero, err
		}
		if ps[i], err = r.Vertex(v); err != nil {
			return zero, zero, zero, err
		}
	}
	return ps[0], ps[1], ps[2], nil
}
