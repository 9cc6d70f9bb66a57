package mesh

import "iter"

// Mesh is an append-only triangle mesh stored as two arenas: vertex
// positions and face corner triples. The zero value is an empty mesh
// ready to use.
type Mesh[P any] struct {
	verts []P
	faces []Face
}

// New returns an empty mesh with room for the given number of vertices and faces.
func New[P any](vertexCap, faceCap int) *Mesh[P] {
	return &Mesh[P]{
		verts: make([]P, 0, vertexCap),
		faces: make([]Face, 0, faceCap),
	}
}

// Copy builds an arena mesh with the same vertices and faces as r.
func Copy[P any](r Reader[P]) (*Mesh[P], error) {
	m := New[P](r.NumVertices(), r.NumFaces())
	for i := 0; i < r.NumVertices(); i++ {
		p, err := r.Vertex(NewVertexID(i))
		if err != nil {
			return nil, err
		}
		m.verts = append(m.verts, p)
	}
	for i := 0; i < r.NumFaces(); i++ {
		id := NewFaceID(i)
		f, err := r.FaceTopology(id)
		if err != nil {
			return nil, err
		}
		if _, err := m.Connect(f[0], f[1], f[2]); err != nil {
			return nil, &TopologyError{Face: id, Err: err}
		}
	}
	return m, nil
}

// Clone returns a deep copy of m.
func (m *Mesh[P]) Clone() *Mesh[P] {
	return &Mesh[P]{
		verts: append([]P(nil), m.verts...),
		faces: append([]Face(nil), m.faces...),
	}
}

func (m *Mesh[P]) NumVertices() int { return len(m.verts) }

func (m *Mesh[P]) NumFaces() int { return len(m.faces) }

func (m *Mesh[P]) Vertex(id VertexID) (P, error) {
	if id.Index() >= len(m.verts) {
		var zero P
		return zero, &VertexIDError{ID: id, NumVertices: len(m.verts)}
	}
	return m.verts[id.Index()], nil
}

func (m *Mesh[P]) FaceTopology(id FaceID) (Face, error) {
	if id.Index() >= len(m.faces) {
		return Face{}, &FaceIDError{ID: id, NumFaces: len(m.faces)}
	}
	return m.faces[id.Index()], nil
}

func (m *Mesh[P]) FacePositions(id FaceID) (P, P, P, error) {
	return FacePositions[P](m, id)
}

func (m *Mesh[P]) AddVertex(p P) VertexID {
	m.verts = append(m.verts, p)
	return NewVertexID(len(m.verts) - 1)
}

func (m *Mesh[P]) AddFace(p1, p2, p3 P) FaceID {
	a := m.AddVertex(p1)
	b := m.AddVertex(p2)
	c := m.AddVertex(p3)
	m.faces = append(m.faces, Face{a, b, c})
	return NewFaceID(len(m.faces) - 1)
}

func (m *Mesh[P]) Connect(v1, v2, v3 VertexID) (FaceID, error) {
	for _, v := range [3]VertexID{v1, v2, v3} {
		if v.Index() >= len(m.verts) {
			return FaceID{}, &VertexIDError{ID: v, NumVertices: len(m.verts)}
		}
	}
	m.faces = append(m.faces, Face{v1, v2, v3})
	return NewFaceID(len(m.faces) - 1), nil
}

// ChangeVertex replaces the position of an existing vertex.
func (m *Mesh[P]) ChangeVertex(id VertexID, p P) error {
	if id.Index() >= len(m.verts) {
		return &VertexIDError{ID: id, NumVertices: len(m.verts)}
	}
	m.verts[id.Index()] = p
	return nil
}

// Vertices iterates the vertex arena in id order.
func (m *Mesh[P]) Vertices() iter.Seq2[VertexID, P] {
	return func(yield func(VertexID, P) bool) {
		for i, p := range m.verts {
			if !yield(NewVertexID(i), p) {
				return
			}
		}
	}
}

// Faces iterates the face arena in id order.
func (m *Mesh[P]) Faces() iter.Seq2[FaceID, Face] {
	return func(yield func(FaceID, Face) bool) {
		for i, f := range m.faces {
			if !yield(NewFaceID(i), f) {
				return
			}
		}
	}
}
