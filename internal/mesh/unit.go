package mesh

import "fmt"

// Unit is a fixed-arity connectivity record: the vertex handles that define
// one face, segment or other topological element.
type Unit interface {
	// Arity returns the number of vertex handles in the unit.
	Arity() int
	// VertexAt returns the handle at local index i, or an error matching
	// ErrIncorrectUnitIndex when i is outside [0, Arity()).
	VertexAt(i int) (VertexID, error)
}

// ForEachVertex calls fn with every handle of u in local index order.
func ForEachVertex(u Unit, fn func(VertexID)) error {
	for i := 0; i < u.Arity(); i++ {
		v, err := u.VertexAt(i)
		if err != nil {
			return err
		}
		fn(v)
	}
	return nil
}

// Face is the connectivity of one triangle, in winding order.
type Face [3]VertexID

// NewFace returns the face (a, b, c).
func NewFace(a, b, c VertexID) Face { return Face{a, b, c} }

// Arity is always 3.
func (f Face) Arity() int { return 3 }

// VertexAt returns corner i of the triangle.
func (f Face) VertexAt(i int) (VertexID, error) {
	if i < 0 || i >= len(f) {
		return VertexID{}, &UnitIndexError{Index: i, Arity: len(f)}
	}
	return f[i], nil
}

// Edges returns the keys of the edges (a,b), (b,c) and (c,a), in that order.
func (f Face) Edges() [3]EdgeKey {
	return [3]EdgeKey{
		NewEdgeKey(f[0], f[1]),
		NewEdgeKey(f[1], f[2]),
		NewEdgeKey(f[2], f[0]),
	}
}

func (f Face) String() string { return fmt.Sprintf("(%s, %s, %s)", f[0], f[1], f[2]) }
