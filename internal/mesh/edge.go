package mesh

import "fmt"

// EdgeKey identifies an undirected edge. Both traversal directions of the
// same edge produce the same key: the lower handle is always stored first.
type EdgeKey struct {
	lo, hi VertexID
}

// NewEdgeKey returns the canonical key for the edge between a and b.
func NewEdgeKey(a, b VertexID) EdgeKey {
	if b.Less(a) {
		a, b = b, a
	}
	return EdgeKey{lo: a, hi: b}
}

// Lo returns the smaller endpoint.
func (e EdgeKey) Lo() VertexID { return e.lo }

// Hi returns the larger endpoint.
func (e EdgeKey) Hi() VertexID { return e.hi }

// Arity is always 2; an edge is a segment unit.
func (e EdgeKey) Arity() int { return 2 }

// VertexAt returns Lo for 0 and Hi for 1.
func (e EdgeKey) VertexAt(i int) (VertexID, error) {
	switch i {
	case 0:
		return e.lo, nil
	case 1:
		return e.hi, nil
	}
	return VertexID{}, &UnitIndexError{Index: i, Arity: 2}
}

func (e EdgeKey) String() string { return fmt.Sprintf("%s-%s", e.lo, e.hi) }
