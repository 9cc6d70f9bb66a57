// Package mesh holds the arena-backed triangle mesh and the capability
// interfaces generic mesh algorithms are written against.
//
// Vertices and faces are addressed by opaque handles (VertexID, FaceID) that
// are offsets into append-only arenas. Handles are comparable and ordered but
// expose no arithmetic; use Index to get at the raw offset.
package mesh

import (
	"fmt"
	"math"
)

// VertexID addresses one vertex in a mesh's vertex arena.
type VertexID struct {
	idx uint32
}

// NewVertexID returns the handle for arena offset i.
// It panics if i is negative or does not fit in 32 bits.
func NewVertexID(i int) VertexID {
	return VertexID{idx: toIndex(i)}
}

// Index returns the raw arena offset.
func (v VertexID) Index() int { return int(v.idx) }

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to or after o.
func (v VertexID) Compare(o VertexID) int { return cmpIndex(v.idx, o.idx) }

// Less reports whether v sorts before o.
func (v VertexID) Less(o VertexID) bool { return v.idx < o.idx }

func (v VertexID) String() string { return fmt.Sprintf("v%d", v.idx) }

// FaceID addresses one face in a mesh's face arena.
type FaceID struct {
	idx uint32
}

// NewFaceID returns the handle for arena offset i.
// It panics if i is negative or does not fit in 32 bits.
func NewFaceID(i int) FaceID {
	return FaceID{idx: toIndex(i)}
}

// Index returns the raw arena offset.
func (f FaceID) Index() int { return int(f.idx) }

// Compare returns -1, 0 or +1 depending on whether f sorts before, equal to or after o.
func (f FaceID) Compare(o FaceID) int { return cmpIndex(f.idx, o.idx) }

// Less reports whether f sorts before o.
func (f FaceID) Less(o FaceID) bool { return f.idx < o.idx }

func (f FaceID) String() string { return fmt.Sprintf("f%d", f.idx) }

func toIndex(i int) uint32 {
	if i < 0 || uint64(i) > math.MaxUint32 {
		panic(fmt.Sprintf("mesh: handle index %d out of range", i))
	}
	return uint32(i)
}

func cmpIndex(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
