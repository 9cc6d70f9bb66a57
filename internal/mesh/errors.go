package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidVertexID is returned when a vertex handle is >= NumVertices.
	ErrInvalidVertexID = errors.New("mesh: invalid vertex id")

	// ErrInvalidFaceID is returned when a face handle is >= NumFaces.
	ErrInvalidFaceID = errors.New("mesh: invalid face id")

	// ErrIncorrectUnitIndex is returned when a topology unit is queried beyond its arity.
	ErrIncorrectUnitIndex = errors.New("mesh: incorrect unit index")

	// ErrInvalidTopology is returned when a face does not resolve to three valid vertices.
	ErrInvalidTopology = errors.New("mesh: invalid topology")

	// ErrDegenerateFace is returned when a face names the same vertex twice.
	ErrDegenerateFace = errors.New("mesh: degenerate face")

	// ErrUndefinedMidpoint is returned when a position type cannot produce an edge midpoint.
	ErrUndefinedMidpoint = errors.New("mesh: undefined midpoint")
)

// VertexIDError reports a vertex handle outside the vertex arena.
type VertexIDError struct {
	ID          VertexID
	NumVertices int
}

func (e *VertexIDError) Error() string {
	return fmt.Sprintf("mesh: invalid vertex id %s (mesh has %d vertices)", e.ID, e.NumVertices)
}

func (e *VertexIDError) Unwrap() error { return ErrInvalidVertexID }

// FaceIDError reports a face handle outside the face arena.
type FaceIDError struct {
	ID       FaceID
	NumFaces int
}

func (e *FaceIDError) Error() string {
	return fmt.Sprintf("mesh: invalid face id %s (mesh has %d faces)", e.ID, e.NumFaces)
}

func (e *FaceIDError) Unwrap() error { return ErrInvalidFaceID }

// UnitIndexError reports a local index outside a topology unit's arity.
type UnitIndexError struct {
	Index int
	Arity int
}

func (e *UnitIndexError) Error() string {
	return fmt.Sprintf("mesh: unit index %d out of range for arity %d", e.Index, e.Arity)
}

func (e *UnitIndexError) Unwrap() error { return ErrIncorrectUnitIndex }

// TopologyError reports a face that could not be resolved to three vertices.
//
// It matches both ErrInvalidTopology and the underlying cause under errors.Is.
type TopologyError struct {
	Face FaceID
	Err  error
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("mesh: invalid topology at face %s: %v", e.Face, e.Err)
}

func (e *TopologyError) Unwrap() []error { return []error{ErrInvalidTopology, e.Err} }

// MidpointError reports an edge whose midpoint could not be computed.
//
// It matches both ErrUndefinedMidpoint and the underlying cause under errors.Is.
type MidpointError struct {
	Edge EdgeKey
	Err  error
}

func (e *MidpointError) Error() string {
	return fmt.Sprintf("mesh: undefined midpoint for edge %s: %v", e.Edge, e.Err)
}

func (e *MidpointError) Unwrap() []error { return []error{ErrUndefinedMidpoint, e.Err} }
