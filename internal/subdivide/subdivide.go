// Package subdivide refines triangle meshes by splitting every face into
// four, inserting one new vertex at the midpoint of each distinct edge.
//
// The refinement is purely combinatorial: existing vertices keep their
// positions and ids, so output vertex i equals input vertex i for every i
// below the input vertex count. Faces that share an edge share its midpoint.
package subdivide

import (
	"errors"
	"fmt"

	"meshrefine/internal/mesh"
)

// ErrNegativeLevels is returned by Repeat for a negative level count.
var ErrNegativeLevels = errors.New("subdivide: negative level count")

// Midpointer is implemented by position types that can produce the point
// halfway to another. Midpoint must fail rather than invent a value when
// no midpoint exists.
type Midpointer[P any] interface {
	Midpoint(other P) (P, error)
}

// Writable constrains M so that *M is a mesh.Writer and the zero M is an
// empty mesh.
type Writable[P, M any] interface {
	*M
	mesh.Writer[P]
}

// Linear subdivides in once into a new arena mesh.
func Linear[P Midpointer[P]](in mesh.Reader[P]) (*mesh.Mesh[P], error) {
	return LinearInto[P, mesh.Mesh[P]](in)
}

// LinearInto subdivides in once into a fresh zero-valued M.
//
// Each input face (a, b, c) becomes (a, ab, ca), (ab, b, bc), (ab, bc, ca)
// and (ca, bc, c), preserving winding. A face that repeats a vertex fails
// with a *mesh.TopologyError matching mesh.ErrDegenerateFace. On error the
// partially built output is dropped and nil is returned.
func LinearInto[P Midpointer[P], M any, PM Writable[P, M]](in mesh.Reader[P]) (*M, error) {
	out := PM(new(M))

	nv := in.NumVertices()
	for i := 0; i < nv; i++ {
		p, err := in.Vertex(mesh.NewVertexID(i))
		if err != nil {
			return nil, err
		}
		if id := out.AddVertex(p); id.Index() != i {
			return nil, fmt.Errorf("subdivide: output minted %s for input vertex %d, want an empty output: %w",
				id, i, mesh.ErrInvalidVertexID)
		}
	}

	nf := in.NumFaces()
	mids := newMidpoints[P](nf)
	for i := 0; i < nf; i++ {
		fid := mesh.NewFaceID(i)
		f, ps, err := resolve(in, fid)
		if err != nil {
			return nil, &mesh.TopologyError{Face: fid, Err: err}
		}
		a, b, c := f[0], f[1], f[2]
		if a == b || b == c || c == a {
			return nil, &mesh.TopologyError{Face: fid, Err: fmt.Errorf("%w %s", mesh.ErrDegenerateFace, f)}
		}

		ab, err := mids.get(out, a, b, ps[0], ps[1])
		if err != nil {
			return nil, err
		}
		bc, err := mids.get(out, b, c, ps[1], ps[2])
		if err != nil {
			return nil, err
		}
		ca, err := mids.get(out, c, a, ps[2], ps[0])
		if err != nil {
			return nil, err
		}

		for _, t := range [4]mesh.Face{
			{a, ab, ca},
			{ab, b, bc},
			{ab, bc, ca},
			{ca, bc, c},
		} {
			if _, err := out.Connect(t[0], t[1], t[2]); err != nil {
				return nil, fmt.Errorf("subdivide: emit face for %s: %w", fid, err)
			}
		}
	}

	return (*M)(out), nil
}

// Repeat applies Linear levels times. Zero levels yields a copy of in.
func Repeat[P Midpointer[P]](in mesh.Reader[P], levels int) (*mesh.Mesh[P], error) {
	if levels < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLevels, levels)
	}
	if levels == 0 {
		return mesh.Copy(in)
	}

	cur, err := Linear(in)
	if err != nil {
		return nil, err
	}
	for l := 1; l < levels; l++ {
		if cur, err = Linear[P](cur); err != nil {
			return nil, fmt.Errorf("subdivide: level %d: %w", l+1, err)
		}
	}
	return cur, nil
}

// resolve looks up the corners and corner positions of face id.
func resolve[P any](in mesh.Reader[P], id mesh.FaceID) (mesh.Face, [3]P, error) {
	var ps [3]P
	f, err := in.FaceTopology(id)
	if err != nil {
		return f, ps, err
	}
	for k := range ps {
		v, err := f.VertexAt(k)
		if err != nil {
			return f, ps, err
		}
		if ps[k], err = in.Vertex(v); err != nil {
			return f, ps, err
		}
	}
	return f, ps, nil
}
