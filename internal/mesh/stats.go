package mesh

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Stats summarizes the combinatorial structure of a mesh.
type Stats struct {
	Vertices         int `json:"vertices"`
	Faces            int `json:"faces"`
	Edges            int `json:"edges"`
	BoundaryEdges    int `json:"boundary_edges"`
	NonManifoldEdges int `json:"non_manifold_edges"`
	Unreferenced     int `json:"unreferenced_vertices"`
}

// Closed reports whether every edge is shared by exactly two faces.
func (s Stats) Closed() bool {
	return s.Edges > 0 && s.BoundaryEdges == 0 && s.NonManifoldEdges == 0
}

// Add returns the field-wise sum of s and o, for totals over the meshes of
// one model.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Vertices:         s.Vertices + o.Vertices,
		Faces:            s.Faces + o.Faces,
		Edges:            s.Edges + o.Edges,
		BoundaryEdges:    s.BoundaryEdges + o.BoundaryEdges,
		NonManifoldEdges: s.NonManifoldEdges + o.NonManifoldEdges,
		Unreferenced:     s.Unreferenced + o.Unreferenced,
	}
}

// Validate resolves every face of r and returns the first structural error
// as a *TopologyError.
func Validate[P any](r Reader[P]) error {
	for i := 0; i < r.NumFaces(); i++ {
		id := NewFaceID(i)
		if _, _, _, err := r.FacePositions(id); err != nil {
			return &TopologyError{Face: id, Err: err}
		}
	}
	return nil
}

// Edges returns every distinct undirected edge of r with the number of faces using it.
func Edges[P any](r Reader[P]) (map[EdgeKey]int, error) {
	edges := make(map[EdgeKey]int, r.NumFaces()*3/2)
	for i := 0; i < r.NumFaces(); i++ {
		id := NewFaceID(i)
		f, err := r.FaceTopology(id)
		if err != nil {
			return nil, &TopologyError{Face: id, Err: err}
		}
		for _, e := range f.Edges() {
			edges[e]++
		}
	}
	return edges, nil
}

// Summarize validates r and counts its edges and unreferenced vertices.
func Summarize[P any](r Reader[P]) (Stats, error) {
	if err := Validate(r); err != nil {
		return Stats{}, err
	}
	edges, err := Edges(r)
	if err != nil {
		return Stats{}, err
	}

	s := Stats{
		Vertices: r.NumVertices(),
		Faces:    r.NumFaces(),
		Edges:    len(edges),
	}
	used := roaring.New()
	for e, n := range edges {
		switch {
		case n == 1:
			s.BoundaryEdges++
		case n > 2:
			s.NonManifoldEdges++
		}
		used.Add(uint32(e.Lo().Index()))
		used.Add(uint32(e.Hi().Index()))
	}
	s.Unreferenced = s.Vertices - int(used.GetCardinality())
	return s, nil
}

// Unreferenced returns the vertices of r that no face uses, in id order.
func Unreferenced[P any](r Reader[P]) ([]VertexID, error) {
	used := roaring.New()
	for i := 0; i < r.NumFaces(); i++ {
		id := NewFaceID(i)
		f, err := r.FaceTopology(id)
		if err != nil {
			return nil, &TopologyError{Face: id, Err: err}
		}
		for _, v := range f {
			used.Add(uint32(v.Index()))
		}
	}
	unused := roaring.Flip(used, 0, uint64(r.NumVertices()))
	ids := make([]VertexID, 0, unused.GetCardinality())
	it := unused.Iterator()
	for it.HasNext() {
		ids = append(ids, NewVertexID(int(it.Next())))
	}
	return ids, nil
}
