package mesh

// Components counts the connected pieces of r, where two faces are connected
// when they share a vertex. Vertices no face references are not counted.
func Components[P any](r Reader[P]) (int, error) {
	parent := make([]uint32, r.NumVertices())
	for i := range parent {
		parent[i] = uint32(i)
	}
	find := func(v uint32) uint32 {
		for parent[v] != v {
			parent[v] = parent[parent[v]]
			v = parent[v]
		}
		return v
	}

	used := make([]bool, len(parent))
	for i := 0; i < r.NumFaces(); i++ {
		id := NewFaceID(i)
		f, err := r.FaceTopology(id)
		if err != nil {
			return 0, &TopologyError{Face: id, Err: err}
		}
		for _, v := range f {
			if v.Index() >= len(parent) {
				return 0, &TopologyError{Face: id, Err: &VertexIDError{ID: v, NumVertices: len(parent)}}
			}
			used[v.idx] = true
		}
		a := find(f[0].idx)
		for _, v := range f[1:] {
			if b := find(v.idx); b != a {
				parent[b] = a
			}
		}
	}

	n := 0
	for i, u := range used {
		if u && find(uint32(i)) == uint32(i) {
			n++
		}
	}
	return n, nil
}
