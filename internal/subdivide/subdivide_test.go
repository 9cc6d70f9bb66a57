package subdivide

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshrefine/internal/mathutil"
	"meshrefine/internal/mesh"
)

type vec = mathutil.Vec3

func vid(i int) mesh.VertexID { return mesh.NewVertexID(i) }

func buildMesh(t *testing.T, verts []vec, faces [][3]int) *mesh.Mesh[vec] {
	t.Helper()
	m := mesh.New[vec](len(verts), len(faces))
	for _, p := range verts {
		m.AddVertex(p)
	}
	for _, f := range faces {
		_, err := m.Connect(vid(f[0]), vid(f[1]), vid(f[2]))
		require.NoError(t, err)
	}
	return m
}

func faceList(m *mesh.Mesh[vec]) [][3]int {
	var out [][3]int
	for _, f := range m.Faces() {
		out = append(out, [3]int{f[0].Index(), f[1].Index(), f[2].Index()})
	}
	return out
}

func positions(m *mesh.Mesh[vec]) []vec {
	var out []vec
	for _, p := range m.Vertices() {
		out = append(out, p)
	}
	return out
}

func TestLinearSingleTriangle(t *testing.T) {
	in := buildMesh(t, []vec{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}}, [][3]int{{0, 1, 2}})

	out, err := Linear[vec](in)
	require.NoError(t, err)

	// A, B, C, then midpoints in first-seen edge order: AB, BC, CA.
	assert.Equal(t, []vec{
		{0, 0, 0}, {2, 0, 0}, {0, 2, 0},
		{1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	}, positions(out))

	const a, b, c, mab, mbc, mca = 0, 1, 2, 3, 4, 5
	want := [][3]int{
		{a, mab, mca},
		{mab, b, mbc},
		{mab, mbc, mca},
		{mca, mbc, c},
	}
	if diff := cmp.Diff(want, faceList(out)); diff != "" {
		t.Errorf("faces mismatch (-want +got):\n%s", diff)
	}
}

func TestLinearSharedEdgeQuad(t *testing.T) {
	// Quad A,B,C,D split into (A,B,C) and (B,C,D): edges AB, BC, CA, BD, CD.
	in := buildMesh(t,
		[]vec{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}, {2, 2, 0}},
		[][3]int{{0, 1, 2}, {1, 2, 3}},
	)

	out, err := Linear[vec](in)
	require.NoError(t, err)
	assert.Equal(t, 8, out.NumFaces())
	assert.Equal(t, 4+5, out.NumVertices(), "shared edge BC must get a single midpoint")

	// The midpoint of BC is the second vertex inserted (after AB) and is
	// reused by the second face as its first new edge.
	faces := faceList(out)
	const mbc = 5
	assert.Equal(t, [3]int{4, 1, mbc}, faces[1])
	assert.Equal(t, mbc, faces[4][1], "face (B,C,D) must reuse mid(B,C)")

	p, err := out.Vertex(vid(mbc))
	require.NoError(t, err)
	assert.Equal(t, vec{1, 1, 0}, p)
}

// icosahedron returns a closed triangulated surface with 12 vertices,
// 20 faces and 30 edges.
func icosahedron(t *testing.T) *mesh.Mesh[vec] {
	t.Helper()
	phi := (1 + math.Sqrt(5)) / 2
	verts := []vec{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return buildMesh(t, verts, faces)
}

func TestLinearCounts(t *testing.T) {
	tests := []struct {
		name string
		in   func(t *testing.T) *mesh.Mesh[vec]
	}{
		{"triangle", func(t *testing.T) *mesh.Mesh[vec] {
			return buildMesh(t, []vec{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, [][3]int{{0, 1, 2}})
		}},
		{"quad", func(t *testing.T) *mesh.Mesh[vec] {
			return buildMesh(t, []vec{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}, [][3]int{{0, 1, 2}, {1, 3, 2}})
		}},
		{"icosahedron", icosahedron},
		{"empty", func(t *testing.T) *mesh.Mesh[vec] { return &mesh.Mesh[vec]{} }},
		{"vertices only", func(t *testing.T) *mesh.Mesh[vec] {
			return buildMesh(t, []vec{{1, 2, 3}, {4, 5, 6}}, nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in(t)
			edges, err := mesh.Edges[vec](in)
			require.NoError(t, err)

			out, err := Linear[vec](in)
			require.NoError(t, err)
			assert.Equal(t, 4*in.NumFaces(), out.NumFaces())
			assert.Equal(t, in.NumVertices()+len(edges), out.NumVertices())

			// Identity-preserving prefix.
			for i := 0; i < in.NumVertices(); i++ {
				want, err := in.Vertex(vid(i))
				require.NoError(t, err)
				got, err := out.Vertex(vid(i))
				require.NoError(t, err)
				assert.Equal(t, want, got, "vertex %d", i)
			}

			require.NoError(t, mesh.Validate[vec](out))
		})
	}
}

func TestLinearPreservesClosedness(t *testing.T) {
	out, err := Linear[vec](icosahedron(t))
	require.NoError(t, err)

	s, err := mesh.Summarize[vec](out)
	require.NoError(t, err)
	assert.True(t, s.Closed(), "refining a closed surface must not open seams: %+v", s)
	assert.Equal(t, 0, s.Unreferenced)
	assert.Equal(t, 42, s.Vertices)
	assert.Equal(t, 80, s.Faces)
	assert.Equal(t, 120, s.Edges)
}

func TestLinearSharedMidpointFromEitherFace(t *testing.T) {
	in := icosahedron(t)
	out, err := Linear[vec](in)
	require.NoError(t, err)

	// For input face i, output faces 4i..4i+3 hold its midpoints: the
	// first emitted face is (a, mid(a,b), mid(c,a)), the second (mid(a,b), b, mid(b,c)).
	midOf := make(map[mesh.EdgeKey]mesh.VertexID)
	for fi := 0; fi < in.NumFaces(); fi++ {
		f, err := in.FaceTopology(mesh.NewFaceID(fi))
		require.NoError(t, err)
		t0, err := out.FaceTopology(mesh.NewFaceID(4 * fi))
		require.NoError(t, err)
		t1, err := out.FaceTopology(mesh.NewFaceID(4*fi + 1))
		require.NoError(t, err)

		got := map[mesh.EdgeKey]mesh.VertexID{
			mesh.NewEdgeKey(f[0], f[1]): t0[1],
			mesh.NewEdgeKey(f[1], f[2]): t1[2],
			mesh.NewEdgeKey(f[2], f[0]): t0[2],
		}
		for e, m := range got {
			if prev, ok := midOf[e]; ok {
				assert.Equal(t, prev, m, "edge %s has two midpoints", e)
			}
			midOf[e] = m
		}
	}
	assert.Len(t, midOf, 30)
}

func TestLinearNoAccidentalCoincidence(t *testing.T) {
	out, err := Linear[vec](icosahedron(t))
	require.NoError(t, err)

	seen := make(map[vec]mesh.VertexID)
	for id, p := range out.Vertices() {
		prev, dup := seen[p]
		assert.False(t, dup, "vertices %s and %s coincide at %v", prev, id, p)
		seen[p] = id
	}
}

func TestLinearDeterministic(t *testing.T) {
	a, err := Linear[vec](icosahedron(t))
	require.NoError(t, err)
	b, err := Linear[vec](icosahedron(t))
	require.NoError(t, err)

	assert.Equal(t, positions(a), positions(b))
	assert.Equal(t, faceList(a), faceList(b))
}

func TestLinearWindingPreserved(t *testing.T) {
	in := buildMesh(t, []vec{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}}, [][3]int{{0, 1, 2}})
	out, err := Linear[vec](in)
	require.NoError(t, err)

	normal := func(a, b, c vec) vec { return b.Sub(a).Cross(c.Sub(a)) }
	pa, pb, pc, err := in.FacePositions(mesh.NewFaceID(0))
	require.NoError(t, err)
	want := normal(pa, pb, pc).Normalize()

	for i := 0; i < out.NumFaces(); i++ {
		a, b, c, err := out.FacePositions(mesh.NewFaceID(i))
		require.NoError(t, err)
		assert.Equal(t, want, normal(a, b, c).Normalize(), "face %d flipped", i)
	}
}

// corruptReader is an arena mesh whose last face points past the vertex arena.
type corruptReader struct {
	*mesh.Mesh[vec]
	bad mesh.Face
}

func (c corruptReader) NumFaces() int { return c.Mesh.NumFaces() + 1 }

func (c corruptReader) FaceTopology(id mesh.FaceID) (mesh.Face, error) {
	if id.Index() == c.Mesh.NumFaces() {
		return c.bad, nil
	}
	return c.Mesh.FaceTopology(id)
}

func (c corruptReader) FacePositions(id mesh.FaceID) (vec, vec, vec, error) {
	return mesh.FacePositions[vec](c, id)
}

func TestLinearFailsAtomicallyOnBadVertex(t *testing.T) {
	base := buildMesh(t, []vec{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, [][3]int{{0, 1, 2}})
	in := corruptReader{Mesh: base, bad: mesh.NewFace(vid(0), vid(1), vid(3))}

	out, err := Linear[vec](in)
	require.Error(t, err)
	assert.Nil(t, out, "no partial output on failure")
	assert.ErrorIs(t, err, mesh.ErrInvalidTopology)
	assert.ErrorIs(t, err, mesh.ErrInvalidVertexID)

	var te *mesh.TopologyError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, mesh.NewFaceID(1), te.Face)
}

func TestLinearRejectsDegenerateFace(t *testing.T) {
	in := buildMesh(t, []vec{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}}, [][3]int{{0, 1, 2}, {0, 0, 1}})

	out, err := Linear[vec](in)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, mesh.ErrInvalidTopology)
	assert.ErrorIs(t, err, mesh.ErrDegenerateFace)

	var te *mesh.TopologyError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, mesh.NewFaceID(1), te.Face)
}

// lossy is a position type whose midpoint is undefined when either end is marked.
type lossy struct {
	x      float64
	marked bool
}

var errNoMidpoint = errors.New("no midpoint for marked points")

func (l lossy) Midpoint(o lossy) (lossy, error) {
	if l.marked || o.marked {
		return lossy{}, errNoMidpoint
	}
	return lossy{x: (l.x + o.x) / 2}, nil
}

func TestLinearUndefinedMidpoint(t *testing.T) {
	in := &mesh.Mesh[lossy]{}
	in.AddFace(lossy{x: 0}, lossy{x: 1}, lossy{x: 2})
	in.AddFace(lossy{x: 3}, lossy{x: 4, marked: true}, lossy{x: 5})

	out, err := Linear[lossy](in)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, mesh.ErrUndefinedMidpoint)
	assert.ErrorIs(t, err, errNoMidpoint)

	var me *mesh.MidpointError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, mesh.NewEdgeKey(vid(3), vid(4)), me.Edge)
}

func TestLinearNonFiniteVec3(t *testing.T) {
	in := buildMesh(t, []vec{{math.Inf(1), 0, 0}, {math.Inf(-1), 0, 0}, {0, 1, 0}}, [][3]int{{0, 1, 2}})

	_, err := Linear[vec](in)
	assert.ErrorIs(t, err, mesh.ErrUndefinedMidpoint)
	assert.ErrorIs(t, err, mathutil.ErrNotFinite)
}

// faceLog is a minimal non-arena writer: it stores positions and a textual
// face log, which is enough for LinearInto.
type faceLog struct {
	verts []vec
	faces []string
}

func (l *faceLog) AddVertex(p vec) mesh.VertexID {
	l.verts = append(l.verts, p)
	return vid(len(l.verts) - 1)
}

func (l *faceLog) AddFace(p1, p2, p3 vec) mesh.FaceID {
	a, b, c := l.AddVertex(p1), l.AddVertex(p2), l.AddVertex(p3)
	id, _ := l.Connect(a, b, c)
	return id
}

func (l *faceLog) Connect(v1, v2, v3 mesh.VertexID) (mesh.FaceID, error) {
	for _, v := range []mesh.VertexID{v1, v2, v3} {
		if v.Index() >= len(l.verts) {
			return mesh.FaceID{}, &mesh.VertexIDError{ID: v, NumVertices: len(l.verts)}
		}
	}
	l.faces = append(l.faces, fmt.Sprintf("%s %s %s", v1, v2, v3))
	return mesh.NewFaceID(len(l.faces) - 1), nil
}

func TestLinearIntoCustomWriter(t *testing.T) {
	in := buildMesh(t, []vec{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}}, [][3]int{{0, 1, 2}})

	out, err := LinearInto[vec, faceLog](in)
	require.NoError(t, err)
	assert.Len(t, out.verts, 6)
	assert.Equal(t, []string{"v0 v3 v5", "v3 v1 v4", "v3 v4 v5", "v5 v4 v2"}, out.faces)
}

func TestRepeat(t *testing.T) {
	in := icosahedron(t)

	same, err := Repeat[vec](in, 0)
	require.NoError(t, err)
	assert.Equal(t, positions(in), positions(same))
	assert.Equal(t, faceList(in), faceList(same))

	out, err := Repeat[vec](in, 2)
	require.NoError(t, err)
	assert.Equal(t, 20*16, out.NumFaces())
	assert.Equal(t, 162, out.NumVertices())

	_, err = Repeat[vec](in, -1)
	assert.ErrorIs(t, err, ErrNegativeLevels)
}

func TestRepeatIsNotAFixedPoint(t *testing.T) {
	in := buildMesh(t, []vec{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, [][3]int{{0, 1, 2}})
	once, err := Linear[vec](in)
	require.NoError(t, err)
	twice, err := Linear[vec](once)
	require.NoError(t, err)
	assert.Equal(t, 4*once.NumFaces(), twice.NumFaces())
}

func TestPredict(t *testing.T) {
	in := icosahedron(t)
	s, err := mesh.Summarize[vec](in)
	require.NoError(t, err)

	for levels := 0; levels <= 3; levels++ {
		out, err := Repeat[vec](in, levels)
		require.NoError(t, err)
		got, err := mesh.Summarize[vec](out)
		require.NoError(t, err)

		f := Predict(s, levels)
		assert.Equal(t, Forecast{Vertices: got.Vertices, Faces: got.Faces, Edges: got.Edges}, f, "levels=%d", levels)
	}

	huge := Predict(mesh.Stats{Vertices: 3, Faces: 1, Edges: 3}, 64)
	assert.Equal(t, math.MaxInt, huge.Faces)
}
