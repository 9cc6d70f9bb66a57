package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"meshrefine/internal/bmd"
	"meshrefine/internal/bmd/bmdtest"
)

func bigQuad(tex string) bmd.Mesh {
	m := bmdtest.Quad().Meshes[0]
	for i := range m.Verts {
		m.Verts[i][0] *= 100
		m.Verts[i][1] *= 100
	}
	m.TexPath = tex
	return m
}

func TestTextureStem(t *testing.T) {
	assert.Equal(t, "sword04", TextureStem(`Data\Item\Sword04.JPG`))
	assert.Equal(t, "glow", TextureStem("glow"))
}

func TestIsEffectMesh(t *testing.T) {
	cases := []struct {
		tex  string
		want bool
	}{
		{"sword04.jpg", false},
		{"item_glow01.tga", true},
		{`Effect\flare.jpg`, true},
		{"gra_01.jpg", true},
		{"graph.jpg", false},
		{"flame_red.tga", true},
		{"box_flame_wood.jpg", false},
	}
	for _, c := range cases {
		m := bigQuad(c.tex)
		assert.Equal(t, c.want, IsEffectMesh(&m), c.tex)
	}
}

func TestIsEffectMeshBillboard(t *testing.T) {
	small := bmdtest.Quad().Meshes[0]
	small.TexPath = "wing.jpg"
	assert.True(t, IsEffectMesh(&small))

	empty := bmd.Mesh{TexPath: "wing.jpg"}
	assert.False(t, IsEffectMesh(&empty))
}

func TestSurfaces(t *testing.T) {
	model := &bmd.Model{Meshes: []bmd.Mesh{bigQuad("body.jpg"), bigQuad("aura.jpg"), bigQuad("blade.jpg")}}
	assert.Equal(t, []int{0, 2}, Surfaces(model))
}
