// Package filter classifies model meshes that should not be refined, such as
// additive glow and flare overlays drawn on top of the real surface.
package filter

import (
	"path/filepath"
	"regexp"
	"strings"

	"meshrefine/internal/bmd"
	"meshrefine/internal/mathutil"
)

var gradientEffectRE = regexp.MustCompile(`^(?:mini_|hangul)?gra(?:\d|_|$)`)

// effectPatterns match anywhere in the lowercase texture stem.
var effectPatterns = []string{
	"glow", "flare", "chrome", "effect",
	"aura", "shiny", "spark", "fire", "blur",
	"energy", "plasma", "shine", "halo", "trail",
	"gradation", "alpha_line", "shockwave",
}

// effectPrefixPatterns must match at the start of the stem only:
// "flame" alone would catch names like "box_flame_wood".
var effectPrefixPatterns = []string{"flame"}

// Small billboard-sized meshes count as effects unless they span more than this.
const (
	billboardMaxVerts = 8
	billboardMaxTris  = 4
	billboardMaxSpan  = 20
)

// TextureStem returns the lowercase file stem of a texture reference.
func TextureStem(texPath string) string {
	base := filepath.Base(strings.ReplaceAll(strings.ToLower(texPath), "\\", "/"))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsEffectMesh reports whether m is an aura/glow/effect overlay, judged by
// its texture name or, failing that, by being a tiny billboard.
func IsEffectMesh(m *bmd.Mesh) bool {
	stem := TextureStem(m.TexPath)
	if gradientEffectRE.MatchString(stem) {
		return true
	}
	for _, p := range effectPatterns {
		if strings.Contains(stem, p) {
			return true
		}
	}
	for _, p := range effectPrefixPatterns {
		if strings.HasPrefix(stem, p) {
			return true
		}
	}

	if len(m.Verts) == 0 || len(m.Verts) > billboardMaxVerts || len(m.Tris) > billboardMaxTris {
		return false
	}
	var box mathutil.Bounds
	for _, v := range m.Verts {
		box.Extend(mathutil.Vec3From(v))
	}
	size := box.Size()
	return max(size[0], size[1], size[2]) <= billboardMaxSpan
}

// Surfaces returns the indices of the meshes of model that are not effects.
func Surfaces(model *bmd.Model) []int {
	keep := make([]int, 0, len(model.Meshes))
	for i := range model.Meshes {
		if !IsEffectMesh(&model.Meshes[i]) {
			keep = append(keep, i)
		}
	}
	return keep
}
