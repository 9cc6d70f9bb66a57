// Package skeleton poses model vertices with their bind-pose bone transforms.
package skeleton

import (
	"meshrefine/internal/bmd"
	"meshrefine/internal/mathutil"
)

// BuildWorldMatrices computes the world transform for each bone from its
// bind pose (frame 0 of action 0). Dummy bones and bones without a
// preceding parent keep their local transform.
func BuildWorldMatrices(bones []bmd.Bone) []mathutil.Mat4 {
	worlds := make([]mathutil.Mat4, len(bones))
	for i, bone := range bones {
		if bone.IsDummy {
			worlds[i] = mathutil.Mat4Identity()
			continue
		}

		rot := mathutil.EulerXYZ(bone.BindRotation[0], bone.BindRotation[1], bone.BindRotation[2])
		local := mathutil.Affine(rot, mathutil.Vec3(bone.BindPosition))

		if bone.Parent >= 0 && bone.Parent < i {
			worlds[i] = mathutil.Mat4Mul(worlds[bone.Parent], local)
		} else {
			worlds[i] = local
		}
	}
	return worlds
}

// Pose moves every vertex of m by the world matrix of the bone it is bound
// to (rigid skinning, one bone per vertex). Vertices bound to an unknown
// bone stay put. It reports whether any position changed.
func Pose(m *bmd.Model) bool {
	if len(m.Bones) == 0 {
		return false
	}

	worlds := BuildWorldMatrices(m.Bones)
	allIdentity := true
	for _, w := range worlds {
		if !w.IsIdentity() {
			allIdentity = false
			break
		}
	}
	if allIdentity {
		return false
	}

	moved := false
	for mi := range m.Meshes {
		me := &m.Meshes[mi]
		for vi := range me.Verts {
			if vi >= len(me.Nodes) {
				break
			}
			b := int(me.Nodes[vi])
			if b < 0 || b >= len(worlds) {
				continue
			}
			t := worlds[b].MulPoint(mathutil.Vec3From(me.Verts[vi]))
			me.Verts[vi] = [3]float32{float32(t[0]), float32(t[1]), float32(t[2])}
			moved = true
		}
	}
	return moved
}
