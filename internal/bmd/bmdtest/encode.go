// Package bmdtest builds BMD files in memory for tests.
package bmdtest

import (
	"bytes"
	"encoding/binary"

	"meshrefine/internal/bmd"
	"meshrefine/internal/crypto"
)

// Encode serializes m in the given header version. Version 15 requires key.
// Every non-dummy bone gets exactly one keyframe holding its bind pose.
func Encode(m *bmd.Model, version byte, key *[32]byte) []byte {
	var body bytes.Buffer
	w := func(v any) { _ = binary.Write(&body, binary.LittleEndian, v) }
	str := func(s string, n int) {
		b := make([]byte, n)
		copy(b, s)
		body.Write(b)
	}

	actions := 0
	for _, b := range m.Bones {
		if !b.IsDummy {
			actions = 1
			break
		}
	}

	str(m.Name, 32)
	w(uint16(len(m.Meshes)))
	w(uint16(len(m.Bones)))
	w(uint16(actions))

	for _, me := range m.Meshes {
		w(int16(len(me.Verts)))
		w(int16(len(me.Normals)))
		w(int16(len(me.UVs)))
		w(int16(len(me.Tris)))
		w(int16(0))
		for j, v := range me.Verts {
			var node int16
			if j < len(me.Nodes) {
				node = me.Nodes[j]
			}
			w(node)
			w(int16(0))
			w(v)
		}
		for _, n := range me.Normals {
			w([2]int16{})
			w(n)
			w([2]int16{})
		}
		for _, uv := range me.UVs {
			w(uv)
		}
		for _, t := range me.Tris {
			rec := make([]byte, 64)
			rec[0] = byte(t.Polygon)
			for k := 0; k < 4; k++ {
				binary.LittleEndian.PutUint16(rec[2+k*2:], uint16(t.VI[k]))
				binary.LittleEndian.PutUint16(rec[10+k*2:], uint16(t.NI[k]))
				binary.LittleEndian.PutUint16(rec[18+k*2:], uint16(t.TI[k]))
			}
			body.Write(rec)
		}
		str(me.TexPath, 32)
	}

	for a := 0; a < actions; a++ {
		w(int16(1)) // one key
		w(byte(0))  // no locked positions
	}

	for _, b := range m.Bones {
		if b.IsDummy {
			w(byte(1))
			continue
		}
		w(byte(0))
		str(b.Name, 32)
		w(int16(b.Parent))
		for _, f := range b.BindPosition {
			w(float32(f))
		}
		for _, f := range b.BindRotation {
			w(float32(f))
		}
	}

	out := []byte{'B', 'M', 'D', version}
	payload := body.Bytes()
	switch version {
	case bmd.VersionXOR:
		payload = crypto.EncryptXOR(payload)
	case bmd.VersionLEA:
		if pad := len(payload) % 16; pad != 0 {
			payload = append(payload, make([]byte, 16-pad)...)
		}
		var err error
		if payload, err = crypto.EncryptLEA(payload, *key); err != nil {
			panic(err)
		}
	default:
		return append(out, payload...)
	}
	out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	return append(out, payload...)
}

// Triangle returns a one-triangle model whose corners are at a, b and c
// with texture coordinates (0,0), (1,0) and (0,1).
func Triangle(a, b, c [3]float32) *bmd.Model {
	return &bmd.Model{
		Name: "triangle",
		Meshes: []bmd.Mesh{{
			Verts: [][3]float32{a, b, c},
			Nodes: []int16{0, 0, 0},
			UVs:   [][2]float32{{0, 0}, {1, 0}, {0, 1}},
			Tris: []bmd.Triangle{{
				Polygon: 3,
				VI:      [4]int16{0, 1, 2},
				TI:      [4]int16{0, 1, 2},
			}},
			TexPath: "tri.tga",
		}},
	}
}

// Quad returns a one-mesh model holding a single unit quad polygon.
func Quad() *bmd.Model {
	return &bmd.Model{
		Name: "quad",
		Meshes: []bmd.Mesh{{
			Verts: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
			Nodes: []int16{0, 0, 0, 0},
			UVs:   [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
			Tris: []bmd.Triangle{{
				Polygon: 4,
				VI:      [4]int16{0, 1, 2, 3},
				TI:      [4]int16{0, 1, 2, 3},
			}},
			TexPath: "data\\quad.tga",
		}},
	}
}
