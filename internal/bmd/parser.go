package bmd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"meshrefine/internal/crypto"
)

// Header versions.
const (
	VersionPlain = 10
	VersionXOR   = 12
	VersionLEA   = 15
)

const (
	maxMeshes    = 100
	triangleSize = 64
)

var (
	// ErrMissingKey is returned for a v15 file when Options.LEAKey is nil.
	ErrMissingKey = errors.New("bmd: v15 file requires a LEA key")

	// ErrTruncated is returned when the payload ends before the declared geometry.
	ErrTruncated = errors.New("bmd: truncated data")
)

// Options configures decoding.
type Options struct {
	// LEAKey decrypts version 15 files.
	LEAKey *[32]byte
}

// Parse reads a BMD file and returns its model.
// Supports versions 10 (unencrypted), 12 (XOR), and 15 (LEA-256 ECB).
func Parse(path string, opts Options) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bmd: read %s: %w", path, err)
	}
	m, err := Decode(raw, opts)
	if err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, path)
	}
	return m, nil
}

// Decode parses an in-memory BMD file.
func Decode(raw []byte, opts Options) (*Model, error) {
	if len(raw) < 4 || string(raw[:3]) != "BMD" {
		return nil, errors.New("bmd: invalid header")
	}

	version := raw[3]
	var data []byte

	switch version {
	case VersionLEA, VersionXOR:
		if len(raw) < 8 {
			return nil, fmt.Errorf("bmd: v%d header: %w", version, ErrTruncated)
		}
		size := binary.LittleEndian.Uint32(raw[4:8])
		if 8+int64(size) > int64(len(raw)) {
			return nil, fmt.Errorf("bmd: v%d payload of %d bytes: %w", version, size, ErrTruncated)
		}
		payload := raw[8 : 8+size]
		if version == VersionXOR {
			data = crypto.DecryptXOR(payload)
			break
		}
		if opts.LEAKey == nil {
			return nil, ErrMissingKey
		}
		var err error
		if data, err = crypto.DecryptLEA(payload, *opts.LEAKey); err != nil {
			return nil, fmt.Errorf("bmd: %w", err)
		}
	default:
		data = raw[4:]
	}

	r := &reader{data: data}
	return r.parse()
}

type reader struct {
	data  []byte
	off   int
	short bool
}

func (r *reader) take(n int) []byte {
	if r.off+n > len(r.data) {
		r.off = len(r.data)
		r.short = true
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) readStr(n int) string {
	s := r.take(n)
	// Stop at the null terminator
	for i, b := range s {
		if b == 0 {
			return string(s[:i])
		}
	}
	return string(s)
}

func (r *reader) readI16() int16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(b))
}

func (r *reader) readU16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) readF32() float32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (r *reader) readByte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) skip(n int) { r.take(n) }

func (r *reader) parse() (*Model, error) {
	name := r.readStr(32)
	meshCount := int(r.readU16())
	boneCount := int(r.readU16())
	actionCount := int(r.readU16())

	if meshCount > maxMeshes {
		return nil, fmt.Errorf("bmd: invalid mesh count %d", meshCount)
	}

	model := &Model{Name: name, Meshes: make([]Mesh, 0, meshCount)}
	for i := 0; i < meshCount; i++ {
		m, err := r.parseMesh()
		if err != nil {
			return nil, fmt.Errorf("bmd: mesh %d: %w", i, err)
		}
		model.Meshes = append(model.Meshes, m)
	}

	// Actions: only the key counts matter for the bone section.
	actionKeys := make([]int, actionCount)
	for a := range actionKeys {
		numKeys := int(r.readI16())
		if r.readByte() > 0 {
			r.skip(numKeys * 12) // locked root positions
		}
		actionKeys[a] = numKeys
	}

	model.Bones = make([]Bone, 0, boneCount)
	for b := 0; b < boneCount; b++ {
		if r.readByte() > 0 {
			model.Bones = append(model.Bones, Bone{Parent: -1, IsDummy: true})
			continue
		}

		bone := Bone{Name: r.readStr(32), Parent: int(r.readI16())}
		for a, numKeys := range actionKeys {
			// Positions then rotations: numKeys × (x, y, z) float32 each
			for k := 0; k < numKeys; k++ {
				p := [3]float64{float64(r.readF32()), float64(r.readF32()), float64(r.readF32())}
				if a == 0 && k == 0 {
					bone.BindPosition = p
				}
			}
			for k := 0; k < numKeys; k++ {
				rot := [3]float64{float64(r.readF32()), float64(r.readF32()), float64(r.readF32())}
				if a == 0 && k == 0 {
					bone.BindRotation = rot
				}
			}
		}
		model.Bones = append(model.Bones, bone)
	}

	if r.short {
		return nil, ErrTruncated
	}
	return model, nil
}

func (r *reader) parseMesh() (Mesh, error) {
	nv := int(r.readI16())
	nn := int(r.readI16())
	ntc := int(r.readI16())
	nt := int(r.readI16())
	_ = r.readI16() // texture index
	if nv < 0 || nn < 0 || ntc < 0 || nt < 0 {
		return Mesh{}, fmt.Errorf("negative element count (v=%d n=%d uv=%d t=%d)", nv, nn, ntc, nt)
	}

	// Vertices: 16 bytes each (node:i16, pad:i16, x:f32, y:f32, z:f32)
	verts := make([][3]float32, nv)
	nodes := make([]int16, nv)
	for j := range verts {
		nodes[j] = r.readI16()
		r.skip(2)
		verts[j] = [3]float32{r.readF32(), r.readF32(), r.readF32()}
	}

	// Normals: 20 bytes each (node:i16, pad:i16, nx:f32, ny:f32, nz:f32, bind:i16, pad:i16)
	normals := make([][3]float32, nn)
	for j := range normals {
		r.skip(4)
		normals[j] = [3]float32{r.readF32(), r.readF32(), r.readF32()}
		r.skip(4)
	}

	// TexCoords: 8 bytes each (u:f32, v:f32)
	uvs := make([][2]float32, ntc)
	for j := range uvs {
		uvs[j] = [2]float32{r.readF32(), r.readF32()}
	}

	// Triangles: 64 bytes each
	tris := make([]Triangle, nt)
	for j := range tris {
		rec := r.take(triangleSize)
		if rec == nil {
			return Mesh{}, ErrTruncated
		}
		tri := Triangle{Polygon: int(rec[0])}
		for k := 0; k < 4; k++ {
			tri.VI[k] = int16(binary.LittleEndian.Uint16(rec[2+k*2:]))
			tri.NI[k] = int16(binary.LittleEndian.Uint16(rec[10+k*2:]))
			tri.TI[k] = int16(binary.LittleEndian.Uint16(rec[18+k*2:]))
		}
		tris[j] = tri
	}

	texPath := strings.ReplaceAll(r.readStr(32), "\\", "/")
	if r.short {
		return Mesh{}, ErrTruncated
	}

	return Mesh{
		Verts:   verts,
		Nodes:   nodes,
		Normals: normals,
		UVs:     uvs,
		Tris:    tris,
		TexPath: texPath,
	}, nil
}
