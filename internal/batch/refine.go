package batch

import (
	"errors"
	"fmt"

	"meshrefine/internal/bmd"
	"meshrefine/internal/filter"
	"meshrefine/internal/mesh"
	"meshrefine/internal/raster"
	"meshrefine/internal/skeleton"
	"meshrefine/internal/subdivide"
)

// ErrFaceBudget is returned when refinement would exceed RefineOptions.MaxFaces.
var ErrFaceBudget = errors.New("batch: face budget exceeded")

// RefineOptions controls how one model is refined.
type RefineOptions struct {
	Levels int
	// MaxFaces caps the predicted face count of the refined model. Zero or
	// negative disables the check.
	MaxFaces int
	Pose     bool
	// SkipEffects leaves glow and flare overlays out of the result.
	SkipEffects bool
	BMD         bmd.Options
}

// Refined is a model after triangulation and subdivision.
type Refined struct {
	Name    string
	Posed   bool
	Skipped int // effect meshes left out
	Layers  []raster.Layer
	Before  mesh.Stats
	After   mesh.Stats
}

// RefineFile parses path and refines it.
func RefineFile(path string, opts RefineOptions) (*Refined, error) {
	m, err := bmd.Parse(path, opts.BMD)
	if err != nil {
		return nil, err
	}
	return Refine(m, opts)
}

// Refine poses m (when enabled), triangulates every kept mesh and subdivides
// it opts.Levels times. The face budget is checked against a forecast before
// any subdivision runs. m is modified in place by posing.
func Refine(m *bmd.Model, opts RefineOptions) (*Refined, error) {
	if len(m.Meshes) == 0 {
		return nil, fmt.Errorf("batch: model %q has no meshes", m.Name)
	}

	r := &Refined{Name: m.Name}
	if opts.Pose {
		r.Posed = skeleton.Pose(m)
	}

	keep := make([]int, 0, len(m.Meshes))
	if opts.SkipEffects {
		keep = filter.Surfaces(m)
		r.Skipped = len(m.Meshes) - len(keep)
		if len(keep) == 0 {
			return nil, fmt.Errorf("batch: model %q has only effect meshes", m.Name)
		}
	} else {
		for i := range m.Meshes {
			keep = append(keep, i)
		}
	}

	coarse := make([]*mesh.Mesh[bmd.Vertex], len(keep))
	for j, i := range keep {
		tri, err := m.Meshes[i].Triangulate()
		if err != nil {
			return nil, fmt.Errorf("batch: mesh %d: %w", i, err)
		}
		s, err := mesh.Summarize[bmd.Vertex](tri)
		if err != nil {
			return nil, fmt.Errorf("batch: mesh %d: %w", i, err)
		}
		coarse[j] = tri
		r.Before = r.Before.Add(s)
	}

	if opts.MaxFaces > 0 {
		if f := subdivide.Predict(r.Before, opts.Levels); f.Faces > opts.MaxFaces {
			return nil, fmt.Errorf("%w: %d levels would produce %d faces (limit %d)",
				ErrFaceBudget, opts.Levels, f.Faces, opts.MaxFaces)
		}
	}

	r.Layers = make([]raster.Layer, len(coarse))
	for j, tri := range coarse {
		i := keep[j]
		fine, err := subdivide.Repeat[bmd.Vertex](tri, opts.Levels)
		if err != nil {
			return nil, fmt.Errorf("batch: mesh %d: %w", i, err)
		}
		s, err := mesh.Summarize[bmd.Vertex](fine)
		if err != nil {
			return nil, fmt.Errorf("batch: mesh %d: %w", i, err)
		}
		r.After = r.After.Add(s)
		r.Layers[j] = raster.Layer{Mesh: fine, TexPath: m.Meshes[i].TexPath}
	}
	return r, nil
}
