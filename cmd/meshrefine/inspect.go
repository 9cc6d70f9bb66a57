package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"meshrefine/internal/bmd"
	"meshrefine/internal/filter"
	"meshrefine/internal/mesh"
)

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Print per-mesh topology statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.cfg.LEAKey()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			failed := 0
			for _, path := range args {
				m, err := bmd.Parse(path, bmd.Options{LEAKey: key})
				if err != nil {
					a.logger.Error("parse failed", zap.String("file", path), zap.Error(err))
					failed++
					continue
				}
				fmt.Fprintf(out, "=== %s (%q meshes=%d bones=%d) ===\n", path, m.Name, len(m.Meshes), len(m.Bones))

				for i := range m.Meshes {
					me := &m.Meshes[i]
					tri, err := me.Triangulate()
					if err != nil {
						fmt.Fprintf(out, "  mesh[%d] %s: %v\n", i, me.TexPath, err)
						failed++
						continue
					}
					s, err := mesh.Summarize[bmd.Vertex](tri)
					if err != nil {
						fmt.Fprintf(out, "  mesh[%d] %s: %v\n", i, me.TexPath, err)
						failed++
						continue
					}
					parts, err := mesh.Components[bmd.Vertex](tri)
					if err != nil {
						fmt.Fprintf(out, "  mesh[%d] %s: %v\n", i, me.TexPath, err)
						failed++
						continue
					}
					kind := "surface"
					if filter.IsEffectMesh(me) {
						kind = "effect"
					}
					fmt.Fprintf(out, "  mesh[%d] %-24s %-7s %s components=%d\n", i, me.TexPath, kind, formatStats(s), parts)
				}
			}
			if failed > 0 {
				return fmt.Errorf("inspect: %d of the inputs failed", failed)
			}
			return nil
		},
	}
}

func formatStats(s mesh.Stats) string {
	return fmt.Sprintf("vertices=%d faces=%d edges=%d boundary=%d non-manifold=%d unreferenced=%d closed=%t",
		s.Vertices, s.Faces, s.Edges, s.BoundaryEdges, s.NonManifoldEdges, s.Unreferenced, s.Closed())
}
