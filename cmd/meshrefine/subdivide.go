package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"meshrefine/internal/batch"
	"meshrefine/internal/bmd"
	"meshrefine/internal/preview"
	"meshrefine/internal/raster"
	"meshrefine/internal/texture"
)

func (a *app) subdivideCmd() *cobra.Command {
	var previewPath, textureDir string

	cmd := &cobra.Command{
		Use:   "subdivide FILE",
		Short: "Subdivide one model and report before/after statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.cfg.LEAKey()
			if err != nil {
				return err
			}
			r, err := batch.RefineFile(args[0], batch.RefineOptions{
				Levels:      a.cfg.Levels,
				MaxFaces:    a.cfg.MaxFaces,
				Pose:        a.cfg.Pose,
				SkipEffects: a.cfg.SkipEffects,
				BMD:         bmd.Options{LEAKey: key},
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d levels (posed=%t skipped=%d)\n", args[0], a.cfg.Levels, r.Posed, r.Skipped)
			fmt.Fprintf(out, "  before: %s\n", formatStats(r.Before))
			fmt.Fprintf(out, "  after:  %s\n", formatStats(r.After))

			if previewPath == "" {
				return nil
			}
			var idx *texture.Index
			if textureDir != "" {
				if idx, err = texture.BuildIndex(textureDir); err != nil {
					return err
				}
			}
			img, err := preview.Render(r.Layers, texture.NewCache(idx, a.logger), preview.Options{
				Options:    raster.Options{Size: a.cfg.RenderSize, Supersample: a.cfg.Supersample},
				Extended:   a.cfg.WebPExtended,
				SpeckRatio: a.cfg.SpeckRatio,
			})
			if err != nil {
				return err
			}
			if err := preview.Write(previewPath, img, a.cfg.WebPExtended); err != nil {
				return err
			}
			a.logger.Info("preview written", zap.String("path", previewPath))
			return nil
		},
	}
	cmd.Flags().StringVarP(&previewPath, "preview", "p", "", "Write a WebP preview of the refined model")
	cmd.Flags().StringVar(&textureDir, "textures", "", "Texture directory for the preview")
	return cmd
}
