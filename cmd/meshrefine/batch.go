package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"meshrefine/internal/batch"
)

func (a *app) batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Refine every model under the input directory",
		Long: `Refines every .bmd file under input_dir, writes one WebP preview per
model below output_dir (mirroring the input layout) and a manifest.json
with before/after statistics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.InputDir == "" {
				return fmt.Errorf("batch: no input directory (use --input or input_dir in the config file)")
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			report, err := batch.Run(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
				return fmt.Errorf("batch: %w", err)
			}
			manifest := filepath.Join(a.cfg.OutputDir, "manifest.json")
			if err := batch.WriteManifest(manifest, report); err != nil {
				return err
			}
			a.logger.Info("manifest written", zap.String("path", manifest))

			fmt.Fprintf(cmd.OutOrStdout(), "refined %d/%d models in %s\n",
				len(report.Results)-report.Failed(), len(report.Results), report.Elapsed.Round(time.Millisecond))
			if n := report.Failed(); n > 0 {
				return fmt.Errorf("batch: %d models failed (see %s)", n, manifest)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&a.flags.InputDir, "input", "i", "", "Directory of .bmd models")
	f.StringVarP(&a.flags.OutputDir, "output", "o", "", "Preview output directory (default: <input>/refined)")
	f.StringVar(&a.flags.TextureDir, "textures", "", "Texture directory (default: input directory)")
	f.IntVarP(&a.flags.Workers, "workers", "w", 0, "Worker goroutines (default: NumCPU)")
	return cmd
}
