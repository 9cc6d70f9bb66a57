// Package batch refines every model under a directory in parallel and
// writes a preview per model plus a run manifest.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"meshrefine/internal/bmd"
	"meshrefine/internal/config"
	"meshrefine/internal/mesh"
	"meshrefine/internal/preview"
	"meshrefine/internal/raster"
	"meshrefine/internal/texture"
)

// progressInterval is how often Run logs throughput.
var progressInterval = 2 * time.Second

// Result holds the outcome of processing one model.
type Result struct {
	Model    string        `json:"model"`
	Image    string        `json:"image,omitempty"`
	Posed    bool          `json:"posed"`
	Skipped  int           `json:"skipped_meshes,omitempty"`
	Before   mesh.Stats    `json:"before"`
	After    mesh.Stats    `json:"after"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// Success reports whether the model was refined and its preview written.
func (r Result) Success() bool { return r.Error == "" }

// Report describes a whole run.
type Report struct {
	RunID   uuid.UUID     `json:"run_id"`
	Started time.Time     `json:"started"`
	Elapsed time.Duration `json:"elapsed_ns"`
	Levels  int           `json:"levels"`
	Results []Result      `json:"results"`
}

// Failed counts unsuccessful results.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Success() {
			n++
		}
	}
	return n
}

// Discover returns the slash-separated paths of all .bmd files under dir,
// relative to dir and sorted.
func Discover(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".bmd") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: discover %s: %w", dir, err)
	}
	slices.Sort(files)
	return files, nil
}

// Run processes every model under cfg.InputDir with cfg.Workers goroutines.
// A model that fails is recorded in its Result and does not stop the run;
// cancelling ctx does, and Run then returns ctx's error.
func Run(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	key, err := cfg.LEAKey()
	if err != nil {
		return nil, err
	}
	files, err := Discover(cfg.InputDir)
	if err != nil {
		return nil, err
	}

	var idx *texture.Index
	if cfg.TextureDir != "" {
		if idx, err = texture.BuildIndex(cfg.TextureDir); err != nil {
			return nil, err
		}
	}

	p := &processor{
		cfg: cfg,
		refine: RefineOptions{
			Levels:      cfg.Levels,
			MaxFaces:    cfg.MaxFaces,
			Pose:        cfg.Pose,
			SkipEffects: cfg.SkipEffects,
			BMD:         bmd.Options{LEAKey: key},
		},
		preview: preview.Options{
			Options:    raster.Options{Size: cfg.RenderSize, Supersample: cfg.Supersample},
			Extended:   cfg.WebPExtended,
			SpeckRatio: cfg.SpeckRatio,
		},
		textures: texture.NewCache(idx, logger.Named("texture")),
		logger:   logger,
	}

	report := &Report{
		RunID:   uuid.New(),
		Started: time.Now(),
		Levels:  cfg.Levels,
		Results: make([]Result, len(files)),
	}
	logger.Info("batch started",
		zap.String("run_id", report.RunID.String()),
		zap.Int("models", len(files)),
		zap.Int("textures", idx.Len()),
		zap.Int("levels", cfg.Levels),
		zap.Int("workers", cfg.Workers))

	var processed atomic.Int64
	done := make(chan struct{})
	var reporter sync.WaitGroup
	reporter.Add(1)
	go func() {
		defer reporter.Done()
		p.reportProgress(done, &processed, len(files), report.Started)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, rel := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.Results[i] = p.process(rel)
			processed.Add(1)
			return nil
		})
	}
	err = g.Wait()
	close(done)
	reporter.Wait()

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}

	report.Elapsed = time.Since(report.Started)
	logger.Info("batch finished",
		zap.Int("models", len(files)),
		zap.Int("failed", report.Failed()),
		zap.Duration("elapsed", report.Elapsed))
	return report, nil
}

type processor struct {
	cfg      config.Config
	refine   RefineOptions
	preview  preview.Options
	textures texture.Resolver
	logger   *zap.Logger
}

func (p *processor) reportProgress(done <-chan struct{}, processed *atomic.Int64, total int, start time.Time) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			n := processed.Load()
			if n == 0 {
				continue
			}
			rate := float64(n) / time.Since(start).Seconds()
			p.logger.Info("progress",
				zap.Int64("processed", n),
				zap.Int("total", total),
				zap.Float64("models_per_sec", rate))
		}
	}
}

func (p *processor) process(rel string) Result {
	start := time.Now()
	res := Result{Model: rel}
	log := p.logger.With(zap.String("model", rel))

	fail := func(err error) Result {
		res.Error = err.Error()
		res.Duration = time.Since(start)
		log.Warn("model failed", zap.Error(err))
		return res
	}

	refined, err := RefineFile(filepath.Join(p.cfg.InputDir, filepath.FromSlash(rel)), p.refine)
	if err != nil {
		return fail(err)
	}
	res.Posed, res.Skipped = refined.Posed, refined.Skipped
	res.Before, res.After = refined.Before, refined.After

	img, err := preview.Render(refined.Layers, p.textures, p.preview)
	if err != nil {
		return fail(err)
	}

	out := strings.TrimSuffix(rel, filepath.Ext(rel)) + ".webp"
	if err := preview.Write(filepath.Join(p.cfg.OutputDir, filepath.FromSlash(out)), img, p.preview.Extended); err != nil {
		return fail(err)
	}
	res.Image = out
	res.Duration = time.Since(start)

	log.Debug("model refined",
		zap.Int("faces_before", res.Before.Faces),
		zap.Int("faces_after", res.After.Faces),
		zap.Int("vertices_after", res.After.Vertices),
		zap.Duration("took", res.Duration))
	return res
}
