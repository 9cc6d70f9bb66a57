package batch

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"meshrefine/internal/bmd"
	"meshrefine/internal/bmd/bmdtest"
	"meshrefine/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeModel(t *testing.T, path string, m *bmd.Model, version byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, bmdtest.Encode(m, version, nil), 0o644))
}

// fixture lays out three models (one unreadable) and one texture.
func fixture(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	in := filepath.Join(root, "models")

	writeModel(t, filepath.Join(in, "a.bmd"),
		bmdtest.Triangle([3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}), bmd.VersionPlain)

	rigged := bmdtest.Quad()
	rigged.Bones = []bmd.Bone{{Name: "root", Parent: -1, BindPosition: [3]float64{0, 0, 1}}}
	writeModel(t, filepath.Join(in, "sub", "b.BMD"), rigged, bmd.VersionXOR)

	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.bmd"), []byte("garbage"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "readme.txt"), []byte("x"), 0o644))

	tex := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(tex.Pix); i += 4 {
		copy(tex.Pix[i:], []uint8{200, 40, 40, 255})
	}
	f, err := os.Create(filepath.Join(in, "tri.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, tex))
	require.NoError(t, f.Close())

	cfg := config.Default()
	cfg.Levels = 2
	cfg.RenderSize = 32
	cfg.Supersample = 1
	cfg.Resolve(config.Flags{InputDir: in, OutputDir: filepath.Join(root, "out"), Workers: 2})
	return cfg
}

func TestDiscover(t *testing.T) {
	cfg := fixture(t)
	files, err := Discover(cfg.InputDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.bmd", "broken.bmd", "sub/b.BMD"}, files)

	_, err = Discover(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun(t *testing.T) {
	cfg := fixture(t)
	core, logs := observer.New(zapcore.DebugLevel)

	report, err := Run(context.Background(), cfg, zap.New(core))
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	assert.Equal(t, 2, report.Levels)
	assert.Equal(t, 1, report.Failed())

	a, broken, b := report.Results[0], report.Results[1], report.Results[2]

	assert.True(t, a.Success(), a.Error)
	assert.Equal(t, "a.webp", a.Image)
	assert.Equal(t, 1, a.Before.Faces)
	assert.Equal(t, 16, a.After.Faces)
	assert.Equal(t, 15, a.After.Vertices)
	assert.False(t, a.Posed)

	assert.False(t, broken.Success())
	assert.Contains(t, broken.Error, "invalid header")
	assert.Empty(t, broken.Image)

	assert.True(t, b.Success(), b.Error)
	assert.Equal(t, "sub/b.webp", b.Image)
	assert.True(t, b.Posed)
	assert.Equal(t, 32, b.After.Faces)

	for _, img := range []string{"a.webp", "sub/b.webp"} {
		_, err := os.Stat(filepath.Join(cfg.OutputDir, filepath.FromSlash(img)))
		assert.NoError(t, err, img)
	}

	assert.Equal(t, 1, logs.FilterMessage("model failed").Len())
	assert.Equal(t, 2, logs.FilterMessage("model refined").Len())
	started := logs.FilterMessage("batch started").All()
	require.Len(t, started, 1)
	assert.EqualValues(t, 3, started[0].ContextMap()["models"])
	assert.EqualValues(t, 1, started[0].ContextMap()["textures"])
}

func TestRunFaceBudget(t *testing.T) {
	cfg := fixture(t)
	cfg.MaxFaces = 10

	report, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Failed())
	assert.Contains(t, report.Results[0].Error, "face budget exceeded")
}

func TestRunCancelled(t *testing.T) {
	cfg := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunReportsProgress(t *testing.T) {
	old := progressInterval
	progressInterval = time.Millisecond
	t.Cleanup(func() { progressInterval = old })

	cfg := fixture(t)
	cfg.Levels = 4
	cfg.Workers = 1
	_, err := Run(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
}

func TestRunBadKey(t *testing.T) {
	cfg := fixture(t)
	cfg.LEAKeyHex = "abc"
	_, err := Run(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "lea_key")
}

func TestManifestRoundTrip(t *testing.T) {
	cfg := fixture(t)
	report, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, WriteManifest(path, report))

	got, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, report.RunID, got.RunID)
	assert.True(t, report.Started.Equal(got.Started))
	if diff := cmp.Diff(report.Results, got.Results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}

	_, err = ReadManifest(filepath.Join(t.TempDir(), "none.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRefine(t *testing.T) {
	m := bmdtest.Quad()
	r, err := Refine(m, RefineOptions{Levels: 1, MaxFaces: 8})
	require.NoError(t, err)
	require.Len(t, r.Layers, 1)
	assert.Equal(t, `data\quad.tga`, r.Layers[0].TexPath)
	assert.Equal(t, 2, r.Before.Faces)
	assert.Equal(t, 8, r.After.Faces)
	assert.Equal(t, 9, r.After.Vertices)
	assert.Equal(t, 0, r.After.NonManifoldEdges)

	_, err = Refine(bmdtest.Quad(), RefineOptions{Levels: 2, MaxFaces: 8})
	assert.ErrorIs(t, err, ErrFaceBudget)

	r, err = Refine(bmdtest.Quad(), RefineOptions{Levels: 2, MaxFaces: -1})
	require.NoError(t, err)
	assert.Equal(t, 32, r.After.Faces)

	_, err = Refine(&bmd.Model{Name: "empty"}, RefineOptions{})
	assert.ErrorContains(t, err, "no meshes")

	_, err = Refine(bmdtest.Quad(), RefineOptions{SkipEffects: true})
	assert.ErrorContains(t, err, "only effect meshes")

	r, err = Refine(bmdtest.Quad(), RefineOptions{})
	require.NoError(t, err)
	assert.Equal(t, r.Before, r.After)
}

func TestRefineFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.bmd")
	writeModel(t, path, bmdtest.Quad(), bmd.VersionXOR)

	r, err := RefineFile(path, RefineOptions{Levels: 1})
	require.NoError(t, err)
	assert.Equal(t, "quad", r.Name)

	_, err = RefineFile(filepath.Join(t.TempDir(), "none.bmd"), RefineOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRefineSkipsEffects(t *testing.T) {
	m := bmdtest.Quad()
	body := m.Meshes[0]
	for i := range body.Verts {
		body.Verts[i][0] *= 100
		body.Verts[i][1] *= 100
	}
	glow := body
	glow.TexPath = "sword_glow.jpg"
	m.Meshes = []bmd.Mesh{glow, body}

	r, err := Refine(m, RefineOptions{Levels: 1, SkipEffects: true})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Skipped)
	require.Len(t, r.Layers, 1)
	assert.Equal(t, `data\quad.tga`, r.Layers[0].TexPath)
	assert.Equal(t, 8, r.After.Faces)
}
