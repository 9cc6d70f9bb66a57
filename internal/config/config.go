// Package config loads refinement settings from a YAML or JSON file and
// merges command-line overrides on top.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"meshrefine/internal/crypto"
)

// Defaults applied by Default and Resolve.
const (
	DefaultLevels      = 1
	DefaultMaxFaces    = 4_000_000
	DefaultRenderSize  = 256
	DefaultSupersample = 2
	MaxSupersample     = 8
	DefaultSpeckRatio  = 0.02
)

// Config holds all configurable paths and refinement settings.
type Config struct {
	// Paths
	InputDir   string `json:"input_dir" yaml:"input_dir"`
	TextureDir string `json:"texture_dir" yaml:"texture_dir"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`

	// Refinement
	Levels int `json:"levels" yaml:"levels"`
	// MaxFaces caps the refined face count per model. Zero selects
	// DefaultMaxFaces; a negative value disables the check.
	MaxFaces    int  `json:"max_faces" yaml:"max_faces"`
	Pose        bool `json:"pose" yaml:"pose"`
	SkipEffects bool `json:"skip_effects" yaml:"skip_effects"`

	// Preview settings
	RenderSize   int     `json:"render_size" yaml:"render_size"`
	Supersample  int     `json:"supersample" yaml:"supersample"`
	SpeckRatio   float64 `json:"speck_ratio" yaml:"speck_ratio"`
	WebPExtended bool    `json:"webp_extended" yaml:"webp_extended"`
	Workers      int     `json:"workers" yaml:"workers"`

	// LEAKeyHex is the 64-character hex key for version 15 BMD files.
	LEAKeyHex string `json:"lea_key" yaml:"lea_key"`

	Log Log `json:"log" yaml:"log"`
}

// Log selects logger verbosity and encoding.
type Log struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// Flags holds CLI flag values that override config file settings.
// Zero values leave the file setting untouched.
type Flags struct {
	InputDir    string
	TextureDir  string
	OutputDir   string
	Levels      *int
	Workers     int
	LogLevel    string
	LogFormat   string
	LEAKeyHex   string
	NoPose      bool
	SkipEffects bool
}

// Default returns the settings used when no config file is given. Fields
// whose zero value is meaningful (levels, pose, speck_ratio) are set here;
// the rest are filled by Resolve.
func Default() Config {
	return Config{
		Levels:     DefaultLevels,
		Pose:       true,
		SpeckRatio: DefaultSpeckRatio,
	}
}

// Load reads a config file on top of Default. The format follows the
// extension: .yaml and .yml use YAML, anything else JSON. Unknown keys are
// rejected. Relative paths in the file are taken relative to the file's
// directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	base := filepath.Dir(path)
	for _, p := range []*string{&cfg.InputDir, &cfg.TextureDir, &cfg.OutputDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	return cfg, nil
}

// Resolve applies flag overrides, then fills empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Levels != nil {
		c.Levels = *flags.Levels
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.Log.Level = flags.LogLevel
	}
	if flags.LogFormat != "" {
		c.Log.Format = flags.LogFormat
	}
	if flags.LEAKeyHex != "" {
		c.LEAKeyHex = flags.LEAKeyHex
	}
	if flags.NoPose {
		c.Pose = false
	}
	if flags.SkipEffects {
		c.SkipEffects = true
	}

	if c.TextureDir == "" {
		c.TextureDir = c.InputDir
	}
	if c.OutputDir == "" && c.InputDir != "" {
		c.OutputDir = filepath.Join(c.InputDir, "refined")
	}
	if c.MaxFaces == 0 {
		c.MaxFaces = DefaultMaxFaces
	}
	if c.RenderSize <= 0 {
		c.RenderSize = DefaultRenderSize
	}
	if c.Supersample <= 0 {
		c.Supersample = DefaultSupersample
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// LEAKey decodes LEAKeyHex. It returns nil when no key is configured.
func (c *Config) LEAKey() (*[32]byte, error) {
	if c.LEAKeyHex == "" {
		return nil, nil
	}
	key, err := crypto.ParseLEAKey(c.LEAKeyHex)
	if err != nil {
		return nil, fmt.Errorf("config: lea_key: %w", err)
	}
	return &key, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Levels < 0 {
		errs = append(errs, fmt.Errorf("config: levels must be >= 0, got %d", c.Levels))
	}
	if c.Supersample > MaxSupersample {
		errs = append(errs, fmt.Errorf("config: supersample must be <= %d, got %d", MaxSupersample, c.Supersample))
	}
	if c.SpeckRatio < 0 || c.SpeckRatio >= 1 {
		errs = append(errs, fmt.Errorf("config: speck_ratio must be in [0, 1), got %g", c.SpeckRatio))
	}
	if c.RenderSize < 0 {
		errs = append(errs, fmt.Errorf("config: render_size must be positive, got %d", c.RenderSize))
	}
	if _, err := c.LEAKey(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("config: log.format must be console or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
