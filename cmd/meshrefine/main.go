// Command meshrefine inspects BMD models and refines them by linear
// subdivision, writing WebP previews of the result.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"meshrefine/internal/config"
	"meshrefine/internal/logging"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	configFile string
	verbose    bool
	flags      config.Flags
	levels     int

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "meshrefine",
		Short: "Refine triangle meshes by linear subdivision",
		Long: `meshrefine loads BMD models, splits every triangle into four by its
edge midpoints (optionally several times), and renders WebP previews.

Settings come from an optional YAML or JSON file (--config); flags override it.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "Config file (.yaml, .yml or .json)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&a.flags.LogFormat, "log-format", "", "Log encoding: console or json")
	pf.IntVarP(&a.levels, "levels", "l", config.DefaultLevels, "Subdivision levels")
	pf.BoolVar(&a.flags.NoPose, "no-pose", false, "Skip bind-pose skinning")
	pf.BoolVar(&a.flags.SkipEffects, "skip-effects", false, "Leave glow and flare overlay meshes out")
	pf.StringVar(&a.flags.LEAKeyHex, "lea-key", "", "Hex LEA-256 key for version 15 files")

	root.AddCommand(a.inspectCmd())
	root.AddCommand(a.subdivideCmd())
	root.AddCommand(a.batchCmd())
	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.cfg = config.Default()
	if a.configFile != "" {
		var err error
		if a.cfg, err = config.Load(a.configFile); err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("levels") {
		a.flags.Levels = &a.levels
	}
	if a.verbose {
		a.flags.LogLevel = "debug"
	}
	a.cfg.Resolve(a.flags)
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	var err error
	a.logger, err = logging.New(logging.Options{Level: a.cfg.Log.Level, Format: a.cfg.Log.Format})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
