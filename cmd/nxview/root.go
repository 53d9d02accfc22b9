package main

import (
	"fmt"
	"io"

	"github.com/phanxgames/nxview"
	"github.com/phanxgames/nxview/nx"
	"github.com/spf13/cobra"
)

// options holds the flags shared by every command.
type options struct {
	assets     string
	configPath string
	scale      float64
	debug      bool
	showFPS    bool
	script     string
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithOptions(&options{})
}

// newRootCmdWithOptions builds the command tree with its flags bound to opts.
func newRootCmdWithOptions(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nxview",
		Short:         "Browse NX archives: search the tree and preview bitmaps",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.runConfig(cmd)
			if err != nil {
				return err
			}
			return runViewer(cmd, cfg)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.assets, "assets", "a", "", "Directory holding the .nx archives (default ../assets)")
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")

	f := rootCmd.Flags()
	f.Float64Var(&opts.scale, "scale", 1, "Initial preview scale (0.1 to 8)")
	f.BoolVar(&opts.debug, "debug", false, "Log load and search timings to stderr")
	f.BoolVar(&opts.showFPS, "fps", false, "Show the FPS and texture cache overlay")
	f.StringVar(&opts.script, "script", "", "JSON test script to run; the window closes when it finishes")

	rootCmd.AddCommand(
		newSearchCmd(opts),
		newResolveCmd(opts),
		newLsCmd(opts),
		newExportCmd(opts),
		newPackCmd(),
	)
	return rootCmd
}

// runConfig layers the config file, if any, over the defaults and then the
// flags the user set over both.
func (o *options) runConfig(cmd *cobra.Command) (nxview.RunConfig, error) {
	cfg := nxview.DefaultRunConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = nxview.LoadConfig(o.configPath); err != nil {
			return cfg, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("assets") {
		cfg.Assets = o.assets
	}
	if flags.Lookup("scale") != nil && flags.Changed("scale") {
		cfg.Scale = o.scale
	}
	if flags.Lookup("debug") != nil && flags.Changed("debug") {
		cfg.Debug = o.debug
	}
	if flags.Lookup("fps") != nil && flags.Changed("fps") {
		cfg.ShowFPS = o.showFPS
	}
	if flags.Lookup("script") != nil && flags.Changed("script") {
		cfg.Script = o.script
	}
	return cfg, cfg.Validate()
}

// openArchives mounts every archive found in dir. Archives that fail to open
// are reported on w and skipped.
func openArchives(dir string, w io.Writer) (*nxview.ArchiveSet, *nx.Mounted) {
	set := nxview.NewArchiveSet()
	m, err := nx.Mount(set, dir)
	if err != nil {
		fmt.Fprintf(w, "nxview: warning: %v\n", err)
	}
	return set, m
}

// requireArchives is openArchives for commands that need at least one
// archive.
func requireArchives(dir string, w io.Writer) (*nxview.ArchiveSet, *nx.Mounted, error) {
	set, m := openArchives(dir, w)
	if set.NumMounted() == 0 {
		_ = m.Close()
		return nil, nil, fmt.Errorf("nxview: no archives found in %s", dir)
	}
	return set, m, nil
}

func runViewer(cmd *cobra.Command, cfg nxview.RunConfig) error {
	set, m := openArchives(cfg.Assets, cmd.ErrOrStderr())
	defer m.Close()

	if set.NumMounted() == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "nxview: no archives in %s yet; press F5 to retry\n", cfg.Assets)
	}

	v := nxview.NewViewer(nxview.ViewerConfig{
		Archives:      set,
		Reload:        func() (int, error) { return m.MountMissing(set) },
		Scale:         cfg.Scale,
		ScreenshotDir: cfg.ScreenshotDir,
		Debug:         cfg.Debug,
		ShowOverlay:   cfg.ShowFPS,
	})
	return nxview.Run(v, cfg)
}
