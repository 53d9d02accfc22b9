package nxview

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// RunConfig configures a windowed viewer session started with Run.
type RunConfig struct {
	// Title is the window title.
	Title string `yaml:"title"`
	// Width and Height set the initial window size in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Assets is the directory holding the .nx archives.
	Assets string `yaml:"assets"`
	// Scale is the initial preview scale.
	Scale float64 `yaml:"scale"`
	// Debug logs load and search timings to stderr.
	Debug bool `yaml:"debug"`
	// ShowFPS draws the FPS and texture cache overlay.
	ShowFPS bool `yaml:"show_fps"`
	// ScreenshotDir is where screenshots are written.
	ScreenshotDir string `yaml:"screenshot_dir"`
	// Script is an optional JSON test script to run; the window closes when
	// it finishes.
	Script string `yaml:"script"`
}

// DefaultRunConfig returns the settings used when no config file is given.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Title:         "nxview",
		Width:         1280,
		Height:        720,
		Assets:        "../assets",
		Scale:         1,
		ScreenshotDir: "screenshots",
	}
}

// Validate reports the first setting that cannot be used.
func (c RunConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("nxview: invalid window size %dx%d", c.Width, c.Height)
	}
	if c.Scale < MinScale || c.Scale > MaxScale {
		return fmt.Errorf("nxview: scale %v outside [%v, %v]", c.Scale, MinScale, MaxScale)
	}
	if c.Assets == "" {
		return errors.New("nxview: assets directory not set")
	}
	return nil
}

// LoadConfig reads a YAML config file over DefaultRunConfig. Keys missing
// from the file keep their default values. The result is not validated, so
// that callers can layer flags over it first; Run validates.
func LoadConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("nxview: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("nxview: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Run opens a window and runs v until the window is closed or an attached
// script finishes. Textures are released before Run returns.
func Run(v *Viewer, cfg RunConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Script != "" {
		data, err := os.ReadFile(cfg.Script)
		if err != nil {
			return fmt.Errorf("nxview: read script: %w", err)
		}
		runner, err := LoadTestScript(data)
		if err != nil {
			return err
		}
		v.SetTestRunner(runner)
		v.exitWhenDone = true
	}
	v.SetDebugMode(cfg.Debug)
	v.showOverlay = v.showOverlay || cfg.ShowFPS
	if cfg.ScreenshotDir != "" {
		v.ScreenshotDir = cfg.ScreenshotDir
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	defer v.Close()
	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
