package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"evoagg/internal/plotting"
	"evoagg/internal/storage"
	"evoagg/pkg/evoagg"
)

// Config is the optional YAML file shared by every subcommand. Flags given
// on the command line win over file values.
type Config struct {
	Store       string      `yaml:"store"`
	DBPath      string      `yaml:"db_path"`
	SnapshotDir string      `yaml:"snapshot_dir"`
	OutDir      string      `yaml:"out_dir"`
	Style       StyleConfig `yaml:"style"`
}

type StyleConfig struct {
	FontSize    float64  `yaml:"font_size"`
	WidthIn     float64  `yaml:"width_in"`
	HeightIn    float64  `yaml:"height_in"`
	DPI         int      `yaml:"dpi"`
	Transparent bool     `yaml:"transparent"`
	Palette     []string `yaml:"palette"`
}

func DefaultConfig() *Config {
	style := plotting.DefaultStyle()
	return &Config{
		Store:       storage.DefaultStoreKind(),
		DBPath:      "evoagg.db",
		SnapshotDir: "snapshots",
		OutDir:      "figures",
		Style: StyleConfig{
			FontSize: style.FontSize,
			WidthIn:  float64(style.Width / vg.Inch),
			HeightIn: float64(style.Height / vg.Inch),
			DPI:      style.DPI,
		},
	}
}

func loadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func (c StyleConfig) plotStyle() (plotting.Style, error) {
	if c.FontSize <= 0 || c.WidthIn <= 0 || c.HeightIn <= 0 || c.DPI <= 0 {
		return plotting.Style{}, fmt.Errorf("invalid style: font_size, width_in, height_in and dpi must be positive")
	}
	style := plotting.DefaultStyle().
		WithFontSize(c.FontSize).
		WithSize(vg.Length(c.WidthIn)*vg.Inch, vg.Length(c.HeightIn)*vg.Inch)
	style.DPI = c.DPI
	style.Transparent = c.Transparent
	if len(c.Palette) > 0 {
		return style.WithPalette(c.Palette)
	}
	return style, nil
}

// commonFlags are accepted by every subcommand.
type commonFlags struct {
	config      *string
	store       *string
	db          *string
	snapshotDir *string
	out         *string
}

func registerCommonFlags(fs *flag.FlagSet) commonFlags {
	defaults := DefaultConfig()
	return commonFlags{
		config:      fs.String("config", "", "optional YAML config file"),
		store:       fs.String("store", defaults.Store, "store backend: file|sqlite|memory"),
		db:          fs.String("db", defaults.DBPath, "sqlite database path"),
		snapshotDir: fs.String("snapshot-dir", defaults.SnapshotDir, "file store snapshot directory"),
		out:         fs.String("out", defaults.OutDir, "figure output directory"),
	}
}

// resolve loads the config file and applies the flags set on the command line.
func (f commonFlags) resolve(fs *flag.FlagSet) (*Config, error) {
	cfg, err := loadConfig(*f.config)
	if err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "store":
			cfg.Store = *f.store
		case "db":
			cfg.DBPath = *f.db
		case "snapshot-dir":
			cfg.SnapshotDir = *f.snapshotDir
		case "out":
			cfg.OutDir = *f.out
		}
	})
	return cfg, nil
}

func (c *Config) clientOptions(out io.Writer) (evoagg.Options, error) {
	style, err := c.Style.plotStyle()
	if err != nil {
		return evoagg.Options{}, err
	}
	return evoagg.Options{
		StoreKind:   c.Store,
		DBPath:      c.DBPath,
		SnapshotDir: c.SnapshotDir,
		OutDir:      c.OutDir,
		Style:       style,
		Log:         out,
	}, nil
}
