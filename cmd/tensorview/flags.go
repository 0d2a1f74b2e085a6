package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/born-ml/tensorview/internal/loader"
	"github.com/born-ml/tensorview/internal/observer"
	"github.com/born-ml/tensorview/internal/tensor"
)

// observeFlags holds the observer and loader options shared by render and
// layout. Only flags set on the command line override an observer's
// configuration, so block metadata and inherited bounds stay in effect
// otherwise.
type observeFlags struct {
	method         string
	scale          string
	bounds         string
	minValue       float32
	maxValue       float32
	elements       int
	dims           string
	tiled          bool
	customTileDims bool
	tilesPerRow    int
	timeStep       int

	tensors   []string
	owner     string
	timeAxis  bool
	autoHints bool

	changed map[string]bool
}

func (f *observeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.method, "method", "colorscale", "Rendering method: colorscale, vector or rgb")
	fs.StringVar(&f.scale, "scale", "linear", "Color scale: linear or inversetangent")
	fs.StringVar(&f.bounds, "bounds", "inherited", "Bound policy: inherited or manual")
	fs.Float32Var(&f.minValue, "min", observer.DefaultMinValue, "Lower bound of the color scale (implies --bounds manual)")
	fs.Float32Var(&f.maxValue, "max", observer.DefaultMaxValue, "Upper bound of the color scale (implies --bounds manual)")
	fs.IntVar(&f.elements, "elements", observer.DefaultVectorElements, "Elements per vector in vector mode")
	fs.StringVar(&f.dims, "dims", "", "Custom dimensions, e.g. \"28, *\"")
	fs.BoolVar(&f.tiled, "tiled", false, "Display the block as a grid of tiles")
	fs.BoolVar(&f.customTileDims, "custom-tile-dims", false, "Use --dims as the tile shape")
	fs.IntVar(&f.tilesPerRow, "tiles-per-row", observer.DefaultTilesPerRow, "Tiles per row in tiled mode")
	fs.IntVar(&f.timeStep, "time-step", 0, "Time step to render")

	fs.StringSliceVar(&f.tensors, "tensor", nil, "Only observe the named tensors (repeatable)")
	fs.StringVar(&f.owner, "owner", "", "Owner name of the blocks (default: file name)")
	fs.BoolVar(&f.timeAxis, "time-axis", false, "Treat the leading dimension as time steps")
	fs.BoolVar(&f.autoHints, "auto-hints", false, "Derive value hints from the data")
}

// capture records which flags were set explicitly.
func (f *observeFlags) capture(cmd *cobra.Command) {
	f.changed = make(map[string]bool)
	for _, name := range []string{"method", "scale", "bounds", "min", "max", "elements", "dims", "tiled", "custom-tile-dims", "tiles-per-row", "time-step"} {
		f.changed[name] = cmd.Flags().Changed(name)
	}
}

func (f *observeFlags) loaderOptions() loader.Options {
	return loader.Options{Owner: f.owner, TimeAxis: f.timeAxis, AutoHints: f.autoHints}
}

// apply overrides cfg with the explicitly set flags.
func (f *observeFlags) apply(cfg observer.Config) (observer.Config, error) {
	if f.changed["method"] {
		m, err := observer.ParseMethod(f.method)
		if err != nil {
			return cfg, err
		}
		cfg.Method = m
	}
	if f.changed["scale"] {
		s, err := observer.ParseScale(f.scale)
		if err != nil {
			return cfg, err
		}
		cfg.Scale = s
	}
	if f.changed["bounds"] {
		p, err := observer.ParseBoundPolicy(f.bounds)
		if err != nil {
			return cfg, err
		}
		cfg.BoundPolicy = p
	}
	if f.changed["min"] {
		cfg.MinValue = f.minValue
	}
	if f.changed["max"] {
		cfg.MaxValue = f.maxValue
	}
	if f.changed["elements"] {
		cfg.VectorElements = f.elements
	}
	if f.changed["dims"] {
		cfg.DimensionHint = f.dims
	}
	if f.changed["tiled"] {
		cfg.ObserveTensors = f.tiled
	}
	if f.changed["custom-tile-dims"] {
		cfg.UseCustomDimensionsForTiles = f.customTileDims
	}
	if f.changed["tiles-per-row"] {
		cfg.TilesPerRow = f.tilesPerRow
	}
	if f.changed["time-step"] {
		cfg.TimeStep = f.timeStep
	}
	return cfg, nil
}

// loadBlocks opens path and keeps the tensors selected with --tensor.
func (f *observeFlags) loadBlocks(path string) ([]*tensor.Block, error) {
	blocks, err := loader.OpenBlocks(path, f.loaderOptions())
	if err != nil {
		return nil, err
	}
	if len(f.tensors) == 0 {
		return blocks, nil
	}

	selected := blocks[:0]
	for _, b := range blocks {
		if slices.Contains(f.tensors, b.Name()) {
			selected = append(selected, b)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%s: no tensor named %v", path, f.tensors)
	}
	return selected, nil
}

// configure applies the flags to a new observer of block.
func (f *observeFlags) configure(obs *observer.Observer) (observer.Layout, []observer.Warning, error) {
	cfg, err := f.apply(obs.Config())
	if err != nil {
		return observer.Layout{}, nil, err
	}
	return obs.ApplyConfiguration(cfg)
}

// formatWarning renders a warning with the owner and name of its block.
func formatWarning(block *tensor.Block, w observer.Warning) string {
	return fmt.Sprintf("Memory block '%s: %s' observer: %s", block.Owner(), block.Name(), w.Message)
}
