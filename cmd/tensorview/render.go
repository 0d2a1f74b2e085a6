package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/tensorview/internal/envconfig"
	"github.com/born-ml/tensorview/internal/kernel/cpu"
	"github.com/born-ml/tensorview/internal/kernel/webgpu"
	"github.com/born-ml/tensorview/internal/observer"
	"github.com/born-ml/tensorview/internal/parallel"
	"github.com/born-ml/tensorview/internal/tensor"
	"github.com/born-ml/tensorview/internal/texture"
)

type renderOptions struct {
	outDir   string
	format   texture.Format
	zoom     int
	backend  string
	parallel parallel.Config
}

func newRenderCmd() *cobra.Command {
	var (
		flags   observeFlags
		outDir  string
		format  string
		zoom    uint
		backend string
	)

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render every tensor of a SafeTensors file to an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.capture(cmd)

			f, err := texture.ParseFormat(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("zoom") {
				zoom = envconfig.Zoom()
			}
			if !cmd.Flags().Changed("backend") {
				backend = envconfig.Backend()
			}

			par := parallel.DefaultConfig()
			if envconfig.NoParallel() {
				par = parallel.Sequential()
			}

			blocks, err := flags.loadBlocks(args[0])
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o750); err != nil {
				return err
			}

			return renderBlocks(cmd.Context(), blocks, &flags, renderOptions{
				outDir:   outDir,
				format:   f,
				zoom:     max(int(zoom), 1), //nolint:gosec // G115: zoom is a small user-supplied factor
				backend:  resolveBackend(backend),
				parallel: par,
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "Output directory")
	cmd.Flags().StringVar(&format, "format", "png", "Image format: png, bmp or tiff")
	cmd.Flags().UintVar(&zoom, "zoom", 1, "Nearest-neighbour magnification")
	cmd.Flags().StringVar(&backend, "backend", envconfig.BackendAuto, "Kernel executor: cpu, webgpu or auto")

	return cmd
}

// resolveBackend turns auto into a concrete executor name.
func resolveBackend(name string) string {
	if name != envconfig.BackendAuto {
		return name
	}
	if webgpu.IsAvailable() {
		return envconfig.BackendWebGPU
	}
	return envconfig.BackendCPU
}

// newExecutor creates the executor painting tex. The returned function
// releases it.
func newExecutor(backend string, tex *texture.Texture, par parallel.Config) (observer.KernelExecutor, func(), error) {
	switch backend {
	case envconfig.BackendWebGPU:
		e, err := webgpu.New(tex)
		if err != nil {
			return nil, nil, err
		}
		return e, e.Release, nil
	case envconfig.BackendCPU:
		return cpu.New(tex, par), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// renderBlocks renders the blocks concurrently, one observer per block.
func renderBlocks(ctx context.Context, blocks []*tensor.Block, flags *observeFlags, opts renderOptions) error {
	limit := int(envconfig.NumParallel()) //nolint:gosec // G115: small user-supplied count
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	if opts.backend == envconfig.BackendWebGPU {
		// One device at a time.
		limit = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, block := range blocks {
		g.Go(func() error {
			return renderBlock(ctx, block, flags, opts)
		})
	}
	return g.Wait()
}

func renderBlock(ctx context.Context, block *tensor.Block, flags *observeFlags, opts renderOptions) error {
	tex := texture.New()
	obs := observer.New(block, observer.WithAllocator(tex))

	layout, warnings, err := flags.configure(obs)
	if err != nil {
		return fmt.Errorf("%s: %w", block.Name(), err)
	}
	for _, w := range warnings {
		slog.Warn(formatWarning(block, w), "kind", w.Kind)
	}
	if layout.Size.IsEmpty() {
		slog.Info("nothing to render", "block", block.Name(), "shape", block.Shape())
		return nil
	}

	exec, release, err := newExecutor(opts.backend, tex, opts.parallel)
	if err != nil {
		return fmt.Errorf("%s: %w", block.Name(), err)
	}
	defer release()

	if err := obs.Frame(ctx, exec); err != nil {
		return fmt.Errorf("%s: %w", block.Name(), err)
	}

	path := filepath.Join(opts.outDir, outputName(block, opts.format))
	if err := tex.WriteFile(path, opts.zoom); err != nil {
		return fmt.Errorf("%s: %w", block.Name(), err)
	}

	slog.Info("rendered", "block", block.Name(), "size", layout.Size, "kernel", obs.Invocation().Kernel, "path", path)
	return nil
}

// outputName builds "<owner>_<name>.<format>" with path separators and
// other unsafe characters replaced.
func outputName(block *tensor.Block, format texture.Format) string {
	safe := func(s string) string {
		return strings.Map(func(r rune) rune {
			switch r {
			case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
				return '_'
			}
			return r
		}, s)
	}
	name := safe(block.Name())
	if block.Owner() != "" {
		name = safe(block.Owner()) + "_" + name
	}
	return name + "." + string(format)
}
