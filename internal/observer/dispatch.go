package observer

import "fmt"

// Kernel identifies a texture-painting kernel variant.
type Kernel int

// Kernel variants.
const (
	KernelColorScale Kernel = iota
	KernelVector
	KernelRGB
	KernelTiledColorScale
	KernelTiledRGB
)

// String returns the kernel's entry point name. Executors key their compiled
// kernels by it.
func (k Kernel) String() string {
	switch k {
	case KernelColorScale:
		return "color_scale"
	case KernelVector:
		return "draw_vectors"
	case KernelRGB:
		return "draw_rgb"
	case KernelTiledColorScale:
		return "color_scale_tiled"
	case KernelTiledRGB:
		return "draw_rgb_tiled"
	default:
		return fmt.Sprintf("Kernel(%d)", int(k))
	}
}

// Params are the scalar kernel parameters. Only the fields meaningful for the
// selected kernel are set.
type Params struct {
	Method         Method
	Scale          Scale
	Min            float32
	Max            float32
	VectorElements int
	Size           Size
	Tile           TileGeometry
	ElementCount   int
	// WorkItems is the number of kernel threads: texture pixels for most
	// kernels, block elements for the tiled color-scale kernel.
	WorkItems int
}

// Invocation is a fully resolved kernel call for one frame.
type Invocation struct {
	Kernel   Kernel
	Params   Params
	Source   RenderableSource
	TimeStep int
}

type strategyKey struct {
	tiled  bool
	method Method
}

type strategy struct {
	kernel Kernel
	params func(layout Layout, cfg Config, bounds Bounds, elementCount int) Params
}

func tiledRGBParams(layout Layout, _ Config, _ Bounds, _ int) Params {
	return Params{
		Size:      layout.Size,
		Tile:      layout.Tile,
		WorkItems: layout.Size.Pixels(),
	}
}

func tiledColorScaleParams(layout Layout, cfg Config, bounds Bounds, elementCount int) Params {
	return Params{
		Method:       ColorScale,
		Scale:        cfg.Scale,
		Min:          bounds.Min,
		Max:          bounds.Max,
		Size:         layout.Size,
		Tile:         layout.Tile,
		ElementCount: elementCount,
		WorkItems:    elementCount,
	}
}

func vectorParams(layout Layout, cfg Config, bounds Bounds, _ int) Params {
	return Params{
		VectorElements: cfg.VectorElements,
		Max:            bounds.Max,
		Size:           layout.Size,
		WorkItems:      layout.Size.Pixels(),
	}
}

func rgbParams(layout Layout, _ Config, _ Bounds, _ int) Params {
	return Params{
		Size:      layout.Size,
		WorkItems: layout.Size.Pixels(),
	}
}

func colorScaleParams(layout Layout, cfg Config, bounds Bounds, _ int) Params {
	return Params{
		Method:    cfg.Method,
		Scale:     cfg.Scale,
		Min:       bounds.Min,
		Max:       bounds.Max,
		Size:      layout.Size,
		WorkItems: layout.Size.Pixels(),
	}
}

// strategies maps (tiled, method) to the kernel painting that combination.
// Vector mode has no tiled kernel and falls back to the tiled color scale.
var strategies = map[strategyKey]strategy{
	{tiled: true, method: RGB}:         {KernelTiledRGB, tiledRGBParams},
	{tiled: true, method: ColorScale}:  {KernelTiledColorScale, tiledColorScaleParams},
	{tiled: true, method: Vector}:      {KernelTiledColorScale, tiledColorScaleParams},
	{tiled: false, method: Vector}:     {KernelVector, vectorParams},
	{tiled: false, method: RGB}:        {KernelRGB, rgbParams},
	{tiled: false, method: ColorScale}: {KernelColorScale, colorScaleParams},
}

// SelectKernel resolves the kernel and parameters for a layout.
func SelectKernel(layout Layout, cfg Config, bounds Bounds, elementCount int) (Kernel, Params) {
	s, ok := strategies[strategyKey{tiled: layout.Tiled, method: cfg.Method}]
	if !ok {
		s = strategies[strategyKey{tiled: layout.Tiled, method: ColorScale}]
	}
	return s.kernel, s.params(layout, cfg, bounds, elementCount)
}
