package observer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/born-ml/tensorview/internal/tensor"
)

// State is the observer's lifecycle state.
type State int

// Observer states.
const (
	// Idle: no configuration has been applied yet.
	Idle State = iota
	// Configured: a layout and kernel are resolved, no frame rendered since.
	Configured
	// Rendering: at least one frame was dispatched with the current configuration.
	Rendering
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Configured:
		return "configured"
	case Rendering:
		return "rendering"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Observer renders one memory block into a texture.
//
// An Observer is not safe for concurrent use. Configuration changes go
// through ApplyConfiguration, which either takes full effect (config, layout,
// texture size and kernel) or leaves the observer untouched.
type Observer struct {
	source    RenderableSource
	allocator TextureAllocator
	logger    *slog.Logger

	cfg    Config
	hint   DimensionHint
	bounds Bounds

	layout     Layout
	invocation Invocation
	warnings   []Warning
	state      State

	// methodSelected is set once the method was chosen explicitly; until
	// then it follows the source's MethodHinter.
	methodSelected bool
}

// Option configures an Observer.
type Option func(*Observer)

// WithAllocator sets the texture allocator notified of size changes.
func WithAllocator(a TextureAllocator) Option {
	return func(o *Observer) {
		o.allocator = a
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l *slog.Logger) Option {
	return func(o *Observer) {
		o.logger = l
	}
}

// New creates an idle observer of src with the default configuration and
// bounds inherited from the source's value hint.
func New(src RenderableSource, opts ...Option) *Observer {
	o := &Observer{
		source: src,
		logger: slog.Default(),
		cfg:    DefaultConfig(),
		bounds: DefaultBounds(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if src != nil {
		o.bounds.Reset(src.ValueHint())
		o.cfg.Method = o.defaultMethod()
	}
	o.cfg.MinValue, o.cfg.MaxValue = o.bounds.Min, o.bounds.Max
	return o
}

// Config returns the configuration in effect, including resolved bounds and a
// clamped TilesPerRow. Modify the returned value and pass it back to
// ApplyConfiguration to change individual options.
func (o *Observer) Config() Config { return o.cfg }

// Layout returns the current layout.
func (o *Observer) Layout() Layout { return o.layout }

// Bounds returns the current color-mapping bounds.
func (o *Observer) Bounds() Bounds { return o.bounds }

// Hint returns the parsed dimension hint.
func (o *Observer) Hint() DimensionHint { return o.hint }

// Warnings returns the warnings of the last recomputation.
func (o *Observer) Warnings() []Warning { return o.warnings }

// State returns the lifecycle state.
func (o *Observer) State() State { return o.state }

// Invocation returns the kernel call resolved for the current configuration.
func (o *Observer) Invocation() Invocation {
	inv := o.invocation
	inv.TimeStep = o.cfg.TimeStep
	return inv
}

// Source returns the observed block.
func (o *Observer) Source() RenderableSource { return o.source }

// ApplyConfiguration replaces the whole configuration and recomputes the
// layout. A MinValue or MaxValue differing from the current bounds switches
// the bound policy to Manual; TilesPerRow below one keeps the previous value.
//
// On error the observer is left unchanged.
func (o *Observer) ApplyConfiguration(cfg Config) (Layout, []Warning, error) {
	if o.source == nil {
		return Layout{}, nil, ErrNoSource
	}
	if err := cfg.validate(); err != nil {
		return Layout{}, nil, err
	}

	if cfg.TilesPerRow < 1 {
		cfg.TilesPerRow = o.cfg.TilesPerRow
	}

	bounds := o.bounds
	edited := false
	if cfg.MinValue != o.bounds.Min {
		bounds.SetMin(cfg.MinValue)
		edited = true
	}
	if cfg.MaxValue != o.bounds.Max {
		bounds.SetMax(cfg.MaxValue)
		edited = true
	}
	if !edited {
		bounds.Policy = cfg.BoundPolicy
	}
	bounds.Reset(o.source.ValueHint())

	methodSelected := o.methodSelected || cfg.Method != o.cfg.Method
	if err := o.commit(cfg, bounds); err != nil {
		return Layout{}, nil, err
	}
	o.methodSelected = methodSelected

	return o.layout, o.warnings, nil
}

// Reset re-reads the source (shape, value hint, method hint) and recomputes
// the layout with the current configuration. Call it when the observed block
// was replaced or resized.
func (o *Observer) Reset() (Layout, []Warning, error) {
	if o.source == nil {
		return Layout{}, nil, ErrNoSource
	}

	bounds := o.bounds
	bounds.Reset(o.source.ValueHint())

	cfg := o.cfg
	if !o.methodSelected {
		cfg.Method = o.defaultMethod()
	}
	if err := cfg.validate(); err != nil {
		return Layout{}, nil, err
	}

	if err := o.commit(cfg, bounds); err != nil {
		return Layout{}, nil, err
	}
	return o.layout, o.warnings, nil
}

// SetSource attaches a new block and resets the observer.
func (o *Observer) SetSource(src RenderableSource) (Layout, []Warning, error) {
	prev := o.source
	o.source = src
	layout, warnings, err := o.Reset()
	if err != nil {
		o.source = prev
	}
	return layout, warnings, err
}

// Frame dispatches the resolved kernel for the configured time step.
func (o *Observer) Frame(ctx context.Context, exec KernelExecutor) error {
	if o.state == Idle {
		return ErrNotConfigured
	}
	if o.layout.Size.IsEmpty() {
		o.state = Rendering
		return nil
	}
	if steps := o.source.TimeSteps(); o.cfg.TimeStep >= steps {
		return fmt.Errorf("observer %s: time step %d out of range [0, %d)", o.source.Name(), o.cfg.TimeStep, steps)
	}
	o.state = Rendering

	return exec.Run(ctx, o.Invocation())
}

func (o *Observer) defaultMethod() Method {
	hinter, ok := o.source.(MethodHinter)
	if !ok {
		return o.cfg.Method
	}
	name, ok := hinter.RenderingMethodHint()
	if !ok {
		return o.cfg.Method
	}
	m, err := ParseMethod(name)
	if err != nil {
		o.logger.Debug("ignoring rendering method hint", "block", o.source.Name(), "hint", name, "error", err)
		return o.cfg.Method
	}
	return m
}

// commit computes everything derived from cfg and bounds and, if that
// succeeds, installs it.
func (o *Observer) commit(cfg Config, bounds Bounds) error {
	cfg.BoundPolicy = bounds.Policy
	cfg.MinValue, cfg.MaxValue = bounds.Min, bounds.Max

	hint := ParseDimensionHint(cfg.DimensionHint)
	layout, warnings, err := o.computeLayout(cfg, hint)
	if err != nil {
		return err
	}
	if layout.Tiled {
		cfg.TilesPerRow = layout.Tile.TilesPerRow
	}

	shape := o.source.Shape()
	kernel, params := SelectKernel(layout, cfg, bounds, shape.ElementCount())

	if o.allocator != nil && (o.state == Idle || layout.Size != o.layout.Size) {
		if err := o.allocator.Allocate(layout.Size); err != nil {
			return fmt.Errorf("observer %s: allocate %v texture: %w", o.source.Name(), layout.Size, err)
		}
	}

	o.cfg = cfg
	o.hint = hint
	o.bounds = bounds
	o.layout = layout
	o.warnings = warnings
	o.invocation = Invocation{Kernel: kernel, Params: params, Source: o.source}
	o.state = Configured

	o.logger.Debug("layout recomputed",
		"block", o.source.Name(),
		"shape", shape,
		"method", cfg.Method,
		"tiled", layout.Tiled,
		"size", layout.Size,
		"kernel", kernel,
		"warnings", len(warnings))

	return nil
}

func (o *Observer) computeLayout(cfg Config, hint DimensionHint) (Layout, []Warning, error) {
	var warnings []Warning
	shape := o.source.Shape()

	if err := hint.Err(); err != nil {
		warnings = append(warnings, Warning{
			Kind:    ShapeMismatch,
			Message: fmt.Sprintf("Could not parse custom dimensions %q: %v", hint.Source(), err),
		})
	}

	if !cfg.ObserveTensors {
		size, adjusted, warning, err := textureSize(shape, hint, cfg.Method, cfg.VectorElements)
		if err != nil {
			return Layout{}, nil, err
		}
		if warning != "" {
			warnings = append(warnings, Warning{Kind: ShapeMismatch, Message: warning})
		}
		return Layout{Size: size, Shape: adjusted, Warning: warning}, warnings, nil
	}

	if o.source.DType() != tensor.Float32 {
		warnings = append(warnings, Warning{
			Kind:    UnsupportedCombination,
			Message: fmt.Sprintf("Observing tensors with anything other than float32 is not supported, will use float32 (block is %s)", o.source.DType()),
		})
	}
	if cfg.Method == Vector || cfg.Method == RGB {
		warnings = append(warnings, Warning{
			Kind:    UnsupportedCombination,
			Message: fmt.Sprintf("Observing tensors in RGB or Vector mode is not supported (method is %s)", cfg.Method),
		})
	}

	var layoutWarning string
	tileShape := shape
	if cfg.UseCustomDimensionsForTiles {
		adjusted, ok := hint.TryApply(shape)
		if ok {
			tileShape = adjusted
		} else {
			layoutWarning = "Could not apply custom dimensions, will use default ones"
			warnings = append(warnings, Warning{Kind: ShapeMismatch, Message: layoutWarning})
		}
	}

	size, geom, warning := TiledTextureSize(tileShape, cfg.TilesPerRow, shape.ElementCount(), cfg.Method)
	if warning != "" {
		warnings = append(warnings, Warning{Kind: ShapeMismatch, Message: warning})
		if layoutWarning == "" {
			layoutWarning = warning
		}
	}

	return Layout{Size: size, Shape: tileShape, Tiled: true, Tile: geom, Warning: layoutWarning}, warnings, nil
}
