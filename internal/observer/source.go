package observer

import (
	"context"

	"github.com/born-ml/tensorview/internal/tensor"
)

// RenderableSource is the capability an observed memory block must provide.
// tensor.Block implements it.
type RenderableSource interface {
	Name() string
	Shape() tensor.Shape
	DType() tensor.DataType
	// ValueHint returns the declared value range; unbounded ends are infinite.
	ValueHint() (minValue, maxValue float32)
	TimeSteps() int
	// Float32s returns the elements of one time step as float32.
	Float32s(step int) ([]float32, error)
}

// MethodHinter is implemented by sources that declare a preferred rendering
// method. The hint is used until a method is chosen explicitly.
type MethodHinter interface {
	RenderingMethodHint() (string, bool)
}

// TextureAllocator owns the texture memory. Allocate is called synchronously
// whenever the computed texture size changes.
type TextureAllocator interface {
	Allocate(size Size) error
}

// KernelExecutor paints the texture for one frame.
type KernelExecutor interface {
	Run(ctx context.Context, inv Invocation) error
}
