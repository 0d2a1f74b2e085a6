package tensor

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/x448/float16"
)

// Block is a named memory block: a tensor of one or more time steps laid out
// contiguously in little-endian byte order.
type Block struct {
	owner string
	name  string
	shape Shape
	dtype DataType
	steps int
	data  []byte

	minValueHint float32
	maxValueHint float32

	metadata map[string]string
}

// NewBlock allocates a zeroed block holding steps time steps of the given shape.
func NewBlock(owner, name string, shape Shape, dtype DataType, steps int) (*Block, error) {
	if err := checkBlockShape(shape, steps); err != nil {
		return nil, err
	}
	stepSize := shape.ElementCount() * dtype.Size()
	return newBlock(owner, name, shape, dtype, steps, make([]byte, stepSize*steps)), nil
}

// BlockFromBytes wraps existing data. The data length must be a whole number
// of time steps.
func BlockFromBytes(owner, name string, shape Shape, dtype DataType, data []byte) (*Block, error) {
	if err := checkBlockShape(shape, 1); err != nil {
		return nil, err
	}
	stepSize := shape.ElementCount() * dtype.Size()
	steps := 1
	if stepSize > 0 {
		if len(data) == 0 || len(data)%stepSize != 0 {
			return nil, fmt.Errorf("block %s: data size %d is not a multiple of step size %d", name, len(data), stepSize)
		}
		steps = len(data) / stepSize
	}
	return newBlock(owner, name, shape, dtype, steps, data), nil
}

// BlockFromFloat32 builds a single time-step float32 block from values.
func BlockFromFloat32(owner, name string, shape Shape, values []float32) (*Block, error) {
	if shape.ElementCount() != len(values) {
		return nil, fmt.Errorf("block %s: %d values do not fill shape %v", name, len(values), shape)
	}
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[4*i:], math.Float32bits(v))
	}
	return BlockFromBytes(owner, name, shape, Float32, data)
}

func newBlock(owner, name string, shape Shape, dtype DataType, steps int, data []byte) *Block {
	return &Block{
		owner:        owner,
		name:         name,
		shape:        shape.Clone(),
		dtype:        dtype,
		steps:        steps,
		data:         data,
		minValueHint: float32(math.Inf(-1)),
		maxValueHint: float32(math.Inf(1)),
		metadata:     make(map[string]string),
	}
}

// checkBlockShape allows zero extents (degenerate blocks are observable and
// render as an empty texture) but rejects negative ones.
func checkBlockShape(shape Shape, steps int) error {
	for i, dim := range shape {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	if steps < 1 {
		return fmt.Errorf("invalid time step count %d (must be > 0)", steps)
	}
	return nil
}

// Owner returns the name of the node owning the block.
func (b *Block) Owner() string { return b.owner }

// Name returns the block name.
func (b *Block) Name() string { return b.name }

// Shape returns the block's shape.
func (b *Block) Shape() Shape { return b.shape }

// DType returns the element type.
func (b *Block) DType() DataType { return b.dtype }

// TimeSteps returns the number of time steps stored in the block.
func (b *Block) TimeSteps() int { return b.steps }

// StepSize returns the byte size of one time step.
func (b *Block) StepSize() int {
	return b.shape.ElementCount() * b.dtype.Size()
}

// Data returns the raw byte slice for all time steps.
// WARNING: Direct access to underlying memory.
func (b *Block) Data() []byte { return b.data }

// ValueHint returns the declared value range of the block's elements.
// Unbounded ends are reported as infinities.
func (b *Block) ValueHint() (minValue, maxValue float32) {
	return b.minValueHint, b.maxValueHint
}

// SetValueHint declares the value range of the block's elements.
func (b *Block) SetValueHint(minValue, maxValue float32) {
	b.minValueHint = minValue
	b.maxValueHint = maxValue
}

// Metadata returns the value stored under key.
func (b *Block) Metadata(key string) (string, bool) {
	v, ok := b.metadata[key]
	return v, ok
}

// SetMetadata stores a metadata value.
func (b *Block) SetMetadata(key, value string) {
	b.metadata[key] = value
}

// MetadataKeys returns the metadata keys in sorted order.
func (b *Block) MetadataKeys() []string {
	keys := make([]string, 0, len(b.metadata))
	for k := range b.metadata {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// MetadataRenderingMethod is the metadata key holding the preferred rendering method.
const MetadataRenderingMethod = "rendering_method"

// RenderingMethodHint returns the preferred rendering method name, if declared.
func (b *Block) RenderingMethodHint() (string, bool) {
	return b.Metadata(MetadataRenderingMethod)
}

// Float32s decodes one time step to float32 values.
func (b *Block) Float32s(step int) ([]float32, error) {
	if step < 0 || step >= b.steps {
		return nil, fmt.Errorf("block %s: time step %d out of range [0, %d)", b.name, step, b.steps)
	}

	n := b.shape.ElementCount()
	size := b.dtype.Size()
	raw := b.data[step*n*size : (step+1)*n*size]
	out := make([]float32, n)

	switch b.dtype {
	case Float32:
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
		}
	case Float64:
		for i := range out {
			out[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:])))
		}
	case Float16:
		for i := range out {
			out[i] = float16.Frombits(binary.LittleEndian.Uint16(raw[2*i:])).Float32()
		}
	case BFloat16:
		// bfloat16 is the upper half of an IEEE-754 float32.
		for i := range out {
			out[i] = math.Float32frombits(uint32(binary.LittleEndian.Uint16(raw[2*i:])) << 16)
		}
	case Int32:
		for i := range out {
			out[i] = float32(int32(binary.LittleEndian.Uint32(raw[4*i:]))) //nolint:gosec // G115: reinterpretation of stored bits
		}
	case Int64:
		for i := range out {
			out[i] = float32(int64(binary.LittleEndian.Uint64(raw[8*i:]))) //nolint:gosec // G115: reinterpretation of stored bits
		}
	case Uint8:
		for i := range out {
			out[i] = float32(raw[i])
		}
	case Bool:
		for i := range out {
			if raw[i] != 0 {
				out[i] = 1
			}
		}
	default:
		return nil, fmt.Errorf("block %s: unsupported data type %s", b.name, b.dtype)
	}

	return out, nil
}
