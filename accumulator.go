package pgraph

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// DoubleMatrix is a gradient accumulator, the back_grad of a node in a
// reverse-mode pass. It is shaped like the node it accumulates into: a
// scalar node uses a 1 x 1 buffer and an empty batch a 0 x 0 buffer.
//
// The zero value is an empty (0 x 0) accumulator.
//
// Contributions are only ever added, never overwritten, so that every
// consumer of a node can contribute its partial gradient in any order.
// Each add is serialized, which makes a DoubleMatrix safe to share
// between goroutines traversing independent subgraphs.
type DoubleMatrix struct {
	mu   sync.Mutex
	grad *mat.Dense
}

// NewDoubleMatrix returns a zeroed rows x cols accumulator. Either
// dimension may be zero.
func NewDoubleMatrix(rows, cols int) *DoubleMatrix {
	if rows < 0 || cols < 0 {
		panic(mat.ErrShape)
	}
	if rows == 0 || cols == 0 {
		return &DoubleMatrix{grad: &mat.Dense{}}
	}
	return &DoubleMatrix{grad: mat.NewDense(rows, cols, nil)}
}

// NewScalarGrad returns a zeroed accumulator for a scalar node
func NewScalarGrad() *DoubleMatrix {
	return NewDoubleMatrix(1, 1)
}

// NewGradFor returns a zeroed accumulator shaped to match v
func NewGradFor(v *NodeValue) *DoubleMatrix {
	if v.IsScalar() {
		return NewScalarGrad()
	}
	return NewDoubleMatrix(v.Type.Rows, v.Type.Cols)
}

// Dims returns the shape of the accumulator
func (d *DoubleMatrix) Dims() (r, c int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.empty() {
		return 0, 0
	}
	return d.grad.Dims()
}

// empty reports whether the buffer holds no elements. The caller must
// hold d.mu.
func (d *DoubleMatrix) empty() bool {
	return d.grad == nil || d.grad.IsEmpty()
}

// AddScalar adds v to every element of the accumulator
func (d *DoubleMatrix) AddScalar(v float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.empty() {
		return
	}

	raw := d.grad.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		for j := range row {
			row[j] += v
		}
	}
}

// AddMatrix adds m element-wise to the accumulator. It panics with
// mat.ErrShape if m is not the same shape as the accumulator.
func (d *DoubleMatrix) AddMatrix(m mat.Matrix) {
	d.AddScaled(1, m)
}

// AddScaled adds alpha * m element-wise to the accumulator. It panics
// with mat.ErrShape if m is not the same shape as the accumulator.
func (d *DoubleMatrix) AddScaled(alpha float64, m mat.Matrix) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, c := 0, 0
	if !IsEmpty(m) {
		r, c = m.Dims()
	}
	dr, dc := 0, 0
	if !d.empty() {
		dr, dc = d.grad.Dims()
	}
	if r != dr || c != dc {
		panic(mat.ErrShape)
	}
	if r == 0 || c == 0 {
		return
	}

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d.grad.Set(i, j, d.grad.At(i, j)+alpha*m.At(i, j))
		}
	}
}

// Scalar returns the (0, 0) element of the accumulator, the gradient
// of a scalar node
func (d *DoubleMatrix) Scalar() float64 {
	return d.At(0, 0)
}

// At returns the accumulated gradient at (i, j). It panics with
// mat.ErrIndexOutOfRange if the accumulator is empty.
func (d *DoubleMatrix) At(i, j int) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.empty() {
		panic(mat.ErrIndexOutOfRange)
	}
	return d.grad.At(i, j)
}

// Matrix returns a copy of the accumulated gradient
func (d *DoubleMatrix) Matrix() *mat.Dense {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.empty() {
		return &mat.Dense{}
	}
	return mat.DenseCopyOf(d.grad)
}

// Reset zeroes the accumulator. The graph calls this between reverse
// passes; distributions never do.
func (d *DoubleMatrix) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.empty() {
		d.grad.Zero()
	}
}

// IsEmpty reports whether m holds no elements. Zero-value gonum
// matrices panic on Dims-dependent operations so they are checked
// first.
func IsEmpty(m mat.Matrix) bool {
	if m == nil {
		return true
	}
	if d, ok := m.(*mat.Dense); ok && d == nil {
		return true
	}
	if e, ok := m.(interface{ IsEmpty() bool }); ok {
		return e.IsEmpty()
	}
	r, c := m.Dims()
	return r == 0 || c == 0
}
