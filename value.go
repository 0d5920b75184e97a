// Package pgraph provides the values, gradient accumulators and node
// contract shared by the nodes of a probabilistic model graph and the
// distributions that govern its random variables.
package pgraph

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidValue is returned when a NodeValue's payload does not agree
// with its declared type
var ErrInvalidValue = errors.New("invalid node value")

// NodeValue is a tagged union holding either a single atomic value or a
// matrix of reals. The Type field selects which payload is populated:
//
//	Scalar Boolean                  -> Bool
//	Scalar Natural                  -> Natural
//	Scalar Real/PosReal/NegReal/... -> Double
//	BroadcastMatrix                 -> Matrix
//
// NodeValues should be built with the constructors of this package so
// that the tag and payload are always consistent.
type NodeValue struct {
	Type    ValueType
	Bool    bool
	Double  float64
	Natural uint64
	Matrix  *mat.Dense
}

// NewBool returns a boolean node value
func NewBool(b bool) NodeValue {
	return NodeValue{Type: ScalarType(Boolean), Bool: b}
}

// NewNatural returns a natural number node value
func NewNatural(n uint64) NodeValue {
	return NodeValue{Type: ScalarType(Natural), Natural: n}
}

// NewReal returns a real-valued node value
func NewReal(x float64) NodeValue {
	return NodeValue{Type: ScalarType(Real), Double: x}
}

// NewPosReal returns a positive real node value. The value is not checked,
// use Validate for that.
func NewPosReal(x float64) NodeValue {
	return NodeValue{Type: ScalarType(PosReal), Double: x}
}

// NewNegReal returns a negative real node value
func NewNegReal(x float64) NodeValue {
	return NodeValue{Type: ScalarType(NegReal), Double: x}
}

// NewProbability returns a node value in [0, 1]
func NewProbability(p float64) NodeValue {
	return NodeValue{Type: ScalarType(Probability), Double: p}
}

// NewMatrix returns a matrix node value of atomic type a. The matrix is
// not copied. A nil or empty matrix yields an empty (0 x 0) value,
// which represents an empty batch.
func NewMatrix(a AtomicType, m *mat.Dense) NodeValue {
	if m == nil || m.IsEmpty() {
		return NodeValue{Type: MatrixType(a, 0, 0), Matrix: &mat.Dense{}}
	}

	r, c := m.Dims()
	return NodeValue{Type: MatrixType(a, r, c), Matrix: m}
}

// IsScalar returns whether v holds a single atomic value
func (v *NodeValue) IsScalar() bool {
	return v.Type.Variable == Scalar
}

// IsMatrix returns whether v holds a matrix
func (v *NodeValue) IsMatrix() bool {
	return v.Type.Variable == BroadcastMatrix
}

// IsDouble returns whether the elements of v are float64s
func (v *NodeValue) IsDouble() bool {
	return v.Type.Atomic.IsDouble()
}

// Size returns the number of atomic values held by v
func (v *NodeValue) Size() int {
	if v.IsScalar() {
		return 1
	}
	return v.Type.Rows * v.Type.Cols
}

// Validate returns an error if the payload of v disagrees with its type
// or lies outside the support of its atomic type
func (v *NodeValue) Validate() error {
	switch v.Type.Variable {
	case Scalar:
		if v.IsDouble() {
			return checkDouble(v.Type.Atomic, v.Double)
		}
		if v.Type.Atomic == Untyped {
			return fmt.Errorf("validate: %w: untyped scalar", ErrInvalidValue)
		}
		return nil

	case BroadcastMatrix:
		if !v.IsDouble() {
			return fmt.Errorf("validate: %w: matrix of %v unsupported",
				ErrInvalidValue, v.Type.Atomic)
		}
		if v.Matrix == nil {
			return fmt.Errorf("validate: %w: nil matrix", ErrInvalidValue)
		}

		r, c := 0, 0
		if !v.Matrix.IsEmpty() {
			r, c = v.Matrix.Dims()
		}
		if r != v.Type.Rows || c != v.Type.Cols {
			return fmt.Errorf("validate: %w: expected shape (%d, %d) but "+
				"got (%d, %d)", ErrInvalidValue, v.Type.Rows, v.Type.Cols, r,
				c)
		}

		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if err := checkDouble(v.Type.Atomic, v.Matrix.At(i, j)); err != nil {
					return fmt.Errorf("validate: element (%d, %d): %w", i, j,
						err)
				}
			}
		}
		return nil
	}

	return fmt.Errorf("validate: %w: unknown variable type %v",
		ErrInvalidValue, v.Type.Variable)
}

func checkDouble(a AtomicType, x float64) error {
	if math.IsNaN(x) {
		return fmt.Errorf("%w: NaN %v", ErrInvalidValue, a)
	}

	switch a {
	case PosReal:
		if x <= 0 {
			return fmt.Errorf("%w: expected positive real but got %v",
				ErrInvalidValue, x)
		}
	case NegReal:
		if x >= 0 {
			return fmt.Errorf("%w: expected negative real but got %v",
				ErrInvalidValue, x)
		}
	case Probability:
		if x < 0 || x > 1 {
			return fmt.Errorf("%w: expected probability but got %v",
				ErrInvalidValue, x)
		}
	}
	return nil
}

func (v NodeValue) String() string {
	switch {
	case v.IsMatrix():
		if v.Matrix == nil || v.Matrix.IsEmpty() {
			return fmt.Sprintf("%v[]", v.Type)
		}
		return fmt.Sprintf("%v%v", v.Type, mat.Formatted(v.Matrix,
			mat.Squeeze()))
	case v.Type.Atomic == Boolean:
		return fmt.Sprintf("%v(%v)", v.Type, v.Bool)
	case v.Type.Atomic == Natural:
		return fmt.Sprintf("%v(%v)", v.Type, v.Natural)
	}
	return fmt.Sprintf("%v(%v)", v.Type, v.Double)
}
