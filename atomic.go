package pgraph

import "fmt"

// AtomicType is the type of a single element of a node value
type AtomicType int

const (
	Untyped AtomicType = iota
	Boolean
	Probability // Real in [0, 1]
	Real
	PosReal // Real in (0, ∞)
	NegReal // Real in (-∞, 0)
	Natural
)

func (a AtomicType) String() string {
	switch a {
	case Untyped:
		return "untyped"
	case Boolean:
		return "boolean"
	case Probability:
		return "probability"
	case Real:
		return "real"
	case PosReal:
		return "pos_real"
	case NegReal:
		return "neg_real"
	case Natural:
		return "natural"
	}
	return fmt.Sprintf("AtomicType(%d)", int(a))
}

// IsDouble returns whether values of the atomic type are stored as
// float64s
func (a AtomicType) IsDouble() bool {
	return a == Real || a == PosReal || a == NegReal || a == Probability
}

// VariableType distinguishes scalar node values from matrices of
// atomic values
type VariableType int

const (
	Scalar VariableType = iota
	BroadcastMatrix
)

func (v VariableType) String() string {
	switch v {
	case Scalar:
		return "scalar"
	case BroadcastMatrix:
		return "matrix"
	}
	return fmt.Sprintf("VariableType(%d)", int(v))
}

// ValueType is the full type of a node value. Rows and Cols are only
// meaningful for matrices.
type ValueType struct {
	Variable VariableType
	Atomic   AtomicType
	Rows     int
	Cols     int
}

// ScalarType returns the type of a scalar value of atomic type a
func ScalarType(a AtomicType) ValueType {
	return ValueType{Variable: Scalar, Atomic: a}
}

// MatrixType returns the type of a rows x cols matrix of atomic type a
func MatrixType(a AtomicType, rows, cols int) ValueType {
	return ValueType{
		Variable: BroadcastMatrix,
		Atomic:   a,
		Rows:     rows,
		Cols:     cols,
	}
}

func (v ValueType) String() string {
	if v.Variable == Scalar {
		return v.Atomic.String()
	}
	return fmt.Sprintf("matrix<%v>(%d, %d)", v.Atomic, v.Rows, v.Cols)
}
