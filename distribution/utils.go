package distribution

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/pgraph"
)

// asBatch returns v as a matrix of observations. Scalars become a
// 1 x 1 batch; an empty matrix value yields an empty matrix.
func asBatch(v *pgraph.NodeValue) *mat.Dense {
	if v.IsMatrix() {
		if v.Matrix == nil {
			return &mat.Dense{}
		}
		return v.Matrix
	}

	x := v.Double
	switch v.Type.Atomic {
	case pgraph.Boolean:
		x = 0
		if v.Bool {
			x = 1
		}
	case pgraph.Natural:
		x = float64(v.Natural)
	}
	return mat.NewDense(1, 1, []float64{x})
}

// filled returns an r x c matrix with every element set to x
func filled(r, c int, x float64) *mat.Dense {
	backing := make([]float64, r*c)
	for i := range backing {
		backing[i] = x
	}
	return mat.NewDense(r, c, backing)
}

// negInfLike returns a matrix of -Inf log probabilities shaped like
// the batch x
func negInfLike(x *mat.Dense) *mat.Dense {
	if x.IsEmpty() {
		return &mat.Dense{}
	}
	r, c := x.Dims()
	return filled(r, c, math.Inf(-1))
}
