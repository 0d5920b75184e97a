package distribution

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/pgraph"
)

// LogProbJoint returns the joint log density of a batch of i.i.d.
// observations under d, the sum of d.LogProbIID(v). An empty batch has
// a joint log density of 0.
func LogProbJoint(d Distribution, v *pgraph.NodeValue) float64 {
	logProbs := d.LogProbIID(v)
	if logProbs.IsEmpty() {
		return 0
	}
	return mat.Sum(logProbs)
}

// eachObservation calls fn with the position and value of every
// observation in the batch x. NaN observations are outside the support
// of every family and are skipped.
func eachObservation(x *mat.Dense, fn func(i, j int, x float64)) {
	if x.IsEmpty() {
		return
	}

	r, c := x.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if obs := x.At(i, j); !math.IsNaN(obs) {
				fn(i, j, obs)
			}
		}
	}
}
