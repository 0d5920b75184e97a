// Package distribution provides the probability distributions that
// govern the random-variable nodes of a model graph.
//
// Every distribution implements the same contract so that gradient-based
// samplers can score values and propagate gradients through any model
// without knowing which families it contains. Local derivatives are
// computed by the GradientLogProb* methods and accumulated into node
// gradient buffers by the Backward* methods, which take the upstream
// chain-rule factor (the adjunct) as an option.
package distribution

import (
	"fmt"

	"github.com/op/go-logging"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/pgraph"
)

var log = logging.MustGetLogger("distribution")

func init() {
	logging.SetLevel(logging.INFO, "distribution")
}

// Kind identifies a distribution family
type Kind int

const (
	KindNormal Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "Normal"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Distribution is a probability distribution over the value of a
// random-variable node, parameterized by the values of its parent
// nodes.
//
// Parameters are validated once, by the constructor. No method
// re-validates them and no method returns an error: values outside
// the support have a log probability of -Inf, and numerical overflow
// propagates as non-finite results for the caller to reject.
type Distribution interface {
	Kind() Kind

	// SampleType returns the atomic type of values the distribution
	// samples and scores
	SampleType() pgraph.AtomicType

	// Parents returns the parameter nodes of the distribution
	Parents() []pgraph.Node

	// Sample draws one value using the current parameter values. The
	// only side effect is consuming entropy from src.
	Sample(src rand.Source) float64

	// SampleIID draws a rows x cols matrix of independent samples
	SampleIID(src rand.Source, rows, cols int) *mat.Dense

	// LogProb returns the log density or mass of v. If v is a matrix,
	// the joint log density of all its elements is returned.
	LogProb(v *pgraph.NodeValue) float64

	// LogProbIID returns the log density or mass of each element of
	// v, in a matrix of the same shape as v. A scalar v is treated as
	// a 1 x 1 batch.
	LogProbIID(v *pgraph.NodeValue) *mat.Dense

	// GradientLogProbValue returns the first and second derivatives of
	// LogProb with respect to v, holding the parameters fixed
	GradientLogProbValue(v *pgraph.NodeValue) (grad1, grad2 float64)

	// GradientLogProbParam returns the first and second derivatives of
	// LogProb with respect to the scalar the parents are differentiated
	// by, as given by their Grad1 and Grad2, holding v fixed
	GradientLogProbParam(v *pgraph.NodeValue) (grad1, grad2 float64)

	// BackwardValue adds adjunct * d(LogProb)/dv into backGrad
	BackwardValue(v *pgraph.NodeValue, backGrad *pgraph.DoubleMatrix,
		opts ...BackwardOption)

	// BackwardValueIID adds the gradient of the log density of each
	// element of v into the matching element of backGrad. Given an
	// AdjunctMatrix, each element's gradient is first scaled by the
	// matching adjunct element.
	BackwardValueIID(v *pgraph.NodeValue, backGrad *pgraph.DoubleMatrix,
		opts ...BackwardOption)

	// BackwardParam adds adjunct * d(LogProb)/dp into the gradient
	// accumulator of each parent p that needs a gradient
	BackwardParam(v *pgraph.NodeValue, opts ...BackwardOption)

	// BackwardParamIID adds the parameter gradients of the log density
	// of each element of v, optionally scaled element-wise by an
	// AdjunctMatrix, into the parents' accumulators
	BackwardParamIID(v *pgraph.NodeValue, opts ...BackwardOption)
}

// base holds what all distributions share
type base struct {
	kind       Kind
	sampleType pgraph.AtomicType
	parents    []pgraph.Node
}

func (b *base) Kind() Kind { return b.kind }

func (b *base) SampleType() pgraph.AtomicType { return b.sampleType }

func (b *base) Parents() []pgraph.Node {
	parents := make([]pgraph.Node, len(b.parents))
	copy(parents, b.parents)
	return parents
}

// SampleValue draws a sample from d and wraps it in a scalar NodeValue
// of d's sample type. Every family samples a float64-valued atomic type.
func SampleValue(d Distribution, src rand.Source) pgraph.NodeValue {
	return pgraph.NodeValue{
		Type:   pgraph.ScalarType(d.SampleType()),
		Double: d.Sample(src),
	}
}
