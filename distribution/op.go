package distribution

import (
	"fmt"

	"golang.org/x/exp/rand"
	G "gorgonia.org/gorgonia"
)

// NormalRand returns a node that draws numSamples i.i.d. samples from
// 𝒩(mean[i], stddev[i]) for each element i of the mean and stddev
// tensors, each time the graph is run. The output has shape
// (numSamples, mean.Shape()...). Entropy is drawn from src. The node
// is not differentiable.
func NormalRand(mean, stddev *G.Node, src rand.Source,
	numSamples int) (*G.Node, error) {
	if mean.Dtype() != stddev.Dtype() {
		return nil, fmt.Errorf("normalRand: mean and stddev should have "+
			"same dtype but got %v and %v", mean.Dtype(), stddev.Dtype())
	}

	if !mean.Shape().Eq(stddev.Shape()) {
		return nil, fmt.Errorf("normalRand: mean and stddev should have "+
			"same shape but got %v and %v", mean.Shape(), stddev.Shape())
	}

	n, err := newNormalSampleOp(mean.Dtype(), src, numSamples,
		mean.Shape()...)
	if err != nil {
		return nil, fmt.Errorf("normalRand: %v", err)
	}

	return G.ApplyOp(n, mean, stddev)
}
