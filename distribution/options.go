package distribution

import "gonum.org/v1/gonum/mat"

// BackwardOption configures a Backward* call of a Distribution
type BackwardOption func(*backwardConfig)

type backwardConfig struct {
	adjunct       float64
	adjunctMatrix mat.Matrix
}

func newBackwardConfig(opts []BackwardOption) backwardConfig {
	cfg := backwardConfig{adjunct: 1.0}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Adjunct sets the upstream chain-rule factor that the local gradient
// is multiplied by before being accumulated. Defaults to 1.
func Adjunct(a float64) BackwardOption {
	return func(cfg *backwardConfig) {
		cfg.adjunct = a
	}
}

// AdjunctMatrix sets a per-observation chain-rule factor for the IID
// backward methods. It must have the same shape as the batch; those
// methods treat a scalar value as a 1 x 1 batch. BackwardValue and
// BackwardParam ignore it for scalar values. Without one, every
// observation has weight 1.
func AdjunctMatrix(m mat.Matrix) BackwardOption {
	return func(cfg *backwardConfig) {
		cfg.adjunctMatrix = m
	}
}

// weight returns the chain-rule factor of element (i, j) of a batch
func (cfg *backwardConfig) weight(i, j int) float64 {
	if cfg.adjunctMatrix == nil {
		return cfg.adjunct
	}
	return cfg.adjunct * cfg.adjunctMatrix.At(i, j)
}

// checkShape panics with mat.ErrShape if an adjunct matrix is set and is
// not shaped like the batch x
func (cfg *backwardConfig) checkShape(x mat.Matrix) {
	if cfg.adjunctMatrix == nil {
		return
	}

	r, c := x.Dims()
	ar, ac := cfg.adjunctMatrix.Dims()
	if r != ar || c != ac {
		panic(mat.ErrShape)
	}
}
