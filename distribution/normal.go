package distribution

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/pgraph"
)

// lnRootTwoPi is log(√(2π)), the normalizing term of the log density
var lnRootTwoPi = 0.5 * math.Log(2*math.Pi)

// Normal is a univariate normal distribution over the reals:
//
//	x ~ 𝒩(m, s)
//
// with the mean m the value of its first parent, a Real node, and the
// standard deviation s the value of its second parent, a PosReal node.
// Batched (matrix) values are treated as i.i.d. observations, each
// distributed 𝒩(m, s).
//
// Any value whose atomic type is stored as a float64 is in the
// support. Booleans, naturals and NaN are not: they have a log density
// of -Inf, zero gradients, and add nothing to any accumulator. NaN
// elements of a batch are skipped.
type Normal struct {
	base
}

// NewNormal returns a new Normal. The sample type must be Real and
// parents must hold exactly a scalar Real mean node followed by a
// scalar PosReal standard deviation node whose value is positive and
// finite. Otherwise an error wrapping ErrInvalidParameter is returned.
func NewNormal(sampleType pgraph.AtomicType,
	parents []pgraph.Node) (*Normal, error) {
	if err := checkNormalParams(sampleType, parents); err != nil {
		log.Warningf("newNormal: %v", err)
		return nil, fmt.Errorf("newNormal: %w", err)
	}

	normal := &Normal{
		base: base{
			kind:       KindNormal,
			sampleType: sampleType,
			parents:    append([]pgraph.Node(nil), parents...),
		},
	}
	log.Debugf("newNormal: constructed 𝒩(%v, %v)", parents[0].Value().Double,
		parents[1].Value().Double)

	return normal, nil
}

func checkNormalParams(sampleType pgraph.AtomicType,
	parents []pgraph.Node) error {
	if sampleType != pgraph.Real {
		return fmt.Errorf("%w: normal produces real samples but sample "+
			"type is %v", ErrInvalidParameter, sampleType)
	}

	if len(parents) != 2 {
		return fmt.Errorf("%w: expected 2 parents but got %d",
			ErrInvalidParameter, len(parents))
	}
	for i, p := range parents {
		if p == nil || p.Value() == nil {
			return fmt.Errorf("%w: parent %d has no value",
				ErrInvalidParameter, i)
		}
	}

	mean := parents[0].Value()
	if !mean.IsScalar() || mean.Type.Atomic != pgraph.Real {
		return fmt.Errorf("%w: expected mean of type %v but got %v",
			ErrInvalidParameter, pgraph.Real, mean.Type)
	}

	stddev := parents[1].Value()
	if !stddev.IsScalar() || stddev.Type.Atomic != pgraph.PosReal {
		return fmt.Errorf("%w: expected stddev of type %v but got %v",
			ErrInvalidParameter, pgraph.PosReal, stddev.Type)
	}
	if !(stddev.Double > 0) || math.IsInf(stddev.Double, 1) {
		return fmt.Errorf("%w: expected positive finite stddev but got %v",
			ErrInvalidParameter, stddev.Double)
	}

	return nil
}

// params returns the current mean and standard deviation
func (n *Normal) params() (m, s float64) {
	return n.parents[0].Value().Double, n.parents[1].Value().Double
}

// Mean returns the mean parameter node
func (n *Normal) Mean() pgraph.Node { return n.parents[0] }

// StdDev returns the standard deviation parameter node
func (n *Normal) StdDev() pgraph.Node { return n.parents[1] }

// Sample returns m + s*z for a standard normal z drawn from src
func (n *Normal) Sample(src rand.Source) float64 {
	m, s := n.params()
	dist := distuv.Normal{Mu: m, Sigma: s, Src: src}

	return dist.Rand()
}

// SampleIID returns a rows x cols matrix of independent samples
func (n *Normal) SampleIID(src rand.Source, rows, cols int) *mat.Dense {
	if rows == 0 || cols == 0 {
		return &mat.Dense{}
	}

	m, s := n.params()
	dist := distuv.Normal{Mu: m, Sigma: s, Src: src}

	samples := mat.NewDense(rows, cols, nil)
	samples.Apply(func(_, _ int, _ float64) float64 {
		return dist.Rand()
	}, samples)

	return samples
}

// LogProb returns the log density of v. If v is a matrix, the joint
// log density of its elements is returned.
func (n *Normal) LogProb(v *pgraph.NodeValue) float64 {
	if !v.IsDouble() {
		return math.Inf(-1)
	}
	if v.IsMatrix() {
		return LogProbJoint(n, v)
	}

	m, s := n.params()
	return logProb(v.Double, m, s)
}

// LogProbIID returns the log density of each element of v
func (n *Normal) LogProbIID(v *pgraph.NodeValue) *mat.Dense {
	x := asBatch(v)
	if x.IsEmpty() {
		return &mat.Dense{}
	}
	if !v.IsDouble() {
		return negInfLike(x)
	}

	m, s := n.params()
	r, c := x.Dims()
	logProbs := mat.NewDense(r, c, nil)
	logProbs.Apply(func(_, _ int, x float64) float64 {
		return logProb(x, m, s)
	}, x)

	return logProbs
}

func logProb(x, m, s float64) float64 {
	if math.IsNaN(x) {
		return math.Inf(-1)
	}

	z := (x - m) / s
	return -0.5*z*z - math.Log(s) - lnRootTwoPi
}

// grad1LogProbValue returns d/dx log 𝒩(x; m, s) = -(x-m)/s², the term
// shared by the value and parameter gradients
func grad1LogProbValue(x, m, sSq float64) float64 {
	return -(x - m) / sSq
}

// GradientLogProbValue returns the first and second derivatives of the
// log density with respect to v:
//
//	grad1 = -(x-m)/s²
//	grad2 = -1/s²
//
// If v is a matrix, every element is taken to move with the same
// scalar, so the derivatives of the joint log density are the sums of
// the element-wise ones.
func (n *Normal) GradientLogProbValue(v *pgraph.NodeValue) (grad1,
	grad2 float64) {
	if !v.IsDouble() {
		return 0, 0
	}

	m, s := n.params()
	sSq := s * s
	if v.IsScalar() {
		if math.IsNaN(v.Double) {
			return 0, 0
		}
		return grad1LogProbValue(v.Double, m, sSq), -1 / sSq
	}

	eachObservation(asBatch(v), func(_, _ int, x float64) {
		grad1 += grad1LogProbValue(x, m, sSq)
		grad2 += -1 / sSq
	})
	return grad1, grad2
}

// GradientLogProbParam returns the first and second derivatives of the
// log density of v with respect to the scalar θ that the mean and
// standard deviation depend on, with dm/dθ, d²m/dθ², ds/dθ and d²s/dθ²
// given by Grad1 and Grad2 of the parent nodes.
func (n *Normal) GradientLogProbParam(v *pgraph.NodeValue) (grad1,
	grad2 float64) {
	if !v.IsDouble() {
		return 0, 0
	}

	m, s := n.params()
	mean, stddev := n.parents[0], n.parents[1]
	mGrad1, mGrad2 := mean.Grad1(), mean.Grad2()
	sGrad1, sGrad2 := stddev.Grad1(), stddev.Grad2()

	eachObservation(asBatch(v), func(_, _ int, x float64) {
		g1, g2 := gradientLogProbParam(x, m, s, mGrad1, mGrad2, sGrad1,
			sGrad2)
		grad1 += g1
		grad2 += g2
	})
	return grad1, grad2
}

func gradientLogProbParam(x, m, s, mGrad1, mGrad2, sGrad1,
	sGrad2 float64) (grad1, grad2 float64) {
	sSq := s * s

	// ∂/∂m = (x-m)/s², ∂²/∂m² = -1/s²
	gradM := -grad1LogProbValue(x, m, sSq)
	hasM := mGrad1 != 0 || mGrad2 != 0
	if hasM {
		grad1 += gradM * mGrad1
		grad2 += -mGrad1*mGrad1/sSq + gradM*mGrad2
	}

	// ∂/∂s = -1/s + (x-m)²/s³, ∂²/∂s² = 1/s² - 3(x-m)²/s⁴
	if sGrad1 != 0 || sGrad2 != 0 {
		gradS := -1/s + s*gradM*gradM
		grad2S := 1/sSq - 3*gradM*gradM
		grad1 += gradS * sGrad1
		grad2 += grad2S*sGrad1*sGrad1 + gradS*sGrad2

		// ∂²/∂m∂s = -2(x-m)/s³
		if hasM {
			grad2 += 2 * (-2 * gradM / s) * mGrad1 * sGrad1
		}
	}

	return grad1, grad2
}

// BackwardValue adds adjunct * -(x-m)/s² into backGrad. Matrix values
// are accumulated as in BackwardValueIID.
func (n *Normal) BackwardValue(v *pgraph.NodeValue,
	backGrad *pgraph.DoubleMatrix, opts ...BackwardOption) {
	if !v.IsDouble() {
		return
	}
	if v.IsMatrix() {
		n.BackwardValueIID(v, backGrad, opts...)
		return
	}

	if math.IsNaN(v.Double) {
		return
	}

	cfg := newBackwardConfig(opts)
	m, s := n.params()
	backGrad.AddScalar(cfg.adjunct * grad1LogProbValue(v.Double, m, s*s))
}

// BackwardValueIID adds the gradient of the log density of each
// element of v into the matching element of backGrad, which must be
// shaped like v. An AdjunctMatrix must also be shaped like v, or
// BackwardValueIID panics with mat.ErrShape.
func (n *Normal) BackwardValueIID(v *pgraph.NodeValue,
	backGrad *pgraph.DoubleMatrix, opts ...BackwardOption) {
	if !v.IsDouble() {
		return
	}

	x := asBatch(v)
	if x.IsEmpty() {
		return
	}

	cfg := newBackwardConfig(opts)
	cfg.checkShape(x)
	m, s := n.params()
	sSq := s * s

	r, c := x.Dims()
	grads := mat.NewDense(r, c, nil)
	eachObservation(x, func(i, j int, x float64) {
		grads.Set(i, j, cfg.weight(i, j)*grad1LogProbValue(x, m, sSq))
	})

	backGrad.AddMatrix(grads)
}

// BackwardParam adds the gradient of the log density of v with respect
// to the mean and standard deviation into their accumulators:
//
//	mean   += adjunct * (x-m)/s²
//	stddev += adjunct * (-1/s + (x-m)²/s³)
//
// Matrix values are accumulated as in BackwardParamIID.
func (n *Normal) BackwardParam(v *pgraph.NodeValue,
	opts ...BackwardOption) {
	if !v.IsDouble() {
		return
	}
	if v.IsMatrix() {
		n.BackwardParamIID(v, opts...)
		return
	}

	if math.IsNaN(v.Double) {
		return
	}

	cfg := newBackwardConfig(opts)
	m, s := n.params()
	gradM := -grad1LogProbValue(v.Double, m, s*s)

	n.accumulateParams(cfg.adjunct, cfg.adjunct*gradM,
		cfg.adjunct*gradM*gradM)
}

// BackwardParamIID adds the summed parameter gradients of the log
// density of each element of v into the parents' accumulators. Without
// an AdjunctMatrix every element has weight adjunct; with one, element
// (i, j) has weight adjunct * A[i, j]. A mis-shaped AdjunctMatrix panics
// with mat.ErrShape.
func (n *Normal) BackwardParamIID(v *pgraph.NodeValue,
	opts ...BackwardOption) {
	if !v.IsDouble() {
		return
	}

	x := asBatch(v)
	if x.IsEmpty() {
		return
	}

	cfg := newBackwardConfig(opts)
	cfg.checkShape(x)
	m, s := n.params()
	sSq := s * s

	// Weighted sums of 1, (x-m)/s² and ((x-m)/s²)²
	var sumWeight, sumGrad, sumGradSq float64
	if cfg.adjunctMatrix == nil {
		eachObservation(x, func(_, _ int, x float64) {
			gradM := -grad1LogProbValue(x, m, sSq)
			sumWeight++
			sumGrad += gradM
			sumGradSq += gradM * gradM
		})
		sumGrad *= cfg.adjunct
		sumGradSq *= cfg.adjunct
		sumWeight *= cfg.adjunct
	} else {
		eachObservation(x, func(i, j int, x float64) {
			w := cfg.weight(i, j)
			gradM := -grad1LogProbValue(x, m, sSq)
			sumWeight += w
			sumGrad += w * gradM
			sumGradSq += w * gradM * gradM
		})
	}

	n.accumulateParams(sumWeight, sumGrad, sumGradSq)
}

// accumulateParams adds the parameter gradients given the weighted sums
// over observations of 1, (x-m)/s² and ((x-m)/s²)². Since
// (x-m)²/s³ = s * ((x-m)/s²)², the standard deviation gradient is
// -Σw/s + s*Σw((x-m)/s²)².
func (n *Normal) accumulateParams(sumWeight, sumGrad, sumGradSq float64) {
	_, s := n.params()

	if mean := n.parents[0]; mean.NeedsGradient() {
		mean.BackGrad().AddScalar(sumGrad)
	}
	if stddev := n.parents[1]; stddev.NeedsGradient() {
		stddev.BackGrad().AddScalar(-sumWeight/s + s*sumGradSq)
	}
}
