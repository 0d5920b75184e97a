package distribution

import (
	"fmt"

	"github.com/chewxy/math32"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

var lnRootTwoPi32 = math32.Log(math32.Sqrt(2 * math32.Pi))

// NormalLogProbExpr adds to the graph of x an expression computing the
// element-wise normal log density of x:
//
//	-0.5 * ((x - mean) / stddev)² - log(stddev) - log(√(2π))
//
// The mean and stddev must be scalar nodes of the same data type as x.
// Float64 and Float32 are supported. The expression is differentiable
// with respect to x, mean and stddev, so it can be used to embed a
// normal distribution in a model built directly with Gorgonia.
func NormalLogProbExpr(x, mean, stddev *G.Node) (*G.Node, error) {
	if x.Dtype() != mean.Dtype() || x.Dtype() != stddev.Dtype() {
		return nil, fmt.Errorf("normalLogProbExpr: expected x, mean and "+
			"stddev to have the same data type but got %v, %v and %v",
			x.Dtype(), mean.Dtype(), stddev.Dtype())
	}
	if !mean.IsScalar() || !stddev.IsScalar() {
		return nil, fmt.Errorf("normalLogProbExpr: expected scalar mean "+
			"and stddev but got shapes %v and %v", mean.Shape(),
			stddev.Shape())
	}

	negativeHalf, lnNorm, err := logProbConstants(x.Graph(), x.Dtype())
	if err != nil {
		return nil, fmt.Errorf("normalLogProbExpr: %v", err)
	}

	z := G.Must(G.Sub(x, mean))
	z = G.Must(G.HadamardDiv(z, stddev))
	z = G.Must(G.Square(z))
	z = G.Must(G.HadamardProd(negativeHalf, z))
	lnStd := G.Must(G.Log(stddev))
	z = G.Must(G.Sub(z, lnStd))

	return G.Sub(z, lnNorm)
}

// Expr adds to the graph of x an expression computing the element-wise
// log density of x, using the current mean and standard deviation of
// the receiver as constants
func (n *Normal) Expr(x *G.Node) (*G.Node, error) {
	m, s := n.params()
	g := x.Graph()

	var mean, stddev *G.Node
	switch x.Dtype() {
	case tensor.Float64:
		mean = g.Constant(G.NewF64(m))
		stddev = g.Constant(G.NewF64(s))
	case tensor.Float32:
		mean = g.Constant(G.NewF32(float32(m)))
		stddev = g.Constant(G.NewF32(float32(s)))
	default:
		return nil, fmt.Errorf("expr: data type %v unsupported", x.Dtype())
	}

	lp, err := NormalLogProbExpr(x, mean, stddev)
	if err != nil {
		return nil, fmt.Errorf("expr: %v", err)
	}
	return lp, nil
}

func logProbConstants(g *G.ExprGraph, dt tensor.Dtype) (negativeHalf,
	lnNorm *G.Node, err error) {
	switch dt {
	case tensor.Float64:
		return g.Constant(G.NewF64(-0.5)), g.Constant(G.NewF64(lnRootTwoPi)),
			nil
	case tensor.Float32:
		return g.Constant(G.NewF32(-0.5)), g.Constant(G.NewF32(lnRootTwoPi32)),
			nil
	}
	return nil, nil, fmt.Errorf("data type %v unsupported", dt)
}
