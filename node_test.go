package pgraph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestValueNode(t *testing.T) {
	n := NewValueNode(NewReal(2), WithName("x"), WithGrad(1, 0.5))

	assert.Equal(t, "x", n.Name())
	assert.Equal(t, 2.0, n.Value().Double)
	assert.True(t, n.NeedsGradient())
	assert.Equal(t, 1.0, n.Grad1())
	assert.Equal(t, 0.5, n.Grad2())

	n.SetGrad(3, 4)
	assert.Equal(t, 3.0, n.Grad1())
	assert.Equal(t, 4.0, n.Grad2())

	var _ Node = n
}

func TestValueNodeWithoutGradient(t *testing.T) {
	n := NewValueNode(NewPosReal(1), WithoutGradient())
	assert.False(t, n.NeedsGradient())
}

func TestValueNodeDefaultName(t *testing.T) {
	a := NewValueNode(NewReal(0))
	b := NewValueNode(NewReal(0))

	assert.True(t, strings.HasPrefix(a.Name(), "node_"))
	assert.NotEqual(t, a.Name(), b.Name())
}

func TestValueNodeSetValue(t *testing.T) {
	n := NewValueNode(NewReal(0))
	grad := n.BackGrad()
	grad.AddScalar(1)

	// Same shape keeps the accumulator
	n.SetValue(NewReal(5))
	assert.Same(t, grad, n.BackGrad())
	assert.Equal(t, 5.0, n.Value().Double)

	// New shape replaces it
	n.SetValue(NewMatrix(Real, mat.NewDense(2, 2, nil)))
	assert.NotSame(t, grad, n.BackGrad())
	r, c := n.BackGrad().Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
}

func TestUnique(t *testing.T) {
	a, b := Unique("mean"), Unique("mean")
	assert.True(t, strings.HasPrefix(a, "mean_"))
	assert.NotEqual(t, a, b)
}
