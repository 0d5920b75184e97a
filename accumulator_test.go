package pgraph

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDoubleMatrixAddScalar(t *testing.T) {
	const threshold float64 = 1e-15

	d := NewScalarGrad()
	d.AddScalar(1.5)
	d.AddScalar(-0.25)
	assert.InDelta(t, 1.25, d.Scalar(), threshold)

	// Broadcast over every element
	m := NewDoubleMatrix(2, 3)
	m.AddScalar(2)
	r, c := m.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 3, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.Equal(t, 2.0, m.At(i, j))
		}
	}
}

func TestDoubleMatrixAddMatrix(t *testing.T) {
	d := NewDoubleMatrix(2, 2)
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	d.AddMatrix(a)
	d.AddScaled(-2, a)
	d.AddMatrix(a)

	// Additions in any order sum
	assert.True(t, mat.Equal(mat.NewDense(2, 2, nil), d.Matrix()))

	d.AddMatrix(a)
	assert.True(t, mat.Equal(a, d.Matrix()))

	assert.PanicsWithValue(t, mat.ErrShape, func() {
		d.AddMatrix(mat.NewDense(1, 2, nil))
	})
}

func TestDoubleMatrixEmpty(t *testing.T) {
	d := NewDoubleMatrix(0, 0)
	r, c := d.Dims()
	assert.Zero(t, r)
	assert.Zero(t, c)

	assert.NotPanics(t, func() {
		d.AddScalar(1)
		d.AddMatrix(&mat.Dense{})
		d.Reset()
	})
	assert.True(t, d.Matrix().IsEmpty())

	assert.PanicsWithValue(t, mat.ErrShape, func() {
		d.AddMatrix(mat.NewDense(1, 1, nil))
	})
}

func TestDoubleMatrixZeroValue(t *testing.T) {
	var d DoubleMatrix

	r, c := d.Dims()
	assert.Zero(t, r)
	assert.Zero(t, c)

	assert.NotPanics(t, func() {
		d.AddScalar(1)
		d.AddMatrix(&mat.Dense{})
		d.Reset()
	})
	assert.True(t, d.Matrix().IsEmpty())

	assert.PanicsWithValue(t, mat.ErrShape, func() {
		d.AddMatrix(mat.NewDense(1, 1, nil))
	})
	assert.PanicsWithValue(t, mat.ErrIndexOutOfRange, func() {
		d.Scalar()
	})
}

func TestDoubleMatrixReset(t *testing.T) {
	d := NewDoubleMatrix(3, 1)
	d.AddScalar(4)
	d.Reset()
	assert.True(t, mat.Equal(mat.NewDense(3, 1, nil), d.Matrix()))
}

func TestDoubleMatrixMatrixCopies(t *testing.T) {
	d := NewScalarGrad()
	m := d.Matrix()
	m.Set(0, 0, 10)
	assert.Zero(t, d.Scalar())
}

func TestDoubleMatrixConcurrentAdds(t *testing.T) {
	const workers = 8
	const adds = 1000

	d := NewDoubleMatrix(2, 2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < adds; i++ {
				d.AddScalar(1)
				d.AddMatrix(mat.NewDense(2, 2, []float64{1, 0, 0, 1}))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(2*workers*adds), d.At(0, 0))
	assert.Equal(t, float64(workers*adds), d.At(0, 1))
}

func TestNewGradFor(t *testing.T) {
	v := NewReal(1)
	r, c := NewGradFor(&v).Dims()
	assert.Equal(t, 1, r)
	assert.Equal(t, 1, c)

	m := NewMatrix(Real, mat.NewDense(4, 2, nil))
	r, c = NewGradFor(&m).Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 2, c)
}

func TestIsEmpty(t *testing.T) {
	var nilDense *mat.Dense
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty(nilDense))
	assert.True(t, IsEmpty(&mat.Dense{}))
	assert.False(t, IsEmpty(mat.NewDense(1, 1, nil)))
}
