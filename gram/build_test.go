package gram_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyray/symrev/gram"
	"github.com/polyray/symrev/ratmat"
)

// squareRows is the H-representation of the unit square.
func squareRows() ratmat.Mat {
	return ratmat.MatFromInts([][]int64{
		{0, 1, 0},
		{1, -1, 0},
		{0, 0, 1},
		{1, 0, -1},
	})
}

func TestBuild_Raw(t *testing.T) {
	g, err := gram.Build(squareRows(), gram.MetricRaw, true)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Dim())
	// opposite facets have negated inner products against each other
	assert.Equal(t, -g.At(0, 0), g.At(0, 1))
}

func TestBuild_Euclidean(t *testing.T) {
	g, err := gram.Build(squareRows(), gram.MetricEuclidean, true)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Dim())
	// the x-facets and y-facets play symmetric roles
	assert.Equal(t, g.At(0, 1), g.At(2, 3))
}

func TestBuild_AugmentedQ_SquareSymmetry(t *testing.T) {
	g, err := gram.Build(squareRows(), gram.MetricAugmentedQ, true)
	require.NoError(t, err)
	require.Equal(t, 4, g.Dim())

	// swapping the two axes is a symmetry of the square: the angle pattern
	// of rows (1,2) against each other must match rows (3,4)
	assert.Equal(t, g.At(0, 1), g.At(2, 3))
	assert.Equal(t, g.At(0, 0), g.At(2, 2))
}

func TestBuild_QMetric_RankDeficientFails(t *testing.T) {
	// two parallel rows span rank 1 in dimension 2: the plain Q-metric
	// cannot invert, while the augmented variant can
	m := ratmat.MatFromInts([][]int64{{1, 1}, {2, 2}})
	_, err := gram.Build(m, gram.MetricQ, true)
	assert.Error(t, err)

	_, err = gram.Build(m, gram.MetricAugmentedQ, true)
	assert.NoError(t, err)
}

func TestBuild_ZeroIsLabelZero(t *testing.T) {
	m := ratmat.MatFromInts([][]int64{{1, 0}, {0, 1}})
	g, err := gram.Build(m, gram.MetricRaw, true)
	require.NoError(t, err)
	assert.Equal(t, 0, g.At(0, 1))
	assert.NotEqual(t, 0, g.At(0, 0))
}
