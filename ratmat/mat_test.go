package ratmat_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyray/symrev/ratmat"
)

func rat(a, b int64) *big.Rat { return big.NewRat(a, b) }

func TestMat_Inverse_Identity(t *testing.T) {
	m := ratmat.MatFromInts([][]int64{{2, 1}, {1, 1}})
	inv, err := m.Inverse()
	require.NoError(t, err)

	prod, err := m.Mul(inv)
	require.NoError(t, err)
	assert.True(t, prod.Equal(ratmat.Identity(2)))
}

func TestMat_Inverse_Singular(t *testing.T) {
	m := ratmat.MatFromInts([][]int64{{1, 2}, {2, 4}})
	_, err := m.Inverse()
	assert.ErrorIs(t, err, ratmat.ErrSingular)

	var se ratmat.SingularError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1, se.Row)
}

func TestMat_Inverse_NotSquare(t *testing.T) {
	m := ratmat.NewMat(2, 3)
	_, err := m.Inverse()
	assert.ErrorIs(t, err, ratmat.ErrNotSquare)
}

func TestMat_Solve(t *testing.T) {
	m := ratmat.MatFromInts([][]int64{{2, 0}, {0, 4}})
	x, err := m.Solve(ratmat.VecFromInts(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, x[0].Cmp(rat(1, 2)))
	assert.Equal(t, 0, x[1].Cmp(rat(1, 4)))
}

func TestMat_Det(t *testing.T) {
	m := ratmat.MatFromInts([][]int64{{1, 2}, {3, 4}})
	det, err := m.Det()
	require.NoError(t, err)
	assert.Equal(t, 0, det.Cmp(rat(-2, 1)))
}

func TestMat_LinIndepRows(t *testing.T) {
	m := ratmat.MatFromInts([][]int64{
		{1, 0, 0},
		{2, 0, 0}, // multiple of row 1
		{0, 1, 0},
		{1, 1, 0}, // sum of rows 1 and 3
		{0, 0, 5},
	})
	assert.Equal(t, ratmat.NewIndexSet(1, 3, 5), m.LinIndepRows())
	assert.Equal(t, 3, m.Rank())
}

func TestMat_RowColRestriction(t *testing.T) {
	m := ratmat.MatFromInts([][]int64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	r := m.RowRestriction(ratmat.NewIndexSet(1, 3))
	assert.Equal(t, 2, r.Rows())
	assert.Equal(t, 0, r.At(1, 0).Cmp(rat(7, 1)))

	c := m.ColRestriction(ratmat.NewIndexSet(2))
	assert.Equal(t, 1, c.Cols())
	assert.Equal(t, 0, c.At(2, 0).Cmp(rat(8, 1)))
}

func TestMat_NullSpace(t *testing.T) {
	m := ratmat.MatFromInts([][]int64{{1, 0, 0}})
	null := m.NullSpace()
	require.Len(t, null, 2)
	for _, z := range null {
		ip, err := m.Row(0).InnerProd(z)
		require.NoError(t, err)
		assert.Equal(t, 0, ip.Sign())
	}
}

func TestMat_NullSpace_FullRank(t *testing.T) {
	assert.Empty(t, ratmat.Identity(3).NullSpace())
}

func TestMat_MulVec_DimensionMismatch(t *testing.T) {
	m := ratmat.NewMat(2, 3)
	_, err := m.MulVec(ratmat.VecFromInts(1, 2))
	assert.ErrorIs(t, err, ratmat.ErrDimensionMismatch)
}
