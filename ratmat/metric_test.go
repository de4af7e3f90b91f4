package ratmat_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyray/symrev/ratmat"
)

func TestInnerProdMat_Symmetric(t *testing.T) {
	m := ratmat.MatFromInts([][]int64{{1, 2}, {3, 4}, {0, 1}})
	p := ratmat.InnerProdMat(m)
	require.Equal(t, 3, p.Rows())
	assert.Equal(t, 0, p.At(0, 0).Cmp(rat(5, 1)))
	assert.Equal(t, 0, p.At(0, 1).Cmp(rat(11, 1)))
	assert.Equal(t, 0, p.At(1, 0).Cmp(p.At(0, 1)))
}

func TestInvQMat_Orthonormal(t *testing.T) {
	// Q of the identity rows is the identity, so its inverse is too.
	m := ratmat.MatFromInts([][]int64{{1, 0}, {0, 1}})
	qInv, err := ratmat.InvQMat(m)
	require.NoError(t, err)
	assert.True(t, qInv.Equal(ratmat.Identity(2)))
}

func TestInvQMat_Singular(t *testing.T) {
	// rank-1 rows give a singular Q
	m := ratmat.MatFromInts([][]int64{{1, 0}, {2, 0}})
	_, err := ratmat.InvQMat(m)
	assert.ErrorIs(t, err, ratmat.ErrSingular)
}

func TestOrthoAugment_FullRankUnchanged(t *testing.T) {
	m := ratmat.MatFromInts([][]int64{{1, 0}, {0, 1}, {1, 1}})
	out := ratmat.OrthoAugment(m, false)
	assert.Equal(t, 3, out.Rows())
	assert.True(t, out.Equal(m))
}

func TestOrthoAugment_AddsOrthogonalRows(t *testing.T) {
	m := ratmat.MatFromInts([][]int64{{1, 0, 0}, {0, 1, 0}})
	out := ratmat.OrthoAugment(m, false)
	require.Equal(t, 3, out.Rows())
	assert.Equal(t, 3, out.Rank())

	// the augment row is orthogonal to the originals
	for i := 0; i < 2; i++ {
		ip, err := out.Row(2).InnerProd(m.Row(i))
		require.NoError(t, err)
		assert.Equal(t, 0, ip.Sign())
	}
}

func TestOrthoAugment_SignedPairsRows(t *testing.T) {
	m := ratmat.MatFromInts([][]int64{{1, 0, 0}})
	out := ratmat.OrthoAugment(m, true)
	require.Equal(t, 5, out.Rows())
	assert.Equal(t, 3, out.Rank())

	// each augment pair is a row and its negation
	for j := 0; j < 2; j++ {
		pos, neg := out.Row(1+2*j), out.Row(2+2*j)
		assert.True(t, pos.Neg().Equal(neg))
	}
}

func TestTransformedInnerProdMat(t *testing.T) {
	m := ratmat.MatFromInts([][]int64{{1, 0}, {0, 1}})
	p, err := ratmat.TransformedInnerProdMat(m, ratmat.Identity(2))
	require.NoError(t, err)
	assert.True(t, p.Equal(ratmat.InnerProdMat(m)))
}

func TestNormedInnerProdMat_UnitDiagonal(t *testing.T) {
	m := ratmat.MatFromInts([][]int64{{3, 4}, {0, 2}})
	p, err := ratmat.NormedInnerProdMat(m)
	require.NoError(t, err)

	one := ratmat.NewRadical(big.NewInt(1), big.NewInt(1), big.NewInt(1))
	assert.True(t, p.At(0, 0).Equal(one))
	assert.True(t, p.At(1, 1).Equal(one))
}

func TestNormedInnerProdMat_ExactRadical(t *testing.T) {
	// rows (1,0) and (1,1): cos angle = 1/√2 = 1·√2/2
	m := ratmat.MatFromInts([][]int64{{1, 0}, {1, 1}})
	p, err := ratmat.NormedInnerProdMat(m)
	require.NoError(t, err)

	want := ratmat.NewRadical(big.NewInt(1), big.NewInt(2), big.NewInt(2))
	assert.True(t, p.At(0, 1).Equal(want))
}

func TestRadical_Normalisation(t *testing.T) {
	// 2·√8/4 normalises to 1·√2/1
	r := ratmat.NewRadical(big.NewInt(2), big.NewInt(8), big.NewInt(4))
	assert.Equal(t, "1r2", r.String())

	// the zero radical is canonical
	z := ratmat.NewRadical(big.NewInt(0), big.NewInt(17), big.NewInt(3))
	assert.True(t, z.Equal(ratmat.RadZero()))
}

func TestRadical_EqualValuesShareKey(t *testing.T) {
	a := ratmat.NewRadical(big.NewInt(1), big.NewInt(18), big.NewInt(6))
	b := ratmat.NewRadical(big.NewInt(2), big.NewInt(2), big.NewInt(4))
	// both are √2/2
	assert.Equal(t, a.Key(), b.Key())
}
