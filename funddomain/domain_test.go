package funddomain_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyray/symrev/funddomain"
	"github.com/polyray/symrev/perm"
	"github.com/polyray/symrev/ratmat"
)

func rat(a, b int64) *big.Rat { return big.NewRat(a, b) }

func TestDomain_ZeroValueContainsEverything(t *testing.T) {
	var d funddomain.Domain
	assert.True(t, d.Contains(ratmat.VecFromInts(1, -5, 7)))
	assert.Equal(t, 0, d.Size())
}

func TestDomain_Constraint_Bisector(t *testing.T) {
	// with the identity metric, the constraint between a and b is the
	// scaled difference a − b
	d := funddomain.New(ratmat.Identity(3))
	a := ratmat.VecFromInts(1, 1, 0)
	b := ratmat.VecFromInts(1, 0, 1)

	c, err := d.Constraint(a, b)
	require.NoError(t, err)
	// (0, 1, −1) in leading-unit form
	assert.Equal(t, 0, c[0].Sign())
	assert.Equal(t, 0, c[1].Cmp(rat(1, 1)))
	assert.Equal(t, 0, c[2].Cmp(rat(-1, 1)))
}

func TestDomain_Constraint_LeadingUnitNormalises(t *testing.T) {
	d := funddomain.New(ratmat.Identity(2))
	c1, err := d.Constraint(ratmat.VecFromInts(4, 0), ratmat.VecFromInts(0, 4))
	require.NoError(t, err)
	c2, err := d.Constraint(ratmat.VecFromInts(2, 0), ratmat.VecFromInts(0, 2))
	require.NoError(t, err)
	assert.True(t, c1.Equal(c2), "scaled bisectors store identically")
}

func TestDomain_AddAndContains(t *testing.T) {
	d := funddomain.New(ratmat.Identity(3))
	a := ratmat.VecFromInts(1, 1, 0)
	b := ratmat.VecFromInts(1, 0, 1)
	require.NoError(t, d.Add(a, b))
	require.Equal(t, 1, d.Size())

	// the kept point satisfies the constraint, the cut one violates it
	assert.True(t, d.Contains(a))
	assert.False(t, d.Contains(b))

	// boundary points are admitted
	mid, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, d.Contains(mid.Scale(rat(1, 2))))
}

func TestDomain_GrowsMonotonically(t *testing.T) {
	d := funddomain.New(ratmat.Identity(2))
	require.NoError(t, d.Add(ratmat.VecFromInts(1, 0), ratmat.VecFromInts(0, 1)))
	require.NoError(t, d.Add(ratmat.VecFromInts(1, 1), ratmat.VecFromInts(-1, 1)))
	assert.Equal(t, 2, d.Size())
	assert.Len(t, d.Constraints(), 2)
}

func TestDomain_BuildFromSeed(t *testing.T) {
	// the unit square with the central symmetry (1 2)(3 4): the seed corner
	// (0,0) maps to the opposite corner (1,1), one distinct image and so
	// one bisector
	a := ratmat.MatFromInts([][]int64{
		{0, 1, 0},
		{1, -1, 0},
		{0, 0, 1},
		{1, 0, -1},
	})
	d := funddomain.New(ratmat.QMat(ratmat.OrthoAugment(a, true)))

	seed := ratmat.VecFromInts(1, 0, 0) // corner (0,0), basis rows {1,3}
	central, err := perm.FromCycles(4, [][]int{{1, 2}, {3, 4}})
	require.NoError(t, err)

	require.NoError(t, d.BuildFromSeed(seed, ratmat.NewIndexSet(1, 3), a, []*perm.Perm{central}))
	require.Equal(t, 1, d.Size(), "one distinct image, one bisector")
	assert.True(t, d.Contains(seed))
	assert.False(t, d.Contains(ratmat.VecFromInts(1, 1, 1)), "the image corner is cut off")
}
