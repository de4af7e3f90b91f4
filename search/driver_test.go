package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyray/symrev/gram"
	"github.com/polyray/symrev/perm"
	"github.com/polyray/symrev/ratmat"
	"github.com/polyray/symrev/search"
	"github.com/polyray/symrev/symmetry"
)

// squareMat is the unit square: x ≥ 0, x ≤ 1, y ≥ 0, y ≤ 1.
func squareMat() ratmat.Mat {
	return ratmat.MatFromInts([][]int64{
		{0, 1, 0},
		{1, -1, 0},
		{0, 0, 1},
		{1, 0, -1},
	})
}

// squareGroupFull is the full dihedral symmetry on the square's facets.
func squareGroupFull(t *testing.T) *perm.Group {
	t.Helper()
	a, err := perm.FromCycles(4, [][]int{{1, 2}})
	require.NoError(t, err)
	b, err := perm.FromCycles(4, [][]int{{3, 4}})
	require.NoError(t, err)
	c, err := perm.FromCycles(4, [][]int{{1, 3}, {2, 4}})
	require.NoError(t, err)

	return perm.NewGroup(4, []*perm.Perm{a, b, c})
}

// kleinGroup is the order-4 subgroup generated by the two double swaps.
func kleinGroup(t *testing.T) *perm.Group {
	t.Helper()
	a, err := perm.FromCycles(4, [][]int{{1, 2}, {3, 4}})
	require.NoError(t, err)
	b, err := perm.FromCycles(4, [][]int{{1, 3}, {2, 4}})
	require.NoError(t, err)

	return perm.NewGroup(4, []*perm.Perm{a, b})
}

func mustGram(t *testing.T, m ratmat.Mat, signed bool) gram.Matrix {
	t.Helper()
	g, err := gram.Build(m, gram.MetricAugmentedQ, signed)
	require.NoError(t, err)

	return g
}

func runSquare(t *testing.T, group *perm.Group, opts ...search.Option) *search.Result {
	t.Helper()
	a := squareMat()
	d, err := search.New(a, ratmat.IndexSet{}, symmetry.NewOracle(group), mustGram(t, a, true), opts...)
	require.NoError(t, err)
	res, err := d.Run()
	require.NoError(t, err)

	return res
}

func TestRun_Square_FullSymmetry(t *testing.T) {
	res := runSquare(t, squareGroupFull(t))

	assert.True(t, res.Finished)
	assert.Equal(t, 2, res.Dimension)
	assert.Len(t, res.VertexOrbits, 1)
	assert.Len(t, res.BasisOrbits, 1)
	assert.Empty(t, res.RayOrbits)
	assert.Equal(t, 2, res.InitialCobasis.Count())
	assert.NotEmpty(t, res.GeneratorsUsed)
}

func TestRun_Square_KleinSubgroup(t *testing.T) {
	// the Klein subgroup splits both the vertices and the bases into two
	// orbits: {(0,0),(1,1)} and {(0,1),(1,0)}
	res := runSquare(t, kleinGroup(t))

	assert.True(t, res.Finished)
	assert.Len(t, res.VertexOrbits, 2)
	assert.Len(t, res.BasisOrbits, 2)
	assert.Empty(t, res.RayOrbits)
}

// TestRun_BasisOrbits_PairwiseAsymmetric checks the central coverage
// invariant: no group element maps one reported basis orbit onto another.
func TestRun_BasisOrbits_PairwiseAsymmetric(t *testing.T) {
	group := kleinGroup(t)
	res := runSquare(t, group)

	for i, a := range res.BasisOrbits {
		for j, b := range res.BasisOrbits {
			if i == j {
				continue
			}
			assert.Nil(t, perm.SetImage(group, a.Data.Inc, b.Data.Inc),
				"orbits %s and %s overlap", a.Cob, b.Cob)
		}
	}
}

func TestRun_Square_FundamentalDomain(t *testing.T) {
	res := runSquare(t, kleinGroup(t), search.WithFundDomainLimit(8))

	assert.True(t, res.Finished)
	assert.Len(t, res.VertexOrbits, 2)
	assert.GreaterOrEqual(t, res.FundamentalDomain.Size(), 1)
	assert.LessOrEqual(t, res.FundamentalDomain.Size(), 8)

	// every kept representative stays inside the domain
	for _, v := range res.VertexOrbits {
		assert.True(t, res.FundamentalDomain.Contains(v.Coords),
			"representative %s left the domain", v.Coords)
	}
}

func pentagonMat() ratmat.Mat {
	return ratmat.MatFromInts([][]int64{
		{0, 1, 0},
		{0, 0, 1},
		{8, -2, 1},
		{7, -1, -1},
		{3, 1, -1},
	})
}

func TestRun_Segment(t *testing.T) {
	// the unit segment: one vertex orbit under the endpoint swap, two
	// without it
	a := ratmat.MatFromInts([][]int64{
		{0, 1},
		{1, -1},
	})
	swap, err := perm.FromCycles(2, [][]int{{1, 2}})
	require.NoError(t, err)

	d, err := search.New(a, ratmat.IndexSet{},
		symmetry.NewOracle(perm.NewGroup(2, []*perm.Perm{swap})), mustGram(t, a, true))
	require.NoError(t, err)
	res, err := d.Run()
	require.NoError(t, err)

	assert.True(t, res.Finished)
	assert.Equal(t, 1, res.Dimension)
	assert.Len(t, res.VertexOrbits, 1)
	assert.Len(t, res.BasisOrbits, 1)

	plain, err := search.New(a, ratmat.IndexSet{}, symmetry.NewOracle(perm.Trivial(2)),
		mustGram(t, a, true))
	require.NoError(t, err)
	resPlain, err := plain.Run()
	require.NoError(t, err)
	assert.Len(t, resPlain.VertexOrbits, 2)
	assert.Len(t, resPlain.BasisOrbits, 2)
}

func TestRun_Pentagon_NoSymmetry(t *testing.T) {
	a := pentagonMat()
	d, err := search.New(a, ratmat.IndexSet{}, symmetry.NewOracle(perm.Trivial(5)),
		mustGram(t, a, true), search.WithAssumeNoSymmetry())
	require.NoError(t, err)
	res, err := d.Run()
	require.NoError(t, err)

	assert.True(t, res.Finished)
	assert.Len(t, res.VertexOrbits, 5)
	assert.Len(t, res.BasisOrbits, 5)
	assert.Empty(t, res.RayOrbits)
	assert.Empty(t, res.GeneratorsUsed)
}

// crossPolytope returns the octahedron |y|₁ ≤ 1 as eight sign-pattern rows
// together with the hyperoctahedral group of order 48 acting on them.
func crossPolytope(t *testing.T) (ratmat.Mat, *perm.Group) {
	t.Helper()
	rows := make([][]int64, 8)
	for i := 0; i < 8; i++ {
		rows[i] = []int64{1, sign(i, 0), sign(i, 1), sign(i, 2)}
	}

	// generators as row permutations: swap y1↔y2, swap y2↔y3, flip y1
	swap12 := patternPerm(t, func(s [3]int64) [3]int64 { return [3]int64{s[1], s[0], s[2]} })
	swap23 := patternPerm(t, func(s [3]int64) [3]int64 { return [3]int64{s[0], s[2], s[1]} })
	flip1 := patternPerm(t, func(s [3]int64) [3]int64 { return [3]int64{-s[0], s[1], s[2]} })
	g := perm.NewGroup(8, []*perm.Perm{swap12, swap23, flip1})

	return ratmat.MatFromInts(rows), g
}

func sign(i, bit int) int64 {
	if i&(1<<bit) != 0 {
		return 1
	}

	return -1
}

// patternPerm lifts a sign-pattern map to a permutation of the eight rows.
func patternPerm(t *testing.T, f func([3]int64) [3]int64) *perm.Perm {
	t.Helper()
	img := make([]int, 8)
	for i := 0; i < 8; i++ {
		s := f([3]int64{sign(i, 0), sign(i, 1), sign(i, 2)})
		j := 0
		for b := 0; b < 3; b++ {
			if s[b] > 0 {
				j |= 1 << b
			}
		}
		img[i] = j
	}
	p, err := perm.NewPerm(img)
	require.NoError(t, err)

	return p
}

func TestRun_CrossPolytope(t *testing.T) {
	a, g := crossPolytope(t)
	require.Equal(t, "48", g.Order().String())

	d, err := search.New(a, ratmat.IndexSet{}, symmetry.NewOracle(g), mustGram(t, a, true))
	require.NoError(t, err)
	res, err := d.Run()
	require.NoError(t, err)

	assert.True(t, res.Finished)
	assert.Equal(t, 3, res.Dimension)
	assert.Len(t, res.VertexOrbits, 1)
	assert.Len(t, res.BasisOrbits, 1)
	assert.Empty(t, res.RayOrbits)

	// the single vertex orbit representative is a unit vector with four
	// tight constraints
	v := res.VertexOrbits[0]
	assert.Equal(t, 4, v.IncCount())
}

func TestRun_CubeVertices_VMode(t *testing.T) {
	// the eight cube vertices in V-representation: the polar dictionary is
	// the octahedron, whose six vertices stand for the cube's facets
	a, g := crossPolytope(t)
	d, err := search.New(a, ratmat.IndexSet{}, symmetry.NewOracle(g), mustGram(t, a, true),
		search.WithMode(search.PolytopeV))
	require.NoError(t, err)
	res, err := d.Run()
	require.NoError(t, err)

	assert.True(t, res.Finished)
	assert.Equal(t, 3, res.Dimension)
	assert.Len(t, res.VertexOrbits, 1)
	assert.Len(t, res.BasisOrbits, 1)
	assert.Empty(t, res.RayOrbits)
}

func TestRun_BasisLimitZero(t *testing.T) {
	a, g := crossPolytope(t)
	d, err := search.New(a, ratmat.IndexSet{}, symmetry.NewOracle(g), mustGram(t, a, true),
		search.WithBasisLimit(0))
	require.NoError(t, err)
	res, err := d.Run()
	require.NoError(t, err)

	assert.False(t, res.Finished)
	assert.Empty(t, res.VertexOrbits)
	assert.Empty(t, res.BasisOrbits)
	assert.Empty(t, res.RayOrbits)
}

func TestRun_Braid_Arrangement(t *testing.T) {
	// three concurrent lines with the symmetric group permuting them: one
	// vertex orbit at the crossing, one basis orbit, one ray orbit
	a := ratmat.MatFromInts([][]int64{
		{0, 1, 0},
		{0, 0, 1},
		{0, 1, 1},
	})
	g := perm.SymmetricGroup(3)
	gm, err := gram.Build(a, gram.MetricAugmentedQ, false)
	require.NoError(t, err)

	d, err := search.New(a, ratmat.IndexSet{}, symmetry.NewOracle(g), gm,
		search.WithMode(search.ArrangementMode))
	require.NoError(t, err)
	res, err := d.Run()
	require.NoError(t, err)

	assert.True(t, res.Finished)
	assert.Len(t, res.VertexOrbits, 1)
	assert.Len(t, res.BasisOrbits, 1)
	assert.Len(t, res.RayOrbits, 1)
}

func TestRun_EmptyGroup_MatchesNoSymmetry(t *testing.T) {
	a := pentagonMat()
	gm := mustGram(t, a, true)

	trivial, err := search.New(a, ratmat.IndexSet{}, symmetry.NewOracle(perm.Trivial(5)), gm)
	require.NoError(t, err)
	resTrivial, err := trivial.Run()
	require.NoError(t, err)

	bypass, err := search.New(a, ratmat.IndexSet{}, symmetry.NewOracle(perm.Trivial(5)), gm,
		search.WithAssumeNoSymmetry())
	require.NoError(t, err)
	resBypass, err := bypass.Run()
	require.NoError(t, err)

	assert.Equal(t, coordSet(resTrivial), coordSet(resBypass))
	assert.Equal(t, len(resTrivial.BasisOrbits), len(resBypass.BasisOrbits))
}

func TestRun_FirstCobasis(t *testing.T) {
	res := runSquare(t, squareGroupFull(t), search.WithFirstCobasis(ratmat.NewIndexSet(1, 3)))
	assert.True(t, res.Finished)
	assert.True(t, res.InitialCobasis.Equal(ratmat.NewIndexSet(1, 3)))
	assert.Len(t, res.VertexOrbits, 1)
}

func TestRun_FirstCobasis_Invalid(t *testing.T) {
	a := squareMat()
	d, err := search.New(a, ratmat.IndexSet{}, symmetry.NewOracle(squareGroupFull(t)),
		mustGram(t, a, true), search.WithFirstCobasis(ratmat.NewIndexSet(1, 2)))
	require.NoError(t, err)
	_, err = d.Run()
	assert.ErrorIs(t, err, search.ErrBadFirstCobasis)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := pentagonMat()
	d, err := search.New(a, ratmat.IndexSet{}, symmetry.NewOracle(perm.Trivial(5)),
		mustGram(t, a, true), search.WithAssumeNoSymmetry(), search.WithContext(ctx))
	require.NoError(t, err)
	_, err = d.Run()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_GramVecOff_SameOrbits(t *testing.T) {
	res := runSquare(t, squareGroupFull(t), search.WithoutGramVec())
	assert.True(t, res.Finished)
	assert.Len(t, res.VertexOrbits, 1)
	assert.Len(t, res.BasisOrbits, 1)
}

func TestRun_StabSearch_SameOrbits(t *testing.T) {
	res := runSquare(t, squareGroupFull(t), search.WithStabSearch())
	assert.True(t, res.Finished)
	assert.Len(t, res.VertexOrbits, 1)
	assert.Len(t, res.BasisOrbits, 1)
}

func TestRun_GeneratorsUsed_GenerateTheGroup(t *testing.T) {
	g := squareGroupFull(t)
	res := runSquare(t, g)

	re := perm.NewGroup(4, res.GeneratorsUsed)
	assert.Equal(t, 0, g.Order().Cmp(re.Order()))
}

// coordSet projects a result onto its vertex coordinate keys.
func coordSet(res *search.Result) map[string]bool {
	out := make(map[string]bool, len(res.VertexOrbits))
	for _, v := range res.VertexOrbits {
		out[v.Coords.Key()] = true
	}

	return out
}
