package gram_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyray/symrev/gram"
	"github.com/polyray/symrev/ratmat"
	"github.com/polyray/symrev/symmetry"
)

func TestFromRat_Labelling(t *testing.T) {
	m := ratmat.MatFromInts([][]int64{
		{2, 1, 0},
		{1, 2, -1},
		{0, -1, 2},
	})
	g := gram.FromRat(m)

	// zero stays zero, equal values share a label, negation flips sign
	assert.Equal(t, 0, g.At(0, 2))
	assert.Equal(t, g.At(0, 0), g.At(1, 1))
	assert.Equal(t, g.At(0, 1), g.At(1, 0))
	assert.Equal(t, -g.At(0, 1), g.At(1, 2))
}

func TestMatrix_Restrict(t *testing.T) {
	g := gram.FromInts([][]int{
		{1, 2, 3},
		{2, 1, 4},
		{3, 4, 1},
	})
	r := g.Restrict(ratmat.NewIndexSet(1, 3))
	require.Equal(t, 2, r.Dim())
	assert.Equal(t, 1, r.At(0, 0))
	assert.Equal(t, 3, r.At(0, 1))
	assert.Equal(t, 1, r.At(1, 1))
}

func TestMatrix_Abs(t *testing.T) {
	g := gram.FromInts([][]int{{1, -2}, {-2, 1}})
	a := g.Abs()
	assert.Equal(t, 2, a.At(0, 1))
	assert.Equal(t, 2, a.At(1, 0))
}

func TestMatrix_Doubled(t *testing.T) {
	g := gram.FromInts([][]int{{1, 2}, {2, 1}})
	d := g.Doubled()
	require.Equal(t, 4, d.Dim())

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			x := g.At(i, j)
			assert.Equal(t, x, d.At(2*i, 2*j))
			assert.Equal(t, x, d.At(2*i+1, 2*j+1))
			assert.Equal(t, -x, d.At(2*i, 2*j+1))
			assert.Equal(t, -x, d.At(2*i+1, 2*j))
		}
	}
}

func TestMatrix_Canon_Contract(t *testing.T) {
	g := gram.FromInts([][]int{{5, -3}, {-3, 5}})
	c := g.Canon()

	seen := make(map[int]bool)
	for i := 0; i < c.Dim(); i++ {
		for j := 0; j < c.Dim(); j++ {
			v := c.At(i, j)
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, c.K())
			seen[v] = true
		}
	}
	// every value in [0,k) occurs at least once
	assert.Len(t, seen, c.K())
}

func TestMatrix_Sort_Idempotent(t *testing.T) {
	g := gram.FromInts([][]int{
		{3, 1, 2},
		{1, 3, 0},
		{2, 0, 3},
	})
	once := g.Clone().Sort()
	twice := once.Clone().Sort()
	assert.True(t, once.Equal(twice))
}

func TestMatrix_EqualHashKey(t *testing.T) {
	a := gram.FromInts([][]int{{1, 2}, {2, 1}})
	b := gram.FromInts([][]int{{1, 2}, {2, 1}})
	c := gram.FromInts([][]int{{1, 2}, {2, 3}})

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Equal(t, a.Key(), b.Key())
	assert.False(t, a.Equal(c))
}

// TestSortCanonical_InvariantUnderAutomorphisms checks the fingerprint
// contract: restrictions to index sets related by a Gram automorphism sort
// to equal matrices.
func TestSortCanonical_InvariantUnderAutomorphisms(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	properties.Property("sorted restriction is orbit-invariant", prop.ForAll(
		func(labels []int, pick []bool) bool {
			// build a symmetric 4×4 gram matrix from the generated labels
			const n = 4
			rows := make([][]int, n)
			for i := range rows {
				rows[i] = make([]int, n)
			}
			k := 0
			for i := 0; i < n; i++ {
				for j := i; j < n; j++ {
					v := labels[k%len(labels)]%3 - 1
					rows[i][j] = v
					rows[j][i] = v
					k++
				}
			}
			g := gram.FromInts(rows)

			// a subset of rows, never empty
			ix := make([]int, 0, n)
			for i := 0; i < n; i++ {
				if pick[i%len(pick)] {
					ix = append(ix, i+1)
				}
			}
			if len(ix) == 0 {
				ix = append(ix, 1)
			}
			s := ratmat.NewIndexSet(ix...)

			auto := symmetry.FromGramMatrix(g, symmetry.Polytope)
			for _, p := range auto.Generators() {
				a := g.Restrict(s).Sort()
				b := g.Restrict(p.ApplySet(s)).Sort()
				if !a.Equal(b) {
					return false
				}
			}

			return true
		},
		gen.SliceOfN(10, gen.IntRange(0, 100)),
		gen.SliceOfN(4, gen.Bool()),
	))

	properties.TestingRun(t)
}
