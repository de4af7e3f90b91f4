package symmetry

import (
	"math/big"

	"github.com/polyray/symrev/gram"
	"github.com/polyray/symrev/perm"
)

// Mode selects how Gram-matrix automorphisms are interpreted.
type Mode int

const (
	// Polytope uses the restricted automorphisms of the matrix directly.
	Polytope Mode = iota
	// Arrangement computes automorphisms of the sign-doubled matrix and
	// lifts back the generators whose cycles respect sign classes.
	Arrangement
)

// FromGramMatrix computes the subgroup of the symmetric group on the rows
// that preserves the angle matrix g, under the given mode.
func FromGramMatrix(g gram.Matrix, mode Mode) *perm.Group {
	if mode == Arrangement {
		return arrangementAutomorphisms(g)
	}

	return restrictedAutomorphisms(g)
}

// restrictedAutomorphisms searches for all row/column permutations p with
// c[p(i)][p(j)] = c[i][j], over the canonical relabelling of g. Candidates
// found to be members of the group generated so far are not re-collected.
func restrictedAutomorphisms(g gram.Matrix) *perm.Group {
	c := g.Canon()
	n := c.Dim()
	search := autoSearch{m: c, n: n, img: make([]int, n), used: make([]bool, n)}
	search.group = perm.Trivial(n)
	search.descend(0)

	return search.group
}

// autoSearch is the state of one automorphism backtrack.
type autoSearch struct {
	m     gram.Matrix
	n     int
	img   []int
	used  []bool
	group *perm.Group
}

// descend assigns an image to row i, pruning on pairwise label consistency
// with all rows already assigned.
func (s *autoSearch) descend(i int) {
	if i == s.n {
		p, err := perm.NewPerm(s.img)
		if err != nil || p.IsIdentity() || s.group.Sifts(p) {
			return
		}
		gens := append(s.group.Generators(), p)
		s.group = perm.NewGroup(s.n, gens)

		return
	}
	for c := 0; c < s.n; c++ {
		if s.used[c] || s.m.At(i, i) != s.m.At(c, c) {
			continue
		}
		ok := true
		for j := 0; j < i; j++ {
			if s.m.At(i, j) != s.m.At(c, s.img[j]) || s.m.At(j, i) != s.m.At(s.img[j], c) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		s.img[i] = c
		s.used[c] = true
		s.descend(i + 1)
		s.used[c] = false
	}
}

// arrangementAutomorphisms lifts the automorphisms of the sign-doubled
// matrix back to the original rows. In the doubled numbering row 2i carries
// +i and row 2i+1 carries −i (0-indexed); a generator survives the lift only
// when every non-trivial cycle stays within one sign class, and the lift
// halves the indices of its negative-class cycles. Cycles opening on the
// positive class are skipped, since their negative complements appear
// elsewhere in the cycle list.
func arrangementAutomorphisms(g gram.Matrix) *perm.Group {
	doubled := restrictedAutomorphisms(g.Doubled())
	n := g.Dim()

	var gens []*perm.Perm
	for _, gen := range doubled.StrongGenerators() {
		cycles := gen.Cycles()
		lifted := make([][]int, 0, len(cycles))
		valid := true
		for _, c := range cycles {
			// Cycles() is 1-indexed: odd entries are the positive class.
			if (c[0]-1)&1 == 0 {
				continue
			}
			lift := make([]int, 0, len(c))
			for _, x := range c {
				if (x-1)&1 == 0 {
					valid = false
					break
				}
				lift = append(lift, (x-1)>>1+1)
			}
			if !valid {
				break
			}
			lifted = append(lifted, lift)
		}
		if !valid || len(lifted) == 0 {
			continue
		}
		p, err := perm.FromCycles(n, lifted)
		if err != nil {
			continue
		}
		gens = append(gens, p)
	}

	return perm.NewGroup(n, gens)
}

// ShrinkToDegree returns the subgroup of g acting on {1..m}: strong
// generators with any cycle element above m are dropped, and the rest are
// restricted to degree m.
func ShrinkToDegree(g *perm.Group, m int) *perm.Group {
	var gens []*perm.Perm
	for _, gen := range g.StrongGenerators() {
		kept := gen.Cycles()
		inside := true
		for _, c := range kept {
			for _, x := range c {
				if x > m {
					inside = false
					break
				}
			}
		}
		if !inside || len(kept) == 0 {
			continue
		}
		p, err := perm.FromCycles(m, kept)
		if err != nil {
			continue
		}
		gens = append(gens, p)
	}

	return perm.NewGroup(m, gens)
}

// LiftReport cross-checks the arrangement lift: LiftedOrder is the order of
// the lifted group, DoubledOrder the order of Aut(doubled Γ), and Expected
// is DoubledOrder / 2^n, the order the lift would have if it were complete.
type LiftReport struct {
	LiftedOrder  *big.Int
	DoubledOrder *big.Int
	Expected     *big.Int
}

// Complete reports whether the lifted order matches the expectation.
func (r LiftReport) Complete() bool { return r.LiftedOrder.Cmp(r.Expected) == 0 }

// VerifyArrangementLift computes the lift diagnostic for g.
func VerifyArrangementLift(g gram.Matrix) LiftReport {
	doubled := restrictedAutomorphisms(g.Doubled())
	lifted := arrangementAutomorphisms(g)

	expected := new(big.Int).Set(doubled.Order())
	half := big.NewInt(2)
	for i := 0; i < g.Dim(); i++ {
		expected.Quo(expected, half)
	}

	return LiftReport{
		LiftedOrder:  lifted.Order(),
		DoubledOrder: doubled.Order(),
		Expected:     expected,
	}
}
