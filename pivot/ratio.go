package pivot

import (
	"math/big"

	"github.com/polyray/symrev/ratmat"
)

// AllRatio returns every valid entering index for the leaving index under
// the minimum-ratio rule of polytope pivoting: the rows blocking the edge
// first, ties included. Indices come back in ascending order; an empty set
// means the edge is an unbounded direction.
func (dc *Dict) AllRatio(leave int) ratmat.IndexSet {
	z, err := dc.direction(leave)
	if err != nil {
		return ratmat.IndexSet{}
	}

	var best *big.Rat
	var winners []int
	for i := 1; i <= dc.n; i++ {
		if dc.cobasis.Contains(i) || dc.lin.Contains(i) {
			continue
		}
		s, _ := dc.a.Row(i - 1).InnerProd(z)
		if s.Sign() >= 0 {
			continue
		}
		v := dc.slack(i, dc.vertex)
		// blocking at t = v / (−s) ≥ 0
		t := new(big.Rat).Quo(v, new(big.Rat).Neg(s))
		switch {
		case best == nil || t.Cmp(best) < 0:
			best = t
			winners = winners[:0]
			winners = append(winners, i)
		case t.Cmp(best) == 0:
			winners = append(winners, i)
		}
	}

	return ratmat.NewIndexSet(winners...)
}

// ArrangementRatio returns the entering indices for the leaving index under
// the arrangement rule: the nearest hyperplanes crossed in each of the two
// edge directions, ties included, together with the zero-ratio rows passing
// through the current vertex, through which degenerate bases of a shared
// vertex are reached.
func (dc *Dict) ArrangementRatio(leave int) ratmat.IndexSet {
	z, err := dc.direction(leave)
	if err != nil {
		return ratmat.IndexSet{}
	}

	var bestPos, bestNeg *big.Rat
	var winPos, winNeg []int
	zeroRows := []int{}
	for i := 1; i <= dc.n; i++ {
		if dc.cobasis.Contains(i) || dc.lin.Contains(i) {
			continue
		}
		s, _ := dc.a.Row(i - 1).InnerProd(z)
		if s.Sign() == 0 {
			continue
		}
		v := dc.slack(i, dc.vertex)
		if v.Sign() == 0 {
			// coincident at the vertex: zero-ratio entering candidate
			zeroRows = append(zeroRows, i)
			continue
		}
		// the crossing parameter along z
		t := new(big.Rat).Quo(new(big.Rat).Neg(v), s)
		if t.Sign() > 0 {
			switch {
			case bestPos == nil || t.Cmp(bestPos) < 0:
				bestPos = t
				winPos = winPos[:0]
				winPos = append(winPos, i)
			case t.Cmp(bestPos) == 0:
				winPos = append(winPos, i)
			}
		} else {
			switch {
			case bestNeg == nil || t.Cmp(bestNeg) > 0:
				bestNeg = t
				winNeg = winNeg[:0]
				winNeg = append(winNeg, i)
			case t.Cmp(bestNeg) == 0:
				winNeg = append(winNeg, i)
			}
		}
	}

	all := append(append(winPos, winNeg...), zeroRows...)

	return ratmat.NewIndexSet(all...)
}

// LexRatio returns the single lexicographically first entering index for
// the leaving index, or −1 when the edge is unbounded. Restricting a search
// to lexicographic pivots breaks orbit coverage and is gated behind an
// explicit opt-in at the driver.
func (dc *Dict) LexRatio(leave int) int {
	var entering ratmat.IndexSet
	if dc.opts.Arrangement {
		entering = dc.ArrangementRatio(leave)
	} else {
		entering = dc.AllRatio(leave)
	}
	if entering.IsEmpty() {
		return -1
	}

	return entering.Indices()[0]
}

// Entering returns the entering candidates for leave under the active rule.
func (dc *Dict) Entering(leave int) ratmat.IndexSet {
	if dc.opts.Arrangement {
		return dc.ArrangementRatio(leave)
	}

	return dc.AllRatio(leave)
}
