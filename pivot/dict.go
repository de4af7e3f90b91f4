package pivot

import (
	"fmt"
	"math/big"

	"github.com/polyray/symrev/ratmat"
)

// Dict is a stateful rational dictionary over a homogenised constraint
// system. It tracks the current cobasis and vertex exactly and is owned by
// one goroutine at a time.
type Dict struct {
	a    ratmat.Mat
	n, d int
	opts Options

	lin      ratmat.IndexSet // declared linearity rows
	linBasis ratmat.IndexSet // maximal independent subset of lin
	realDim  int

	cobasis ratmat.IndexSet
	vertex  ratmat.Vec // homogeneous, leading entry 1
	det     *big.Rat
}

// NewDict sets up a dictionary for the n×d system a with the given
// linearity rows. The dictionary holds no basis until FirstBasis or
// SetCobasis succeeds.
func NewDict(a ratmat.Mat, lin ratmat.IndexSet, opts ...Option) (*Dict, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	n, d := a.Rows(), a.Cols()
	for _, i := range lin.Indices() {
		if i < 1 || i > n {
			return nil, fmt.Errorf("pivot: linearity row %d of %d: %w", i, n, ErrBadCobasis)
		}
	}

	dict := &Dict{a: a, n: n, d: d, opts: o, lin: lin}
	dict.linBasis = a.RowRestriction(lin).LinIndepRows()
	// linBasis indices are relative to the restriction; map them back
	linIx := lin.Indices()
	back := make([]int, 0, dict.linBasis.Count())
	for _, i := range dict.linBasis.Indices() {
		back = append(back, linIx[i-1])
	}
	dict.linBasis = ratmat.NewIndexSet(back...)
	dict.realDim = d - 1 - dict.linBasis.Count()
	if dict.realDim < 0 {
		return nil, fmt.Errorf("pivot: over-determined linearity: %w", ErrBadCobasis)
	}

	return dict, nil
}

// RealDim returns the dimension of the feasible region within the linearity
// subspace, which equals the cobasis size.
func (dc *Dict) RealDim() int { return dc.realDim }

// Rows returns the number of constraint rows.
func (dc *Dict) Rows() int { return dc.n }

// CurrentCobasis returns the current cobasis index set.
func (dc *Dict) CurrentCobasis() ratmat.IndexSet { return dc.cobasis }

// Vertex returns the current vertex in homogeneous coordinates (leading
// entry 1). The result is a copy.
func (dc *Dict) Vertex() ratmat.Vec { return dc.vertex.Clone() }

// fixedRows returns the always-tight part of the solve system: the
// homogenising plane followed by the independent linearity rows.
func (dc *Dict) fixedRows() []ratmat.Vec {
	rows := make([]ratmat.Vec, 0, dc.linBasis.Count()+1)
	e0 := ratmat.NewVec(dc.d)
	e0[0] = new(big.Rat).SetInt64(1)
	rows = append(rows, e0)
	for _, i := range dc.linBasis.Indices() {
		rows = append(rows, dc.a.Row(i-1))
	}

	return rows
}

// solveSystem builds the square solve matrix for a cobasis: fixed rows
// first, then the cobasis rows in ascending order.
func (dc *Dict) solveSystem(cob ratmat.IndexSet) ratmat.Mat {
	fixed := dc.fixedRows()
	m := ratmat.NewMat(len(fixed)+cob.Count(), dc.d)
	for i, r := range fixed {
		m.SetRow(i, r)
	}
	for i, ri := range cob.Indices() {
		m.SetRow(len(fixed)+i, dc.a.Row(ri-1))
	}

	return m
}

// solveVertex solves for the vertex of a cobasis, returning the homogeneous
// coordinates and the defining determinant.
func (dc *Dict) solveVertex(cob ratmat.IndexSet) (ratmat.Vec, *big.Rat, error) {
	m := dc.solveSystem(cob)
	if m.Rows() != dc.d {
		return nil, nil, fmt.Errorf("pivot: cobasis size %d, want %d: %w",
			cob.Count(), dc.realDim, ErrBadCobasis)
	}
	det, err := m.Det()
	if err != nil {
		return nil, nil, err
	}
	if det.Sign() == 0 {
		return nil, nil, ErrBadCobasis
	}
	rhs := ratmat.NewVec(dc.d)
	rhs[0] = new(big.Rat).SetInt64(1)
	x, err := m.Solve(rhs)
	if err != nil {
		return nil, nil, err
	}

	return x, det, nil
}

// direction solves for the edge direction obtained by relaxing cobasis row
// leave: tight on the fixed rows and the rest of the cobasis, slope one on
// the leaving row, zero on the homogenising coordinate.
func (dc *Dict) direction(leave int) (ratmat.Vec, error) {
	m := dc.solveSystem(dc.cobasis)
	rhs := ratmat.NewVec(dc.d)
	fixed := 1 + dc.linBasis.Count()
	pos := -1
	for i, ri := range dc.cobasis.Indices() {
		if ri == leave {
			pos = fixed + i
			break
		}
	}
	if pos < 0 {
		return nil, fmt.Errorf("pivot: leaving index %d not in cobasis %s: %w",
			leave, dc.cobasis, ErrBadPivot)
	}
	rhs[pos] = new(big.Rat).SetInt64(1)

	return m.Solve(rhs)
}

// slack returns A_row·x for the current vertex (1-based row).
func (dc *Dict) slack(row int, x ratmat.Vec) *big.Rat {
	s, _ := dc.a.Row(row - 1).InnerProd(x)

	return s
}

// SetCobasis pivots the dictionary directly to a caller-supplied cobasis.
// The cobasis must have exactly realDim rows, avoid linearity rows, and
// define a vertex; in polytope mode the vertex must also be feasible.
func (dc *Dict) SetCobasis(cob ratmat.IndexSet) error {
	for _, i := range cob.Indices() {
		if i < 1 || i > dc.n {
			return fmt.Errorf("pivot: cobasis row %d of %d: %w", i, dc.n, ErrBadCobasis)
		}
		if dc.lin.Contains(i) {
			return fmt.Errorf("pivot: cobasis row %d is a linearity: %w", i, ErrBadCobasis)
		}
	}
	if cob.Count() != dc.realDim {
		return fmt.Errorf("pivot: cobasis size %d, want %d: %w",
			cob.Count(), dc.realDim, ErrBadCobasis)
	}
	x, det, err := dc.solveVertex(cob)
	if err != nil {
		return err
	}
	if !dc.opts.Arrangement && !dc.feasible(x) {
		return fmt.Errorf("pivot: cobasis %s is infeasible: %w", cob, ErrBadCobasis)
	}
	dc.cobasis = cob
	dc.vertex = x
	dc.det = det

	return nil
}

// feasible reports whether x satisfies every inequality row.
func (dc *Dict) feasible(x ratmat.Vec) bool {
	for i := 1; i <= dc.n; i++ {
		if dc.lin.Contains(i) {
			continue
		}
		if dc.slack(i, x).Sign() < 0 {
			return false
		}
	}

	return true
}

// Pivot moves the dictionary across one edge: leave exits the cobasis and
// enter replaces it. The caller is responsible for choosing enter from a
// ratio test; Pivot itself only rejects structurally invalid moves.
func (dc *Dict) Pivot(leave, enter int) error {
	if !dc.cobasis.Contains(leave) {
		return fmt.Errorf("pivot: leaving index %d not in cobasis: %w", leave, ErrBadPivot)
	}
	if enter < 1 || enter > dc.n || dc.cobasis.Contains(enter) || dc.lin.Contains(enter) {
		return fmt.Errorf("pivot: entering index %d cannot enter: %w", enter, ErrBadPivot)
	}
	next := dc.cobasis.Without(leave).With(enter)
	x, det, err := dc.solveVertex(next)
	if err != nil {
		return fmt.Errorf("pivot: pivot (%d,%d): %w", leave, enter, ErrBadPivot)
	}
	dc.cobasis = next
	dc.vertex = x
	dc.det = det

	return nil
}

// Cobasis extracts the current position: cobasis rows, determinant, the
// tight rows beyond the cobasis, and the total incidence count. Ray is 0, a
// vertex position.
func (dc *Dict) Cobasis() Cobasis {
	extra := dc.extraIncidence(dc.vertex)

	return Cobasis{
		Cob:      dc.cobasis,
		Det:      new(big.Rat).Set(dc.det),
		Ray:      0,
		TotalInc: dc.cobasis.Union(extra).Count(),
		ExtraInc: extra,
	}
}

// extraIncidence returns the tight rows at x that are not cobasis rows.
func (dc *Dict) extraIncidence(x ratmat.Vec) ratmat.IndexSet {
	out := make([]int, 0, dc.n)
	for i := 1; i <= dc.n; i++ {
		if dc.cobasis.Contains(i) {
			continue
		}
		if dc.slack(i, x).Sign() == 0 {
			out = append(out, i)
		}
	}

	return ratmat.NewIndexSet(out...)
}

// SolutionAt returns the unbounded direction obtained by relaxing the j-th
// cobasis row (1 ≤ j ≤ realDim), or nil when that edge is blocked. The
// direction has a leading zero and is scaled to leading-unit form.
func (dc *Dict) SolutionAt(j int) ratmat.Vec {
	ix := dc.cobasis.Indices()
	if j < 1 || j > len(ix) {
		return nil
	}
	leave := ix[j-1]
	z, err := dc.direction(leave)
	if err != nil {
		return nil
	}
	if dc.blocked(z) {
		if !dc.opts.Arrangement {
			return nil
		}
		// arrangements walk edges in both directions
		if dc.blocked(z.Neg()) {
			return nil
		}

		return z.Neg().LeadingUnit()
	}

	return z.LeadingUnit()
}

// blocked reports whether some row cuts off the ray x + t·z, t > 0. In
// polytope mode any decreasing slack blocks; in arrangement mode a row
// blocks when its hyperplane is crossed at strictly positive t.
func (dc *Dict) blocked(z ratmat.Vec) bool {
	for i := 1; i <= dc.n; i++ {
		if dc.cobasis.Contains(i) || dc.lin.Contains(i) {
			continue
		}
		s, _ := dc.a.Row(i - 1).InnerProd(z)
		if dc.opts.Arrangement {
			v := dc.slack(i, dc.vertex)
			if s.Sign() != 0 && v.Sign() != 0 && v.Sign() != s.Sign() {
				return true
			}
		} else if s.Sign() < 0 {
			return true
		}
	}

	return false
}

// CobasisAt returns the cobasis data with the j-th cobasis row flagged as
// the ray index, matching SolutionAt(j). Its extra incidence keeps only the
// rows tight along the ray, not merely at its apex.
func (dc *Dict) CobasisAt(j int) Cobasis {
	c := dc.Cobasis()
	ix := dc.cobasis.Indices()
	if j < 1 || j > len(ix) {
		return c
	}
	c.Ray = ix[j-1]
	if z, err := dc.direction(c.Ray); err == nil {
		kept := make([]int, 0, c.ExtraInc.Count())
		for _, i := range c.ExtraInc.Indices() {
			s, _ := dc.a.Row(i - 1).InnerProd(z)
			if s.Sign() == 0 {
				kept = append(kept, i)
			}
		}
		c.ExtraInc = ratmat.NewIndexSet(kept...)
		c.TotalInc = c.Cob.Union(c.ExtraInc).Count()
	}

	return c
}
