package pivot

import (
	"fmt"
	"math/big"

	"github.com/polyray/symrev/ratmat"
)

// maxSimplexIter caps phase-one pivoting as a cycling backstop.
const maxSimplexIter = 100000

// FirstBasis finds an initial basis: a feasibility walk (phase one) when
// the linearity-subspace start is infeasible, followed by a descent to a
// vertex. In arrangement mode any independent row set defines a vertex, so
// the first such set is taken directly.
func (dc *Dict) FirstBasis() error {
	if dc.opts.Arrangement {
		return dc.firstBasisArrangement()
	}

	sys := dc.baseSystem()

	// 1. Start anywhere on the linearity subspace ∩ {x₀ = 1}
	x, err := solveUnder(sys.eq, sys.eqRHS, dc.d)
	if err != nil {
		return fmt.Errorf("pivot: linearity system: %w", ErrNoFirstBasis)
	}

	// 2. Walk to feasibility if needed
	if !sys.feasibleAt(x) {
		x, err = dc.phaseOne(x)
		if err != nil {
			return err
		}
	}

	// 3. Descend to a vertex of the feasible region
	chosen, err := sys.descend(x, nil)
	if err != nil {
		return fmt.Errorf("pivot: vertex descent: %w", err)
	}

	// 4. Commit the cobasis through the exact solve
	cob := ratmat.NewIndexSet(chosen...)

	return dc.SetCobasis(cob)
}

// firstBasisArrangement picks the first independent realDim rows.
func (dc *Dict) firstBasisArrangement() error {
	fixed := dc.fixedRows()
	basis := append([]ratmat.Vec{}, fixed...)
	chosen := make([]int, 0, dc.realDim)
	for i := 1; i <= dc.n && len(chosen) < dc.realDim; i++ {
		if dc.lin.Contains(i) {
			continue
		}
		cand := append([]ratmat.Vec{}, basis...)
		cand = append(cand, dc.a.Row(i-1))
		if rankOf(cand, dc.d) > rankOf(basis, dc.d) {
			basis = cand
			chosen = append(chosen, i)
		}
	}
	if len(chosen) < dc.realDim {
		return fmt.Errorf("pivot: only %d independent rows of %d: %w",
			len(chosen), dc.realDim, ErrNoFirstBasis)
	}

	return dc.SetCobasis(ratmat.NewIndexSet(chosen...))
}

// lpSys is a working system for the first-basis walks: equality rows with
// right-hand sides, inequality rows c + g·x ≥ 0 identified by 1-based tags
// into the original row numbering (tag 0 marks auxiliary rows).
type lpSys struct {
	d     int
	eq    []ratmat.Vec
	eqRHS []*big.Rat
	ineq  []ratmat.Vec
	tags  []int
	obj   ratmat.Vec
}

// baseSystem builds the lpSys of the original dictionary.
func (dc *Dict) baseSystem() *lpSys {
	s := &lpSys{d: dc.d}
	e0 := ratmat.NewVec(dc.d)
	e0[0] = new(big.Rat).SetInt64(1)
	s.eq = append(s.eq, e0)
	s.eqRHS = append(s.eqRHS, new(big.Rat).SetInt64(1))
	for _, i := range dc.linBasis.Indices() {
		s.eq = append(s.eq, dc.a.Row(i-1))
		s.eqRHS = append(s.eqRHS, new(big.Rat))
	}
	for i := 1; i <= dc.n; i++ {
		if dc.lin.Contains(i) {
			continue
		}
		s.ineq = append(s.ineq, dc.a.Row(i-1))
		s.tags = append(s.tags, i)
	}

	return s
}

// phaseOne augments the system with a slack coordinate w, starts from the
// given infeasible point lifted to feasibility, and pivots w down to zero.
func (dc *Dict) phaseOne(x0 ratmat.Vec) (ratmat.Vec, error) {
	base := dc.baseSystem()
	aug := &lpSys{d: dc.d + 1}

	for i, r := range base.eq {
		aug.eq = append(aug.eq, lift(r, 0))
		aug.eqRHS = append(aug.eqRHS, ratCopy(base.eqRHS[i]))
	}
	for i, r := range base.ineq {
		aug.ineq = append(aug.ineq, lift(r, 1))
		aug.tags = append(aug.tags, base.tags[i])
	}
	// w ≥ 0
	wRow := ratmat.NewVec(dc.d + 1)
	wRow[dc.d] = new(big.Rat).SetInt64(1)
	aug.ineq = append(aug.ineq, wRow)
	aug.tags = append(aug.tags, 0)
	// maximize −w
	aug.obj = ratmat.NewVec(dc.d + 1)
	aug.obj[dc.d] = new(big.Rat).SetInt64(-1)

	// lift the start point to feasibility
	w0 := new(big.Rat)
	for _, r := range base.ineq {
		s, _ := r.InnerProd(x0)
		if s.Sign() < 0 {
			neg := new(big.Rat).Neg(s)
			if neg.Cmp(w0) > 0 {
				w0 = neg
			}
		}
	}
	x := append(x0.Clone(), w0)

	chosen, err := aug.descend(x, aug.obj)
	if err != nil {
		return nil, fmt.Errorf("pivot: phase one descent: %w", err)
	}
	if err := aug.simplexMax(x, chosen); err != nil {
		return nil, fmt.Errorf("pivot: phase one: %w", err)
	}
	if x[dc.d].Sign() > 0 {
		return nil, ErrNoFirstBasis
	}

	return x[:dc.d], nil
}

// lift extends a row into the augmented space with the given w coefficient.
func lift(r ratmat.Vec, w int64) ratmat.Vec {
	out := r.Clone()

	return append(out, new(big.Rat).SetInt64(w))
}

// feasibleAt reports whether every inequality of the system holds at x.
func (s *lpSys) feasibleAt(x ratmat.Vec) bool {
	for _, r := range s.ineq {
		v, _ := r.InnerProd(x)
		if v.Sign() < 0 {
			return false
		}
	}

	return true
}

// descend moves x to a vertex, mutating x in place, and returns the tags of
// the inequality rows pinning it. With a non-nil objective the walk never
// decreases obj·x; without one, direction orientation is free. Positions of
// chosen auxiliary rows report tag 0.
func (s *lpSys) descend(x ratmat.Vec, obj ratmat.Vec) ([]int, error) {
	var chosenRows []ratmat.Vec
	var chosenTags []int

	for {
		system := append([]ratmat.Vec{}, s.eq...)
		system = append(system, chosenRows...)
		null := vecsToMat(system, s.d).NullSpace()
		if len(null) == 0 {
			break
		}
		z := null[0]
		if obj != nil {
			o, _ := obj.InnerProd(z)
			if o.Sign() < 0 {
				z = z.Neg()
			}
		}
		t, block := s.blockRatio(x, z, chosenTags, chosenRows)
		if block < 0 {
			z = z.Neg()
			if obj != nil {
				o, _ := obj.InnerProd(z)
				if o.Sign() < 0 {
					return nil, ErrUnbounded
				}
			}
			t, block = s.blockRatio(x, z, chosenTags, chosenRows)
			if block < 0 {
				return nil, ErrLineality
			}
		}
		step(x, z, t)
		chosenRows = append(chosenRows, s.ineq[block])
		chosenTags = append(chosenTags, s.tags[block])
	}

	return chosenTags, nil
}

// simplexMax runs Bland-ordered improving pivots from the vertex x with the
// given pinned rows until the objective is optimal. x and chosen are
// mutated in place.
func (s *lpSys) simplexMax(x ratmat.Vec, chosen []int) error {
	// recover the pinned row vectors from their tags
	rows := make([]ratmat.Vec, len(chosen))
	for i, tag := range chosen {
		rows[i] = s.rowByTag(tag)
	}

	for iter := 0; iter < maxSimplexIter; iter++ {
		improved := false
		for li := 0; li < len(rows); li++ {
			z, err := edgeDirection(s, rows, li)
			if err != nil {
				continue
			}
			o, _ := s.obj.InnerProd(z)
			if o.Sign() <= 0 {
				continue
			}
			t, block := s.blockRatio(x, z, chosen, rows)
			if block < 0 {
				return ErrUnbounded
			}
			step(x, z, t)
			rows[li] = s.ineq[block]
			chosen[li] = s.tags[block]
			improved = true
			break
		}
		if !improved {
			return nil
		}
	}

	return fmt.Errorf("pivot: simplex iteration cap: %w", ErrNoFirstBasis)
}

// rowByTag returns the inequality row with the given tag; tag 0 selects the
// first auxiliary row.
func (s *lpSys) rowByTag(tag int) ratmat.Vec {
	for i, t := range s.tags {
		if t == tag {
			return s.ineq[i]
		}
	}

	return nil
}

// edgeDirection solves for the direction relaxing pinned row li while
// staying tight on the equalities and the remaining pinned rows.
func edgeDirection(s *lpSys, rows []ratmat.Vec, li int) (ratmat.Vec, error) {
	system := append([]ratmat.Vec{}, s.eq...)
	system = append(system, rows...)
	m := vecsToMat(system, s.d)
	rhs := ratmat.NewVec(len(system))
	rhs[len(s.eq)+li] = new(big.Rat).SetInt64(1)
	if m.Rows() != s.d {
		return nil, ErrBadPivot
	}

	return m.Solve(rhs)
}

// blockRatio finds the first inequality blocking x + t·z, t ≥ 0, skipping
// rows already pinned. It returns the minimal t and the blocking row's
// position, or (nil, −1) when the direction is unblocked. The smallest row
// position wins ties, keeping the walk deterministic.
func (s *lpSys) blockRatio(x, z ratmat.Vec, chosenTags []int, chosenRows []ratmat.Vec) (*big.Rat, int) {
	var best *big.Rat
	bestIdx := -1
	for i, r := range s.ineq {
		if containsRow(chosenRows, r) {
			continue
		}
		sz, _ := r.InnerProd(z)
		if sz.Sign() >= 0 {
			continue
		}
		v, _ := r.InnerProd(x)
		t := new(big.Rat).Quo(v, new(big.Rat).Neg(sz))
		if best == nil || t.Cmp(best) < 0 {
			best = t
			bestIdx = i
		}
	}

	return best, bestIdx
}

// containsRow reports whether rows holds the same backing vector as r.
func containsRow(rows []ratmat.Vec, r ratmat.Vec) bool {
	for _, c := range rows {
		if &c[0] == &r[0] {
			return true
		}
	}

	return false
}

// step advances x by t·z in place.
func step(x ratmat.Vec, z ratmat.Vec, t *big.Rat) {
	tmp := new(big.Rat)
	for i := range x {
		x[i] = new(big.Rat).Add(x[i], tmp.Mul(t, z[i]))
	}
}

// vecsToMat stacks row vectors into a matrix.
func vecsToMat(rows []ratmat.Vec, d int) ratmat.Mat {
	m := ratmat.NewMat(len(rows), d)
	for i, r := range rows {
		m.SetRow(i, r)
	}

	return m
}

// rankOf returns the rank of stacked rows.
func rankOf(rows []ratmat.Vec, d int) int {
	return vecsToMat(rows, d).Rank()
}

// solveUnder finds any solution of the possibly under-determined system
// rows·x = rhs, setting free coordinates to zero.
func solveUnder(rows []ratmat.Vec, rhs []*big.Rat, d int) (ratmat.Vec, error) {
	n := len(rows)
	// augmented elimination
	aug := ratmat.NewMat(n, d+1)
	for i, r := range rows {
		for j := 0; j < d; j++ {
			aug.Set(i, j, r[j])
		}
		aug.Set(i, d, rhs[i])
	}

	t := new(big.Rat)
	pivCols := make([]int, 0, d)
	row := 0
	for col := 0; col < d && row < n; col++ {
		pr := -1
		for i := row; i < n; i++ {
			if aug.At(i, col).Sign() != 0 {
				pr = i
				break
			}
		}
		if pr < 0 {
			continue
		}
		if pr != row {
			for j := 0; j <= d; j++ {
				a, b := aug.At(pr, j), aug.At(row, j)
				aug.Set(pr, j, b)
				aug.Set(row, j, a)
			}
		}
		inv := new(big.Rat).Inv(aug.At(row, col))
		for j := 0; j <= d; j++ {
			aug.Set(row, j, new(big.Rat).Mul(aug.At(row, j), inv))
		}
		for i := 0; i < n; i++ {
			if i == row || aug.At(i, col).Sign() == 0 {
				continue
			}
			f := new(big.Rat).Set(aug.At(i, col))
			for j := 0; j <= d; j++ {
				aug.Set(i, j, new(big.Rat).Sub(aug.At(i, j), t.Mul(f, aug.At(row, j))))
			}
		}
		pivCols = append(pivCols, col)
		row++
	}
	// inconsistent rows have a zero left side and non-zero right side
	for i := row; i < n; i++ {
		if aug.At(i, d).Sign() != 0 {
			return nil, ErrSingularSystem
		}
	}

	x := ratmat.NewVec(d)
	for r, c := range pivCols {
		x[c] = ratCopy(aug.At(r, d))
	}

	return x, nil
}

// ErrSingularSystem marks an inconsistent equality system.
var ErrSingularSystem = fmt.Errorf("pivot: inconsistent equality system")

func ratCopy(x *big.Rat) *big.Rat { return new(big.Rat).Set(x) }
