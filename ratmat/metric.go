package ratmat

import (
	"fmt"
	"math/big"
)

// InnerProdMat returns the matrix P with P[i][j] = ⟨row i, row j⟩.
// The result is symmetric, so only the lower triangle is computed.
func InnerProdMat(m Mat) Mat {
	n := m.Rows()
	p := NewMat(n, n)
	rows := make([]Vec, n)
	for i := 0; i < n; i++ {
		rows[i] = m.Row(i)
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			t, _ := rows[i].InnerProd(rows[j])
			p.Set(i, j, t)
			p.Set(j, i, t)
		}
	}

	return p
}

// QMat returns Q = Σᵢ rᵢᵀrᵢ over the rows of m, the metric the row set
// induces on the ambient space.
func QMat(m Mat) Mat {
	n, d := m.Rows(), m.Cols()
	q := NewMat(d, d)
	t := new(big.Rat)

	// Accumulate the upper triangle of Q, then mirror it.
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			for k := j; k < d; k++ {
				sum := new(big.Rat).Add(q.At(j, k), t.Mul(m.At(i, j), m.At(i, k)))
				q.Set(j, k, sum)
			}
		}
	}
	for j := 1; j < d; j++ {
		for k := 0; k < j; k++ {
			q.Set(j, k, q.At(k, j))
		}
	}

	return q
}

// InvQMat returns Q⁻¹ for the rows of m. A SingularError identifies the
// pivot column when Q is not invertible (rank-deficient input).
func InvQMat(m Mat) (Mat, error) {
	inv, err := QMat(m).Inverse()
	if err != nil {
		return Mat{}, fmt.Errorf("ratmat: Q-matrix inversion: %w", err)
	}

	return inv, nil
}

// OrthoAugment appends rows to m, orthogonal to its row space, until the
// result has full column rank. When signed is true each augment row is
// paired with its negation, which keeps polytope sign symmetry intact;
// arrangements use unsigned augmentation.
func OrthoAugment(m Mat, signed bool) Mat {
	goodRows := m.LinIndepRows()
	n, d, r := m.Rows(), m.Cols(), goodRows.Count()
	if r == d {
		return m.Clone()
	}

	g := m.RowRestriction(goodRows)
	goodCols := g.Transpose().LinIndepRows()
	badCols := FullIndexSet(d).Minus(goodCols)

	b := g.ColRestriction(goodCols)
	c := g.ColRestriction(badCols)

	bInv, err := b.Inverse()
	if err != nil {
		// goodCols were chosen independent, so b is invertible; a failure
		// here indicates inconsistent input, and m is returned unaugmented.
		return m.Clone()
	}
	negC := NewMat(c.Rows(), c.Cols())
	for i := 0; i < c.Rows(); i++ {
		for j := 0; j < c.Cols(); j++ {
			negC.Set(i, j, new(big.Rat).Neg(c.At(i, j)))
		}
	}
	a, _ := bInv.Mul(negC)

	// Augment rows live on the goodCols coordinates plus one identity entry
	// in a badCols coordinate each.
	aug := d - r
	rowAug := aug
	if signed {
		rowAug = 2 * aug
	}
	out := NewMat(n+rowAug, d)
	for i := 0; i < n; i++ {
		out.SetRow(i, m.Row(i))
	}
	goodIx := goodCols.Indices()
	badIx := badCols.Indices()
	one := new(big.Rat).SetInt64(1)
	negOne := new(big.Rat).SetInt64(-1)

	for j := 0; j < aug; j++ {
		if signed {
			for i := 0; i < r; i++ {
				x := a.At(i, j)
				out.Set(n+2*j, goodIx[i]-1, x)
				out.Set(n+2*j+1, goodIx[i]-1, new(big.Rat).Neg(x))
			}
			out.Set(n+2*j, badIx[j]-1, one)
			out.Set(n+2*j+1, badIx[j]-1, negOne)
		} else {
			for i := 0; i < r; i++ {
				out.Set(n+j, goodIx[i]-1, a.At(i, j))
			}
			out.Set(n+j, badIx[j]-1, one)
		}
	}

	return out
}

// TransformedInnerProdMat returns P with P[i][j] = ⟨rowᵢ·T, rowⱼ⟩.
func TransformedInnerProdMat(m, t Mat) (Mat, error) {
	n := m.Rows()
	p := NewMat(n, n)
	rows := make([]Vec, n)
	for i := 0; i < n; i++ {
		rows[i] = m.Row(i)
	}
	for i := 0; i < n; i++ {
		w, err := t.VecMul(rows[i])
		if err != nil {
			return Mat{}, err
		}
		for j := 0; j < n; j++ {
			x, err := w.InnerProd(rows[j])
			if err != nil {
				return Mat{}, err
			}
			p.Set(i, j, x)
		}
	}

	return p, nil
}
