package ratmat

import (
	"math/big"
	"strings"
)

// NewMat returns a zeroed rows×cols matrix.
func NewMat(rows, cols int) Mat {
	data := make([]*big.Rat, rows*cols)
	for i := range data {
		data[i] = ratZero()
	}

	return Mat{rows: rows, cols: cols, data: data}
}

// MatFromInts builds a matrix from integer rows. All rows must share one
// length. Convenience for tests and input construction.
func MatFromInts(rows [][]int64) Mat {
	if len(rows) == 0 {
		return Mat{}
	}
	m := NewMat(len(rows), len(rows[0]))
	for i, row := range rows {
		for j, x := range row {
			m.data[i*m.cols+j] = new(big.Rat).SetInt64(x)
		}
	}

	return m
}

// Rows returns the number of rows in m.
func (m Mat) Rows() int { return m.rows }

// Cols returns the row dimension of m.
func (m Mat) Cols() int { return m.cols }

// At returns the element at row i, column j (zero-based).
func (m Mat) At(i, j int) *big.Rat { return m.data[i*m.cols+j] }

// Set assigns the element at row i, column j (zero-based).
func (m Mat) Set(i, j int, x *big.Rat) { m.data[i*m.cols+j] = ratCopy(x) }

// Row returns a copy of row i.
func (m Mat) Row(i int) Vec {
	r := make(Vec, m.cols)
	for j := 0; j < m.cols; j++ {
		r[j] = ratCopy(m.data[i*m.cols+j])
	}

	return r
}

// SetRow assigns row i from v.
func (m Mat) SetRow(i int, v Vec) {
	for j := 0; j < m.cols; j++ {
		m.data[i*m.cols+j] = ratCopy(v[j])
	}
}

// Clone returns a deep copy of m.
func (m Mat) Clone() Mat {
	c := NewMat(m.rows, m.cols)
	for i, x := range m.data {
		c.data[i] = ratCopy(x)
	}

	return c
}

// Equal reports elementwise equality.
func (m Mat) Equal(o Mat) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := range m.data {
		if m.data[i].Cmp(o.data[i]) != 0 {
			return false
		}
	}

	return true
}

// Transpose returns mᵀ.
func (m Mat) Transpose() Mat {
	t := NewMat(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			t.data[j*t.cols+i] = ratCopy(m.data[i*m.cols+j])
		}
	}

	return t
}

// Mul returns the matrix product m·o.
func (m Mat) Mul(o Mat) (Mat, error) {
	if m.cols != o.rows {
		return Mat{}, ErrDimensionMismatch
	}
	p := NewMat(m.rows, o.cols)
	t := new(big.Rat)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < o.cols; j++ {
			sum := ratZero()
			for k := 0; k < m.cols; k++ {
				sum.Add(sum, t.Mul(m.data[i*m.cols+k], o.data[k*o.cols+j]))
			}
			p.data[i*p.cols+j] = sum
		}
	}

	return p, nil
}

// MulVec returns m·x.
func (m Mat) MulVec(x Vec) (Vec, error) {
	if m.cols != len(x) {
		return nil, ErrDimensionMismatch
	}
	r := make(Vec, m.rows)
	t := new(big.Rat)
	for i := 0; i < m.rows; i++ {
		sum := ratZero()
		for j := 0; j < m.cols; j++ {
			sum.Add(sum, t.Mul(m.data[i*m.cols+j], x[j]))
		}
		r[i] = sum
	}

	return r, nil
}

// VecMul returns xᵀ·m as a row vector.
func (m Mat) VecMul(x Vec) (Vec, error) {
	if m.rows != len(x) {
		return nil, ErrDimensionMismatch
	}
	r := make(Vec, m.cols)
	t := new(big.Rat)
	for j := 0; j < m.cols; j++ {
		sum := ratZero()
		for i := 0; i < m.rows; i++ {
			sum.Add(sum, t.Mul(x[i], m.data[i*m.cols+j]))
		}
		r[j] = sum
	}

	return r, nil
}

// RowRestriction returns the submatrix of the rows selected by s (1-based).
func (m Mat) RowRestriction(s IndexSet) Mat {
	ix := s.ix
	r := NewMat(len(ix), m.cols)
	for i, ri := range ix {
		for j := 0; j < m.cols; j++ {
			r.data[i*r.cols+j] = ratCopy(m.data[(ri-1)*m.cols+j])
		}
	}

	return r
}

// ColRestriction returns the submatrix of the columns selected by s (1-based).
func (m Mat) ColRestriction(s IndexSet) Mat {
	ix := s.ix
	r := NewMat(m.rows, len(ix))
	for i := 0; i < m.rows; i++ {
		for j, cj := range ix {
			r.data[i*r.cols+j] = ratCopy(m.data[i*m.cols+(cj-1)])
		}
	}

	return r
}

// LinIndepRows returns a maximal set of linearly independent rows, chosen
// greedily in row order, as a 1-based IndexSet.
func (m Mat) LinIndepRows() IndexSet {
	basis := make([]Vec, 0, m.cols)
	picked := make([]int, 0, m.cols)
	for i := 0; i < m.rows; i++ {
		r := m.Row(i)
		reduceAgainst(r, basis)
		if !r.IsZero() {
			basis = append(basis, r)
			picked = append(picked, i+1)
		}
	}

	return NewIndexSet(picked...)
}

// Rank returns the rank of m.
func (m Mat) Rank() int {
	return m.LinIndepRows().Count()
}

// reduceAgainst reduces r in place against the echelon basis rows.
// Each basis row has a leading non-zero entry not shared by earlier rows.
func reduceAgainst(r Vec, basis []Vec) {
	t := new(big.Rat)
	for _, b := range basis {
		lead := -1
		for j, x := range b {
			if x.Sign() != 0 {
				lead = j
				break
			}
		}
		if lead < 0 || r[lead].Sign() == 0 {
			continue
		}
		factor := new(big.Rat).Quo(r[lead], b[lead])
		for j := lead; j < len(r); j++ {
			r[j] = new(big.Rat).Sub(r[j], t.Mul(factor, b[j]))
		}
	}
}

// Inverse returns m⁻¹ by Gauss-Jordan elimination with row pivoting.
// A SingularError carrying the failing row is returned when no pivot exists.
func (m Mat) Inverse() (Mat, error) {
	if m.rows != m.cols {
		return Mat{}, ErrNotSquare
	}
	n := m.rows
	a := m.Clone()
	inv := Identity(n)
	t := new(big.Rat)

	for col := 0; col < n; col++ {
		// 1. Locate a pivot at or below the diagonal
		pivotRow := -1
		for i := col; i < n; i++ {
			if a.data[i*n+col].Sign() != 0 {
				pivotRow = i
				break
			}
		}
		if pivotRow < 0 {
			return Mat{}, SingularError{Row: col}
		}
		if pivotRow != col {
			a.swapRows(pivotRow, col)
			inv.swapRows(pivotRow, col)
		}

		// 2. Normalise the pivot row
		p := ratCopy(a.data[col*n+col])
		p.Inv(p)
		for j := 0; j < n; j++ {
			a.data[col*n+j] = new(big.Rat).Mul(a.data[col*n+j], p)
			inv.data[col*n+j] = new(big.Rat).Mul(inv.data[col*n+j], p)
		}

		// 3. Eliminate the column from every other row
		for i := 0; i < n; i++ {
			if i == col || a.data[i*n+col].Sign() == 0 {
				continue
			}
			f := ratCopy(a.data[i*n+col])
			for j := 0; j < n; j++ {
				a.data[i*n+j] = new(big.Rat).Sub(a.data[i*n+j], t.Mul(f, a.data[col*n+j]))
				inv.data[i*n+j] = new(big.Rat).Sub(inv.data[i*n+j], t.Mul(f, inv.data[col*n+j]))
			}
		}
	}

	return inv, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) Mat {
	m := NewMat(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = new(big.Rat).SetInt64(1)
	}

	return m
}

func (m Mat) swapRows(i, j int) {
	for c := 0; c < m.cols; c++ {
		m.data[i*m.cols+c], m.data[j*m.cols+c] = m.data[j*m.cols+c], m.data[i*m.cols+c]
	}
}

// Solve returns x with m·x = b for square m.
func (m Mat) Solve(b Vec) (Vec, error) {
	inv, err := m.Inverse()
	if err != nil {
		return nil, err
	}

	return inv.MulVec(b)
}

// Det returns the determinant of a square matrix.
func (m Mat) Det() (*big.Rat, error) {
	if m.rows != m.cols {
		return nil, ErrNotSquare
	}
	n := m.rows
	a := m.Clone()
	det := new(big.Rat).SetInt64(1)
	t := new(big.Rat)

	for col := 0; col < n; col++ {
		pivotRow := -1
		for i := col; i < n; i++ {
			if a.data[i*n+col].Sign() != 0 {
				pivotRow = i
				break
			}
		}
		if pivotRow < 0 {
			return ratZero(), nil
		}
		if pivotRow != col {
			a.swapRows(pivotRow, col)
			det.Neg(det)
		}
		p := a.data[col*n+col]
		det.Mul(det, p)
		for i := col + 1; i < n; i++ {
			if a.data[i*n+col].Sign() == 0 {
				continue
			}
			f := new(big.Rat).Quo(a.data[i*n+col], p)
			for j := col; j < n; j++ {
				a.data[i*n+j] = new(big.Rat).Sub(a.data[i*n+j], t.Mul(f, a.data[col*n+j]))
			}
		}
	}

	return det, nil
}

// NullSpace returns a basis of {x : m·x = 0}. The basis vectors are the
// standard free-column completions of the reduced row echelon form.
func (m Mat) NullSpace() []Vec {
	n, d := m.rows, m.cols
	a := m.Clone()
	t := new(big.Rat)

	// Reduce to RREF, recording pivot columns.
	pivotCols := make([]int, 0, d)
	row := 0
	for col := 0; col < d && row < n; col++ {
		pivotRow := -1
		for i := row; i < n; i++ {
			if a.data[i*d+col].Sign() != 0 {
				pivotRow = i
				break
			}
		}
		if pivotRow < 0 {
			continue
		}
		if pivotRow != row {
			a.swapRows(pivotRow, row)
		}
		p := ratCopy(a.data[row*d+col])
		p.Inv(p)
		for j := 0; j < d; j++ {
			a.data[row*d+j] = new(big.Rat).Mul(a.data[row*d+j], p)
		}
		for i := 0; i < n; i++ {
			if i == row || a.data[i*d+col].Sign() == 0 {
				continue
			}
			f := ratCopy(a.data[i*d+col])
			for j := 0; j < d; j++ {
				a.data[i*d+j] = new(big.Rat).Sub(a.data[i*d+j], t.Mul(f, a.data[row*d+j]))
			}
		}
		pivotCols = append(pivotCols, col)
		row++
	}

	isPivot := make([]bool, d)
	for _, c := range pivotCols {
		isPivot[c] = true
	}

	basis := make([]Vec, 0, d-len(pivotCols))
	for free := 0; free < d; free++ {
		if isPivot[free] {
			continue
		}
		v := NewVec(d)
		v[free] = new(big.Rat).SetInt64(1)
		for r, c := range pivotCols {
			v[c] = new(big.Rat).Neg(a.data[r*d+free])
		}
		basis = append(basis, v)
	}

	return basis
}

// String renders the matrix one row per line.
func (m Mat) String() string {
	var b strings.Builder
	for i := 0; i < m.rows; i++ {
		b.WriteString(Vec(m.Row(i)).String())
		if i < m.rows-1 {
			b.WriteByte('\n')
		}
	}

	return b.String()
}
