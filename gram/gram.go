package gram

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"

	"github.com/polyray/symrev/ratmat"
)

// Matrix is a square matrix of integer angle labels. K bounds the label
// range: every label x satisfies |x| < K. The zero Matrix is the empty
// fingerprint used when Gram hashing is disabled.
type Matrix struct {
	n    int
	k    int
	data []int
}

// NewMatrix returns a zeroed n×n label matrix with label bound k.
func NewMatrix(n, k int) Matrix {
	return Matrix{n: n, k: k, data: make([]int, n*n)}
}

// FromInts builds a Matrix directly from label rows, deriving the bound.
// Used for explicitly supplied Gram matrices.
func FromInts(rows [][]int) Matrix {
	n := len(rows)
	m := NewMatrix(n, 1)
	for i, row := range rows {
		for j, x := range row {
			m.data[i*n+j] = x
			if abs(x) >= m.k {
				m.k = abs(x) + 1
			}
		}
	}

	return m
}

// Dim returns the dimension of the matrix.
func (m Matrix) Dim() int { return m.n }

// K returns the exclusive upper bound on label magnitude.
func (m Matrix) K() int { return m.k }

// IsEmpty reports whether m is the empty fingerprint.
func (m Matrix) IsEmpty() bool { return m.n == 0 }

// At returns the label at (i, j), zero-based.
func (m Matrix) At(i, j int) int { return m.data[i*m.n+j] }

// Set assigns the label at (i, j), zero-based.
func (m Matrix) Set(i, j, x int) { m.data[i*m.n+j] = x }

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	c := Matrix{n: m.n, k: m.k, data: make([]int, len(m.data))}
	copy(c.data, m.data)

	return c
}

// Restrict returns the submatrix selected by s (1-based) on both rows and
// columns: R[i][j] = m[s[i]][s[j]].
func (m Matrix) Restrict(s ratmat.IndexSet) Matrix {
	ix := s.Indices()
	r := NewMatrix(len(ix), m.k)
	for i, ri := range ix {
		for j, rj := range ix {
			r.data[i*r.n+j] = m.data[(ri-1)*m.n+(rj-1)]
		}
	}

	return r
}

// Abs returns the elementwise absolute value of m, used in arrangement mode
// where the sign of an inner product carries no information.
func (m Matrix) Abs() Matrix {
	a := NewMatrix(m.n, m.k)
	for i, x := range m.data {
		a.data[i] = abs(x)
	}

	return a
}

// Doubled returns the 2n×2n sign-doubling of m: row 2i carries row i and row
// 2i+1 its negation, so that automorphisms of the doubled matrix correspond
// to arrangement symmetries of the original.
func (m Matrix) Doubled() Matrix {
	d := NewMatrix(2*m.n, m.k)
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			x := m.data[i*m.n+j]
			d.data[(2*i)*d.n+(2*j)] = x
			d.data[(2*i+1)*d.n+(2*j+1)] = x
			d.data[(2*i)*d.n+(2*j+1)] = -x
			d.data[(2*i+1)*d.n+(2*j)] = -x
		}
	}

	return d
}

// Canon relabels m so all values fall in [0,k) and every value in that range
// occurs at least once, the contract the automorphism search requires.
// Relabelling is first-seen in row-major order.
func (m Matrix) Canon() Matrix {
	c := NewMatrix(m.n, 0)
	reps := make(map[int]int, m.k)
	for i, x := range m.data {
		rep, ok := reps[x]
		if !ok {
			rep = c.k
			c.k++
			reps[x] = rep
		}
		c.data[i] = rep
	}

	return c
}

// Sort sorts each row ascending, then lexicographically sorts the rows, and
// returns the receiver. Two restrictions of one source matrix to index sets
// related by a symmetry sort to equal matrices, which makes the sorted form
// a symmetry-insensitive fingerprint.
func (m Matrix) Sort() Matrix {
	rows := make([][]int, m.n)
	for i := 0; i < m.n; i++ {
		rows[i] = m.data[i*m.n : (i+1)*m.n]
		sort.Ints(rows[i])
	}
	sort.Slice(rows, func(a, b int) bool { return lexLess(rows[a], rows[b]) })
	sorted := make([]int, 0, len(m.data))
	for _, row := range rows {
		sorted = append(sorted, row...)
	}
	copy(m.data, sorted)

	return m
}

// Equal reports elementwise equality.
func (m Matrix) Equal(o Matrix) bool {
	if m.n != o.n {
		return false
	}
	for i := range m.data {
		if m.data[i] != o.data[i] {
			return false
		}
	}

	return true
}

// Key returns a deterministic string form of m usable as a map key.
func (m Matrix) Key() string {
	var b strings.Builder
	for i, x := range m.data {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(x))
	}

	return b.String()
}

// Hash returns a deterministic 64-bit hash of m.
func (m Matrix) Hash() uint64 {
	h := fnv.New64a()
	buf := make([]byte, 0, 8)
	for _, x := range m.data {
		buf = strconv.AppendInt(buf[:0], int64(x), 10)
		buf = append(buf, ';')
		_, _ = h.Write(buf)
	}

	return h.Sum64()
}

// String renders m row by row between pipes.
func (m Matrix) String() string {
	var b strings.Builder
	b.WriteString("| ")
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			b.WriteString(strconv.Itoa(m.data[i*m.n+j]))
			b.WriteByte(' ')
		}
		b.WriteString("| ")
	}

	return strings.TrimSuffix(b.String(), " ")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}

func lexLess(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}

	return false
}
