package perm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/polyray/symrev/ratmat"
)

var (
	// ErrNotBijective indicates an image table that is not a permutation.
	ErrNotBijective = errors.New("perm: image table is not a bijection")

	// ErrDegreeMismatch indicates permutations of different degrees were
	// combined.
	ErrDegreeMismatch = errors.New("perm: degree mismatch")

	// ErrCycleOutOfRange indicates a cycle element outside {1..n}.
	ErrCycleOutOfRange = errors.New("perm: cycle element out of range")
)

// Perm is a permutation of {0..n−1} stored as an image table. The exported
// API speaks 1-indexed points, matching the input grammar; the table is kept
// 0-indexed internally.
type Perm struct {
	img []int
}

// Identity returns the identity permutation of degree n.
func Identity(n int) *Perm {
	img := make([]int, n)
	for i := range img {
		img[i] = i
	}

	return &Perm{img: img}
}

// NewPerm builds a permutation from a 0-indexed image table, validating that
// it is a bijection.
func NewPerm(img []int) (*Perm, error) {
	seen := make([]bool, len(img))
	for _, x := range img {
		if x < 0 || x >= len(img) || seen[x] {
			return nil, ErrNotBijective
		}
		seen[x] = true
	}
	cp := make([]int, len(img))
	copy(cp, img)

	return &Perm{img: cp}, nil
}

// FromCycles builds a degree-n permutation from 1-indexed cycles.
func FromCycles(n int, cycles [][]int) (*Perm, error) {
	p := Identity(n)
	for _, c := range cycles {
		if len(c) == 0 {
			continue
		}
		for _, x := range c {
			if x < 1 || x > n {
				return nil, fmt.Errorf("perm: cycle element %d of degree %d: %w",
					x, n, ErrCycleOutOfRange)
			}
		}
		for i := 0; i < len(c)-1; i++ {
			p.img[c[i]-1] = c[i+1] - 1
		}
		p.img[c[len(c)-1]-1] = c[0] - 1
	}
	if _, err := NewPerm(p.img); err != nil {
		return nil, fmt.Errorf("perm: overlapping cycles: %w", err)
	}

	return p, nil
}

// Degree returns the number of points the permutation acts on.
func (p *Perm) Degree() int { return len(p.img) }

// Image returns the 1-indexed image of the 1-indexed point x.
func (p *Perm) Image(x int) int { return p.img[x-1] + 1 }

// ApplySet returns the image of a 1-based index set under p.
func (p *Perm) ApplySet(s ratmat.IndexSet) ratmat.IndexSet {
	out := make([]int, 0, s.Count())
	for _, x := range s.Indices() {
		out = append(out, p.Image(x))
	}

	return ratmat.NewIndexSet(out...)
}

// Compose returns p∘q, the permutation applying q first, then p.
func (p *Perm) Compose(q *Perm) *Perm {
	img := make([]int, len(p.img))
	for i := range img {
		img[i] = p.img[q.img[i]]
	}

	return &Perm{img: img}
}

// Inverse returns p⁻¹.
func (p *Perm) Inverse() *Perm {
	img := make([]int, len(p.img))
	for i, x := range p.img {
		img[x] = i
	}

	return &Perm{img: img}
}

// IsIdentity reports whether p fixes every point.
func (p *Perm) IsIdentity() bool {
	for i, x := range p.img {
		if i != x {
			return false
		}
	}

	return true
}

// Equal reports whether p and q are the same permutation.
func (p *Perm) Equal(q *Perm) bool {
	if len(p.img) != len(q.img) {
		return false
	}
	for i := range p.img {
		if p.img[i] != q.img[i] {
			return false
		}
	}

	return true
}

// Key returns a deterministic map-key form of p.
func (p *Perm) Key() string {
	var b strings.Builder
	for i, x := range p.img {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(x))
	}

	return b.String()
}

// Cycles returns the non-trivial cycles of p, 1-indexed, each cycle led by
// its minimum element and the cycles ordered by that element.
func (p *Perm) Cycles() [][]int {
	var cycles [][]int
	worked := make([]bool, len(p.img))
	for x := 0; x < len(p.img); x++ {
		if worked[x] || p.img[x] == x {
			continue
		}
		c := []int{x + 1}
		worked[x] = true
		for y := p.img[x]; y != x; y = p.img[y] {
			worked[y] = true
			c = append(c, y+1)
		}
		cycles = append(cycles, c)
	}

	return cycles
}

// String renders p as comma-delimited cycles of whitespace-delimited
// 1-indexed elements, the same form the input grammar uses. The identity
// renders as "()".
func (p *Perm) String() string {
	cycles := p.Cycles()
	if len(cycles) == 0 {
		return "()"
	}
	parts := make([]string, len(cycles))
	for i, c := range cycles {
		elems := make([]string, len(c))
		for j, x := range c {
			elems[j] = strconv.Itoa(x)
		}
		parts[i] = strings.Join(elems, " ")
	}

	return strings.Join(parts, " , ")
}
