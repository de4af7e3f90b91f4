package ratmat

import (
	"fmt"
	"math/big"
)

// Radical is an exact number of the form N·√R / D. In normalised form R is
// positive with no square factors, N/D is in lowest terms with D > 0, and
// zero is always represented as 0·√1/1.
type Radical struct {
	N, R, D *big.Int
}

// RadZero returns the canonical zero radical.
func RadZero() Radical {
	return Radical{N: big.NewInt(0), R: big.NewInt(1), D: big.NewInt(1)}
}

// NewRadical returns the normalised radical n·√r/d.
func NewRadical(n, r, d *big.Int) Radical {
	if n.Sign() == 0 {
		return RadZero()
	}
	sq, free := splitSquare(new(big.Int).Abs(r))
	num := new(big.Int).Mul(n, sq)
	den := new(big.Int).Set(d)
	if den.Sign() < 0 {
		num.Neg(num)
		den.Neg(den)
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(num), den)
	num.Quo(num, g)
	den.Quo(den, g)

	return Radical{N: num, R: free, D: den}
}

// Equal reports structural equality of normalised radicals.
func (x Radical) Equal(y Radical) bool {
	return x.N.Cmp(y.N) == 0 && x.R.Cmp(y.R) == 0 && x.D.Cmp(y.D) == 0
}

// Sign returns the sign of x.
func (x Radical) Sign() int { return x.N.Sign() }

// Abs returns |x|.
func (x Radical) Abs() Radical {
	return Radical{N: new(big.Int).Abs(x.N), R: x.R, D: x.D}
}

// Key returns a deterministic map-key form of x.
func (x Radical) Key() string {
	return x.N.String() + "r" + x.R.String() + "/" + x.D.String()
}

// String renders x compactly: the radical part is omitted when R = 1 and the
// denominator when D = 1.
func (x Radical) String() string {
	s := x.N.String()
	if x.R.Cmp(big.NewInt(1)) != 0 {
		s += "r" + x.R.String()
	}
	if x.D.Cmp(big.NewInt(1)) != 0 {
		s += "/" + x.D.String()
	}

	return s
}

// splitSquare factors v as sq²·free with free square-free, by trial division
// over small primes followed by a perfect-square check on the residual.
func splitSquare(v *big.Int) (sq, free *big.Int) {
	sq = big.NewInt(1)
	free = big.NewInt(1)
	if v.Sign() == 0 {
		return sq, big.NewInt(0)
	}
	rem := new(big.Int).Set(v)
	mod := new(big.Int)
	for p := int64(2); p <= 997; p++ {
		pp := big.NewInt(p)
		count := 0
		for {
			q, m := new(big.Int).QuoRem(rem, pp, mod)
			if m.Sign() != 0 {
				break
			}
			rem.Set(q)
			count++
		}
		for ; count >= 2; count -= 2 {
			sq.Mul(sq, pp)
		}
		if count == 1 {
			free.Mul(free, pp)
		}
	}
	// The residual has no small factors; if it is a perfect square its root
	// moves out of the radical wholesale.
	root := new(big.Int).Sqrt(rem)
	if new(big.Int).Mul(root, root).Cmp(rem) == 0 {
		sq.Mul(sq, root)
	} else {
		free.Mul(free, rem)
	}

	return sq, free
}

// RadMat is a dense square matrix of radicals, used for exact Euclidean
// normalised inner products.
type RadMat struct {
	n    int
	data []Radical
}

// NewRadMat returns a zeroed n×n radical matrix.
func NewRadMat(n int) RadMat {
	data := make([]Radical, n*n)
	for i := range data {
		data[i] = RadZero()
	}

	return RadMat{n: n, data: data}
}

// Dim returns the dimension of the matrix.
func (m RadMat) Dim() int { return m.n }

// At returns the element at (i, j).
func (m RadMat) At(i, j int) Radical { return m.data[i*m.n+j] }

// Set assigns the element at (i, j).
func (m RadMat) Set(i, j int, x Radical) { m.data[i*m.n+j] = x }

// NormedInnerProdMat returns P with P[i][j] = ⟨rᵢ,rⱼ⟩ / √(‖rᵢ‖²·‖rⱼ‖²) as
// exact normalised radicals.
func NormedInnerProdMat(m Mat) (RadMat, error) {
	n := m.Rows()
	rows := make([]Vec, n)
	norms := make([]*big.Rat, n)
	for i := 0; i < n; i++ {
		rows[i] = m.Row(i)
		nr, err := rows[i].InnerProd(rows[i])
		if err != nil {
			return RadMat{}, err
		}
		if nr.Sign() == 0 {
			return RadMat{}, fmt.Errorf("ratmat: zero-norm row %d: %w", i+1, ErrSingular)
		}
		norms[i] = nr
	}

	p := NewRadMat(n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			ip, err := rows[i].InnerProd(rows[j])
			if err != nil {
				return RadMat{}, err
			}
			x := normRadical(ip, norms[i], norms[j])
			p.Set(i, j, x)
			p.Set(j, i, x)
		}
	}

	return p, nil
}

// normRadical computes ip / √(ni·nj) as a normalised radical, where ni and
// nj are positive rationals.
func normRadical(ip, ni, nj *big.Rat) Radical {
	if ip.Sign() == 0 {
		return RadZero()
	}
	// For s = p/q: ip / √s = ip · √(p·q) / p.
	s := new(big.Rat).Mul(ni, nj)
	pq := new(big.Int).Mul(s.Num(), s.Denom())

	return NewRadical(ip.Num(), pq, new(big.Int).Mul(ip.Denom(), s.Num()))
}
