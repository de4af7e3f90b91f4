package ratmat

import (
	"hash/fnv"
	"math/big"
	"strings"
)

// NewVec returns a zero vector of length n.
func NewVec(n int) Vec {
	v := make(Vec, n)
	for i := range v {
		v[i] = ratZero()
	}

	return v
}

// VecFromInts builds a vector from integer entries. Convenience for tests
// and input construction.
func VecFromInts(xs ...int64) Vec {
	v := make(Vec, len(xs))
	for i, x := range xs {
		v[i] = new(big.Rat).SetInt64(x)
	}

	return v
}

// Clone returns a deep copy of v.
func (v Vec) Clone() Vec {
	c := make(Vec, len(v))
	for i, x := range v {
		c[i] = ratCopy(x)
	}

	return c
}

// Equal reports elementwise equality of v and w.
func (v Vec) Equal(w Vec) bool {
	if len(v) != len(w) {
		return false
	}
	for i := range v {
		if v[i].Cmp(w[i]) != 0 {
			return false
		}
	}

	return true
}

// Add returns v + w.
func (v Vec) Add(w Vec) (Vec, error) {
	if len(v) != len(w) {
		return nil, ErrDimensionMismatch
	}
	r := make(Vec, len(v))
	for i := range v {
		r[i] = new(big.Rat).Add(v[i], w[i])
	}

	return r, nil
}

// Sub returns v − w.
func (v Vec) Sub(w Vec) (Vec, error) {
	if len(v) != len(w) {
		return nil, ErrDimensionMismatch
	}
	r := make(Vec, len(v))
	for i := range v {
		r[i] = new(big.Rat).Sub(v[i], w[i])
	}

	return r, nil
}

// Scale returns s·v.
func (v Vec) Scale(s *big.Rat) Vec {
	r := make(Vec, len(v))
	for i := range v {
		r[i] = new(big.Rat).Mul(v[i], s)
	}

	return r
}

// Neg returns −v.
func (v Vec) Neg() Vec {
	return v.Scale(new(big.Rat).SetInt64(-1))
}

// InnerProd returns the inner product ⟨v,w⟩.
func (v Vec) InnerProd(w Vec) (*big.Rat, error) {
	if len(v) != len(w) {
		return nil, ErrDimensionMismatch
	}
	sum := ratZero()
	t := new(big.Rat)
	for i := range v {
		sum.Add(sum, t.Mul(v[i], w[i]))
	}

	return sum, nil
}

// IsZero reports whether every entry of v is zero.
func (v Vec) IsZero() bool {
	for _, x := range v {
		if x.Sign() != 0 {
			return false
		}
	}

	return true
}

// LeadingUnit scales v by the absolute value of its first non-zero entry,
// so that two vectors equal up to positive scaling share one representation.
// The zero vector is returned unchanged.
func (v Vec) LeadingUnit() Vec {
	for _, x := range v {
		if x.Sign() != 0 {
			scale := new(big.Rat).Abs(x)

			return v.Scale(scale.Inv(scale))
		}
	}

	return v.Clone()
}

// Rationalize normalises a homogeneous solution vector: if the leading entry
// is non-zero, the vector is scaled so it becomes exactly 1 (a vertex);
// otherwise it is scaled to leading-unit form (a ray direction).
func (v Vec) Rationalize() Vec {
	if len(v) == 0 {
		return Vec{}
	}
	if v[0].Sign() != 0 {
		scale := new(big.Rat).Inv(v[0])

		return v.Scale(scale)
	}

	return v.LeadingUnit()
}

// IsRay reports whether a rationalized vector represents an unbounded
// direction (leading entry zero).
func (v Vec) IsRay() bool {
	return len(v) > 0 && v[0].Sign() == 0
}

// Key returns a deterministic string form of v usable as a map key.
// Equal vectors always share a key.
func (v Vec) Key() string {
	var b strings.Builder
	for i, x := range v {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(x.RatString())
	}

	return b.String()
}

// Hash returns a deterministic 64-bit hash of v.
func (v Vec) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(v.Key()))

	return h.Sum64()
}

// String renders v in bracketed form, e.g. [1 1/2 0].
func (v Vec) String() string {
	return "[" + v.Key() + "]"
}
