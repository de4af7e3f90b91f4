package funddomain

import (
	"fmt"
	"math/big"

	"github.com/polyray/symrev/perm"
	"github.com/polyray/symrev/ratmat"
)

// Domain is a list of halfspace constraints in homogenised space, together
// with the Q-metric matrix used to compute bisector normals. The zero
// Domain has no constraints and contains every point.
type Domain struct {
	metric      ratmat.Mat
	constraints []ratmat.Vec
}

// New returns an empty domain over the given Q-metric matrix.
func New(metric ratmat.Mat) *Domain {
	return &Domain{metric: metric}
}

// Constraint computes the halfspace normal separating a (kept, on the
// non-negative side) from b (excluded): leading_unit((a−b)·Q). Symmetric
// images share their Q-norm, so the resulting hyperplane passes exactly
// through the midpoint of a and b.
func (d *Domain) Constraint(a, b ratmat.Vec) (ratmat.Vec, error) {
	diff, err := a.Sub(b)
	if err != nil {
		return nil, fmt.Errorf("funddomain: bisector: %w", err)
	}
	c, err := d.metric.VecMul(diff)
	if err != nil {
		return nil, fmt.Errorf("funddomain: bisector: %w", err)
	}

	return c.LeadingUnit(), nil
}

// Add appends the bisector halfspace between a (kept) and b (excluded).
func (d *Domain) Add(a, b ratmat.Vec) error {
	c, err := d.Constraint(a, b)
	if err != nil {
		return err
	}
	d.Push(c)

	return nil
}

// Push appends a pre-computed constraint.
func (d *Domain) Push(c ratmat.Vec) {
	d.constraints = append(d.constraints, c)
}

// Contains reports whether x satisfies every stored halfspace, boundary
// included.
func (d *Domain) Contains(x ratmat.Vec) bool {
	t := new(big.Rat)
	for _, c := range d.constraints {
		sum := new(big.Rat)
		n := len(c)
		if len(x) < n {
			n = len(x)
		}
		for j := 0; j < n; j++ {
			sum.Add(sum, t.Mul(c[j], x[j]))
		}
		if sum.Sign() < 0 {
			return false
		}
	}

	return true
}

// BuildFromSeed emits one bisector per distinct image of the seed vertex s
// under the given generators. sBasis selects the tight rows defining s in A;
// the image of s under a generator is recovered through the basis-change
// transform of the permuted rows, so no pivoting is needed.
func (d *Domain) BuildFromSeed(s ratmat.Vec, sBasis ratmat.IndexSet, a ratmat.Mat, gens []*perm.Perm) error {
	// The homogenising plane x₀ = 1 completes both bases; image rows must
	// stay positionally aligned with their seed rows.
	plane := ratmat.NewVec(a.Cols())
	plane[0] = new(big.Rat).SetInt64(1)

	seedRows := stackRows(a, sBasis.Indices(), plane)

	seen := make(map[string]struct{})
	for _, g := range gens {
		imgIx := make([]int, 0, sBasis.Count())
		for _, i := range sBasis.Indices() {
			imgIx = append(imgIx, g.Image(i))
		}
		// g·s meets the image rows as s meets the seed rows
		imgInv, err := stackRows(a, imgIx, plane).Inverse()
		if err != nil {
			return fmt.Errorf("funddomain: image basis not invertible: %w", err)
		}
		t, err := imgInv.Mul(seedRows)
		if err != nil {
			return fmt.Errorf("funddomain: seed transform: %w", err)
		}
		v, err := t.MulVec(s)
		if err != nil {
			return fmt.Errorf("funddomain: seed image: %w", err)
		}
		if v.Equal(s) {
			continue
		}
		if _, ok := seen[v.Key()]; ok {
			continue
		}
		seen[v.Key()] = struct{}{}
		if err := d.Add(s, v); err != nil {
			return err
		}
	}

	return nil
}

// stackRows selects the given 1-based rows of a in order and appends the
// extra row.
func stackRows(a ratmat.Mat, ix []int, extra ratmat.Vec) ratmat.Mat {
	out := ratmat.NewMat(len(ix)+1, a.Cols())
	for i, ri := range ix {
		out.SetRow(i, a.Row(ri-1))
	}
	out.SetRow(len(ix), extra)

	return out
}

// Size returns the number of stored halfspaces.
func (d *Domain) Size() int { return len(d.constraints) }

// Dim returns the dimension of the underlying Q-matrix.
func (d *Domain) Dim() int { return d.metric.Rows() }

// Constraints returns the stored halfspace normals. The slice is shared;
// callers must not mutate it.
func (d *Domain) Constraints() []ratmat.Vec { return d.constraints }
