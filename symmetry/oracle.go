package symmetry

import (
	"math/big"

	"github.com/polyray/symrev/perm"
	"github.com/polyray/symrev/ratmat"
)

// Oracle answers orbit-equivalence queries against a fixed symmetry group.
// It is read-only after construction and safe for concurrent use.
type Oracle struct {
	group *perm.Group
}

// NewOracle wraps a group. A nil group is treated as trivial of degree 0.
func NewOracle(g *perm.Group) *Oracle {
	if g == nil {
		g = perm.Trivial(0)
	}

	return &Oracle{group: g}
}

// Group returns the wrapped group.
func (o *Oracle) Group() *perm.Group { return o.group }

// FindImage returns a group element mapping incidence set x onto incidence
// set y, or nil. Differing sizes always yield nil; empty sets yield the
// identity.
func (o *Oracle) FindImage(x, y ratmat.IndexSet) *perm.Perm {
	return perm.SetImage(o.group, x, y)
}

// FindImageInStabilizer restricts the image search to the setwise stabilizer
// of ground. This explores deeper symmetry at the cost of a stabilizer
// construction per call.
func (o *Oracle) FindImageInStabilizer(ground, x, y ratmat.IndexSet) *perm.Perm {
	stab := perm.SetStabilizer(o.group, ground)

	return perm.SetImage(stab, x, y)
}

// MinimalGenerators returns a small generating subset of the strong
// generating set: first every generator whose removal lowers the group
// order, then non-essential generators added in order until the
// reconstructed order matches.
func (o *Oracle) MinimalGenerators() []*perm.Perm {
	g := o.group
	sgs := g.StrongGenerators()
	if len(sgs) == 0 {
		return nil
	}
	ord := g.Order()

	// 1. Split the strong generating set into essential and optional
	var essential, optional []*perm.Perm
	for i, p := range sgs {
		rest := make([]*perm.Perm, 0, len(sgs)-1)
		rest = append(rest, sgs[:i]...)
		rest = append(rest, sgs[i+1:]...)
		if perm.NewGroup(g.Degree(), rest).Order().Cmp(ord) < 0 {
			essential = append(essential, p)
		} else {
			optional = append(optional, p)
		}
	}

	// 2. Grow from the essentials until full order is reached
	gens := essential
	gn := perm.NewGroup(g.Degree(), gens)
	for _, p := range optional {
		if gn.Order().Cmp(ord) == 0 {
			break
		}
		if !gn.Sifts(p) {
			gens = append(gens, p)
			gn = perm.NewGroup(g.Degree(), gens)
		}
	}

	return gens
}

// OrderOf is a convenience accessor for the wrapped group's order.
func (o *Oracle) OrderOf() *big.Int { return o.group.Order() }
