package perm

import (
	"github.com/polyray/symrev/ratmat"
)

// SetImage searches g for an element mapping the index set x onto the index
// set y (both 1-based). It returns nil when the sizes differ or no such
// element exists; equal empty sets yield the identity.
//
// The search walks the stabilizer chain depth first. At each level the
// candidate transversal elements are tried in ascending orbit order, and a
// branch is cut unless the remaining stabilizer distributes the source and
// target sets identically across its orbits.
func SetImage(g *Group, x, y ratmat.IndexSet) *Perm {
	if x.Count() != y.Count() {
		return nil
	}
	if x.Count() == 0 {
		return Identity(g.degree)
	}
	for _, sets := range [2]ratmat.IndexSet{x, y} {
		for _, p := range sets.Indices() {
			if p > g.degree {
				return nil
			}
		}
	}

	src := pointSet(x)
	s := &imageSearch{g: g}
	found := s.descend(0, src, pointSet(y), nil)
	if found == nil {
		return nil
	}
	// compose the chosen transversal elements, outermost first
	res := Identity(g.degree)
	for _, t := range found {
		res = res.Compose(t)
	}
	if !res.ApplySet(x).Equal(y) {
		return nil
	}

	return res
}

// SetStabilizer returns the setwise stabilizer of s in g, as a new group.
// The search enumerates the stabilizing chain elements and regroups them;
// this is complete but costs a traversal per stabilizer element, which is
// why set-stabilizer searches are opt-in at the driver level.
func SetStabilizer(g *Group, s ratmat.IndexSet) *Group {
	if s.Count() == 0 || g.IsTrivial() {
		return g
	}
	src := pointSet(s)
	search := &imageSearch{g: g, collectAll: true}
	search.descend(0, src, src, nil)

	gens := make([]*Perm, 0, len(search.collected))
	for _, ts := range search.collected {
		res := Identity(g.degree)
		for _, t := range ts {
			res = res.Compose(t)
		}
		gens = append(gens, res)
	}

	return NewGroup(g.degree, gens)
}

// imageSearch carries the state of one chain descent.
type imageSearch struct {
	g          *Group
	collectAll bool
	collected  [][]*Perm
}

// descend looks for h in the stabilizer of base points before level l with
// h(src) = target, where target is expressed in the frame of the already
// chosen prefix. It returns the chosen transversal elements outermost first,
// or nil.
func (s *imageSearch) descend(l int, src, target map[int]struct{}, prefix []*Perm) []*Perm {
	if !orbitCompatible(s.g.levels[l:], s.g.degree, src, target) {
		return nil
	}
	if l == len(s.g.levels) {
		if !sameSet(src, target) {
			return nil
		}
		if s.collectAll {
			cp := make([]*Perm, len(prefix))
			copy(cp, prefix)
			s.collected = append(s.collected, cp)

			return nil // keep enumerating siblings
		}

		// a copy keeps the result non-nil when the chain has no levels
		return append(make([]*Perm, 0, len(prefix)), prefix...)
	}

	lv := s.g.levels[l]
	for _, pt := range lv.orbitPoints() {
		t := lv.transversal[pt]
		tInv := t.Inverse()
		next := make(map[int]struct{}, len(target))
		for p := range target {
			next[tInv.img[p]] = struct{}{}
		}
		if res := s.descend(l+1, src, next, append(prefix, t)); res != nil {
			return res
		}
	}

	return nil
}

// orbitCompatible checks that the subgroup generated by the remaining chain
// levels spreads src and target equally over each of its orbits. Violations
// prove no completion can map src onto target.
func orbitCompatible(levels []*chainLevel, degree int, src, target map[int]struct{}) bool {
	if len(src) != len(target) {
		return false
	}
	// union-find over the remaining generators' moves
	parent := make([]int, degree)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(a int) int {
		for parent[a] != a {
			parent[a] = parent[parent[a]]
			a = parent[a]
		}

		return a
	}
	for _, lv := range levels {
		for _, s := range lv.gens {
			for i, x := range s.img {
				if i != x {
					ri, rx := find(i), find(x)
					if ri != rx {
						parent[ri] = rx
					}
				}
			}
		}
	}
	counts := make(map[int]int)
	for p := range src {
		counts[find(p)]++
	}
	for p := range target {
		counts[find(p)]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}

	return true
}

func pointSet(s ratmat.IndexSet) map[int]struct{} {
	out := make(map[int]struct{}, s.Count())
	for _, x := range s.Indices() {
		out[x-1] = struct{}{}
	}

	return out
}

func sameSet(a, b map[int]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for p := range a {
		if _, ok := b[p]; !ok {
			return false
		}
	}

	return true
}
