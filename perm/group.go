package perm

import (
	"math/big"
	"sort"

	"github.com/polyray/symrev/ratmat"
)

// Group is a permutation group on {1..n} with a base and strong generating
// set maintained by the Schreier–Sims algorithm. A Group is immutable once
// constructed and safe for concurrent readers.
type Group struct {
	degree int
	gens   []*Perm // the generators the group was constructed from
	levels []*chainLevel
}

// chainLevel is one link of the stabilizer chain: the generators fixing all
// earlier base points, the orbit of this level's base point under them, and
// a transversal element per orbit point.
type chainLevel struct {
	point       int // 0-indexed base point
	gens        []*Perm
	transversal map[int]*Perm // orbit point -> u with u(point) = orbit point
}

// NewGroup constructs the group generated by gens on {1..n}, running
// Schreier–Sims to build the stabilizer chain. Identity generators are
// dropped; nil gens yields the trivial group.
func NewGroup(degree int, gens []*Perm) *Group {
	g := &Group{degree: degree}
	for _, p := range gens {
		if p == nil || p.IsIdentity() {
			continue
		}
		g.gens = append(g.gens, p)
		g.extend(0, p)
	}

	return g
}

// Trivial returns the trivial group of the given degree.
func Trivial(degree int) *Group { return NewGroup(degree, nil) }

// SymmetricGroup returns S_n acting on {1..n}.
func SymmetricGroup(n int) *Group {
	if n < 2 {
		return Trivial(n)
	}
	swap := Identity(n)
	swap.img[0], swap.img[1] = 1, 0
	rot := Identity(n)
	for i := 0; i < n; i++ {
		rot.img[i] = (i + 1) % n
	}

	return NewGroup(n, []*Perm{swap, rot})
}

// extend sifts p into the chain at level i and, when p is new, installs it
// as a level generator, rebuilds the level orbit, and closes the chain over
// the fresh Schreier generators.
func (g *Group) extend(i int, p *Perm) {
	if p.IsIdentity() {
		return
	}
	if res := g.sift(i, p); res == nil || res.IsIdentity() {
		return
	}
	if i == len(g.levels) {
		// open a new level at the smallest point p moves
		b := 0
		for b < g.degree && p.img[b] == b {
			b++
		}
		lv := &chainLevel{point: b, transversal: map[int]*Perm{b: Identity(g.degree)}}
		g.levels = append(g.levels, lv)
	}
	lv := g.levels[i]
	lv.gens = append(lv.gens, p)
	lv.rebuildOrbit(g.degree)

	// close: every Schreier generator of this level must sift through the
	// rest of the chain
	points := lv.orbitPoints()
	for _, x := range points {
		ux := lv.transversal[x]
		for _, s := range lv.gens {
			sx := s.img[x]
			usx := lv.transversal[sx]
			schreier := usx.Inverse().Compose(s).Compose(ux)
			g.extend(i+1, schreier)
		}
	}
}

// sift reduces p through chain levels i.. and returns the residue. When p
// falls outside a level's orbit the residue reached so far is returned.
func (g *Group) sift(i int, p *Perm) *Perm {
	res := p
	for l := i; l < len(g.levels); l++ {
		lv := g.levels[l]
		x := res.img[lv.point]
		u, ok := lv.transversal[x]
		if !ok {
			return res
		}
		res = u.Inverse().Compose(res)
	}

	return res
}

// rebuildOrbit recomputes the level's orbit and transversal from scratch
// with the current generator list.
func (lv *chainLevel) rebuildOrbit(degree int) {
	lv.transversal = map[int]*Perm{lv.point: Identity(degree)}
	queue := []int{lv.point}
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		ux := lv.transversal[x]
		for _, s := range lv.gens {
			y := s.img[x]
			if _, ok := lv.transversal[y]; !ok {
				lv.transversal[y] = s.Compose(ux)
				queue = append(queue, y)
			}
		}
	}
}

// orbitPoints returns the level orbit in ascending order, for deterministic
// iteration.
func (lv *chainLevel) orbitPoints() []int {
	points := make([]int, 0, len(lv.transversal))
	for x := range lv.transversal {
		points = append(points, x)
	}
	sort.Ints(points)

	return points
}

// Degree returns the number of points the group acts on.
func (g *Group) Degree() int { return g.degree }

// Generators returns the generators the group was constructed from.
func (g *Group) Generators() []*Perm {
	out := make([]*Perm, len(g.gens))
	copy(out, g.gens)

	return out
}

// StrongGenerators returns the strong generating set accumulated over the
// stabilizer chain, deduplicated, in chain order.
func (g *Group) StrongGenerators() []*Perm {
	var out []*Perm
	seen := make(map[string]struct{})
	for _, lv := range g.levels {
		for _, s := range lv.gens {
			if _, ok := seen[s.Key()]; ok {
				continue
			}
			seen[s.Key()] = struct{}{}
			out = append(out, s)
		}
	}

	return out
}

// Order returns |G| as the product of the chain's orbit lengths.
func (g *Group) Order() *big.Int {
	ord := big.NewInt(1)
	for _, lv := range g.levels {
		ord.Mul(ord, big.NewInt(int64(len(lv.transversal))))
	}

	return ord
}

// IsTrivial reports whether the group contains only the identity.
func (g *Group) IsTrivial() bool { return len(g.levels) == 0 }

// Sifts reports whether p is a member of g.
func (g *Group) Sifts(p *Perm) bool {
	if p.Degree() != g.degree {
		return false
	}
	res := g.sift(0, p)

	return res != nil && res.IsIdentity()
}

// OrbitOf returns the orbit of the 1-indexed point x under g, ascending.
func (g *Group) OrbitOf(x int) ratmat.IndexSet {
	orbit := map[int]struct{}{x - 1: {}}
	queue := []int{x - 1}
	for len(queue) > 0 {
		y := queue[0]
		queue = queue[1:]
		for _, s := range g.gens {
			z := s.img[y]
			if _, ok := orbit[z]; !ok {
				orbit[z] = struct{}{}
				queue = append(queue, z)
			}
		}
	}
	out := make([]int, 0, len(orbit))
	for y := range orbit {
		out = append(out, y+1)
	}

	return ratmat.NewIndexSet(out...)
}
