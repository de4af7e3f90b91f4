package search

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/polyray/symrev/funddomain"
	"github.com/polyray/symrev/gram"
	"github.com/polyray/symrev/orbit"
	"github.com/polyray/symrev/perm"
	"github.com/polyray/symrev/pivot"
	"github.com/polyray/symrev/ratmat"
	"github.com/polyray/symrev/symmetry"
)

// Driver is the stateful reverse-search engine. Construct with New, run
// once with Run.
type Driver struct {
	a      ratmat.Mat
	lin    ratmat.IndexSet
	oracle *symmetry.Oracle
	gmat   gram.Matrix
	opts   Options

	dict *pivot.Dict
	rows int
	dim  int

	vertexStore *orbit.Store
	rayStore    *orbit.Store
	cache       *orbit.Cache
	fundDomain  *funddomain.Domain

	workStack []pivotItem
	pathStack []pivotPair

	initialCobasis   ratmat.IndexSet
	totalBasisDegree int
	hitMaxBasis      bool

	runID uuid.UUID
	log   zerolog.Logger
	start time.Time
}

// New sets up a reverse search over the n×d system a with linearity rows
// lin, the symmetry oracle, and the global Gram matrix (which may be empty
// when Gram fingerprinting is off).
func New(a ratmat.Mat, lin ratmat.IndexSet, oracle *symmetry.Oracle, gmat gram.Matrix, opts ...Option) (*Driver, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if oracle == nil {
		oracle = symmetry.NewOracle(nil)
	}
	// fingerprints need a Gram matrix to restrict
	if gmat.IsEmpty() {
		o.GramVec = false
	}

	var dictOpts []pivot.Option
	switch o.Mode {
	case PolytopeV:
		dictOpts = append(dictOpts, pivot.WithVRepresentation())
	case ArrangementMode:
		dictOpts = append(dictOpts, pivot.WithArrangement())
	}
	dict, err := pivot.NewDict(a, lin, dictOpts...)
	if err != nil {
		return nil, fmt.Errorf("search: dictionary setup: %w", err)
	}

	d := &Driver{
		a:           a,
		lin:         lin,
		oracle:      oracle,
		gmat:        gmat,
		opts:        o,
		dict:        dict,
		rows:        a.Rows(),
		dim:         a.Cols() - 1,
		vertexStore: orbit.NewStore(o.GramVec),
		rayStore:    orbit.NewStore(false),
		cache:       orbit.NewCache(o.CacheSize),
		runID:       uuid.New(),
	}
	d.log = o.Logger.With().Str("run", d.runID.String()).Logger()

	// arrangements ignore inner-product signs
	if o.Mode == ArrangementMode && !gmat.IsEmpty() {
		d.gmat = gmat.Abs()
	}

	if o.FundDomainLimit > 0 {
		d.fundDomain = funddomain.New(ratmat.QMat(ratmat.OrthoAugment(a, o.Mode != ArrangementMode)))
	} else {
		d.fundDomain = &funddomain.Domain{}
	}

	return d, nil
}

// Run performs the enumeration and returns the report. A zero basis limit
// returns immediately with an unfinished, empty result.
func (d *Driver) Run() (*Result, error) {
	d.start = time.Now()

	if d.opts.BasisLimit <= 0 {
		d.hitMaxBasis = true

		return d.result(), nil
	}

	if d.opts.Workers > 1 {
		return d.runParallel()
	}

	root, err := d.firstBasis()
	if err != nil {
		return nil, err
	}

	if err := d.dfsFromRoot(root); err != nil {
		return nil, err
	}

	return d.result(), nil
}

// firstBasis obtains the initial dictionary position, registers its vertex
// and rays, and returns the root cobasis.
func (d *Driver) firstBasis() (ratmat.IndexSet, error) {
	if err := d.dict.FirstBasis(); err != nil {
		return ratmat.IndexSet{}, fmt.Errorf("%w: %v", ErrKernel, err)
	}
	if !d.opts.FirstCobasis.IsEmpty() {
		if err := d.dict.SetCobasis(d.opts.FirstCobasis); err != nil {
			return ratmat.IndexSet{}, fmt.Errorf("%w: %v", ErrBadFirstCobasis, err)
		}
	}

	cob := d.dict.Cobasis()
	dat := d.vertexData(cob, d.dict.Vertex())
	d.initialCobasis = cob.Cob

	if d.opts.Trace {
		d.log.Debug().Stringer("cobasis", cob.Cob).Stringer("vertex", dat.Coords).
			Msg("initial basis")
	}

	d.addVertex(dat)
	d.getRays()
	d.cache.Insert(d.initialCobasis.Key())
	d.seedFundDomain(dat)

	return d.initialCobasis, nil
}

// seedFundDomain pre-carves the fundamental domain with the bisectors
// between the initial vertex and its images under the minimal generators,
// so symmetric subtrees are cut before the first image search. Seeding is
// skipped when the generator count alone would blow the halfspace cap.
func (d *Driver) seedFundDomain(dat *orbit.VertexData) {
	if d.opts.FundDomainLimit <= 0 || d.opts.AssumeNoSymmetry || d.oracle.Group().IsTrivial() {
		return
	}
	gens := d.oracle.MinimalGenerators()
	if len(gens) > d.opts.FundDomainLimit {
		return
	}
	if err := d.fundDomain.BuildFromSeed(dat.Coords, d.initialCobasis, d.a, gens); err != nil {
		d.log.Warn().Err(err).Msg("fundamental domain seeding skipped")
	}
}

// dfsFromRoot explores the edge graph depth first from the root cobasis,
// backtracking the dictionary along the path stack between work items.
func (d *Driver) dfsFromRoot(root ratmat.IndexSet) error {
	d.pushNewEdges(root)

	for len(d.workStack) > 0 && d.vertexStore.BasisCount() < d.opts.BasisLimit {
		// cooperative cancellation at work-item boundaries
		select {
		case <-d.opts.Ctx.Done():
			return d.opts.Ctx.Err()
		default:
		}

		p := d.workStack[len(d.workStack)-1]
		d.workStack = d.workStack[:len(d.workStack)-1]

		// backtrack to the pivot's prerequisite cobasis
		for !d.dict.CurrentCobasis().Equal(p.cob) && len(d.pathStack) > 0 {
			bt := d.pathStack[len(d.pathStack)-1]
			d.pathStack = d.pathStack[:len(d.pathStack)-1]
			if err := d.dict.Pivot(bt.enter, bt.leave); err != nil {
				return fmt.Errorf("%w: backtrack (%d,%d): %v", ErrKernel, bt.enter, bt.leave, err)
			}
		}

		if err := d.dict.Pivot(p.leave, p.enter); err != nil {
			return fmt.Errorf("%w: pivot (%d,%d): %v", ErrKernel, p.leave, p.enter, err)
		}
		if d.opts.Trace {
			d.log.Debug().Stringer("cobasis", p.cob).
				Int("leave", p.leave).Int("enter", p.enter).Msg("traversing")
		}

		d.getRays()
		d.pushNewEdges(d.dict.CurrentCobasis())
		d.pathStack = append(d.pathStack, pivotPair{leave: p.leave, enter: p.enter})
	}

	d.hitMaxBasis = d.vertexStore.BasisCount() >= d.opts.BasisLimit

	return nil
}

// pushNewEdges enumerates the edges out of the current cobasis, classifies
// each neighbour, and queues the pivots leading somewhere new.
func (d *Driver) pushNewEdges(oldCob ratmat.IndexSet) {
	for _, leave := range oldCob.Indices() {
		entering := d.entering(leave)
		if d.opts.Trace {
			d.log.Debug().Int("leave", leave).Stringer("entering", entering).
				Msg("edge candidates")
		}
		d.totalBasisDegree += entering.Count()

		for _, enter := range entering.Indices() {
			if err := d.dict.Pivot(leave, enter); err != nil {
				continue
			}
			cob := d.dict.Cobasis()
			sol := d.dict.Vertex()
			if err := d.dict.Pivot(enter, leave); err != nil {
				// the inverse of an applied pivot always applies
				panic(fmt.Sprintf("search: inverse pivot (%d,%d): %v", enter, leave, err))
			}

			// the common fast path: recently seen cobasis
			if d.cache.Insert(cob.Cob.Key()) {
				if d.opts.Trace {
					d.log.Debug().Stringer("cobasis", cob.Cob).Msg("seen before")
				}
				continue
			}

			newData := d.vertexData(cob, sol)

			if !d.fundDomain.Contains(newData.Coords) {
				if d.opts.Trace {
					d.log.Debug().Stringer("cobasis", cob.Cob).
						Msg("outside fundamental domain")
				}
				continue
			}

			oldVertex := d.knownVertex(newData)
			switch {
			case oldVertex == nil:
				// a genuinely new vertex orbit
				d.addVertex(newData)
				d.workStack = append(d.workStack, pivotItem{cob: oldCob, leave: leave, enter: enter})
				if d.opts.Trace {
					d.log.Debug().Stringer("cobasis", cob.Cob).
						Stringer("vertex", newData.Coords).Msg("pushing new vertex")
				}

			case oldVertex.Coords.Equal(newData.Coords) || !d.opts.DualFacetTrick:
				// a fresh cobasis of a known vertex, unless symmetric to an
				// attached one
				if d.isNewCobasis(cob.Cob, newData) {
					d.addCobasis(cob.Cob, oldVertex)
					d.workStack = append(d.workStack, pivotItem{cob: oldCob, leave: leave, enter: enter})
					if d.opts.Trace {
						d.log.Debug().Stringer("cobasis", cob.Cob).Msg("pushing new cobasis")
					}
				} else if d.opts.Trace {
					d.log.Debug().Stringer("cobasis", cob.Cob).Msg("ignoring by symmetry")
				}

			default:
				// strict symmetric image: remember the separation while the
				// domain has room, and prune the subtree
				if d.fundDomain.Size() < d.opts.FundDomainLimit {
					if err := d.fundDomain.Add(oldVertex.Coords, newData.Coords); err == nil && d.opts.Trace {
						d.log.Debug().Stringer("kept", oldVertex.Coords).
							Stringer("cut", newData.Coords).Msg("fundamental domain constraint")
					}
				}
				if d.opts.Trace {
					d.log.Debug().Stringer("cobasis", cob.Cob).Msg("ignoring by dual facet trick")
				}
			}
		}
	}
}

// entering returns the entering candidates for a leaving index under the
// configured rule.
func (d *Driver) entering(leave int) ratmat.IndexSet {
	if d.opts.LexOnly {
		e := d.dict.LexRatio(leave)
		if e < 0 {
			return ratmat.IndexSet{}
		}

		return ratmat.NewIndexSet(e)
	}

	return d.dict.Entering(leave)
}

// getRays extracts the unbounded directions visible from the current
// dictionary and registers the new ray orbits.
func (d *Driver) getRays() {
	for j := 1; j <= d.dict.RealDim(); j++ {
		sol := d.dict.SolutionAt(j)
		if sol == nil {
			continue
		}
		cob := d.dict.CobasisAt(j)
		dat := d.rayData(cob, sol)
		if d.knownRay(dat) != nil {
			continue
		}
		d.rayStore.AddVertex(dat)
		n := d.rayStore.VertexCount()
		if d.opts.PrintRay > 0 && n%d.opts.PrintRay == 0 {
			ev := d.log.Info().Int("rays", n).Dur("elapsed", time.Since(d.start))
			if d.opts.PrintNew {
				ev = ev.Stringer("ray", dat.Coords)
			}
			ev.Msg("progress")
		}
	}
}

// vertexData assembles the orbit record of the current vertex: incidence
// set, rationalized coordinates, determinant, and Gram fingerprint.
func (d *Driver) vertexData(cob pivot.Cobasis, sol ratmat.Vec) *orbit.VertexData {
	inc := cob.Cob.Union(cob.ExtraInc)
	g := gram.Matrix{}
	if d.opts.GramVec {
		g = d.fastGramVec(inc)
	}

	return orbit.NewVertexData(sol.Rationalize(), inc, cob.Cob, cob.Det, g)
}

// rayData assembles the orbit record of a ray: the incidence set drops the
// ray index, and Gram fingerprints are not kept for rays.
func (d *Driver) rayData(cob pivot.Cobasis, sol ratmat.Vec) *orbit.VertexData {
	inc := cob.Cob.Union(cob.ExtraInc).Without(cob.Ray)

	return orbit.NewVertexData(sol, inc, cob.Cob, cob.Det, gram.Matrix{})
}

// fastGramVec returns the canonical fingerprint of an incidence set: the
// global Gram matrix restricted to it, sorted.
func (d *Driver) fastGramVec(inc ratmat.IndexSet) gram.Matrix {
	return d.gmat.Restrict(inc).Sort()
}

// knownVertex returns the stored orbit representative this vertex belongs
// to, or nil when the orbit is new.
func (d *Driver) knownVertex(rep *orbit.VertexData) *orbit.VertexData {
	if v, ok := d.vertexStore.LookupVertex(rep.Coords); ok {
		return v
	}
	if d.opts.AssumeNoSymmetry {
		return nil
	}

	for _, cand := range d.vertexStore.CandidateVerticesBy(rep.Gram.Key()) {
		if cand.IncCount() != rep.IncCount() {
			continue
		}
		if d.findImage(rep.Inc, cand.Inc) != nil {
			return cand
		}
	}

	return nil
}

// knownRay returns the stored ray representative this ray belongs to, or
// nil when the orbit is new.
func (d *Driver) knownRay(rep *orbit.VertexData) *orbit.VertexData {
	for _, cand := range d.rayStore.CandidateVerticesBy("") {
		if d.opts.AssumeNoSymmetry {
			if cand.Inc.Equal(rep.Inc) {
				return cand
			}
			continue
		}
		if cand.IncCount() != rep.IncCount() {
			continue
		}
		if d.findImage(rep.Inc, cand.Inc) != nil {
			return cand
		}
	}

	return nil
}

// isNewCobasis reports whether cob opens a new basis orbit on its vertex.
func (d *Driver) isNewCobasis(cob ratmat.IndexSet, dat *orbit.VertexData) bool {
	matches := make([]ratmat.IndexSet, 0, 4)
	for _, cand := range d.vertexStore.CandidateBasesBy(d.cobasisGramKey(cob), dat.IncCount()) {
		if cand.Data.Gram.Equal(dat.Gram) {
			matches = append(matches, cand.Cob)
		}
	}
	if len(matches) == 0 {
		return true
	}

	return !d.findSymmetry(cob, matches)
}

// cobasisGramKey fingerprints the cobasis row set itself.
func (d *Driver) cobasisGramKey(cob ratmat.IndexSet) string {
	if !d.opts.GramVec {
		return ""
	}

	return d.fastGramVec(cob).Key()
}

// findSymmetry looks for a group element carrying find onto any cobasis of
// the list. With stabilizer search enabled, failed plain searches are
// retried inside setwise stabilizers of grown ground sets.
func (d *Driver) findSymmetry(find ratmat.IndexSet, list []ratmat.IndexSet) bool {
	for _, old := range list {
		if find.Equal(old) {
			return true
		}
		if d.opts.AssumeNoSymmetry {
			continue
		}
		if d.findImage(find, old) != nil {
			return true
		}
	}
	if d.opts.AssumeNoSymmetry || !d.opts.StabSearch {
		return false
	}

	// widen over ground supersets, deterministically from the smallest
	all := ratmat.FullIndexSet(d.rows)
	for groundSize := find.Count() + 1; groundSize <= d.rows; groundSize++ {
		for _, old := range list {
			ground := find.Union(old)
			for _, i := range all.Minus(ground).Indices() {
				if ground.Count() >= groundSize {
					break
				}
				ground = ground.With(i)
			}
			if d.oracle.FindImageInStabilizer(ground, find, old) != nil {
				return true
			}
		}
	}

	return false
}

// findImage delegates to the oracle.
func (d *Driver) findImage(x, y ratmat.IndexSet) *perm.Perm {
	return d.oracle.FindImage(x, y)
}

// addVertex registers a new vertex orbit with all its cobases.
func (d *Driver) addVertex(dat *orbit.VertexData) {
	stored, isNew := d.vertexStore.AddVertex(dat)
	if !isNew {
		return
	}
	for _, cob := range dat.Cobs {
		d.addCobasis(cob, stored)
	}

	n := d.vertexStore.VertexCount()
	if d.opts.PrintVertex > 0 && n%d.opts.PrintVertex == 0 {
		ev := d.log.Info().Int("vertices", n).Dur("elapsed", time.Since(d.start))
		if d.opts.PrintNew {
			ev = ev.Stringer("vertex", dat.Coords)
		}
		ev.Msg("progress")
	}
}

// addCobasis registers one cobasis under its fingerprint.
func (d *Driver) addCobasis(cob ratmat.IndexSet, dat *orbit.VertexData) {
	if !d.vertexStore.AddBasis(cob, d.cobasisGramKey(cob), dat) {
		return
	}

	n := d.vertexStore.BasisCount()
	if d.opts.PrintBasis > 0 && n%d.opts.PrintBasis == 0 {
		ev := d.log.Info().Int("cobases", n).Dur("elapsed", time.Since(d.start))
		if d.opts.PrintNew {
			ev = ev.Stringer("cobasis", cob)
		}
		ev.Msg("progress")
	}
}

// result assembles the final report.
func (d *Driver) result() *Result {
	res := &Result{
		RunID:             d.runID,
		Dimension:         d.dim,
		InitialCobasis:    d.initialCobasis,
		BasisOrbits:       d.vertexStore.Bases(),
		VertexOrbits:      d.vertexStore.Vertices(),
		RayOrbits:         d.rayStore.Vertices(),
		TotalBasisDegree:  d.totalBasisDegree,
		FundamentalDomain: d.fundDomain,
		Finished:          !d.hitMaxBasis,
		Duration:          time.Since(d.start),
	}
	if !d.opts.AssumeNoSymmetry && !d.oracle.Group().IsTrivial() {
		res.GeneratorsUsed = d.oracle.MinimalGenerators()
	}

	return res
}
