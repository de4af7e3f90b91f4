package search

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/polyray/symrev/orbit"
	"github.com/polyray/symrev/pivot"
	"github.com/polyray/symrev/ratmat"
)

// workUnit is one queued subtree root: the pivot path leading to it from
// the initial cobasis. The empty path is the root itself.
type workUnit struct {
	path []pivotItem
}

// workPool is the shared work stack with idle-worker termination: popping
// blocks until work arrives, every worker goes idle with an empty stack, or
// the stop flag rises.
type workPool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	stack  []workUnit
	active int
	stop   bool
	err    error
}

func newWorkPool() *workPool {
	p := &workPool{}
	p.cond = sync.NewCond(&p.mu)

	return p
}

// push queues a unit and wakes one waiter.
func (p *workPool) push(u workUnit) {
	p.mu.Lock()
	p.stack = append(p.stack, u)
	p.mu.Unlock()
	p.cond.Signal()
}

// pop blocks for the next unit, LIFO. It returns false when the pool has
// drained or stopped; a popped unit holds a worker active until done.
func (p *workPool) pop() (workUnit, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		if p.stop {
			return workUnit{}, false
		}
		if n := len(p.stack); n > 0 {
			u := p.stack[n-1]
			p.stack = p.stack[:n-1]
			p.active++

			return u, true
		}
		if p.active == 0 {
			p.cond.Broadcast()

			return workUnit{}, false
		}
		p.cond.Wait()
	}
}

// done releases a popped unit and wakes waiters when the pool may have
// drained.
func (p *workPool) done() {
	p.mu.Lock()
	p.active--
	drained := p.active == 0 && len(p.stack) == 0
	p.mu.Unlock()
	if drained {
		p.cond.Broadcast()
	}
}

// halt raises the stop flag, recording the first error.
func (p *workPool) halt(err error) {
	p.mu.Lock()
	if err != nil && p.err == nil {
		p.err = err
	}
	p.stop = true
	p.mu.Unlock()
	p.cond.Broadcast()
}

// explorer is one worker's private state: its own dictionary, cobasis
// cache, and mirrors of the global orbit stores with update cursors.
type explorer struct {
	d    *Driver
	dict *pivot.Dict

	cache   *orbit.Cache
	curPath []pivotItem

	verts     map[string]*orbit.VertexData
	gramVerts map[string][]*orbit.VertexData
	vCursor   int

	cobs      map[string]struct{}
	gramBases map[string][]orbit.BasisCandidate
	bCursor   int

	rays    []*orbit.VertexData
	rCursor int
}

// runParallel drives the worker pool variant. The set of orbit
// representatives matches the single-threaded run; the discovery order does
// not.
func (d *Driver) runParallel() (*Result, error) {
	root, err := d.firstBasis()
	if err != nil {
		return nil, err
	}

	pool := newWorkPool()
	pool.push(workUnit{})
	var degree atomic.Int64
	degree.Store(int64(d.totalBasisDegree))

	var wg sync.WaitGroup
	for w := 0; w < d.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ex, err := d.newExplorer(root)
			if err != nil {
				pool.halt(err)

				return
			}
			for {
				select {
				case <-d.opts.Ctx.Done():
					pool.halt(d.opts.Ctx.Err())

					return
				default:
				}
				if d.vertexStore.BasisCount() >= d.opts.BasisLimit {
					pool.halt(nil)

					return
				}
				unit, ok := pool.pop()
				if !ok {
					return
				}
				if err := ex.process(unit, pool, &degree); err != nil {
					pool.halt(err)
					pool.done()

					return
				}
				pool.done()
			}
		}()
	}
	wg.Wait()

	d.totalBasisDegree = int(degree.Load())
	d.hitMaxBasis = d.vertexStore.BasisCount() >= d.opts.BasisLimit

	if pool.err != nil {
		return nil, pool.err
	}

	return d.result(), nil
}

// newExplorer builds one worker's private state, aligned on the root
// cobasis. Dictionaries are stateful and non-shareable, so every worker
// repeats the first-basis computation on its own copy.
func (d *Driver) newExplorer(root ratmat.IndexSet) (*explorer, error) {
	var dictOpts []pivot.Option
	switch d.opts.Mode {
	case PolytopeV:
		dictOpts = append(dictOpts, pivot.WithVRepresentation())
	case ArrangementMode:
		dictOpts = append(dictOpts, pivot.WithArrangement())
	}
	dict, err := pivot.NewDict(d.a, d.lin, dictOpts...)
	if err != nil {
		return nil, fmt.Errorf("search: worker dictionary: %w", err)
	}
	if err := dict.FirstBasis(); err != nil {
		return nil, fmt.Errorf("%w: worker first basis: %v", ErrKernel, err)
	}
	if err := dict.SetCobasis(root); err != nil {
		return nil, fmt.Errorf("%w: worker root alignment: %v", ErrKernel, err)
	}

	return &explorer{
		d:         d,
		dict:      dict,
		cache:     orbit.NewCache(d.opts.CacheSize),
		verts:     make(map[string]*orbit.VertexData),
		gramVerts: make(map[string][]*orbit.VertexData),
		cobs:      make(map[string]struct{}),
		gramBases: make(map[string][]orbit.BasisCandidate),
	}, nil
}

// process replays the unit's pivot path from the root and expands the
// reached node.
func (ex *explorer) process(unit workUnit, pool *workPool, degree *atomic.Int64) error {
	// rewind to the root, then replay the unit's path
	for i := len(ex.curPath) - 1; i >= 0; i-- {
		p := ex.curPath[i]
		if err := ex.dict.Pivot(p.enter, p.leave); err != nil {
			return fmt.Errorf("%w: worker rewind: %v", ErrKernel, err)
		}
	}
	for _, p := range unit.path {
		if err := ex.dict.Pivot(p.leave, p.enter); err != nil {
			return fmt.Errorf("%w: worker replay: %v", ErrKernel, err)
		}
	}
	ex.curPath = unit.path

	if len(unit.path) > 0 {
		ex.getRays()
	}
	ex.pushNewEdges(unit, pool, degree)

	return nil
}

// pushNewEdges is the parallel counterpart of the serial expansion: the
// same classification pipeline, with orbit insertion going through the
// double-check mirror protocol and new subtrees going to the shared pool.
func (ex *explorer) pushNewEdges(unit workUnit, pool *workPool, degree *atomic.Int64) {
	d := ex.d
	oldCob := ex.dict.CurrentCobasis()

	for _, leave := range oldCob.Indices() {
		entering := ex.entering(leave)
		degree.Add(int64(entering.Count()))

		for _, enter := range entering.Indices() {
			if err := ex.dict.Pivot(leave, enter); err != nil {
				continue
			}
			cob := ex.dict.Cobasis()
			sol := ex.dict.Vertex()
			if err := ex.dict.Pivot(enter, leave); err != nil {
				panic(fmt.Sprintf("search: worker inverse pivot (%d,%d): %v", enter, leave, err))
			}

			if ex.cache.Insert(cob.Cob.Key()) {
				continue
			}
			newData := d.vertexData(cob, sol)
			if !d.fundDomain.Contains(newData.Coords) {
				continue
			}

			winner, isNew := ex.knownOrAddVertex(newData)
			next := append(append([]pivotItem{}, unit.path...),
				pivotItem{cob: oldCob, leave: leave, enter: enter})
			switch {
			case isNew:
				// the vertex won the race; its first cobasis goes in with it
				ex.knownOrAddCobasis(cob.Cob, newData, winner)
				pool.push(workUnit{path: next})

			case newData.Coords.Equal(winner.Coords) || !d.opts.DualFacetTrick:
				if ex.knownOrAddCobasis(cob.Cob, newData, winner) {
					pool.push(workUnit{path: next})
				}

			default:
				// strict symmetric image; the fundamental domain is shaped
				// only by the serial variant, so just prune
			}
		}
	}
}

// entering mirrors Driver.entering on the worker's dictionary.
func (ex *explorer) entering(leave int) ratmat.IndexSet {
	if ex.d.opts.LexOnly {
		e := ex.dict.LexRatio(leave)
		if e < 0 {
			return ratmat.IndexSet{}
		}

		return ratmat.NewIndexSet(e)
	}

	return ex.dict.Entering(leave)
}

// getRays extracts rays at the worker's current dictionary.
func (ex *explorer) getRays() {
	d := ex.d
	for j := 1; j <= ex.dict.RealDim(); j++ {
		sol := ex.dict.SolutionAt(j)
		if sol == nil {
			continue
		}
		dat := d.rayData(ex.dict.CobasisAt(j), sol)
		ex.knownOrAddRay(dat)
	}
}

// knownOrAddVertex implements the double-check insertion protocol for
// vertices: local mirror test, append-or-copy-tail under the store's
// region, merge, retest, retry.
func (ex *explorer) knownOrAddVertex(rep *orbit.VertexData) (*orbit.VertexData, bool) {
	if v := ex.localKnownVertex(ex.verts, ex.gramVerts, rep); v != nil {
		return v, false
	}

	for {
		appended, tail, _ := ex.d.vertexStore.AppendVertexIfCurrent(rep, ex.vCursor)
		if appended {
			ex.mergeVertices([]*orbit.VertexData{rep})

			return rep, true
		}
		if len(tail) == 0 {
			// cursor was current yet the coords already existed globally
			v, _ := ex.d.vertexStore.LookupVertex(rep.Coords)

			return v, false
		}

		freshCoords := make(map[string]*orbit.VertexData, len(tail))
		freshGram := make(map[string][]*orbit.VertexData, len(tail))
		for _, v := range tail {
			freshCoords[v.Coords.Key()] = v
			gk := v.Gram.Key()
			freshGram[gk] = append(freshGram[gk], v)
		}
		ex.mergeVertices(tail)
		if v := ex.localKnownVertex(freshCoords, freshGram, rep); v != nil {
			return v, false
		}
	}
}

// mergeVertices folds new global entries into the local mirror.
func (ex *explorer) mergeVertices(tail []*orbit.VertexData) {
	for _, v := range tail {
		ex.verts[v.Coords.Key()] = v
		gk := v.Gram.Key()
		ex.gramVerts[gk] = append(ex.gramVerts[gk], v)
	}
	ex.vCursor += len(tail)
}

// localKnownVertex runs the serial knownVertex pipeline over one mirror
// view.
func (ex *explorer) localKnownVertex(coords map[string]*orbit.VertexData,
	gramVerts map[string][]*orbit.VertexData, rep *orbit.VertexData) *orbit.VertexData {

	d := ex.d
	if v, ok := coords[rep.Coords.Key()]; ok {
		return v
	}
	if d.opts.AssumeNoSymmetry {
		return nil
	}
	var cands []*orbit.VertexData
	if d.opts.GramVec {
		cands = gramVerts[rep.Gram.Key()]
	} else {
		for _, v := range coords {
			cands = append(cands, v)
		}
	}
	for _, cand := range cands {
		if cand.IncCount() != rep.IncCount() {
			continue
		}
		if d.findImage(rep.Inc, cand.Inc) != nil {
			return cand
		}
	}

	return nil
}

// knownOrAddCobasis is the cobasis arm of the protocol. dat carries the
// candidate's invariants; winner is the global record the cobasis attaches
// to. It reports whether the cobasis opened a new basis orbit.
func (ex *explorer) knownOrAddCobasis(cob ratmat.IndexSet, dat, winner *orbit.VertexData) bool {
	gramKey := ex.d.cobasisGramKey(cob)
	if ex.localKnownCobasis(ex.cobs, ex.gramBases, cob, dat, gramKey) {
		return false
	}

	for {
		appended, tail, _ := ex.d.vertexStore.AppendBasisIfCurrent(cob, gramKey, winner, ex.bCursor)
		if appended {
			ex.mergeBases([]orbit.BasisCandidate{{Cob: cob, Data: winner}}, gramKey)

			return true
		}
		if len(tail) == 0 {
			return false
		}

		freshCobs := make(map[string]struct{}, len(tail))
		freshGram := make(map[string][]orbit.BasisCandidate, len(tail))
		for _, e := range tail {
			freshCobs[e.Cob.Key()] = struct{}{}
			gk := ex.d.cobasisGramKey(e.Cob)
			freshGram[gk] = append(freshGram[gk], e)
		}
		ex.mergeBasesTail(tail)
		if ex.localKnownCobasis(freshCobs, freshGram, cob, dat, gramKey) {
			return false
		}
	}
}

// mergeBases folds one appended entry into the mirror under its known key.
func (ex *explorer) mergeBases(entries []orbit.BasisCandidate, gramKey string) {
	for _, e := range entries {
		ex.cobs[e.Cob.Key()] = struct{}{}
		ex.gramBases[gramKey] = append(ex.gramBases[gramKey], e)
	}
	ex.bCursor += len(entries)
}

// mergeBasesTail folds copied global tail entries into the mirror,
// recomputing their fingerprints.
func (ex *explorer) mergeBasesTail(tail []orbit.BasisCandidate) {
	for _, e := range tail {
		ex.cobs[e.Cob.Key()] = struct{}{}
		gk := ex.d.cobasisGramKey(e.Cob)
		ex.gramBases[gk] = append(ex.gramBases[gk], e)
	}
	ex.bCursor += len(tail)
}

// localKnownCobasis runs the serial isNewCobasis pipeline, inverted, over
// one mirror view.
func (ex *explorer) localKnownCobasis(cobs map[string]struct{},
	gramBases map[string][]orbit.BasisCandidate, cob ratmat.IndexSet,
	dat *orbit.VertexData, gramKey string) bool {

	d := ex.d
	if _, ok := cobs[cob.Key()]; ok {
		return true
	}
	var matches []ratmat.IndexSet
	if d.opts.GramVec {
		for _, e := range gramBases[gramKey] {
			if e.Data.IncCount() == dat.IncCount() && e.Data.Gram.Equal(dat.Gram) {
				matches = append(matches, e.Cob)
			}
		}
	} else {
		for _, e := range gramBases[""] {
			if e.Data.IncCount() == dat.IncCount() {
				matches = append(matches, e.Cob)
			}
		}
	}
	if len(matches) == 0 {
		return false
	}

	return d.findSymmetry(cob, matches)
}

// knownOrAddRay is the ray arm of the protocol.
func (ex *explorer) knownOrAddRay(rep *orbit.VertexData) {
	if ex.localKnownRay(ex.rays, rep) {
		return
	}
	for {
		appended, tail, _ := ex.d.rayStore.AppendVertexIfCurrent(rep, ex.rCursor)
		if appended {
			ex.rays = append(ex.rays, rep)
			ex.rCursor++

			return
		}
		if len(tail) == 0 {
			return
		}
		ex.rays = append(ex.rays, tail...)
		ex.rCursor += len(tail)
		if ex.localKnownRay(tail, rep) {
			return
		}
	}
}

// localKnownRay runs the serial knownRay pipeline over a slice view.
func (ex *explorer) localKnownRay(view []*orbit.VertexData, rep *orbit.VertexData) bool {
	d := ex.d
	for _, cand := range view {
		if d.opts.AssumeNoSymmetry {
			if cand.Inc.Equal(rep.Inc) {
				return true
			}
			continue
		}
		if cand.IncCount() != rep.IncCount() {
			continue
		}
		if d.findImage(rep.Inc, cand.Inc) != nil {
			return true
		}
	}

	return false
}
