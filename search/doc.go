// Package search implements the symmetric reverse-search driver: a
// depth-first exploration of the basis-edge graph of a polyhedron or
// hyperplane arrangement that records exactly one representative per orbit
// of bases, vertices, and extreme rays under a prescribed symmetry group.
//
// What:
//
//   - Driver: owns the pivot dictionary, the orbit stores, the cobasis
//     cache, the fundamental domain, and the work and backtracking stacks
//   - Run: first basis → depth-first main loop → report; honours a basis
//     cap and cooperative cancellation
//   - Options: pivoting mode, cache size, dual facet trick, Gram
//     fingerprinting, stabilizer search, fundamental-domain cap, progress
//     intervals, tracing, worker count
//   - Result: dimension, initial cobasis, orbit sets, the minimised
//     generator set actually used, and timing, tagged with a run ID
//
// Classification pipeline per candidate pivot: cobasis cache → fundamental
// domain membership → invariant match (incidence count, sorted Gram
// restriction) → group image search. Only the last step touches the group
// backend, and most candidates never reach it.
//
// Ordering: within one worker, pivots pop LIFO, leaving indices ascend, and
// ratio-test outputs ascend, so single-threaded runs are reproducible. The
// parallel variant guarantees the same orbit sets, not the same sequence.
package search
