// Package perm implements permutation groups on {1..n} with strong
// generating sets, sized for the symmetry queries of orbit enumeration.
//
// What:
//
//   - Perm: a permutation stored as a 0-indexed image table, with cycle
//     decomposition and 1-indexed cycle printing matching the input grammar
//   - Group: a permutation group built by the Schreier–Sims algorithm,
//     exposing Order, membership (Sifts), orbits, and the strong generating
//     set
//   - SetImage: backtrack search over the stabilizer chain for an element
//     mapping one index set onto another
//   - SetStabilizer: the setwise stabilizer subgroup of an index set
//
// Why:
//
//	Orbit enumeration reduces every "have we seen this up to symmetry?"
//	question to a set-image query, so the chain search is the performance
//	floor of the whole engine once the cheap fingerprints disagree.
//
// The chain search prunes on orbit-count compatibility: an element of the
// stabilizer of a base prefix can only map a point within its orbit, so a
// level is cut as soon as the orbit partition distributes the source and
// target sets differently.
//
// Complexity: Schreier–Sims construction is polynomial in degree and
// generator count; SetImage is worst-case exponential but sharply pruned in
// practice.
package perm
