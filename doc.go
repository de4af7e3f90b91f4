// Package symrev enumerates the orbits of vertices, extreme rays, and bases
// of a convex polyhedron — or the vertices of a hyperplane arrangement —
// under a prescribed symmetry group, by symmetric reverse search.
//
// 🚀 What is symrev?
//
//	An exact-arithmetic enumeration engine that walks the basis-edge graph
//	with simplex-style pivots and prunes every branch already covered by a
//	symmetry, so each orbit is reported exactly once:
//
//	  • Exact      — all geometry in big.Rat, no floating-point drift
//	  • Symmetric  — Gram fingerprints and group image search collapse orbits
//	  • Parallel   — an optional worker-pool variant with mirrored stores
//
// Everything is organized under focused packages:
//
//	ratmat/     — rational vectors, matrices, metrics, index sets
//	perm/       — permutation groups, Schreier–Sims, set-image search
//	gram/       — integer-labelled angle matrices and their canonical forms
//	pivot/      — the rational simplex dictionary kernel
//	symmetry/   — the orbit-equivalence oracle and automorphism search
//	funddomain/ — fundamental-domain halfspace bookkeeping
//	orbit/      — orbit stores and the cobasis LRU cache
//	search/     — the reverse-search driver, serial and parallel
//	parse/      — the line-oriented input format
//	cmd/symrev  — the command-line surface
//
//	go get github.com/polyray/symrev
package symrev
