// Package gram builds and manipulates integer-labelled angle matrices:
// square matrices whose entry (i,j) names the equivalence class of the inner
// product between constraint rows i and j. Two entries share |label| exactly
// when their values have equal absolute value, and opposite signs exactly
// when the values are exact negatives; label 0 is reserved for the value 0.
//
// What:
//
//   - FromRat / FromRad: first-seen labelling of a rational or radical
//     inner-product matrix
//   - Restrict: submatrix selection by an index set
//   - Sort: row-sort plus lexicographic row ordering, the canonical form
//     under simultaneous row/column relabelling
//   - Abs, Doubled: arrangement-mode transforms
//   - Canon: relabelling into [0,k) with every value present, the form the
//     automorphism search consumes
//   - Build: metric strategies (raw, Euclidean, Q, augmented Q)
//
// Why:
//
//	Restricting the global matrix to an incidence set and sorting it yields a
//	fingerprint that is invariant under the symmetry group, so most orbit
//	candidates are rejected by a map lookup instead of a group-theoretic
//	image search.
//
// Complexity: Restrict is O(|S|²); Sort is O(n² log n); construction is
// O(n²) map operations over exact values.
package gram
