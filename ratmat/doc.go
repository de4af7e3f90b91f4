// Package ratmat provides exact rational linear algebra over math/big.Rat,
// sized for polyhedral computation: dense vectors and matrices, Gauss–Jordan inversion,
// inner-product and Q-metric matrices, orthogonal augmentation to full column
// rank, and exact radical fractions for Euclidean normalisation.
//
// What:
//
//   - Vec, Mat: dense rational vectors and row-major matrices
//   - IndexSet: ordered 1-based index sets used for row selection and
//     incidence bookkeeping
//   - Inverse, Solve, NullSpace, LinIndepRows: exact elimination routines
//   - InnerProdMat, InvQMat, OrthoAugment, TransformedInnerProdMat,
//     NormedInnerProdMat: metric matrices for angle-pattern fingerprints
//   - Radical, RadMat: numbers of the form n·√r/d in normalised form
//
// Why:
//
//	Vertex enumeration cannot tolerate floating-point drift: two vertices are
//	the same exactly when their rational coordinates are equal, and a simplex
//	pivot must land exactly on a constraint. Everything here is exact.
//
// Errors:
//
//   - ErrDimensionMismatch  operand dimensions disagree
//   - ErrNotSquare          square-only operation on a rectangular matrix
//   - ErrSingular           zero pivot during inversion (carries row index)
//
// Complexity: elimination routines are O(n³) rational operations; rational
// arithmetic cost grows with coefficient size.
package ratmat
