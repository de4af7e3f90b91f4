// Package funddomain maintains a fundamental domain: a growing intersection
// of halfspaces that keeps exactly one vertex from each symmetry orbit.
//
// Each constraint is the perpendicular bisector between a kept vertex a and
// a symmetric image b, computed in the Q-metric of the constraint rows and
// scaled to leading-unit form so that equal halfspaces are stored
// identically. Membership is a single rational
// inner product per stored halfspace, with boundary points admitted, so a
// domain check is far cheaper than a group image search.
//
// The domain only ever grows; the driver caps its size, beyond which orbit
// pruning falls back to symmetry search alone.
package funddomain
