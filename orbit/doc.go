// Package orbit provides the bookkeeping half of orbit enumeration: the
// thread-safe stores that record one representative per orbit of vertices,
// bases, and rays, and the bounded LRU cache of recently seen cobases.
//
// What:
//
//   - VertexData: coordinates, incidence set, realising cobases, determinant
//     and Gram fingerprint of one discovered vertex or ray
//   - Store: coordinate→vertex and cobasis→vertex maps plus Gram-fingerprint
//     multimaps, all guarded by a single RWMutex
//   - Cache: a bounded LRU set of cobasis keys whose eviction only costs
//     performance, never correctness
//
// Consistency: a successful AddVertex is observable to every subsequent
// LookupVertex on the same coordinates; concurrent adders that lose the race
// receive the winning representative back and treat their own candidate as
// a duplicate.
package orbit
