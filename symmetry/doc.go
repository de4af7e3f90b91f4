// Package symmetry answers orbit-equivalence queries for the enumeration
// engine, wrapping the group backend behind a narrow oracle interface.
//
// What:
//
//   - Oracle: FindImage / FindImageInStabilizer over a fixed group, plus
//     MinimalGenerators for compact reporting
//   - FromGramMatrix: the automorphism group of an angle matrix, in polytope
//     mode (direct restricted-automorphism search) or arrangement mode
//     (automorphisms of the sign-doubled matrix, lifted back by dropping
//     generators whose cycles mix sign classes)
//   - ShrinkToDegree: restriction of a group to the prefix {1..m}
//   - VerifyArrangementLift: diagnostic order cross-check for the
//     arrangement lift
//
// Why:
//
//	The driver only ever needs "is there a group element mapping this
//	incidence set onto that one?"; keeping the group machinery behind this
//	surface lets the backend be swapped without touching the search.
//
// Whether the arrangement lift is semantically complete is an open question;
// VerifyArrangementLift compares the lifted group's order against
// |Aut(doubled)| / 2^n so users can check their instance.
package symmetry
