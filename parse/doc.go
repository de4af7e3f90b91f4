// Package parse reads and pretty-prints the line-oriented problem format:
// an optional name, a representation keyword, an optional linearity line, a
// rational matrix block, and optional symmetry and gram sections. Comment
// lines starting with '*' or '#' are preserved verbatim by the printer.
//
// Parse errors carry the offending line number. Parsing the printed form of
// a parsed problem reproduces the same structure, which the preprocess-only
// mode of the CLI relies on.
package parse
