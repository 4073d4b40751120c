// Package lre implements an ECMAScript-compatible regular-expression engine.
//
// The engine is split into two tightly coupled halves, matching the design
// of the reference implementation it is adapted from (QuickJS's libregexp):
//
//   - A compiler ([Compile]) that parses ECMAScript regex syntax and emits a
//     compact bytecode [Program].
//   - A matcher ([Exec]) that executes that bytecode against an input
//     buffer using single-threaded backtracking, tracking capture groups,
//     lookaround, back-references, and greedy/lazy quantifiers via an
//     explicit state stack.
//
// Unicode property tables, script/category lookup, and canonicalisation are
// provided through the [UnicodeTables] and [Canonicalizer] interfaces rather
// than hardcoded; see package internal/ucd for the default implementation
// built on Go's standard unicode tables.
package lre
