// Package layout computes native (Go in-memory) size/alignment/field-offset
// information for values, via reflection. It is grounded on the teacher's
// transcoder/internal/layout Calculator, which does the analogous job for
// WIT types against Go's memory model.
//
// Two spec components consume it:
//   - wire's packed raw-copy fast path (spec §4.1): a contiguous []T may be
//     copied as raw bytes only when T's native layout is packed and
//     bit-identical to its wire layout.
//   - the ABI layout-compatibility analyzer (spec §4.5 / package abi, analyzer.go):
//     an argument may cross the boundary as a raw pointer only when both
//     sides' native layouts are identical field-for-field.
package layout
