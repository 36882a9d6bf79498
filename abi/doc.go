// Package abi implements the ABI-stable dyn-trait connector of spec §4.4,
// §4.5, and §4.6 (components C4, C5, C6): a single dispatch entry point that
// carries a tagged command enum across an in-process boundary standing in
// for the shared-library boundary (this module has no dynamic-library
// loader, an explicit Non-goal — see DESIGN.md's Open Question decisions),
// the per-method layout-compatibility analyzer that decides which arguments
// may cross by reference, and the Connector/ConnectionTemplate pair that
// caches negotiated state for the lifetime of the process.
package abi
