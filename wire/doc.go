// Package wire implements the primitive and container value codec (spec §3,
// §4.1): fixed little-endian encoding for primitives, length-prefixed
// containers, the file-format version header, and the packed raw-copy fast
// path for contiguous sequences of layout-identical elements.
//
// Writer and Reader are the low-level building blocks that a schema-aware
// Serialize/Deserialize implementation (generated or hand-written) calls
// into; wire itself knows nothing about the Schema type (see package
// schema) or versioned fields (see package version).
package wire
