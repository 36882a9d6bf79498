// Package schema implements spec §3's Schema sum type and §4.2's
// compatibility check (component C2): diffing a caller's expected schema
// against a callee's actual one, and the per-(trait,version) historical
// schema file store used by verify_backward_compatible.
package schema
