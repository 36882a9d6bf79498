// Package version implements the versioned-field machinery of spec §4.3
// (component C3): per-field version intervals, defaults, version-as
// migrations, the Ignore flag, Removed<T> placeholders, and the
// minimum-safe-version computation that gates wire's packed raw-copy fast
// path.
package version
