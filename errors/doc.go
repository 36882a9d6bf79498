// Package errors provides the structured error taxonomy used across the
// codec (wire), schema, version evolution and ABI connector packages.
//
// Errors are categorized by Phase (where in the pipeline) and Kind (what
// went wrong), per spec §7. The Error type carries a slash-separated field
// path, both sides' type descriptions for schema mismatches, and a cause
// chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindSchemaMismatch).
//		Path("Account", "balance").
//		CallerDesc("u32").
//		CalleeDesc("u64").
//		Detail("primitive width differs").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.SchemaMismatch(path, "u32", "u64", "primitive width differs")
//	err := errors.MalformedData(errors.PhaseDecode, path, "invalid UTF-8")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
