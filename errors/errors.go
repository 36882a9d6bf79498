package errors

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Phase indicates where in the save/load or ABI-dispatch pipeline an error occurred.
type Phase string

const (
	PhaseEncode    Phase = "encode"    // writing a value to the wire
	PhaseDecode    Phase = "decode"    // reading a value from the wire
	PhaseSchema    Phase = "schema"    // schema computation or comparison
	PhaseVersion   Phase = "version"   // versioned-field resolution
	PhaseNegotiate Phase = "negotiate" // ABI version/method negotiation
	PhaseDispatch  Phase = "dispatch"  // ABI method call dispatch
	PhaseLifecycle Phase = "lifecycle" // instance create/drop
)

// Kind categorizes the error, following spec §7's taxonomy.
type Kind string

const (
	KindIO                   Kind = "io"
	KindMalformedData        Kind = "malformed_data"
	KindSchemaMismatch       Kind = "schema_mismatch"
	KindVersionTooNew        Kind = "version_too_new"
	KindMethodMissing        Kind = "method_missing"
	KindArgNotLayoutCompat   Kind = "arg_not_layout_compatible"
	KindCalleePanic          Kind = "callee_panic"
	KindAllocationFailure    Kind = "allocation_failure"
	KindArityExceeded        Kind = "arity_exceeded"
	KindRecursionDepthDiffer Kind = "recursion_depth_differs"
)

// Error is the structured error type used throughout this module.
type Error struct {
	Cause      error
	Phase      Phase
	Kind       Kind
	CallerDesc string
	CalleeDesc string
	Detail     string
	Path       []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "/"))
	}

	if e.CallerDesc != "" || e.CalleeDesc != "" {
		b.WriteString(": ")
		if e.CallerDesc != "" && e.CalleeDesc != "" {
			b.WriteString("caller has ")
			b.WriteString(e.CallerDesc)
			b.WriteString(", callee has ")
			b.WriteString(e.CalleeDesc)
		} else if e.CallerDesc != "" {
			b.WriteString("caller has ")
			b.WriteString(e.CallerDesc)
		} else {
			b.WriteString("callee has ")
			b.WriteString(e.CalleeDesc)
		}
	}

	if e.Detail != "" {
		if e.CallerDesc != "" || e.CalleeDesc != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by Phase and Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind}}
}

func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

func (b *Builder) CallerDesc(s string) *Builder {
	b.err.CallerDesc = s
	return b
}

func (b *Builder) CalleeDesc(s string) *Builder {
	b.err.CalleeDesc = s
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors.

// IO wraps an underlying reader/writer failure with a stack trace attached
// at the point it first crosses into this module.
func IO(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: detail,
		Cause:  pkgerrors.WithStack(cause),
	}
}

// MalformedData creates an error for invalid UTF-8, unknown discriminants,
// canary mismatches, impossible lengths, or negative-interpreted overflows.
func MalformedData(phase Phase, path []string, detail string) *Error {
	return &Error{Phase: phase, Kind: KindMalformedData, Path: path, Detail: detail}
}

// SchemaMismatch creates the structured schema-diff diagnostic from spec §4.2.
func SchemaMismatch(path []string, callerDesc, calleeDesc, detail string) *Error {
	return &Error{
		Phase:      PhaseSchema,
		Kind:       KindSchemaMismatch,
		Path:       path,
		CallerDesc: callerDesc,
		CalleeDesc: calleeDesc,
		Detail:     detail,
	}
}

// RecursionDepthDiffers creates the "recursion depth differs" diagnostic
// called out explicitly in spec §4.2.
func RecursionDepthDiffers(path []string, callerDepth, calleeDepth int) *Error {
	return &Error{
		Phase:      PhaseSchema,
		Kind:       KindRecursionDepthDiffer,
		Path:       path,
		CallerDesc: fmt.Sprintf("recursion depth %d", callerDepth),
		CalleeDesc: fmt.Sprintf("recursion depth %d", calleeDepth),
		Detail:     "recursion depth differs",
	}
}

// VersionTooNew creates the fatal "file has later version than caller
// supports" error.
func VersionTooNew(fileVersion, callerVersion uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindVersionTooNew,
		Detail: fmt.Sprintf("file version %d is newer than the %d this caller supports", fileVersion, callerVersion),
	}
}

// MethodMissing creates the error raised at first call when a method present
// in the caller's trait has no counterpart in the callee.
func MethodMissing(methodName string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindMethodMissing,
		Detail: fmt.Sprintf("method %s does not exist in implementation", methodName),
	}
}

// ArgNotLayoutCompatible creates the call-time error for a TraitRef/FnRef
// argument whose compatibility-mask bit is unset.
func ArgNotLayoutCompatible(methodName string, argIndex int) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindArgNotLayoutCompat,
		Detail: fmt.Sprintf("argument %d of method %s is not layout-compatible and cannot be sent by reference", argIndex, methodName),
	}
}

// CalleePanic conveys a caught callee-side panic across the ABI boundary as
// a returned (not re-raised) error.
func CalleePanic(methodName, message string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindCalleePanic,
		Detail: fmt.Sprintf("callee panicked in %s: %s", methodName, message),
	}
}

// AllocationFailure creates an out-of-memory-during-buffer-growth error.
func AllocationFailure(phase Phase, size int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocationFailure,
		Cause:  pkgerrors.WithStack(fmt.Errorf("allocation failed")),
		Detail: fmt.Sprintf("failed to grow buffer to %d bytes", size),
	}
}

// ArityExceeded creates the error for more than 64 arguments in one method,
// or more than the discriminant width's variant count.
func ArityExceeded(phase Phase, detail string) *Error {
	return &Error{Phase: phase, Kind: KindArityExceeded, Detail: detail}
}
