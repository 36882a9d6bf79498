package version

// Effective computes the effective version two sides of an ABI connection
// marshal under: "the minimum of the caller's and the callee's latest known
// schema versions; both sides marshal according to this version" (spec
// glossary, "Effective version").
func Effective(callerLatest, calleeLatest uint32) uint32 {
	if callerLatest < calleeLatest {
		return callerLatest
	}
	return calleeLatest
}
